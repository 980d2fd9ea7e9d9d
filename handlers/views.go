package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/giygas/hospi/entities"
	"github.com/giygas/hospi/intake"
	"github.com/giygas/hospi/logging"
	"github.com/giygas/hospi/navigation"
	"github.com/giygas/hospi/search"
	"github.com/giygas/hospi/session"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(
	template.New("pages").Funcs(template.FuncMap{
		"orDefault": orDefault,
	}).ParseFS(templateFS, "templates/*.html"),
)

// menuLabels are the sidebar entries, which differ from the screen titles
var menuLabels = map[navigation.Route]string{
	navigation.Dashboard:   "Tableau de Bord",
	navigation.PatientList: "Patients",
	navigation.AddPatient:  "Ajouter Patient",
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

type navItem struct {
	Path   string
	Label  string
	Active bool
}

type statCard struct {
	Key   string
	Label string
	Value int
}

type dashboardStats struct {
	Cards []statCard
}

type formState struct {
	Values intake.Fields
	Errors map[string]string
}

// pageData is everything a screen needs, captured while the session is locked
type pageData struct {
	View         string
	Title        string
	NavItems     []navItem
	Notification string

	Stats    dashboardStats
	Search   string
	Patients []entities.Patient
	Form     formState
	Genders  []entities.Gender
	Statuses []entities.HealthStatus
	Detail   entities.Patient
}

// buildPage snapshots the session into a pageData. It consumes the pending
// notification, so it must run inside s.Do exactly once per rendered view.
func (h *HTTPHandlerImpl) buildPage(s *session.Session, form formState) pageData {
	route := s.Nav.Route()
	view := s.Nav.View()

	page := pageData{
		View:     view.String(),
		Title:    route.Title(),
		NavItems: make([]navItem, 0, len(navigation.Routes())),
		Form:     form,
		Genders:  entities.Genders(),
		Statuses: entities.HealthStatuses(),
	}

	for _, r := range navigation.Routes() {
		page.NavItems = append(page.NavItems, navItem{Path: r.Path(), Label: menuLabels[r], Active: r == route})
	}

	if msg, ok := s.TakeNotification(); ok {
		page.Notification = msg
	}

	switch view {
	case navigation.ViewDetail:
		page.Detail, _ = s.Nav.Selected()
		page.Title = "Détails du Patient"
	case navigation.ViewPatientList:
		page.Search = s.Search()
		page.Patients = search.Filter(s.Store.List(), page.Search)
	case navigation.ViewDashboard:
		page.Stats = h.stats(s)
	}

	return page
}

func (h *HTTPHandlerImpl) stats(s *session.Session) dashboardStats {
	return dashboardStats{Cards: []statCard{
		{Key: "total_patients", Label: "Total Patients", Value: s.Store.Count()},
		{Key: "newly_admitted", Label: "Nouveaux Admis", Value: s.Store.AdmittedCount()},
		{Key: "available_beds", Label: "Lits Disponibles", Value: h.dashboard.AvailableBeds},
		{Key: "active_doctors", Label: "Médecins Actifs", Value: h.dashboard.ActiveDoctors},
	}}
}

// renderPage executes the layout into a buffer first so a template failure
// can still be answered with a clean 500.
func renderPage(w http.ResponseWriter, code int, page pageData) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, "layout", page); err != nil {
		logging.Error("Failed to render page", "view", page.View, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		logging.Debug("Failed to write page", "error", err)
	}
}
