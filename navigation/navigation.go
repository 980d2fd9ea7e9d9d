// Package navigation tracks which screen a session shows. The routed screen
// and the patient-detail overlay are two independent fields: selecting or
// dismissing a patient never changes the route, and changing the route never
// dismisses the overlay.
package navigation

import (
	"github.com/giygas/hospi/entities"
)

// Route is one of the three top-level screens
type Route int

const (
	Dashboard Route = iota
	PatientList
	AddPatient
)

var routePaths = map[Route]string{
	Dashboard:   "/",
	PatientList: "/patients",
	AddPatient:  "/add-patient",
}

var routeTitles = map[Route]string{
	Dashboard:   "Tableau de Bord",
	PatientList: "Gestion des Patients",
	AddPatient:  "Ajouter un Nouveau Patient",
}

// Routes returns every route in menu order
func Routes() []Route {
	return []Route{Dashboard, PatientList, AddPatient}
}

// Path returns the URL path the route is served on
func (r Route) Path() string {
	if p, ok := routePaths[r]; ok {
		return p
	}
	return routePaths[Dashboard]
}

// Title returns the screen heading
func (r Route) Title() string {
	return routeTitles[r]
}

func (r Route) String() string {
	switch r {
	case Dashboard:
		return "dashboard"
	case PatientList:
		return "patients"
	case AddPatient:
		return "add-patient"
	default:
		return "unknown"
	}
}

// RouteFromPath maps a URL path to its route. Unknown paths give Dashboard, false.
func RouteFromPath(path string) (Route, bool) {
	for r, p := range routePaths {
		if p == path {
			return r, true
		}
	}
	return Dashboard, false
}

// View is what a session should render right now
type View int

const (
	ViewDashboard View = iota
	ViewPatientList
	ViewAddPatient
	ViewDetail
)

func (v View) String() string {
	switch v {
	case ViewDashboard:
		return "dashboard"
	case ViewPatientList:
		return "patients"
	case ViewAddPatient:
		return "add-patient"
	case ViewDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// Controller holds the routed screen and the optional detail overlay.
// It is not safe for concurrent use; the owning session serializes access.
type Controller struct {
	route    Route
	selected *entities.Patient
}

// NewController starts on the dashboard with no overlay
func NewController() *Controller {
	return &Controller{route: Dashboard}
}

// Route returns the routed screen, whether or not the overlay hides it
func (c *Controller) Route() Route {
	return c.route
}

// Selected returns the patient shown in the detail overlay, if any
func (c *Controller) Selected() (entities.Patient, bool) {
	if c.selected == nil {
		return entities.Patient{}, false
	}
	return *c.selected, true
}

// Navigate changes the routed screen. An open overlay stays open.
func (c *Controller) Navigate(route Route) {
	c.route = route
}

// Select opens the detail overlay on p
func (c *Controller) Select(p entities.Patient) {
	c.selected = &p
}

// Back dismisses the detail overlay, revealing the routed screen again
func (c *Controller) Back() {
	c.selected = nil
}

// View resolves what to render: the overlay wins over the route
func (c *Controller) View() View {
	if c.selected != nil {
		return ViewDetail
	}

	switch c.route {
	case PatientList:
		return ViewPatientList
	case AddPatient:
		return ViewAddPatient
	default:
		return ViewDashboard
	}
}
