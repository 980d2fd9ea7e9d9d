package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/giygas/hospi/entities"
	"github.com/giygas/hospi/intake"
	"github.com/giygas/hospi/logging"
	"github.com/giygas/hospi/navigation"
	"github.com/giygas/hospi/search"
	"github.com/giygas/hospi/session"
	"github.com/go-chi/chi/v5"
)

// StatsResponse is the dashboard statistics document
type StatsResponse struct {
	TotalPatients int `json:"totalPatients"`
	NewlyAdmitted int `json:"newlyAdmitted"`
	AvailableBeds int `json:"availableBeds"`
	ActiveDoctors int `json:"activeDoctors"`
}

// NavigationResponse describes what a session currently shows
type NavigationResponse struct {
	Route    string            `json:"route"`
	Path     string            `json:"path"`
	Title    string            `json:"title"`
	View     string            `json:"view"`
	Search   string            `json:"search"`
	Selected *entities.Patient `json:"selected"`
}

type navigateRequest struct {
	Route string `json:"route"`
}

func navigationState(s *session.Session) NavigationResponse {
	route := s.Nav.Route()
	resp := NavigationResponse{
		Route:  route.String(),
		Path:   route.Path(),
		Title:  route.Title(),
		View:   s.Nav.View().String(),
		Search: s.Search(),
	}
	if p, ok := s.Nav.Selected(); ok {
		resp.Selected = &p
	}
	return resp
}

// ListPatients returns the session's patients, newest first. The search
// parameter filters by name or ID; without it the session's list query applies.
func (h *HTTPHandlerImpl) ListPatients(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Has("search") {
		if err := h.validator.ValidateSearch(query.Get("search")); err != nil {
			logging.Warn("Unusual user input", "search", query.Get("search"), "error", err)
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	s := h.sessions.FromRequest(w, r)

	var results []entities.Patient
	s.Do(func(s *session.Session) {
		q := s.Search()
		if query.Has("search") {
			q = query.Get("search")
		}
		results = search.Filter(s.Store.List(), q)
	})

	if results == nil {
		results = []entities.Patient{}
	}
	RespondWithJSON(w, http.StatusOK, results)
}

// GetPatient returns one patient of the session
func (h *HTTPHandlerImpl) GetPatient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.validator.ValidatePatientID(id); err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	s := h.sessions.FromRequest(w, r)

	var (
		p  entities.Patient
		ok bool
	)
	s.Do(func(s *session.Session) {
		p, ok = s.Store.Get(id)
	})

	if !ok {
		RespondWithError(w, http.StatusNotFound, "Patient not found")
		return
	}
	RespondWithJSON(w, http.StatusOK, p)
}

// CreatePatient registers a patient from a JSON body using the form field names
func (h *HTTPHandlerImpl) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var fields intake.Fields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	s := h.sessions.FromRequest(w, r)

	var (
		p   entities.Patient
		err error
	)
	s.Do(func(s *session.Session) {
		p, err = intake.Submit(s, fields, h.now())
	})

	if err != nil {
		var verr *intake.ValidationError
		if errors.As(err, &verr) {
			RespondWithFieldErrors(w, http.StatusUnprocessableEntity, "Patient rejected", verr.FieldErrors())
			return
		}
		logging.Error("Patient intake failed", "error", err)
		RespondWithError(w, http.StatusInternalServerError, "Patient could not be registered")
		return
	}

	RespondWithJSON(w, http.StatusCreated, p)
}

// GetStats returns the dashboard statistics
func (h *HTTPHandlerImpl) GetStats(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.FromRequest(w, r)

	var resp StatsResponse
	s.Do(func(s *session.Session) {
		resp = StatsResponse{
			TotalPatients: s.Store.Count(),
			NewlyAdmitted: s.Store.AdmittedCount(),
			AvailableBeds: h.dashboard.AvailableBeds,
			ActiveDoctors: h.dashboard.ActiveDoctors,
		}
	})

	RespondWithJSON(w, http.StatusOK, resp)
}

// GetNavigation returns the session's route and overlay
func (h *HTTPHandlerImpl) GetNavigation(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.FromRequest(w, r)

	var resp NavigationResponse
	s.Do(func(s *session.Session) {
		resp = navigationState(s)
	})

	RespondWithJSON(w, http.StatusOK, resp)
}

// Navigate switches the session's route from a {"route": "/patients"} body
func (h *HTTPHandlerImpl) Navigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	route, ok := navigation.RouteFromPath(req.Route)
	if !ok {
		RespondWithError(w, http.StatusBadRequest, "Unknown route: "+req.Route)
		return
	}

	s := h.sessions.FromRequest(w, r)

	var resp NavigationResponse
	s.Do(func(s *session.Session) {
		s.Navigate(route)
		resp = navigationState(s)
	})

	RespondWithJSON(w, http.StatusOK, resp)
}

// SelectPatientAPI opens the detail overlay for a patient
func (h *HTTPHandlerImpl) SelectPatientAPI(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.validator.ValidatePatientID(id); err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	s := h.sessions.FromRequest(w, r)

	var (
		resp  NavigationResponse
		found bool
	)
	s.Do(func(s *session.Session) {
		p, ok := s.Store.Get(id)
		if !ok {
			return
		}
		s.Nav.Select(p)
		found = true
		resp = navigationState(s)
	})

	if !found {
		RespondWithError(w, http.StatusNotFound, "Patient not found")
		return
	}
	RespondWithJSON(w, http.StatusOK, resp)
}

// ClearSelection dismisses the detail overlay
func (h *HTTPHandlerImpl) ClearSelection(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.FromRequest(w, r)

	var resp NavigationResponse
	s.Do(func(s *session.Session) {
		s.Nav.Back()
		resp = navigationState(s)
	})

	RespondWithJSON(w, http.StatusOK, resp)
}
