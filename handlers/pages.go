package handlers

import (
	"errors"
	"net/http"

	"github.com/giygas/hospi/intake"
	"github.com/giygas/hospi/logging"
	"github.com/giygas/hospi/navigation"
	"github.com/giygas/hospi/session"
	"github.com/go-chi/chi/v5"
)

// ServeDashboard navigates to the dashboard and renders the current view
func (h *HTTPHandlerImpl) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	h.serveRoute(w, r, navigation.Dashboard)
}

// ServeAddPatientForm navigates to the intake form and renders the current view
func (h *HTTPHandlerImpl) ServeAddPatientForm(w http.ResponseWriter, r *http.Request) {
	h.serveRoute(w, r, navigation.AddPatient)
}

// ServePatientList navigates to the list. A q parameter replaces the session's
// search query; without it the previous query is kept.
func (h *HTTPHandlerImpl) ServePatientList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Has("q") {
		if err := h.validator.ValidateSearch(query.Get("q")); err != nil {
			logging.Warn("Unusual user input", "q", query.Get("q"), "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	s := h.sessions.FromRequest(w, r)

	var page pageData
	s.Do(func(s *session.Session) {
		s.Navigate(navigation.PatientList)
		if query.Has("q") {
			s.SetSearch(query.Get("q"))
		}
		page = h.buildPage(s, formState{})
	})

	renderPage(w, http.StatusOK, page)
}

func (h *HTTPHandlerImpl) serveRoute(w http.ResponseWriter, r *http.Request, route navigation.Route) {
	s := h.sessions.FromRequest(w, r)

	var page pageData
	s.Do(func(s *session.Session) {
		s.Navigate(route)
		page = h.buildPage(s, formState{})
	})

	renderPage(w, http.StatusOK, page)
}

// SubmitPatient handles the intake form. On success the browser is sent to
// the patient list; otherwise the form is shown again with its values and
// the reason next to each rejected field.
func (h *HTTPHandlerImpl) SubmitPatient(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	fields := intake.FieldsFromForm(r.PostForm)
	s := h.sessions.FromRequest(w, r)

	var (
		page      pageData
		submitErr error
	)
	s.Do(func(s *session.Session) {
		if _, submitErr = intake.Submit(s, fields, h.now()); submitErr == nil {
			return
		}
		form := formState{Values: fields}
		var verr *intake.ValidationError
		if errors.As(submitErr, &verr) {
			form.Errors = verr.FieldErrors()
		}
		page = h.buildPage(s, form)
	})

	if submitErr != nil {
		renderPage(w, http.StatusUnprocessableEntity, page)
		return
	}

	http.Redirect(w, r, navigation.PatientList.Path(), http.StatusSeeOther)
}

// SelectPatient opens the detail overlay for the patient in the URL and
// sends the browser back to the screen it came from.
func (h *HTTPHandlerImpl) SelectPatient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.validator.ValidatePatientID(id); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s := h.sessions.FromRequest(w, r)

	var (
		found bool
		back  string
	)
	s.Do(func(s *session.Session) {
		p, ok := s.Store.Get(id)
		if ok {
			s.Nav.Select(p)
			found = true
		}
		back = s.Nav.Route().Path()
	})

	if !found {
		http.Error(w, "Patient not found", http.StatusNotFound)
		return
	}

	http.Redirect(w, r, back, http.StatusSeeOther)
}

// CloseDetail dismisses the detail overlay, uncovering the routed screen
func (h *HTTPHandlerImpl) CloseDetail(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.FromRequest(w, r)

	var back string
	s.Do(func(s *session.Session) {
		s.Nav.Back()
		back = s.Nav.Route().Path()
	})

	http.Redirect(w, r, back, http.StatusSeeOther)
}
