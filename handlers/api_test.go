package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/giygas/hospi/entities"
)

const validPatientJSON = `{
	"fullName": "Awa Sow",
	"birthDate": "1990-07-14",
	"gender": "Féminin",
	"phone": "770000001",
	"address": "Thiès",
	"illness": "Grippe",
	"healthStatus": "En amélioration"
}`

func TestListPatients(t *testing.T) {
	_, router := newTestRouter(t)
	c := newTestClient(t, router)

	tests := []struct {
		name        string
		target      string
		expectedIDs []string
	}{
		{"all seeds", "/v1/patients", []string{"P001", "P002", "P003", "P004", "P005"}},
		{"by name", "/v1/patients?search=DIOP", []string{"P005"}},
		{"by id", "/v1/patients?search=p004", []string{"P004"}},
		{"accented query", "/v1/patients?search=traoré", []string{"P001"}},
		{"no match", "/v1/patients?search=nobody", []string{}},
		{"whitespace is part of the query", "/v1/patients?search=%20%20", []string{}},
		{"trailing space after id", "/v1/patients?search=P001%20", []string{}},
		{"space inside name", "/v1/patients?search=a%20d", []string{"P002"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := c.get(tt.target)
			if rr.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d", rr.Code)
			}
			patients := decodeJSON[[]entities.Patient](t, rr)
			if len(patients) != len(tt.expectedIDs) {
				t.Fatalf("Expected %d patients, got %d", len(tt.expectedIDs), len(patients))
			}
			for i, id := range tt.expectedIDs {
				if patients[i].ID != id {
					t.Errorf("Position %d: expected %s, got %s", i, id, patients[i].ID)
				}
			}
		})
	}
}

func TestListPatientsUsesSessionSearch(t *testing.T) {
	_, router := newTestRouter(t)
	c := newTestClient(t, router)

	c.get("/patients?q=moussa")

	patients := decodeJSON[[]entities.Patient](t, c.get("/v1/patients"))
	if len(patients) != 1 || patients[0].ID != "P002" {
		t.Errorf("Expected only P002 from the session query, got %+v", patients)
	}
}

func TestListPatientsInvalidSearch(t *testing.T) {
	_, router := newTestRouter(t)
	c := newTestClient(t, router)

	rr := c.get("/v1/patients?search=" + strings.Repeat("x", 101))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rr.Code)
	}
}

func TestGetPatient(t *testing.T) {
	_, router := newTestRouter(t)
	c := newTestClient(t, router)

	tests := []struct {
		id       string
		expected int
	}{
		{"P001", http.StatusOK},
		{"P999", http.StatusNotFound},
		{"1", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			rr := c.get("/v1/patients/" + tt.id)
			if rr.Code != tt.expected {
				t.Fatalf("Expected %d, got %d", tt.expected, rr.Code)
			}
			if tt.expected == http.StatusOK {
				p := decodeJSON[entities.Patient](t, rr)
				if p.Name != "Amina Traoré" || p.Age != 34 {
					t.Errorf("Unexpected patient %+v", p)
				}
			}
		})
	}
}

func TestCreatePatient(t *testing.T) {
	_, router := newTestRouter(t)
	c := newTestClient(t, router)

	rr := c.sendJSON(http.MethodPost, "/v1/patients", validPatientJSON)
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	p := decodeJSON[entities.Patient](t, rr)
	if p.ID != "P006" {
		t.Errorf("Expected id P006, got %s", p.ID)
	}
	if p.Age != 34 {
		t.Errorf("Expected age 34, got %d", p.Age)
	}
	if p.HealthStatus != entities.StatusImproving || p.Gender != entities.GenderFemale {
		t.Errorf("Unexpected enums %q %q", p.Gender, p.HealthStatus)
	}
	if p.LastVisitInfo != "" {
		t.Errorf("Expected empty visit info, got %q", p.LastVisitInfo)
	}

	patients := decodeJSON[[]entities.Patient](t, c.get("/v1/patients"))
	if len(patients) != 6 || patients[0].ID != "P006" {
		t.Errorf("Expected the new patient first of 6, got %d patients", len(patients))
	}

	nav := decodeJSON[NavigationResponse](t, c.get("/v1/navigation"))
	if nav.Route != "patients" {
		t.Errorf("Expected navigation to the patient list, got %s", nav.Route)
	}
}

func TestCreatePatientRejected(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedFields []string
	}{
		{
			name:           "malformed json",
			body:           `{"fullName":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty object",
			body:           `{}`,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedFields: []string{"fullName", "birthDate", "gender", "phone", "address", "healthStatus"},
		},
		{
			name:           "unknown enum values",
			body:           strings.Replace(strings.Replace(validPatientJSON, `"Féminin"`, `"Autre"`, 1), `"En amélioration"`, `"Guéri"`, 1),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedFields: []string{"gender", "healthStatus"},
		},
		{
			name:           "bad date",
			body:           strings.Replace(validPatientJSON, `"1990-07-14"`, `"14/07/1990"`, 1),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedFields: []string{"birthDate"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, router := newTestRouter(t)
			c := newTestClient(t, router)

			rr := c.sendJSON(http.MethodPost, "/v1/patients", tt.body)
			if rr.Code != tt.expectedStatus {
				t.Fatalf("Expected %d, got %d: %s", tt.expectedStatus, rr.Code, rr.Body.String())
			}

			body := decodeJSON[map[string]any](t, rr)
			if len(tt.expectedFields) > 0 {
				fields, ok := body["fields"].(map[string]any)
				if !ok {
					t.Fatalf("Expected fields in %v", body)
				}
				if len(fields) != len(tt.expectedFields) {
					t.Errorf("Expected %d rejected fields, got %v", len(tt.expectedFields), fields)
				}
				for _, f := range tt.expectedFields {
					if _, ok := fields[f]; !ok {
						t.Errorf("Expected field %s to be rejected", f)
					}
				}
			}

			stats := decodeJSON[StatsResponse](t, c.get("/v1/stats"))
			if stats.TotalPatients != 5 || stats.NewlyAdmitted != 5 {
				t.Errorf("Expected nothing added, got %+v", stats)
			}
		})
	}
}

func TestGetStats(t *testing.T) {
	_, router := newTestRouter(t)
	c := newTestClient(t, router)

	stats := decodeJSON[StatsResponse](t, c.get("/v1/stats"))
	expected := StatsResponse{TotalPatients: 5, NewlyAdmitted: 5, AvailableBeds: 32, ActiveDoctors: 8}
	if stats != expected {
		t.Errorf("Expected %+v, got %+v", expected, stats)
	}
}

func TestNavigationAPI(t *testing.T) {
	_, router := newTestRouter(t)
	c := newTestClient(t, router)

	nav := decodeJSON[NavigationResponse](t, c.get("/v1/navigation"))
	if nav.Route != "dashboard" || nav.Path != "/" || nav.View != "dashboard" || nav.Selected != nil {
		t.Errorf("Unexpected initial navigation %+v", nav)
	}

	rr := c.sendJSON(http.MethodPut, "/v1/navigation", `{"route": "/patients"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	nav = decodeJSON[NavigationResponse](t, rr)
	if nav.Route != "patients" || nav.Title != "Gestion des Patients" {
		t.Errorf("Unexpected navigation %+v", nav)
	}

	rr = c.do(http.MethodPost, "/v1/navigation/select/P002", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	nav = decodeJSON[NavigationResponse](t, rr)
	if nav.View != "detail" || nav.Selected == nil || nav.Selected.Name != "Moussa Diallo" {
		t.Errorf("Expected detail overlay for Moussa Diallo, got %+v", nav)
	}

	// Explicit navigation keeps the overlay
	nav = decodeJSON[NavigationResponse](t, c.sendJSON(http.MethodPut, "/v1/navigation", `{"route": "/"}`))
	if nav.Route != "dashboard" || nav.Selected == nil {
		t.Errorf("Expected overlay to survive navigation, got %+v", nav)
	}

	nav = decodeJSON[NavigationResponse](t, c.do(http.MethodDelete, "/v1/navigation/select", nil, ""))
	if nav.Route != "dashboard" || nav.View != "dashboard" || nav.Selected != nil {
		t.Errorf("Expected dashboard without overlay, got %+v", nav)
	}
}

func TestNavigationAPIErrors(t *testing.T) {
	_, router := newTestRouter(t)
	c := newTestClient(t, router)

	tests := []struct {
		name     string
		method   string
		target   string
		body     string
		expected int
	}{
		{"unknown route", http.MethodPut, "/v1/navigation", `{"route": "/settings"}`, http.StatusBadRequest},
		{"malformed body", http.MethodPut, "/v1/navigation", `route=/`, http.StatusBadRequest},
		{"unknown patient", http.MethodPost, "/v1/navigation/select/P404", "", http.StatusNotFound},
		{"malformed id", http.MethodPost, "/v1/navigation/select/P4", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rr := c.sendJSON(tt.method, tt.target, tt.body); rr.Code != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, rr.Code)
			}
		})
	}
}
