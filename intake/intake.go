// Package intake turns a submitted add-patient form into a new patient record.
package intake

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/giygas/hospi/age"
	"github.com/giygas/hospi/entities"
	"github.com/giygas/hospi/logging"
	"github.com/giygas/hospi/metrics"
	"github.com/giygas/hospi/navigation"
	"github.com/giygas/hospi/session"
)

// Form field names
const (
	FieldFullName      = "fullName"
	FieldBirthDate     = "birthDate"
	FieldGender        = "gender"
	FieldPhone         = "phone"
	FieldAddress       = "address"
	FieldIllness       = "illness"
	FieldLastVisitInfo = "lastVisitInfo"
	FieldHealthStatus  = "healthStatus"
)

// SuccessMessage is the notification shown after a patient is registered
const SuccessMessage = "Patient ajouté avec succès !"

var (
	ErrMissingField = errors.New("required field missing")
	ErrInvalidField = errors.New("invalid field value")
)

// RequiredFields lists the fields that must be filled, in form order
func RequiredFields() []string {
	return []string{FieldFullName, FieldBirthDate, FieldGender, FieldPhone, FieldAddress, FieldHealthStatus}
}

// Fields are the raw values of the add-patient form
type Fields struct {
	FullName      string `json:"fullName"`
	BirthDate     string `json:"birthDate"`
	Gender        string `json:"gender"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Illness       string `json:"illness"`
	LastVisitInfo string `json:"lastVisitInfo"`
	HealthStatus  string `json:"healthStatus"`
}

// FieldsFromForm reads the form values by field name
func FieldsFromForm(form url.Values) Fields {
	return Fields{
		FullName:      form.Get(FieldFullName),
		BirthDate:     form.Get(FieldBirthDate),
		Gender:        form.Get(FieldGender),
		Phone:         form.Get(FieldPhone),
		Address:       form.Get(FieldAddress),
		Illness:       form.Get(FieldIllness),
		LastVisitInfo: form.Get(FieldLastVisitInfo),
		HealthStatus:  form.Get(FieldHealthStatus),
	}
}

func (f Fields) value(name string) string {
	switch name {
	case FieldFullName:
		return f.FullName
	case FieldBirthDate:
		return f.BirthDate
	case FieldGender:
		return f.Gender
	case FieldPhone:
		return f.Phone
	case FieldAddress:
		return f.Address
	case FieldIllness:
		return f.Illness
	case FieldLastVisitInfo:
		return f.LastVisitInfo
	case FieldHealthStatus:
		return f.HealthStatus
	}
	return ""
}

// ValidationError lists every field that blocked the submission with the reason
type ValidationError struct {
	Missing []string
	Invalid map[string]string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.Invalid) > 0 {
		names := make([]string, 0, len(e.Invalid))
		for name := range e.Invalid {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s: %s", name, e.Invalid[name]))
		}
	}
	return strings.Join(parts, "; ")
}

// Is reports ErrMissingField and ErrInvalidField according to the recorded problems
func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrMissingField:
		return len(e.Missing) > 0
	case ErrInvalidField:
		return len(e.Invalid) > 0
	}
	return false
}

// FieldErrors returns a reason per offending field, for display next to the inputs
func (e *ValidationError) FieldErrors() map[string]string {
	out := make(map[string]string, len(e.Missing)+len(e.Invalid))
	for _, name := range e.Missing {
		out[name] = "Ce champ est obligatoire."
	}
	for name, reason := range e.Invalid {
		out[name] = reason
	}
	return out
}

// Validate checks required fields and the format of enumerated and date fields.
// Whitespace-only values count as missing.
func Validate(f Fields) error {
	verr := &ValidationError{Invalid: make(map[string]string)}

	for _, name := range RequiredFields() {
		if strings.TrimSpace(f.value(name)) == "" {
			verr.Missing = append(verr.Missing, name)
		}
	}

	if f.BirthDate != "" {
		if _, err := age.ParseDate(f.BirthDate); err != nil {
			verr.Invalid[FieldBirthDate] = "Date invalide, format attendu AAAA-MM-JJ."
		}
	}
	if f.Gender != "" {
		if _, err := entities.ParseGender(f.Gender); err != nil {
			verr.Invalid[FieldGender] = "Genre inconnu."
		}
	}
	if f.HealthStatus != "" {
		if _, err := entities.ParseHealthStatus(f.HealthStatus); err != nil {
			verr.Invalid[FieldHealthStatus] = "État de santé inconnu."
		}
	}

	if len(verr.Missing) > 0 || len(verr.Invalid) > 0 {
		return verr
	}
	return nil
}

// Build validates f and constructs the record created on today
func Build(f Fields, id string, today time.Time) (entities.Patient, error) {
	if err := Validate(f); err != nil {
		return entities.Patient{}, err
	}

	gender, _ := entities.ParseGender(f.Gender)
	status, _ := entities.ParseHealthStatus(f.HealthStatus)

	return entities.Patient{
		ID:            id,
		Name:          strings.TrimSpace(f.FullName),
		BirthDate:     f.BirthDate,
		Age:           age.ComputeAge(f.BirthDate, today),
		Gender:        gender,
		Phone:         strings.TrimSpace(f.Phone),
		Address:       strings.TrimSpace(f.Address),
		LastVisit:     age.FormatDate(today),
		Illness:       strings.TrimSpace(f.Illness),
		LastVisitInfo: strings.TrimSpace(f.LastVisitInfo),
		HealthStatus:  status,
	}, nil
}

// Submit registers a new patient in s. On a validation error nothing changes:
// no record is added and the route stays where it was. On success the record
// is prepended to the store, a notification is queued and the session is
// sent to the patient list. Must be called from within s.Do.
func Submit(s *session.Session, f Fields, today time.Time) (entities.Patient, error) {
	if err := Validate(f); err != nil {
		recordRejection(err)
		logging.Debug("Patient intake rejected", "session_id", s.ID, "error", err)
		return entities.Patient{}, err
	}

	p, err := Build(f, s.Store.NextID(), today)
	if err != nil {
		return entities.Patient{}, err
	}

	s.Store.Add(p)
	s.Notify(SuccessMessage)
	s.Navigate(navigation.PatientList)

	metrics.PatientsAdmitted.Inc()
	logging.Info("Patient registered", "session_id", s.ID, "patient_id", p.ID, "total", s.Store.Count())

	return p, nil
}

func recordRejection(err error) {
	switch {
	case errors.Is(err, ErrMissingField):
		metrics.IntakeRejections.WithLabelValues("missing_field").Inc()
	case errors.Is(err, ErrInvalidField):
		metrics.IntakeRejections.WithLabelValues("invalid_field").Inc()
	}
}
