// Package entities holds the patient record and the fixed enumerations used by
// the hospital patient-management application.
package entities

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	ErrUnknownGender       = errors.New("unknown gender")
	ErrUnknownHealthStatus = errors.New("unknown health status")
)

// Gender is one of the values offered by the intake form
type Gender string

const (
	GenderMale   Gender = "Masculin"
	GenderFemale Gender = "Féminin"
)

// Genders returns the gender values in form order, the first one being the default option
func Genders() []Gender {
	return []Gender{GenderMale, GenderFemale}
}

// ParseGender matches s exactly against the known genders
func ParseGender(s string) (Gender, error) {
	for _, g := range Genders() {
		if string(g) == s {
			return g, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGender, s)
}

// HealthStatus is the patient's current condition
type HealthStatus string

const (
	StatusStable    HealthStatus = "Stable"
	StatusImproving HealthStatus = "En amélioration"
	StatusCritical  HealthStatus = "Critique"
)

// HealthStatuses returns the status values in form order
func HealthStatuses() []HealthStatus {
	return []HealthStatus{StatusStable, StatusImproving, StatusCritical}
}

// ParseHealthStatus matches s exactly against the known statuses
func ParseHealthStatus(s string) (HealthStatus, error) {
	for _, hs := range HealthStatuses() {
		if string(hs) == s {
			return hs, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownHealthStatus, s)
}

// BadgeClass returns the CSS class used to colour the status chip
func (hs HealthStatus) BadgeClass() string {
	switch hs {
	case StatusStable:
		return "status-stable"
	case StatusImproving:
		return "status-improving"
	case StatusCritical:
		return "status-critical"
	default:
		return "status-unknown"
	}
}

// Patient is one hospital patient. Records are never modified once created:
// Age is computed at creation time and is not refreshed afterwards.
type Patient struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	BirthDate     string       `json:"birthDate"`
	Age           int          `json:"age"`
	Gender        Gender       `json:"gender"`
	Phone         string       `json:"phone,omitempty"`
	Address       string       `json:"address,omitempty"`
	LastVisit     string       `json:"lastVisit"`
	Illness       string       `json:"illness,omitempty"`
	LastVisitInfo string       `json:"lastVisitInfo,omitempty"`
	HealthStatus  HealthStatus `json:"healthStatus"`
}

// Initial returns the first letter of the patient's name, used as avatar
func (p Patient) Initial() string {
	r, size := utf8.DecodeRuneInString(p.Name)
	if size == 0 || r == utf8.RuneError {
		return "?"
	}
	return string(r)
}
