// Package interfaces defines the core abstractions of the patient application
// so handlers, health checks and the scheduler can be tested against doubles.
package interfaces

import (
	"time"

	"github.com/giygas/hospi/entities"
)

// PatientStore defines the contract for one session's patient records.
// Records are only ever added; the admitted counter moves with every add.
type PatientStore interface {
	List() []entities.Patient
	Count() int
	AdmittedCount() int
	Get(id string) (entities.Patient, bool)
	NextID() string
	Add(p entities.Patient)
	LastUpdated() time.Time
}

// SessionStats is a point-in-time summary across all live sessions
type SessionStats struct {
	Active        int
	TotalPatients int
	LastSweep     time.Time
}

// SessionStore defines the contract for the session registry
type SessionStore interface {
	// Sweep evicts sessions idle for longer than maxIdle and returns how many were removed
	Sweep(maxIdle time.Duration, now time.Time) int
	Stats() SessionStats
}

// Scheduler defines the contract for background jobs.
type Scheduler interface {
	Start() error
	Stop()
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	// HealthCheck returns current system health status, details and the HTTP status to answer with
	HealthCheck() (status string, details map[string]any, httpStatus int)
}

// InputValidator validates user input coming from URLs and query strings
type InputValidator interface {
	ValidateSearch(query string) error
	ValidatePatientID(id string) error
}
