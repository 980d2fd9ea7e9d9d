// Package data provides the in-memory patient store owned by each session.
// Reads go through atomic snapshots so views never observe a half-applied add;
// writes are serialized and swap in a fresh slice.
package data

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/giygas/hospi/entities"
	"github.com/giygas/hospi/interfaces"
	"github.com/giygas/hospi/logging"
)

// Compile-time check to ensure PatientStore implements interfaces.PatientStore
var _ interfaces.PatientStore = (*PatientStore)(nil)

// idPrefix is prepended to the sequence number of every generated identifier
const idPrefix = "P"

// PatientStore holds the ordered patient list (newest first) and the
// "newly admitted" counter, which is independent of the list length.
type PatientStore struct {
	patients    atomic.Value // []entities.Patient
	patientsMap atomic.Value // map[string]entities.Patient
	lastUpdated atomic.Value // time.Time
	admitted    atomic.Int64

	mu  sync.Mutex // serializes Add and NextID
	seq int
}

// NewPatientStore creates a store holding seed, in order, with the admitted counter pre-set
func NewPatientStore(seed []entities.Patient, admitted int) *PatientStore {
	ps := &PatientStore{}

	patients := make([]entities.Patient, len(seed))
	copy(patients, seed)

	patientsMap := make(map[string]entities.Patient, len(patients))
	for _, p := range patients {
		patientsMap[p.ID] = p
		if n := sequenceOf(p.ID); n > ps.seq {
			ps.seq = n
		}
	}

	ps.patients.Store(patients)
	ps.patientsMap.Store(patientsMap)
	ps.lastUpdated.Store(time.Time{})
	ps.admitted.Store(int64(admitted))

	return ps
}

// NewSeededStore creates the store every session starts with
func NewSeededStore() *PatientStore {
	return NewPatientStore(entities.SeedPatients(), entities.SeedAdmittedCount)
}

// sequenceOf extracts N from an identifier of the form P<N>, or 0
func sequenceOf(id string) int {
	digits, ok := strings.CutPrefix(id, idPrefix)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Thread-safe getters with type check

func (ps *PatientStore) snapshot() []entities.Patient {
	if v := ps.patients.Load(); v != nil {
		if patients, ok := v.([]entities.Patient); ok {
			return patients
		}
	}

	logging.Warn("Patient list is empty or invalid")
	return []entities.Patient{}
}

func (ps *PatientStore) index() map[string]entities.Patient {
	if v := ps.patientsMap.Load(); v != nil {
		if patientsMap, ok := v.(map[string]entities.Patient); ok {
			return patientsMap
		}
	}

	logging.Warn("Patient map is empty or invalid")
	return make(map[string]entities.Patient)
}

// List returns a copy of the patients, newest first
func (ps *PatientStore) List() []entities.Patient {
	current := ps.snapshot()
	out := make([]entities.Patient, len(current))
	copy(out, current)
	return out
}

// Count returns the number of patients (the "Total Patients" statistic)
func (ps *PatientStore) Count() int {
	return len(ps.snapshot())
}

// AdmittedCount returns the "newly admitted" counter
func (ps *PatientStore) AdmittedCount() int {
	return int(ps.admitted.Load())
}

// Get looks a patient up by identifier
func (ps *PatientStore) Get(id string) (entities.Patient, bool) {
	p, ok := ps.index()[id]
	return p, ok
}

// LastUpdated returns the time of the last Add, zero if only seeds are present
func (ps *PatientStore) LastUpdated() time.Time {
	if v := ps.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// NextID reserves the next identifier of the store's monotonic sequence.
// Identifiers already present in the store are skipped.
func (ps *PatientStore) NextID() string {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	existing := ps.index()
	for {
		ps.seq++
		id := fmt.Sprintf("%s%03d", idPrefix, ps.seq)
		if _, taken := existing[id]; !taken {
			return id
		}
	}
}

// Add inserts p at the front of the list and increments the admitted counter
func (ps *PatientStore) Add(p entities.Patient) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	current := ps.snapshot()
	patients := make([]entities.Patient, 0, len(current)+1)
	patients = append(patients, p)
	patients = append(patients, current...)

	currentMap := ps.index()
	patientsMap := make(map[string]entities.Patient, len(currentMap)+1)
	for id, existing := range currentMap {
		patientsMap[id] = existing
	}
	patientsMap[p.ID] = p

	if n := sequenceOf(p.ID); n > ps.seq {
		ps.seq = n
	}

	ps.patients.Store(patients)
	ps.patientsMap.Store(patientsMap)
	ps.lastUpdated.Store(time.Now())
	ps.admitted.Add(1)

	logging.Debug("Patient added", "id", p.ID, "total", len(patients), "admitted", ps.admitted.Load())
}
