// Package search filters the patient list from the free-text query typed on the list screen.
package search

import (
	"strings"

	"github.com/giygas/hospi/entities"
	"golang.org/x/text/cases"
)

// Filter returns the patients whose name or identifier contains query,
// ignoring case. The empty query returns patients unchanged. Relative order
// is always preserved and the input slice is never modified.
func Filter(patients []entities.Patient, query string) []entities.Patient {
	if query == "" {
		return patients
	}

	// cases.Caser is stateful, so each call gets its own
	fold := cases.Fold()
	needle := fold.String(query)

	results := make([]entities.Patient, 0, len(patients))
	for _, p := range patients {
		if strings.Contains(fold.String(p.Name), needle) || strings.Contains(fold.String(p.ID), needle) {
			results = append(results, p)
		}
	}

	return results
}
