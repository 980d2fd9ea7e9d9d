// Package validation checks request input before it reaches the session state.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/giygas/hospi/interfaces"
)

// MaxSearchLength is the longest accepted search query, in runes
const MaxSearchLength = 100

var patientIDRegex = regexp.MustCompile(`^P\d{3,}$`)

// Compile-time check to ensure InputValidatorImpl implements interfaces.InputValidator
var _ interfaces.InputValidator = (*InputValidatorImpl)(nil)

// InputValidatorImpl implements the interfaces.InputValidator interface
type InputValidatorImpl struct{}

// NewInputValidator creates a new input validator
func NewInputValidator() interfaces.InputValidator {
	return &InputValidatorImpl{}
}

// ValidateSearch validates a patient list search query.
// An empty query is valid and means "no filter".
func (v *InputValidatorImpl) ValidateSearch(query string) error {
	if !utf8.ValidString(query) {
		return fmt.Errorf("search query is not valid UTF-8")
	}

	if n := utf8.RuneCountInString(query); n > MaxSearchLength {
		return fmt.Errorf("search query too long: maximum %d characters, got %d", MaxSearchLength, n)
	}

	for _, r := range query {
		if unicode.IsControl(r) && r != '\t' {
			return fmt.Errorf("search query contains control characters")
		}
	}

	return nil
}

// ValidatePatientID validates a patient identifier taken from a URL path
func (v *InputValidatorImpl) ValidatePatientID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("patient id cannot be empty")
	}

	if !patientIDRegex.MatchString(id) {
		return fmt.Errorf("invalid patient id %q: expected P followed by at least 3 digits", id)
	}

	return nil
}
