package scheduling

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrPetNotFound: the pet does not exist or belongs to another org.
	ErrPetNotFound = errors.New("scheduling: pet not found")
	// ErrServiceNotFound: the service does not exist or belongs to another org.
	ErrServiceNotFound = errors.New("scheduling: service not found")
	// ErrAppointmentNotFound: the appointment does not exist in the org.
	ErrAppointmentNotFound = errors.New("scheduling: appointment not found")
	// ErrConflict: the requested slot overlaps an active appointment.
	ErrConflict = errors.New("scheduling: time slot already booked")
)

// ValidationError reports malformed input field by field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "scheduling: invalid input"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "scheduling: invalid input: " + strings.Join(parts, "; ")
}

// IsValidation reports whether err is a field validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
