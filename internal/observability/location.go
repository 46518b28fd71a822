package observability

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidLocationFormat is returned when an event location is not a
// lowercase canonical UUID. It always points at a defect in the calling code.
var ErrInvalidLocationFormat = errors.New("event location must be a lowercase uuid")

var locationPattern = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`)

// ValidateLocation checks that location is in 8-4-4-4-12 lowercase hex form.
func ValidateLocation(location string) error {
	if !locationPattern.MatchString(location) {
		return fmt.Errorf("%w: %q", ErrInvalidLocationFormat, location)
	}
	return nil
}
