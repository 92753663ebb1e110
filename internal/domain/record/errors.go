package record

import (
	"errors"
	"fmt"
)

// ErrNotFound marks an update or remove that referenced an identity absent
// from the store. No mutation and no notification happens in that case.
var ErrNotFound = errors.New("record not found")

// ValidationError rejects a field before any store write is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

// IsValidation reports whether err carries a ValidationError anywhere in its
// chain.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
