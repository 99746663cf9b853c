package ruleerrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// InvariantViolation is an internal fault: code asked a store to do
// something the importer never should. It is never a RuleError, since
// no block can be expected to cause it.
type InvariantViolation struct {
	message string
}

func (e InvariantViolation) Error() string {
	return "invariant violation: " + e.message
}

// NewInvariantViolation returns a new InvariantViolation with a stack trace.
func NewInvariantViolation(format string, args ...interface{}) error {
	return errors.WithStack(InvariantViolation{message: fmt.Sprintf(format, args...)})
}

// IsInvariantViolation returns whether err is, or wraps, an InvariantViolation.
func IsInvariantViolation(err error) bool {
	var violation InvariantViolation
	return errors.As(err, &violation)
}
