package aggregator

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRouters and ErrNoPaths are configuration errors: the operator
	// set up a chain with nothing to quote against. Kept distinct from
	// ErrNoViableQuote, which is a market condition.
	ErrNoRouters = errors.New("no routers configured")
	ErrNoPaths   = errors.New("no candidate paths available")

	// ErrNoViableQuote is the only network-derived error the aggregator
	// surfaces: every router/path combination failed or was rejected.
	ErrNoViableQuote = errors.New("no viable quotes found")
)

// ValidationError marks bad input detected synchronously, before any
// network I/O.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}
