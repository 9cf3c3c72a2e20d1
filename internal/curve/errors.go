// internal/curve/errors.go
package curve

import (
	"errors"
	"fmt"
)

// ErrUndefinedResult marks a trade or state value that is ±Inf or NaN.
var ErrUndefinedResult = errors.New("undefined numeric result")

// UndefinedResultError names the operation and field that produced a
// non-finite value.
type UndefinedResultError struct {
	Op    string
	Field string
	Value float64
}

func (e *UndefinedResultError) Error() string {
	return fmt.Sprintf("%s: %s is %v: %v", e.Op, e.Field, e.Value, ErrUndefinedResult)
}

func (e *UndefinedResultError) Unwrap() error {
	return ErrUndefinedResult
}

// IsUndefinedResult reports whether err is or wraps ErrUndefinedResult.
func IsUndefinedResult(err error) bool {
	return errors.Is(err, ErrUndefinedResult)
}

type namedValue struct {
	name  string
	value float64
}

// checkFinite returns an error for the first non-finite value, in order.
func checkFinite(op string, values ...namedValue) error {
	for _, v := range values {
		if !isFinite(v.value) {
			return &UndefinedResultError{Op: op, Field: v.name, Value: v.value}
		}
	}
	return nil
}
