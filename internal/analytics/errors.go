package analytics

import "fmt"

// InsufficientDataError reports that a series is shorter than the minimum an
// algorithm requires. Callers match it with errors.As to read the bounds.
type InsufficientDataError struct {
	Required int
	Actual   int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: need at least %d points, have %d", e.Required, e.Actual)
}

// InvalidParameterError reports an out-of-range algorithm parameter.
type InvalidParameterError struct {
	Parameter string
	Value     float64
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %v", e.Parameter, e.Value)
}
