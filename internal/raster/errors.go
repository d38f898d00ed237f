package raster

import "fmt"

// InputError marks a malformed scene: missing bands, mismatched
// dimensions, empty grids. It always surfaces to the caller unmodified;
// the pipeline never retries or recovers from it.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "invalid scene input: " + e.Reason
}

func NewInputError(format string, args ...interface{}) *InputError {
	return &InputError{Reason: fmt.Sprintf(format, args...)}
}
