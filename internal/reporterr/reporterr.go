// Package reporterr defines the error kinds shared by the report pipeline.
//
// Packages declare their own sentinel errors wrapping one of these kinds, so
// callers can match either the precise condition or its broad category with
// [errors.Is].
package reporterr

import "errors"

// Error kinds.
var (
	// ErrInvalidArgument marks a caller-supplied value outside its allowed range.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound marks a reference to an entity absent from the statistics model.
	ErrNotFound = errors.New("not found")
	// ErrIO marks a failure writing an artifact or copying assets.
	ErrIO = errors.New("io failure")
	// ErrExternalTool marks a chart engine invocation that failed or could not start.
	ErrExternalTool = errors.New("external tool failure")
)

// Aborts reports whether err must stop report generation.
// External tool failures are best-effort and never abort.
func Aborts(err error) bool {
	if err == nil {
		return false
	}

	return !errors.Is(err, ErrExternalTool)
}
