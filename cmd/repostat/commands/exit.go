// Package commands implements the repostat CLI subcommands.
package commands

import "errors"

const (
	exitCodeFailure           = 1
	exitCodeValidationFailure = 2
)

// ErrValidationFailed is returned when a snapshot does not match the schema.
var ErrValidationFailed = errors.New("snapshot validation failed")

// ErrReportsDiffer is returned when two reports carry different data tables.
var ErrReportsDiffer = errors.New("reports differ")

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	if errors.Is(err, ErrValidationFailed) {
		return exitCodeValidationFailure
	}

	return exitCodeFailure
}
