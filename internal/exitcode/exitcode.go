// Package exitcode defines the exit codes returned by the wizpack CLI.
// The constants allow release automation to check failure categories
// symbolically rather than using magic numbers.
package exitcode

import (
	"errors"

	"github.com/wizclaw/wizpack/internal/service/artifact"
	"github.com/wizclaw/wizpack/internal/service/deps"
	"github.com/wizclaw/wizpack/internal/service/freezer"
	"github.com/wizclaw/wizpack/internal/service/preflight"
)

const (
	// Success indicates the pipeline reached its terminal state.
	Success = 0

	// Failure indicates a generic runtime failure, including a non-zero
	// exit from the freezing tool. Kept at 1 so consumers that only test
	// for non-zero keep working.
	Failure = 1

	// ToolMissing indicates a required external tool was not found.
	ToolMissing = 2

	// SpecMissing indicates the build specification was not found.
	SpecMissing = 3

	// DepsInstall indicates a dependency installation failure.
	DepsInstall = 4

	// ArtifactMissing indicates the freezing tool exited cleanly but
	// produced no artifact at the expected path.
	ArtifactMissing = 5
)

// FromError maps a pipeline failure to its exit code.
func FromError(err error) int {
	if err == nil {
		return Success
	}

	var toolErr *preflight.ToolNotFoundError
	if errors.As(err, &toolErr) {
		return ToolMissing
	}

	var specErr *freezer.SpecNotFoundError
	if errors.As(err, &specErr) {
		return SpecMissing
	}

	var installErr *deps.InstallError
	if errors.As(err, &installErr) {
		return DepsInstall
	}

	var missingErr *artifact.MissingError
	if errors.As(err, &missingErr) {
		return ArtifactMissing
	}

	return Failure
}
