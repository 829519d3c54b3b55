package preflight

import (
	"context"
	"fmt"

	"github.com/wizclaw/wizpack/internal/logger"
	"github.com/wizclaw/wizpack/internal/service/common"
)

// ToolNotFoundError reports a required external tool missing from the search path.
type ToolNotFoundError struct {
	// Tool is the executable name that failed to resolve.
	Tool string
	// HelpURL points at installation instructions, when known.
	HelpURL string
}

// Error implements the error interface with the remedy attached.
func (e *ToolNotFoundError) Error() string {
	if e.HelpURL == "" {
		return fmt.Sprintf("required tool %q was not found in PATH", e.Tool)
	}

	return fmt.Sprintf("required tool %q was not found in PATH, install it from %s", e.Tool, e.HelpURL)
}

// Check names one required tool and where to get it.
type Check struct {
	// Tool is the executable to resolve.
	Tool string
	// HelpURL is the optional installation URL reported on failure.
	HelpURL string
}

// Require verifies that a single tool resolves on the search path.
func Require(ctx context.Context, runner common.Runner, tool, helpURL string) error {
	path, err := runner.LookPath(tool)
	if err != nil {
		return &ToolNotFoundError{Tool: tool, HelpURL: helpURL}
	}

	logger.DebugKV(ctx, "Tool resolved", "tool", tool, "path", path)

	return nil
}

// RequireAll runs every check before any stateful stage begins.
// The first missing tool aborts the whole run; no wasted work.
func RequireAll(ctx context.Context, runner common.Runner, checks []Check) error {
	for _, check := range checks {
		if err := Require(ctx, runner, check.Tool, check.HelpURL); err != nil {
			return err
		}
	}

	return nil
}
