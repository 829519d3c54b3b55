//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"os"
	"os/exec"

	"github.com/wizclaw/wizpack/internal/logger"
)

// Runner executes external collaborator tools. Stages depend on this
// interface rather than os/exec directly so tests can substitute fakes.
type Runner interface {
	// Run executes the named tool and blocks until it exits.
	// The tool's stdout and stderr are surfaced verbatim; stdin is closed
	// so a misbehaving tool can never block the pipeline on a prompt.
	Run(ctx context.Context, dir string, name string, args ...string) error
	// LookPath resolves a tool name against the search path.
	LookPath(name string) (string, error)
}

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct {
	// Env holds extra environment entries appended to the parent environment.
	Env []string
}

// NewExecRunner returns a Runner that spawns real processes.
func NewExecRunner(env ...string) *ExecRunner {
	return &ExecRunner{Env: env}
}

// Run implements Runner. No timeout is imposed: external installs and
// freezes legitimately run for minutes, and the context already carries
// operator-initiated cancellation.
func (r *ExecRunner) Run(ctx context.Context, dir string, name string, args ...string) error {
	logger.DebugKV(ctx, "Running external tool", "tool", name, "args", args, "dir", dir)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), r.Env...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	// Stdin stays nil: the child reads from the null device.

	return cmd.Run()
}

// LookPath implements Runner.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
