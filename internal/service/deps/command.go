package deps

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/wizclaw/wizpack/internal/logger"
	"github.com/wizclaw/wizpack/internal/service/common"
)

// InstallError reports a failed dependency installation step. Installations
// are never retried; transient network failures are the operator's to rerun.
type InstallError struct {
	// Step names the installation step that failed.
	Step string
	// Err is the installer's own failure.
	Err error
}

// Error implements the error interface.
func (e *InstallError) Error() string {
	return fmt.Sprintf("install %s: %v", e.Step, e.Err)
}

// Unwrap exposes the underlying installer failure.
func (e *InstallError) Unwrap() error {
	return e.Err
}

// Options are inputs for dependency installation.
type Options struct {
	// Python is the sandbox interpreter whose pip performs the installs.
	Python string
	// RequirementsFile is the optional flat dependency manifest.
	RequirementsFile string
	// ExtraPackages are always installed on top of the manifest.
	ExtraPackages []string
	// Runner executes pip.
	Runner common.Runner
}

// Install installs the declared manifest (when present) and the fixed
// auxiliary packages into the sandbox.
func Install(ctx context.Context, opts *Options) error {
	if opts.RequirementsFile != "" {
		switch _, err := os.Stat(opts.RequirementsFile); {
		case err == nil:
			logger.InfoKV(ctx, "Installing dependency manifest", "path", opts.RequirementsFile)

			args := []string{"-m", "pip", "install", "-r", opts.RequirementsFile}
			if err = opts.Runner.Run(ctx, "", opts.Python, args...); err != nil {
				return &InstallError{Step: "dependency manifest", Err: err}
			}
		case errors.Is(err, os.ErrNotExist):
			logger.InfoKV(ctx, "No dependency manifest found, skipping", "path", opts.RequirementsFile)
		default:
			return &InstallError{Step: "dependency manifest", Err: err}
		}
	}

	if len(opts.ExtraPackages) == 0 {
		return nil
	}

	logger.InfoKV(ctx, "Installing auxiliary packages", "packages", opts.ExtraPackages)

	args := append([]string{"-m", "pip", "install"}, opts.ExtraPackages...)
	if err := opts.Runner.Run(ctx, "", opts.Python, args...); err != nil {
		return &InstallError{Step: "auxiliary packages", Err: err}
	}

	return nil
}
