package freezer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wizclaw/wizpack/internal/logger"
	"github.com/wizclaw/wizpack/internal/service/common"
)

// SpecNotFoundError reports a missing build specification.
type SpecNotFoundError struct {
	// Path is where the spec was expected.
	Path string
}

// Error implements the error interface with guidance to create the spec.
func (e *SpecNotFoundError) Error() string {
	return fmt.Sprintf("build spec %q was not found; create it or point spec_file at an existing one", e.Path)
}

// PackagingError reports a non-zero exit from the freezing tool. The tool's
// own diagnostics have already been written to the console verbatim.
type PackagingError struct {
	// Err is the freezing tool's failure.
	Err error
}

// Error implements the error interface.
func (e *PackagingError) Error() string {
	return fmt.Sprintf("freezing tool failed: %v", e.Err)
}

// Unwrap exposes the underlying tool failure.
func (e *PackagingError) Unwrap() error {
	return e.Err
}

// Options are inputs for the freezing invocation.
type Options struct {
	// SpecFile is the declarative build specification.
	SpecFile string
	// Tool is the freezing executable inside the sandbox.
	Tool string
	// WorkDir is where the tool runs; its build cache lands here.
	WorkDir string
	// DistDir receives the raw artifact.
	DistDir string
	// BaseName is the artifact name declared in the spec.
	BaseName string
	// Runner executes the tool.
	Runner common.Runner
}

// Freeze invokes the freezing tool against the spec and returns the raw
// artifact path. The invocation cleans prior build caches and never prompts:
// stdin is closed and --noconfirm suppresses overwrite questions.
func Freeze(ctx context.Context, opts *Options) (string, error) {
	if _, err := os.Stat(opts.SpecFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &SpecNotFoundError{Path: opts.SpecFile}
		}

		return "", fmt.Errorf("inspect build spec: %w", err)
	}

	logger.InfoKV(ctx, "Freezing application", "spec", opts.SpecFile)

	args := []string{
		"--noconfirm",
		"--clean",
		"--distpath", opts.DistDir,
		opts.SpecFile,
	}
	if err := opts.Runner.Run(ctx, opts.WorkDir, opts.Tool, args...); err != nil {
		return "", &PackagingError{Err: err}
	}

	return filepath.Join(opts.DistDir, opts.BaseName), nil
}
