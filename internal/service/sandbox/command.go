package sandbox

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/wizclaw/wizpack/internal/logger"
	"github.com/wizclaw/wizpack/internal/service/common"
)

const (
	// MarkerFilename marks that a pipeline run is in progress to refuse parallel execution.
	MarkerFilename = "wizpack-run-marker.bin"

	// pipelineExecutable is the process name scanned for when a stale marker is found.
	pipelineExecutable = "wizpack"

	// markerLifetime is the period after which a run marker is considered stale.
	markerLifetime = 30 * time.Minute

	// dirPermissions is used when creating parent directories for the sandbox.
	dirPermissions = 0o755
)

// errNotASandbox is returned when the sandbox path exists but does not look
// like an environment this tool created. The remedy is to remove it by hand;
// silently recreating could clobber unrelated operator files.
var errNotASandbox = errors.New("path exists but is not a sandbox; remove it and rerun")

// Options are inputs for sandbox creation.
type Options struct {
	// VenvDir is where the isolated dependency environment lives.
	VenvDir string
	// Python is the interpreter used to create the environment.
	Python string
	// Runner executes the interpreter.
	Runner common.Runner
}

// Ensure creates the isolated dependency environment at VenvDir, or reuses
// an existing one. Repeated builds hit the reuse path and stay cheap.
func Ensure(ctx context.Context, opts *Options) error {
	interpreter := filepath.Join(opts.VenvDir, "bin", "python")
	if _, err := os.Stat(interpreter); err == nil {
		logger.InfoKV(ctx, "Reusing existing sandbox", "path", opts.VenvDir)
		return nil
	}

	if _, err := os.Stat(opts.VenvDir); err == nil {
		return fmt.Errorf("%w: %s", errNotASandbox, opts.VenvDir)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("inspect sandbox path: %w", err)
	}

	logger.InfoKV(ctx, "Creating sandbox", "path", opts.VenvDir, "interpreter", opts.Python)

	if err := os.MkdirAll(filepath.Dir(opts.VenvDir), dirPermissions); err != nil {
		return fmt.Errorf("prepare sandbox parent: %w", err)
	}

	if err := opts.Runner.Run(ctx, "", opts.Python, "-m", "venv", opts.VenvDir); err != nil {
		return fmt.Errorf("create sandbox: %w", err)
	}

	return nil
}

// IsPipelineRunningNow checks presence of a run marker and attempts recovery
// when it looks stale and no other pipeline process is alive.
func IsPipelineRunningNow(ctx context.Context, markerPath string) bool {
	fileInfo, err := os.Stat(markerPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false
		}

		logger.Infof(ctx, "Unable to read run marker: %v", err)

		return false
	}

	if time.Since(fileInfo.ModTime()) <= markerLifetime {
		return true
	}

	logger.Info(ctx, "The run marker is stale, checking for a live pipeline process")

	if anotherInstanceAlive() {
		return true
	}

	if err = os.Remove(markerPath); err != nil {
		return true
	}

	return false
}

// WriteMarker records that a run is in progress.
func WriteMarker(markerPath string) error {
	marker, err := os.Create(filepath.Clean(markerPath))
	if err != nil {
		return fmt.Errorf("write run marker: %w", err)
	}

	return marker.Close()
}

// RemoveMarker clears the run marker; failures are ignored since a stale
// marker is recovered on the next run anyway.
func RemoveMarker(markerPath string) {
	_ = os.Remove(markerPath)
}

// anotherInstanceAlive scans the process table for a pipeline process other than this one.
func anotherInstanceAlive() bool {
	processList, err := ps.Processes()
	if err != nil {
		// Assume alive when the process table is unreadable.
		return true
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if process.Executable() == pipelineExecutable {
			return true
		}
	}

	return false
}
