package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wizclaw/wizpack/internal/domain/platform"
	"github.com/wizclaw/wizpack/internal/service/artifact"
	"github.com/wizclaw/wizpack/internal/service/freezer"
	"github.com/wizclaw/wizpack/internal/service/preflight"
	"github.com/wizclaw/wizpack/internal/service/sandbox"
)

// toolchainRunner fakes the interpreter, pip and freezing tool.
type toolchainRunner struct {
	// pythonMissing makes the interpreter unresolvable.
	pythonMissing bool
	// brokenFreeze makes the freezing tool exit zero without producing output.
	brokenFreeze bool
	// calls records every Run invocation by tool name.
	calls []string
	// baseName is the artifact the fake freezing tool produces.
	baseName string
}

func (r *toolchainRunner) Run(_ context.Context, _ string, name string, args ...string) error {
	r.calls = append(r.calls, filepath.Base(name))

	switch {
	case len(args) >= 2 && args[0] == "-m" && args[1] == "venv":
		venvDir := args[len(args)-1]
		if err := os.MkdirAll(filepath.Join(venvDir, "bin"), 0o755); err != nil {
			return err
		}

		return os.WriteFile(filepath.Join(venvDir, "bin", "python"), nil, 0o755)
	case len(args) >= 2 && args[0] == "-m" && args[1] == "pip":
		return nil
	case filepath.Base(name) == "pyinstaller":
		if r.brokenFreeze {
			return nil
		}

		distDir := ""

		for i, arg := range args {
			if arg == "--distpath" && i+1 < len(args) {
				distDir = args[i+1]
			}
		}

		if err := os.MkdirAll(distDir, 0o755); err != nil {
			return err
		}

		return os.WriteFile(filepath.Join(distDir, r.baseName), []byte("frozen"), 0o644)
	default:
		return nil
	}
}

func (r *toolchainRunner) LookPath(name string) (string, error) {
	if r.pythonMissing {
		return "", errors.New("executable file not found in $PATH")
	}

	return filepath.Join("/usr/bin", name), nil
}

// writeSpec lays out the conventional bridge/ dir with a build spec.
func writeSpec(t *testing.T, root string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "bridge"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bridge", "wizclaw.spec"), []byte("# spec"), 0o600))
}

// TestRun_Success drives the whole pipeline against the fake toolchain.
func TestRun_Success(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSpec(t, root)

	runner := &toolchainRunner{baseName: "wizclaw"}
	result, err := Run(context.Background(), &Options{RepoRoot: root, Runner: runner})
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Empty(t, result.FailureStage)

	wantSuffix := platform.Detect().Suffix()
	require.Equal(t, wantSuffix, result.Platform)
	require.Equal(t, filepath.Join(root, "dist", "wizclaw-"+wantSuffix), result.OutputPath)
	require.Equal(t, result.OutputPath+" --version", result.VerifyCommand)
	require.NotZero(t, result.SizeBytes)

	fileInfo, err := os.Stat(result.OutputPath)
	require.NoError(t, err)
	require.NotZero(t, fileInfo.Mode().Perm()&0o111)

	// The run marker is cleared after a successful run.
	_, err = os.Stat(filepath.Join(root, sandbox.MarkerFilename))
	require.ErrorIs(t, err, os.ErrNotExist)

	// Interpreter, pip (manifest absent, auxiliary only) and freezer ran in order.
	require.Equal(t, []string{"python3", "python", "pyinstaller"}, runner.calls)
}

// TestRun_MissingInterpreter fails preflight before any stateful action.
func TestRun_MissingInterpreter(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSpec(t, root)

	runner := &toolchainRunner{pythonMissing: true, baseName: "wizclaw"}
	result, err := Run(context.Background(), &Options{RepoRoot: root, Runner: runner})
	require.Error(t, err)
	require.False(t, result.Success)
	require.Equal(t, StagePreflight, result.FailureStage)

	var toolErr *preflight.ToolNotFoundError

	require.ErrorAs(t, err, &toolErr)

	// No tool ran and no sandbox was created.
	require.Empty(t, runner.calls)
	_, err = os.Stat(filepath.Join(root, "bridge", ".venv"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestRun_MissingSpec stops at the packaging stage without invoking the freezer.
func TestRun_MissingSpec(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	runner := &toolchainRunner{baseName: "wizclaw"}
	result, err := Run(context.Background(), &Options{RepoRoot: root, Runner: runner})
	require.Error(t, err)
	require.Equal(t, StagePackage, result.FailureStage)

	var specErr *freezer.SpecNotFoundError

	require.ErrorAs(t, err, &specErr)
	require.NotContains(t, runner.calls, "pyinstaller")
}

// TestRun_ArtifactMissing distinguishes a clean tool exit with no output
// from a packaging failure.
func TestRun_ArtifactMissing(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSpec(t, root)

	runner := &toolchainRunner{brokenFreeze: true, baseName: "wizclaw"}
	result, err := Run(context.Background(), &Options{RepoRoot: root, Runner: runner})
	require.Error(t, err)
	require.Equal(t, StageTag, result.FailureStage)

	var missingErr *artifact.MissingError

	require.ErrorAs(t, err, &missingErr)
}

// TestRun_RefusesConcurrentRun stops when a fresh run marker is present.
func TestRun_RefusesConcurrentRun(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSpec(t, root)
	require.NoError(t, sandbox.WriteMarker(filepath.Join(root, sandbox.MarkerFilename)))

	runner := &toolchainRunner{baseName: "wizclaw"}
	result, err := Run(context.Background(), &Options{RepoRoot: root, Runner: runner})
	require.ErrorIs(t, err, errPipelineAlreadyRunning)
	require.Equal(t, StagePreflight, result.FailureStage)
}

// TestRun_SkipDeps leaves pip untouched on repeated builds.
func TestRun_SkipDeps(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSpec(t, root)

	runner := &toolchainRunner{baseName: "wizclaw"}
	_, err := Run(context.Background(), &Options{RepoRoot: root, Runner: runner})
	require.NoError(t, err)

	rerun := &toolchainRunner{baseName: "wizclaw"}
	result, err := Run(context.Background(), &Options{RepoRoot: root, Runner: rerun, SkipDeps: true})
	require.NoError(t, err)
	require.True(t, result.Success)

	// Sandbox reused, no pip call, straight to the freezer.
	require.Equal(t, []string{"pyinstaller"}, rerun.calls)
}
