package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wizclaw/wizpack/internal/config"
	"github.com/wizclaw/wizpack/internal/domain/platform"
	"github.com/wizclaw/wizpack/internal/logger"
	"github.com/wizclaw/wizpack/internal/service/artifact"
	"github.com/wizclaw/wizpack/internal/service/common"
	"github.com/wizclaw/wizpack/internal/service/deps"
	"github.com/wizclaw/wizpack/internal/service/freezer"
	"github.com/wizclaw/wizpack/internal/service/preflight"
	"github.com/wizclaw/wizpack/internal/service/sandbox"
	"github.com/wizclaw/wizpack/internal/version"
)

// pythonHelpURL is reported when the interpreter is missing.
const pythonHelpURL = "https://www.python.org/downloads/"

// errPipelineAlreadyRunning indicates a concurrent run holds the marker.
var errPipelineAlreadyRunning = errors.New("another packaging run is already in progress")

// Options contains inputs for the pipeline entry point.
type Options struct {
	// ConfigPath is an optional path to the build manifest.
	ConfigPath string
	// RepoRoot overrides the project root (defaults to the working directory).
	RepoRoot string
	// SkipDeps reuses the sandbox contents without reinstalling dependencies.
	SkipDeps bool
	// SaveConfig persists the effective manifest next to the project.
	SaveConfig bool
	// Runner executes external tools; nil selects the real one.
	Runner common.Runner
}

// Run executes the whole packaging workflow. The returned Result is always
// non-nil; on failure its FailureStage names the terminating stage.
func Run(ctx context.Context, opts *Options) (*Result, error) {
	ctx = logger.WithName(ctx, "wizpack")

	result := new(Result)

	runner := opts.Runner
	if runner == nil {
		runner = common.NewExecRunner()
	}

	repoRoot := opts.RepoRoot
	if repoRoot == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return result, result.fail(StageProbe, fmt.Errorf("resolve project root: %w", err))
		}

		repoRoot = cwd
	}

	cfg, err := loadConfig(ctx, opts.ConfigPath, repoRoot)
	if err != nil {
		return result, result.fail(StageProbe, err)
	}

	if opts.SaveConfig {
		savePath := opts.ConfigPath
		if savePath == "" {
			savePath = filepath.Join(repoRoot, config.DefaultConfigFilename)
		}

		if err = config.Save(savePath, cfg); err != nil {
			return result, result.fail(StageProbe, err)
		}

		logger.InfoKV(ctx, "Saved build manifest", "path", savePath)
	}

	cfg.ResolvePaths(repoRoot)
	printBanner(ctx, cfg)

	// Probe. Pure host introspection, immutable afterwards.
	tag := platform.Detect()
	result.Platform = tag.Suffix()

	logger.InfoKV(ctx, "Detected platform", "tag", tag.Suffix())

	// Preflight. Every tool check precedes any stateful action.
	checks := []preflight.Check{
		{Tool: cfg.Python, HelpURL: pythonHelpURL},
	}
	if err = preflight.RequireAll(ctx, runner, checks); err != nil {
		return result, result.fail(StagePreflight, err)
	}

	markerPath := filepath.Join(repoRoot, sandbox.MarkerFilename)
	if sandbox.IsPipelineRunningNow(ctx, markerPath) {
		return result, result.fail(StagePreflight, errPipelineAlreadyRunning)
	}

	if err = sandbox.WriteMarker(markerPath); err != nil {
		return result, result.fail(StagePreflight, err)
	}

	defer sandbox.RemoveMarker(markerPath)

	// Sandbox. Idempotent: an existing environment is reused.
	sandboxOptions := &sandbox.Options{
		VenvDir: cfg.VenvDir,
		Python:  cfg.Python,
		Runner:  runner,
	}
	if err = sandbox.Ensure(ctx, sandboxOptions); err != nil {
		return result, result.fail(StageSandbox, err)
	}

	// Dependencies.
	if opts.SkipDeps {
		logger.Info(ctx, "Skipping dependency installation as requested")
	} else {
		installOptions := &deps.Options{
			Python:           cfg.VenvPython(),
			RequirementsFile: cfg.RequirementsFile,
			ExtraPackages:    cfg.ExtraPackages,
			Runner:           runner,
		}
		if err = deps.Install(ctx, installOptions); err != nil {
			return result, result.fail(StageDeps, err)
		}
	}

	// Package.
	freezeOptions := &freezer.Options{
		SpecFile: cfg.SpecFile,
		Tool:     cfg.VenvTool("pyinstaller"),
		WorkDir:  cfg.BridgeDir,
		DistDir:  cfg.DistDir,
		BaseName: cfg.BaseName,
		Runner:   runner,
	}

	rawPath, err := freezer.Freeze(ctx, freezeOptions)
	if err != nil {
		return result, result.fail(StagePackage, err)
	}

	// Tag.
	info, err := artifact.Tag(ctx, &artifact.Options{
		RawPath:    rawPath,
		TaggedPath: cfg.TaggedArtifactPath(tag.Suffix()),
	})
	if err != nil {
		return result, result.fail(StageTag, err)
	}

	result.Success = true
	result.OutputPath = info.Path
	result.SizeBytes = info.SizeBytes
	result.HumanSize = info.HumanSize
	result.VerifyCommand = info.VerifyCommand

	logger.InfoKV(ctx, "Packaging completed",
		"artifact", info.Path,
		"size", info.HumanSize,
	)
	logger.Infof(ctx, "Verify with: %s", info.VerifyCommand)

	return result, nil
}

// loadConfig reads the manifest when one exists, falling back to the
// conventional layout when the operator never wrote one.
func loadConfig(ctx context.Context, configPath, repoRoot string) (*config.BuildConfig, error) {
	if configPath != "" {
		return config.Load(configPath)
	}

	defaultPath := filepath.Join(repoRoot, config.DefaultConfigFilename)
	if _, err := os.Stat(defaultPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.InfoKV(ctx, "No build manifest found, using conventional layout", "path", defaultPath)
			return config.Default(), nil
		}

		return nil, fmt.Errorf("inspect build manifest: %w", err)
	}

	return config.Load(defaultPath)
}

// printBanner logs the run header with the actor and project root.
func printBanner(ctx context.Context, cfg *config.BuildConfig) {
	banner := fmt.Sprintf("wizpack %s, packaging %q", version.Short(), cfg.BaseName)

	if actor, err := common.DetectActor(); err == nil {
		banner += " for " + actor.String()
	}

	logger.Info(ctx, banner)
	logger.InfoKV(ctx, "Project root", "path", cfg.RepoRoot)
}
