package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// BuildConfig holds every path and knob a pipeline run needs.
// All values are threaded explicitly through the stages; nothing is read
// from ambient process state after the config is resolved.
type BuildConfig struct {
	// BaseName is the artifact name produced by the freezing tool.
	BaseName string `yaml:"base_name"`
	// Python is the interpreter used to create the sandbox.
	Python string `yaml:"python"`
	// BridgeDir contains the build spec, requirements and sandbox.
	BridgeDir string `yaml:"bridge_dir"`
	// VenvDir is the sandboxed dependency environment location.
	VenvDir string `yaml:"venv_dir"`
	// SpecFile is the declarative build specification for the freezer.
	SpecFile string `yaml:"spec_file"`
	// RequirementsFile is the optional flat dependency manifest.
	RequirementsFile string `yaml:"requirements_file"`
	// DistDir is where raw and tagged artifacts are written.
	DistDir string `yaml:"dist_dir"`
	// ExtraPackages are auxiliary packages installed on top of the manifest.
	ExtraPackages []string `yaml:"extra_packages"`
	// RepoRoot is the project root all relative paths resolve against.
	// It is derived from the invocation location and never persisted.
	RepoRoot string `yaml:"-"`
}

const (
	// DefaultConfigFilename is the default filename for the build manifest.
	DefaultConfigFilename = "wizpack.yaml"

	// DefaultBaseName is the artifact name used when the manifest omits one.
	DefaultBaseName = "wizclaw"

	// DefaultPython is the interpreter probed for and used to create the sandbox.
	DefaultPython = "python3"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

// defaultExtraPackages are always installed into the sandbox: the freezing
// tool itself and the certificate bundle it needs for HTTPS at runtime.
//
//nolint:gochecknoglobals // Fixed auxiliary package set.
var defaultExtraPackages = []string{"pyinstaller", "certifi"}

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errBaseNameInvalid is returned when the artifact base name contains a path separator.
	errBaseNameInvalid = errors.New("base name must be a bare file name")
)

// Default returns a BuildConfig with the conventional layout:
// bridge/ holds the spec, requirements and sandbox, dist/ receives artifacts.
func Default() *BuildConfig {
	cfg := new(BuildConfig)
	applyDefaults(cfg)

	return cfg
}

// Load reads the manifest from the provided path and validates it.
func Load(path string) (*BuildConfig, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var cfg BuildConfig
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the manifest to the provided path.
func Save(path string, cfg *BuildConfig) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

// Validate checks the provided config and fills defaults for omitted fields.
func Validate(cfg *BuildConfig) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	applyDefaults(cfg)

	if strings.ContainsRune(cfg.BaseName, os.PathSeparator) {
		return fmt.Errorf("%w: %q", errBaseNameInvalid, cfg.BaseName)
	}

	return nil
}

// ResolvePaths anchors every relative path against the project root and
// records the root itself. Absolute paths in the manifest are left alone.
func (c *BuildConfig) ResolvePaths(repoRoot string) {
	c.RepoRoot = repoRoot
	c.BridgeDir = anchor(repoRoot, c.BridgeDir)
	c.VenvDir = anchor(repoRoot, c.VenvDir)
	c.SpecFile = anchor(repoRoot, c.SpecFile)
	c.RequirementsFile = anchor(repoRoot, c.RequirementsFile)
	c.DistDir = anchor(repoRoot, c.DistDir)
}

// RawArtifactPath is the conventional output location of the freezing tool.
func (c *BuildConfig) RawArtifactPath() string {
	return filepath.Join(c.DistDir, c.BaseName)
}

// TaggedArtifactPath is the canonical <name>-<os>-<arch> artifact location.
func (c *BuildConfig) TaggedArtifactPath(platformSuffix string) string {
	return filepath.Join(c.DistDir, c.BaseName+"-"+platformSuffix)
}

// VenvPython is the interpreter inside the sandbox.
func (c *BuildConfig) VenvPython() string {
	return filepath.Join(c.VenvDir, "bin", "python")
}

// VenvTool returns the path of a tool installed into the sandbox.
func (c *BuildConfig) VenvTool(name string) string {
	return filepath.Join(c.VenvDir, "bin", name)
}

// applyDefaults fills every omitted field with the conventional value.
// Derived defaults (spec file, sandbox) follow the base name and bridge dir.
func applyDefaults(cfg *BuildConfig) {
	if cfg.BaseName == "" {
		cfg.BaseName = DefaultBaseName
	}

	if cfg.Python == "" {
		cfg.Python = DefaultPython
	}

	if cfg.BridgeDir == "" {
		cfg.BridgeDir = "bridge"
	}

	if cfg.VenvDir == "" {
		cfg.VenvDir = filepath.Join(cfg.BridgeDir, ".venv")
	}

	if cfg.SpecFile == "" {
		cfg.SpecFile = filepath.Join(cfg.BridgeDir, cfg.BaseName+".spec")
	}

	if cfg.RequirementsFile == "" {
		cfg.RequirementsFile = filepath.Join(cfg.BridgeDir, "requirements.txt")
	}

	if cfg.DistDir == "" {
		cfg.DistDir = "dist"
	}

	if len(cfg.ExtraPackages) == 0 {
		cfg.ExtraPackages = append([]string(nil), defaultExtraPackages...)
	}
}

// anchor joins path with root unless path is already absolute.
func anchor(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(root, path)
}
