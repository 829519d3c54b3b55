package pipeline

// Stage identifies one step of the build pipeline. Stages run strictly
// top-to-bottom; the first failure terminates the run with its stage
// recorded in the Result.
type Stage string

const (
	// StageProbe detects the host platform tag.
	StageProbe Stage = "probe"
	// StagePreflight validates required external tools.
	StagePreflight Stage = "preflight"
	// StageSandbox creates or reuses the isolated dependency environment.
	StageSandbox Stage = "sandbox"
	// StageDeps installs the dependency manifest and auxiliary packages.
	StageDeps Stage = "deps"
	// StagePackage invokes the freezing tool.
	StagePackage Stage = "package"
	// StageTag publishes the platform-tagged artifact.
	StageTag Stage = "tag"
)

// Result is the sole externally observable output of a run besides console
// messages and the exit code.
type Result struct {
	// Success reports whether the pipeline reached its terminal state.
	Success bool `json:"success"`
	// Platform is the <os>-<arch> tag the artifact was built for.
	Platform string `json:"platform"`
	// OutputPath is the tagged artifact location on success.
	OutputPath string `json:"output_path,omitempty"`
	// SizeBytes is the artifact size on success.
	SizeBytes int64 `json:"size_bytes,omitempty"`
	// HumanSize is the size formatted for the console.
	HumanSize string `json:"human_size,omitempty"`
	// VerifyCommand is a copy-pasteable command to check the artifact.
	VerifyCommand string `json:"verify_command,omitempty"`
	// FailureStage names the stage that terminated a failed run.
	FailureStage Stage `json:"failure_stage,omitempty"`
}

// fail records the terminating stage and returns the stage's error.
func (r *Result) fail(stage Stage, err error) error {
	r.Success = false
	r.FailureStage = stage

	return err
}
