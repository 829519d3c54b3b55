package preflight

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeRunner resolves only the tools listed in known.
type fakeRunner struct {
	known map[string]string
	// looked records resolution attempts in order.
	looked []string
}

func (f *fakeRunner) Run(_ context.Context, _ string, _ string, _ ...string) error {
	return nil
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	f.looked = append(f.looked, name)

	if path, ok := f.known[name]; ok {
		return path, nil
	}

	return "", errors.New("executable file not found in $PATH")
}

// TestRequire reports a typed error with the remedy for missing tools.
func TestRequire(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{known: map[string]string{"python3": "/usr/bin/python3"}}
	ctx := context.Background()

	require.NoError(t, Require(ctx, runner, "python3", ""))

	err := Require(ctx, runner, "uv", "https://docs.astral.sh/uv/")
	require.Error(t, err)

	var toolErr *ToolNotFoundError

	require.ErrorAs(t, err, &toolErr)
	require.Equal(t, "uv", toolErr.Tool)
	require.Contains(t, err.Error(), "uv")
	require.Contains(t, err.Error(), "https://docs.astral.sh/uv/")
}

// TestRequireAll stops at the first missing tool.
func TestRequireAll(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{known: map[string]string{"python3": "/usr/bin/python3"}}
	checks := []Check{
		{Tool: "python3"},
		{Tool: "missing-one"},
		{Tool: "never-checked"},
	}

	err := RequireAll(context.Background(), runner, checks)
	require.Error(t, err)

	var toolErr *ToolNotFoundError

	require.ErrorAs(t, err, &toolErr)
	require.Equal(t, "missing-one", toolErr.Tool)
	require.Equal(t, []string{"python3", "missing-one"}, runner.looked)
}
