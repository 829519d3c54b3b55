package exitcode

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wizclaw/wizpack/internal/service/artifact"
	"github.com/wizclaw/wizpack/internal/service/deps"
	"github.com/wizclaw/wizpack/internal/service/freezer"
	"github.com/wizclaw/wizpack/internal/service/preflight"
)

// TestFromError maps every failure category to its documented code,
// including wrapped errors.
func TestFromError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want int
	}{
		{nil, Success},
		{errors.New("anything else"), Failure},
		{&freezer.PackagingError{Err: errors.New("exit status 1")}, Failure},
		{&preflight.ToolNotFoundError{Tool: "python3"}, ToolMissing},
		{&freezer.SpecNotFoundError{Path: "bridge/wizclaw.spec"}, SpecMissing},
		{&deps.InstallError{Step: "auxiliary packages", Err: errors.New("boom")}, DepsInstall},
		{&artifact.MissingError{Path: "dist/wizclaw"}, ArtifactMissing},
		{fmt.Errorf("pipeline: %w", &preflight.ToolNotFoundError{Tool: "python3"}), ToolMissing},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, FromError(tc.err), "error: %v", tc.err)
	}
}
