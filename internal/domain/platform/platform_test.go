package platform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestNormalize checks the documented mapping table, case-insensitivity
// and pass-through of unrecognized values.
func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		osName   string
		archName string
		want     Tag
	}{
		{"darwin", "x86_64", Tag{OSMacOS, ArchX64}},
		{"Darwin", "arm64", Tag{OSMacOS, ArchARM64}},
		{"linux", "aarch64", Tag{OSLinux, ArchARM64}},
		{"linux", "amd64", Tag{OSLinux, ArchX64}},
		{"macos", "x64", Tag{OSMacOS, ArchX64}},
		// Unknown values pass through unchanged (lowercased).
		{"freebsd", "riscv64", Tag{OS("freebsd"), Arch("riscv64")}},
		{"SunOS", "sparc", Tag{OS("sunos"), Arch("sparc")}},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, Normalize(tc.osName, tc.archName), "%s/%s", tc.osName, tc.archName)
	}
}

// TestTagSuffix verifies the artifact name fragment and Known reporting.
func TestTagSuffix(t *testing.T) {
	t.Parallel()

	tag := Normalize("Darwin", "arm64")
	require.Equal(t, "macos-arm64", tag.Suffix())
	require.True(t, tag.Known())

	odd := Normalize("freebsd", "riscv64")
	require.Equal(t, "freebsd-riscv64", odd.Suffix())
	require.False(t, odd.Known())
}

// TestDetect ensures host detection is stable and non-empty.
func TestDetect(t *testing.T) {
	t.Parallel()

	tag := Detect()
	require.NotEmpty(t, tag.OS)
	require.NotEmpty(t, tag.Arch)
	require.Equal(t, tag, Detect())
}
