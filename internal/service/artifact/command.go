package artifact

import (
	"bytes"
	"context"
	"crypto"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	goupdate "github.com/doitdistributed/go-update"
	"github.com/dustin/go-humanize"

	"github.com/wizclaw/wizpack/internal/logger"

	// Ensure SHA512 available for checksum calculation.
	_ "crypto/sha512"
)

const (
	// DefaultFileMode is used when producing artifacts for distribution.
	DefaultFileMode os.FileMode = 0o755

	// checksumFunction verifies the raw artifact survives the copy intact.
	checksumFunction crypto.Hash = crypto.SHA512
)

var errHashUnavailable = errors.New("hash function unavailable")

// MissingError reports that the freezing tool exited cleanly yet produced no
// artifact at the expected path. It is deliberately distinct from a
// packaging failure: a misconfigured spec is the usual cause.
type MissingError struct {
	// Path is where the raw artifact was expected.
	Path string
}

// Error implements the error interface.
func (e *MissingError) Error() string {
	return fmt.Sprintf("expected artifact %q was not produced; check the name declared in the build spec", e.Path)
}

// Info describes the published artifact. Its naming convention is a contract
// release tooling depends on.
type Info struct {
	// Path is the tagged artifact location.
	Path string `json:"path"`
	// SizeBytes is the artifact size.
	SizeBytes int64 `json:"size_bytes"`
	// HumanSize is the size formatted for the console.
	HumanSize string `json:"human_size"`
	// VerifyCommand is a ready-to-run command to check the artifact.
	VerifyCommand string `json:"verify_command"`
}

// Options are inputs for artifact tagging.
type Options struct {
	// RawPath is the freezing tool's conventional output.
	RawPath string
	// TaggedPath is the canonical <name>-<os>-<arch> destination.
	TaggedPath string
}

// Tag publishes the raw artifact under its platform-tagged name with the
// executable bit set. The copy is checksum-verified end to end.
func Tag(ctx context.Context, opts *Options) (*Info, error) {
	contents, err := os.ReadFile(filepath.Clean(opts.RawPath))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &MissingError{Path: opts.RawPath}
		}

		return nil, fmt.Errorf("read raw artifact: %w", err)
	}

	checksum, err := computeChecksum(contents)
	if err != nil {
		return nil, err
	}

	// goupdate replaces an existing target, so make sure one is there.
	if _, err = os.Stat(opts.TaggedPath); err != nil && os.IsNotExist(err) {
		if _, err = os.Create(opts.TaggedPath); err != nil {
			return nil, fmt.Errorf("prepare tagged artifact: %w", err)
		}
	}

	logger.DebugKV(ctx, "Publishing tagged artifact", "from", opts.RawPath, "to", opts.TaggedPath)

	applyOptions := goupdate.Options{
		TargetPath: opts.TaggedPath,
		TargetMode: DefaultFileMode,
		Checksum:   checksum,
		Hash:       checksumFunction,
	}
	if err = goupdate.Apply(bytes.NewReader(contents), applyOptions); err != nil {
		return nil, fmt.Errorf("publish tagged artifact: %w", err)
	}

	oldPath := opts.TaggedPath + ".old"
	if _, err = os.Stat(oldPath); err == nil {
		_ = os.Remove(oldPath)
	}

	size := int64(len(contents))

	return &Info{
		Path:          opts.TaggedPath,
		SizeBytes:     size,
		HumanSize:     humanize.IBytes(uint64(size)),
		VerifyCommand: opts.TaggedPath + " --version",
	}, nil
}

// computeChecksum hashes the artifact bytes with the checksum function.
func computeChecksum(contents []byte) ([]byte, error) {
	if !checksumFunction.Available() {
		return nil, fmt.Errorf("checksum calculation not possible: %w", errHashUnavailable)
	}

	hasher := checksumFunction.New()
	if _, err := hasher.Write(contents); err != nil {
		return nil, fmt.Errorf("calculate checksum: %w", err)
	}

	return hasher.Sum(nil), nil
}
