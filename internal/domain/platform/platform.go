package platform

import (
	"runtime"
	"strings"
)

// OS is the canonical operating system tag used in artifact names.
type OS string

// Arch is the canonical CPU architecture tag used in artifact names.
type Arch string

// Canonical values. Unrecognized host values are carried through verbatim
// rather than collapsed, so an unsupported host still produces a usable,
// if unconventional, artifact name.
const (
	OSMacOS OS = "macos"
	OSLinux OS = "linux"

	ArchX64   Arch = "x64"
	ArchARM64 Arch = "arm64"
)

// Tag identifies the host platform an artifact was built for.
// It is derived once at startup and never mutated afterwards.
type Tag struct {
	// OS is the canonical operating system component of the tag.
	OS OS
	// Arch is the canonical architecture component of the tag.
	Arch Arch
}

// osNames maps known OS identifiers (uname spellings and GOOS values) to canonical tags.
//
//nolint:gochecknoglobals // Fixed lookup table.
var osNames = map[string]OS{
	"darwin": OSMacOS,
	"macos":  OSMacOS,
	"linux":  OSLinux,
}

// archNames maps known machine architecture identifiers to canonical tags.
//
//nolint:gochecknoglobals // Fixed lookup table.
var archNames = map[string]Arch{
	"x86_64":  ArchX64,
	"amd64":   ArchX64,
	"x64":     ArchX64,
	"aarch64": ArchARM64,
	"arm64":   ArchARM64,
}

// Detect derives the Tag for the current host.
func Detect() Tag {
	return Normalize(runtime.GOOS, runtime.GOARCH)
}

// Normalize maps raw OS and architecture names to a canonical Tag.
// Matching is case-insensitive. Unknown values pass through unchanged:
// normalization degrades gracefully on unsupported hosts instead of failing.
func Normalize(osName, archName string) Tag {
	tag := Tag{
		OS:   OS(strings.ToLower(strings.TrimSpace(osName))),
		Arch: Arch(strings.ToLower(strings.TrimSpace(archName))),
	}

	if canonical, ok := osNames[string(tag.OS)]; ok {
		tag.OS = canonical
	}

	if canonical, ok := archNames[string(tag.Arch)]; ok {
		tag.Arch = canonical
	}

	return tag
}

// Known reports whether both components mapped to canonical values.
func (t Tag) Known() bool {
	switch t.OS {
	case OSMacOS, OSLinux:
	default:
		return false
	}

	switch t.Arch {
	case ArchX64, ArchARM64:
		return true
	default:
		return false
	}
}

// Suffix returns the "<os>-<arch>" fragment appended to artifact names.
func (t Tag) Suffix() string {
	return string(t.OS) + "-" + string(t.Arch)
}

// String implements fmt.Stringer.
func (t Tag) String() string {
	return t.Suffix()
}
