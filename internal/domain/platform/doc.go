// Package platform derives the canonical <os>-<arch> tag for build artifacts.
//
// The mapping is a closed table (darwin→macos, x86_64/amd64→x64,
// aarch64→arm64); values outside the table are passed through lowercased so
// the pipeline keeps working on hosts it has never heard of.
package platform
