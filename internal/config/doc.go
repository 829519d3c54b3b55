// Package config defines the build manifest used by the pipeline and
// provides helpers to load, validate and save it in YAML format.
//
// The BuildConfig type holds the artifact base name, the interpreter and
// every path the stages touch, all resolved against the project root.
package config
