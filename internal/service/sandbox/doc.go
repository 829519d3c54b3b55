// Package sandbox builds the isolated dependency environment the freezing
// tool runs in, and guards against two pipeline runs racing each other via
// a marker file backed by a process-table scan.
package sandbox
