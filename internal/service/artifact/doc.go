// Package artifact publishes the raw frozen binary under its canonical
// <name>-<os>-<arch> name, checksum-verified and marked executable.
package artifact
