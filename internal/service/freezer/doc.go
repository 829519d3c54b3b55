// Package freezer invokes the external freezing tool that bundles the
// application and its dependencies into a single raw executable.
package freezer
