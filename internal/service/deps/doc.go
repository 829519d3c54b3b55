// Package deps installs the declared dependency manifest and the fixed
// auxiliary packages into the sandbox.
package deps
