// Package preflight validates that every required external tool is present
// before the pipeline performs any stateful action.
package preflight
