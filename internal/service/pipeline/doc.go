// Package pipeline orchestrates the build-and-package workflow: probe the
// platform, validate tools, prepare the sandbox, install dependencies,
// freeze the application and publish the tagged artifact.
//
// Stages run strictly sequentially and fail fast; there is no
// partial-failure recovery and no retry policy.
package pipeline
