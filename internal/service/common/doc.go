// Package common holds helpers shared by the pipeline stages: the Runner
// abstraction over external tool execution and host actor detection.
package common
