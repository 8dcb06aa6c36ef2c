// SPDX-FileCopyrightText: 2026 api2test
// SPDX-License-Identifier: FSL-1.1-MIT

package types

// Outcome status values produced by the test executor.
const (
	// StatusPassed indicates the generated test printed a success marker.
	StatusPassed = "PASSED"

	// StatusFailed indicates the generated test printed a failure marker.
	StatusFailed = "FAILED"

	// StatusError indicates a process-level event (timeout, stderr output,
	// launch failure) rather than an actual test assertion.
	StatusError = "ERROR"
)

// TestOutcome represents the result of a single generated test, recovered
// from the child process's printed output. Outcomes are constructed only by
// the executor.
type TestOutcome struct {
	// TestName is the name recovered from the marker line, or a synthetic
	// label for process-level events ("Timeout", "General Error")
	TestName string `json:"testName" yaml:"testName"`

	// Status is one of PASSED, FAILED, ERROR
	Status string `json:"status" yaml:"status"`

	// Output is the raw marker line or captured process text
	Output string `json:"output" yaml:"output"`

	// Error is the failure detail, if any
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}
