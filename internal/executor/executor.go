// SPDX-FileCopyrightText: 2026 api2test
// SPDX-License-Identifier: FSL-1.1-MIT

// Package executor runs a generated Python test module in a child process
// and recovers test outcomes from its printed marker lines.
package executor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/api2test/api2test/pkg/types"
)

// DefaultTimeout is the hard limit on a single test run.
const DefaultTimeout = 30 * time.Second

// DefaultInterpreter is the Python interpreter used when none is configured.
const DefaultInterpreter = "python3"

// Marker glyphs printed by the generated test module. See internal/testgen
// for the producing side of this contract.
const (
	passMarker = "✓"
	failMarker = "✗"
)

// Executor persists generated test source to a temporary file and invokes it
// with a Python interpreter.
type Executor struct {
	// Interpreter is the Python interpreter binary
	Interpreter string

	// Timeout bounds the child process run time. CommandContext kills the
	// child when the deadline expires.
	Timeout time.Duration
}

// New creates an Executor with default interpreter and timeout.
func New() *Executor {
	return &Executor{
		Interpreter: DefaultInterpreter,
		Timeout:     DefaultTimeout,
	}
}

// Run executes the generated test source and returns the recovered outcomes.
// Run never returns an error: process-level failures (timeout, launch
// failure, stderr output) are reported as synthetic ERROR outcomes so a
// broken test run does not abort the pipeline.
func (e *Executor) Run(ctx context.Context, testSource string) []types.TestOutcome {
	tmp, err := os.CreateTemp("", "api2test_*.py")
	if err != nil {
		return []types.TestOutcome{{
			TestName: "Execution Error",
			Status:   types.StatusError,
			Output:   err.Error(),
			Error:    err.Error(),
		}}
	}
	// Best-effort cleanup on every exit path
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(testSource); err != nil {
		tmp.Close()
		return []types.TestOutcome{{
			TestName: "Execution Error",
			Status:   types.StatusError,
			Output:   err.Error(),
			Error:    err.Error(),
		}}
	}
	tmp.Close()

	runCtx, cancel := context.WithTimeout(ctx, e.timeout())
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, e.interpreter(), tmp.Name())
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return []types.TestOutcome{{
			TestName: "Timeout",
			Status:   types.StatusError,
			Output:   "Test execution timed out",
			Error:    "Test execution exceeded " + e.timeout().String(),
		}}
	}

	// A non-zero exit still produced parseable output; only a failure to
	// launch the interpreter at all is a synthetic error.
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return []types.TestOutcome{{
			TestName: "Execution Error",
			Status:   types.StatusError,
			Output:   err.Error(),
			Error:    err.Error(),
		}}
	}

	results := ParseOutput(stdout.String())

	if errText := stderr.String(); errText != "" {
		results = append(results, types.TestOutcome{
			TestName: "General Error",
			Status:   types.StatusError,
			Output:   errText,
			Error:    errText,
		})
	}

	return results
}

// ParseOutput recovers test outcomes from the marker lines of a test run's
// standard output. A line containing the pass glyph and PASSED yields a
// PASSED outcome named by the text between the glyph and the first hyphen;
// a line containing the fail glyph and FAILED yields a FAILED outcome whose
// error is the text after the next hyphen.
func ParseOutput(output string) []types.TestOutcome {
	var results []types.TestOutcome

	for _, line := range strings.Split(output, "\n") {
		switch {
		case strings.Contains(line, passMarker) && strings.Contains(line, types.StatusPassed):
			after := strings.SplitN(line, passMarker, 2)[1]
			name := strings.TrimSpace(strings.SplitN(after, "-", 2)[0])
			results = append(results, types.TestOutcome{
				TestName: name,
				Status:   types.StatusPassed,
				Output:   strings.TrimSpace(line),
			})
		case strings.Contains(line, failMarker) && strings.Contains(line, types.StatusFailed):
			after := strings.SplitN(line, failMarker, 2)[1]
			parts := strings.Split(after, "-")
			name := strings.TrimSpace(parts[0])
			errText := "Unknown error"
			if len(parts) > 1 {
				errText = strings.TrimSpace(parts[1])
			}
			results = append(results, types.TestOutcome{
				TestName: name,
				Status:   types.StatusFailed,
				Output:   strings.TrimSpace(line),
				Error:    errText,
			})
		}
	}

	return results
}

// Summarize tallies outcomes by status.
func Summarize(outcomes []types.TestOutcome) (passed, failed, errored int) {
	for _, o := range outcomes {
		switch o.Status {
		case types.StatusPassed:
			passed++
		case types.StatusFailed:
			failed++
		case types.StatusError:
			errored++
		}
	}
	return passed, failed, errored
}

func (e *Executor) timeout() time.Duration {
	if e.Timeout <= 0 {
		return DefaultTimeout
	}
	return e.Timeout
}

func (e *Executor) interpreter() string {
	if e.Interpreter == "" {
		return DefaultInterpreter
	}
	return e.Interpreter
}
