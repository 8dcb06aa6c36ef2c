// SPDX-FileCopyrightText: 2026 api2test
// SPDX-License-Identifier: FSL-1.1-MIT

package executor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api2test/api2test/pkg/types"
)

func TestParseOutput_Passed(t *testing.T) {
	output := "✓ GET / - PASSED\n✓ POST /items - PASSED\n"

	results := ParseOutput(output)
	require.Len(t, results, 2)

	assert.Equal(t, "GET /", results[0].TestName)
	assert.Equal(t, types.StatusPassed, results[0].Status)
	assert.Equal(t, "✓ GET / - PASSED", results[0].Output)
	assert.Empty(t, results[0].Error)

	assert.Equal(t, "POST /items", results[1].TestName)
	assert.Equal(t, types.StatusPassed, results[1].Status)
}

func TestParseOutput_Failed(t *testing.T) {
	output := "✗ test_root - FAILED: assert 404 in [200, 201, 204]\n"

	results := ParseOutput(output)
	require.Len(t, results, 1)

	assert.Equal(t, "test_root", results[0].TestName)
	assert.Equal(t, types.StatusFailed, results[0].Status)
	assert.Equal(t, "FAILED: assert 404 in [200, 201, 204]", results[0].Error)
}

func TestParseOutput_FailedWithoutDetail(t *testing.T) {
	output := "✗ test_broken FAILED\n"

	results := ParseOutput(output)
	require.Len(t, results, 1)

	assert.Equal(t, "test_broken FAILED", results[0].TestName)
	assert.Equal(t, types.StatusFailed, results[0].Status)
	assert.Equal(t, "Unknown error", results[0].Error)
}

func TestParseOutput_IgnoresOtherLines(t *testing.T) {
	output := `collecting tests
✓ GET / - PASSED

=== Test Results ===
Passed: 1
Failed: 0
Total: 1
`
	results := ParseOutput(output)
	require.Len(t, results, 1)
	assert.Equal(t, "GET /", results[0].TestName)
}

func TestParseOutput_Empty(t *testing.T) {
	assert.Empty(t, ParseOutput(""))
}

func TestSummarize(t *testing.T) {
	outcomes := []types.TestOutcome{
		{Status: types.StatusPassed},
		{Status: types.StatusPassed},
		{Status: types.StatusFailed},
		{Status: types.StatusError},
	}

	passed, failed, errored := Summarize(outcomes)
	assert.Equal(t, 2, passed)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 1, errored)
}

// TestRun_RecoversMarkers runs the test file through cat, which echoes the
// source verbatim; marker lines embedded in it are recovered as outcomes.
func TestRun_RecoversMarkers(t *testing.T) {
	e := &Executor{Interpreter: "cat", Timeout: 5 * time.Second}

	source := "✓ GET /health - PASSED\n✗ test_items - FAILED: boom\n"
	outcomes := e.Run(context.Background(), source)

	require.Len(t, outcomes, 2)
	assert.Equal(t, "GET /health", outcomes[0].TestName)
	assert.Equal(t, types.StatusPassed, outcomes[0].Status)
	assert.Equal(t, "test_items", outcomes[1].TestName)
	assert.Equal(t, types.StatusFailed, outcomes[1].Status)
	assert.Equal(t, "FAILED: boom", outcomes[1].Error)
}

func TestRun_MissingInterpreter(t *testing.T) {
	e := &Executor{Interpreter: "definitely-not-a-real-interpreter", Timeout: 5 * time.Second}

	outcomes := e.Run(context.Background(), "print('hi')\n")

	require.Len(t, outcomes, 1)
	assert.Equal(t, "Execution Error", outcomes[0].TestName)
	assert.Equal(t, types.StatusError, outcomes[0].Status)
	assert.NotEmpty(t, outcomes[0].Error)
}

func TestRun_Timeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), -time.Second)
	defer cancel()

	e := &Executor{Interpreter: "cat", Timeout: 5 * time.Second}
	outcomes := e.Run(ctx, "anything\n")

	require.Len(t, outcomes, 1)
	assert.Equal(t, "Timeout", outcomes[0].TestName)
	assert.Equal(t, types.StatusError, outcomes[0].Status)
}

func TestRun_StderrBecomesGeneralError(t *testing.T) {
	// cp with a single operand fails and complains on stderr
	e := &Executor{Interpreter: "cp", Timeout: 5 * time.Second}

	outcomes := e.Run(context.Background(), "irrelevant\n")

	require.NotEmpty(t, outcomes)
	last := outcomes[len(outcomes)-1]
	assert.Equal(t, "General Error", last.TestName)
	assert.Equal(t, types.StatusError, last.Status)
	assert.NotEmpty(t, last.Error)
}

func TestDefaults(t *testing.T) {
	e := New()
	assert.Equal(t, DefaultInterpreter, e.Interpreter)
	assert.Equal(t, DefaultTimeout, e.Timeout)

	zero := &Executor{}
	assert.Equal(t, DefaultTimeout, zero.timeout())
	assert.Equal(t, DefaultInterpreter, zero.interpreter())
}
