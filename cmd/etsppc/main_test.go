package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(args, &out, &errOut)

	return code, out.String(), errOut.String()
}

func TestSolve_Square(t *testing.T) {
	code, out, _ := execute(t, "solve", "testdata/square.yaml", "--config", "testdata/quiet.yaml")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "status:  optimal")
	assert.Contains(t, out, "cost:    4.000000")
	assert.Contains(t, out, "tour:    1 2 3 4 1")
	assert.Contains(t, out, "name:    square")
}

func TestSolve_Cyclic(t *testing.T) {
	code, out, _ := execute(t, "solve", "testdata/cyclic.yaml", "--log-level", "critical", "--budget", "1s")
	assert.Equal(t, exitNoTour, code)
	assert.Contains(t, out, "no tour (cyclic constraints)")
	assert.NotContains(t, out, "cost:")
}

func TestSolve_Errors(t *testing.T) {
	code, _, _ := execute(t, "solve", "testdata/missing.yaml", "--log-level", "critical")
	assert.Equal(t, exitFailed, code)

	code, _, _ = execute(t, "solve", "testdata/square.yaml", "--log-level", "critical", "--budget", "0s")
	assert.Equal(t, exitFailed, code, "a zero budget is rejected")

	code, _, _ = execute(t, "solve", "testdata/square.yaml", "--log-level", "loud")
	assert.Equal(t, exitFailed, code)

	code, _, _ = execute(t, "solve")
	assert.Equal(t, exitFailed, code)
}

func TestCheck(t *testing.T) {
	code, out, _ := execute(t, "check", "testdata/square.yaml", "--log-level", "critical")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "locations:   4")
	assert.Contains(t, out, "starts:      [1 2 4]")
	assert.Contains(t, out, "feasible:    yes")
	assert.Contains(t, out, "order:       [1 2 3 4]")

	code, out, _ = execute(t, "check", "testdata/cyclic.yaml", "--log-level", "critical")
	assert.Equal(t, exitNoTour, code)
	assert.Contains(t, out, "starts:      [30]")
	assert.Contains(t, out, "feasible:    no")
}
