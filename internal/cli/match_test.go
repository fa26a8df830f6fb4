package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type matchResponse struct {
	Status string      `json:"status"`
	Data   MatchResult `json:"data"`
	Error  *CLIError   `json:"error"`
}

func TestMatch_AllAccepted(t *testing.T) {
	out, _, err := execute(t, "", "match", `\d+`, "abc123", "7")
	require.NoError(t, err)

	assert.Contains(t, out, `✓ "abc123"`)
	assert.Contains(t, out, `✓ "7"`)
}

func TestMatch_SomeRejected(t *testing.T) {
	out, _, err := execute(t, "", "match", "^(cat|dog)s", "cats", "dogs", "cows")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, out, `✓ "cats"`)
	assert.Contains(t, out, `✓ "dogs"`)
	assert.Contains(t, out, `✗ "cows"`)
}

func TestMatch_JSON(t *testing.T) {
	out, _, err := execute(t, "", "--format", "json", "match", "a+b", "aaab")
	require.NoError(t, err)

	var resp matchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "pattern", resp.Data.Kind)
	assert.Equal(t, "a+b", resp.Data.Source)
	assert.Equal(t, 1, resp.Data.Matched)
	assert.Equal(t, 1, resp.Data.Total)
	require.Len(t, resp.Data.Decisions, 1)
	assert.True(t, resp.Data.Decisions[0].Accepted)
	assert.Positive(t, resp.Data.Decisions[0].Steps)
}

func TestMatch_JSONRejected(t *testing.T) {
	out, _, err := execute(t, "", "--format", "json", "match", "^b", "ab", "ba")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp matchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNoMatch, resp.Error.Code)
	assert.Equal(t, 1, resp.Data.Matched)
	assert.Equal(t, 2, resp.Data.Total)
}

func TestMatch_InvalidPattern(t *testing.T) {
	out, _, err := execute(t, "", "match", "(ab", "ab")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E010]")
}

func TestMatch_InvalidPatternJSON(t *testing.T) {
	out, _, err := execute(t, "", "--format", "json", "match", "ab$", "ab")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeBadPattern, resp.Error.Code)
}

func TestMatch_MissingArgs(t *testing.T) {
	_, _, err := execute(t, "", "match", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 2 arg")
}

func TestMatch_StepBudget(t *testing.T) {
	input := strings.Repeat("a", 20) + "c"
	out, _, err := execute(t, "", "--max-steps", "50", "match", "(a|a)*b", input, "b")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, out, fmt.Sprintf("! %q aborted", input))
	assert.Contains(t, out, `✓ "b"`)
}
