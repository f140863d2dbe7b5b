package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"singularshift/internal/model"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestExtractCommand(t *testing.T) {
	data, err := json.Marshal(map[string]interface{}{"messages": demoTranscript()})
	require.NoError(t, err)
	file := filepath.Join(t.TempDir(), "transcript.json")
	require.NoError(t, os.WriteFile(file, data, 0o600))

	out, err := execute(t, "extract", "--file", file)
	require.NoError(t, err)

	var got struct {
		Insights       model.InsightSet     `json:"insights"`
		StructuredData model.StructuredData `json:"structuredData"`
		Substantive    int                  `json:"substantiveMessages"`
		Completed      bool                 `json:"completionObserved"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 5, got.Substantive)
	assert.True(t, got.Completed)
	assert.Equal(t, model.SourceHeuristic, got.Insights.Responsibilities.Source)
	require.NotNil(t, got.StructuredData.TeamSize)
	assert.Equal(t, 8, *got.StructuredData.TeamSize)
	assert.Contains(t, got.StructuredData.ToolsUsed, "Excel")
}

func TestExtractCommand_MissingFile(t *testing.T) {
	_, err := execute(t, "extract", "--file", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestSeedCommand_MissingArgs(t *testing.T) {
	_, err := execute(t, "seed", "--email", "", "--password", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestParseTranscript(t *testing.T) {
	msgs, err := parseTranscript([]byte(`[{"role":"user","content":"hello there"}]`))
	require.NoError(t, err)
	assert.Equal(t, []model.Message{{Role: model.RoleUser, Content: "hello there"}}, msgs)

	msgs, err = parseTranscript([]byte(`{"messages":[{"role":"assistant","content":"hi"}]}`))
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	_, err = parseTranscript([]byte(`not json`))
	assert.Error(t, err)
}
