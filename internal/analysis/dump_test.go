package analysis

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpToTmpFile(t *testing.T) {
	var details Details
	require.NoError(t, json.Unmarshal([]byte(`{"skill_match": "90%", "common_skills": ["go"]}`), &details))

	name, err := DumpToTmpFile([]*Candidate{{Name: "Ada", Score: 91, Summary: "fits", Details: details}})
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(name) })

	data, err := os.ReadFile(name)
	require.NoError(t, err)

	assert.JSONEq(t, `[{"candidate_name": "Ada", "score": 91, "summary": "fits", "details": {"skill_match": "90%", "common_skills": ["go"]}}]`, string(data))
}

func TestDumpToTmpFileEmpty(t *testing.T) {
	name, err := DumpToTmpFile(nil)
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(name) })

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}
