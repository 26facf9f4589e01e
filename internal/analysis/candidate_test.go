package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCandidatesKeepsServiceOrder(t *testing.T) {
	payload := `[
		{"candidate_name": "A", "score": 70, "summary": "a", "details": {}},
		{"candidate_name": "B", "score": 90, "summary": "b", "details": {}},
		{"candidate_name": "C", "score": 70, "summary": "c", "details": {}, "filename": "c.pdf"}
	]`

	candidates, err := decodeCandidates([]byte(payload))
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	assert.Equal(t, "A", candidates[0].Name)
	assert.Equal(t, "B", candidates[1].Name)
	assert.Equal(t, 90, candidates[1].Score)
	assert.Equal(t, "c.pdf", candidates[2].Filename)
}

func TestDecodeCandidatesEmptyArray(t *testing.T) {
	candidates, err := decodeCandidates([]byte(" [] "))
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestDecodeCandidatesTruncatesFractionalScores(t *testing.T) {
	candidates, err := decodeCandidates([]byte(`[{"candidate_name": "A", "score": 79.9, "summary": "", "details": {}}]`))
	require.NoError(t, err)
	assert.Equal(t, 79, candidates[0].Score)
}

func TestDecodeCandidatesAcceptsScoreBounds(t *testing.T) {
	payload := `[
		{"candidate_name": "A", "score": 2147483647, "summary": "", "details": {}},
		{"candidate_name": "B", "score": -2147483648, "summary": "", "details": {}}
	]`

	candidates, err := decodeCandidates([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, 2147483647, candidates[0].Score)
	assert.Equal(t, -2147483648, candidates[1].Score)
}

func TestDecodeCandidatesRejectsMalformedPayloads(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
	}{
		{name: "empty body", payload: ""},
		{name: "null", payload: "null"},
		{name: "object instead of array", payload: `{"candidate_name": "A"}`},
		{name: "invalid json", payload: `[{"candidate_name": "A",]`},
		{name: "item is not an object", payload: `[42]`},
		{name: "item is null", payload: `[null]`},
		{name: "missing name", payload: `[{"score": 1, "summary": "", "details": {}}]`},
		{name: "missing score", payload: `[{"candidate_name": "A", "summary": "", "details": {}}]`},
		{name: "score is a string", payload: `[{"candidate_name": "A", "score": "80", "summary": "", "details": {}}]`},
		{name: "missing summary", payload: `[{"candidate_name": "A", "score": 1, "details": {}}]`},
		{name: "missing details", payload: `[{"candidate_name": "A", "score": 1, "summary": ""}]`},
		{name: "details is a list", payload: `[{"candidate_name": "A", "score": 1, "summary": "", "details": []}]`},
		{name: "score above int32", payload: `[{"candidate_name": "A", "score": 1e20, "summary": "", "details": {}}, {"candidate_name": "B", "score": 50, "summary": "", "details": {}}]`},
		{name: "score below int32", payload: `[{"candidate_name": "A", "score": -3e9, "summary": "", "details": {}}]`},
		{name: "details is null", payload: `[{"candidate_name": "A", "score": 1, "summary": "", "details": null}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := decodeCandidates([]byte(tt.payload))
			assert.Error(t, err)
		})
	}
}

func TestDetailsPreserveInsertionOrder(t *testing.T) {
	raw := `{"skill_match": "66% (2/3)", "common_skills": ["go", "sql"], "experience_match": "5 vs 3", "totalScore": 81, "diploma_match": "yes"}`

	var details Details
	require.NoError(t, json.Unmarshal([]byte(raw), &details))

	assert.Equal(t, []string{"skill_match", "common_skills", "experience_match", "totalScore", "diploma_match"}, details.Keys())

	value, ok := details.Get("totalScore")
	require.True(t, ok)
	assert.JSONEq(t, "81", string(value))

	_, ok = details.Get("absent")
	assert.False(t, ok)
}

func TestDetailsDuplicateKeyKeepsFirstPosition(t *testing.T) {
	var details Details
	require.NoError(t, json.Unmarshal([]byte(`{"a": 1, "b": 2, "a": 3}`), &details))

	assert.Equal(t, []string{"a", "b"}, details.Keys())
	value, _ := details.Get("a")
	assert.JSONEq(t, "3", string(value))
}

func TestDetailsMarshalKeepsOrder(t *testing.T) {
	var details Details
	require.NoError(t, json.Unmarshal([]byte(`{"zeta": "z", "alpha": {"x": [1, 2]}}`), &details))

	out, err := json.Marshal(details)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":"z","alpha":{"x":[1,2]}}`, string(out))
}

func TestDetailsRejectNonObject(t *testing.T) {
	var details Details
	assert.Error(t, json.Unmarshal([]byte(`["a"]`), &details))
}

func TestCandidateCloneSharesNothing(t *testing.T) {
	original := &Candidate{
		Name:    "A",
		Score:   80,
		Details: Details{{Key: "skill_match", Value: json.RawMessage(`"80%"`)}},
	}

	clone := original.Clone()
	clone.Name = "B"
	clone.Details[0].Key = "other"
	clone.Details[0].Value[1] = '9'

	assert.Equal(t, "A", original.Name)
	assert.Equal(t, "skill_match", original.Details[0].Key)
	assert.Equal(t, `"80%"`, string(original.Details[0].Value))

	var missing *Candidate
	assert.Nil(t, missing.Clone())
}
