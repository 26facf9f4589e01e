package presenter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, choice Choice) string {
	t.Helper()

	var b strings.Builder
	r := &Renderer{Out: &b}
	require.NoError(t, r.Render(choice))
	return b.String()
}

func TestRenderIntro(t *testing.T) {
	out := render(t, Choice{Kind: KindIntro})

	assert.Contains(t, out, introTitle)
	assert.Contains(t, out, "1. Describe the role")
	assert.Contains(t, out, "3. Get the analysis")
}

func TestRenderSkeleton(t *testing.T) {
	out := render(t, Choice{Kind: KindSkeleton, Placeholders: 4})

	assert.Equal(t, 4, strings.Count(out, placeholder))
}

func TestRenderError(t *testing.T) {
	out := render(t, Choice{Kind: KindError, Message: "service down"})

	assert.Equal(t, errorTitle+"\nservice down\n", out)
}

func TestRenderNoMatch(t *testing.T) {
	out := render(t, Choice{Kind: KindNoMatch})

	assert.Contains(t, out, noMatchTitle)
	assert.NotContains(t, out, introTitle)
}

func TestRenderResults(t *testing.T) {
	out := render(t, Choice{Kind: KindResults, Entries: []Entry{
		{Rank: 1, Name: "Ada", Filename: "ada.pdf", Score: 91, Summary: " Strong Go background. ", Details: []Field{{Label: "Skill Match", Value: "90%"}}},
		{Rank: 2, Name: "Bob", Score: 40},
	}})

	expect := "#1 Ada (ada.pdf)  91%\n" +
		"   Summary: Strong Go background.\n" +
		"   Skill Match: 90%\n" +
		"\n" +
		"#2 Bob  40%\n"
	assert.Equal(t, expect, out)
}

func TestRenderColorWrapsBadge(t *testing.T) {
	var b strings.Builder
	r := &Renderer{Out: &b, Color: true}
	require.NoError(t, r.Render(Choice{Kind: KindResults, Entries: []Entry{{Rank: 1, Name: "Ada", Score: 91, Band: BandStrong}}}))

	assert.Contains(t, b.String(), styleStrong("91%"))
	assert.Contains(t, b.String(), "\x1b[")
}
