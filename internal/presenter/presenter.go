// Package presenter decides what the results panel shows for a submission
// status and renders that choice as text.
package presenter

import (
	"github.com/spigell/rh-pro/internal/analysis"
	"github.com/spigell/rh-pro/internal/submission"
)

// Kind is the branch of the results panel.
type Kind int

const (
	KindIntro Kind = iota
	KindSkeleton
	KindError
	KindNoMatch
	KindResults
)

func (k Kind) String() string {
	switch k {
	case KindIntro:
		return "intro"
	case KindSkeleton:
		return "skeleton"
	case KindError:
		return "error"
	case KindNoMatch:
		return "no_match"
	case KindResults:
		return "results"
	default:
		return "unknown"
	}
}

// DefaultPlaceholderCount is the number of skeleton entries shown while
// loading when nothing is staged.
const DefaultPlaceholderCount = 3

// Band groups scores the way the score badge is coloured.
type Band int

const (
	BandWeak Band = iota
	BandPartial
	BandStrong
)

func (b Band) String() string {
	switch b {
	case BandStrong:
		return "strong"
	case BandPartial:
		return "partial"
	default:
		return "weak"
	}
}

func BandOf(score int) Band {
	switch {
	case score >= 80:
		return BandStrong
	case score >= 60:
		return BandPartial
	default:
		return BandWeak
	}
}

// Field is one rendered evaluation criterion.
type Field struct {
	Label string
	Value string
}

// Entry is one rendered candidate.
type Entry struct {
	Rank     int
	Name     string
	Filename string
	Score    int
	Band     Band
	Summary  string
	Details  []Field
}

// Choice is what the results panel displays. Only the fields of its Kind are set.
type Choice struct {
	Kind         Kind
	Placeholders int
	Message      string
	Entries      []Entry
}

// Presenter maps a submission status to a Choice.
type Presenter struct {
	// PlaceholderCount replaces DefaultPlaceholderCount when positive.
	PlaceholderCount int
}

// Present evaluates, in order: loading, failure, non-empty results, a
// finished submission without results, and finally the introduction.
func (p Presenter) Present(status submission.Status, stagedCount int, hasSubmittedBefore bool) Choice {
	switch {
	case status.State == submission.Loading:
		n := stagedCount
		if n <= 0 {
			n = p.placeholders()
		}
		return Choice{Kind: KindSkeleton, Placeholders: n}
	case status.State == submission.Failed:
		return Choice{Kind: KindError, Message: status.Message}
	case status.State == submission.Succeeded && len(status.Results) > 0:
		return Choice{Kind: KindResults, Entries: entries(status.Results)}
	case hasSubmittedBefore:
		return Choice{Kind: KindNoMatch}
	default:
		return Choice{Kind: KindIntro}
	}
}

// Present uses the default placeholder count.
func Present(status submission.Status, stagedCount int, hasSubmittedBefore bool) Choice {
	return Presenter{}.Present(status, stagedCount, hasSubmittedBefore)
}

func (p Presenter) placeholders() int {
	if p.PlaceholderCount > 0 {
		return p.PlaceholderCount
	}
	return DefaultPlaceholderCount
}

func entries(results []*analysis.Candidate) []Entry {
	out := make([]Entry, 0, len(results))
	for _, c := range results {
		if c == nil {
			continue
		}
		out = append(out, Entry{
			Rank:     len(out) + 1,
			Name:     c.Name,
			Filename: c.Filename,
			Score:    c.Score,
			Band:     BandOf(c.Score),
			Summary:  c.Summary,
			Details:  DetailFields(c.Details),
		})
	}
	return out
}
