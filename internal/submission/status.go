package submission

import (
	"errors"

	"github.com/spigell/rh-pro/internal/analysis"
)

// State is the lifecycle position of the controller.
type State int

const (
	Idle State = iota
	Loading
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

const (
	// ValidationMessage is shown when the form is incomplete.
	ValidationMessage = "a job description and at least one résumé are required"
	// FailureMessage is shown for every transport, service or timeout failure.
	FailureMessage = "the analysis failed; check that the analysis service is running and try again"
)

var (
	ErrValidation = errors.New("job description and résumés are required")
	ErrInFlight   = errors.New("a submission is already in progress")
	ErrTimeout    = errors.New("submission timed out")
)

// Status is the single active submission status. Results is set only when
// State is Succeeded, Message only when State is Failed.
type Status struct {
	State   State
	Results []*analysis.Candidate
	Message string
}

// clone copies the results deeply; callers never share candidates with the controller.
func (s Status) clone() Status {
	if s.Results != nil {
		results := make([]*analysis.Candidate, len(s.Results))
		for i, c := range s.Results {
			results[i] = c.Clone()
		}
		s.Results = results
	}
	return s
}
