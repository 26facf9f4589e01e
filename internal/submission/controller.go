// Package submission owns the form state and the lifecycle of analysis
// requests: validation, a single in-flight request, ranking of results and
// discarding of superseded completions.
package submission

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/spigell/rh-pro/internal/analysis"
	"github.com/spigell/rh-pro/internal/logger"
	"github.com/spigell/rh-pro/internal/staging"

	"go.uber.org/zap"
)

// Analyzer performs one remote analysis.
type Analyzer interface {
	Analyze(ctx context.Context, req *analysis.Request) ([]*analysis.Candidate, error)
}

// Controller is the state machine behind the form. All mutations go through
// its methods; it is safe for concurrent use.
type Controller struct {
	analyzer Analyzer
	logger   *zap.Logger
	timeout  time.Duration

	mu          sync.Mutex
	description string
	staged      *staging.Area
	status      Status
	generation  uint64
	requestID   string
	submitted   bool
	done        chan struct{}

	inflight sync.WaitGroup
}

// New returns an idle controller. A positive timeout bounds every submission.
func New(analyzer Analyzer, log *zap.Logger, timeout time.Duration) *Controller {
	return &Controller{
		analyzer: analyzer,
		logger:   logger.Component(log, "submission"),
		timeout:  timeout,
		staged:   staging.New(),
		status:   Status{State: Idle},
	}
}

// AddFiles stages handles and returns the new working set.
func (c *Controller) AddFiles(handles ...staging.Handle) []*staging.File {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := c.staged.Len()
	files := c.staged.Add(handles...)

	c.logger.Debug("staged files",
		zap.Int("offered", len(handles)),
		zap.Int("added", len(files)-before),
		zap.Int("staged", len(files)),
	)

	return files
}

func (c *Controller) UpdateDescription(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.description = text
}

func (c *Controller) Description() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.description
}

func (c *Controller) Files() []*staging.File {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.staged.Files()
}

func (c *Controller) StagedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.staged.Len()
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.status.clone()
}

// HasSubmitted reports whether a valid submission was ever dispatched.
func (c *Controller) HasSubmitted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.submitted
}

func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.generation
}

// Submit validates the form and dispatches one analysis request. It returns
// immediately with the resulting status: Failed for an incomplete form,
// Loading otherwise. While a request is Loading, Submit dispatches nothing and
// returns the current status.
func (c *Controller) Submit(ctx context.Context) Status {
	c.mu.Lock()

	if c.status.State == Loading {
		status := c.status.clone()
		gen := c.generation
		c.mu.Unlock()

		c.logger.Warn("submission rejected",
			zap.Error(ErrInFlight),
			zap.Uint64(logger.FieldGeneration, gen),
		)
		return status
	}

	hasDescription := c.description != ""
	staged := c.staged.Len()
	if !hasDescription || staged == 0 {
		c.status = Status{State: Failed, Message: ValidationMessage}
		status := c.status.clone()
		c.mu.Unlock()

		c.logger.Info("submission rejected",
			zap.Error(ErrValidation),
			zap.Bool("has_description", hasDescription),
			zap.Int("staged", staged),
		)
		return status
	}

	c.generation++
	gen := c.generation
	req := analysis.NewRequest(c.description, c.staged.Files())
	c.requestID = req.ID
	c.submitted = true
	c.status = Status{State: Loading}
	c.done = make(chan struct{})
	status := c.status.clone()
	c.inflight.Add(1)
	c.mu.Unlock()

	c.logger.Info("submitting résumés for analysis",
		append(logger.SubmissionFields(req.ID, gen), zap.Int("files", len(req.Files)))...,
	)

	c.dispatch(ctx, gen, req)

	return status
}

func (c *Controller) dispatch(ctx context.Context, gen uint64, req *analysis.Request) {
	reqCtx, cancel := ctx, context.CancelFunc(func() {})
	var watchdog *time.Timer
	if c.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		watchdog = time.AfterFunc(c.timeout, func() {
			c.OnError(gen, ErrTimeout)
		})
	}

	go func() {
		defer c.inflight.Done()
		defer cancel()

		results, err := c.analyzer.Analyze(reqCtx, req)
		if watchdog != nil {
			watchdog.Stop()
		}

		if err != nil {
			c.OnError(gen, err)
			return
		}
		c.OnResponse(gen, results)
	}()
}

// OnResponse applies a successful completion of generation gen. It returns
// false when the completion is stale and was discarded.
func (c *Controller) OnResponse(gen uint64, results []*analysis.Candidate) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isCurrent(gen) {
		c.logger.Debug("discarding stale completion",
			zap.Uint64(logger.FieldGeneration, gen),
			zap.Uint64("current_generation", c.generation),
		)
		return false
	}

	ranked := Rank(results)
	c.status = Status{State: Succeeded, Results: ranked}
	close(c.done)

	c.logger.Info("analysis completed",
		append(logger.SubmissionFields(c.requestID, gen), zap.Int("candidates", len(ranked)))...,
	)

	return true
}

// OnError applies a failed completion of generation gen. The cause is logged;
// the status only carries FailureMessage. It returns false when the
// completion is stale and was discarded.
func (c *Controller) OnError(gen uint64, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isCurrent(gen) {
		c.logger.Debug("discarding stale completion",
			zap.Uint64(logger.FieldGeneration, gen),
			zap.Uint64("current_generation", c.generation),
			zap.Error(err),
		)
		return false
	}

	c.status = Status{State: Failed, Message: FailureMessage}
	close(c.done)

	c.logger.Error("analysis failed",
		append(logger.SubmissionFields(c.requestID, gen),
			zap.String(logger.FieldErrorKind, errorKind(err)),
			zap.Error(err),
		)...,
	)

	return true
}

// Wait blocks until the latest dispatched submission completes or ctx ends,
// and returns the status at that point.
func (c *Controller) Wait(ctx context.Context) (Status, error) {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()

	if done == nil {
		return c.Status(), nil
	}

	select {
	case <-done:
		return c.Status(), nil
	case <-ctx.Done():
		return c.Status(), ctx.Err()
	}
}

// Drain waits for every dispatched request to return, including superseded ones.
func (c *Controller) Drain() {
	c.inflight.Wait()
}

func (c *Controller) isCurrent(gen uint64) bool {
	return gen == c.generation && c.status.State == Loading
}

// Rank orders candidates by score, highest first. Equal scores keep the order
// the service returned them in.
func Rank(candidates []*analysis.Candidate) []*analysis.Candidate {
	ranked := make([]*analysis.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate != nil {
			ranked = append(ranked, candidate)
		}
	}

	slices.SortStableFunc(ranked, func(a, b *analysis.Candidate) int {
		return cmp.Compare(b.Score, a.Score)
	})

	return ranked
}

func errorKind(err error) string {
	var serviceErr *analysis.ServiceError
	var transportErr *analysis.TransportError

	switch {
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.As(err, &serviceErr):
		return "service"
	case errors.As(err, &transportErr):
		return "transport"
	default:
		return "unknown"
	}
}
