// Package analysis talks to the remote service that scores résumés against a
// job description.
package analysis

import (
	"context"
	"net/http"

	"github.com/spigell/rh-pro/internal/logger"
	"github.com/spigell/rh-pro/internal/staging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultEndpoint = "http://localhost:8000/analyze/"
	userAgent       = "spigell/rh-pro"

	// DescriptionField is the multipart field carrying the job description.
	DescriptionField = "job_description"
	// FilesField is the repeated multipart field carrying one résumé each.
	FilesField = "cvs"

	defaultMaxLogLength = 200
)

type Client struct {
	token        string
	logger       *zap.Logger
	HTTPClient   *http.Client
	UserAgent    string
	Endpoint     string
	MaxLogLength int
}

// New returns a client for the service at endpoint. An empty token disables
// the Authorization header.
func New(log *zap.Logger, endpoint, token string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	return &Client{
		token:  token,
		logger: logger.Component(log, "analysis", logger.EndpointFields(endpoint)...),
		// Scoring takes as long as the service needs; callers bound it with a context.
		HTTPClient:   &http.Client{},
		UserAgent:    userAgent,
		Endpoint:     endpoint,
		MaxLogLength: defaultMaxLogLength,
	}
}

// Request is one immutable analysis request.
type Request struct {
	ID          string
	Description string
	Files       []*staging.File
}

// NewRequest snapshots the description and staged files under a fresh id.
func NewRequest(description string, files []*staging.File) *Request {
	snapshot := make([]*staging.File, len(files))
	copy(snapshot, files)

	return &Request{
		ID:          uuid.NewString(),
		Description: description,
		Files:       snapshot,
	}
}

// Analyze sends req and returns the candidates in the order the service
// returned them. Failures are *TransportError or *ServiceError.
func (c *Client) Analyze(ctx context.Context, req *Request) ([]*Candidate, error) {
	return c.analyze(ctx, req)
}
