package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldEndpoint   = "endpoint"
	FieldRequestID  = "request_id"
	FieldGeneration = "generation"
	// FieldErrorKind is one of transport, service, timeout or unknown.
	FieldErrorKind = "error_kind"
)

// Component returns log named after one part of the client, with fields
// attached. A nil log becomes a no-op logger.
func Component(log *zap.Logger, name string, fields ...zap.Field) *zap.Logger {
	if log == nil {
		log = zap.NewNop()
	}

	if name = strings.TrimSpace(name); name != "" {
		log = log.Named(name)
	}

	if len(fields) == 0 {
		return log
	}

	return log.With(fields...)
}

// SubmissionFields identifies one submission attempt. A blank request id is omitted.
func SubmissionFields(requestID string, generation uint64) []zap.Field {
	fields := make([]zap.Field, 0, 2)
	if id := strings.TrimSpace(requestID); id != "" {
		fields = append(fields, zap.String(FieldRequestID, id))
	}
	return append(fields, zap.Uint64(FieldGeneration, generation))
}

// EndpointFields is empty for a blank endpoint.
func EndpointFields(endpoint string) []zap.Field {
	if endpoint = strings.TrimSpace(endpoint); endpoint == "" {
		return nil
	}
	return []zap.Field{zap.String(FieldEndpoint, endpoint)}
}
