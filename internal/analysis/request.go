package analysis

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/spigell/rh-pro/internal/logger"
	"github.com/spigell/rh-pro/internal/staging"

	"go.uber.org/zap"
)

const (
	acceptType      = "application/json"
	contentEncoding = "gzip"
	requestIDHeader = "X-Request-ID"
)

func (c *Client) analyze(ctx context.Context, req *Request) ([]*Candidate, error) {
	if req == nil {
		return nil, errors.New("request is required")
	}

	body, contentType, err := encodeForm(req)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("encode form: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	httpReq = c.setHeaders(httpReq)
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set(requestIDHeader, req.ID)

	c.logger.Debug("make request",
		zap.String(logger.FieldRequestID, req.ID),
		zap.Int("files", len(req.Files)),
		zap.Int("body_bytes", body.Len()),
	)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("service returned error status",
			zap.String(logger.FieldRequestID, req.ID),
			zap.Int("status_code", resp.StatusCode),
			zap.String("response_preview", logger.Preview(data, c.MaxLogLength)),
		)
		return nil, &ServiceError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	candidates, err := decodeCandidates(data)
	if err != nil {
		c.logger.Debug("service returned malformed payload",
			zap.String(logger.FieldRequestID, req.ID),
			zap.String("response_preview", logger.Preview(data, c.MaxLogLength)),
		)
		return nil, &ServiceError{StatusCode: resp.StatusCode, Status: resp.Status, Err: err}
	}

	c.logger.Debug("got response from analysis service",
		zap.String(logger.FieldRequestID, req.ID),
		zap.Int("candidates", len(candidates)),
	)

	return candidates, nil
}

// encodeForm builds the multipart body: one description field followed by
// one file part per staged file, in staging order.
func encodeForm(req *Request) (*bytes.Buffer, string, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	if err := w.WriteField(DescriptionField, req.Description); err != nil {
		return nil, "", err
	}

	for _, f := range req.Files {
		part, err := w.CreateFormFile(FilesField, f.Name())
		if err != nil {
			return nil, "", err
		}

		if err := copyFile(part, f); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &b, w.FormDataContentType(), nil
}

func copyFile(dst io.Writer, f *staging.File) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Name(), err)
	}
	defer rc.Close()

	if _, err := io.Copy(dst, rc); err != nil {
		return fmt.Errorf("read %s: %w", f.Name(), err)
	}

	return nil
}

func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	return io.ReadAll(reader)
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", acceptType)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}
