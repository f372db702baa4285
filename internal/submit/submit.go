// Package submit sends an inventory payload to the collection endpoint.
package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/rs/zerolog"

	"detect/internal/appinfo"
	"detect/internal/payload"
)

// APIVersion is sent in the API-Version header.
const APIVersion = "0.1"

// maxMessageSize caps how much of an error response body is kept.
const maxMessageSize = 1 << 20

// Options configures a Submitter.
type Options struct {
	// Timeout bounds the whole request. Zero means no client-side limit
	// beyond the caller's context.
	Timeout time.Duration
	// SharedSecret enables the Signature header when non-empty.
	SharedSecret string
}

// Submitter performs the single outbound POST. It never retries.
type Submitter struct {
	client *http.Client
	secret string
	log    zerolog.Logger
}

// New creates a Submitter on a non-shared cleanhttp client.
func New(opts Options, log zerolog.Logger) *Submitter {
	client := cleanhttp.DefaultClient()
	client.Timeout = opts.Timeout
	return &Submitter{client: client, secret: opts.SharedSecret, log: log}
}

// Submit serializes p and POSTs it to endpoint. 200 and 201 succeed; every
// other outcome returns a *SubmitError.
func (s *Submitter) Submit(ctx context.Context, p payload.Payload, app appinfo.Identity, endpoint string) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return &SubmitError{Kind: Transport, Err: fmt.Errorf("building request: %w", err)}
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("API-Version", APIVersion)
	req.Header.Set("AppName", app.Name)
	req.Header.Set("AppVersion", app.Version)
	req.Header.Set("User-Agent", app.UserAgent())
	req.Header.Set("Request-Id", requestID)
	if s.secret != "" {
		req.Header.Set("Signature", Sign(body, s.secret))
	}

	s.log.Debug().
		Str("endpoint", endpoint).
		Str("request_id", requestID).
		Int("bytes", len(body)).
		Int("packages", len(p.PackageList)).
		Bool("signed", s.secret != "").
		Msg("Submitting payload")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return &SubmitError{Kind: Transport, Err: err}
	}
	defer resp.Body.Close()

	s.log.Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Collection endpoint responded")

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxMessageSize))
		return nil
	case http.StatusUnauthorized:
		return &SubmitError{Kind: Unauthorized, Status: resp.StatusCode}
	}

	msg, err := io.ReadAll(io.LimitReader(resp.Body, maxMessageSize))
	if err != nil {
		return &SubmitError{Kind: Transport, Status: resp.StatusCode, Err: fmt.Errorf("reading response body: %w", err)}
	}
	return &SubmitError{Kind: ServerMessage, Status: resp.StatusCode, Message: string(msg)}
}
