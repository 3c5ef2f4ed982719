package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"hairline/internal/session"
	"hairline/pkg/utils"
)

type Config struct {
	BaseURL string        // e.g. https://clinic.example.com
	Timeout time.Duration // per request
}

// Client talks to the clinic backend under its /api prefix. It never retries;
// resubmission is always a user action.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions session.Store
	logger   *zap.Logger
}

func NewClient(cfg Config, sessions session.Store, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/") + "/api",
		http:     &http.Client{Timeout: timeout},
		sessions: sessions,
		logger:   logger,
	}
}

// APIError is a non-2xx backend answer. It unwraps to one of the utils
// sentinel errors so callers can branch with errors.Is.
type APIError struct {
	Status  int
	Path    string
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %d: %s", e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %d", e.Path, e.Status)
}

func (e *APIError) Unwrap() error { return e.Err }

func (c *Client) do(ctx context.Context, sess *session.Session, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess.Authenticated() {
		req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed",
			zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: %s %s: %v", utils.ErrBackendUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s response: %v", utils.ErrBackendUnavailable, path, err)
	}

	c.logger.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode == http.StatusUnauthorized {
		c.dropCredentials(ctx, sess)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, path, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", utils.ErrBackendUnavailable, path, err)
	}
	if err := validateResponse(out); err != nil {
		return fmt.Errorf("%w: invalid %s response: %v", utils.ErrBackendUnavailable, path, err)
	}
	return nil
}

// dropCredentials is the global logout on 401: the session keeps its id but
// loses its tokens, in memory and in the store.
func (c *Client) dropCredentials(ctx context.Context, sess *session.Session) {
	if sess == nil {
		return
	}
	sess.ClearTokens()
	if err := c.sessions.Clear(ctx, sess.ID); err != nil {
		c.logger.Error("failed to clear session after 401", zap.String("session_id", sess.ID), zap.Error(err))
	}
}

func newAPIError(status int, path string, raw []byte) *APIError {
	e := &APIError{Status: status, Path: path, Message: errorMessage(raw)}
	switch {
	case status == http.StatusUnauthorized:
		e.Err = utils.ErrUnauthorized
	case status == http.StatusConflict:
		e.Err = utils.ErrConflict
	case status == http.StatusNotFound:
		e.Err = utils.RecordNotFound
	case status >= 500:
		e.Err = utils.ErrBackendUnavailable
	default:
		e.Err = utils.ErrRejected
	}
	return e
}

// errorMessage pulls a human readable message from the usual error shapes
// ({"detail": ...}, {"error": ...}, {"message": ...}).
func errorMessage(raw []byte) string {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	for _, key := range []string{"detail", "error", "message"} {
		if s, ok := body[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
