// Package api implements the authenticated request dispatcher: every
// outbound call is wrapped with bearer authentication, global busy
// signaling, envelope-aware decoding, and 401-triggered token refresh with
// single-flight coordination across concurrent requests.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/boarding-dev/placement-client/internal/models"
	"github.com/boarding-dev/placement-client/internal/session"
	"github.com/boarding-dev/placement-client/internal/state"
	"github.com/boarding-dev/placement-client/pkg/config"
)

// filePayload describes a multipart upload; the request body is rebuilt on
// every dispatch so refresh-triggered retries resend the full content.
type filePayload struct {
	Field    string
	FileName string
	Content  []byte
}

// request is the replayable description of one outbound call.
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	file   *filePayload
}

// Client is the dispatcher. Refresh coordination state is owned here, not
// in package globals: the refreshing flag and waiter queue are guarded by
// mu and drained together when the in-flight refresh settles.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions *session.Store
	ui       *state.UIState
	logger   *zap.Logger

	mu         sync.Mutex
	refreshing bool
	waiters    []chan string
}

// New builds a dispatcher over the supplied transport configuration.
func New(cfg config.APIConfig, sessions *session.Store, ui *state.UIState, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ui == nil {
		ui = state.NewUIState()
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		http:     &http.Client{Timeout: cfg.Timeout},
		sessions: sessions,
		ui:       ui,
		logger:   logger,
	}
}

// Get issues a GET request and decodes the payload into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any, opts ...Option) error {
	return c.dispatch(ctx, request{method: http.MethodGet, path: path, query: query}, out, buildOptions(opts))
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...Option) error {
	return c.dispatch(ctx, request{method: http.MethodPost, path: path, body: body}, out, buildOptions(opts))
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any, opts ...Option) error {
	return c.dispatch(ctx, request{method: http.MethodPut, path: path, body: body}, out, buildOptions(opts))
}

// Upload issues a multipart POST carrying one file field.
func (c *Client) Upload(ctx context.Context, path, field, fileName string, content []byte, out any, opts ...Option) error {
	file := &filePayload{Field: field, FileName: fileName, Content: content}
	return c.dispatch(ctx, request{method: http.MethodPost, path: path, file: file}, out, buildOptions(opts))
}

// dispatch runs one pass of the request/response cycle. Refresh-triggered
// retries re-enter it with the retried marker set, so busy accounting
// stays balanced: one increment and one decrement per pass.
func (c *Client) dispatch(ctx context.Context, req request, out any, opts callOptions) error {
	if !opts.skipGlobalLoading {
		c.ui.StartRequest()
	}

	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		if !opts.skipGlobalLoading {
			c.ui.EndRequest()
		}
		return err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if !opts.skipGlobalLoading {
			c.ui.EndRequest()
		}
		transportErr := fmt.Errorf("%s %s: %w", req.method, req.path, err)
		if !opts.skipGlobalError {
			c.ui.SetError(NormalizeMessage(transportErr))
		}
		return transportErr
	}

	body, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	if !opts.skipGlobalLoading {
		c.ui.EndRequest()
	}

	if resp.StatusCode < http.StatusBadRequest {
		if readErr != nil {
			return fmt.Errorf("%s %s: read response: %w", req.method, req.path, readErr)
		}
		return Unmarshal(body, out)
	}

	if readErr != nil {
		// partial body still feeds message extraction, but note the loss
		c.logger.Warn("error response body truncated",
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.Error(readErr))
	}

	httpErr := &HTTPError{StatusCode: resp.StatusCode, Body: body, Method: req.method, Path: req.path}

	if resp.StatusCode == http.StatusUnauthorized && !opts.skipAuthRefresh && !opts.retried {
		return c.handleUnauthorized(ctx, req, out, opts, httpErr)
	}

	if !opts.skipGlobalError {
		c.ui.SetError(NormalizeMessage(httpErr))
	}
	return httpErr
}

// handleUnauthorized coordinates the single-flight refresh. Exactly one
// caller performs the token exchange; every other 401 arriving meanwhile
// parks on a waiter channel and is woken with the refreshed token, or with
// an empty token when the refresh failed.
func (c *Client) handleUnauthorized(ctx context.Context, req request, out any, opts callOptions, original *HTTPError) error {
	refreshToken := c.sessions.RefreshToken()
	if refreshToken == "" {
		// a missing refresh token can never succeed
		if err := c.sessions.Clear(ctx); err != nil {
			c.logger.Warn("failed to clear session", zap.Error(err))
		}
		return original
	}

	c.mu.Lock()
	if c.refreshing {
		waiter := make(chan string, 1)
		c.waiters = append(c.waiters, waiter)
		c.mu.Unlock()

		select {
		case token := <-waiter:
			if token == "" {
				return original
			}
			opts.retried = true
			return c.dispatch(ctx, req, out, opts)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	c.refreshing = true
	c.mu.Unlock()

	var tokens models.AuthTokens
	refreshErr := c.dispatch(ctx,
		request{method: http.MethodPost, path: AuthRefreshPath, body: models.RefreshPayload{RefreshToken: refreshToken}},
		&tokens,
		callOptions{skipGlobalLoading: true, skipGlobalError: true, skipAuthRefresh: true},
	)

	c.mu.Lock()
	c.refreshing = false
	waiters := c.waiters
	c.waiters = nil
	c.mu.Unlock()

	if refreshErr != nil {
		for _, waiter := range waiters {
			waiter <- ""
		}
		if err := c.sessions.Clear(ctx); err != nil {
			c.logger.Warn("failed to clear session", zap.Error(err))
		}
		return refreshErr
	}

	if err := c.sessions.UpdateTokens(ctx, tokens.AccessToken, tokens.RefreshToken); err != nil {
		c.logger.Warn("failed to persist refreshed tokens", zap.Error(err))
	}

	for _, waiter := range waiters {
		waiter <- tokens.AccessToken
	}

	opts.retried = true
	return c.dispatch(ctx, req, out, opts)
}

func (c *Client) buildRequest(ctx context.Context, req request) (*http.Request, error) {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var reader io.Reader
	contentType := ""

	switch {
	case req.file != nil:
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		part, err := writer.CreateFormFile(req.file.Field, req.file.FileName)
		if err != nil {
			return nil, fmt.Errorf("build multipart body: %w", err)
		}
		if _, err := part.Write(req.file.Content); err != nil {
			return nil, fmt.Errorf("write multipart body: %w", err)
		}
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("finish multipart body: %w", err)
		}
		reader = &buf
		contentType = writer.FormDataContentType()
	case req.body != nil:
		data, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if token := c.sessions.AccessToken(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	return httpReq, nil
}
