// Package rest implements the gateway interfaces over the platform's HTTP
// API. One Client carries the base URL, auth token source and logger; the
// per-domain gateway methods live in sibling files.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/fluentcli/internal/entity"
)

// TokenSource supplies the bearer token for authenticated requests. An
// ErrNotAuthenticated or ErrTokenExpired return short-circuits the request
// before it leaves the process.
type TokenSource interface {
	Token() (string, error)
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Tokens  TokenSource
	Logger  *logrus.Logger
}

// Client is the shared HTTP transport for every gateway implementation.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *logrus.Logger
}

// NewClient builds a Client from the given options.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	return &Client{
		baseURL: opts.BaseURL,
		http:    &http.Client{Timeout: opts.Timeout},
		tokens:  opts.Tokens,
		logger:  opts.Logger,
	}
}

// errorBody is the API's error envelope.
type errorBody struct {
	Detail string `json:"detail"`
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, out, true)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, body, out, true)
}

// postPublic posts without attaching credentials, for the auth endpoints.
func (c *Client) postPublic(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, body, out, false)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil, true)
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any, auth bool) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if err := c.prepare(req, auth); err != nil {
		return err
	}
	return c.send(req, out)
}

// postMultipart uploads the file at audioPath under the "audio" field with
// the remaining values as plain form fields.
func (c *Client) postMultipart(ctx context.Context, path, audioPath string, fields map[string]string, out any) error {
	file, err := os.Open(audioPath)
	if err != nil {
		return fmt.Errorf("open audio file: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("audio", filepath.Base(audioPath))
	if err != nil {
		return fmt.Errorf("build form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("read audio file: %w", err)
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("build form: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := c.prepare(req, true); err != nil {
		return err
	}
	return c.send(req, out)
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) prepare(req *http.Request, auth bool) error {
	req.Header.Set("X-Request-ID", uuid.NewString())
	if !auth {
		return nil
	}
	token, err := c.tokens.Token()
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

func (c *Client) send(req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	c.logger.WithFields(logrus.Fields{
		"method":   req.Method,
		"path":     req.URL.Path,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("api request")

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.apiError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || eb.Detail == "" {
		eb.Detail = http.StatusText(resp.StatusCode)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s", entity.ErrNotAuthenticated, eb.Detail)
	}
	return &entity.APIError{Status: resp.StatusCode, Detail: eb.Detail}
}
