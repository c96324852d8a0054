// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package backend is the typed client of the face-recognition REST service.

The service owns accounts, registered people, and face matching; the portal
only forwards requests to it. Every call returns either a value whose shape
has been validated or an [*Error] of exactly one [Kind]:

  - KindHTTP: the service answered with a non-2xx status.
  - KindNetwork: no response arrived.
  - KindMalformed: a 2xx response that is not JSON or not the expected shape.

Response bodies are never decoded before their content type has been checked.
*/
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// maxResponseBytes bounds any response body read from the service.
const maxResponseBytes = 16 << 20

// Client talks to one recognition service origin.
type Client struct {
	baseURL    string
	httpClient *http.Client
	validate   *validator.Validate
}

// NewClient creates a client. Recognition on CPU can be slow, so timeout is
// usually generous.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// BaseURL returns the configured origin.
func (c *Client) BaseURL() string { return c.baseURL }

// request describes one call.
type request struct {
	op          string
	method      string
	path        string
	token       string
	contentType string
	body        io.Reader
}

// jsonRequest builds a request with a JSON body.
func jsonRequest(op, method, path, token string, payload any) (request, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return request{}, fmt.Errorf("backend %s: marshal request: %w", op, err)
	}
	return request{
		op:          op,
		method:      method,
		path:        path,
		token:       token,
		contentType: "application/json",
		body:        bytes.NewReader(raw),
	}, nil
}

// do executes req and decodes a 2xx JSON body into target (nil to ignore the
// body). target is validated after decoding.
func (c *Client) do(ctx context.Context, req request, target any) error {
	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, req.body)
	if err != nil {
		return fmt.Errorf("backend %s: create request: %w", req.op, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &Error{Kind: KindNetwork, Op: req.op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &Error{Kind: KindNetwork, Op: req.op, Status: resp.StatusCode, Err: err}
	}

	isJSON := isJSONContent(resp.Header.Get("Content-Type"))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return httpError(req.op, resp.StatusCode, isJSON, body)
	}

	if target == nil {
		return nil
	}

	if !isJSON {
		return &Error{
			Kind:   KindMalformed,
			Op:     req.op,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected content type %q", resp.Header.Get("Content-Type")),
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		return &Error{Kind: KindMalformed, Op: req.op, Status: resp.StatusCode, Err: err}
	}

	if err := c.check(target); err != nil {
		return &Error{Kind: KindMalformed, Op: req.op, Status: resp.StatusCode, Err: err}
	}

	return nil
}

// check validates a decoded body. Slices are validated element by element.
func (c *Client) check(target any) error {
	if people, ok := target.(*[]Person); ok {
		for i := range *people {
			if err := c.validate.Struct((*people)[i]); err != nil {
				return fmt.Errorf("person %d: %w", i, err)
			}
		}
		return nil
	}
	return c.validate.Struct(target)
}

// httpError builds a KindHTTP error, reading the backend message only from
// JSON bodies.
func httpError(op string, status int, isJSON bool, body []byte) *Error {
	backendErr := &Error{Kind: KindHTTP, Op: op, Status: status}

	if !isJSON {
		return backendErr
	}

	var payload errorResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		backendErr.Err = err
		return backendErr
	}

	backendErr.Message = payload.Error
	if backendErr.Message == "" {
		backendErr.Message = payload.Message
	}
	backendErr.Field = payload.Field
	return backendErr
}

// isJSONContent accepts application/json and any +json media type.
func isJSONContent(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// Health reports whether the service answers HTTP at all. Any status counts:
// the service exposes no dedicated health route.
func (c *Client) Health(ctx context.Context) error {
	err := c.do(ctx, request{op: "health", method: http.MethodGet, path: "/"}, nil)
	if err == nil || IsKind(err, KindHTTP) {
		return nil
	}
	return err
}
