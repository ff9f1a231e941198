// Package apiclient talks to the exam REST backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/SAP-F-2025/exam-client/internal/errors"
	"github.com/SAP-F-2025/exam-client/internal/tokenstore"
	"github.com/SAP-F-2025/exam-client/internal/utils"
)

// Response is a successful (2xx) response with its body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v interface{}) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     tokenstore.Store
	logger     utils.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(baseURL string, tokens tokenstore.Store, logger utils.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		tokens:     tokens,
		logger:     logger.With("component", "apiclient"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tokens exposes the credential store the client reads before every call.
func (c *Client) Tokens() tokenstore.Store {
	return c.tokens
}

func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, "", true)
}

func (c *Client) PostJSON(ctx context.Context, path string, body interface{}) (*Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, nil, bytes.NewReader(data), "application/json", true)
}

func (c *Client) PutJSON(ctx context.Context, path string, body interface{}) (*Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, http.MethodPut, path, nil, bytes.NewReader(data), "application/json", true)
}

func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil, nil, "", true)
}

// PostMultipart uploads r as a single file part named field.
func (c *Client) PostMultipart(ctx context.Context, path, field, filename string, r io.Reader) (*Response, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err = io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to write data to multipart form: %w", err)
	}
	if err = writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart form: %w", err)
	}

	return c.do(ctx, http.MethodPost, path, nil, &buf, writer.FormDataContentType(), true)
}

// PostForm sends an unauthenticated form-encoded request. A 401 here is an
// ordinary domain error and leaves the stored credential alone.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, nil, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", false)
}

func (c *Client) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	body io.Reader,
	contentType string,
	authenticated bool,
) (*Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	request, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	request.Header.Set("Accept", "application/json")

	if authenticated {
		cred, ok, err := c.tokens.Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("read credential: %w", err)
		}
		if !ok {
			return nil, apperrors.ErrAuthRequired
		}
		request.Header.Set("Authorization", "Bearer "+string(cred))
	}

	start := time.Now()
	resp, err := c.httpClient.Do(request)
	if err != nil {
		c.logger.LogRequest(method, path, 0, time.Since(start), "error", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &apperrors.TransportError{Method: method, Path: path, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	c.logger.LogRequest(method, path, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, &apperrors.TransportError{Method: method, Path: path, Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized && authenticated {
		if clearErr := c.tokens.Clear(ctx); clearErr != nil {
			c.logger.ErrorContext(ctx, "failed to clear credential after 401", "error", clearErr)
		}
		return nil, &apperrors.AuthExpiredError{Method: method, Path: path}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseError(method, path, resp.StatusCode, data)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// parseError turns a non-success body into an APIError. detail may be a string,
// a list of {loc, msg} entries, or anything else.
func parseError(method, path string, status int, body []byte) error {
	apiErr := &apperrors.APIError{
		Kind:       apperrors.KindDomain,
		StatusCode: status,
		Method:     method,
		Path:       path,
		Message:    fmt.Sprintf("Request failed with status %d", status),
		Body:       body,
	}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 || string(envelope.Detail) == "null" {
		return apiErr
	}

	var detail string
	if err := json.Unmarshal(envelope.Detail, &detail); err == nil {
		if detail != "" {
			apiErr.Message = detail
		}
		return apiErr
	}

	var items []apperrors.DetailItem
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		if len(items) == 0 {
			return apiErr
		}
		parts := make([]string, 0, len(items))
		for _, item := range items {
			parts = append(parts, fmt.Sprintf("%s: %s", item.Location(), item.Msg))
		}
		apiErr.Kind = apperrors.KindValidation
		apiErr.Details = items
		apiErr.Message = strings.Join(parts, "; ")
		return apiErr
	}

	apiErr.Message = string(envelope.Detail)
	return apiErr
}

// IsStatus reports an APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *apperrors.APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}
