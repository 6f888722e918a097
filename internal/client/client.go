// Package client provides the Go consumer of the todo service: a thin REST
// client plus a Mirror that keeps a queryable local copy of the dataset and
// refreshes it in the background.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nhle/todo-service/internal/model"
	"github.com/nhle/todo-service/internal/query"
	"github.com/nhle/todo-service/internal/service"
)

const defaultTimeout = 30 * time.Second

// Client is a thin HTTP client for the todo REST API. It handles JSON
// marshaling, decodes error envelopes into typed errors, and retries with
// backoff on HTTP 429.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

// NewClient creates a client for the service rooted at baseURL. A
// non-positive timeout falls back to 30 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries: 3,
	}
}

// APIError is the decoded error envelope from a non-2xx response.
type APIError struct {
	StatusCode int
	Type       model.ErrorType
	Message    string
	Fields     map[string][]string
}

// Error renders the envelope, including any field-level violations, in a
// form suitable for showing to a user.
func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s (%d): %s", e.Type, e.StatusCode, e.Message)
	}
	parts := make([]string, 0, len(e.Fields))
	for field, messages := range e.Fields {
		parts = append(parts, field+": "+strings.Join(messages, "; "))
	}
	sort.Strings(parts)
	return fmt.Sprintf("%s (%d): %s", e.Type, e.StatusCode, strings.Join(parts, "; "))
}

// IsNotFound reports whether err is an API not-found response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsValidation reports whether err is an API validation failure.
func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Type == model.ErrorTypeValidation
}

// List fetches one page of active items.
func (c *Client) List(ctx context.Context, f query.Filter) (*model.ItemPage, error) {
	var page model.ItemPage
	if err := c.do(ctx, http.MethodGet, "/todo"+encodeFilter(f), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListDeleted fetches one page of soft-deleted items.
func (c *Client) ListDeleted(ctx context.Context, f query.Filter) (*model.ItemPage, error) {
	var page model.ItemPage
	if err := c.do(ctx, http.MethodGet, "/todo/deleted"+encodeFilter(f), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get fetches a single active item.
func (c *Client) Get(ctx context.Context, id int64) (*model.Item, error) {
	var item model.Item
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/todo/%d", id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// GetDeleted fetches a single soft-deleted item.
func (c *Client) GetDeleted(ctx context.Context, id int64) (*model.Item, error) {
	var item model.Item
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/todo/deleted/%d", id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create adds a new item and returns it with its server-assigned fields.
func (c *Client) Create(ctx context.Context, req service.CreateRequest) (*model.Item, error) {
	var item model.Item
	if err := c.do(ctx, http.MethodPost, "/todo", req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update replaces the mutable fields of an item.
func (c *Client) Update(ctx context.Context, id int64, req service.UpdateRequest) (*model.Item, error) {
	var item model.Item
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/todo/%d", id), req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Toggle flips an item's completion flag and returns the new state.
func (c *Client) Toggle(ctx context.Context, id int64) (*model.Item, error) {
	var item model.Item
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/todo/%d/toggle", id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete soft-deletes an item. The API answers 204 with no body.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/todo/%d", id), nil, nil)
}

// Restore brings a soft-deleted item back and returns it.
func (c *Client) Restore(ctx context.Context, id int64) (*model.Item, error) {
	var item model.Item
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/todo/%d/restore", id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// do is the core HTTP method that builds the request, handles rate limiting
// with exponential backoff, and JSON (de)serialization. Non-2xx responses
// come back as *APIError.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	result interface{},
) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		// Rebuild the body reader on retries since it was consumed.
		if attempt > 0 && body != nil {
			data, _ := json.Marshal(body)
			bodyReader = bytes.NewReader(data)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("executing request %s %s: %w", method, path, err)
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return fmt.Errorf("reading response body: %w", readErr)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			waitDuration := retryAfterDuration(resp, attempt)
			lastErr = fmt.Errorf("rate limited (429) on %s %s", method, path)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitDuration):
				continue
			}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return decodeAPIError(resp.StatusCode, respBody)
		}

		// No content to parse (e.g. 204).
		if result == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}

		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err)
		}

		return nil
	}

	return fmt.Errorf("max retries (%d) exceeded: %w", c.maxRetries, lastErr)
}

// decodeAPIError turns an error response into an *APIError, falling back to
// the raw body when the envelope does not parse.
func decodeAPIError(status int, body []byte) error {
	var envelope model.ErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Type != "" {
		return &APIError{
			StatusCode: status,
			Type:       envelope.Type,
			Message:    envelope.Message,
			Fields:     envelope.Errors,
		}
	}
	return &APIError{
		StatusCode: status,
		Type:       model.ErrorTypeInternal,
		Message:    strings.TrimSpace(string(body)),
	}
}

// encodeFilter renders the filter as the API's query string. Zero-valued
// pagination fields are omitted so the server applies its own defaults.
func encodeFilter(f query.Filter) string {
	values := url.Values{}
	if f.Completed != nil {
		values.Set("isCompleted", strconv.FormatBool(*f.Completed))
	}
	if f.Priority != nil {
		values.Set("priority", strconv.Itoa(int(*f.Priority)))
	}
	if f.SortBy != "" {
		values.Set("sortBy", f.SortBy)
	}
	values.Set("sortDescending", strconv.FormatBool(f.SortDescending))
	if f.Page > 0 {
		values.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		values.Set("pageSize", strconv.Itoa(f.PageSize))
	}

	if encoded := values.Encode(); encoded != "" {
		return "?" + encoded
	}
	return ""
}

// retryAfterDuration reads the Retry-After header and computes a wait
// duration. Falls back to exponential backoff if the header is missing.
func retryAfterDuration(resp *http.Response, attempt int) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	// Exponential backoff: 1s, 2s, 4s, ...
	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	return backoff
}
