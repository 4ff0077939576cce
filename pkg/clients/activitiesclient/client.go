package activitiesclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jakechorley/activity-board/pkg/core/model"
)

// ErrMalformedResponse is returned when a response body cannot be decoded
var ErrMalformedResponse = errors.New("malformed response body")

// APIError is a non-2xx response from the backend
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Detail)
}

// TransportError is a request that never completed
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// result is the body of signup and unregister responses
type result struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// Client wraps the activities REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the backend at baseURL.
// A zero timeout leaves requests unbounded.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return NewClientWithHTTP(baseURL, &http.Client{Timeout: timeout})
}

// NewClientWithHTTP creates a client that sends requests through httpClient
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// BaseURL returns the backend address requests are sent to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListActivities fetches the full catalog
func (c *Client) ListActivities(ctx context.Context) (*model.Catalog, error) {
	resp, err := c.do(ctx, http.MethodGet, c.baseURL+"/activities", "list activities")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "list activities", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Detail: detailOf(body)}
	}

	var catalog model.Catalog
	if err := json.Unmarshal(body, &catalog); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return &catalog, nil
}

// Signup registers email for activity and returns the backend's message
func (c *Client) Signup(ctx context.Context, activity, email string) (string, error) {
	return c.mutate(ctx, http.MethodPost, activity, "signup", email)
}

// Unregister removes email from activity and returns the backend's message
func (c *Client) Unregister(ctx context.Context, activity, email string) (string, error) {
	return c.mutate(ctx, http.MethodDelete, activity, "unregister", email)
}

// ActivityURL builds /activities/{activity}/{action}?email={email} with both values escaped
func (c *Client) ActivityURL(activity, action, email string) string {
	query := url.Values{"email": []string{email}}
	return fmt.Sprintf("%s/activities/%s/%s?%s", c.baseURL, url.PathEscape(activity), action, query.Encode())
}

func (c *Client) mutate(ctx context.Context, method, activity, action, email string) (string, error) {
	resp, err := c.do(ctx, method, c.ActivityURL(activity, action, email), action)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var res result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{StatusCode: resp.StatusCode, Detail: res.Detail}
	}

	return res.Message, nil
}

func (c *Client) do(ctx context.Context, method, target, op string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	return resp, nil
}

// detailOf extracts a detail string from an error body, if there is one
func detailOf(body []byte) string {
	var res result
	if err := json.Unmarshal(body, &res); err != nil {
		return ""
	}
	return res.Detail
}
