// shared/api/client.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Ftotnem/LEAGUE-SERVICES/shared/logger"
)

// HTTPError is returned for responses with a status code of 400 or above.
type HTTPError struct {
	StatusCode int
	Message    string
	URL        string
	Method     string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP error %d %s from %s %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Method, e.URL, e.Message)
	}
	return fmt.Sprintf("HTTP error %d %s from %s %s", e.StatusCode, http.StatusText(e.StatusCode), e.Method, e.URL)
}

// Common errors for client usage. Use errors.Is for checking.
var (
	ErrNotFound      = fmt.Errorf("resource not found")
	ErrConflict      = fmt.Errorf("resource conflict")
	ErrBadRequest    = fmt.Errorf("bad request")
	ErrUnauthorized  = fmt.Errorf("unauthorized")
	ErrForbidden     = fmt.Errorf("forbidden")
	ErrInternalError = fmt.Errorf("internal server error")
)

// NewDefaultHTTPClient creates an http.Client with sane connection and request timeouts.
func NewDefaultHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   5 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// Client is a small JSON-over-HTTP client bound to one base URL.
type Client struct {
	httpClient *http.Client
	baseURL    string
	lggr       logger.Logger
}

// NewClient creates a new API Client. A nil httpClient gets NewDefaultHTTPClient.
func NewClient(baseURL string, httpClient *http.Client, lggr logger.Logger) *Client {
	if lggr == nil {
		lggr = logger.Nop()
	}
	if httpClient == nil {
		httpClient = NewDefaultHTTPClient()
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		lggr:       lggr,
	}
}

// BaseURL returns the URL every request path is appended to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends the request and returns the raw response body of a successful call.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) ([]byte, int, error) {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal request body for %s %s: %w", method, url, err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create %s request for %s: %w", method, url, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, 0, fmt.Errorf("%s request to %s cancelled: %w", method, url, ctx.Err())
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, 0, fmt.Errorf("%s request to %s timed out: %w", method, url, ctx.Err())
		}
		return nil, 0, fmt.Errorf("failed to send %s request to %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	bodyBytes, readErr := io.ReadAll(resp.Body)
	c.lggr.Debugw("api call", "method", method, "url", url, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode >= 400 {
		if readErr == nil && len(bodyBytes) > 0 {
			var errorResponse JSONErrorResponse
			if jsonErr := json.Unmarshal(bodyBytes, &errorResponse); jsonErr == nil && errorResponse.Message != "" {
				return nil, resp.StatusCode, createHTTPError(resp.StatusCode, errorResponse.Message, url, method)
			}
			if len(bodyBytes) < 500 {
				return nil, resp.StatusCode, createHTTPError(resp.StatusCode, strings.TrimSpace(string(bodyBytes)), url, method)
			}
		}
		return nil, resp.StatusCode, createHTTPError(resp.StatusCode, "", url, method)
	}
	if readErr != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read %s response from %s: %w", method, url, readErr)
	}
	return bodyBytes, resp.StatusCode, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	data, status, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if result == nil || status == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("failed to decode %s response from %s%s: %w", method, c.baseURL, path, err)
	}
	return nil
}

// createHTTPError maps common status codes to predefined errors.
func createHTTPError(statusCode int, message, url, method string) error {
	httpErr := &HTTPError{StatusCode: statusCode, Message: message, URL: url, Method: method}
	switch statusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, httpErr)
	case http.StatusConflict:
		return fmt.Errorf("%w: %w", ErrConflict, httpErr)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %w", ErrBadRequest, httpErr)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", ErrUnauthorized, httpErr)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrForbidden, httpErr)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %w", ErrInternalError, httpErr)
	default:
		return httpErr
	}
}

// GetRaw returns the undecoded response body, for payloads decoded with alias tolerance.
func (c *Client) GetRaw(ctx context.Context, path string) ([]byte, error) {
	data, _, err := c.do(ctx, http.MethodGet, path, nil)
	return data, err
}

func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) Post(ctx context.Context, path string, body interface{}, result interface{}) error {
	return c.doRequest(ctx, http.MethodPost, path, body, result)
}

func (c *Client) Put(ctx context.Context, path string, body interface{}, result interface{}) error {
	return c.doRequest(ctx, http.MethodPut, path, body, result)
}

func (c *Client) Patch(ctx context.Context, path string, body interface{}, result interface{}) error {
	return c.doRequest(ctx, http.MethodPatch, path, body, result)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil)
}

// IsHTTPError checks if an error is an HTTPError and optionally matches status code.
func IsHTTPError(err error, status int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return status == 0 || httpErr.StatusCode == status
	}
	return false
}

// GetHTTPStatusCode extracts the status code from an HTTPError if present.
func GetHTTPStatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
