// API service for making raw HTTP requests to the directory service
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/personas/internal/shared"
)

const defaultBaseURL string = "http://localhost:5002/api"

// APIService performs raw HTTP requests against the directory service.
//
// It never interprets status codes; [DirectoryService] does that.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewAPIService creates a new API service instance for the directory service.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		logger:     log.New(io.Discard),
	}
}

// SetLogger replaces the logger used for per-request debug lines.
func (a *APIService) SetLogger(l *log.Logger) {
	if l != nil {
		a.logger = l
	}
}

// BaseURL returns the normalized base URL requests are resolved against.
func (a *APIService) BaseURL() string { return a.baseURL }

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports whether the status code is 2xx.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.Do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.Do(ctx, http.MethodPost, path, data)
}

// Put performs a PUT request with the given JSON data and returns the raw response.
func (a *APIService) Put(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.Do(ctx, http.MethodPut, path, data)
}

// Delete performs a DELETE request and returns the raw response.
func (a *APIService) Delete(ctx context.Context, path string) (*APIResponse, error) {
	return a.Do(ctx, http.MethodDelete, path, nil)
}

// Do sends one request with an optional JSON body. Every request carries an X-Request-ID.
//
// Transport failures are wrapped with [shared.ErrNetworkUnreachable]; any response,
// whatever its status, is returned as an [APIResponse].
func (a *APIService) Do(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	fullURL := a.baseURL + path

	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := shared.GenerateID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Debug("request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("%w: request failed: %w", shared.ErrNetworkUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrNetworkUnreachable, err)
	}

	a.logger.Debug("request", "method", method, "path", path, "status", resp.StatusCode, "request_id", requestID)

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       raw,
	}

	var jsonData any
	if err := json.Unmarshal(raw, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}
