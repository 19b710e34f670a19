// Package client is a typed HTTP client for the CineGrok API.
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
	"strings"
	"sync"
	"time"

	"cinegrok-backend/internal/browse"
	"cinegrok-backend/internal/ingest"
	"cinegrok-backend/internal/models"
	"cinegrok-backend/internal/render"
)

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api error: %d %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// errorMessage pulls a message out of the error body shapes the API and
// Supabase produce.
func errorMessage(body []byte) string {
	var shape struct {
		Error            any    `json:"error"`
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
		Errors           []any  `json:"errors"`
	}
	if err := json.Unmarshal(body, &shape); err != nil {
		return strings.TrimSpace(string(body))
	}

	if s, ok := shape.Error.(string); ok && s != "" {
		return s
	}
	if m, ok := shape.Error.(map[string]any); ok {
		if s, ok := m["message"].(string); ok && s != "" {
			return s
		}
	}
	for _, s := range []string{shape.Message, shape.Msg, shape.ErrorDescription} {
		if s != "" {
			return s
		}
	}
	if len(shape.Errors) > 0 {
		switch first := shape.Errors[0].(type) {
		case string:
			return first
		case map[string]any:
			if s, ok := first["message"].(string); ok {
				return s
			}
		}
	}
	return ""
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token is the bearer token sent with every request, if any.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(data)}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Login signs in and keeps the access token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", nil,
		models.CredentialsRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Session != nil {
		c.SetToken(resp.Session.AccessToken)
	}
	return &resp, nil
}

// Signup creates an account. role is "filmmaker", "producer" or empty.
func (c *Client) Signup(ctx context.Context, email, password, role string) (*models.AuthResponse, error) {
	in := struct {
		models.CredentialsRequest
		Role string `json:"role,omitempty"`
	}{models.CredentialsRequest{Email: email, Password: password}, role}

	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", nil, in, &resp); err != nil {
		return nil, err
	}
	if resp.Session != nil {
		c.SetToken(resp.Session.AccessToken)
	}
	return &resp, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil); err != nil {
		return err
	}
	c.SetToken("")
	return nil
}

func (c *Client) Me(ctx context.Context) (*models.UserResponse, error) {
	var user models.UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ListFilmmakers(ctx context.Context, f browse.Filter) (*browse.Page, error) {
	var page browse.Page
	if err := c.do(ctx, http.MethodGet, "/api/v1/filmmakers", f.Query(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Filmmaker renders a profile in the given mode ("audience" or "producer").
func (c *Client) Filmmaker(ctx context.Context, id, mode string) (*render.View, error) {
	q := url.Values{}
	if mode != "" {
		q.Set("mode", mode)
	}
	var view render.View
	if err := c.do(ctx, http.MethodGet, "/api/v1/filmmakers/"+url.PathEscape(id), q, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// SearchResult mirrors the /search response.
type SearchResult struct {
	Query   string                  `json:"query"`
	Vector  bool                    `json:"vector"`
	Results []models.FilmmakerMatch `json:"results"`
}

func (c *Client) Search(ctx context.Context, query string, vector bool, limit int) (*SearchResult, error) {
	q := url.Values{"q": {query}}
	if vector {
		q.Set("vector", "true")
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	var res SearchResult
	if err := c.do(ctx, http.MethodGet, "/api/v1/search", q, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Interests(ctx context.Context, status models.InterestStatus) ([]models.InterestResponse, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", string(status))
	}
	var resp models.InterestListResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/collaboration-interests", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Interests, nil
}

func (c *Client) ExpressInterest(ctx context.Context, filmmakerID string) (*models.InterestResponse, error) {
	var resp models.InterestResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/collaboration-interests", nil,
		models.InterestRequest{FilmmakerID: filmmakerID}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateInterest(ctx context.Context, req models.InterestUpdateRequest) (*models.InterestResponse, error) {
	var resp models.InterestResponse
	if err := c.do(ctx, http.MethodPatch, "/api/v1/collaboration-interests", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) RemoveInterest(ctx context.Context, filmmakerID string) error {
	q := url.Values{"filmmaker_id": {filmmakerID}}
	return c.do(ctx, http.MethodDelete, "/api/v1/collaboration-interests", q, nil, nil)
}

// Ingest uploads legacy rows in one batch.
func (c *Client) Ingest(ctx context.Context, rows []json.RawMessage) (*ingest.Result, error) {
	var res ingest.Result
	if err := c.do(ctx, http.MethodPost, "/api/v1/ingest", nil, models.IngestRequest{Rows: rows}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
