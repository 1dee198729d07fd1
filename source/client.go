package source

import (
	"bytes"
	"context"
	"edunova/common"
	"edunova/content"
	"edunova/models"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Client talks to the edunova REST backend.
type Client struct {
	baseURL string
	http    *http.Client
	token   func() string
	logger  *zap.Logger
}

// NewClient builds a client for baseURL. token supplies the bearer credential for
// authenticated calls and may be nil until a session exists.
func NewClient(baseURL string, timeout time.Duration, token func() string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		token:   token,
		logger:  logger,
	}
}

// SetTokenSource replaces the bearer credential provider.
func (c *Client) SetTokenSource(token func() string) {
	c.token = token
}

type apiError struct {
	Error string `json:"error"`
}

type documentsResponse struct {
	Documents []models.Document `json:"documents"`
}

type videosResponse struct {
	Videos []models.Video `json:"videos"`
}

type progressResponse struct {
	Progress []models.ProgressEntry `json:"progress"`
}

type accountsResponse struct {
	Accounts []models.User `json:"accounts"`
}

// --- Auth ---

func (c *Client) Login(ctx context.Context, email, password string) (models.Session, error) {
	var sess models.Session
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, models.Credentials{Email: email, Password: password}, &sess, false)
	if errors.Is(err, common.ErrUnauthorized) {
		return models.Session{}, common.ErrInvalidCredentials
	}
	return sess, err
}

func (c *Client) Register(ctx context.Context, reg models.Registration) (models.Session, error) {
	var sess models.Session
	err := c.do(ctx, http.MethodPost, "/auth/register", nil, reg, &sess, false)
	return sess, err
}

// Logout revokes token on the backend.
func (c *Client) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return c.doWithToken(ctx, http.MethodPost, "/auth/logout", nil, nil, nil, token)
}

// Me returns the user the current token belongs to.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var u models.User
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &u, true)
	return u, err
}

// Accounts lists the public account records.
func (c *Client) Accounts(ctx context.Context) ([]models.User, error) {
	var resp accountsResponse
	if err := c.do(ctx, http.MethodGet, "/accounts", nil, nil, &resp, false); err != nil {
		return nil, err
	}
	return resp.Accounts, nil
}

// --- Content ---

// Documents fetches the complete, unfiltered document set.
func (c *Client) Documents(ctx context.Context) ([]models.Document, error) {
	return c.SearchDocuments(ctx, content.Filter{})
}

// SearchDocuments lets the backend apply f.
func (c *Client) SearchDocuments(ctx context.Context, f content.Filter) ([]models.Document, error) {
	var resp documentsResponse
	if err := c.do(ctx, http.MethodGet, "/documents", f.Values(), nil, &resp, false); err != nil {
		return nil, err
	}
	return resp.Documents, nil
}

// Videos fetches the complete, unfiltered video set.
func (c *Client) Videos(ctx context.Context) ([]models.Video, error) {
	return c.SearchVideos(ctx, content.Filter{})
}

// SearchVideos lets the backend apply f.
func (c *Client) SearchVideos(ctx context.Context, f content.Filter) ([]models.Video, error) {
	var resp videosResponse
	if err := c.do(ctx, http.MethodGet, "/videos", f.Values(), nil, &resp, false); err != nil {
		return nil, err
	}
	return resp.Videos, nil
}

// --- Settings and progress ---

// RemoteSettings implements settings.Service over the backend.
type RemoteSettings struct{ c *Client }

// Settings returns the settings service bound to this client.
func (c *Client) Settings() *RemoteSettings { return &RemoteSettings{c: c} }

func (r *RemoteSettings) Get(ctx context.Context) (models.Settings, error) {
	var s models.Settings
	err := r.c.do(ctx, http.MethodGet, "/settings", nil, nil, &s, true)
	return s, err
}

func (r *RemoteSettings) Update(ctx context.Context, s models.Settings) error {
	return r.c.do(ctx, http.MethodPut, "/settings", nil, s, nil, true)
}

// RemoteProgress implements progress.Service over the backend.
type RemoteProgress struct{ c *Client }

// Progress returns the progress service bound to this client.
func (c *Client) Progress() *RemoteProgress { return &RemoteProgress{c: c} }

func (r *RemoteProgress) List(ctx context.Context) ([]models.ProgressEntry, error) {
	var resp progressResponse
	if err := r.c.do(ctx, http.MethodGet, "/progress", nil, nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.Progress, nil
}

func (r *RemoteProgress) Update(ctx context.Context, contentType string, contentID, progress int, completed bool) error {
	body := models.ProgressUpdate{ContentType: contentType, ContentID: contentID, Progress: progress, Completed: completed}
	return r.c.do(ctx, http.MethodPost, "/progress", nil, body, nil, true)
}

func (r *RemoteProgress) Stats(ctx context.Context) (models.Stats, error) {
	var s models.Stats
	err := r.c.do(ctx, http.MethodGet, "/stats", nil, nil, &s, true)
	return s, err
}

// --- Transport ---

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any, auth bool) error {
	token := ""
	if auth {
		if c.token != nil {
			token = c.token()
		}
		if token == "" {
			return fmt.Errorf("%s %s: %w", method, path, common.ErrUnauthorized)
		}
	}
	return c.doWithToken(ctx, method, path, query, in, out, token)
}

func (c *Client) doWithToken(ctx context.Context, method, path string, query url.Values, in, out any, token string) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%s %s: %w: %v", method, path, common.ErrDataSourceUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, common.ErrDataSourceUnavailable, err)
	}

	if resp.StatusCode >= 300 {
		var apiErr apiError
		_ = json.Unmarshal(raw, &apiErr)
		if apiErr.Error == "" {
			apiErr.Error = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%s %s: %w: %s", method, path, errorForStatus(resp.StatusCode), apiErr.Error)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
	}
	return nil
}

func errorForStatus(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return common.ErrUnauthorized
	case http.StatusConflict:
		return common.ErrDuplicateEmail
	case http.StatusBadRequest:
		return common.ErrInvalidInput
	case http.StatusNotFound:
		return common.ErrNotFound
	case http.StatusTooManyRequests:
		return common.ErrRateLimited
	default:
		return fmt.Errorf("%w (status %s)", common.ErrDataSourceUnavailable, strconv.Itoa(status))
	}
}
