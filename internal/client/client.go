// Package client reads posts from a post store over HTTP.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yourEmotion/goonrails/internal/models"
)

// StatusError is returned for any non-2xx answer.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("post store answered %d: %s", e.Code, e.Body)
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New returns a client for baseURL whose requests give up after timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// ListPosts fetches the feed from GET /.
func (c *Client) ListPosts(ctx context.Context) ([]models.Post, error) {
	var env struct {
		Data []models.Post `json:"data"`
	}
	if err := c.get(ctx, "/", &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// GetPost fetches one post from GET /posts/:id.
func (c *Client) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	var env struct {
		Data *models.Post `json:"data"`
	}
	if err := c.get(ctx, "/posts/"+url.PathEscape(strconv.FormatInt(id, 10)), &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, fmt.Errorf("post %d: empty response", id)
	}
	return env.Data, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	res, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &StatusError{Code: res.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
