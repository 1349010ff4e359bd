// Package notion reads the habit and tracker databases from the Notion REST API.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.notion.com"
	DefaultVersion = "2022-06-28"
	DefaultRate    = 3.0

	pageSize = 100
)

// APIError is a non-200 answer from the Notion API.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("notion: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("notion: status %d (%s): %s", e.Status, e.Code, e.Message)
}

type Client struct {
	baseURL    string
	token      string
	version    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type ClientOption func(*Client)

func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithVersion(v string) ClientOption {
	return func(c *Client) { c.version = v }
}

func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = h }
}

// WithRateLimit caps outgoing requests per second. Zero or less disables throttling.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		token:      token,
		version:    DefaultVersion,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRate), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Page is one row of a Notion database.
type Page struct {
	ID         string              `json:"id"`
	URL        string              `json:"url"`
	Properties map[string]Property `json:"properties"`
}

type Database struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

type listResponse struct {
	Results    []json.RawMessage `json:"results"`
	HasMore    bool              `json:"has_more"`
	NextCursor *string           `json:"next_cursor"`
}

type queryRequest struct {
	PageSize    int               `json:"page_size"`
	StartCursor string            `json:"start_cursor,omitempty"`
	Filter      map[string]string `json:"filter,omitempty"`
}

// QueryDatabase returns every page of a database, following the cursor until
// the API reports no more results.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string) ([]Page, error) {
	raw, err := c.paginate(ctx, "/v1/databases/"+databaseID+"/query", nil)
	if err != nil {
		return nil, fmt.Errorf("query database %s: %w", databaseID, err)
	}

	pages := make([]Page, 0, len(raw))
	for _, r := range raw {
		var p Page
		if err := json.Unmarshal(r, &p); err != nil {
			return nil, fmt.Errorf("query database %s: decode page: %w", databaseID, err)
		}
		pages = append(pages, p)
	}

	log.Printf("[NOTION] Database %s: %d pages", databaseID, len(pages))
	return pages, nil
}

// Search lists the databases shared with the integration.
func (c *Client) Search(ctx context.Context) ([]Database, error) {
	filter := map[string]string{"property": "object", "value": "database"}
	raw, err := c.paginate(ctx, "/v1/search", filter)
	if err != nil {
		return nil, fmt.Errorf("search databases: %w", err)
	}

	dbs := make([]Database, 0, len(raw))
	for _, r := range raw {
		var res struct {
			ID    string `json:"id"`
			URL   string `json:"url"`
			Title []struct {
				PlainText string `json:"plain_text"`
			} `json:"title"`
		}
		if err := json.Unmarshal(r, &res); err != nil {
			return nil, fmt.Errorf("search databases: decode result: %w", err)
		}

		db := Database{ID: strings.ReplaceAll(res.ID, "-", ""), URL: res.URL}
		if len(res.Title) > 0 {
			db.Title = res.Title[0].PlainText
		}
		dbs = append(dbs, db)
	}
	return dbs, nil
}

func (c *Client) paginate(ctx context.Context, path string, filter map[string]string) ([]json.RawMessage, error) {
	var all []json.RawMessage
	cursor := ""

	for {
		var resp listResponse
		req := queryRequest{PageSize: pageSize, StartCursor: cursor, Filter: filter}
		if err := c.post(ctx, path, req, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.Results...)

		if !resp.HasMore || resp.NextCursor == nil || *resp.NextCursor == "" {
			return all, nil
		}
		cursor = *resp.NextCursor
	}
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{}
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		apiErr.Status = resp.StatusCode
		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
