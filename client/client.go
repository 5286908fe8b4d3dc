package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const articlesPath = "/api/articles"

type Client struct {
	http.Client
	Addr string

	// AdminPassword is sent as X-Admin-Password on writes when set.
	AdminPassword string
}

// Article mirrors the JSON article returned by the API.
type Article struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Summary   string    `json:"summary"`
	Category  string    `json:"category"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ArticleInput is the body of a create or update. Nil optional fields are
// omitted, which on update keeps the stored value.
type ArticleInput struct {
	Title     string  `json:"title"`
	Slug      string  `json:"slug"`
	Content   string  `json:"content"`
	Summary   *string `json:"summary,omitempty"`
	Category  *string `json:"category,omitempty"`
	ImageURL  *string `json:"imageUrl,omitempty"`
	Published *bool   `json:"published,omitempty"`
}

// ListOptions narrows ListArticles. Zero values are not sent.
type ListOptions struct {
	Limit     int
	Offset    int
	Category  string
	Published *bool
	Query     string
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("articles api: %d %s", e.StatusCode, e.Message)
}

func (c *Client) Ping() (string, error) {
	req, err := http.NewRequest(http.MethodGet, c.Addr+"/ping", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), err
}

func (c *Client) ListArticles(ctx context.Context, opts ListOptions) ([]Article, error) {
	q := url.Values{}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}
	if opts.Category != "" {
		q.Set("category", opts.Category)
	}
	if opts.Published != nil {
		q.Set("published", strconv.FormatBool(*opts.Published))
	}
	if opts.Query != "" {
		q.Set("q", opts.Query)
	}

	path := articlesPath
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	articles := []Article{}
	if err := c.call(ctx, http.MethodGet, path, nil, &articles); err != nil {
		return nil, err
	}

	return articles, nil
}

// GetArticle fetches one article by numeric id or slug.
func (c *Client) GetArticle(ctx context.Context, ident string) (*Article, error) {
	a := &Article{}
	if err := c.call(ctx, http.MethodGet, articlesPath+"/"+url.PathEscape(ident), nil, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (c *Client) CreateArticle(ctx context.Context, in ArticleInput) (*Article, error) {
	a := &Article{}
	if err := c.call(ctx, http.MethodPost, articlesPath, in, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (c *Client) UpdateArticle(ctx context.Context, ident string, in ArticleInput) (*Article, error) {
	a := &Article{}
	if err := c.call(ctx, http.MethodPut, articlesPath+"/"+url.PathEscape(ident), in, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (c *Client) DeleteArticle(ctx context.Context, ident string) error {
	var out struct {
		Success bool `json:"success"`
	}

	return c.call(ctx, http.MethodDelete, articlesPath+"/"+url.PathEscape(ident), nil, &out)
}

func (c *Client) call(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.Addr+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet && c.AdminPassword != "" {
		req.Header.Set("X-Admin-Password", c.AdminPassword)
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)

		return &APIError{StatusCode: resp.StatusCode, Message: e.Error}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
