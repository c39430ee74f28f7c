// Package openapi binds the host interfaces to a bitable-style REST open API:
//
//	GET  /open-apis/bitable/v1/apps/{app}/tables
//	GET  /open-apis/bitable/v1/apps/{app}/tables/{table}/views
//	GET  /open-apis/bitable/v1/apps/{app}/tables/{table}/fields
//	GET  /open-apis/bitable/v1/apps/{app}/tables/{table}/records[?view_id=]
//	GET  /open-apis/bitable/v1/apps/{app}/tables/{table}/records/{record}
//	POST /open-apis/bitable/v1/apps/{app}/tables/{table}/records/batch_get
//
// Every answer is wrapped in {"code": 0, "msg": "success", "data": {...}}.
package openapi

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

	"ai-tablechat-be/pkg/host"
)

const (
	defaultPageSize = 100

	// codeNotFound is the API code for a missing table or record.
	codeNotFound = 1254004
)

type Config struct {
	BaseURL     string
	AppToken    string
	AccessToken string
	PageSize    int
	Timeout     time.Duration
}

// Client performs the raw HTTP calls.
type Client struct {
	baseURL     string
	appToken    string
	accessToken string
	pageSize    int
	http        *http.Client
}

func NewClient(cfg Config) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		appToken:    cfg.AppToken,
		accessToken: cfg.AccessToken,
		pageSize:    pageSize,
		http:        &http.Client{Timeout: timeout},
	}
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type page[T any] struct {
	Items     []T    `json:"items"`
	HasMore   bool   `json:"has_more"`
	PageToken string `json:"page_token"`
}

// APIError is a non-zero code in the response envelope or a non-200 status.
type APIError struct {
	Status int
	Code   int
	Msg    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("host api error (status %d, code %d): %s", e.Status, e.Code, e.Msg)
}

func (e *APIError) Is(target error) bool {
	return target == host.ErrNotFound && (e.Code == codeNotFound || e.Status == http.StatusNotFound)
}

func (c *Client) tablesPath(parts ...string) string {
	p := "/open-apis/bitable/v1/apps/" + url.PathEscape(c.appToken) + "/tables"
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("host request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode != http.StatusOK {
			return &APIError{Status: resp.StatusCode, Msg: string(raw)}
		}
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || env.Code != 0 {
		return &APIError{Status: resp.StatusCode, Code: env.Code, Msg: env.Msg}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

// list follows page tokens until the server reports no more items.
func list[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("page_size", strconv.Itoa(c.pageSize))

	var items []T
	for {
		var p page[T]
		if err := c.do(ctx, http.MethodGet, path, query, nil, &p); err != nil {
			return nil, err
		}
		items = append(items, p.Items...)
		if !p.HasMore || p.PageToken == "" {
			return items, nil
		}
		query.Set("page_token", p.PageToken)
	}
}
