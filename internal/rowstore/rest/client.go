// Package rest implements the rowstore client against the remote row-store
// service's HTTP API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"smartspend/internal/rowstore"
)

// Config holds connection settings for the remote service.
type Config struct {
	Endpoint   string // e.g. https://cloud.example.com/v1
	ProjectID  string
	DatabaseID string
	APIKey     string
	Timeout    time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("row-store endpoint is required")
	}
	if cfg.ProjectID == "" || cfg.DatabaseID == "" {
		return nil, fmt.Errorf("row-store project and database ids are required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}, nil
}

type listResponse struct {
	Total int             `json:"total"`
	Rows  []rowstore.Row  `json:"rows"`
}

func (c *Client) ListRows(ctx context.Context, table string, q *rowstore.Query) (rowstore.RowList, error) {
	endpoint := c.rowsURL(table, "")
	if q != nil {
		vals := url.Values{}
		for _, enc := range EncodeQuery(q) {
			vals.Add("queries[]", enc)
		}
		if len(vals) > 0 {
			endpoint += "?" + vals.Encode()
		}
	}

	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return rowstore.RowList{}, fmt.Errorf("list rows %s: %w", table, err)
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return rowstore.RowList{}, fmt.Errorf("decode row list %s: %w", table, err)
	}
	return rowstore.RowList{Rows: resp.Rows, Total: resp.Total}, nil
}

func (c *Client) CreateRow(ctx context.Context, table, id string, data rowstore.Row, permissions []string) (rowstore.Row, error) {
	payload := map[string]any{
		"rowId": id,
		"data":  data,
	}
	if len(permissions) > 0 {
		payload["permissions"] = permissions
	}

	body, err := c.do(ctx, http.MethodPost, c.rowsURL(table, ""), payload)
	if err != nil {
		return nil, fmt.Errorf("create row %s/%s: %w", table, id, err)
	}
	return decodeRow(body, table)
}

func (c *Client) UpdateRow(ctx context.Context, table, id string, data rowstore.Row) (rowstore.Row, error) {
	payload := map[string]any{"data": data}

	body, err := c.do(ctx, http.MethodPatch, c.rowsURL(table, id), payload)
	if err != nil {
		return nil, fmt.Errorf("update row %s/%s: %w", table, id, err)
	}
	return decodeRow(body, table)
}

func (c *Client) DeleteRow(ctx context.Context, table, id string) error {
	if _, err := c.do(ctx, http.MethodDelete, c.rowsURL(table, id), nil); err != nil {
		return fmt.Errorf("delete row %s/%s: %w", table, id, err)
	}
	return nil
}

func (c *Client) rowsURL(table, id string) string {
	u := fmt.Sprintf("%s/databases/%s/tables/%s/rows",
		c.cfg.Endpoint, url.PathEscape(c.cfg.DatabaseID), url.PathEscape(table))
	if id != "" {
		u += "/" + url.PathEscape(id)
	}
	return u
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Project", c.cfg.ProjectID)
	if c.cfg.APIKey != "" {
		req.Header.Set("X-Key", c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rowstore.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, rowstore.ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, rowstore.ErrPermissionDenied
	default:
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(body, 256))
	}
}

func decodeRow(body []byte, table string) (rowstore.Row, error) {
	var row rowstore.Row
	if err := json.Unmarshal(body, &row); err != nil {
		return nil, fmt.Errorf("decode row %s: %w", table, err)
	}
	return row, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

var _ rowstore.Client = (*Client)(nil)
