package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client posts audit records to an external collector. Best-effort only: a
// nil client or a failed post never blocks a request.
type Client struct {
	BaseURL string
	APIKey  string

	HTTP *http.Client
}

type Record struct {
	Actor   string         `json:"actor"`
	Action  string         `json:"action"`
	Level   string         `json:"level"`
	Details map[string]any `json:"details"`
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return &http.Client{Timeout: 5 * time.Second}
}

func (c *Client) CreateRecord(ctx context.Context, rec Record) error {
	if c == nil {
		return nil
	}
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		return errors.New("audit base url is empty")
	}

	body, _ := json.Marshal(rec)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/api/v1/audit", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if key := strings.TrimSpace(c.APIKey); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("audit post http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return nil
}
