// Package leads captures demo requests from the dashboard and forwards them
// to an Airtable table.
package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/HerbHall/fullstock/internal/version"
	"github.com/HerbHall/fullstock/pkg/models"
)

// Defaults for ClientConfig.
const (
	DefaultBaseURL = "https://api.airtable.com"
	DefaultTimeout = 15 * time.Second

	// maxErrorBody caps how much of an error response is kept.
	maxErrorBody = 4 << 10
)

// ClientConfig holds the Airtable endpoint and credentials.
type ClientConfig struct {
	APIKey  string
	BaseID  string
	TableID string
	BaseURL string
	Timeout time.Duration
}

// Missing returns the names of the unset credentials.
func (c ClientConfig) Missing() []string {
	var missing []string
	if c.APIKey == "" {
		missing = append(missing, "AIRTABLE_API_KEY")
	}
	if c.BaseID == "" {
		missing = append(missing, "AIRTABLE_BASE_ID")
	}
	if c.TableID == "" {
		missing = append(missing, "AIRTABLE_TABLE_ID")
	}
	return missing
}

// Record is the Airtable record created for a lead.
type Record struct {
	ID          string         `json:"id"`
	CreatedTime string         `json:"createdTime"`
	Fields      map[string]any `json:"fields"`
}

// Submitter sends one lead to the remote store.
type Submitter interface {
	Submit(ctx context.Context, lead models.Lead) (Record, error)
}

// Compile-time interface guard.
var _ Submitter = (*Client)(nil)

// Client posts leads to the Airtable REST API. It never retries.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates an Airtable client. Empty BaseURL and Timeout fall back
// to the defaults.
func NewClient(cfg ClientConfig, opts ...ClientOption) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type createRequest struct {
	Fields   map[string]string `json:"fields"`
	Typecast bool              `json:"typecast"`
}

// Submit creates one record for lead. A non-2xx response yields a
// *StatusError; incomplete credentials yield ErrNotConfigured without a
// network call.
func (c *Client) Submit(ctx context.Context, lead models.Lead) (Record, error) {
	if len(c.cfg.Missing()) > 0 {
		return Record{}, ErrNotConfigured
	}

	body, err := json.Marshal(createRequest{
		Fields: map[string]string{
			"Name":     lead.Name,
			"Company":  lead.Company,
			"Position": lead.Position,
			"Email":    lead.Email,
		},
		Typecast: true,
	})
	if err != nil {
		return Record{}, fmt.Errorf("encode lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return Record{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Record{}, fmt.Errorf("post lead: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return Record{}, &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var rec Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return Record{}, fmt.Errorf("decode airtable response: %w", err)
	}
	return rec, nil
}

func (c *Client) endpoint() string {
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/v0/" +
		url.PathEscape(c.cfg.BaseID) + "/" + url.PathEscape(c.cfg.TableID)
}
