package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Config represents the configuration for the usage reporting client
type Config struct {
	// BaseURL is the base URL of the billing service
	BaseURL string
	// Token is the shared ingest token issued to this deployment
	Token string
	// HTTPClient is an optional custom HTTP client
	HTTPClient *http.Client
	// Timeout is the default request timeout
	Timeout time.Duration
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "http://localhost:8080",
		HTTPClient: http.DefaultClient,
		Timeout:    10 * time.Second,
	}
}

// Client submits usage reports to the billing service. Remote deployments
// embed it to report their active user count.
type Client struct {
	config *Config
	client *http.Client
}

// NewClient creates a new usage reporting client with the given configuration
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	client := config.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	return &Client{
		config: config,
		client: client,
	}
}

// UsageReportRequest represents a usage report submission
type UsageReportRequest struct {
	OrganizationID   uuid.UUID  `json:"organization_id"`
	OrganizationName string     `json:"organization_name"`
	InstanceURL      string     `json:"instance_url,omitempty"`
	UserCount        int        `json:"user_count"`
	Timestamp        *time.Time `json:"timestamp,omitempty"`
}

// UsageReportResponse represents the service's acknowledgement
type UsageReportResponse struct {
	Ok                 bool   `json:"ok"`
	ReportID           string `json:"report_id"`
	OrganizationStatus string `json:"organization_status"`
	Error              string `json:"error,omitempty"`
}

// SubmitUsageReport reports the deployment's current active user count
func (c *Client) SubmitUsageReport(ctx context.Context, req *UsageReportRequest) (*UsageReportResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	if req.OrganizationID == uuid.Nil || req.OrganizationName == "" {
		return nil, errors.New("organization_id and organization_name are required")
	}
	if req.UserCount < 0 {
		return nil, errors.New("user_count must be non-negative")
	}

	endpoint := fmt.Sprintf("%s/api/usage-reports", c.config.BaseURL)
	return c.doRequest(ctx, endpoint, req)
}

func (c *Client) doRequest(ctx context.Context, endpoint string, payload interface{}) (*UsageReportResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.config.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	var out UsageReportResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusOK:
		return &out, nil
	case http.StatusUnauthorized:
		return nil, fmt.Errorf("ingest token rejected: %s", out.Error)
	case http.StatusBadRequest:
		return nil, fmt.Errorf("invalid usage report: %s", out.Error)
	default:
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, out.Error)
	}
}
