package networkplans

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"clinic-data-exchange/internal/platform/httpclient"
)

var (
	ErrPlansNotConfigured = errors.New("network-plans client not configured")
	ErrPlansUnauthorized  = errors.New("network-plans unauthorized")
	ErrPlansUpstream      = errors.New("network-plans upstream error")
)

type Config struct {
	BaseURL string
	APIKey  string

	APIKeyHeader string
	Timeout      time.Duration
}

type Client struct {
	apiKey       string
	apiKeyHeader string
	http         *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
		http:         hc,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.apiKey != ""
}

type FeaturesResponse struct {
	// Ejemplo: {"requests:submit": true}
	Features map[string]bool `json:"features"`
}

// GetFeatures trae las features del plan de una clínica.
func (c *Client) GetFeatures(ctx context.Context, clinicID string) (FeaturesResponse, error) {
	if !c.IsConfigured() {
		return FeaturesResponse{}, ErrPlansNotConfigured
	}
	clinicID = strings.TrimSpace(clinicID)
	if clinicID == "" {
		return FeaturesResponse{}, errors.New("clinicID required")
	}

	path := "/v1/features?clinic_id=" + url.QueryEscape(clinicID)

	var out FeaturesResponse
	status, err := c.http.DoJSON(ctx, http.MethodGet, path, map[string]string{c.apiKeyHeader: c.apiKey}, nil, &out)
	if err != nil {
		return FeaturesResponse{}, fmt.Errorf("%w: %v", ErrPlansUpstream, err)
	}

	switch status {
	case http.StatusOK:
		// ok
	case http.StatusUnauthorized, http.StatusForbidden:
		return FeaturesResponse{}, ErrPlansUnauthorized
	default:
		return FeaturesResponse{}, fmt.Errorf("%w: status=%d", ErrPlansUpstream, status)
	}

	if out.Features == nil {
		out.Features = map[string]bool{}
	}
	return out, nil
}
