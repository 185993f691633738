package registry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"clinic-data-exchange/internal/platform/httpclient"
	"clinic-data-exchange/internal/ports/auth"
)

var (
	ErrRegistryNotConfigured = errors.New("network-registry client not configured")
	ErrRegistryUnauthorized  = errors.New("network-registry unauthorized")
	ErrRegistryUpstream      = errors.New("network-registry upstream error")
)

// Config del cliente del registro de la red.
// BaseURL y APIKey normalmente vienen de la config del servicio.
type Config struct {
	BaseURL string
	APIKey  string

	// Opcional: nombre del header donde se manda la API key.
	// Si está vacío, se usa "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration
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

// VerifyToken llama al registro para verificar un token de clínica.
func (c *Client) VerifyToken(ctx context.Context, token string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, ErrRegistryNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrRegistryUnauthorized
	}

	const verifyPath = "/v1/tokens/verify"

	headers := map[string]string{
		c.apiKeyHeader:  c.apiKey,
		"Authorization": "Bearer " + token,
	}

	var out struct {
		ClinicID   string `json:"clinic_id"`
		ClinicName string `json:"clinic_name"`
		Email      string `json:"email"`
	}

	status, err := c.http.DoJSON(ctx, http.MethodPost, verifyPath, headers, map[string]string{"token": token}, &out)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrRegistryUpstream, err)
	}

	switch status {
	case http.StatusOK:
		// ok
	case http.StatusUnauthorized, http.StatusForbidden:
		return auth.Claims{}, ErrRegistryUnauthorized
	default:
		return auth.Claims{}, fmt.Errorf("%w: status=%d", ErrRegistryUpstream, status)
	}

	out.ClinicID = strings.TrimSpace(out.ClinicID)
	if out.ClinicID == "" {
		return auth.Claims{}, errors.New("registry response missing clinic_id")
	}

	return auth.Claims{
		ClinicID:   out.ClinicID,
		ClinicName: strings.TrimSpace(out.ClinicName),
		Email:      strings.TrimSpace(out.Email),
	}, nil
}
