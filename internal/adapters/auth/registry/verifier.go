package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clinic-data-exchange/internal/ports/auth"
)

var (
	ErrTokenEmpty = errors.New("token is empty")
)

// Verifier implementa auth.AuthVerifier contra el registro de la red.
type Verifier struct {
	client *Client
}

func NewVerifier(client *Client) *Verifier {
	return &Verifier{client: client}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrRegistryNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	claims, err := v.client.VerifyToken(ctx, token)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("registry verify failed: %w", err)
	}

	claims.ClinicID = strings.TrimSpace(claims.ClinicID)
	if claims.ClinicID == "" {
		return auth.Claims{}, errors.New("registry claims missing clinic id")
	}

	return claims, nil
}
