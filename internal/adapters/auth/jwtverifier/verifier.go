package jwtverifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"clinic-data-exchange/internal/ports/auth"
)

var (
	ErrSecretEmpty  = errors.New("jwt secret is empty")
	ErrInvalidToken = errors.New("invalid token")
)

type clinicClaims struct {
	ClinicName string `json:"clinic_name"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

// Verifier implementa auth.AuthVerifier con tokens HS256 firmados localmente.
// El clinic ID viaja en el claim "sub".
type Verifier struct {
	secret []byte
}

func New(secret string) (*Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrSecretEmpty
	}
	return &Verifier{secret: []byte(secret)}, nil
}

func (v *Verifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrInvalidToken
	}

	var claims clinicClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return auth.Claims{}, ErrInvalidToken
	}

	clinicID := strings.TrimSpace(claims.Subject)
	if clinicID == "" {
		return auth.Claims{}, fmt.Errorf("%w: missing sub", ErrInvalidToken)
	}

	return auth.Claims{
		ClinicID:   clinicID,
		ClinicName: strings.TrimSpace(claims.ClinicName),
		Email:      strings.TrimSpace(claims.Email),
	}, nil
}
