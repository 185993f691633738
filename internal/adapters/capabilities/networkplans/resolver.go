package networkplans

import (
	"context"
	"errors"
	"strings"

	"clinic-data-exchange/internal/ports/capabilities"
)

// Resolver implementa capabilities.CapabilitiesResolver contra network-plans.
type Resolver struct {
	client   *Client
	allowAll bool
}

// NewResolver crea un resolver. Con allowAll=true todo devuelve true
// sin llamar a upstream (modo dev / fallback).
func NewResolver(client *Client, allowAll bool) *Resolver {
	return &Resolver{
		client:   client,
		allowAll: allowAll,
	}
}

func (r *Resolver) HasFeature(ctx context.Context, in capabilities.CapabilityCheck) (bool, error) {
	feature := strings.TrimSpace(in.Feature)
	if feature == "" {
		return false, errors.New("feature required")
	}

	if r.allowAll {
		return true, nil
	}

	if r == nil || r.client == nil || !r.client.IsConfigured() {
		// Preferimos fallar explícito en vez de permitir sin control.
		return false, ErrPlansNotConfigured
	}

	resp, err := r.client.GetFeatures(ctx, in.ClinicID)
	if err != nil {
		return false, err
	}

	return resp.Features[feature], nil
}
