package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"clinic-data-exchange/internal/domain/requests"
)

type requestsRepo struct {
	mu   sync.RWMutex
	byID map[string]requests.PatientRequest
}

func NewRequestsRepo() requests.Repository {
	return &requestsRepo{
		byID: make(map[string]requests.PatientRequest),
	}
}

func (r *requestsRepo) Create(ctx context.Context, req requests.PatientRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if req.ID == "" {
		return errors.New("request id required")
	}
	if _, exists := r.byID[req.ID]; exists {
		return errors.New("request already exists")
	}
	r.byID[req.ID] = req
	return nil
}

func (r *requestsRepo) Update(ctx context.Context, req requests.PatientRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if req.ID == "" {
		return errors.New("request id required")
	}
	if _, exists := r.byID[req.ID]; !exists {
		return ErrNotFound
	}
	r.byID[req.ID] = req
	return nil
}

func (r *requestsRepo) GetByID(ctx context.Context, id string) (requests.PatientRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.byID[id]
	if !ok {
		return requests.PatientRequest{}, ErrNotFound
	}
	return req, nil
}

func (r *requestsRepo) ListByAccount(ctx context.Context, accountID string) ([]requests.PatientRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]requests.PatientRequest, 0)
	for _, req := range r.byID {
		if req.AccountID == accountID {
			out = append(out, req)
		}
	}

	// Most-recent-first; desempate por ID para orden estable.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
