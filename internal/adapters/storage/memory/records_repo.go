package memory

import (
	"context"
	"errors"
	"sync"

	"clinic-data-exchange/internal/domain/records"
)

type recordsRepo struct {
	mu   sync.RWMutex
	byID map[string]records.SharedRecord

	// order preserva el orden de publicación: define qué significa
	// "primer registro" para el fallback de resolución.
	order []string
}

func NewRecordsRepo() records.Repository {
	return &recordsRepo{
		byID: make(map[string]records.SharedRecord),
	}
}

func (r *recordsRepo) Create(ctx context.Context, rec records.SharedRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.ID == "" {
		return errors.New("record id required")
	}
	if _, exists := r.byID[rec.ID]; exists {
		return errors.New("record already exists")
	}
	r.byID[rec.ID] = rec
	r.order = append(r.order, rec.ID)
	return nil
}

func (r *recordsRepo) GetByID(ctx context.Context, id string) (records.SharedRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return records.SharedRecord{}, ErrNotFound
	}
	return rec, nil
}

func (r *recordsRepo) List(ctx context.Context) ([]records.SharedRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]records.SharedRecord, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out, nil
}

func (r *recordsRepo) FindByPatientName(ctx context.Context, patientName string) (records.SharedRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if r.byID[id].PatientName == patientName {
			return r.byID[id], nil
		}
	}
	return records.SharedRecord{}, ErrNotFound
}

func (r *recordsRepo) First(ctx context.Context) (records.SharedRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.order) == 0 {
		return records.SharedRecord{}, ErrNotFound
	}
	return r.byID[r.order[0]], nil
}
