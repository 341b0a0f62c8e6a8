package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/reglet-dev/flowgrant/internal/domain/grants"
	"github.com/reglet-dev/flowgrant/internal/domain/repositories"
	"github.com/reglet-dev/flowgrant/internal/domain/values"
)

// Ensure interface compliance
var _ repositories.BatchRepository = (*BatchRepository)(nil)

// BatchRepository is an in-memory log of issued prompt batches.
type BatchRepository struct {
	records map[uuid.UUID]*repositories.BatchRecord
	order   []uuid.UUID
	mu      sync.RWMutex
}

// NewBatchRepository creates an empty batch log.
func NewBatchRepository() *BatchRepository {
	return &BatchRepository{
		records: make(map[uuid.UUID]*repositories.BatchRecord),
	}
}

// Save stores a newly issued batch.
func (r *BatchRepository) Save(_ context.Context, batch grants.PromptBatch) error {
	if batch.ID.IsZero() {
		return fmt.Errorf("batch has no ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := batch.ID.UUID()
	if _, exists := r.records[id]; exists {
		return fmt.Errorf("batch already recorded: %s", batch.ID)
	}
	r.records[id] = &repositories.BatchRecord{Batch: batch}
	r.order = append(r.order, id)
	return nil
}

// MarkResolved attaches the dispatched grants to a batch.
func (r *BatchRepository) MarkResolved(_ context.Context, id values.BatchID, outcome []grants.Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id.UUID()]
	if !ok {
		return fmt.Errorf("batch not found: %s", id)
	}
	rec.Outcome = append([]grants.Grant(nil), outcome...)
	rec.Resolved = true
	return nil
}

// FindByID retrieves a copy of a batch record.
func (r *BatchRepository) FindByID(_ context.Context, id values.BatchID) (*repositories.BatchRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id.UUID()]
	if !ok {
		return nil, fmt.Errorf("batch not found: %s", id)
	}
	cp := *rec
	return &cp, nil
}

// List returns copies of all batches in issue order.
func (r *BatchRepository) List(_ context.Context) ([]*repositories.BatchRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*repositories.BatchRecord, 0, len(r.order))
	for _, id := range r.order {
		cp := *r.records[id]
		out = append(out, &cp)
	}
	return out, nil
}
