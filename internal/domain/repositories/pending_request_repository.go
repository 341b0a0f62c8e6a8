// Package repositories defines interfaces for domain persistence.
package repositories

import (
	"context"
	"errors"

	"github.com/reglet-dev/flowgrant/internal/domain/grants"
	"github.com/reglet-dev/flowgrant/internal/domain/values"
)

// ErrPendingRequestExists is returned by Create when a key is already in flight.
var ErrPendingRequestExists = errors.New("pending request already exists")

// PendingRequestRepository holds the in-flight request for each grant key.
// Implementations are not expected to make check-then-create atomic; the
// coordinator serializes those sequences itself.
type PendingRequestRepository interface {
	// Lookup returns the in-flight request for key, if any.
	Lookup(key string) (*grants.PendingRequest, bool)

	// Create registers a new in-flight request for key.
	// It fails with ErrPendingRequestExists if one is already registered.
	Create(key string) (*grants.PendingRequest, error)

	// Remove forgets the in-flight request for key.
	Remove(key string)

	// Len returns the number of in-flight keys.
	Len() int

	// Keys returns the in-flight keys in sorted order.
	Keys() []string
}

// Decision is what the user answered for a key during this session.
type Decision int

const (
	// DecisionUnknown means the key was never answered.
	DecisionUnknown Decision = iota
	// DecisionGranted means the user allowed the key.
	DecisionGranted
	// DecisionDenied means the user refused but may be asked again.
	DecisionDenied
	// DecisionDeniedPermanently means the user refused and asked not to be asked again.
	DecisionDeniedPermanently
)

// String returns a human-readable representation of the decision.
func (d Decision) String() string {
	switch d {
	case DecisionGranted:
		return "granted"
	case DecisionDenied:
		return "denied"
	case DecisionDeniedPermanently:
		return "denied-permanently"
	default:
		return "unknown"
	}
}

// DecisionRepository remembers the answers given during the current process.
type DecisionRepository interface {
	// Record stores the decision for key, replacing any earlier one.
	Record(key string, decision Decision)

	// Get returns the recorded decision for key.
	Get(key string) Decision
}

// BatchRecord describes one prompt invocation and, once known, its outcome.
type BatchRecord struct {
	Batch    grants.PromptBatch
	Outcome  []grants.Grant
	Resolved bool
}

// BatchRepository keeps a log of the prompt batches issued by a coordinator.
type BatchRepository interface {
	// Save stores a newly issued batch.
	Save(ctx context.Context, batch grants.PromptBatch) error

	// MarkResolved attaches the dispatched grants to a batch.
	MarkResolved(ctx context.Context, id values.BatchID, outcome []grants.Grant) error

	// FindByID retrieves a batch by its ID.
	FindByID(ctx context.Context, id values.BatchID) (*BatchRecord, error)

	// List returns batches in the order they were issued.
	List(ctx context.Context) ([]*BatchRecord, error)
}
