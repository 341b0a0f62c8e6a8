// Package memory provides in-memory implementations of domain repositories.
package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/reglet-dev/flowgrant/internal/domain/grants"
	"github.com/reglet-dev/flowgrant/internal/domain/repositories"
)

// Ensure interface compliance
var _ repositories.PendingRequestRepository = (*PendingRequestRepository)(nil)

// PendingRequestRepository is the in-memory registry of in-flight grant requests.
type PendingRequestRepository struct {
	pending map[string]*grants.PendingRequest
	mu      sync.RWMutex
}

// NewPendingRequestRepository creates an empty registry.
func NewPendingRequestRepository() *PendingRequestRepository {
	return &PendingRequestRepository{
		pending: make(map[string]*grants.PendingRequest),
	}
}

// Lookup returns the in-flight request for key, if any.
func (r *PendingRequestRepository) Lookup(key string) (*grants.PendingRequest, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.pending[key]
	return p, ok
}

// Create registers a new in-flight request for key.
func (r *PendingRequestRepository) Create(key string) (*grants.PendingRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pending[key]; exists {
		return nil, fmt.Errorf("%w: %s", repositories.ErrPendingRequestExists, key)
	}

	p := grants.NewPendingRequest(key)
	r.pending[key] = p
	return p, nil
}

// Remove forgets the in-flight request for key.
func (r *PendingRequestRepository) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.pending, key)
}

// Len returns the number of in-flight keys.
func (r *PendingRequestRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.pending)
}

// Keys returns the in-flight keys in sorted order.
func (r *PendingRequestRepository) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.pending))
	for k := range r.pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
