package memory

import (
	"sync"

	"github.com/reglet-dev/flowgrant/internal/domain/repositories"
)

// Ensure interface compliance
var _ repositories.DecisionRepository = (*DecisionStore)(nil)

// DecisionStore keeps the answers given during this process.
// Nothing is written to disk; a restart forgets every decision.
type DecisionStore struct {
	decisions map[string]repositories.Decision
	mu        sync.RWMutex
}

// NewDecisionStore creates an empty store.
func NewDecisionStore() *DecisionStore {
	return &DecisionStore{
		decisions: make(map[string]repositories.Decision),
	}
}

// Record stores the decision for key.
func (s *DecisionStore) Record(key string, decision repositories.Decision) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if decision == repositories.DecisionUnknown {
		delete(s.decisions, key)
		return
	}
	s.decisions[key] = decision
}

// Get returns the recorded decision for key.
func (s *DecisionStore) Get(key string) repositories.Decision {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.decisions[key]
}
