package memory

import (
	"testing"

	"github.com/reglet-dev/flowgrant/internal/domain/repositories"
	"github.com/stretchr/testify/assert"
)

func TestDecisionStore_RecordAndGet(t *testing.T) {
	t.Parallel()

	store := NewDecisionStore()
	assert.Equal(t, repositories.DecisionUnknown, store.Get("CAMERA"))

	store.Record("CAMERA", repositories.DecisionDenied)
	assert.Equal(t, repositories.DecisionDenied, store.Get("CAMERA"))

	store.Record("CAMERA", repositories.DecisionGranted)
	assert.Equal(t, repositories.DecisionGranted, store.Get("CAMERA"))

	store.Record("CAMERA", repositories.DecisionUnknown)
	assert.Equal(t, repositories.DecisionUnknown, store.Get("CAMERA"))
}
