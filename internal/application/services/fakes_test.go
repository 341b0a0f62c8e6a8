package services

import (
	"context"
	"sync"
	"testing"

	"github.com/reglet-dev/flowgrant/internal/application/ports"
	"github.com/reglet-dev/flowgrant/internal/domain/grants"
	"github.com/stretchr/testify/require"
)

// fakeOracle answers from fixed tables and counts lookups per key.
type fakeOracle struct {
	mu       sync.Mutex
	statuses map[string]ports.KeyStatus
	errs     map[string]error
	calls    map[string]int
}

func newFakeOracle() *fakeOracle {
	return &fakeOracle{
		statuses: make(map[string]ports.KeyStatus),
		errs:     make(map[string]error),
		calls:    make(map[string]int),
	}
}

func (o *fakeOracle) Status(key string) (ports.KeyStatus, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.calls[key]++
	if err := o.errs[key]; err != nil {
		return ports.KeyStatus{}, err
	}
	return o.statuses[key], nil
}

func (o *fakeOracle) set(key string, status ports.KeyStatus) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.statuses[key] = status
}

func (o *fakeOracle) callsFor(key string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls[key]
}

type shownBatch struct {
	ctx   context.Context
	batch grants.PromptBatch
	sink  ports.ResultSink
}

// manualInvoker records every batch and leaves resolution to the test.
type manualInvoker struct {
	mu      sync.Mutex
	batches []shownBatch
	err     error
}

func (m *manualInvoker) Show(ctx context.Context, batch grants.PromptBatch, sink ports.ResultSink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.batches = append(m.batches, shownBatch{ctx: ctx, batch: batch, sink: sink})
	return m.err
}

func (m *manualInvoker) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.batches)
}

func (m *manualInvoker) shown(i int) shownBatch {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.batches[i]
}

// resolve answers batch i with outcomes aligned to its keys.
func (m *manualInvoker) resolve(t *testing.T, i int, outcomes ...grants.Outcome) {
	t.Helper()
	b := m.shown(i)
	require.Len(t, outcomes, len(b.batch.Keys))
	require.NoError(t, b.sink.Dispatch(grants.NewResultEvent(b.batch, outcomes)))
}

// autoInvoker answers synchronously from a per-key table.
type autoInvoker struct {
	mu       sync.Mutex
	outcomes map[string]grants.Outcome
	batches  [][]string
}

func newAutoInvoker(outcomes map[string]grants.Outcome) *autoInvoker {
	return &autoInvoker{outcomes: outcomes}
}

func (a *autoInvoker) Show(_ context.Context, batch grants.PromptBatch, sink ports.ResultSink) error {
	a.mu.Lock()
	a.batches = append(a.batches, batch.Keys)
	outcomes := make([]grants.Outcome, len(batch.Keys))
	for i, k := range batch.Keys {
		outcomes[i] = a.outcomes[k]
	}
	a.mu.Unlock()

	return sink.Dispatch(grants.NewResultEvent(batch, outcomes))
}

func (a *autoInvoker) calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.batches)
}

type fakePlatform struct {
	runtimeGrants bool
}

func (p fakePlatform) SupportsRuntimeGrants() bool {
	return p.runtimeGrants
}

type fakeProbe struct {
	rationale map[string]bool
	err       error
}

func (p fakeProbe) CanExplainRationale(key string) (bool, error) {
	if p.err != nil {
		return false, p.err
	}
	return p.rationale[key], nil
}
