package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	apperrors "github.com/reglet-dev/flowgrant/internal/application/errors"
	"github.com/reglet-dev/flowgrant/internal/application/ports"
	"github.com/reglet-dev/flowgrant/internal/domain/grants"
	"github.com/reglet-dev/flowgrant/internal/domain/repositories"
	"github.com/reglet-dev/flowgrant/internal/infrastructure/persistence/memory"
)

// Coordinator deduplicates in-flight grant requests, batches newly requested
// keys into a single prompt and fans each outcome out to every caller that
// asked for it.
//
// All registry mutation goes through the coordinator. One mutex covers every
// check-then-create sequence in Submit and every removal in Dispatch, so a key
// never has two prompts in flight.
type Coordinator struct {
	oracle   ports.PermissionOracle
	invoker  ports.PromptInvoker
	registry repositories.PendingRequestRepository
	batches  repositories.BatchRepository
	logger   *slog.Logger
	mu       sync.Mutex
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithLogger sets the logger used for request and dispatch tracing.
func WithLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRegistry replaces the default in-memory registry.
func WithRegistry(registry repositories.PendingRequestRepository) CoordinatorOption {
	return func(c *Coordinator) {
		if registry != nil {
			c.registry = registry
		}
	}
}

// WithBatchRepository records every issued prompt batch and its outcome.
func WithBatchRepository(batches repositories.BatchRepository) CoordinatorOption {
	return func(c *Coordinator) {
		c.batches = batches
	}
}

// NewCoordinator creates a coordinator bound to its host collaborators.
func NewCoordinator(oracle ports.PermissionOracle, invoker ports.PromptInvoker, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		oracle:   oracle,
		invoker:  invoker,
		registry: memory.NewPendingRequestRepository(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit starts a request for keys and returns a Ticket that yields one
// Grant per key, in input order.
//
// Keys the oracle already knows are answered immediately. Keys already in
// flight join the existing request. The remaining keys are shown to the user
// in exactly one prompt. An empty key list fails with InvalidArgumentError
// before anything is registered.
func (c *Coordinator) Submit(ctx context.Context, keys ...string) (*Ticket, error) {
	if len(keys) == 0 {
		return nil, apperrors.NewInvalidArgumentError("keys", "at least one grant key is required", nil)
	}

	pending := make([]*grants.PendingRequest, len(keys))
	var unrequested []string
	var created []*grants.PendingRequest

	c.mu.Lock()
	for i, key := range keys {
		c.logger.Debug("requesting grant", "key", key)

		status, err := c.oracle.Status(key)
		if err != nil {
			pending[i] = grants.Failed(key, err)
			continue
		}

		if status.Decided() {
			pending[i] = grants.Resolved(grants.New(key, status.Granted && !status.RevokedByPolicy, false))
			continue
		}

		if existing, ok := c.registry.Lookup(key); ok {
			pending[i] = existing
			continue
		}

		p, err := c.registry.Create(key)
		if err != nil {
			pending[i] = grants.Failed(key, err)
			continue
		}
		pending[i] = p
		unrequested = append(unrequested, key)
		created = append(created, p)
	}
	c.mu.Unlock()

	if len(unrequested) > 0 {
		c.issue(ctx, grants.NewPromptBatch(unrequested), created)
	}

	return newTicket(keys, pending), nil
}

// issue shows the prompt for batch. The prompt is shared by every caller
// that joins these keys, so it is detached from the caller's cancellation.
func (c *Coordinator) issue(ctx context.Context, batch grants.PromptBatch, created []*grants.PendingRequest) {
	c.logger.Debug("issuing prompt batch", "batch_id", batch.ID.String(), "keys", batch.Keys)

	if c.batches != nil {
		if err := c.batches.Save(ctx, batch); err != nil {
			c.logger.Warn("failed to record prompt batch", "batch_id", batch.ID.String(), "error", err)
		}
	}

	err := c.invoker.Show(context.WithoutCancel(ctx), batch, c)
	if err == nil {
		return
	}

	// An invoker that dispatches synchronously may hand back the Dispatch
	// error. The batch was answered, so nothing is left to release.
	var violation *apperrors.ProtocolViolationError
	if errors.As(err, &violation) {
		c.logger.Warn("prompt result contained unexpected keys", "batch_id", batch.ID.String(), "error", err)
		return
	}

	c.logger.Error("prompt invocation failed", "batch_id", batch.ID.String(), "keys", batch.Keys, "error", err)

	// No result will arrive for this batch; release the keys so a later
	// request can prompt again, then fail everyone waiting on them.
	c.mu.Lock()
	for _, p := range created {
		if current, ok := c.registry.Lookup(p.Key()); ok && current == p {
			c.registry.Remove(p.Key())
		}
	}
	c.mu.Unlock()

	for _, p := range created {
		p.Fail(err)
	}
}

// InFlight returns the keys currently waiting on a prompt.
func (c *Coordinator) InFlight() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.registry.Keys()
}
