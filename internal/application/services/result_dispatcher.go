package services

import (
	"context"
	"errors"

	apperrors "github.com/reglet-dev/flowgrant/internal/application/errors"
	"github.com/reglet-dev/flowgrant/internal/domain/grants"
)

// Dispatch routes the answers of a prompt to the callers waiting on them.
//
// For each key the pending request is removed from the registry and
// published in one critical section, so a Submit that no longer finds the
// key in flight never races the previous waiters. A new Submit for the
// same key then consults the oracle again and may prompt again.
//
// A key nobody is waiting on is a protocol violation: it is logged, skipped,
// and returned (joined with any others) after the remaining keys were
// delivered. A malformed event is rejected, and every in-flight key it names
// is released and failed with the same error.
func (c *Coordinator) Dispatch(event grants.ResultEvent) error {
	if err := event.Validate(); err != nil {
		invalid := apperrors.NewInvalidArgumentError("event", "malformed result event", err)
		c.logger.Error("malformed result event", "batch_id", event.BatchID.String(), "keys", event.Keys, "error", err)
		c.failKeys(event.Keys, invalid)
		return invalid
	}

	var violations []error
	delivered := make([]grants.Grant, 0, len(event.Keys))

	for i, key := range event.Keys {
		grant := event.GrantAt(i)

		c.mu.Lock()
		p, ok := c.registry.Lookup(key)
		if ok {
			c.registry.Remove(key)
			p.Resolve(grant)
		}
		c.mu.Unlock()

		if !ok {
			violation := apperrors.NewProtocolViolationError(key, i)
			c.logger.Error("result received without a pending request", "key", key, "index", i)
			violations = append(violations, violation)
			continue
		}

		c.logger.Debug("dispatched grant", "key", key,
			"authorized", grant.Authorized, "can_explain_rationale", grant.CanExplainRationale)
		delivered = append(delivered, grant)
	}

	if c.batches != nil && !event.BatchID.IsZero() {
		if err := c.batches.MarkResolved(context.Background(), event.BatchID, delivered); err != nil {
			c.logger.Warn("failed to record batch outcome", "batch_id", event.BatchID.String(), "error", err)
		}
	}

	return errors.Join(violations...)
}

// failKeys releases every in-flight key in keys and fails its waiters with err.
func (c *Coordinator) failKeys(keys []string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		if p, ok := c.registry.Lookup(key); ok {
			c.registry.Remove(key)
			p.Fail(err)
		}
	}
}
