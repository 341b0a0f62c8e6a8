package services

import (
	"context"
	"fmt"

	"github.com/reglet-dev/flowgrant/internal/domain/grants"
	"golang.org/x/sync/errgroup"
)

// Ticket is the handle for one submitted request. It produces a single
// emission: the list of grants, aligned with the requested keys.
type Ticket struct {
	keys    []string
	pending []*grants.PendingRequest
}

func newTicket(keys []string, pending []*grants.PendingRequest) *Ticket {
	return &Ticket{
		keys:    append([]string(nil), keys...),
		pending: pending,
	}
}

// Keys returns the requested keys in order.
func (t *Ticket) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Wait blocks until every key has an outcome and returns them in request
// order. If any key fails, Wait returns that error and no partial list.
// Cancelling ctx stops this wait only; the prompt keeps running for others.
func (t *Ticket) Wait(ctx context.Context) ([]grants.Grant, error) {
	result := make([]grants.Grant, len(t.pending))

	g, gCtx := errgroup.WithContext(ctx)
	for i, p := range t.pending {
		g.Go(func() error {
			grant, err := p.Wait(gCtx)
			if err != nil {
				return fmt.Errorf("grant %s: %w", p.Key(), err)
			}
			result[i] = grant
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
