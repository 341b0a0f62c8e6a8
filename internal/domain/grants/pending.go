package grants

import (
	"context"
	"sync"
)

// PendingRequest is a one-shot broadcast of the outcome for a single key.
// Any number of callers may wait on it before or after it settles; it is
// settled exactly once, either with a Grant or with an error, and the
// result is cached for every later Wait.
type PendingRequest struct {
	key   string
	done  chan struct{}
	once  sync.Once
	grant Grant
	err   error
}

// NewPendingRequest creates an unsettled request for key.
func NewPendingRequest(key string) *PendingRequest {
	return &PendingRequest{
		key:  key,
		done: make(chan struct{}),
	}
}

// Resolved creates a request that is already settled with g.
func Resolved(g Grant) *PendingRequest {
	p := NewPendingRequest(g.Key)
	p.Resolve(g)
	return p
}

// Failed creates a request for key that is already settled with err.
func Failed(key string, err error) *PendingRequest {
	p := NewPendingRequest(key)
	p.Fail(err)
	return p
}

// Key returns the grant key this request waits on.
func (p *PendingRequest) Key() string {
	return p.key
}

// Resolve publishes g. It returns false if the request was already settled.
func (p *PendingRequest) Resolve(g Grant) bool {
	return p.settle(g, nil)
}

// Fail settles the request with err. It returns false if the request was already settled.
func (p *PendingRequest) Fail(err error) bool {
	return p.settle(Grant{}, err)
}

func (p *PendingRequest) settle(g Grant, err error) bool {
	settled := false
	p.once.Do(func() {
		p.grant = g
		p.err = err
		settled = true
		close(p.done)
	})
	return settled
}

// Done returns a channel that is closed once the request settles.
func (p *PendingRequest) Done() <-chan struct{} {
	return p.done
}

// Settled reports whether the request has a result.
func (p *PendingRequest) Settled() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the request settles or ctx is done.
// Abandoning a wait never affects other waiters.
func (p *PendingRequest) Wait(ctx context.Context) (Grant, error) {
	select {
	case <-p.done:
		return p.grant, p.err
	case <-ctx.Done():
		return Grant{}, ctx.Err()
	}
}
