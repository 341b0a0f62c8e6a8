// Package ports defines interfaces for infrastructure dependencies.
// These are the "ports" in hexagonal architecture - abstractions that
// the application layer depends on but doesn't implement.
package ports

import (
	"context"
	"io"

	"github.com/reglet-dev/flowgrant/internal/application/dto"
	"github.com/reglet-dev/flowgrant/internal/domain/grants"
)

// KeyStatus is what the host already knows about a grant key.
type KeyStatus struct {
	Granted         bool
	RevokedByPolicy bool
}

// Decided reports whether the key can be answered without prompting.
func (s KeyStatus) Decided() bool {
	return s.Granted || s.RevokedByPolicy
}

// PermissionOracle reports whether a key is already decided.
// Calls are synchronous and free of side effects.
type PermissionOracle interface {
	Status(key string) (KeyStatus, error)
}

// ResultSink receives the outcome of a prompt batch.
type ResultSink interface {
	// Dispatch routes every entry of event to its waiting callers.
	Dispatch(event grants.ResultEvent) error
}

// PromptInvoker shows the authorization prompt for a batch of keys.
// Show starts the prompt and returns; the answers are delivered later by a
// single call to sink.Dispatch carrying the same keys in the same order.
// An error from Show means no result will ever be delivered for the batch.
// An invoker that dispatches before returning may return the Dispatch error;
// a ProtocolViolationError there means the batch was answered.
type PromptInvoker interface {
	Show(ctx context.Context, batch grants.PromptBatch, sink ResultSink) error
}

// RationaleProbe reports whether the caller may still explain why a key is needed.
type RationaleProbe interface {
	CanExplainRationale(key string) (bool, error)
}

// PlatformInfo describes the host platform.
type PlatformInfo interface {
	// SupportsRuntimeGrants is false on platforms that grant everything at install time.
	SupportsRuntimeGrants() bool
}

// OutputFormatter renders use case results.
type OutputFormatter interface {
	FormatGrants(resp *dto.GrantResponse) error
	FormatStatus(statuses []dto.StatusResponse) error
}

// FormatterOptions configures output formatters.
type FormatterOptions struct {
	Indent  bool
	NoColor bool
}

// OutputFormatterFactory creates formatters by name.
type OutputFormatterFactory interface {
	Create(format string, writer io.Writer, options FormatterOptions) (OutputFormatter, error)
	SupportedFormats() []string
}
