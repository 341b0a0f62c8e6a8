package dto

import (
	"time"
)

// GrantResponse contains the result of a grant request.
type GrantResponse struct {
	Mode        ResultMode       `json:"mode" yaml:"mode"`
	Callers     []CallerResult   `json:"callers" yaml:"callers"`
	Metadata    ResponseMetadata `json:"metadata" yaml:"metadata"`
	Diagnostics Diagnostics      `json:"diagnostics" yaml:"diagnostics"`
}

// CallerResult is what one caller received.
type CallerResult struct {
	// Grants holds one entry per key in "each" mode and the merged grant in
	// "combined" mode. It is empty in "all" mode.
	Grants []GrantView `json:"grants,omitempty" yaml:"grants,omitempty"`

	Caller int `json:"caller" yaml:"caller"`

	// Authorized is set in every mode: the AND over all keys.
	Authorized bool `json:"authorized" yaml:"authorized"`
}

// GrantView is the outcome for one key (or one combined key).
type GrantView struct {
	Key                 string `json:"key" yaml:"key"`
	Authorized          bool   `json:"authorized" yaml:"authorized"`
	CanExplainRationale bool   `json:"can_explain_rationale" yaml:"can_explain_rationale"`
}

// ResponseMetadata contains metadata about the response.
type ResponseMetadata struct {
	// RequestID from the original request
	RequestID string `json:"request_id,omitempty" yaml:"request_id,omitempty"`

	// ProcessedAt is when the request was processed
	ProcessedAt time.Time `json:"processed_at" yaml:"processed_at"`

	// Duration is how long the request took
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Diagnostics contains diagnostic information about a request.
type Diagnostics struct {
	// Batches are the prompts shown while serving the request
	Batches []BatchSummary `json:"batches" yaml:"batches"`

	// Warnings are non-fatal issues encountered
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// BatchSummary describes one prompt batch.
type BatchSummary struct {
	ID       string   `json:"id" yaml:"id"`
	Keys     []string `json:"keys" yaml:"keys"`
	Resolved bool     `json:"resolved" yaml:"resolved"`
}

// StatusResponse describes what the host already knows about a key.
type StatusResponse struct {
	Key                 string `json:"key" yaml:"key"`
	Authorized          bool   `json:"authorized" yaml:"authorized"`
	RevokedByPolicy     bool   `json:"revoked_by_policy" yaml:"revoked_by_policy"`
	CanExplainRationale bool   `json:"can_explain_rationale" yaml:"can_explain_rationale"`
}
