// Package dto contains data transfer objects for application layer use cases.
package dto

// ResultMode selects how the grants of one request are shaped.
type ResultMode string

const (
	// ResultModeEach returns one grant per key, in request order.
	ResultModeEach ResultMode = "each"

	// ResultModeAll returns whether every key is authorized.
	ResultModeAll ResultMode = "all"

	// ResultModeCombined returns a single grant merged from every key.
	ResultModeCombined ResultMode = "combined"
)

// ResultModes lists the accepted result modes.
func ResultModes() []ResultMode {
	return []ResultMode{ResultModeEach, ResultModeAll, ResultModeCombined}
}

// GrantRequest encapsulates all inputs needed to request grants.
type GrantRequest struct {
	Mode     ResultMode
	Keys     []string
	Metadata RequestMetadata

	// Callers is how many independent callers request the same keys at
	// once. They share one prompt.
	Callers int
}

// RequestMetadata contains metadata for request tracking.
type RequestMetadata struct {
	// RequestID uniquely identifies this request
	RequestID string
}
