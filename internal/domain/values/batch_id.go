// Package values contains domain value objects that encapsulate
// primitive types with validation and such.
package values

import (
	"fmt"

	"github.com/google/uuid"
)

// BatchID uniquely identifies one prompt invocation issued by the coordinator.
// The same ID travels with the result event so the dispatcher can correlate it.
type BatchID struct {
	value uuid.UUID
}

// NewBatchID creates a new random batch ID
func NewBatchID() BatchID {
	return BatchID{value: uuid.New()}
}

// ParseBatchID parses a string into a BatchID
func ParseBatchID(s string) (BatchID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return BatchID{}, fmt.Errorf("invalid batch ID: %w", err)
	}
	return BatchID{value: id}, nil
}

// MustParseBatchID parses a string or panics (for tests only)
func MustParseBatchID(s string) BatchID {
	id, err := ParseBatchID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the string representation
func (b BatchID) String() string {
	return b.value.String()
}

// UUID returns the underlying uuid.UUID
func (b BatchID) UUID() uuid.UUID {
	return b.value
}

// IsZero returns true if this is the zero value
func (b BatchID) IsZero() bool {
	return b.value == uuid.Nil
}

// Equals checks if two BatchIDs are equal
func (b BatchID) Equals(other BatchID) bool {
	return b.value == other.value
}
