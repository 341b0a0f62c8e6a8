package grants

import (
	"fmt"

	"github.com/reglet-dev/flowgrant/internal/domain/values"
)

// PromptBatch is the set of keys handed to a single prompt invocation.
type PromptBatch struct {
	ID   values.BatchID
	Keys []string
}

// NewPromptBatch creates a batch with a fresh ID.
func NewPromptBatch(keys []string) PromptBatch {
	return PromptBatch{
		ID:   values.NewBatchID(),
		Keys: append([]string(nil), keys...),
	}
}

// Outcome is the user's answer for one key of a batch.
type Outcome struct {
	Granted             bool
	CanExplainRationale bool
}

// ResultEvent carries the answers of a prompt back to the coordinator.
// Granted and CanExplainRationale are positionally aligned with Keys.
type ResultEvent struct {
	BatchID             values.BatchID
	Keys                []string
	Granted             []bool
	CanExplainRationale []bool
}

// NewResultEvent builds the event for batch from outcomes aligned with batch.Keys.
func NewResultEvent(batch PromptBatch, outcomes []Outcome) ResultEvent {
	event := ResultEvent{
		BatchID:             batch.ID,
		Keys:                append([]string(nil), batch.Keys...),
		Granted:             make([]bool, len(outcomes)),
		CanExplainRationale: make([]bool, len(outcomes)),
	}
	for i, o := range outcomes {
		event.Granted[i] = o.Granted
		event.CanExplainRationale[i] = o.CanExplainRationale
	}
	return event
}

// Validate checks that the parallel arrays line up with Keys.
func (e ResultEvent) Validate() error {
	if len(e.Granted) != len(e.Keys) {
		return fmt.Errorf("result event has %d keys but %d granted flags", len(e.Keys), len(e.Granted))
	}
	if len(e.CanExplainRationale) != len(e.Keys) {
		return fmt.Errorf("result event has %d keys but %d rationale flags", len(e.Keys), len(e.CanExplainRationale))
	}
	return nil
}

// GrantAt builds the Grant for index i.
func (e ResultEvent) GrantAt(i int) Grant {
	return New(e.Keys[i], e.Granted[i], e.CanExplainRationale[i])
}
