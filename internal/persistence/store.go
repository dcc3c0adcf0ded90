package persistence

import (
	"context"
	"errors"

	"github.com/AnEntrypoint/flowkit/pkg/api"
)

// ErrFlowNotFound is returned when no flow is stored for a task id.
// It is a not-found signal, not a hard failure: the editor reacts by
// synthesizing a default document.
var ErrFlowNotFound = errors.New("flow not found")

// IsNotFound reports whether err carries the not-found signal.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrFlowNotFound)
}

// FlowStore loads and persists flow documents keyed by task id.
//
// PutFlow semantics are last-write-wins; the editor is responsible for not
// issuing two concurrent saves for the same document. Implementations own
// retry and timeout policy; the editor imposes none.
type FlowStore interface {
	// GetFlow returns the stored flow for taskID, or ErrFlowNotFound.
	GetFlow(ctx context.Context, taskID string) (*api.Flow, error)

	// PutFlow stores the flow under f.ID, replacing any previous version.
	PutFlow(ctx context.Context, f *api.Flow) error
}
