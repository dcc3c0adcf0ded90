package api

import "context"

// Phase is the editor lifecycle state.
type Phase string

const (
	// PhaseUnloaded means no load has been issued yet.
	PhaseUnloaded Phase = "UNLOADED"
	// PhaseLoading means a load round trip is in flight. Mutations are
	// rejected until it resolves.
	PhaseLoading Phase = "LOADING"
	// PhaseLoaded means a document is adopted and editable.
	PhaseLoaded Phase = "LOADED"
	// PhaseLoadFailed means the last load failed; a fresh Load is the only
	// way out, and no partial document is exposed.
	PhaseLoadFailed Phase = "LOAD_FAILED"
)

// Editor is the flow-graph editing API.
//
// An Editor owns exactly one live Flow plus the editor-local derived state
// around it: the display ordering of states, the current selection, and the
// drag source. All operations are synchronous and atomic with respect to
// each other; only Load and Save suspend, at the store boundary.
type Editor interface {
	// Load fetches the flow for taskID from the store and adopts it,
	// replacing any previous document. When the store has no flow for the
	// task, a default single-state document is synthesized instead. On a
	// transport or format failure the editor ends up in PhaseLoadFailed
	// with no document. A Load superseded by a newer Load for another task
	// discards its result and returns ErrLoadSuperseded.
	Load(ctx context.Context, taskID string) error

	// Phase reports the editor lifecycle state.
	Phase() Phase

	// TaskID returns the id of the loaded document, or "" when unloaded.
	TaskID() string

	// AddState validates name against the current state set and, on
	// success, inserts an empty state and appends it to the display order.
	// On failure it returns the *ValidationError without mutating anything.
	AddState(name string) error

	// DeleteState removes a non-initial state from the document and the
	// display order. Deleting the initial state fails with
	// ErrCannotDeleteInitial and changes nothing. Transitions in other
	// states that pointed at the deleted state are left dangling; use
	// Integrity to find them.
	DeleteState(name string) error

	// SetField replaces a single field of a state. No cross-field
	// validation happens at write time: pointing a transition at a state
	// that does not exist yet is allowed transiently.
	SetField(stateID string, field Field, value string) error

	// Reorder moves draggedID immediately before targetID in the display
	// order. It is a pure list move: the document itself is untouched.
	// Self-moves and empty draggedID are no-ops.
	Reorder(draggedID, targetID string) error

	// Select sets the selected state. No validation: selecting a
	// nonexistent id simply means no detail panel is shown.
	Select(stateID string)

	// Selected returns the selected state id, or "".
	Selected() string

	// SetDragSource records the state a drag gesture started from.
	SetDragSource(stateID string)

	// DragSource returns the recorded drag source, or "".
	DragSource() string

	// Order returns a copy of the display order. It is a permutation of
	// the document's state names at all times.
	Order() []string

	// Snapshot returns a deep copy of the current document for rendering
	// or serialization, or nil when no document is loaded. Later mutations
	// never affect a returned snapshot.
	Snapshot() *Flow

	// Integrity runs ValidateFlowIntegrity on the current document.
	Integrity() []Problem

	// Save serializes the current document (never the display order) and
	// persists it to the store under the document's id. While one save is
	// in flight a second Save returns ErrSaveInFlight. A failed save
	// leaves the in-memory document untouched; it remains the source of
	// truth for further edits.
	Save(ctx context.Context) error

	// Saving reports whether a save round trip is currently in flight.
	Saving() bool
}
