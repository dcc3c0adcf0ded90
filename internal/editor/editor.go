package editor

import (
	"context"
	"fmt"
	"sync"

	"facette.io/natsort"

	"github.com/AnEntrypoint/flowkit/internal/persistence"
	"github.com/AnEntrypoint/flowkit/pkg/api"
)

// Editor is the single-document flow editor. It owns the live Flow plus the
// editor-local derived state (display order, selection, drag source) and is
// the only component that mutates them.
//
// All operations are serialized on one mutex, so mutations are atomic with
// respect to each other. Load and Save release the mutex for the store round
// trip; everything else completes without suspending.
type Editor struct {
	store persistence.FlowStore
	sink  api.EventSink

	mu         sync.Mutex
	phase      api.Phase
	flow       *api.Flow
	order      []string
	selected   string
	dragSource string

	// loadGen guards against stale load results: a result is adopted only
	// if no newer Load has started since its round trip began.
	loadGen uint64

	saving bool
}

var _ api.Editor = (*Editor)(nil)

// New creates an Editor over the given store. A nil sink defaults to
// api.NoopSink.
func New(store persistence.FlowStore, sink api.EventSink) *Editor {
	if sink == nil {
		sink = api.NoopSink{}
	}
	return &Editor{
		store: store,
		sink:  sink,
		phase: api.PhaseUnloaded,
	}
}

func (e *Editor) Load(ctx context.Context, taskID string) error {
	e.mu.Lock()
	e.loadGen++
	gen := e.loadGen
	e.phase = api.PhaseLoading
	e.flow = nil
	e.order = nil
	e.selected = ""
	e.dragSource = ""
	e.mu.Unlock()

	f, err := e.store.GetFlow(ctx, taskID)

	kind := api.EventFlowLoaded
	if err != nil {
		if persistence.IsNotFound(err) {
			// Not-found is not a failure: synthesize the default
			// single-state document for this task.
			f = api.NewFlow(taskID)
			kind = api.EventFlowCreated
			err = nil
		}
	}

	e.mu.Lock()
	if gen != e.loadGen {
		// A newer Load started while this one was in flight; its result
		// wins and ours is discarded.
		e.mu.Unlock()
		return api.ErrLoadSuperseded
	}

	if err != nil {
		e.phase = api.PhaseLoadFailed
		e.mu.Unlock()

		ev := api.NewEvent(api.EventLoadFailed, taskID)
		ev.Err = err
		e.sink.Emit(ctx, ev)
		return fmt.Errorf("load flow %s: %w", taskID, err)
	}

	e.flow = f
	e.order = displayOrder(f)
	e.phase = api.PhaseLoaded
	e.mu.Unlock()

	e.sink.Emit(ctx, api.NewEvent(kind, taskID))
	return nil
}

// displayOrder reconstructs the authoring order for a freshly loaded flow.
// The wire format carries no ordering, so the order is deterministic: the
// initial state first, remaining states natural-sorted.
func displayOrder(f *api.Flow) []string {
	rest := make([]string, 0, len(f.States))
	for name := range f.States {
		if name != f.Initial {
			rest = append(rest, name)
		}
	}
	natsort.Sort(rest)

	order := make([]string, 0, len(f.States))
	if _, ok := f.States[f.Initial]; ok {
		order = append(order, f.Initial)
	}
	return append(order, rest...)
}

func (e *Editor) Phase() api.Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

func (e *Editor) TaskID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.flow == nil {
		return ""
	}
	return e.flow.ID
}

func (e *Editor) AddState(name string) error {
	e.mu.Lock()
	if e.phase != api.PhaseLoaded {
		e.mu.Unlock()
		return api.ErrNotLoaded
	}

	if err := api.ValidateStateName(name, e.order); err != nil {
		e.mu.Unlock()
		return err
	}

	e.flow.States[name] = api.State{}
	e.order = append(e.order, name)

	ev := api.NewEvent(api.EventStateAdded, e.flow.ID)
	ev.State = name
	e.mu.Unlock()

	e.sink.Emit(context.Background(), ev)
	return nil
}

func (e *Editor) DeleteState(name string) error {
	e.mu.Lock()
	if e.phase != api.PhaseLoaded {
		e.mu.Unlock()
		return api.ErrNotLoaded
	}

	if name == e.flow.Initial {
		// Every document must keep its entry point.
		e.mu.Unlock()
		return api.ErrCannotDeleteInitial
	}
	if _, ok := e.flow.States[name]; !ok {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", api.ErrUnknownState, name)
	}

	delete(e.flow.States, name)
	e.order = remove(e.order, name)

	// Transitions elsewhere that pointed at name are left dangling on
	// purpose; Integrity reports them and the author resolves them.

	if e.selected == name {
		if len(e.order) > 0 {
			e.selected = e.order[0]
		} else {
			e.selected = ""
		}
	}
	if e.dragSource == name {
		e.dragSource = ""
	}

	ev := api.NewEvent(api.EventStateDeleted, e.flow.ID)
	ev.State = name
	e.mu.Unlock()

	e.sink.Emit(context.Background(), ev)
	return nil
}

func (e *Editor) SetField(stateID string, field api.Field, value string) error {
	e.mu.Lock()
	if e.phase != api.PhaseLoaded {
		e.mu.Unlock()
		return api.ErrNotLoaded
	}

	if !field.Valid() {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", api.ErrFieldUnknown, field)
	}

	st, ok := e.flow.States[stateID]
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", api.ErrUnknownState, stateID)
	}

	switch field {
	case api.FieldDescription:
		st.Description = value
	case api.FieldOnDone:
		st.OnDone = value
	case api.FieldOnError:
		st.OnError = value
	case api.FieldType:
		st.Type = value
	}
	e.flow.States[stateID] = st

	ev := api.NewEvent(api.EventFieldChanged, e.flow.ID)
	ev.State = stateID
	ev.Field = field
	e.mu.Unlock()

	e.sink.Emit(context.Background(), ev)
	return nil
}

func (e *Editor) Reorder(draggedID, targetID string) error {
	e.mu.Lock()
	if e.phase != api.PhaseLoaded {
		e.mu.Unlock()
		return api.ErrNotLoaded
	}

	if draggedID == "" || draggedID == targetID {
		e.mu.Unlock()
		return nil
	}
	if indexOf(e.order, draggedID) < 0 {
		e.mu.Unlock()
		return nil
	}

	without := remove(e.order, draggedID)
	at := indexOf(without, targetID)
	if at < 0 {
		// Target vanished mid-gesture; keep the order as it was.
		e.mu.Unlock()
		return nil
	}

	order := make([]string, 0, len(without)+1)
	order = append(order, without[:at]...)
	order = append(order, draggedID)
	order = append(order, without[at:]...)
	e.order = order

	ev := api.NewEvent(api.EventOrderChanged, e.flow.ID)
	ev.State = draggedID
	e.mu.Unlock()

	e.sink.Emit(context.Background(), ev)
	return nil
}

func (e *Editor) Select(stateID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selected = stateID
}

func (e *Editor) Selected() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selected
}

func (e *Editor) SetDragSource(stateID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dragSource = stateID
}

func (e *Editor) DragSource() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dragSource
}

func (e *Editor) Order() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

func (e *Editor) Snapshot() *api.Flow {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flow.Clone()
}

func (e *Editor) Integrity() []api.Problem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return api.ValidateFlowIntegrity(e.flow)
}

func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	if e.phase != api.PhaseLoaded {
		e.mu.Unlock()
		return api.ErrNotLoaded
	}
	if e.saving {
		e.mu.Unlock()
		return api.ErrSaveInFlight
	}
	e.saving = true
	snap := e.flow.Clone()
	e.mu.Unlock()

	// The store receives a private copy; edits made while the save is in
	// flight affect only the live document and the next save.
	err := e.store.PutFlow(ctx, snap)

	e.mu.Lock()
	e.saving = false
	e.mu.Unlock()

	if err != nil {
		ev := api.NewEvent(api.EventSaveFailed, snap.ID)
		ev.Err = err
		e.sink.Emit(ctx, ev)
		return fmt.Errorf("save flow %s: %w", snap.ID, err)
	}

	e.sink.Emit(ctx, api.NewEvent(api.EventFlowSaved, snap.ID))
	return nil
}

func (e *Editor) Saving() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saving
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func remove(list []string, s string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
