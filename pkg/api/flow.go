package api

// Terminal is the reserved transition target that ends a flow instead of
// naming another state.
const Terminal = "_final"

// TypeFinal marks a state as terminal regardless of its transitions.
const TypeFinal = "final"

// DefaultInitialState is the name given to the single state of a freshly
// synthesized flow.
const DefaultInitialState = "start"

// State is a single named node in a flow graph.
//
// OnDone and OnError are transition targets: either empty (unset), the name
// of another state in the same flow, or the Terminal sentinel. A target that
// names no existing state and is not Terminal is a dangling transition; the
// editor tolerates those during authoring and reports them via
// ValidateFlowIntegrity.
type State struct {
	Description string `json:"description,omitempty"`
	OnDone      string `json:"onDone,omitempty"`
	OnError     string `json:"onError,omitempty"`
	Type        string `json:"type,omitempty"`
}

// IsFinal reports whether the state is terminal by type marker.
func (s State) IsFinal() bool {
	return s.Type == TypeFinal
}

// Flow is a task's state-machine definition as authored by this toolkit.
//
// It is the persisted document: the external execution engine consumes
// exactly this shape. Display ordering of states is editor-local and is
// never part of the wire format.
type Flow struct {
	// ID is the opaque task identifier, assigned externally. It never
	// changes for the lifetime of the document.
	ID string `json:"id"`

	// Initial names the entry-point state. It must always resolve to a key
	// of States; the editor refuses to delete it.
	Initial string `json:"initial"`

	// States maps state name to definition. Keys are unique by construction.
	States map[string]State `json:"states"`
}

// NewFlow synthesizes the default document for a task that has no stored
// flow yet: a single empty state named "start" acting as the entry point.
func NewFlow(taskID string) *Flow {
	return &Flow{
		ID:      taskID,
		Initial: DefaultInitialState,
		States: map[string]State{
			DefaultInitialState: {},
		},
	}
}

// Clone returns a deep copy of the flow. States are value types, so copying
// the map is sufficient.
func (f *Flow) Clone() *Flow {
	if f == nil {
		return nil
	}
	states := make(map[string]State, len(f.States))
	for name, st := range f.States {
		states[name] = st
	}
	return &Flow{
		ID:      f.ID,
		Initial: f.Initial,
		States:  states,
	}
}

// IsTerminalTarget reports whether target is the Terminal sentinel.
func IsTerminalTarget(target string) bool {
	return target == Terminal
}

// Field identifies one of the editable fields of a State.
type Field string

const (
	FieldDescription Field = "description"
	FieldOnDone      Field = "onDone"
	FieldOnError     Field = "onError"
	FieldType        Field = "type"
)

// Valid reports whether f is one of the editable fields.
func (f Field) Valid() bool {
	switch f {
	case FieldDescription, FieldOnDone, FieldOnError, FieldType:
		return true
	}
	return false
}
