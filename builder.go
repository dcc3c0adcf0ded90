package flowkit

import (
	"errors"
	"fmt"

	"github.com/AnEntrypoint/flowkit/pkg/api"
)

// FlowBuilder is the declarative API for authoring a flow programmatically,
// as an alternative to driving an Editor interactively. The first state
// added becomes the flow's entry point.
//
// Example:
//
//	flow, err := flowkit.New("t1").
//	    State("start").DoneTo("review").ErrorTo("triage").
//	    State("review").Describe("manual review").DoneTo(flowkit.Terminal).
//	    State("triage").DoneTo("start").
//	    Build()
type FlowBuilder struct {
	id      string
	initial string
	order   []string
	states  map[string]api.State
	current string
	errs    []error
}

// New starts a FlowBuilder for the given task id.
func New(taskID string) *FlowBuilder {
	return &FlowBuilder{
		id:     taskID,
		states: make(map[string]api.State),
	}
}

// State opens a new state with the given name. Names go through the same
// validation as the interactive editor; violations surface from Build.
func (b *FlowBuilder) State(name string) *FlowBuilder {
	if err := api.ValidateStateName(name, b.order); err != nil {
		b.errs = append(b.errs, err)
		b.current = ""
		return b
	}

	b.states[name] = api.State{}
	b.order = append(b.order, name)
	if b.initial == "" {
		b.initial = name
	}
	b.current = name
	return b
}

// Describe sets the description of the current state.
func (b *FlowBuilder) Describe(text string) *FlowBuilder {
	return b.set(api.FieldDescription, text)
}

// DoneTo sets the success transition of the current state. Target may be
// another state's name or the Terminal sentinel.
func (b *FlowBuilder) DoneTo(target string) *FlowBuilder {
	return b.set(api.FieldOnDone, target)
}

// ErrorTo sets the failure transition of the current state.
func (b *FlowBuilder) ErrorTo(target string) *FlowBuilder {
	return b.set(api.FieldOnError, target)
}

// Final marks the current state terminal regardless of its transitions.
func (b *FlowBuilder) Final() *FlowBuilder {
	return b.set(api.FieldType, api.TypeFinal)
}

func (b *FlowBuilder) set(field api.Field, value string) *FlowBuilder {
	if b.current == "" {
		b.errs = append(b.errs, fmt.Errorf("%s set before any valid State call", field))
		return b
	}
	st := b.states[b.current]
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
	b.states[b.current] = st
	return b
}

// TaskID returns the task id the builder was started with.
func (b *FlowBuilder) TaskID() string {
	return b.id
}

// Order returns the states in the order they were declared.
func (b *FlowBuilder) Order() []string {
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

// Build assembles the flow. Unlike the interactive editor, which tolerates
// dangling transitions mid-edit, Build is strict: a programmatically built
// flow is expected to be complete, so integrity problems are errors here.
func (b *FlowBuilder) Build() (*api.Flow, error) {
	errs := b.errs
	if len(b.order) == 0 {
		errs = append(errs, errors.New("flow must have at least one state"))
	}

	f := &api.Flow{
		ID:      b.id,
		Initial: b.initial,
		States:  b.states,
	}

	if len(errs) == 0 {
		for _, p := range api.ValidateFlowIntegrity(f) {
			errs = append(errs, errors.New(p.String()))
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return f.Clone(), nil
}
