package api

import (
	"regexp"
	"strings"
)

// stateNamePattern is the identifier grammar for state names: first character
// a letter or underscore, then letters, digits, or underscores.
var stateNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateStateName checks a candidate state name against the identifier
// grammar and the set of names already in use. It returns nil when the name
// is acceptable, and a *ValidationError otherwise. It has no side effects.
func ValidateStateName(candidate string, existing []string) error {
	if strings.TrimSpace(candidate) == "" {
		return &ValidationError{Kind: ValidationEmptyName, Name: candidate}
	}
	for _, name := range existing {
		if name == candidate {
			return &ValidationError{Kind: ValidationDuplicateName, Name: candidate}
		}
	}
	if !stateNamePattern.MatchString(candidate) {
		return &ValidationError{Kind: ValidationInvalidFormat, Name: candidate}
	}
	return nil
}

// ProblemKind classifies an advisory integrity finding.
type ProblemKind string

const (
	// ProblemDanglingTransition means an OnDone/OnError target names no
	// existing state and is not the Terminal sentinel.
	ProblemDanglingTransition ProblemKind = "dangling_transition"

	// ProblemMissingInitial means the flow's Initial does not resolve to a
	// state in the document.
	ProblemMissingInitial ProblemKind = "missing_initial"
)

// Problem is a single advisory finding from ValidateFlowIntegrity.
// Problems never block a save: a well-formed-but-incomplete graph is a valid
// save target while the author is mid-edit.
type Problem struct {
	Kind   ProblemKind
	State  string // state carrying the problem; empty for missing initial
	Field  Field  // offending transition field, when applicable
	Target string // unresolved target, when applicable
}

func (p Problem) String() string {
	switch p.Kind {
	case ProblemMissingInitial:
		return "initial state does not exist: " + p.Target
	default:
		return "state " + p.State + ": " + string(p.Field) + " targets missing state " + p.Target
	}
}

// ValidateFlowIntegrity checks that every non-empty, non-terminal transition
// target and the initial state resolve to existing states. It is pure and is
// typically run defensively after deletions; findings are advisory.
func ValidateFlowIntegrity(f *Flow) []Problem {
	if f == nil {
		return nil
	}

	var problems []Problem

	if _, ok := f.States[f.Initial]; !ok {
		problems = append(problems, Problem{
			Kind:   ProblemMissingInitial,
			Target: f.Initial,
		})
	}

	check := func(name string, field Field, target string) {
		if target == "" || IsTerminalTarget(target) {
			return
		}
		if _, ok := f.States[target]; !ok {
			problems = append(problems, Problem{
				Kind:   ProblemDanglingTransition,
				State:  name,
				Field:  field,
				Target: target,
			})
		}
	}

	for name, st := range f.States {
		check(name, FieldOnDone, st.OnDone)
		check(name, FieldOnError, st.OnError)
	}

	return problems
}
