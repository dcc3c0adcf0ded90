// Package flowkit is an embeddable authoring toolkit for finite-state-machine
// task definitions ("flows").
//
// A flow is a directed graph of named states. Each state carries a free-text
// description, a success transition (onDone), a failure transition (onError),
// and an optional terminal marker. Flowkit covers the authoring side only: it
// edits and persists flow documents for an external task-execution engine and
// defines no runtime semantics of its own.
//
// # Core Concepts
//
// The flowkit programming model is intentionally small:
//
//  1. Flow
//  2. Editor
//  3. FlowStore backends
//  4. FlowBuilder
//  5. EventSink
//
// # Flow
//
// Flow is the persisted document: a task id, the name of the initial state,
// and a mapping of state name to definition. The wire format is plain JSON;
// display ordering is editor-local and never serialized. The reserved
// transition target "_final" ends the flow rather than naming another state.
//
// # Editor
//
// The Editor owns one live Flow and exposes the mutation API: add and delete
// states, edit fields, reorder the display list, select, snapshot, and save.
// Every add goes through name validation first, and the initial state can
// never be deleted, so a document always keeps a well-formed entry point.
// Transitions are deliberately unvalidated at write time - an author pointing
// onDone at a state they have not created yet is mid-edit, not wrong - and
// Integrity reports dangling targets on demand.
//
// Loads and saves round-trip through a FlowStore. A load that resolves after
// a newer load has started is discarded, and saves for one document are
// single-flighted so the store's last-write-wins semantics stay predictable.
//
// # FlowStore backends
//
// Editors can be backed by different stores:
//
//   - In-memory (non-durable, best for tests)
//   - SQLite (embedded durability)
//   - Postgres (via the postgres submodule)
//   - Redis
//   - MongoDB
//   - HTTP (the execution engine's own REST document store)
//
// # FlowBuilder
//
// FlowBuilder is the declarative alternative for constructing flows in code:
//
//	flow, err := flowkit.New("t1").
//	    State("start").DoneTo("review").
//	    State("review").Final().
//	    Build()
//
// # EventSink
//
// Editors accept an injected EventSink that receives an audit event for every
// committed operation. LoggingSink writes structured slog lines, EditMetrics
// keeps counters, and CompositeSink fans out to several sinks at once.
package flowkit
