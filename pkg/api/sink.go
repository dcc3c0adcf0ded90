package api

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// EventKind identifies a single editing lifecycle event.
type EventKind string

const (
	EventFlowLoaded   EventKind = "flow_loaded"
	EventFlowCreated  EventKind = "flow_created" // no stored flow; default synthesized
	EventLoadFailed   EventKind = "load_failed"
	EventStateAdded   EventKind = "state_added"
	EventStateDeleted EventKind = "state_deleted"
	EventFieldChanged EventKind = "field_changed"
	EventOrderChanged EventKind = "order_changed"
	EventFlowSaved    EventKind = "flow_saved"
	EventSaveFailed   EventKind = "save_failed"
)

// Event is an audit record emitted by the editor after a committed operation
// or a failed remote round trip. Rejected mutations (validation failures,
// refused deletes) emit nothing: nothing changed.
type Event struct {
	ID     string // unique per event
	Kind   EventKind
	TaskID string
	State  string // state involved, when applicable
	Field  Field  // field involved, for field_changed
	Err    error  // cause, for load_failed / save_failed
	Time   time.Time
}

// NewEvent constructs an Event with a fresh ID and the current time.
func NewEvent(kind EventKind, taskID string) Event {
	return Event{
		ID:     uuid.NewString(),
		Kind:   kind,
		TaskID: taskID,
		Time:   time.Now(),
	}
}

// String renders the event as a human-readable audit line.
func (e Event) String() string {
	switch e.Kind {
	case EventStateAdded:
		return "State added: " + e.State
	case EventStateDeleted:
		return "State deleted: " + e.State
	case EventFieldChanged:
		return "State " + e.State + ": " + string(e.Field) + " changed"
	case EventOrderChanged:
		return "State order changed"
	case EventFlowLoaded:
		return "Flow loaded: " + e.TaskID
	case EventFlowCreated:
		return "Flow created: " + e.TaskID
	case EventFlowSaved:
		return "Flow saved: " + e.TaskID
	case EventLoadFailed:
		return "Flow load failed: " + e.TaskID
	case EventSaveFailed:
		return "Flow save failed: " + e.TaskID
	}
	return string(e.Kind)
}

// EventSink receives audit events from the editor.
//
// Implementations should be fast and non-blocking; heavy work should be done
// asynchronously so as not to delay editing operations.
type EventSink interface {
	Emit(ctx context.Context, ev Event)
}

// NoopSink is an EventSink that does nothing.
// It is used as the default when no sink is configured.
type NoopSink struct{}

func (NoopSink) Emit(ctx context.Context, ev Event) {}

// CompositeSink fans out events to multiple sinks.
type CompositeSink struct {
	sinks []EventSink
}

// NewCompositeSink creates an EventSink that forwards each event to every
// non-nil sink in sinks.
func NewCompositeSink(sinks ...EventSink) EventSink {
	filtered := make([]EventSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			filtered = append(filtered, s)
		}
	}
	if len(filtered) == 0 {
		return NoopSink{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeSink{sinks: filtered}
}

func (c *CompositeSink) Emit(ctx context.Context, ev Event) {
	for _, s := range c.sinks {
		s.Emit(ctx, ev)
	}
}

// LoggingSink writes structured logs using log/slog.
type LoggingSink struct {
	Logger *slog.Logger
}

// NewLoggingSink creates an EventSink that logs editing events using the
// provided slog.Logger. If logger is nil, slog.Default() is used.
func NewLoggingSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingSink{Logger: logger}
}

func (s *LoggingSink) Emit(ctx context.Context, ev Event) {
	level := slog.LevelInfo
	if ev.Kind == EventLoadFailed || ev.Kind == EventSaveFailed {
		level = slog.LevelError
	}

	attrs := []any{
		slog.String("event_id", ev.ID),
		slog.String("task_id", ev.TaskID),
	}
	if ev.State != "" {
		attrs = append(attrs, slog.String("state", ev.State))
	}
	if ev.Field != "" {
		attrs = append(attrs, slog.String("field", string(ev.Field)))
	}
	if ev.Err != nil {
		attrs = append(attrs, slog.Any("error", ev.Err))
	}

	s.Logger.Log(ctx, level, string(ev.Kind), attrs...)
}

// EditMetrics collects simple counters over editing events.
// It implements EventSink and can be combined with LoggingSink via
// NewCompositeSink.
type EditMetrics struct {
	flowsLoaded   atomic.Int64
	flowsCreated  atomic.Int64
	loadFailures  atomic.Int64
	statesAdded   atomic.Int64
	statesDeleted atomic.Int64
	fieldEdits    atomic.Int64
	reorders      atomic.Int64
	saves         atomic.Int64
	saveFailures  atomic.Int64
}

// EditMetricsSnapshot is an immutable snapshot of EditMetrics.
type EditMetricsSnapshot struct {
	FlowsLoaded   int64
	FlowsCreated  int64
	LoadFailures  int64
	StatesAdded   int64
	StatesDeleted int64
	FieldEdits    int64
	Reorders      int64
	Saves         int64
	SaveFailures  int64
}

func (m *EditMetrics) Emit(ctx context.Context, ev Event) {
	switch ev.Kind {
	case EventFlowLoaded:
		m.flowsLoaded.Add(1)
	case EventFlowCreated:
		m.flowsCreated.Add(1)
	case EventLoadFailed:
		m.loadFailures.Add(1)
	case EventStateAdded:
		m.statesAdded.Add(1)
	case EventStateDeleted:
		m.statesDeleted.Add(1)
	case EventFieldChanged:
		m.fieldEdits.Add(1)
	case EventOrderChanged:
		m.reorders.Add(1)
	case EventFlowSaved:
		m.saves.Add(1)
	case EventSaveFailed:
		m.saveFailures.Add(1)
	}
}

// Snapshot returns a snapshot of the current counters.
func (m *EditMetrics) Snapshot() EditMetricsSnapshot {
	return EditMetricsSnapshot{
		FlowsLoaded:   m.flowsLoaded.Load(),
		FlowsCreated:  m.flowsCreated.Load(),
		LoadFailures:  m.loadFailures.Load(),
		StatesAdded:   m.statesAdded.Load(),
		StatesDeleted: m.statesDeleted.Load(),
		FieldEdits:    m.fieldEdits.Load(),
		Reorders:      m.reorders.Load(),
		Saves:         m.saves.Load(),
		SaveFailures:  m.saveFailures.Load(),
	}
}
