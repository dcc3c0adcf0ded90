package flowkit

import (
	"database/sql"
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AnEntrypoint/flowkit/internal/editor"
	"github.com/AnEntrypoint/flowkit/internal/persistence"
	"github.com/AnEntrypoint/flowkit/pkg/api"
)

// Re-export key types so users don't need to dig into pkg/api.

type (
	Editor              = api.Editor
	Flow                = api.Flow
	State               = api.State
	Field               = api.Field
	Phase               = api.Phase
	Event               = api.Event
	EventKind           = api.EventKind
	EventSink           = api.EventSink
	NoopSink            = api.NoopSink
	LoggingSink         = api.LoggingSink
	CompositeSink       = api.CompositeSink
	EditMetrics         = api.EditMetrics
	EditMetricsSnapshot = api.EditMetricsSnapshot
	ValidationError     = api.ValidationError
	ValidationKind      = api.ValidationKind
	Problem             = api.Problem
	ProblemKind         = api.ProblemKind
)

// Re-export common sink helpers and validators.

var (
	NewLoggingSink   = api.NewLoggingSink
	NewCompositeSink = api.NewCompositeSink

	ValidateStateName     = api.ValidateStateName
	ValidateFlowIntegrity = api.ValidateFlowIntegrity
	AsValidationError     = api.AsValidationError

	NewFlow = api.NewFlow
)

// Re-export the error taxonomy so callers can match with errors.Is/As.

var (
	ErrCannotDeleteInitial = api.ErrCannotDeleteInitial
	ErrNotLoaded           = api.ErrNotLoaded
	ErrUnknownState        = api.ErrUnknownState
	ErrFieldUnknown        = api.ErrFieldUnknown
	ErrSaveInFlight        = api.ErrSaveInFlight
	ErrLoadSuperseded      = api.ErrLoadSuperseded
)

// Re-export sentinel values for convenience.

const (
	Terminal  = api.Terminal
	TypeFinal = api.TypeFinal

	FieldDescription = api.FieldDescription
	FieldOnDone      = api.FieldOnDone
	FieldOnError     = api.FieldOnError
	FieldType        = api.FieldType

	PhaseUnloaded   = api.PhaseUnloaded
	PhaseLoading    = api.PhaseLoading
	PhaseLoaded     = api.PhaseLoaded
	PhaseLoadFailed = api.PhaseLoadFailed

	ValidationEmptyName     = api.ValidationEmptyName
	ValidationDuplicateName = api.ValidationDuplicateName
	ValidationInvalidFormat = api.ValidationInvalidFormat

	EventFlowLoaded   = api.EventFlowLoaded
	EventFlowCreated  = api.EventFlowCreated
	EventLoadFailed   = api.EventLoadFailed
	EventStateAdded   = api.EventStateAdded
	EventStateDeleted = api.EventStateDeleted
	EventFieldChanged = api.EventFieldChanged
	EventOrderChanged = api.EventOrderChanged
	EventFlowSaved    = api.EventFlowSaved
	EventSaveFailed   = api.EventSaveFailed
)

// Editor constructors
// These wrap the internal packages so external callers never need to import
// internal paths. Every constructor has a WithSink variant; the plain form
// uses a no-op sink.

// NewInMemoryEditor returns an Editor backed by an in-memory store.
// Nothing survives the process; best for tests and experiments.
func NewInMemoryEditor() Editor {
	return editor.New(persistence.NewInMemoryStore(), nil)
}

// NewInMemoryEditorWithSink returns an in-memory Editor with the given sink.
func NewInMemoryEditorWithSink(sink EventSink) Editor {
	return editor.New(persistence.NewInMemoryStore(), sink)
}

// NewSQLiteEditor returns an Editor that persists flows in a SQLite
// database. The caller imports the driver, e.g. "modernc.org/sqlite".
func NewSQLiteEditor(db *sql.DB) (Editor, error) {
	return NewSQLiteEditorWithSink(db, nil)
}

// NewSQLiteEditorWithSink returns a SQLite-backed Editor with the given sink.
func NewSQLiteEditorWithSink(db *sql.DB, sink EventSink) (Editor, error) {
	store, err := persistence.NewSQLiteFlowStore(db)
	if err != nil {
		return nil, err
	}
	return editor.New(store, sink), nil
}

// NewRedisEditor returns an Editor that persists flows in Redis under the
// default "flowkit:" key prefix.
func NewRedisEditor(client *redis.Client) Editor {
	return NewRedisEditorWithSink(client, nil)
}

// NewRedisEditorWithSink returns a Redis-backed Editor with the given sink.
func NewRedisEditorWithSink(client *redis.Client, sink EventSink) Editor {
	return editor.New(persistence.NewRedisFlowStore(client, ""), sink)
}

// NewMongoEditor returns an Editor that persists flows in MongoDB, using the
// default database/collection names ("flowkit"/"flows").
func NewMongoEditor(client *mongo.Client) Editor {
	return NewMongoEditorWithSink(client, nil)
}

// NewMongoEditorWithSink returns a Mongo-backed Editor with the given sink.
func NewMongoEditorWithSink(client *mongo.Client, sink EventSink) Editor {
	return editor.New(persistence.NewMongoFlowStore(client, "", ""), sink)
}

// NewHTTPEditor returns an Editor backed by the execution engine's REST
// document store at baseURL (GET/PUT {base}/tasks/{id}/flow).
func NewHTTPEditor(baseURL string) Editor {
	return NewHTTPEditorWithSink(baseURL, nil, nil)
}

// NewHTTPEditorWithSink returns an HTTP-backed Editor with the given sink.
// A nil client falls back to http.DefaultClient; supply a client to own
// timeout and retry policy.
func NewHTTPEditorWithSink(baseURL string, client *http.Client, sink EventSink) Editor {
	return editor.New(persistence.NewHTTPFlowStore(baseURL, client), sink)
}
