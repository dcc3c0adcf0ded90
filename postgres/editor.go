// Package postgres wires the pgx stdlib driver to flowkit's Postgres flow
// store. The store itself lives in the core module and uses database/sql
// only; this submodule pins the driver dependency.
package postgres

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/AnEntrypoint/flowkit/internal/editor"
	"github.com/AnEntrypoint/flowkit/internal/persistence"
	"github.com/AnEntrypoint/flowkit/pkg/api"
)

// Open opens a Postgres database via the pgx stdlib driver and verifies the
// connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewPostgresEditor returns an Editor that persists flows in PostgreSQL.
func NewPostgresEditor(db *sql.DB) (api.Editor, error) {
	return NewPostgresEditorWithSink(db, nil)
}

// NewPostgresEditorWithSink returns a Postgres-backed Editor with the given
// sink.
func NewPostgresEditorWithSink(db *sql.DB, sink api.EventSink) (api.Editor, error) {
	store, err := persistence.NewPostgresFlowStore(db)
	if err != nil {
		return nil, err
	}
	return editor.New(store, sink), nil
}
