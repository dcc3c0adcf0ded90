package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/AnEntrypoint/flowkit/pkg/api"
)

// SQLiteFlowStore is a FlowStore backed by SQLite.
//
// It expects an *sql.DB that uses a SQLite driver (for example,
// "modernc.org/sqlite"). The caller is responsible for importing
// the driver, e.g.:
//
//	import _ "modernc.org/sqlite"
type SQLiteFlowStore struct {
	db *sql.DB
}

var _ FlowStore = (*SQLiteFlowStore)(nil)

// NewSQLiteFlowStore initializes the required schema in the given database
// and returns a new SQLiteFlowStore.
func NewSQLiteFlowStore(db *sql.DB) (*SQLiteFlowStore, error) {
	s := &SQLiteFlowStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteFlowStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS flows (
			id TEXT PRIMARY KEY,
			initial TEXT NOT NULL,
			states BLOB NOT NULL
		);`,
	)
	return err
}

func (s *SQLiteFlowStore) GetFlow(ctx context.Context, taskID string) (*api.Flow, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, initial, states
		FROM flows
		WHERE id = ?`,
		taskID,
	)

	var f api.Flow
	var states []byte

	if err := row.Scan(&f.ID, &f.Initial, &states); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFlowNotFound
		}
		return nil, err
	}

	decoded, err := decodeStates(states)
	if err != nil {
		return nil, err
	}
	f.States = decoded

	return &f, nil
}

func (s *SQLiteFlowStore) PutFlow(ctx context.Context, f *api.Flow) error {
	states, err := encodeStates(f.States)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO flows (id, initial, states)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			initial = excluded.initial,
			states = excluded.states`,
		f.ID,
		f.Initial,
		states,
	)
	return err
}
