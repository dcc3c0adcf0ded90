package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/AnEntrypoint/flowkit/pkg/api"
)

// PostgresFlowStore is a FlowStore backed by PostgreSQL.
//
// It uses only database/sql, so any Postgres driver works; the pgx stdlib
// driver is wired up by the postgres submodule.
type PostgresFlowStore struct {
	db *sql.DB
}

var _ FlowStore = (*PostgresFlowStore)(nil)

// NewPostgresFlowStore initializes the required schema in the given database
// and returns a new PostgresFlowStore.
func NewPostgresFlowStore(db *sql.DB) (*PostgresFlowStore, error) {
	s := &PostgresFlowStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresFlowStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS flows (
			id TEXT PRIMARY KEY,
			initial TEXT NOT NULL,
			states BYTEA NOT NULL
		);`,
	)
	return err
}

func (s *PostgresFlowStore) GetFlow(ctx context.Context, taskID string) (*api.Flow, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, initial, states
		FROM flows
		WHERE id = $1`,
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

func (s *PostgresFlowStore) PutFlow(ctx context.Context, f *api.Flow) error {
	states, err := encodeStates(f.States)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO flows (id, initial, states)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			initial = EXCLUDED.initial,
			states = EXCLUDED.states`,
		f.ID,
		f.Initial,
		states,
	)
	return err
}
