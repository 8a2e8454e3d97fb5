// Package postgres is the durable archive half of the persistence
// contract: every game record, current and finished, round-trips
// through a single JSONB column keyed by game id.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/jkolbly/diplomacy-rest/internal/engine"
	"github.com/jkolbly/diplomacy-rest/internal/storage"
)

// Connect opens a connection pool to the archive database and ensures
// its schema exists.
func Connect(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("postgres schema: %w", err)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id         BIGINT PRIMARY KEY,
	record     JSONB NOT NULL,
	deleted_at TIMESTAMPTZ
)`

// Archive implements storage.Store against a single "games" table.
type Archive struct {
	db *sql.DB
}

// New wraps an open *sql.DB as an Archive.
func New(db *sql.DB) *Archive { return &Archive{db: db} }

var _ storage.Store = (*Archive)(nil)

func (a *Archive) Save(ctx context.Context, rec engine.GameRecord) error {
	blob, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal game record: %w", err)
	}
	_, err = a.db.ExecContext(ctx, `
		INSERT INTO games (id, record) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET record = EXCLUDED.record, deleted_at = NULL`,
		rec.ID, blob)
	return err
}

func (a *Archive) Load(ctx context.Context, id int64) (*engine.GameRecord, error) {
	var blob []byte
	err := a.db.QueryRowContext(ctx, `SELECT record FROM games WHERE id = $1 AND deleted_at IS NULL`, id).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &engine.NotFoundError{Kind: "game", ID: fmt.Sprint(id)}
	}
	if err != nil {
		return nil, err
	}
	var rec engine.GameRecord
	if err := json.Unmarshal(blob, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal game record: %w", err)
	}
	return &rec, nil
}

func (a *Archive) ListActive(ctx context.Context) ([]int64, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id FROM games
		WHERE deleted_at IS NULL AND record->>'Outcome' = 'playing'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (a *Archive) MarkDeleted(ctx context.Context, id int64) error {
	_, err := a.db.ExecContext(ctx, `UPDATE games SET deleted_at = now() WHERE id = $1`, id)
	return err
}
