// Package storage defines the persistence contract the engine runs
// against: games round-trip through it keyed by id, with no
// game-specific logic leaking into either implementation.
package storage

import (
	"context"

	"github.com/jkolbly/diplomacy-rest/internal/engine"
)

// Store is the persistence contract consumed by the adjudication
// runner: save a game's current record, load it back by id, list the
// games still in play, and soft-delete one that has ended.
type Store interface {
	Save(ctx context.Context, rec engine.GameRecord) error
	Load(ctx context.Context, id int64) (*engine.GameRecord, error)
	ListActive(ctx context.Context) ([]int64, error)
	MarkDeleted(ctx context.Context, id int64) error
}
