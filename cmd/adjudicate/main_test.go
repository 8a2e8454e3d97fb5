package main

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jkolbly/diplomacy-rest/internal/engine"
)

// memStore is a trivial in-process stand-in for storage.Store, enough to
// drive recoverActiveGames and syncArchive without a real database.
type memStore struct {
	mu      sync.Mutex
	records map[int64]engine.GameRecord
}

func newMemStore(recs ...engine.GameRecord) *memStore {
	m := &memStore{records: make(map[int64]engine.GameRecord)}
	for _, r := range recs {
		m.records[r.ID] = r
	}
	return m
}

func (m *memStore) Save(_ context.Context, rec engine.GameRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = rec
	return nil
}

func (m *memStore) Load(_ context.Context, id int64) (*engine.GameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &rec, nil
}

func (m *memStore) ListActive(_ context.Context) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *memStore) MarkDeleted(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

func TestLoadMapFallsBackToStandardWhenPathEmpty(t *testing.T) {
	m, err := loadMap("")
	if err != nil {
		t.Fatalf("loadMap: %v", err)
	}
	if m == nil || m.Info.Name == "" {
		t.Fatalf("expected the built-in standard map, got %+v", m)
	}
}

func TestLoadMapRejectsUnreadablePath(t *testing.T) {
	if _, err := loadMap("/nonexistent/path/to/a.dipmap"); err == nil {
		t.Fatal("expected an error loading a nonexistent map file")
	}
}

func TestNewGameIDIsNonNegativeAndVaries(t *testing.T) {
	a := NewGameID()
	b := NewGameID()
	if a < 0 || b < 0 {
		t.Fatalf("expected non-negative ids, got %d and %d", a, b)
	}
	if a == b {
		t.Errorf("expected two freshly minted ids to differ, both were %d", a)
	}
}

func TestRecoverActiveGamesRehydratesHotCacheFromArchive(t *testing.T) {
	archive := newMemStore(engine.GameRecord{ID: 1, Name: "alpha"}, engine.GameRecord{ID: 2, Name: "beta"})
	hot := newMemStore()

	if err := recoverActiveGames(context.Background(), archive, hot); err != nil {
		t.Fatalf("recoverActiveGames: %v", err)
	}

	for _, id := range []int64{1, 2} {
		if _, err := hot.Load(context.Background(), id); err != nil {
			t.Errorf("expected game %d to be rehydrated into the hot cache: %v", id, err)
		}
	}
}

func TestRecoverActiveGamesSkipsUnloadableEntriesWithoutFailing(t *testing.T) {
	// ListActive reports id 99, but it was never stored: Load for it fails.
	archive := &brokenLoadStore{memStore: newMemStore(engine.GameRecord{ID: 1}), missingID: 99}
	hot := newMemStore()

	if err := recoverActiveGames(context.Background(), archive, hot); err != nil {
		t.Fatalf("expected recovery to tolerate one unloadable game, got %v", err)
	}
	if _, err := hot.Load(context.Background(), 1); err != nil {
		t.Errorf("expected the loadable game to still be recovered: %v", err)
	}
}

// brokenLoadStore reports an extra id via ListActive that Load always fails
// on, to exercise recoverActiveGames' per-game error tolerance.
type brokenLoadStore struct {
	*memStore
	missingID int64
}

func (b *brokenLoadStore) ListActive(ctx context.Context) ([]int64, error) {
	ids, err := b.memStore.ListActive(ctx)
	return append(ids, b.missingID), err
}

func TestSyncArchiveMirrorsHotCacheIntoArchive(t *testing.T) {
	hot := newMemStore(engine.GameRecord{ID: 7, Name: "gamma"})
	archive := newMemStore()

	syncArchive(context.Background(), archive, hot)

	rec, err := archive.Load(context.Background(), 7)
	if err != nil {
		t.Fatalf("expected game 7 to be mirrored into the archive: %v", err)
	}
	if rec.Name != "gamma" {
		t.Errorf("expected the archived record to match the hot one, got %+v", rec)
	}
}
