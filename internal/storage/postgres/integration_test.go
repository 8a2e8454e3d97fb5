//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/jkolbly/diplomacy-rest/internal/engine"
	"github.com/jkolbly/diplomacy-rest/internal/testutil"
)

var testDB *sql.DB

func setup(t *testing.T) *Archive {
	t.Helper()
	if testDB == nil {
		testDB = testutil.SetupDB(t)
	}
	testutil.CleanupDB(t, testDB)
	return New(testDB)
}

func TestArchiveRoundTrip(t *testing.T) {
	a := setup(t)
	ctx := context.Background()

	rec := engine.GameRecord{
		ID: 42, Name: "archived game", Outcome: engine.Playing, Phase: engine.Retreating,
		Players: map[string]string{"germany": "bob"},
	}
	if err := a.Save(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := a.Load(ctx, 42)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Name != "archived game" || got.Phase != engine.Retreating {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	active, err := a.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 || active[0] != 42 {
		t.Fatalf("expected game 42 active, got %v", active)
	}

	rec.Outcome = engine.Won
	rec.Winner = "germany"
	if err := a.Save(ctx, rec); err != nil {
		t.Fatalf("save won state: %v", err)
	}
	active, _ = a.ListActive(ctx)
	if len(active) != 0 {
		t.Fatalf("expected no active games once won, got %v", active)
	}

	if err := a.MarkDeleted(ctx, 42); err != nil {
		t.Fatalf("mark deleted: %v", err)
	}
	if _, err := a.Load(ctx, 42); err == nil {
		t.Fatal("expected not-found error loading a deleted game")
	}
}
