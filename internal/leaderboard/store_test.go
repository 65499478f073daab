package leaderboard

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "leaderboard.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAddEntryFillsDefaults(t *testing.T) {
	store := openTestStore(t)

	err := store.AddEntry(Entry{
		PlayerName: "Héloïse",
		Mode:       "coop",
		Score:      12,
		Word:       "3 mots",
		Errors:     2,
		Won:        true,
	})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	entries, err := store.TopScores("coop", 0)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	got := entries[0]
	if got.ID == "" {
		t.Fatal("id should be generated")
	}
	if got.Timestamp.IsZero() {
		t.Fatal("timestamp should be filled")
	}
	if got.PlayerName != "Héloïse" || got.Score != 12 || !got.Won {
		t.Fatalf("entry not preserved: %+v", got)
	}
}

func TestTopScoresOrdersAndFiltersByMode(t *testing.T) {
	store := openTestStore(t)

	for _, e := range []Entry{
		{PlayerName: "Anne", Mode: "coop", Score: 5, Word: "1 mot"},
		{PlayerName: "Benoît", Mode: "coop", Score: 20, Word: "4 mots"},
		{PlayerName: "Claire", Mode: "coop", Score: 11, Word: "2 mots"},
		{PlayerName: "Denis", Mode: "pvp", Score: 99, Word: "9 mots"},
	} {
		if err := store.AddEntry(e); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}

	entries, err := store.TopScores("coop", 0)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 coop entries, got %d", len(entries))
	}
	if entries[0].Score != 20 || entries[1].Score != 11 || entries[2].Score != 5 {
		t.Fatalf("entries not ordered by score: %+v", entries)
	}
	for _, e := range entries {
		if e.Mode != "coop" {
			t.Fatalf("pvp entry leaked into coop results: %+v", e)
		}
	}
}

func TestTopScoresHonorsLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < MaxEntriesPerMode+5; i++ {
		if err := store.AddEntry(Entry{PlayerName: "P", Mode: "coop", Score: i, Word: "1 mot"}); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}

	entries, err := store.TopScores("coop", 0)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(entries) != MaxEntriesPerMode {
		t.Fatalf("default limit should cap at %d, got %d", MaxEntriesPerMode, len(entries))
	}

	entries, err = store.TopScores("coop", 3)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("explicit limit should cap at 3, got %d", len(entries))
	}
}

func TestClearMode(t *testing.T) {
	store := openTestStore(t)

	store.AddEntry(Entry{PlayerName: "Anne", Mode: "coop", Score: 5, Word: "1 mot"})
	store.AddEntry(Entry{PlayerName: "Denis", Mode: "pvp", Score: 9, Word: "2 mots"})

	if err := store.ClearMode("coop"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	coop, _ := store.TopScores("coop", 0)
	if len(coop) != 0 {
		t.Fatalf("coop entries should be gone, got %d", len(coop))
	}
	pvp, _ := store.TopScores("pvp", 0)
	if len(pvp) != 1 {
		t.Fatalf("pvp entries should survive, got %d", len(pvp))
	}
}
