package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"cardlens/internal/common"
	"cardlens/internal/model"
	"cardlens/internal/service"
)

// newTestStore opens a migrated store in a temp directory.
func newTestStore(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStorage() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return store
}

// testEntry builds a valid entry; addedOffset staggers date_added so ordering
// tests are deterministic.
func testEntry(id, name string, addedOffset time.Duration) *model.CollectionEntry {
	return &model.CollectionEntry{
		ID:         id,
		Name:       name,
		Set:        "Test Set",
		Price:      1.50,
		Domain:     model.DomainMTG,
		Confidence: 0.85,
		DateAdded:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC).Add(addedOffset),
		Quantity:   1,
	}
}

func mustSave(t *testing.T, store *SQLiteStorage, entries ...*model.CollectionEntry) {
	t.Helper()
	for _, entry := range entries {
		if err := store.SaveEntry(context.Background(), entry); err != nil {
			t.Fatalf("SaveEntry(%s) error = %v", entry.ID, err)
		}
	}
}

func TestNewSQLiteStorage(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		if _, err := NewSQLiteStorage(""); err == nil {
			t.Fatal("NewSQLiteStorage(\"\") expected error")
		}
	})

	t.Run("creates missing parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "deeper", "test.db")
		store, err := NewSQLiteStorage(path)
		if err != nil {
			t.Fatalf("NewSQLiteStorage() error = %v", err)
		}
		defer func() { _ = store.Close() }()
	})
}

func TestSaveAndGetEntry(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry := testEntry("id-1", "Black Lotus", 0)
	entry.Rarity = "rare"
	entry.CardNumber = "232"
	entry.ImageURL = "https://img/lotus.jpg"
	entry.Condition = "Near Mint"
	entry.Notes = "pulled from a booster"
	entry.Tags = []string{"power nine", "vintage"}
	entry.Quantity = 2
	mustSave(t, store, entry)

	got, err := store.GetEntry(ctx, "id-1")
	if err != nil {
		t.Fatalf("GetEntry() error = %v", err)
	}

	if got.Name != "Black Lotus" {
		t.Errorf("Name = %q, want %q", got.Name, "Black Lotus")
	}
	if got.Domain != model.DomainMTG {
		t.Errorf("Domain = %q, want %q", got.Domain, model.DomainMTG)
	}
	if got.Condition != "Near Mint" {
		t.Errorf("Condition = %q, want %q", got.Condition, "Near Mint")
	}
	if got.Quantity != 2 {
		t.Errorf("Quantity = %d, want 2", got.Quantity)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "power nine" {
		t.Errorf("Tags = %v, want [power nine vintage]", got.Tags)
	}
}

func TestSaveEntryReplacesByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry := testEntry("id-1", "Black Lotus", 0)
	mustSave(t, store, entry)

	entry.Price = 9000
	mustSave(t, store, entry)

	got, err := store.GetEntry(ctx, "id-1")
	if err != nil {
		t.Fatalf("GetEntry() error = %v", err)
	}
	if got.Price != 9000 {
		t.Errorf("Price = %v, want 9000", got.Price)
	}

	all, err := store.GetAllEntries(ctx)
	if err != nil {
		t.Fatalf("GetAllEntries() error = %v", err)
	}
	if len(all) != 1 {
		t.Errorf("entry count = %d, want 1", len(all))
	}
}

func TestSaveEntryValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*model.CollectionEntry)
	}{
		{"missing id", func(e *model.CollectionEntry) { e.ID = "" }},
		{"blank name", func(e *model.CollectionEntry) { e.Name = "   " }},
		{"negative price", func(e *model.CollectionEntry) { e.Price = -1 }},
		{"zero quantity", func(e *model.CollectionEntry) { e.Quantity = 0 }},
		{"confidence above one", func(e *model.CollectionEntry) { e.Confidence = 1.5 }},
		{"zero date added", func(e *model.CollectionEntry) { e.DateAdded = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := testEntry("id-bad", "Card", 0)
			tt.mutate(entry)
			if err := store.SaveEntry(ctx, entry); !errors.Is(err, ErrInvalidEntry) {
				t.Errorf("SaveEntry() error = %v, want ErrInvalidEntry", err)
			}
		})
	}

	if err := store.SaveEntry(ctx, nil); !errors.Is(err, ErrNilParameter) {
		t.Errorf("SaveEntry(nil) error = %v, want ErrNilParameter", err)
	}
}

func TestGetEntryNotFound(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.GetEntry(context.Background(), "missing"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("GetEntry() error = %v, want ErrNotFound", err)
	}
}

func TestGetAllEntriesOrder(t *testing.T) {
	store := newTestStore(t)

	mustSave(t, store,
		testEntry("id-old", "Oldest", 0),
		testEntry("id-new", "Newest", 2*time.Hour),
		testEntry("id-mid", "Middle", time.Hour))

	entries, err := store.GetAllEntries(context.Background())
	if err != nil {
		t.Fatalf("GetAllEntries() error = %v", err)
	}

	want := []string{"Newest", "Middle", "Oldest"}
	if len(entries) != len(want) {
		t.Fatalf("entry count = %d, want %d", len(entries), len(want))
	}
	for i, name := range want {
		if entries[i].Name != name {
			t.Errorf("entries[%d].Name = %q, want %q", i, entries[i].Name, name)
		}
	}
}

func TestSearchEntries(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	lotus := testEntry("id-1", "Black Lotus", 0)
	charizard := testEntry("id-2", "Charizard", time.Hour)
	charizard.Set = "Base Set"
	noted := testEntry("id-3", "Plains", 2*time.Hour)
	noted.Notes = "trade with Sam, 50% off"
	mustSave(t, store, lotus, charizard, noted)

	t.Run("matches name substring", func(t *testing.T) {
		got, err := store.SearchEntries(ctx, "lotus")
		if err != nil {
			t.Fatalf("SearchEntries() error = %v", err)
		}
		if len(got) != 1 || got[0].Name != "Black Lotus" {
			t.Errorf("SearchEntries(lotus) = %v entries, want Black Lotus", len(got))
		}
	})

	t.Run("matches set name", func(t *testing.T) {
		got, err := store.SearchEntries(ctx, "Base Set")
		if err != nil {
			t.Fatalf("SearchEntries() error = %v", err)
		}
		if len(got) != 1 || got[0].Name != "Charizard" {
			t.Errorf("SearchEntries(Base Set) = %v entries, want Charizard", len(got))
		}
	})

	t.Run("matches notes", func(t *testing.T) {
		got, err := store.SearchEntries(ctx, "trade with")
		if err != nil {
			t.Fatalf("SearchEntries() error = %v", err)
		}
		if len(got) != 1 || got[0].Name != "Plains" {
			t.Errorf("SearchEntries(trade with) = %v entries, want Plains", len(got))
		}
	})

	t.Run("wildcards are literal", func(t *testing.T) {
		got, err := store.SearchEntries(ctx, "50%")
		if err != nil {
			t.Fatalf("SearchEntries() error = %v", err)
		}
		if len(got) != 1 || got[0].Name != "Plains" {
			t.Errorf("SearchEntries(50%%) = %v entries, want Plains", len(got))
		}

		got, err = store.SearchEntries(ctx, "%")
		if err != nil {
			t.Fatalf("SearchEntries() error = %v", err)
		}
		if len(got) != 1 {
			t.Errorf("SearchEntries(%%) = %d entries, want 1", len(got))
		}
	})

	t.Run("no match", func(t *testing.T) {
		got, err := store.SearchEntries(ctx, "no such card")
		if err != nil {
			t.Fatalf("SearchEntries() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("SearchEntries() = %d entries, want 0", len(got))
		}
	})
}

func TestGetEntriesBySetAndGetSets(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alpha := testEntry("id-1", "Black Lotus", 0)
	alpha.Set = "Alpha"
	alphaTwo := testEntry("id-2", "Ancestral Recall", time.Hour)
	alphaTwo.Set = "Alpha"
	base := testEntry("id-3", "Charizard", 2*time.Hour)
	base.Set = "Base Set"
	mustSave(t, store, alpha, alphaTwo, base)

	entries, err := store.GetEntriesBySet(ctx, "Alpha")
	if err != nil {
		t.Fatalf("GetEntriesBySet() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("GetEntriesBySet() = %d entries, want 2", len(entries))
	}
	if entries[0].Name != "Ancestral Recall" || entries[1].Name != "Black Lotus" {
		t.Errorf("GetEntriesBySet() order = [%s, %s], want name order",
			entries[0].Name, entries[1].Name)
	}

	sets, err := store.GetSets(ctx)
	if err != nil {
		t.Fatalf("GetSets() error = %v", err)
	}
	if len(sets) != 2 || sets[0] != "Alpha" || sets[1] != "Base Set" {
		t.Errorf("GetSets() = %v, want [Alpha, Base Set]", sets)
	}
}

func TestUpdateEntry(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("partial update leaves other fields alone", func(t *testing.T) {
		mustSave(t, store, testEntry("id-upd", "Black Lotus", 0))

		quantity := 3
		condition := "Played"
		err := store.UpdateEntry(ctx, "id-upd", service.EntryUpdates{
			Quantity:  &quantity,
			Condition: &condition,
		})
		if err != nil {
			t.Fatalf("UpdateEntry() error = %v", err)
		}

		got, err := store.GetEntry(ctx, "id-upd")
		if err != nil {
			t.Fatalf("GetEntry() error = %v", err)
		}
		if got.Quantity != 3 || got.Condition != "Played" {
			t.Errorf("updated entry = quantity %d condition %q", got.Quantity, got.Condition)
		}
		if got.Name != "Black Lotus" || got.Price != 1.50 {
			t.Errorf("untouched fields changed: name %q price %v", got.Name, got.Price)
		}
	})

	t.Run("updates tags", func(t *testing.T) {
		mustSave(t, store, testEntry("id-tags", "Charizard", 0))

		tags := []string{"graded"}
		if err := store.UpdateEntry(ctx, "id-tags", service.EntryUpdates{Tags: &tags}); err != nil {
			t.Fatalf("UpdateEntry() error = %v", err)
		}

		got, err := store.GetEntry(ctx, "id-tags")
		if err != nil {
			t.Fatalf("GetEntry() error = %v", err)
		}
		if len(got.Tags) != 1 || got.Tags[0] != "graded" {
			t.Errorf("Tags = %v, want [graded]", got.Tags)
		}
	})

	t.Run("missing entry", func(t *testing.T) {
		price := 2.0
		err := store.UpdateEntry(ctx, "missing", service.EntryUpdates{Price: &price})
		if !errors.Is(err, common.ErrNotFound) {
			t.Errorf("UpdateEntry() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("rejects invariant violations", func(t *testing.T) {
		mustSave(t, store, testEntry("id-inv", "Plains", 0))

		blank := "  "
		if err := store.UpdateEntry(ctx, "id-inv", service.EntryUpdates{Name: &blank}); !errors.Is(err, ErrInvalidEntry) {
			t.Errorf("blank name error = %v, want ErrInvalidEntry", err)
		}

		negative := -1.0
		if err := store.UpdateEntry(ctx, "id-inv", service.EntryUpdates{Price: &negative}); !errors.Is(err, ErrInvalidEntry) {
			t.Errorf("negative price error = %v, want ErrInvalidEntry", err)
		}

		zero := 0
		if err := store.UpdateEntry(ctx, "id-inv", service.EntryUpdates{Quantity: &zero}); !errors.Is(err, ErrInvalidEntry) {
			t.Errorf("zero quantity error = %v, want ErrInvalidEntry", err)
		}
	})

	t.Run("no fields is a no-op", func(t *testing.T) {
		if err := store.UpdateEntry(ctx, "whatever", service.EntryUpdates{}); err != nil {
			t.Errorf("UpdateEntry() error = %v, want nil", err)
		}
	})
}

func TestDeleteEntry(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustSave(t, store, testEntry("id-del", "Black Lotus", 0))

	if err := store.DeleteEntry(ctx, "id-del"); err != nil {
		t.Fatalf("DeleteEntry() error = %v", err)
	}
	if _, err := store.GetEntry(ctx, "id-del"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("GetEntry() after delete error = %v, want ErrNotFound", err)
	}
	if err := store.DeleteEntry(ctx, "id-del"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("DeleteEntry() twice error = %v, want ErrNotFound", err)
	}
}

func TestClearEntries(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustSave(t, store,
		testEntry("id-1", "One", 0),
		testEntry("id-2", "Two", time.Hour))

	if err := store.ClearEntries(ctx); err != nil {
		t.Fatalf("ClearEntries() error = %v", err)
	}

	all, err := store.GetAllEntries(ctx)
	if err != nil {
		t.Fatalf("GetAllEntries() error = %v", err)
	}
	if len(all) != 0 {
		t.Errorf("entry count after clear = %d, want 0", len(all))
	}
}
