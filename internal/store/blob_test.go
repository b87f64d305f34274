package store_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/blackwell-systems/cardctl/internal/catalog"
	"github.com/blackwell-systems/cardctl/internal/codec"
	"github.com/blackwell-systems/cardctl/internal/store"
)

func testCatalog(name string) *catalog.Catalog {
	return &catalog.Catalog{
		Cards:       []catalog.Card{{ID: 1, Name: name, Type: "Monster", Atk: catalog.Int32(100)}},
		SetContents: []catalog.SetContent{{CardID: 1, SetName: "SET1", Rarity: "Common"}},
		Sets:        []catalog.CardSet{{Name: "SET1", CardIDs: []int64{1}}},
		Banlists:    []catalog.BanlistEntry{{Card: name, Limit: 1, Line: name + " 1"}},
	}
}

func TestBlob_LoadMissing(t *testing.T) {
	b := store.NewBlob(filepath.Join(t.TempDir(), "catalog.bin"))
	_, err := b.Load(context.Background())
	if !errors.Is(err, store.ErrNoCatalog) {
		t.Errorf("Load missing = %v, want ErrNoCatalog", err)
	}
}

func TestBlob_PersistAndLoad(t *testing.T) {
	ctx := context.Background()
	b := store.NewBlob(filepath.Join(t.TempDir(), "ext", "catalog.bin"))

	want := testCatalog("X")
	if err := store.Persist(ctx, b, want); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	got, err := b.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !catalog.Equal(got, want) {
		t.Errorf("Load = %+v, want %+v", got, want)
	}
	if _, err := os.Stat(b.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Error("staging file left behind after commit")
	}
}

func TestBlob_StageInvisibleUntilCommit(t *testing.T) {
	ctx := context.Background()
	b := store.NewBlob(filepath.Join(t.TempDir(), "catalog.bin"))
	if err := store.Persist(ctx, b, testCatalog("old")); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	before, _ := os.ReadFile(b.Path())

	pending, err := b.Stage(ctx, testCatalog("new"))
	if err != nil {
		t.Fatalf("Stage: %v", err)
	}
	during, _ := os.ReadFile(b.Path())
	if !bytes.Equal(before, during) {
		t.Error("live file changed before Commit")
	}

	if err := pending.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	got, err := b.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Cards[0].Name != "new" {
		t.Errorf("after commit card = %q, want new", got.Cards[0].Name)
	}
}

func TestBlob_DiscardKeepsLive(t *testing.T) {
	ctx := context.Background()
	b := store.NewBlob(filepath.Join(t.TempDir(), "catalog.bin"))
	if err := store.Persist(ctx, b, testCatalog("old")); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	before, _ := os.ReadFile(b.Path())

	pending, err := b.Stage(ctx, testCatalog("new"))
	if err != nil {
		t.Fatalf("Stage: %v", err)
	}
	if err := pending.Discard(ctx); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	after, _ := os.ReadFile(b.Path())
	if !bytes.Equal(before, after) {
		t.Error("Discard modified the live file")
	}
	if _, err := os.Stat(b.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Error("staging file left behind after discard")
	}
	// Discard after Discard is harmless.
	if err := pending.Discard(ctx); err != nil {
		t.Errorf("second Discard: %v", err)
	}
}

func TestBlob_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.bin")
	data := codec.Encode(testCatalog("X"))
	if err := os.WriteFile(path, data[:len(data)-3], 0644); err != nil {
		t.Fatal(err)
	}
	_, err := store.NewBlob(path).Load(context.Background())
	var de *codec.DecodeError
	if !errors.As(err, &de) {
		t.Errorf("Load corrupt = %v, want *codec.DecodeError", err)
	}
}

func TestBlob_StageCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := store.NewBlob(filepath.Join(t.TempDir(), "catalog.bin"))
	if _, err := b.Stage(ctx, testCatalog("X")); err == nil {
		t.Error("Stage with cancelled context should fail")
	}
}
