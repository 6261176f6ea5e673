package store

import (
	"os"
	"path/filepath"
	"testing"
)

type testDoc struct {
	Coins int    `json:"coins"`
	Theme string `json:"theme"`
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	return s
}

func TestLoad_MissingFileKeepsDefaults(t *testing.T) {
	s := newTestStore(t)

	doc := testDoc{Coins: 42, Theme: "default"}
	s.Load("currency", &doc)

	if doc.Coins != 42 {
		t.Errorf("Coins = %d, want 42 (default preserved)", doc.Coins)
	}
	if doc.Theme != "default" {
		t.Errorf("Theme = %q, want %q", doc.Theme, "default")
	}
}

func TestSaveThenLoad(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save("currency", testDoc{Coins: 120, Theme: "bg_blue"}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	var doc testDoc
	s.Load("currency", &doc)

	if doc.Coins != 120 {
		t.Errorf("Coins = %d, want 120", doc.Coins)
	}
	if doc.Theme != "bg_blue" {
		t.Errorf("Theme = %q, want %q", doc.Theme, "bg_blue")
	}
}

func TestLoad_CorruptFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "currency.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	doc := testDoc{Coins: 7}
	s.Load("currency", &doc)

	if doc.Coins != 7 {
		t.Errorf("Coins = %d, want 7 (default preserved on corrupt file)", doc.Coins)
	}
}

func TestLoad_EmptyFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "stats.json"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	doc := testDoc{Coins: 3}
	s.Load("stats", &doc)

	if doc.Coins != 3 {
		t.Errorf("Coins = %d, want 3 (default preserved on empty file)", doc.Coins)
	}
}

func TestSave_Overwrite(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save("high_score", testDoc{Coins: 1}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save("high_score", testDoc{Coins: 2}); err != nil {
		t.Fatal(err)
	}

	var doc testDoc
	s.Load("high_score", &doc)
	if doc.Coins != 2 {
		t.Errorf("Coins = %d, want 2 after overwrite", doc.Coins)
	}
}

func TestSave_NoStrayTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save("stats", testDoc{}); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("stray temp file left behind: %s", e.Name())
		}
	}
}
