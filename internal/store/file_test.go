package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mnav-tracker/internal/domain"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "mnav.json")
	s := NewFileStore(path)

	want := domain.Reading{
		Value:     2.15,
		Source:    domain.SourceScrapingBee,
		FetchedAt: time.Date(2026, 2, 13, 9, 30, 0, 0, time.UTC),
	}
	if err := s.Save(context.Background(), want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil {
		t.Fatal("expected a record, got nil")
	}
	if got.Value != want.Value || got.Source != want.Source || !got.FetchedAt.Equal(want.FetchedAt) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, want)
	}
	if got.IsFallback {
		t.Fatal("loaded reading should not be marked fallback")
	}
}

func TestFileStoreLoadMissing(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "never-written.json"))

	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing file, got %+v", got)
	}
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mnav.json")
	s := NewFileStore(path)
	ctx := context.Background()

	first := domain.Reading{Value: 1.8, Source: domain.SourceTradingView, FetchedAt: time.Now().UTC()}
	second := domain.Reading{Value: 2.4, Source: domain.SourceManual, FetchedAt: time.Now().UTC()}
	if err := s.Save(ctx, first); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := s.Save(ctx, second); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Value != 2.4 || got.Source != domain.SourceManual {
		t.Fatalf("expected the second record, got %+v", got)
	}
}

func TestFileStoreSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mnav.json")
	s := NewFileStore(path)

	r := domain.Reading{Value: 2.15, Source: domain.SourceHeadless, FetchedAt: time.Now().UTC()}
	if err := s.Save(context.Background(), r); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("parse file: %v", err)
	}
	for _, key := range []string{"value", "source", "fetched_at"} {
		if _, ok := raw[key]; !ok {
			t.Fatalf("missing key %q in %s", key, data)
		}
	}
	if len(raw) != 3 {
		t.Fatalf("expected exactly 3 keys, got %d: %s", len(raw), data)
	}
}

func TestOpenDefaultsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mnav.json")
	s, err := Open(context.Background(), Config{FilePath: path})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Fatalf("expected *FileStore, got %T", s)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), Config{Driver: "postgres"}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
