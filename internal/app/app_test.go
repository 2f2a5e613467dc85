package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"moodmate/internal/catalog"
	"moodmate/internal/config"
	"moodmate/internal/dialog"
	"moodmate/internal/mood"
	"moodmate/internal/reply"
	"moodmate/internal/storage"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		LLMProvider:     config.ProviderOpenAI,
		CatalogProvider: config.CatalogSpotify,
		SystemPrompt:    config.DefaultPersona,
		MemoryFilePath:  filepath.Join(dir, "user_memory.json"),
		JournalFilePath: filepath.Join(dir, "logs", "turns.jsonl"),
	}
}

func TestNew_DegradesWithoutCredentials(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, ok := a.Catalog.(catalog.Disabled); !ok {
		t.Fatalf("catalog should be disabled, got %T", a.Catalog)
	}

	tr := &dialog.Transcript{}
	turn, err := a.Handler.Handle(context.Background(), dialog.Request{Text: "I love this wonderful day", Surface: "test"}, tr)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if turn.Mood != mood.Happy || turn.Reply != reply.Fallback || turn.Link != "" {
		t.Fatalf("unexpected turn: %+v", turn)
	}
	if _, err := os.Stat(cfg.MemoryFilePath); err != nil {
		t.Fatalf("memory file not written: %v", err)
	}
	events, err := a.Journal.LoadTurns()
	if err != nil || len(events) != 1 {
		t.Fatalf("journal: %v %+v", err, events)
	}

	tr = &dialog.Transcript{}
	if _, err := a.Handler.Handle(context.Background(), dialog.Request{Text: "play imagine"}, tr); err != nil {
		t.Fatalf("handle play: %v", err)
	}
	if len(tr.Spoken) != 1 || tr.Spoken[0] != dialog.SongNotFound {
		t.Fatalf("play without catalog should apologise: %+v", tr)
	}
	if a.Memory.Len() != 1 {
		t.Fatalf("play must not be logged, len=%d", a.Memory.Len())
	}
}

func TestNew_MalformedMemoryFails(t *testing.T) {
	cfg := testConfig(t)
	if err := os.WriteFile(cfg.MemoryFilePath, []byte("{oops"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := New(context.Background(), cfg, zap.NewNop()); err == nil {
		t.Fatalf("expected error for malformed memory file")
	}
}

func TestNew_UnknownCatalogProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.CatalogProvider = "napster"
	if _, err := New(context.Background(), cfg, zap.NewNop()); err == nil {
		t.Fatalf("expected error for unknown catalog provider")
	}
}

func TestNew_QuotesFileFallsBack(t *testing.T) {
	cfg := testConfig(t)
	cfg.QuotesFilePath = filepath.Join(t.TempDir(), "missing.yaml")
	cfg.JournalFilePath = ""
	a, err := New(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if len(a.Quotes.All()) == 0 {
		t.Fatalf("expected built-in quotes")
	}
	var none storage.Recorder
	if a.Journal != none {
		t.Fatalf("journal should be disabled")
	}
}
