package config

import (
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LLMProvider != ProviderOpenAI {
		t.Fatalf("provider default: %q", cfg.LLMProvider)
	}
	if cfg.OpenAIModel != "gpt-3.5-turbo" {
		t.Fatalf("model default: %q", cfg.OpenAIModel)
	}
	if cfg.MemoryFilePath != "user_memory.json" {
		t.Fatalf("memory path default: %q", cfg.MemoryFilePath)
	}
	if cfg.SystemPrompt != DefaultPersona {
		t.Fatalf("persona default: %q", cfg.SystemPrompt)
	}
	if !cfg.SpeechEnabled {
		t.Fatalf("speech should default to enabled")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CATALOG_PROVIDER", "youtube")
	t.Setenv("ADMIN_USER", "42")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.CatalogProvider != CatalogYouTube {
		t.Fatalf("catalog: %q", cfg.CatalogProvider)
	}
	if cfg.AdminUserID != 42 {
		t.Fatalf("admin: %d", cfg.AdminUserID)
	}
	want := []string{"http://a.test", "http://b.test"}
	if !reflect.DeepEqual(cfg.CORSOrigins, want) {
		t.Fatalf("origins: %v", cfg.CORSOrigins)
	}
}

func TestMissing(t *testing.T) {
	cfg := &Config{LLMProvider: ProviderOpenAI, CatalogProvider: CatalogSpotify, SpotifyClientID: "id"}
	got := cfg.Missing()
	want := []string{"OPENAI_API_KEY", "SPOTIFY_CLIENT_SECRET"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("missing: %v", got)
	}

	full := &Config{
		LLMProvider:     ProviderOpenAI,
		OpenAIAPIKey:    "k",
		CatalogProvider: CatalogYouTube,
		YouTubeAPIKey:   "y",
	}
	if m := full.Missing(); len(m) != 0 {
		t.Fatalf("unexpected missing: %v", m)
	}
}
