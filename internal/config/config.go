package config

import (
	"log"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type CatalogProvider string

const (
	CatalogSpotify CatalogProvider = "spotify"
	CatalogYouTube CatalogProvider = "youtube"
)

const DefaultPersona = "You are a friendly music therapist. Be supportive and cheerful."

type Config struct {
	// LLM settings
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`
	SystemPrompt     string      `env:"SYSTEM_PROMPT" envDefault:"You are a friendly music therapist. Be supportive and cheerful."`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Music catalog
	CatalogProvider     CatalogProvider `env:"CATALOG_PROVIDER" envDefault:"spotify"`
	SpotifyClientID     string          `env:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret string          `env:"SPOTIFY_CLIENT_SECRET"`
	YouTubeAPIKey       string          `env:"YOUTUBE_API_KEY"`

	// Speech
	SpeechEnabled bool   `env:"SPEECH_ENABLED" envDefault:"true"`
	TTSModel      string `env:"TTS_MODEL" envDefault:"tts-1"`
	TTSVoice      string `env:"TTS_VOICE" envDefault:"alloy"`
	STTModel      string `env:"STT_MODEL" envDefault:"whisper-1"`

	// Storage
	MemoryFilePath  string `env:"MEMORY_FILE_PATH" envDefault:"user_memory.json"`
	JournalFilePath string `env:"JOURNAL_FILE_PATH" envDefault:"logs/turns.jsonl"`
	QuotesFilePath  string `env:"QUOTES_FILE_PATH"`

	// Surfaces
	UserName         string   `env:"USER_NAME" envDefault:"friend"`
	TelegramBotToken string   `env:"TELEGRAM_BOT_TOKEN"`
	AdminUserID      int64    `env:"ADMIN_USER"`
	DiscordBotToken  string   `env:"DISCORD_BOT_TOKEN"`
	HTTPAddr         string   `env:"HTTP_ADDR" envDefault:":8080"`
	CORSOrigins      []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	// Reports
	ReportCron string `env:"REPORT_CRON" envDefault:"0 21 * * *"`

	// Logging
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogDevelopment bool   `env:"LOG_DEVELOPMENT"`
}

// Load parses the process environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func New() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}

// Missing lists the credential variables the selected providers need but
// did not receive. Components behind a missing credential degrade instead of
// failing.
func (c *Config) Missing() []string {
	var out []string
	switch c.LLMProvider {
	case ProviderYandex:
		if c.YandexOAuthToken == "" {
			out = append(out, "YANDEX_OAUTH_TOKEN")
		}
		if c.YandexFolderID == "" {
			out = append(out, "YANDEX_FOLDER_ID")
		}
	default:
		if c.OpenAIAPIKey == "" {
			out = append(out, "OPENAI_API_KEY")
		}
	}
	switch c.CatalogProvider {
	case CatalogYouTube:
		if c.YouTubeAPIKey == "" {
			out = append(out, "YOUTUBE_API_KEY")
		}
	default:
		if c.SpotifyClientID == "" {
			out = append(out, "SPOTIFY_CLIENT_ID")
		}
		if c.SpotifyClientSecret == "" {
			out = append(out, "SPOTIFY_CLIENT_SECRET")
		}
	}
	if c.SpeechEnabled && c.OpenAIAPIKey == "" && c.LLMProvider == ProviderYandex {
		out = append(out, "OPENAI_API_KEY")
	}
	return out
}
