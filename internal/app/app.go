// Package app wires configuration into the shared components every binary uses.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"moodmate/internal/catalog"
	"moodmate/internal/config"
	"moodmate/internal/dialog"
	"moodmate/internal/llm"
	"moodmate/internal/memory"
	"moodmate/internal/mood"
	"moodmate/internal/quotes"
	"moodmate/internal/reply"
	"moodmate/internal/speech"
	"moodmate/internal/storage"
)

type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Memory     *memory.Memory
	Classifier *mood.Classifier
	Catalog    catalog.Searcher
	Replies    *reply.Generator
	Quotes     *quotes.Provider
	Journal    storage.Recorder
	Recognizer speech.Recognizer
	Speaker    *speech.Speaker
	Handler    *dialog.Handler
}

// New builds every component. Only an unreadable memory file is fatal;
// missing credentials leave the affected component degraded.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	for _, name := range cfg.Missing() {
		logger.Warn("credential not set, dependent feature will fall back", zap.String("env", name))
	}

	mem, err := memory.Open(memory.NewFileRepository(cfg.MemoryFilePath))
	if err != nil {
		return nil, fmt.Errorf("open memory %s: %w", cfg.MemoryFilePath, err)
	}

	a := &App{
		Config:     cfg,
		Logger:     logger,
		Memory:     mem,
		Classifier: mood.NewClassifier(mood.NewVaderAnalyzer()),
		Quotes:     loadQuotes(cfg.QuotesFilePath, logger),
	}

	a.Catalog, err = newCatalog(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.Replies = reply.New(newLLMClient(cfg, logger), cfg.SystemPrompt)

	synth, rec := newSpeech(cfg)
	a.Recognizer = rec
	a.Speaker = speech.NewSpeaker(synth, logger)

	if cfg.JournalFilePath != "" {
		j, err := storage.NewFileRecorder(cfg.JournalFilePath)
		if err != nil {
			logger.Warn("turn journal disabled", zap.Error(err))
		} else {
			a.Journal = j
		}
	}

	a.Handler = dialog.New(dialog.Deps{
		Classifier: a.Classifier,
		Memory:     a.Memory,
		Catalog:    a.Catalog,
		Replies:    a.Replies,
		Quotes:     a.Quotes,
		Recorder:   a.Journal,
		Logger:     logger,
	})

	logger.Info("components ready",
		zap.String("llm_provider", string(cfg.LLMProvider)),
		zap.String("catalog_provider", string(cfg.CatalogProvider)),
		zap.String("memory_file", cfg.MemoryFilePath),
		zap.Int("interactions", mem.Len()))
	return a, nil
}

func loadQuotes(path string, logger *zap.Logger) *quotes.Provider {
	if path == "" {
		return quotes.Default()
	}
	p, err := quotes.Load(path)
	if err != nil {
		logger.Warn("failed to load quotes file, using built-in quotes", zap.String("path", path), zap.Error(err))
		return quotes.Default()
	}
	return p
}

func newCatalog(ctx context.Context, cfg *config.Config) (catalog.Searcher, error) {
	switch cfg.CatalogProvider {
	case config.CatalogYouTube:
		if cfg.YouTubeAPIKey == "" {
			return catalog.Disabled{}, nil
		}
		yt, err := catalog.NewYouTube(ctx, cfg.YouTubeAPIKey)
		if err != nil {
			return nil, fmt.Errorf("youtube catalog: %w", err)
		}
		return yt, nil
	case config.CatalogSpotify:
		if cfg.SpotifyClientID == "" || cfg.SpotifyClientSecret == "" {
			return catalog.Disabled{}, nil
		}
		return catalog.NewSpotify(ctx, cfg.SpotifyClientID, cfg.SpotifyClientSecret, catalog.SpotifyOptions{}), nil
	default:
		return nil, fmt.Errorf("unknown catalog provider: %s", cfg.CatalogProvider)
	}
}

// newLLMClient returns nil when the provider lacks credentials so that every
// reply falls back.
func newLLMClient(cfg *config.Config, logger *zap.Logger) llm.Client {
	factory := llm.NewFactory(cfg)
	provider := string(cfg.LLMProvider)
	if !factory.Configured(provider) {
		return nil
	}
	client, err := factory.CreateClient(provider, cfg.OpenAIModel)
	if err != nil {
		logger.Warn("failed to create llm client", zap.String("provider", provider), zap.Error(err))
		return nil
	}
	return client
}

func newSpeech(cfg *config.Config) (speech.Synthesizer, speech.Recognizer) {
	if !cfg.SpeechEnabled || cfg.OpenAIAPIKey == "" {
		return speech.Disabled{}, speech.Disabled{}
	}
	oc := llm.NewOpenAIConfig(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenRouterReferrer, cfg.OpenRouterTitle)
	s := speech.NewOpenAI(oc, cfg.STTModel, cfg.TTSModel, cfg.TTSVoice)
	return s, s
}
