package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"google.golang.org/adk/model"

	"github.com/easeaico/nintendo-advisor/internal/advisor"
	"github.com/easeaico/nintendo-advisor/internal/config"
	"github.com/easeaico/nintendo-advisor/internal/generation"
	"github.com/easeaico/nintendo-advisor/internal/knowledge"
	"github.com/easeaico/nintendo-advisor/internal/memory"
	"github.com/easeaico/nintendo-advisor/internal/models"
	"github.com/easeaico/nintendo-advisor/internal/prompt"
	"github.com/easeaico/nintendo-advisor/internal/storage"
	"github.com/easeaico/nintendo-advisor/internal/web"
	"github.com/easeaico/nintendo-advisor/internal/wiki"
)

const discoveryTimeout = 5 * time.Second

// loadConfig reads and validates the configuration and applies the log level.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))
	return cfg, nil
}

// application holds the wired services.
type application struct {
	cfg         config.Config
	games       *knowledge.Repository
	memory      *memory.Service
	advisor     *advisor.Advisor
	wiki        *wiki.Client
	wikiAnswers wiki.Multi
	closers     []func()
}

func (a *application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func loadGames(cfg config.Config) *knowledge.Repository {
	games, err := knowledge.Load(cfg.GamesPath)
	if err != nil {
		slog.Warn("failed to load game catalogue, continuing empty", "path", cfg.GamesPath, "error", err.Error())
		return knowledge.NewRepository(nil)
	}
	slog.Info("game catalogue loaded", "games", games.Len())
	return games
}

// openMemoryStore returns the configured memory backend and its cleanup.
func openMemoryStore(ctx context.Context, cfg config.Config) (memory.Store, func(), error) {
	switch cfg.MemoryBackend {
	case config.MemoryPostgres:
		store, err := storage.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return store.Memories, store.Close, nil
	default:
		store, err := memory.NewFileStore(cfg.MemoryDir, cfg.DefaultUserID)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}

func newModel(ctx context.Context, cfg config.Config) (model.LLM, error) {
	switch cfg.LLMBackend {
	case config.BackendGemini:
		return models.NewGeminiModel(ctx, cfg.GoogleAPIKey, cfg.LLMModel)
	case config.BackendOpenAI:
		return models.NewOpenAIModel(ctx, cfg.LLMModel, cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.GenerationTimeout)
	default:
		name := cfg.LLMModel
		if name == "" {
			discovered, err := models.DiscoverModel(ctx, cfg.OllamaURL, models.PreferredModels, discoveryTimeout)
			if err != nil {
				slog.Warn("model discovery failed, using default", "model", models.PreferredModels[0], "error", err.Error())
				discovered = models.PreferredModels[0]
			}
			name = discovered
		}
		return models.NewOllamaModel(ctx, cfg.OllamaURL, name, cfg.GenerationTimeout)
	}
}

// newApplication wires every service for serve and chat.
func newApplication(ctx context.Context, cfg config.Config) (*application, error) {
	app := &application{cfg: cfg, games: loadGames(cfg)}

	store, closeStore, err := openMemoryStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, closeStore)

	llm, err := newModel(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to create model: %w", err)
	}
	slog.Info("generation model ready", "backend", cfg.LLMBackend, "model", llm.Name())

	var opts []memory.Option
	if narrator, err := memory.NewNarrator(llm); err != nil {
		slog.Warn("profile narrator unavailable", "error", err.Error())
	} else {
		opts = append(opts, memory.WithNarrator(narrator))
	}
	app.memory = memory.NewService(store, opts...)

	fetcher := web.NewFetcher(cfg.WebTimeout, cfg.WebRateLimit)
	lookup := web.NewLookup(web.NewFandom(fetcher, cfg.FandomHost), web.NewSearch(fetcher, cfg.SearchURL))

	app.wiki = wiki.NewClient(fetcher, wiki.Endpoint(cfg.WikiLang), cfg.WikiLang)
	app.wikiAnswers = wiki.Multi{Primary: app.wiki}
	if lang := cfg.WikiSecondaryLang; lang != "" && lang != cfg.WikiLang {
		app.wikiAnswers.Secondary = wiki.NewClient(fetcher, wiki.Endpoint(lang), lang)
	}

	gateway := generation.NewGateway(llm, prompt.NewBuilder(cfg.HistoryLimit),
		generation.WithContextLimit(cfg.ContextMaxChars))
	assembler := advisor.NewAssembler(lookup, app.wikiAnswers, app.games, app.memory)
	app.advisor = advisor.New(assembler, gateway, app.memory)
	return app, nil
}
