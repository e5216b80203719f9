package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/compat_oai/openai"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/firebase/genkit/go/plugins/ollama"

	"github.com/avdwerff/bridgechat/internal/agent"
	"github.com/avdwerff/bridgechat/internal/bridgedb"
	"github.com/avdwerff/bridgechat/internal/config"
	"github.com/avdwerff/bridgechat/internal/log"
	"github.com/avdwerff/bridgechat/internal/observability"
	"github.com/avdwerff/bridgechat/internal/pubchem"
	"github.com/avdwerff/bridgechat/internal/resolver"
	"github.com/avdwerff/bridgechat/internal/security"
	"github.com/avdwerff/bridgechat/internal/tools"
)

// Setup creates and initializes the application.
// Returns an App with embedded cleanup; call Close() to release.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (_ *App, retErr error) {
	if cfg == nil {
		return nil, config.ErrConfigNil
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	a := &App{Config: cfg, Logger: logger}

	// On error, clean up everything already initialized
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	a.otelCleanup = provideOtelShutdown(ctx, cfg, logger)

	g, err := provideGenkit(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	res, err := NewResolver(cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Resolver = res

	if err := provideTools(a); err != nil {
		return nil, err
	}

	ag, err := agent.New(agent.Config{
		Genkit:             g,
		Logger:             logger,
		Tools:              a.Tools,
		ModelName:          cfg.FullModelName(),
		Temperature:        cfg.Temperature,
		MaxTokens:          cfg.MaxTokens,
		MaxHistoryMessages: config.NormalizeMaxHistoryMessages(cfg.MaxHistoryMessages),
	})
	if err != nil {
		return nil, fmt.Errorf("creating agent: %w", err)
	}
	a.Agent = ag

	_, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	return a, nil
}

// provideOtelShutdown sets up trace export before Genkit initialization.
// Must be called before provideGenkit so the TracerProvider is ready.
func provideOtelShutdown(ctx context.Context, cfg *config.Config, logger log.Logger) func() {
	if !cfg.Tracing.Enabled {
		return func() {}
	}

	shutdown, err := observability.Setup(ctx, observability.Config{
		Endpoint:    cfg.Tracing.Endpoint,
		Environment: cfg.Tracing.Environment,
		ServiceName: cfg.Tracing.ServiceName,
	})
	if err != nil {
		logger.Warn("setting up tracing, continuing without it", "error", err)
		return func() {}
	}

	//nolint:contextcheck // Independent context: shutdown runs during teardown when parent is canceled
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("shutting down tracer provider", "error", err)
		}
	}
}

// provideGenkit initializes Genkit with the configured AI provider plugin.
// Supports gemini (default), ollama, and openai providers.
// Call ordering in Setup ensures tracing is set up first.
func provideGenkit(ctx context.Context, cfg *config.Config, logger log.Logger) (*genkit.Genkit, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = config.ProviderGemini
	}

	var g *genkit.Genkit

	switch provider {
	case config.ProviderOllama:
		ollamaPlugin := &ollama.Ollama{ServerAddress: cfg.OllamaHost}
		g = genkit.Init(ctx, genkit.WithPlugins(ollamaPlugin))
		if g == nil {
			return nil, errors.New("initializing genkit with ollama provider")
		}
		// Ollama requires explicit model registration (no auto-discovery)
		ollamaPlugin.DefineModel(g, ollama.ModelDefinition{
			Name: cfg.ModelName,
			Type: "chat",
		}, nil)
		logger.Info("initialized Genkit with ollama provider",
			"model", cfg.ModelName, "host", cfg.OllamaHost)

	case config.ProviderOpenAI:
		g = genkit.Init(ctx, genkit.WithPlugins(&openai.OpenAI{}))
		if g == nil {
			return nil, errors.New("initializing genkit with openai provider")
		}
		logger.Info("initialized Genkit with openai provider", "model", cfg.ModelName)

	default: // gemini / googleai
		g = genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
		if g == nil {
			return nil, errors.New("initializing genkit with gemini provider")
		}
		logger.Info("initialized Genkit with gemini provider", "model", cfg.ModelName)
	}

	return g, nil
}

// NewResolver wires the mapping pipeline: a shared SSRF-guarded HTTP
// layer, the BridgeDB and PubChem clients, and the resolver on top.
// Exported so `bridgechat map` can resolve queries without a Genkit setup.
func NewResolver(cfg *config.Config, logger log.Logger) (*resolver.Resolver, error) {
	guard := security.NewHTTP(
		security.WithTimeout(cfg.HTTPTimeout()),
		security.WithMaxResponseSize(cfg.MaxResponseSize),
	)

	mapper, err := bridgedb.New(cfg.BridgeDBBaseURL, guard, logger)
	if err != nil {
		return nil, fmt.Errorf("creating bridgedb client: %w", err)
	}

	compounds, err := pubchem.New(cfg.PubChemBaseURL, guard, logger)
	if err != nil {
		return nil, fmt.Errorf("creating pubchem client: %w", err)
	}

	res, err := resolver.New(mapper, compounds, logger,
		resolver.WithSpecies(cfg.DefaultSpecies))
	if err != nil {
		return nil, fmt.Errorf("creating resolver: %w", err)
	}

	return res, nil
}

// provideTools creates the mapping toolset, registers it with Genkit, and
// stores both the concrete toolset and the registered references in a.
func provideTools(a *App) error {
	mt, err := tools.NewMapping(a.Resolver, a.Logger)
	if err != nil {
		return fmt.Errorf("creating mapping tools: %w", err)
	}
	a.Mapping = mt

	mappingTools, err := tools.RegisterMapping(a.Genkit, mt)
	if err != nil {
		return fmt.Errorf("registering mapping tools: %w", err)
	}
	a.Tools = mappingTools

	a.Logger.Info("tools registered at construction", "count", len(a.Tools))
	return nil
}
