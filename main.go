package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tripsight/tripsight-engine/pkg/config"
	"github.com/tripsight/tripsight-engine/pkg/database"
	"github.com/tripsight/tripsight-engine/pkg/handlers"
	"github.com/tripsight/tripsight-engine/pkg/llm"
	"github.com/tripsight/tripsight-engine/pkg/logging"
	"github.com/tripsight/tripsight-engine/pkg/middleware"
	"github.com/tripsight/tripsight-engine/pkg/repositories"
	"github.com/tripsight/tripsight-engine/pkg/services"
	"github.com/tripsight/tripsight-engine/pkg/vector"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("database", cfg.Database.Host),
		zap.String("qdrant", cfg.Qdrant.Addr),
		zap.String("ai_provider", cfg.AI.Provider))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.URL(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.Database.URL(), cfg.Database.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	store, err := vector.New(cfg.Qdrant.Addr, cfg.Qdrant.Collection, logger)
	if err != nil {
		logger.Fatal("Failed to connect to vector store", zap.Error(err))
	}
	defer func() { _ = store.Close() }()

	completions, embedder, err := buildAIClients(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create AI clients", zap.Error(err))
	}

	tripRepo := repositories.NewTripRepository(db)

	indexerService := services.NewIndexerService(tripRepo, store, embedder, services.IndexerConfig{
		BatchSize:     cfg.Indexer.BatchSize,
		EmbeddingDims: cfg.AI.EmbeddingDims,
	}, logger)
	searchService := services.NewSearchService(store, embedder, tripRepo, services.SearchConfig{
		MinSimilarity: cfg.Search.MinSimilarity,
		HighTier:      cfg.Search.HighTier,
		MediumTier:    cfg.Search.MediumTier,
		Substitutions: services.DefaultSubstitutions(),
	}, logger)
	assistantService := services.NewAssistantService(completions, tripRepo, logger)
	dashboardService := services.NewDashboardService(tripRepo, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewSearchHandler(searchService, indexerService,
		cfg.Search.DefaultTopK, cfg.Search.DefaultExampleLimit, logger).RegisterRoutes(mux)
	handlers.NewAssistantHandler(assistantService, logger).RegisterRoutes(mux)
	handlers.NewDashboardHandler(dashboardService, logger).RegisterRoutes(mux)

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.BindAddr, cfg.Port),
		Handler:           middleware.RequestLogger(logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting tripsight-engine",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
}

// buildAIClients wires the completion and embedding backends. Embeddings
// always go through an OpenAI-compatible endpoint; completions follow
// the configured provider.
func buildAIClients(cfg *config.Config, logger *zap.Logger) (llm.CompletionClient, llm.EmbeddingClient, error) {
	embeddingClient, err := llm.NewClient(&llm.Config{
		Endpoint:       cfg.AI.EffectiveEmbeddingEndpoint(),
		Model:          cfg.AI.Model,
		EmbeddingModel: cfg.AI.EmbeddingModel,
		APIKey:         cfg.AI.APIKey,
		RequestTimeout: cfg.AI.RequestTimeout,
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	if cfg.AI.Provider == "anthropic" {
		completions, err := llm.NewAnthropicClient(cfg.AI.APIKey, cfg.AI.Model, logger)
		if err != nil {
			return nil, nil, err
		}
		return completions, embeddingClient, nil
	}

	return embeddingClient, embeddingClient, nil
}
