package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/adapter/handler"
	"github.com/johnquangdev/meeting-intelligence/internal/adapter/repository"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/vectorstore"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/analysis"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/indexing"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/qa"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/transcript"
	"github.com/johnquangdev/meeting-intelligence/pkg/ai"
	"github.com/johnquangdev/meeting-intelligence/pkg/config"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	db, err := database.NewPostgresDB(cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	var store vectorstore.VectorStore
	switch cfg.Storage.Backend {
	case "badger":
		store, err = vectorstore.NewBadgerStore(cfg.Storage.BadgerPath, logger)
		if err != nil {
			logger.Fatal("failed to open vector index", zap.Error(err))
		}
	default:
		store = vectorstore.NewMemoryStore()
	}
	defer store.Close()

	completionClient, err := ai.NewOpenAIClient(cfg.AI.OpenAIAPIKey, cfg.AI.CompletionModel, cfg.AI.MaxConcurrent, logger)
	if err != nil {
		logger.Fatal("failed to create completion client", zap.Error(err))
	}
	embedder, err := ai.NewOpenAIEmbedder(cfg.AI.OpenAIAPIKey, cfg.AI.EmbeddingModel)
	if err != nil {
		logger.Fatal("failed to create embedder", zap.Error(err))
	}

	var transcriber ai.Transcriber
	if cfg.AI.AssemblyAIAPIKey != "" {
		transcriber, err = ai.NewAssemblyAIClient(cfg.AI.AssemblyAIAPIKey, logger)
		if err != nil {
			logger.Fatal("failed to create transcriber", zap.Error(err))
		}
	}

	pool, err := ants.NewPool(cfg.Pipeline.WorkerPoolSize)
	if err != nil {
		logger.Fatal("failed to create worker pool", zap.Error(err))
	}
	defer pool.Release()

	chunker, err := transcript.NewChunker(cfg.Pipeline.ChunkWindow, cfg.Pipeline.ChunkOverlap)
	if err != nil {
		logger.Fatal("invalid chunking configuration", zap.Error(err))
	}

	svc := meeting.NewService(
		transcript.NewNormalizer(logger),
		chunker,
		indexing.NewIndexer(embedder, store, pool, cfg.AI.MaxAttempts, logger),
		analysis.NewOrchestrator(
			analysis.NewStageExecutor(completionClient, cfg.AI.MaxAttempts, cfg.Pipeline.PromptTokenBudget, logger),
			cfg.Pipeline.StageTimeout,
			logger,
		),
		qa.NewRetriever(embedder, store, cfg.Retrieval.TopK, cfg.Retrieval.Threshold, logger),
		qa.NewSynthesizer(completionClient, logger),
		transcriber,
		repository.NewMeetingRepository(db),
		repository.NewAnalysisRepository(db),
		store,
		logger,
	)

	e := handler.NewRouter(handler.NewMeetingHandler(svc, logger))
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()
	logger.Info("server started", zap.String("port", cfg.Server.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
