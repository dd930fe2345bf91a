package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/askdoc/askdoc/internal/ai"
	"github.com/askdoc/askdoc/internal/chunker"
	"github.com/askdoc/askdoc/internal/config"
	"github.com/askdoc/askdoc/internal/embedcache"
	"github.com/askdoc/askdoc/internal/handler"
	"github.com/askdoc/askdoc/internal/job"
	"github.com/askdoc/askdoc/internal/middleware"
	"github.com/askdoc/askdoc/internal/repo"
	"github.com/askdoc/askdoc/internal/schedule"
	"github.com/askdoc/askdoc/internal/service"
	"github.com/askdoc/askdoc/internal/vectorstore"
	"github.com/askdoc/askdoc/internal/vectorstore/pgvector"
	"github.com/askdoc/askdoc/internal/vectorstore/pinecone"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "askdoc",
		Short: "askdoc document question-answering server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run askdoc server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))
			return runServer(cfg)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logutil.GetLogger(ctx).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("vector_store", cfg.VectorStore.Type),
	)

	provider, err := ai.NewProvider(cfg.AI.Provider, ai.ProviderArgs{
		APIKey:  cfg.AI.APIKey,
		BaseURL: cfg.AI.BaseURL,
	})
	if err != nil {
		return fmt.Errorf("init ai provider: %w", err)
	}
	embedder := ai.NewEmbedder(provider, cfg.AI.EmbedModel, cfg.AI.Dimension)
	generator := ai.NewGenerator(provider, cfg.AI.GenerateModel)

	var store vectorstore.Store
	var cacheRepo *repo.EmbeddingCacheRepo
	var scheduler *schedule.CronScheduler

	needDB := cfg.VectorStore.Type == "pgvector" || cfg.EmbedCache.UseDB
	if needDB {
		db, err := repo.Open(cfg.VectorStore.Postgres)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer db.Close()
		if err := repo.ApplyMigrations(db); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		if cfg.VectorStore.Type == "pgvector" {
			store = pgvector.New(repo.NewChunkRepo(db), cfg.AI.Dimension)
		}
		if cfg.EmbedCache.UseDB {
			cacheRepo = repo.NewEmbeddingCacheRepo(db)
			embedder = embedcache.WrapDB(embedder, cacheRepo)

			scheduler = schedule.NewCronScheduler()
			cleanup := job.NewEmbeddingCacheCleanupJob(cacheRepo, cfg.EmbedCache.MaxAgeDays)
			if err := scheduler.AddJob(cleanup, cfg.CleanupCron); err != nil {
				return err
			}
			scheduler.Start(ctx)
			defer scheduler.Stop()
		}
	}
	if store == nil {
		store = pinecone.New(pinecone.Config{
			APIKey:     cfg.VectorStore.Pinecone.APIKey,
			Index:      cfg.VectorStore.Pinecone.Index,
			Region:     cfg.VectorStore.Pinecone.Region,
			ControlURL: cfg.VectorStore.Pinecone.ControlURL,
			Dimension:  cfg.AI.Dimension,
			Timeout:    time.Duration(cfg.VectorStore.Pinecone.TimeoutSeconds) * time.Second,
		})
	}

	// Fail fast on a missing index or a dimension mismatch rather
	// than at the first upload.
	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		return fmt.Errorf("vector store check: %w", err)
	}

	embedder = embedcache.WrapLRU(
		embedder,
		cfg.EmbedCache.LRUSize,
		time.Duration(cfg.EmbedCache.LRUTTLMinutes)*time.Minute,
	)

	ch, err := chunker.New(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	if err != nil {
		return err
	}

	opts := service.PipelineOptions{
		RetryAttempts: cfg.AI.RetryAttempts,
		CallTimeout:   time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
	}
	ingestService := service.NewIngestService(ch, embedder, store, opts)
	answerService := service.NewAnswerService(embedder, generator, store, cfg.RAG.TopK, opts)

	deps := handler.RouterDeps{
		Upload: handler.NewUploadHandler(ingestService, answerService),
		Ask:    handler.NewAskHandler(answerService),
	}

	engine, err := webapi.NewEngine(
		"/",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.AllowOrigin),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(ctx).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
