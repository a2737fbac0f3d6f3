package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/inboxlab/mailrag/internal/config"
	"github.com/inboxlab/mailrag/internal/dataset"
	"github.com/inboxlab/mailrag/internal/db"
	dbRedis "github.com/inboxlab/mailrag/internal/db/redis"
	"github.com/inboxlab/mailrag/internal/domain"
	"github.com/inboxlab/mailrag/internal/domain/email"
	logpkg "github.com/inboxlab/mailrag/internal/logger"
	"github.com/inboxlab/mailrag/internal/metrics"
	chunkrepo "github.com/inboxlab/mailrag/internal/repository/chunk"
	"github.com/inboxlab/mailrag/internal/repository/embcache"
	searchrepo "github.com/inboxlab/mailrag/internal/repository/search"
	usagerepo "github.com/inboxlab/mailrag/internal/repository/usage"
	chiTransport "github.com/inboxlab/mailrag/internal/transport/chi"
	openaiTransport "github.com/inboxlab/mailrag/internal/transport/openai"
	answeruc "github.com/inboxlab/mailrag/internal/usecase/answer"
	classifyuc "github.com/inboxlab/mailrag/internal/usecase/classify"
	collectionuc "github.com/inboxlab/mailrag/internal/usecase/collection"
	healthuc "github.com/inboxlab/mailrag/internal/usecase/health"
	indexuc "github.com/inboxlab/mailrag/internal/usecase/index"
	normalizeuc "github.com/inboxlab/mailrag/internal/usecase/normalize"
	searchuc "github.com/inboxlab/mailrag/internal/usecase/search"
	"github.com/inboxlab/mailrag/internal/version"
)

func main() {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting mailrag API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.String("llm_model", cfg.LLM.Model),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create vector store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Vector store not ready", zap.Error(err))
	}
	logger.Info("Connected to vector store")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterGenerationMetrics()
	metrics.RegisterHTTPMetrics()

	// Embedder chain — composition root
	docEmbedder := buildEmbedder(cfg.Embedding, cfg.Embedding.DocumentInstruction, store, logger)
	queryEmbedder := buildEmbedder(cfg.Embedding, cfg.Embedding.QueryInstruction, store, logger)
	logger.Info("Embedders created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	completer := openaiTransport.NewCompleter(&openaiTransport.CompleterConfig{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     time.Duration(cfg.LLM.TimeoutSec) * time.Second,
		Provider:    "openai",
		Logger:      logger,
	})

	chunkRepo := chunkrepo.New(store).WithHNSW(chunkrepo.HNSWConfig{
		M:           cfg.Index.HNSWM,
		EFConstruct: cfg.Index.HNSWEFConstruct,
	})
	searchRepo := searchrepo.New(store)
	usageStore := usagerepo.New(store)

	// Create the index up front so a model mismatch fails loudly at startup
	// instead of on the first write.
	if err := chunkRepo.EnsureIndex(ctx, cfg.Embedding.Model, cfg.Embedding.Dimensions); err != nil {
		logger.Fatal("Failed to ensure chunk index", zap.Error(err))
	}

	normalizeSvc := normalizeuc.New()
	indexSvc := indexuc.New(chunkRepo, docEmbedder, usageStore, indexuc.Config{
		ChunkSize:    cfg.Index.ChunkSize,
		ChunkOverlap: cfg.Index.ChunkOverlap,
		Model:        cfg.Embedding.Model,
		Dimensions:   cfg.Embedding.Dimensions,
	})
	searchSvc := searchuc.New(searchRepo, chunkRepo, queryEmbedder, usageStore).
		WithTopK(cfg.Retrieval.DefaultTopK, cfg.Retrieval.MaxTopK)
	answerSvc := answeruc.New(searchSvc, completer, usageStore)
	classifySvc := classifyuc.New()
	collectionSvc := collectionuc.New(chunkRepo, usageStore, cfg.Embedding.Model, cfg.Embedding.Dimensions)
	healthSvc := healthuc.New(store, newEmbeddingHealthChecker(docEmbedder))

	emails := loadDataset(cfg.Dataset.Path, logger)

	server := chiTransport.NewServer(
		normalizeSvc, indexSvc, searchSvc, answerSvc,
		classifySvc, collectionSvc, healthSvc, emails, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instruction
func buildEmbedder(
	embCfg config.EmbeddingConfig,
	instruction string,
	store db.Store,
	logger *zap.Logger,
) domain.Embedder {
	base := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     embCfg.APIKey,
		BaseURL:    embCfg.BaseURL,
		Model:      embCfg.Model,
		Dimensions: embCfg.Dimensions,
		Timeout:    time.Duration(embCfg.TimeoutSec) * time.Second,
		Provider:   "openai",
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if embCfg.CacheEnabled == nil || *embCfg.CacheEnabled {
		embedder = embcache.New(base, store, metrics.EmbeddingCacheTotal, logger)
	}

	// Instruction prefix (outermost — cache key includes instruction)
	if instruction != "" {
		return domain.NewInstructionEmbedder(embedder, instruction)
	}

	return embedder
}

// loadDataset reads the email fixture. Missing fixture is not fatal: the API
// still works for caller-supplied emails.
func loadDataset(path string, logger *zap.Logger) []email.Email {
	if path == "" {
		return nil
	}
	emails, err := dataset.Load(path)
	if err != nil {
		logger.Warn("Failed to load email dataset", zap.String("path", path), zap.Error(err))
		return nil
	}
	logger.Info("Loaded email dataset", zap.String("path", path), zap.Int("count", len(emails)))
	return emails
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.WithContext(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
