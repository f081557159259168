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
	"go.uber.org/zap"

	"github.com/kailas-cloud/assetdex/internal/config"
	logpkg "github.com/kailas-cloud/assetdex/internal/logger"
	"github.com/kailas-cloud/assetdex/internal/metrics"
	"github.com/kailas-cloud/assetdex/internal/querylang"
	"github.com/kailas-cloud/assetdex/internal/storage"
	chiTransport "github.com/kailas-cloud/assetdex/internal/transport/chi"
	"github.com/kailas-cloud/assetdex/internal/usecase/assetquery"
	"github.com/kailas-cloud/assetdex/internal/usecase/batch"
	"github.com/kailas-cloud/assetdex/internal/usecase/enrich"
	healthuc "github.com/kailas-cloud/assetdex/internal/usecase/health"
	"github.com/kailas-cloud/assetdex/internal/usecase/ingest"
	"github.com/kailas-cloud/assetdex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, logpkg.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting assetdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	ctx := context.Background()

	be, err := storage.Open(ctx, storage.Config{
		Driver:           cfg.Database.Driver,
		Addrs:            cfg.Database.Addrs,
		Password:         cfg.Database.Password,
		SQLitePath:       cfg.Database.SQLitePath,
		ReadinessTimeout: time.Duration(cfg.Database.ReadinessTimeout) * time.Second,
	})
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer be.Close()
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterQueryMetrics()

	parser, err := querylang.New()
	if err != nil {
		logger.Fatal("Failed to build query parser", zap.Error(err))
	}

	enricher := enrich.New(be.Tags, cfg.Assets.BaseURL)
	querySvc := assetquery.New(be.Assets, be.Tags, parser, enricher, assetquery.Options{
		DefaultPageSize:      cfg.Query.DefaultPageSize,
		MaxResults:           cfg.Query.MaxResults,
		DefaultPageSizeGraph: cfg.Query.DefaultPageSizeGraph,
	})
	ingestSvc := ingest.New(be.Assets, be.Tags)
	healthSvc := healthuc.New(be.Pinger, be.Index)

	batchSvc := batch.New(ingestSvc)
	server := chiTransport.NewServer(
		assetquery.NewInstrumented(querySvc, logger), ingestSvc, batchSvc, healthSvc, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowCredentials, cfg.CORS.MaxAgeSec))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	chiTransport.HandlerWithOptions(server, chiTransport.ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: chiTransport.ParamErrorHandler,
	})

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
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorResponseCodeInternalError,
						Message: "internal error",
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

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", chi.RouteContext(r.Context()).RoutePattern()),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
