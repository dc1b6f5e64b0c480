package main

import (
	"context"
	"encoding/json"
	"errors"
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

	"github.com/kailas-cloud/docchat/internal/config"
	"github.com/kailas-cloud/docchat/internal/domain/search/mode"
	logpkg "github.com/kailas-cloud/docchat/internal/logger"
	"github.com/kailas-cloud/docchat/internal/metrics"
	chiTransport "github.com/kailas-cloud/docchat/internal/transport/chi"
	"github.com/kailas-cloud/docchat/internal/transport/docservice"
	collectionuc "github.com/kailas-cloud/docchat/internal/usecase/collection"
	documentuc "github.com/kailas-cloud/docchat/internal/usecase/document"
	healthuc "github.com/kailas-cloud/docchat/internal/usecase/health"
	queryuc "github.com/kailas-cloud/docchat/internal/usecase/query"
	"github.com/kailas-cloud/docchat/internal/version"
)

// startupProbeTimeout bounds the one health probe logged at startup.
const startupProbeTimeout = 10 * time.Second

// startupFields describes the running config. Credentials are reported only as set or unset.
func startupFields(env string, cfg *config.Config) []zap.Field {
	return []zap.Field{
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("docservice_url", cfg.DocService.BaseURL),
		zap.Bool("docservice_api_key_set", cfg.DocService.APIKey != ""),
		zap.Bool("auth_enabled", len(cfg.Auth.APIKeys) > 0),
	}
}

func main() {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		panic("failed to load .env: " + err.Error())
	}

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting docchat API server", startupFields(env, &cfg)...)

	// Register outbound metrics explicitly (no init())
	metrics.RegisterDocServiceMetrics()

	client, err := docservice.New(&docservice.Config{
		BaseURL: cfg.DocService.BaseURL,
		APIKey:  cfg.DocService.APIKey,
		Timeout: cfg.DocService.Timeout(),
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal("Failed to create document service client", zap.Error(err))
	}

	// Use case services
	collSvc := collectionuc.New(client, client)
	docSvc := documentuc.New(client)
	querySvc := queryuc.New(client, queryuc.Options{
		TopK:        cfg.DocService.TopK,
		LatencyMode: mode.LatencyMode(cfg.DocService.LatencyMode),
	})
	healthSvc := healthuc.New(client)

	// Reachability is reported, not required: the service may come up later.
	probeCtx, probeCancel := context.WithTimeout(context.Background(), startupProbeTimeout)
	report := healthSvc.Check(probeCtx)
	probeCancel()
	logger.Info("Document service probe", zap.String("status", string(report.Status)))

	server := chiTransport.NewServer(collSvc, docSvc, querySvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

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
						zap.String("path", r.URL.Path),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{"error": "internal error"})
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
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
