package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sangnt1552314/ytloop/internal/config"
	"github.com/sangnt1552314/ytloop/internal/handlers"
	"github.com/sangnt1552314/ytloop/internal/logging"
	"github.com/sangnt1552314/ytloop/internal/middleware"
	"github.com/sangnt1552314/ytloop/internal/services"
)

func main() {
	config.LoadEnvFile()

	cfg, err := config.LoadServer()
	if err != nil {
		logging.Fatal("Configuration error: %v", err)
	}
	logging.SetLevel(cfg.LogLevel)

	if cfg.YouTubeAPIKey == "" {
		logging.Warn("YOUTUBE_API_KEY is not set; playlist requests will fail until it is configured")
	}

	h := handlers.New(newResolver(cfg))
	router := setupRouter(h)
	handler := middleware.Logger(middleware.DefaultLoggingConfig())(router)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go handleShutdown(srv)

	logging.Info("Playlist resolver listening on %s", cfg.ListenAddr)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logging.Fatal("Server error: %v", err)
	}
}

func newResolver(cfg config.ServerConfig) *services.Resolver {
	return services.NewResolver(services.ResolverConfig{
		APIKey:     cfg.YouTubeAPIKey,
		BaseURL:    cfg.YouTubeAPIBaseURL,
		HTTPClient: &http.Client{Timeout: cfg.UpstreamTimeout},
	})
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", h.HealthCheck).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Metrics)
	api.HandleFunc("/playlist", h.GetPlaylist).Methods(http.MethodGet)

	return r
}

func handleShutdown(srv *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	logging.Info("Received %s, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	}
}
