package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"twitter_rss_proxy/internal/config"
	"twitter_rss_proxy/internal/logger"
	"twitter_rss_proxy/internal/server"
	"twitter_rss_proxy/internal/upstream"
)

func main() {
	logger.Init()
	defer logger.Log.Info("Application stopped")

	// Загрузка конфигурации
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Log.Fatalf("Config error: %v", err)
	}

	// Цепочки фетчеров: сначала Nitter-семейство, затем хабовое.
	nitter := upstream.NewFetcher(upstream.NitterFamily{}, cfg.NitterInstances)
	hub := upstream.NewFetcher(upstream.HubFamily{}, cfg.HubInstances)

	srv := server.NewServer(cfg, nitter, hub)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/rss", srv.GetRSS)
	mux.HandleFunc("GET /health", srv.HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/", http.FileServer(http.Dir("./web")))

	// Подключаем middleware
	handler := server.RequestIDMiddleware(mux)
	handler = server.LoggingMiddleware(handler)

	httpServer := &http.Server{Addr: ":" + cfg.Port, Handler: handler}
	go func() {
		logger.Log.Infof("Starting HTTP server on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down...")
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := httpServer.Shutdown(ctxShutdown); err != nil {
		logger.Log.Fatalf("Forced shutdown: %v", err)
	}
}
