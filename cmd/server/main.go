package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/agenthands/syllabus/internal/config"
	"github.com/agenthands/syllabus/internal/core"
	"github.com/agenthands/syllabus/internal/logger"
	"github.com/agenthands/syllabus/internal/server"
)

func main() {
	envErr := godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		panic(err)
	}
	cfg.ApplyEnv()

	log := logger.NewLogger(cfg.Debug)
	defer func() { _ = log.Sync() }()

	if envErr != nil {
		log.Debug("no .env file found, using environment")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.String("path", cfgPath), zap.Error(err))
	}

	ctx := context.Background()
	engine, closeEngine, err := core.NewFromConfig(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to initialize engine", zap.Error(err))
	}
	defer func() {
		if err := closeEngine(context.Background()); err != nil {
			log.Warn("failed to close engine", zap.Error(err))
		}
	}()

	timeout := time.Duration(cfg.Server.RequestTimeoutSeconds) * time.Second
	srv := server.NewServer(engine, timeout, log)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: srv.SetupRouter(),
	}

	go func() {
		log.Info("starting server",
			zap.String("port", cfg.Server.Port),
			zap.String("llm_provider", cfg.LLM.Provider),
			zap.String("embedding_model", cfg.EmbeddingProvider().EmbeddingModel))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
}
