package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eduportal/portal/frontend/internal/router"
	"github.com/eduportal/portal/frontend/internal/setup"
	"github.com/eduportal/portal/shared/config"
	"github.com/eduportal/portal/shared/logger"
)

const (
	readTimeout     = 5 * time.Second
	writeTimeout    = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	var configFolder, envFile string
	flag.StringVar(&configFolder, "config_folder", envOr("CONFIG_PATH", "config"), "path to folder with configs")
	flag.StringVar(&envFile, "env_file", envOr("ENV_FILE", ".env"), "dotenv file loaded before the environment is read")
	flag.Parse()

	if err := config.LoadEnvFile(envFile); err != nil {
		logger.Log.Error("loading env file", "error", err)
		os.Exit(1)
	}
	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	deps, err := setup.SetupDependencies(cfg)
	if err != nil {
		logger.Log.Error("setting up dependencies", "error", err)
		os.Exit(1)
	}
	defer deps.Stop()

	server := &http.Server{
		Addr:         ":" + cfg.Public.Port,
		Handler:      router.New(deps),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Log.Info("starting portal", "addr", server.Addr, "dev", cfg.Public.DevMode)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("graceful shutdown failed", "error", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
