package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/prasetyadi/survey-kiosk/api"
	dbfs "github.com/prasetyadi/survey-kiosk/db"
	"github.com/prasetyadi/survey-kiosk/internal/config"
	"github.com/prasetyadi/survey-kiosk/internal/db"
	"github.com/prasetyadi/survey-kiosk/internal/repository/sqlite"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// a missing .env is fine; env vars may come from the environment directly
	_ = godotenv.Load()

	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	api.SetLogger(logger)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("starting survey kiosk server",
		slog.String("version", version),
		slog.String("build_time", buildTime),
		slog.String("env", cfg.Env),
	)

	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.DatabasePath, cfg.DBConnectAttempts, cfg.DBConnectDelay)
	if err != nil {
		logger.Error("failed to open database", slog.Any("err", err))
		os.Exit(1)
	}

	if err := db.Migrate(ctx, database, dbfs.Migrations); err != nil {
		logger.Error("failed to run migrations", slog.Any("err", err))
		os.Exit(1)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to UTC", slog.String("timezone", cfg.Timezone))
		loc = time.UTC
	}

	repo := sqlite.New(database)
	if err := repo.SeedQuestions(ctx); err != nil {
		logger.Error("failed to seed questions", slog.Any("err", err))
		os.Exit(1)
	}
	if cfg.DefaultAdminPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.DefaultAdminPassword), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("failed to hash admin password", slog.Any("err", err))
			os.Exit(1)
		}
		if err := repo.UpsertAdmin(ctx, "admin", "Administrator", string(hash)); err != nil {
			logger.Error("failed to provision admin account", slog.Any("err", err))
			os.Exit(1)
		}
		logger.Info("default admin account provisioned", slog.String("username", "admin"))
	}

	handler := api.SetupRoutes(cfg, version, buildTime, database, loc)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", slog.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", slog.Any("err", err))
	}

	if err := database.Close(); err != nil {
		logger.Error("error closing database", slog.Any("err", err))
	}

	logger.Info("server exited")
}
