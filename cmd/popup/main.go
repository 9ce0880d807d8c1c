package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmittmann/tint"
	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/vancomm/minesweeper-popup/internal/app"
	"github.com/vancomm/minesweeper-popup/internal/config"
	"github.com/vancomm/minesweeper-popup/internal/database"
	"github.com/vancomm/minesweeper-popup/internal/mines"
	"github.com/vancomm/minesweeper-popup/internal/schedule"
	"github.com/vancomm/minesweeper-popup/internal/session"
	"github.com/vancomm/minesweeper-popup/internal/settings"
)

func newLogger() *slog.Logger {
	var handler slog.Handler = slog.NewJSONHandler(os.Stderr, nil)
	if config.Development() {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level: slog.LevelDebug,
		})
	}
	return slog.New(handler)
}

// setupEngineLogging routes the engine and scheduler traces to a rotated
// file when one is configured.
func setupEngineLogging() error {
	level := logrus.InfoLevel
	if config.Development() {
		level = logrus.DebugLevel
	}
	mines.Log.SetLevel(level)
	schedule.Log.SetLevel(level)

	lf := config.NewLogFile()
	if lf == nil {
		return nil
	}
	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   lf.Filename,
		MaxSize:    lf.MaxSizeMB,
		MaxBackups: lf.MaxBackups,
		MaxAge:     lf.MaxAgeDays,
		Level:      logrus.DebugLevel,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return fmt.Errorf("unable to open log file %s: %w", lf.Filename, err)
	}
	mines.Log.AddHook(hook)
	schedule.Log.AddHook(hook)
	return nil
}

// openStore returns the configured settings store and a func releasing it.
func openStore(ctx context.Context, logger *slog.Logger) (settings.Store, func(), error) {
	backend, err := config.NewSettingsBackend()
	if err != nil {
		return nil, nil, err
	}
	logger.Info("opening settings store", slog.String("backend", string(backend)))

	switch backend {
	case config.BackendPostgres:
		db, _, err := database.ConnectAndMigrate(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to connect to db: %w", err)
		}
		if err := db.Ping(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("unable to ping db: %w", err)
		}
		return settings.NewPostgres(db, config.SettingsProfile()), db.Close, nil
	case config.BackendMemory:
		return &settings.Memory{}, func() {}, nil
	default:
		store, err := settings.OpenSQLite(ctx, config.SQLitePath())
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Warn("unable to close settings store", slog.Any("error", err))
			}
		}, nil
	}
}

func newJWT(logger *slog.Logger) (*config.JWT, error) {
	j, err := config.NewJWT()
	if err == nil {
		return j, nil
	}
	logger.Warn("JWT keys not configured, using an ephemeral key", slog.Any("reason", err))
	return config.NewEphemeralJWT()
}

func run(ctx context.Context, logger *slog.Logger) error {
	if err := setupEngineLogging(); err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	j, err := newJWT(logger)
	if err != nil {
		return err
	}

	sessions := session.NewManager(logger, config.SessionTTL())

	a := app.New(
		logger,
		config.Port(),
		store,
		sessions,
		config.NewCookies(j),
		config.NewWebSocket(),
	)
	return a.Start(ctx)
}

func main() {
	logger := newLogger()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.Error("exit reason", slog.Any("error", err))
		os.Exit(1)
	}
}
