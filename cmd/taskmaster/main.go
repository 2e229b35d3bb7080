package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sandeepkv93/taskmaster/internal/config"
	"github.com/sandeepkv93/taskmaster/internal/logging"
	"github.com/sandeepkv93/taskmaster/internal/reminder"
	"github.com/sandeepkv93/taskmaster/internal/storage"
	"github.com/sandeepkv93/taskmaster/internal/store"
	"github.com/sandeepkv93/taskmaster/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "taskmaster failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogPath())
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	st, err := storage.Open(cfg.StorageOptions())
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	logger.Info("starting",
		zap.String("storage", string(cfg.StorageKind)),
		zap.String("data_dir", cfg.DataDir),
		zap.String("key", cfg.StorageKey),
	)

	ctx := context.Background()
	todos := store.New(ctx, st, store.WithLogger(logger.Named("store")))

	opts := []update.Option{}
	if cfg.Reminders {
		engine := reminder.NewEngine(cfg.ReminderBuffer, reminder.WithLogger(logger.Named("reminder")))
		engine.Start()
		defer engine.Stop()
		opts = append(opts, update.WithReminders(engine))
	}

	m := update.NewModel(todos, opts...)
	defer m.Close()

	program := tea.NewProgram(m, tea.WithAltScreen())
	_, runErr := program.Run()

	closeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := todos.Close(closeCtx); err != nil {
		logger.Error("failed to close store", zap.Error(err))
		if runErr == nil {
			return fmt.Errorf("save on exit: %w", err)
		}
	}
	if runErr != nil {
		logger.Error("program exited with error", zap.Error(runErr))
	}
	return runErr
}
