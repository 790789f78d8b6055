// Package app wires configuration, logging, storage, the engine and the
// advisor together.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Ozsumit/csf-pwa/internal/advisor"
	"github.com/Ozsumit/csf-pwa/internal/config"
	"github.com/Ozsumit/csf-pwa/internal/engine"
	"github.com/Ozsumit/csf-pwa/internal/models"
	"github.com/Ozsumit/csf-pwa/internal/storage"
)

type App struct {
	Config  *config.Config
	Log     *slog.Logger
	Store   storage.Store
	Gateway *models.Gateway
	Engine  *engine.Engine
	Advisor advisor.Strategy

	closers []func() error
}

// Open loads the saved game and builds an engine around it. Extra engine
// options (a notifier, a fake clock) are applied last.
func Open(ctx context.Context, cfg *config.Config, opts ...engine.Option) (*App, error) {
	a := &App{Config: cfg}

	logger, err := a.openLog()
	if err != nil {
		return nil, err
	}
	a.Log = logger

	store, err := OpenStore(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Store = store
	a.closers = append(a.closers, store.Close)

	a.Gateway = models.NewGateway(store, logger.With("component", "persistence"))
	state := a.Gateway.Load(ctx)
	effects := a.Gateway.LoadEffects(ctx)

	a.Advisor = advisor.Greedy{}
	if cfg.AdvisorEnabled() {
		g, err := advisor.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn("gemini advisor unavailable, using greedy advisor", "err", err)
		} else {
			a.Advisor = g
			a.closers = append(a.closers, g.Close)
		}
	}

	base := []engine.Option{
		engine.WithEffects(effects),
		engine.WithPersister(a.Gateway),
		engine.WithLogger(logger.With("component", "engine")),
	}
	a.Engine = engine.New(state, append(base, opts...)...)

	logger.Info("game loaded", "store", cfg.Store, "currency", state.Currency, "achievements", state.UnlockedCount())
	return a, nil
}

// OpenStore opens the save store named by cfg.
func OpenStore(cfg *config.Config) (storage.Store, error) {
	path := cfg.SaveDir
	if cfg.Store == string(storage.KindSQLite) {
		path = cfg.SQLitePath
	}
	store, err := storage.Open(storage.Kind(cfg.Store), path)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store, err)
	}
	return store, nil
}

func (a *App) openLog() (*slog.Logger, error) {
	level, err := a.Config.Level()
	if err != nil {
		return nil, err
	}
	if a.Config.LogFile == "" {
		return slog.Default(), nil
	}
	f, err := tea.LogToFile(a.Config.LogFile, "clicker")
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	a.closers = append(a.closers, f.Close)
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), nil
}

// Close saves one last time and releases everything Open acquired.
func (a *App) Close() error {
	var errs []error
	if a.Engine != nil {
		if err := a.Engine.Save(context.Background()); err != nil {
			errs = append(errs, err)
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
