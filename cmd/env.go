package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/pixengine/internal/config"
	"github.com/abhisek/pixengine/internal/logger"
	"github.com/abhisek/pixengine/internal/selector"
	"github.com/abhisek/pixengine/internal/session"
	"github.com/abhisek/pixengine/internal/store"
)

// env is what a command needs to run against the database.
type env struct {
	cfg   config.Config
	log   *logger.Logger
	store *store.Store
}

// loadConfig reads --config and applies the --db and --log-mode overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.Store.Path = p
	}
	if m, _ := cmd.Flags().GetString("log-mode"); m != "" {
		cfg.Log.Mode = m
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db or the config (highest
// priority), then the default XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.Store.Path != "" {
		return cfg.Store.Path, store.EnsureDir(cfg.Store.Path)
	}
	return store.DefaultDBPath()
}

func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Debug("store opened", "path", dbPath)

	return &env{cfg: cfg, log: log, store: st}, nil
}

func (e *env) Close() {
	e.store.Close()
	e.log.Sync()
}

// service builds a session service with the configured strategy.
func (e *env) service() (*session.Service, error) {
	return e.serviceWith(e.cfg.Strategy())
}

// serviceFor builds a session service using the method the assessment was
// started with.
func (e *env) serviceFor(ctx context.Context, assessmentID string) (*session.Service, error) {
	a, err := e.store.AssessmentRepo().Get(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	sc := e.cfg.Strategy()
	sc.Method = selector.Method(a.Method)
	return e.serviceWith(sc)
}

func (e *env) serviceWith(sc selector.Config) (*session.Service, error) {
	strategy, err := selector.New(sc)
	if err != nil {
		return nil, err
	}
	return session.NewService(
		e.store.BankRepo(),
		e.store.AssessmentRepo(),
		e.store.ResultRepo(),
		strategy,
		e.log.With("method", string(sc.Method)),
	), nil
}
