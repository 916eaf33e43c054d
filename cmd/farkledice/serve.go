package main

import (
	"fmt"
	"time"

	"github.com/mschmoyer/farkledice-sub000/cmd/farkledice/shared"
	"github.com/mschmoyer/farkledice-sub000/internal/game"
	"github.com/mschmoyer/farkledice-sub000/internal/server"
	"github.com/mschmoyer/farkledice-sub000/internal/store"
)

// ServeCmd runs the multiplayer WebSocket server
type ServeCmd struct {
	Config   string `short:"c" default:"farkledice.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" help:"Server address to bind to (overrides config)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	Database string `help:"SQLite database path (overrides config)"`
}

func (c *ServeCmd) Run() error {
	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	// Apply command line overrides
	if c.Addr != "" {
		cfg.Server.Address = c.Addr
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}
	if c.Database != "" {
		cfg.Server.Database = c.Database
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := shared.SetupLogger(cfg.Server.LogLevel)

	var st game.Store = store.NewMemory()
	if cfg.Server.Database != "" {
		db, err := store.NewSQLite(cfg.Server.Database)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		st = db
		logger.Info("Using SQLite store", "path", cfg.Server.Database)
	}

	pace := time.Duration(cfg.Server.BotPaceMs) * time.Millisecond
	manager := server.NewGameManager(logger, st, pace)
	if err := manager.ProvisionFromConfig(cfg); err != nil {
		return fmt.Errorf("failed to provision games: %w", err)
	}

	srv := server.NewServer(cfg.GetServerAddress(), logger, manager)

	logger.Info("Starting Farkle server",
		"addr", cfg.GetServerAddress(),
		"games", len(cfg.Games),
		"bots", len(cfg.Bots))

	ctx := shared.SetupSignalHandlerWithLogger(logger)
	go func() {
		<-ctx.Done()
		_ = srv.Stop()
	}()

	return srv.Start()
}
