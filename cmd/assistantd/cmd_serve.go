package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/agencykit/assistant/src/assistant"
	"github.com/agencykit/assistant/src/config"
	"github.com/agencykit/assistant/src/llmclient"
	"github.com/agencykit/assistant/src/server"
	"github.com/agencykit/assistant/src/storage"
)

// ServeCmd runs the HTTP API until interrupted.
type ServeCmd struct {
	Listen string `help:"Listen address" env:"ASSISTANT_LISTEN"`
	DBPath string `help:"Database path" env:"ASSISTANT_DB_PATH"`
}

func (cmd *ServeCmd) Run(cli *CLI) error {
	cfg := config.FromEnv()
	if cmd.Listen != "" {
		cfg.Listen = cmd.Listen
	}
	if cmd.DBPath != "" {
		cfg.DatabasePath = cmd.DBPath
	}
	if cli.APIKey != "" {
		cfg.Provider.APIKey = cli.APIKey
	}
	if cli.BaseURL != "" {
		cfg.Provider.BaseURL = cli.BaseURL
	}
	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
	}

	if err := config.NewValidator().Validate(&cfg); err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	client := llmclient.NewClient(llmclient.Config{
		BaseURL:    cfg.Provider.BaseURL,
		APIKey:     cfg.Provider.APIKey,
		Model:      cfg.Provider.Model,
		Timeout:    time.Duration(cfg.Provider.TimeoutSeconds) * time.Second,
		RetryCount: cfg.Provider.RetryCount,
		Logger:     logger,
	})

	gateway := assistant.NewGateway(client, assistant.GatewayOptions{
		Temperature: cfg.Provider.Temperature,
		MaxTokens:   cfg.Provider.MaxTokens,
	}, logger)

	svc := assistant.NewService(db, gateway, assistant.NewNotifier(), logger)
	dispatcher := assistant.NewDispatcher(svc, logger)

	srv := server.New(svc, dispatcher, server.Options{
		CORSOrigins: cfg.CORSOrigins,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting assistantd", "listen", cfg.Listen, "db", cfg.DatabasePath, "model", cfg.Provider.Model)
	return srv.Run(ctx, cfg.Listen)
}
