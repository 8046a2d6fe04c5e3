package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/agencykit/assistant/src/config"
	"github.com/agencykit/assistant/src/storage"
)

// MigrateCmd manages database migrations.
type MigrateCmd struct {
	Up     MigrateUpCmd     `cmd:"" help:"Apply pending migrations"`
	Status MigrateStatusCmd `cmd:"" help:"Show migration status"`
}

type MigrateUpCmd struct {
	DBPath string `help:"Database path" env:"ASSISTANT_DB_PATH"`
}

func (cmd *MigrateUpCmd) Run(cli *CLI) error {
	path := cmd.DBPath
	if path == "" {
		path = config.GetDefaultDatabasePath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open applies pending migrations.
	db, err := storage.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Printf("database %s is up to date\n", path)
	return nil
}

type MigrateStatusCmd struct {
	DBPath string `help:"Database path" env:"ASSISTANT_DB_PATH"`
}

func (cmd *MigrateStatusCmd) Run(cli *CLI) error {
	path := cmd.DBPath
	if path == "" {
		path = config.GetDefaultDatabasePath()
	}

	db, err := storage.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := db.AppliedMigrations()
	if err != nil {
		return err
	}

	fmt.Printf("database: %s\n", path)
	for _, m := range storage.Migrations() {
		state := "pending"
		for _, v := range applied {
			if v == m.Version {
				state = "applied"
				break
			}
		}
		fmt.Printf("  %03d  %s\n", m.Version, state)
	}
	return nil
}
