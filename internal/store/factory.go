package store

import (
	"fmt"
	"log/slog"
	"path/filepath"
)

const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config selects and parameterizes a backend.
type Config struct {
	Backend    string
	DataDir    string // csv backend
	SQLitePath string // sqlite backend
}

// CleanupFunc releases backend resources; may be nil.
type CleanupFunc func() error

// Open builds the configured backend and makes sure its tables exist.
func Open(cfg Config, logger *slog.Logger) (Store, CleanupFunc, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Backend {
	case BackendCSV, "":
		dir := cfg.DataDir
		if dir == "" {
			dir = "data"
		}
		fs := NewFileStore(dir)
		if err := fs.Ensure(); err != nil {
			return nil, nil, fmt.Errorf("ensure csv tables: %w", err)
		}
		logger.Info("Initialized csv store",
			"data_dir", dir,
			"users_file", filepath.Join(dir, "users.csv"),
			"transactions_file", filepath.Join(dir, "transactions.csv"))
		return fs, nil, nil

	case BackendSQLite:
		db, err := NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		logger.Info("Initialized sqlite store", "db_path", cfg.SQLitePath)
		return db, db.Close, nil

	case BackendMemory:
		logger.Info("Initialized memory store")
		return NewMemStore(), nil, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store backend: %s", cfg.Backend)
	}
}
