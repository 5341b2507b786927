package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"

	"github.com/luminahq/lumina/internal/common/config"
)

// NewSQLite creates a SQLite-backed Database
func NewSQLite(cfg *config.DatabaseConfig) (Database, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBName), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	return newStore(sqlite.Open(cfg.DBName))
}
