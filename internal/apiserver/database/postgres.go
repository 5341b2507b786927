package database

import (
	"gorm.io/driver/postgres"

	"github.com/luminahq/lumina/internal/common/config"
)

// NewPostgres creates a PostgreSQL-backed Database
func NewPostgres(cfg *config.DatabaseConfig) (Database, error) {
	return newStore(postgres.New(postgres.Config{
		DSN: cfg.GetDSN(),
		// Disables implicit prepared statement usage
		PreferSimpleProtocol: true,
	}))
}
