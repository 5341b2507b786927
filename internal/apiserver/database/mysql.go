package database

import (
	"gorm.io/driver/mysql"

	"github.com/luminahq/lumina/internal/common/config"
)

// NewMySQL creates a MySQL-backed Database
func NewMySQL(cfg *config.DatabaseConfig) (Database, error) {
	return newStore(mysql.Open(cfg.GetDSN()))
}
