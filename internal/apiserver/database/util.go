package database

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/luminahq/lumina/internal/common/config"
	"github.com/luminahq/lumina/internal/core/rbac"
)

// InitSuperAdmin seeds the configured super admin account if it does
// not exist yet. Safe to run on every startup.
func InitSuperAdmin(ctx context.Context, db Database, cfg *config.SuperAdminConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		return nil
	}

	_, err := db.GetUserByEmail(ctx, cfg.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now()
	admin := &User{
		Email:     cfg.Email,
		Password:  string(hashed),
		Role:      string(rbac.RoleSuperAdmin),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	admin.SetAssignments(nil)
	return db.CreateUser(ctx, admin)
}
