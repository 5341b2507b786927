package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/luminahq/lumina/internal/core/workflow"
)

// store implements Database on top of a gorm connection. The driver
// files only differ in how they open that connection.
type store struct {
	db *gorm.DB
}

func newStore(dialector gorm.Dialector) (Database, error) {
	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := gormDB.AutoMigrate(&Tenant{}, &User{}, &AuditLog{}, &Notification{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &store{db: gormDB}, nil
}

func (s *store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *store) CreateTenant(ctx context.Context, tenant *Tenant) error {
	return s.db.WithContext(ctx).Create(tenant).Error
}

func (s *store) GetTenantByID(ctx context.Context, tenantID string) (*Tenant, error) {
	var tenant Tenant
	err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (s *store) GetTenantBySlug(ctx context.Context, slug string) (*Tenant, error) {
	var tenant Tenant
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (s *store) ListTenants(ctx context.Context) ([]*Tenant, error) {
	var tenants []*Tenant
	err := s.db.WithContext(ctx).Order("client_name asc").Find(&tenants).Error
	return tenants, err
}

func (s *store) ListTenantsByIDs(ctx context.Context, ids []string) ([]*Tenant, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tenants []*Tenant
	err := s.db.WithContext(ctx).
		Where("tenant_id IN ?", ids).
		Order("client_name asc").
		Find(&tenants).Error
	return tenants, err
}

func (s *store) ListTenantsByStatus(ctx context.Context, status string) ([]*Tenant, error) {
	var tenants []*Tenant
	err := s.db.WithContext(ctx).
		Where("approval_status = ? AND is_archived = ?", status, false).
		Order("last_modified_at desc").
		Find(&tenants).Error
	return tenants, err
}

func (s *store) UpdateTenant(ctx context.Context, tenant *Tenant) error {
	return s.db.WithContext(ctx).Save(tenant).Error
}

func (s *store) SetTenantArchived(ctx context.Context, tenantID string, archived bool) error {
	res := s.db.WithContext(ctx).
		Model(&Tenant{}).
		Where("tenant_id = ?", tenantID).
		Updates(map[string]any{"is_archived": archived, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *store) DeleteTenant(ctx context.Context, tenantID string) error {
	res := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Delete(&Tenant{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *store) TenantExists(ctx context.Context, tenantID string) (bool, bool, error) {
	var tenant Tenant
	err := s.db.WithContext(ctx).
		Select("is_archived").
		Where("tenant_id = ?", tenantID).
		First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return true, tenant.IsArchived, nil
}

// ApplyMutation performs the conditional partial update a workflow
// decision produced. The WHERE clause on the revision column makes the
// read-decide-write sequence atomic: a concurrent writer bumps the
// revision and this update matches zero rows.
func (s *store) ApplyMutation(ctx context.Context, m workflow.Mutation) error {
	updates := map[string]any{
		"approval_status":  string(m.Status),
		"last_modified_by": m.ModifiedBy,
		"last_modified_at": m.ModifiedAt,
		"updated_at":       m.ModifiedAt,
		"revision":         gorm.Expr("revision + 1"),
	}
	if m.SetPendingConfig {
		updates["pending_config"] = string(m.PendingConfig)
	}
	if m.ClearPending {
		updates["pending_config"] = ""
	}
	if m.SetLiveConfig {
		updates["live_config"] = string(m.LiveConfig)
	}

	res := s.db.WithContext(ctx).
		Model(&Tenant{}).
		Where("tenant_id = ? AND revision = ?", m.TenantID, m.ExpectedRevision).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		exists, _, err := s.TenantExists(ctx, m.TenantID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return workflow.ErrConcurrentModification
	}
	return nil
}

func (s *store) CreateUser(ctx context.Context, user *User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *store) GetUserByID(ctx context.Context, id uint) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *store) ListUsers(ctx context.Context) ([]*User, error) {
	var users []*User
	err := s.db.WithContext(ctx).Order("email asc").Find(&users).Error
	return users, err
}

func (s *store) ListUsersByRole(ctx context.Context, role string) ([]*User, error) {
	var users []*User
	err := s.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", role, true).
		Find(&users).Error
	return users, err
}

func (s *store) UpdateUser(ctx context.Context, user *User) error {
	return s.db.WithContext(ctx).Save(user).Error
}

func (s *store) DeleteUser(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *store) AddAuditLog(ctx context.Context, entry *AuditLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *store) ListAuditLogs(ctx context.Context, limit int) ([]*AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}
	var entries []*AuditLog
	err := s.db.WithContext(ctx).
		Order("timestamp desc").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (s *store) CreateNotification(ctx context.Context, n *Notification) error {
	return s.db.WithContext(ctx).Create(n).Error
}

func (s *store) ListNotifications(ctx context.Context, userID uint, limit int) ([]*Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	var notifications []*Notification
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (s *store) MarkNotificationRead(ctx context.Context, userID uint, id string) error {
	res := s.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *store) DeleteNotification(ctx context.Context, userID uint, id string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
