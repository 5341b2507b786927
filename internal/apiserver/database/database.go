package database

import (
	"context"
	"errors"

	"github.com/luminahq/lumina/internal/core/workflow"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// Database defines the persistence operations the apiserver needs.
type Database interface {
	// Close closes the database connection.
	Close() error

	// CreateTenant creates a new tenant.
	CreateTenant(ctx context.Context, tenant *Tenant) error

	// GetTenantByID fetches a tenant by its stable tenant id.
	GetTenantByID(ctx context.Context, tenantID string) (*Tenant, error)

	// GetTenantBySlug fetches a tenant by its public slug.
	GetTenantBySlug(ctx context.Context, slug string) (*Tenant, error)

	// ListTenants lists all tenants, archived included.
	ListTenants(ctx context.Context) ([]*Tenant, error)

	// ListTenantsByIDs lists tenants whose tenant id is in ids.
	ListTenantsByIDs(ctx context.Context, ids []string) ([]*Tenant, error)

	// ListTenantsByStatus lists non-archived tenants in the given approval status.
	ListTenantsByStatus(ctx context.Context, status string) ([]*Tenant, error)

	// UpdateTenant saves tenant fields outside workflow control.
	UpdateTenant(ctx context.Context, tenant *Tenant) error

	// SetTenantArchived toggles the soft-delete flag.
	SetTenantArchived(ctx context.Context, tenantID string, archived bool) error

	// DeleteTenant removes a tenant permanently.
	DeleteTenant(ctx context.Context, tenantID string) error

	// TenantExists reports existence and archived state for an id.
	TenantExists(ctx context.Context, tenantID string) (exists bool, archived bool, err error)

	// ApplyMutation applies a workflow mutation conditionally on its
	// expected revision. Returns workflow.ErrConcurrentModification if
	// the revision is stale and ErrNotFound if the tenant is gone.
	ApplyMutation(ctx context.Context, m workflow.Mutation) error

	// CreateUser creates a new user.
	CreateUser(ctx context.Context, user *User) error

	// GetUserByEmail fetches a user by email.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// GetUserByID fetches a user by id.
	GetUserByID(ctx context.Context, id uint) (*User, error)

	// ListUsers lists all users.
	ListUsers(ctx context.Context) ([]*User, error)

	// ListUsersByRole lists active users holding the given role.
	ListUsersByRole(ctx context.Context, role string) ([]*User, error)

	// UpdateUser saves user fields.
	UpdateUser(ctx context.Context, user *User) error

	// DeleteUser removes a user permanently.
	DeleteUser(ctx context.Context, id uint) error

	// AddAuditLog appends an audit entry.
	AddAuditLog(ctx context.Context, entry *AuditLog) error

	// ListAuditLogs returns the most recent audit entries.
	ListAuditLogs(ctx context.Context, limit int) ([]*AuditLog, error)

	// CreateNotification stores an in-app notification.
	CreateNotification(ctx context.Context, n *Notification) error

	// ListNotifications returns a user's most recent notifications.
	ListNotifications(ctx context.Context, userID uint, limit int) ([]*Notification, error)

	// MarkNotificationRead marks one of the user's notifications as read.
	MarkNotificationRead(ctx context.Context, userID uint, id string) error

	// DeleteNotification removes one of the user's notifications.
	DeleteNotification(ctx context.Context, userID uint, id string) error
}
