package database

import (
	"encoding/json"
	"time"
)

// Tenant is a client account owning one live and at most one pending
// chatbot configuration. TenantID is stable and never reused; Slug is
// the public routing handle. Config blobs are opaque JSON stored as
// text. Revision backs the optimistic concurrency check on workflow
// mutations.
type Tenant struct {
	ID             uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	TenantID       string    `json:"tenant_id" gorm:"type:varchar(64);uniqueIndex;not null"`
	ClientName     string    `json:"client_name" gorm:"type:varchar(255);not null"`
	Slug           string    `json:"slug" gorm:"type:varchar(100);uniqueIndex;not null"`
	LiveConfig     string    `json:"live_config,omitempty" gorm:"type:text"`
	PendingConfig  string    `json:"pending_config,omitempty" gorm:"type:text"`
	ApprovalStatus string    `json:"approval_status" gorm:"type:varchar(50);not null;default:'draft';index"`
	LastModifiedBy string    `json:"last_modified_by" gorm:"type:varchar(255)"`
	LastModifiedAt time.Time `json:"last_modified_at"`
	IsArchived     bool      `json:"is_archived" gorm:"not null;default:false"`
	Revision       int64     `json:"-" gorm:"not null;default:0"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// User is a platform account. AssignedTenants holds the weak
// user-tenant relation as a JSON array of tenant ids; it may reference
// archived or deleted tenants and is filtered at read time by the
// access guard.
type User struct {
	ID              uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Email           string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Password        string    `json:"-" gorm:"not null"`
	Role            string    `json:"role" gorm:"type:varchar(50);not null"`
	AssignedTenants string    `json:"-" gorm:"type:text"`
	IsActive        bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Assignments decodes the stored assignment list. A corrupt or empty
// column yields an empty list, never an error; normalization happens
// in the access guard.
func (u *User) Assignments() []string {
	if u.AssignedTenants == "" {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(u.AssignedTenants), &ids); err != nil {
		return nil
	}
	return ids
}

// SetAssignments encodes the assignment list for storage.
func (u *User) SetAssignments(ids []string) {
	if ids == nil {
		ids = []string{}
	}
	raw, _ := json.Marshal(ids)
	u.AssignedTenants = string(raw)
}

// AuditLog is one entry in the append-only audit trail.
type AuditLog struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Timestamp  time.Time `json:"timestamp" gorm:"index"`
	ActorEmail string    `json:"actor_email" gorm:"type:varchar(255);index"`
	ActorRole  string    `json:"actor_role" gorm:"type:varchar(50)"`
	Action     string    `json:"action" gorm:"type:varchar(100);index"`
	TargetID   string    `json:"target_id" gorm:"type:varchar(64);index"`
	Details    string    `json:"details" gorm:"type:text"`
}

// Notification is an in-app notification addressed to one user.
type Notification struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    uint      `json:"-" gorm:"index;not null"`
	Title     string    `json:"title" gorm:"type:varchar(255)"`
	Message   string    `json:"message" gorm:"type:text"`
	Link      string    `json:"link" gorm:"type:varchar(255)"`
	Type      string    `json:"type" gorm:"type:varchar(20)"` // info, success, warning, error
	IsRead    bool      `json:"is_read" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"timestamp"`
}
