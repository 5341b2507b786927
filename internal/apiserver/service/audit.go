// Package service holds the fire-and-forget side channels invoked
// around workflow mutations: the audit trail and in-app notifications.
// Their failures are logged and swallowed; they never fail the
// operation that triggered them.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/luminahq/lumina/internal/apiserver/database"
	"github.com/luminahq/lumina/internal/common/cnst"
)

// Audit appends entries to the audit trail.
type Audit struct {
	logger *zap.Logger
	db     database.Database
}

// NewAudit creates an audit sink.
func NewAudit(logger *zap.Logger, db database.Database) *Audit {
	return &Audit{logger: logger.Named("audit"), db: db}
}

// Record writes one audit entry. Best effort: a storage failure is
// logged, never propagated.
func (a *Audit) Record(ctx context.Context, actorEmail, actorRole string, action cnst.AuditAction, targetID, details string) {
	entry := &database.AuditLog{
		ID:         uuid.NewString(),
		Timestamp:  time.Now(),
		ActorEmail: actorEmail,
		ActorRole:  actorRole,
		Action:     string(action),
		TargetID:   targetID,
		Details:    details,
	}
	if err := a.db.AddAuditLog(ctx, entry); err != nil {
		a.logger.Error("failed to write audit log",
			zap.String("action", string(action)),
			zap.String("target", targetID),
			zap.Error(err))
	}
}
