package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/luminahq/lumina/internal/apiserver/database"
)

// Notifier delivers in-app notifications. All sends are best effort.
type Notifier struct {
	logger *zap.Logger
	db     database.Database
}

// NewNotifier creates a notification sink.
func NewNotifier(logger *zap.Logger, db database.Database) *Notifier {
	return &Notifier{logger: logger.Named("notifications"), db: db}
}

// NotifyRole sends a notification to every active user holding the role.
func (n *Notifier) NotifyRole(ctx context.Context, role, title, message, link string) {
	users, err := n.db.ListUsersByRole(ctx, role)
	if err != nil {
		n.logger.Error("failed to resolve notification recipients",
			zap.String("role", role),
			zap.Error(err))
		return
	}
	for _, user := range users {
		n.send(ctx, user.ID, title, message, link, "warning")
	}
}

// NotifyEmail sends a notification to the user with the given email.
// Unknown addresses are ignored.
func (n *Notifier) NotifyEmail(ctx context.Context, email, title, message, link string) {
	user, err := n.db.GetUserByEmail(ctx, email)
	if err != nil {
		n.logger.Warn("notification recipient not found",
			zap.String("email", email),
			zap.Error(err))
		return
	}
	n.send(ctx, user.ID, title, message, link, "success")
}

func (n *Notifier) send(ctx context.Context, userID uint, title, message, link, typ string) {
	if link == "" {
		link = "#"
	}
	notification := &database.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Link:      link,
		Type:      typ,
		CreatedAt: time.Now(),
	}
	if err := n.db.CreateNotification(ctx, notification); err != nil {
		n.logger.Error("failed to send in-app notification",
			zap.Uint("user_id", userID),
			zap.Error(err))
	}
}
