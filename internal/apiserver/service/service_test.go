package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/luminahq/lumina/internal/apiserver/database"
	"github.com/luminahq/lumina/internal/common/cnst"
	"github.com/luminahq/lumina/internal/common/config"
)

func newServiceDB(t *testing.T) database.Database {
	t.Helper()
	db, err := database.NewSQLite(&config.DatabaseConfig{Type: "sqlite", DBName: t.TempDir() + "/test.db"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestAuditRecord(t *testing.T) {
	db := newServiceDB(t)
	ctx := context.Background()

	audit := NewAudit(zap.NewNop(), db)
	audit.Record(ctx, "root@lumina.dev", "super_admin", cnst.AuditPublishLive, "t1", "published pending config")

	entries, err := db.ListAuditLogs(ctx, 10)
	assert.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "publish_live", entries[0].Action)
	assert.Equal(t, "t1", entries[0].TargetID)
	assert.NotEmpty(t, entries[0].ID)
}

func TestNotifyRoleFansOutToActiveHolders(t *testing.T) {
	db := newServiceDB(t)
	ctx := context.Background()

	for _, u := range []*database.User{
		{Email: "a@lumina.dev", Password: "x", Role: "super_admin", IsActive: true},
		{Email: "b@lumina.dev", Password: "x", Role: "super_admin", IsActive: true},
		{Email: "c@lumina.dev", Password: "x", Role: "super_admin", IsActive: false},
		{Email: "d@lumina.dev", Password: "x", Role: "admin", IsActive: true},
	} {
		require.NoError(t, db.CreateUser(ctx, u))
	}

	notifier := NewNotifier(zap.NewNop(), db)
	notifier.NotifyRole(ctx, "super_admin", "Approval needed", "Acme submitted changes", "/dashboard")

	a, _ := db.GetUserByEmail(ctx, "a@lumina.dev")
	b, _ := db.GetUserByEmail(ctx, "b@lumina.dev")
	c, _ := db.GetUserByEmail(ctx, "c@lumina.dev")

	forA, _ := db.ListNotifications(ctx, a.ID, 0)
	forB, _ := db.ListNotifications(ctx, b.ID, 0)
	forC, _ := db.ListNotifications(ctx, c.ID, 0)
	assert.Len(t, forA, 1)
	assert.Len(t, forB, 1)
	assert.Empty(t, forC)
	assert.Equal(t, "warning", forA[0].Type)
}

func TestNotifyEmail(t *testing.T) {
	db := newServiceDB(t)
	ctx := context.Background()

	user := &database.User{Email: "editor@lumina.dev", Password: "x", Role: "contributor", IsActive: true}
	require.NoError(t, db.CreateUser(ctx, user))

	notifier := NewNotifier(zap.NewNop(), db)
	notifier.NotifyEmail(ctx, "editor@lumina.dev", "Published", "Your changes are live", "")

	list, _ := db.ListNotifications(ctx, user.ID, 0)
	require.Len(t, list, 1)
	assert.Equal(t, "#", list[0].Link)
	assert.Equal(t, "success", list[0].Type)

	// unknown recipient is a silent no-op
	notifier.NotifyEmail(ctx, "ghost@lumina.dev", "t", "m", "")
}
