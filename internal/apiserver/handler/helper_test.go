package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/luminahq/lumina/internal/apiserver/cache"
	"github.com/luminahq/lumina/internal/apiserver/database"
	"github.com/luminahq/lumina/internal/auth/jwt"
	"github.com/luminahq/lumina/internal/common/cnst"
	"github.com/luminahq/lumina/internal/common/config"
	"github.com/luminahq/lumina/internal/core/rbac"
	"github.com/luminahq/lumina/internal/core/workflow"
)

// fakeDB is an in-memory database.Database for handler tests.
type fakeDB struct {
	mu            sync.Mutex
	tenants       map[string]*database.Tenant
	users         map[uint]*database.User
	audits        []*database.AuditLog
	notifications []*database.Notification
	nextUserID    uint
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		tenants: make(map[string]*database.Tenant),
		users:   make(map[uint]*database.User),
	}
}

func (f *fakeDB) Close() error { return nil }

func (f *fakeDB) CreateTenant(_ context.Context, t *database.Tenant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *t
	f.tenants[t.TenantID] = &cp
	return nil
}

func (f *fakeDB) GetTenantByID(_ context.Context, tenantID string) (*database.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tenants[tenantID]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeDB) GetTenantBySlug(_ context.Context, slug string) (*database.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tenants {
		if t.Slug == slug {
			cp := *t
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeDB) ListTenants(_ context.Context) ([]*database.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*database.Tenant, 0, len(f.tenants))
	for _, t := range f.tenants {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TenantID < out[j].TenantID })
	return out, nil
}

func (f *fakeDB) ListTenantsByIDs(_ context.Context, ids []string) ([]*database.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*database.Tenant, 0, len(ids))
	for _, id := range ids {
		if t, ok := f.tenants[id]; ok {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeDB) ListTenantsByStatus(_ context.Context, status string) ([]*database.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*database.Tenant
	for _, t := range f.tenants {
		if t.ApprovalStatus == status && !t.IsArchived {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TenantID < out[j].TenantID })
	return out, nil
}

func (f *fakeDB) UpdateTenant(_ context.Context, t *database.Tenant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tenants[t.TenantID]; !ok {
		return database.ErrNotFound
	}
	cp := *t
	f.tenants[t.TenantID] = &cp
	return nil
}

func (f *fakeDB) SetTenantArchived(_ context.Context, tenantID string, archived bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tenants[tenantID]
	if !ok {
		return database.ErrNotFound
	}
	t.IsArchived = archived
	return nil
}

func (f *fakeDB) DeleteTenant(_ context.Context, tenantID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tenants[tenantID]; !ok {
		return database.ErrNotFound
	}
	delete(f.tenants, tenantID)
	return nil
}

func (f *fakeDB) TenantExists(_ context.Context, tenantID string) (bool, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tenants[tenantID]
	if !ok {
		return false, false, nil
	}
	return true, t.IsArchived, nil
}

func (f *fakeDB) ApplyMutation(_ context.Context, m workflow.Mutation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tenants[m.TenantID]
	if !ok {
		return database.ErrNotFound
	}
	if t.Revision != m.ExpectedRevision {
		return workflow.ErrConcurrentModification
	}
	t.ApprovalStatus = string(m.Status)
	t.LastModifiedBy = m.ModifiedBy
	t.LastModifiedAt = m.ModifiedAt
	if m.SetPendingConfig {
		t.PendingConfig = string(m.PendingConfig)
	}
	if m.SetLiveConfig {
		t.LiveConfig = string(m.LiveConfig)
	}
	if m.ClearPending {
		t.PendingConfig = ""
	}
	t.Revision++
	return nil
}

func (f *fakeDB) CreateUser(_ context.Context, u *database.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextUserID++
	u.ID = f.nextUserID
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeDB) GetUserByEmail(_ context.Context, email string) (*database.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeDB) GetUserByID(_ context.Context, id uint) (*database.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeDB) ListUsers(_ context.Context) ([]*database.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*database.User, 0, len(f.users))
	for _, u := range f.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeDB) ListUsersByRole(_ context.Context, role string) ([]*database.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*database.User
	for _, u := range f.users {
		if u.Role == role && u.IsActive {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeDB) UpdateUser(_ context.Context, u *database.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return database.ErrNotFound
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeDB) DeleteUser(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return database.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeDB) AddAuditLog(_ context.Context, entry *database.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *entry
	f.audits = append(f.audits, &cp)
	return nil
}

func (f *fakeDB) ListAuditLogs(_ context.Context, limit int) ([]*database.AuditLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*database.AuditLog, 0, len(f.audits))
	for i := len(f.audits) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *f.audits[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeDB) CreateNotification(_ context.Context, n *database.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *n
	f.notifications = append(f.notifications, &cp)
	return nil
}

func (f *fakeDB) ListNotifications(_ context.Context, userID uint, limit int) ([]*database.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*database.Notification
	for i := len(f.notifications) - 1; i >= 0 && len(out) < limit; i-- {
		if f.notifications[i].UserID == userID {
			cp := *f.notifications[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeDB) MarkNotificationRead(_ context.Context, userID uint, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return database.ErrNotFound
}

func (f *fakeDB) DeleteNotification(_ context.Context, userID uint, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, n := range f.notifications {
		if n.ID == id && n.UserID == userID {
			f.notifications = append(f.notifications[:i], f.notifications[i+1:]...)
			return nil
		}
	}
	return database.ErrNotFound
}

func (f *fakeDB) auditActions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.audits))
	for _, e := range f.audits {
		out = append(out, e.Action)
	}
	return out
}

func mustNewJWTService(t *testing.T) *jwt.Service {
	t.Helper()
	svc, err := jwt.NewService(jwt.Config{
		SecretKey: "this-is-a-very-long-secret-key-for-testing",
		Duration:  time.Hour,
	})
	if err != nil {
		t.Fatalf("jwt service: %v", err)
	}
	return svc
}

func newTestHandler(t *testing.T, db database.Database) *Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return NewHandler(
		zap.NewNop(),
		db,
		mustNewJWTService(t),
		rbac.DefaultPolicy(),
		cache.NewMemoryCache(time.Minute),
		&config.APIServerConfig{},
	)
}

// seedUser stores a user with a bcrypt-hashed password and returns it.
func seedUser(t *testing.T, db *fakeDB, email, password, role string, assignments []string) *database.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &database.User{
		Email:    email,
		Password: string(hashed),
		Role:     role,
		IsActive: true,
	}
	u.SetAssignments(assignments)
	if err := db.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedTenant(db *fakeDB, tenantID, slug, status, live, pending string) *database.Tenant {
	tenant := &database.Tenant{
		TenantID:       tenantID,
		ClientName:     "Client " + tenantID,
		Slug:           slug,
		LiveConfig:     live,
		PendingConfig:  pending,
		ApprovalStatus: status,
	}
	_ = db.CreateTenant(context.Background(), tenant)
	return tenant
}

// asUser wraps a handler so it runs with the given user's claims set,
// the way the auth middleware would.
func asUser(u *database.User, fn gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(cnst.ContextClaims, &jwt.Claims{UserID: u.ID, Email: u.Email, Role: u.Role})
		fn(c)
	}
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}
