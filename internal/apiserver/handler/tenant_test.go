package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminahq/lumina/internal/apiserver/database"
	"github.com/luminahq/lumina/internal/common/dto"
	"github.com/luminahq/lumina/internal/core/workflow"
)

func tenantRouter(h *Handler, u *database.User) *gin.Engine {
	r := gin.New()
	r.GET("/my-tenants", asUser(u, h.ListMyTenants))
	r.GET("/tenants", asUser(u, h.ListTenants))
	r.GET("/tenants/:tenantID", asUser(u, h.GetTenant))
	r.POST("/tenants", asUser(u, h.CreateTenant))
	r.PUT("/tenants/:tenantID", asUser(u, h.UpdateTenant))
	r.POST("/tenants/:tenantID/archive", asUser(u, h.ArchiveTenant))
	r.POST("/tenants/:tenantID/unarchive", asUser(u, h.UnarchiveTenant))
	r.DELETE("/tenants/:tenantID", asUser(u, h.DeleteTenant))
	return r
}

func TestCreateTenant(t *testing.T) {
	db := newFakeDB()
	h := newTestHandler(t, db)
	super := seedUser(t, db, "s@ex.com", "pw12345678", "super_admin", nil)
	contributor := seedUser(t, db, "c@ex.com", "pw12345678", "contributor", nil)

	r := tenantRouter(h, super)

	t.Run("success", func(t *testing.T) {
		w := doJSON(r, "POST", "/tenants", dto.CreateTenantRequest{
			TenantID: "t1", ClientName: "Acme", Slug: "acme",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		tenant, err := db.GetTenantByID(context.Background(), "t1")
		require.NoError(t, err)
		assert.Equal(t, string(workflow.StatusPublished), tenant.ApprovalStatus)
		assert.Equal(t, "s@ex.com", tenant.LastModifiedBy)
	})

	t.Run("duplicate tenant id", func(t *testing.T) {
		w := doJSON(r, "POST", "/tenants", dto.CreateTenantRequest{
			TenantID: "t1", ClientName: "Other", Slug: "other",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("duplicate slug", func(t *testing.T) {
		w := doJSON(r, "POST", "/tenants", dto.CreateTenantRequest{
			TenantID: "t2", ClientName: "Other", Slug: "acme",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		w := doJSON(r, "POST", "/tenants", dto.CreateTenantRequest{TenantID: "t3"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("non-manager denied", func(t *testing.T) {
		rc := tenantRouter(h, contributor)
		w := doJSON(rc, "POST", "/tenants", dto.CreateTenantRequest{
			TenantID: "t4", ClientName: "Nope", Slug: "nope",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestListMyTenants_FiltersAssignments(t *testing.T) {
	db := newFakeDB()
	h := newTestHandler(t, db)
	seedTenant(db, "t1", "acme", string(workflow.StatusPublished), `{}`, "")
	archived := seedTenant(db, "t2", "gone", string(workflow.StatusPublished), `{}`, "")
	archived.IsArchived = true
	db.tenants["t2"].IsArchived = true

	// assignment list references an archived tenant and a deleted one
	contributor := seedUser(t, db, "c@ex.com", "pw12345678", "contributor", []string{"t1", "t2", "ghost"})
	super := seedUser(t, db, "s@ex.com", "pw12345678", "super_admin", nil)

	t.Run("contributor sees only live assigned tenants", func(t *testing.T) {
		r := tenantRouter(h, contributor)
		w := doJSON(r, "GET", "/my-tenants", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var got []*database.Tenant
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "t1", got[0].TenantID)
	})

	t.Run("super admin sees everything", func(t *testing.T) {
		r := tenantRouter(h, super)
		w := doJSON(r, "GET", "/my-tenants", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var got []*database.Tenant
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Len(t, got, 2)
	})
}

func TestGetTenant_AccessGuard(t *testing.T) {
	db := newFakeDB()
	h := newTestHandler(t, db)
	seedTenant(db, "t1", "acme", string(workflow.StatusPublished), `{}`, "")
	assigned := seedUser(t, db, "a@ex.com", "pw12345678", "super_user", []string{"t1"})
	outsider := seedUser(t, db, "o@ex.com", "pw12345678", "super_user", nil)

	w := doJSON(tenantRouter(h, assigned), "GET", "/tenants/t1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(tenantRouter(h, outsider), "GET", "/tenants/t1", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateTenant_SlugConflict(t *testing.T) {
	db := newFakeDB()
	h := newTestHandler(t, db)
	seedTenant(db, "t1", "acme", string(workflow.StatusDraft), "", "")
	seedTenant(db, "t2", "beta", string(workflow.StatusDraft), "", "")
	super := seedUser(t, db, "s@ex.com", "pw12345678", "super_admin", nil)

	r := tenantRouter(h, super)

	w := doJSON(r, "PUT", "/tenants/t1", dto.UpdateTenantRequest{Slug: "beta"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, "PUT", "/tenants/t1", dto.UpdateTenantRequest{Slug: "gamma", ClientName: "Gamma"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	tenant, _ := db.GetTenantByID(context.Background(), "t1")
	assert.Equal(t, "gamma", tenant.Slug)
	assert.Equal(t, "Gamma", tenant.ClientName)
}

func TestArchiveTenant_Lifecycle(t *testing.T) {
	db := newFakeDB()
	h := newTestHandler(t, db)
	seedTenant(db, "t1", "acme", string(workflow.StatusPublished), `{"v":1}`, "")
	super := seedUser(t, db, "s@ex.com", "pw12345678", "super_admin", nil)
	r := tenantRouter(h, super)

	w := doJSON(r, "POST", "/tenants/t1/archive", nil)
	require.Equal(t, http.StatusOK, w.Code)

	tenant, _ := db.GetTenantByID(context.Background(), "t1")
	assert.True(t, tenant.IsArchived)

	w = doJSON(r, "POST", "/tenants/t1/unarchive", nil)
	require.Equal(t, http.StatusOK, w.Code)

	tenant, _ = db.GetTenantByID(context.Background(), "t1")
	assert.False(t, tenant.IsArchived)

	actions := db.auditActions()
	assert.Contains(t, actions, "archive_tenant")
	assert.Contains(t, actions, "unarchive_tenant")
}

func TestDeleteTenant(t *testing.T) {
	db := newFakeDB()
	h := newTestHandler(t, db)
	seedTenant(db, "t1", "acme", string(workflow.StatusPublished), `{"v":1}`, "")
	super := seedUser(t, db, "s@ex.com", "pw12345678", "super_admin", nil)
	r := tenantRouter(h, super)

	w := doJSON(r, "DELETE", "/tenants/t1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, err := db.GetTenantByID(context.Background(), "t1")
	assert.ErrorIs(t, err, database.ErrNotFound)

	w = doJSON(r, "DELETE", "/tenants/t1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
