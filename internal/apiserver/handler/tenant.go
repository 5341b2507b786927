package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/luminahq/lumina/internal/apiserver/database"
	"github.com/luminahq/lumina/internal/common/cnst"
	"github.com/luminahq/lumina/internal/common/dto"
	"github.com/luminahq/lumina/internal/core/access"
	"github.com/luminahq/lumina/internal/core/workflow"
	"github.com/luminahq/lumina/internal/i18n"
)

// ListMyTenants returns the tenants the actor may work on. Super-tier
// actors see everything; everyone else gets their assignment list
// filtered against existing, non-archived tenants.
func (h *Handler) ListMyTenants(c *gin.Context) {
	user, role, ok := h.actor(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if h.canManage(role) {
		tenants, err := h.db.ListTenants(ctx)
		if err != nil {
			i18n.RespondWithError(c, i18n.ErrInternalServer)
			return
		}
		c.JSON(http.StatusOK, tenants)
		return
	}

	accepted, _ := access.FilterExisting(user.Assignments(), h.tenantLookup(ctx))
	if len(accepted) == 0 {
		c.JSON(http.StatusOK, []*database.Tenant{})
		return
	}

	tenants, err := h.db.ListTenantsByIDs(ctx, accepted)
	if err != nil {
		i18n.RespondWithError(c, i18n.ErrInternalServer)
		return
	}
	c.JSON(http.StatusOK, tenants)
}

// ListTenants handles listing all tenants, archived included
func (h *Handler) ListTenants(c *gin.Context) {
	_, role, ok := h.actor(c)
	if !ok {
		return
	}
	if !h.canManage(role) {
		i18n.RespondWithError(c, i18n.ErrorPermissionDenied)
		return
	}

	tenants, err := h.db.ListTenants(c.Request.Context())
	if err != nil {
		i18n.RespondWithError(c, i18n.ErrInternalServer)
		return
	}
	c.JSON(http.StatusOK, tenants)
}

// GetTenant returns a single tenant the actor may work on
func (h *Handler) GetTenant(c *gin.Context) {
	user, role, ok := h.actor(c)
	if !ok {
		return
	}
	tenantID := c.Param("tenantID")

	if !h.guard.CanAccess(role, user.Assignments(), tenantID, h.tenantLookup(c.Request.Context())) {
		i18n.RespondWithError(c, i18n.ErrorPermissionDenied)
		return
	}

	tenant, err := h.db.GetTenantByID(c.Request.Context(), tenantID)
	if err != nil {
		i18n.RespondWithError(c, i18n.ErrorTenantNotFound)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

// CreateTenant handles tenant creation
func (h *Handler) CreateTenant(c *gin.Context) {
	user, role, ok := h.actor(c)
	if !ok {
		return
	}
	if !h.canManage(role) {
		i18n.RespondWithError(c, i18n.ErrorPermissionDenied)
		return
	}

	var req dto.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		i18n.RespondWithError(c, i18n.ErrorTenantRequiredFields)
		return
	}

	req.TenantID = strings.TrimSpace(req.TenantID)
	req.Slug = strings.TrimSpace(req.Slug)
	if req.TenantID == "" || req.Slug == "" || strings.TrimSpace(req.ClientName) == "" {
		i18n.RespondWithError(c, i18n.ErrorTenantRequiredFields)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.db.GetTenantByID(ctx, req.TenantID); err == nil {
		i18n.RespondWithError(c, i18n.ErrorTenantIDExists)
		return
	}
	if _, err := h.db.GetTenantBySlug(ctx, req.Slug); err == nil {
		i18n.RespondWithError(c, i18n.ErrorTenantSlugExists)
		return
	}

	// onboarding publishes the initial config immediately; the review
	// pipeline only governs subsequent edits
	now := time.Now()
	tenant := &database.Tenant{
		TenantID:       req.TenantID,
		ClientName:     strings.TrimSpace(req.ClientName),
		Slug:           req.Slug,
		LiveConfig:     string(req.LiveConfig),
		ApprovalStatus: string(workflow.StatusPublished),
		LastModifiedBy: user.Email,
		LastModifiedAt: now,
	}
	if err := h.db.CreateTenant(ctx, tenant); err != nil {
		i18n.RespondWithError(c, i18n.ErrInternalServer)
		return
	}

	h.audit.Record(ctx, user.Email, user.Role, cnst.AuditCreateTenant,
		tenant.TenantID, "created tenant "+tenant.ClientName)

	i18n.Created(i18n.SuccessTenantCreated).WithPayload(tenant).Send(c)
}

// UpdateTenant handles tenant metadata updates
func (h *Handler) UpdateTenant(c *gin.Context) {
	user, role, ok := h.actor(c)
	if !ok {
		return
	}
	if !h.canManage(role) {
		i18n.RespondWithError(c, i18n.ErrorPermissionDenied)
		return
	}

	var req dto.UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}

	ctx := c.Request.Context()
	tenant, err := h.db.GetTenantByID(ctx, c.Param("tenantID"))
	if err != nil {
		i18n.RespondWithError(c, i18n.ErrorTenantNotFound)
		return
	}

	oldSlug := tenant.Slug
	if slug := strings.TrimSpace(req.Slug); slug != "" && slug != tenant.Slug {
		if other, err := h.db.GetTenantBySlug(ctx, slug); err == nil && other.TenantID != tenant.TenantID {
			i18n.RespondWithError(c, i18n.ErrorTenantSlugExists)
			return
		}
		tenant.Slug = slug
	}
	if name := strings.TrimSpace(req.ClientName); name != "" {
		tenant.ClientName = name
	}

	if err := h.db.UpdateTenant(ctx, tenant); err != nil {
		i18n.RespondWithError(c, i18n.ErrInternalServer)
		return
	}

	h.invalidateWidget(ctx, oldSlug)
	if tenant.Slug != oldSlug {
		h.invalidateWidget(ctx, tenant.Slug)
	}

	h.audit.Record(ctx, user.Email, user.Role, cnst.AuditUpdateTenant,
		tenant.TenantID, "updated tenant metadata")

	i18n.Success(i18n.SuccessTenantUpdated).WithPayload(tenant).Send(c)
}

// ArchiveTenant soft-deletes a tenant
func (h *Handler) ArchiveTenant(c *gin.Context) {
	h.setArchived(c, true)
}

// UnarchiveTenant restores an archived tenant
func (h *Handler) UnarchiveTenant(c *gin.Context) {
	h.setArchived(c, false)
}

func (h *Handler) setArchived(c *gin.Context, archived bool) {
	user, role, ok := h.actor(c)
	if !ok {
		return
	}
	if !h.canManage(role) {
		i18n.RespondWithError(c, i18n.ErrorPermissionDenied)
		return
	}

	ctx := c.Request.Context()
	tenant, err := h.db.GetTenantByID(ctx, c.Param("tenantID"))
	if err != nil {
		i18n.RespondWithError(c, i18n.ErrorTenantNotFound)
		return
	}

	if err := h.db.SetTenantArchived(ctx, tenant.TenantID, archived); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			i18n.RespondWithError(c, i18n.ErrorTenantNotFound)
			return
		}
		i18n.RespondWithError(c, i18n.ErrInternalServer)
		return
	}

	h.invalidateWidget(ctx, tenant.Slug)

	action, msgID := cnst.AuditArchiveTenant, i18n.SuccessTenantArchived
	if !archived {
		action, msgID = cnst.AuditUnarchiveTenant, i18n.SuccessTenantUnarchived
	}
	h.audit.Record(ctx, user.Email, user.Role, action, tenant.TenantID, "")

	i18n.Success(msgID).With("tenant_id", tenant.TenantID).Send(c)
}

// DeleteTenant removes a tenant permanently. Assignment lists pointing
// at it become dangling references and are filtered out on read.
func (h *Handler) DeleteTenant(c *gin.Context) {
	user, role, ok := h.actor(c)
	if !ok {
		return
	}
	if !h.canManage(role) {
		i18n.RespondWithError(c, i18n.ErrorPermissionDenied)
		return
	}

	ctx := c.Request.Context()
	tenant, err := h.db.GetTenantByID(ctx, c.Param("tenantID"))
	if err != nil {
		i18n.RespondWithError(c, i18n.ErrorTenantNotFound)
		return
	}

	if err := h.db.DeleteTenant(ctx, tenant.TenantID); err != nil {
		i18n.RespondWithError(c, i18n.ErrInternalServer)
		return
	}

	h.invalidateWidget(ctx, tenant.Slug)
	h.audit.Record(ctx, user.Email, user.Role, cnst.AuditDeleteTenant,
		tenant.TenantID, "deleted tenant "+tenant.ClientName)

	i18n.Success(i18n.SuccessTenantDeleted).With("tenant_id", tenant.TenantID).Send(c)
}

func (h *Handler) invalidateWidget(ctx context.Context, slug string) {
	if err := h.cache.Delete(ctx, slug); err != nil {
		h.logger.Warn("failed to invalidate widget cache",
			zap.String("slug", slug),
			zap.Error(err))
	}
}
