package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/luminahq/lumina/internal/core/rbac"
	"github.com/luminahq/lumina/internal/i18n"
)

// GetWidgetConfig serves the public chatbot configuration for a slug.
// The default path serves the live config only, backed by the widget
// cache. With ?preview=true and a valid token the pending config is
// served instead, never cached, so editors can see their draft before
// it is published.
func (h *Handler) GetWidgetConfig(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		i18n.RespondWithError(c, i18n.ErrorTenantNotFound)
		return
	}

	if c.Query("preview") == "true" {
		h.previewWidgetConfig(c, slug)
		return
	}

	ctx := c.Request.Context()
	if cached, ok := h.cache.Get(ctx, slug); ok {
		h.recordWidgetServed("cache")
		c.Data(http.StatusOK, "application/json", cached)
		return
	}

	tenant, err := h.db.GetTenantBySlug(ctx, slug)
	if err != nil || tenant.IsArchived || tenant.LiveConfig == "" {
		// archived and unpublished tenants are invisible to the public surface
		i18n.RespondWithError(c, i18n.ErrorTenantNotFound)
		return
	}

	h.recordWidgetServed("db")
	payload := []byte(tenant.LiveConfig)
	if err := h.cache.Set(ctx, slug, payload); err != nil {
		h.logger.Warn("failed to cache widget config",
			zap.String("slug", slug),
			zap.Error(err))
	}
	c.Data(http.StatusOK, "application/json", payload)
}

// previewWidgetConfig serves the pending config to an authenticated
// editor with access to the tenant. The route itself is public, so the
// token is validated here instead of by the auth middleware.
func (h *Handler) previewWidgetConfig(c *gin.Context, slug string) {
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		i18n.RespondWithError(c, i18n.ErrUnauthorized)
		return
	}
	claims, err := h.jwtService.ValidateToken(parts[1])
	if err != nil {
		i18n.RespondWithError(c, i18n.ErrUnauthorized)
		return
	}

	ctx := c.Request.Context()
	user, err := h.db.GetUserByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		i18n.RespondWithError(c, i18n.ErrUnauthorized)
		return
	}
	role, ok := rbac.ParseRole(user.Role)
	if !ok {
		i18n.RespondWithError(c, i18n.ErrorPermissionDenied)
		return
	}

	tenant, err := h.db.GetTenantBySlug(ctx, slug)
	if err != nil {
		i18n.RespondWithError(c, i18n.ErrorTenantNotFound)
		return
	}

	if !h.guard.CanAccess(role, user.Assignments(), tenant.TenantID, h.tenantLookup(ctx)) {
		i18n.RespondWithError(c, i18n.ErrorPermissionDenied)
		return
	}

	cfg := tenant.PendingConfig
	if cfg == "" {
		cfg = tenant.LiveConfig
	}
	if cfg == "" {
		i18n.RespondWithError(c, i18n.ErrorTenantNotFound)
		return
	}
	c.Data(http.StatusOK, "application/json", []byte(cfg))
}
