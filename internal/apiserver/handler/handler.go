// Package handler wires the HTTP surface to the policy table, the
// access guard and the workflow engine. Handlers stay thin: they
// authenticate the actor, delegate the decision to the core packages
// and persist the resulting mutation.
package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/luminahq/lumina/internal/apiserver/cache"
	"github.com/luminahq/lumina/internal/apiserver/database"
	"github.com/luminahq/lumina/internal/apiserver/middleware"
	"github.com/luminahq/lumina/internal/apiserver/service"
	"github.com/luminahq/lumina/internal/auth/jwt"
	"github.com/luminahq/lumina/internal/common/config"
	"github.com/luminahq/lumina/internal/core/access"
	"github.com/luminahq/lumina/internal/core/rbac"
	"github.com/luminahq/lumina/internal/core/workflow"
	"github.com/luminahq/lumina/internal/i18n"
	"github.com/luminahq/lumina/pkg/metrics"
)

// Handler carries the shared dependencies of all HTTP handlers.
type Handler struct {
	logger     *zap.Logger
	db         database.Database
	jwtService *jwt.Service
	policy     *rbac.Policy
	guard      *access.Guard
	engine     *workflow.Engine
	audit      *service.Audit
	notifier   *service.Notifier
	cache      cache.Cache
	cfg        *config.APIServerConfig
	metrics    *metrics.Metrics
}

// WithMetrics attaches a metrics registry. Without one the workflow and
// widget counters are simply not recorded.
func (h *Handler) WithMetrics(m *metrics.Metrics) *Handler {
	h.metrics = m
	return h
}

func (h *Handler) recordTransition(toStatus workflow.Status) {
	if h.metrics != nil {
		h.metrics.WorkflowTransition(string(toStatus))
	}
}

func (h *Handler) recordWidgetServed(source string) {
	if h.metrics != nil {
		h.metrics.WidgetServed(source)
	}
}

// NewHandler creates a new handler with all its dependencies.
func NewHandler(
	logger *zap.Logger,
	db database.Database,
	jwtService *jwt.Service,
	policy *rbac.Policy,
	c cache.Cache,
	cfg *config.APIServerConfig,
) *Handler {
	return &Handler{
		logger:     logger.Named("handler"),
		db:         db,
		jwtService: jwtService,
		policy:     policy,
		guard:      access.NewGuard(policy),
		engine:     workflow.NewEngine(policy),
		audit:      service.NewAudit(logger, db),
		notifier:   service.NewNotifier(logger, db),
		cache:      c,
		cfg:        cfg,
	}
}

// actor resolves the authenticated request to its user record and
// validated role. Unknown roles are rejected here so every downstream
// check sees only members of the closed role set.
func (h *Handler) actor(c *gin.Context) (*database.User, rbac.Role, bool) {
	claims, ok := middleware.Claims(c)
	if !ok {
		i18n.RespondWithError(c, i18n.ErrUnauthorized)
		return nil, "", false
	}

	user, err := h.db.GetUserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		i18n.RespondWithError(c, i18n.ErrUnauthorized)
		return nil, "", false
	}
	if !user.IsActive {
		i18n.RespondWithError(c, i18n.ErrorUserDisabled)
		return nil, "", false
	}

	role, ok := rbac.ParseRole(user.Role)
	if !ok {
		// a stored role outside the closed set carries no permissions
		i18n.RespondWithError(c, i18n.ErrorPermissionDenied)
		return nil, "", false
	}
	return user, role, true
}

// tenantLookup adapts the repository existence check to the access
// guard. Lookup errors count as absent: access fails closed.
func (h *Handler) tenantLookup(ctx context.Context) access.TenantLookup {
	return func(tenantID string) (bool, bool) {
		exists, archived, err := h.db.TenantExists(ctx, tenantID)
		if err != nil {
			h.logger.Warn("tenant lookup failed",
				zap.String("tenant_id", tenantID),
				zap.Error(err))
			return false, false
		}
		return exists, archived
	}
}

// canManage reports whether the actor holds the user management grant,
// the platform's super tier.
func (h *Handler) canManage(role rbac.Role) bool {
	return h.policy.Allowed(role, rbac.ActionManageUsers)
}
