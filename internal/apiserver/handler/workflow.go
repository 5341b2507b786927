package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/luminahq/lumina/internal/apiserver/database"
	"github.com/luminahq/lumina/internal/common/cnst"
	"github.com/luminahq/lumina/internal/common/dto"
	"github.com/luminahq/lumina/internal/core/rbac"
	"github.com/luminahq/lumina/internal/core/workflow"
	"github.com/luminahq/lumina/internal/i18n"
	"github.com/luminahq/lumina/pkg/trace"
)

var workflowTracer = trace.Tracer("workflow")

// snapshot builds the workflow engine's view of a tenant row. A stored
// status outside the known set is treated as draft rather than
// rejected, so legacy rows stay operable.
func snapshot(t *database.Tenant) workflow.TenantState {
	status, ok := workflow.ParseStatus(t.ApprovalStatus)
	if !ok {
		status = workflow.StatusDraft
	}
	return workflow.TenantState{
		TenantID:      t.TenantID,
		Status:        status,
		LiveConfig:    json.RawMessage(t.LiveConfig),
		PendingConfig: json.RawMessage(t.PendingConfig),
		Revision:      t.Revision,
	}
}

// botName pulls the display name out of an opaque config blob for
// notification copy. Falls back to the client name.
func botName(cfg json.RawMessage, fallback string) string {
	if name := gjson.GetBytes(cfg, "bot_name").String(); name != "" {
		return name
	}
	return fallback
}

func mapWorkflowError(err error) error {
	switch {
	case errors.Is(err, workflow.ErrPermissionDenied):
		return i18n.ErrorPermissionDenied
	case errors.Is(err, workflow.ErrNoPendingChanges):
		return i18n.ErrorNoPendingChanges
	case errors.Is(err, workflow.ErrInvalidStateTransition):
		return i18n.ErrorInvalidStateTransition
	case errors.Is(err, workflow.ErrConcurrentModification):
		return i18n.ErrorConcurrentModification
	case errors.Is(err, database.ErrNotFound):
		return i18n.ErrorTenantNotFound
	default:
		return i18n.ErrInternalServer
	}
}

// SubmitDraft handles a draft submission into the review pipeline
func (h *Handler) SubmitDraft(c *gin.Context) {
	user, role, ok := h.actor(c)
	if !ok {
		return
	}
	tenantID := c.Param("tenantID")

	scope := workflowTracer.Start(c.Request.Context(), "workflow.submit").
		WithAttrs(attribute.String("tenant_id", tenantID), attribute.String("role", string(role)))
	defer scope.End()

	tenant, err := h.db.GetTenantByID(scope.Ctx, tenantID)
	if err != nil {
		i18n.RespondWithError(c, i18n.ErrorTenantNotFound)
		return
	}

	if !h.guard.CanAccess(role, user.Assignments(), tenantID, h.tenantLookup(scope.Ctx)) {
		i18n.RespondWithError(c, i18n.ErrorPermissionDenied)
		return
	}

	var req dto.SubmitDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}

	state := snapshot(tenant)
	if req.Revision > 0 {
		// the revision the editor last read wins over the fresh read,
		// so edits based on stale data are rejected
		state.Revision = req.Revision
	}

	mutation, err := h.engine.Submit(state, req.Config, role, user.Email)
	if err != nil {
		i18n.RespondWithError(c, mapWorkflowError(err))
		return
	}

	if err := h.db.ApplyMutation(scope.Ctx, mutation); err != nil {
		i18n.RespondWithError(c, mapWorkflowError(err))
		return
	}
	h.recordTransition(mutation.Status)

	name := botName(req.Config, tenant.ClientName)
	h.audit.Record(scope.Ctx, user.Email, user.Role, cnst.AuditSubmitDraft,
		tenantID, fmt.Sprintf("submitted draft for %s", name))

	reviewerRole := rbac.RoleAdmin
	if mutation.Status == workflow.StatusPendingSuperAdmin {
		reviewerRole = rbac.RoleSuperAdmin
	}
	h.notifier.NotifyRole(scope.Ctx, string(reviewerRole),
		"Changes awaiting review",
		fmt.Sprintf("%s submitted changes for %s", user.Email, name),
		"/approvals")

	i18n.Success(i18n.SuccessDraftSubmitted).WithPayload(dto.WorkflowResponse{
		TenantID:  tenantID,
		Status:    string(mutation.Status),
		Published: false,
		Revision:  mutation.ExpectedRevision + 1,
	}).Send(c)
}

// Approve handles an approval decision on a tenant's pending changes
func (h *Handler) Approve(c *gin.Context) {
	user, role, ok := h.actor(c)
	if !ok {
		return
	}
	tenantID := c.Param("tenantID")

	scope := workflowTracer.Start(c.Request.Context(), "workflow.approve").
		WithAttrs(attribute.String("tenant_id", tenantID), attribute.String("role", string(role)))
	defer scope.End()

	// Approval rights are tier-based, not assignment-based: the engine
	// decides per role whether the caller may publish or escalate.
	tenant, err := h.db.GetTenantByID(scope.Ctx, tenantID)
	if err != nil {
		i18n.RespondWithError(c, i18n.ErrorTenantNotFound)
		return
	}

	var req dto.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}

	state := snapshot(tenant)
	if req.Revision > 0 {
		state.Revision = req.Revision
	}

	mutation, outcome, err := h.engine.Approve(state, role, user.Email)
	if err != nil {
		i18n.RespondWithError(c, mapWorkflowError(err))
		return
	}

	if err := h.db.ApplyMutation(scope.Ctx, mutation); err != nil {
		i18n.RespondWithError(c, mapWorkflowError(err))
		return
	}
	h.recordTransition(mutation.Status)

	name := botName(state.PendingConfig, tenant.ClientName)

	switch outcome {
	case workflow.OutcomePublished:
		if err := h.cache.Delete(scope.Ctx, tenant.Slug); err != nil {
			h.logger.Warn("failed to invalidate widget cache",
				zap.String("slug", tenant.Slug),
				zap.Error(err))
		}
		h.audit.Record(scope.Ctx, user.Email, user.Role, cnst.AuditPublishLive,
			tenantID, fmt.Sprintf("published changes for %s", name))
		if tenant.LastModifiedBy != "" && tenant.LastModifiedBy != user.Email {
			h.notifier.NotifyEmail(scope.Ctx, tenant.LastModifiedBy,
				"Changes published",
				fmt.Sprintf("Your changes for %s are now live", name),
				"/tenants/"+tenantID)
		}
		i18n.Success(i18n.SuccessChangesPublished).WithPayload(dto.WorkflowResponse{
			TenantID:  tenantID,
			Status:    string(mutation.Status),
			Published: true,
			Revision:  mutation.ExpectedRevision + 1,
		}).Send(c)

	case workflow.OutcomeEscalated:
		h.audit.Record(scope.Ctx, user.Email, user.Role, cnst.AuditApproveEscalate,
			tenantID, fmt.Sprintf("escalated changes for %s to final review", name))
		h.notifier.NotifyRole(scope.Ctx, string(rbac.RoleSuperAdmin),
			"Changes awaiting final review",
			fmt.Sprintf("%s approved changes for %s", user.Email, name),
			"/approvals")
		i18n.Success(i18n.SuccessChangesEscalated).WithPayload(dto.WorkflowResponse{
			TenantID:  tenantID,
			Status:    string(mutation.Status),
			Published: false,
			Revision:  mutation.ExpectedRevision + 1,
		}).Send(c)
	}
}

// ListApprovals returns the review queue visible to the actor's tier
func (h *Handler) ListApprovals(c *gin.Context) {
	_, role, ok := h.actor(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	switch {
	case h.policy.Allowed(role, rbac.ActionPublishLive):
		// final approvers see both review stages
		pendingSuper, err := h.db.ListTenantsByStatus(ctx, string(workflow.StatusPendingSuperAdmin))
		if err != nil {
			i18n.RespondWithError(c, i18n.ErrInternalServer)
			return
		}
		pendingAdmin, err := h.db.ListTenantsByStatus(ctx, string(workflow.StatusPendingAdmin))
		if err != nil {
			i18n.RespondWithError(c, i18n.ErrInternalServer)
			return
		}
		c.JSON(http.StatusOK, append(pendingSuper, pendingAdmin...))

	case h.policy.Allowed(role, rbac.ActionApproveToSuper):
		pending, err := h.db.ListTenantsByStatus(ctx, string(workflow.StatusPendingAdmin))
		if err != nil {
			i18n.RespondWithError(c, i18n.ErrInternalServer)
			return
		}
		c.JSON(http.StatusOK, pending)

	default:
		i18n.RespondWithError(c, i18n.ErrorPermissionDenied)
	}
}
