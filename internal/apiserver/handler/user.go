package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/luminahq/lumina/internal/apiserver/database"
	"github.com/luminahq/lumina/internal/common/cnst"
	"github.com/luminahq/lumina/internal/common/dto"
	"github.com/luminahq/lumina/internal/core/access"
	"github.com/luminahq/lumina/internal/core/rbac"
	"github.com/luminahq/lumina/internal/i18n"
)

func (h *Handler) userResponse(u *database.User, lookup access.TenantLookup) dto.UserResponse {
	normalized := access.Normalize(u.Assignments())
	accepted, _ := access.FilterExisting(normalized, lookup)
	return dto.UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		Role:            u.Role,
		AssignedTenants: accepted,
		DroppedTenants:  len(normalized) - len(accepted),
		IsActive:        u.IsActive,
	}
}

// ListUsers handles listing all platform users. Assignment lists are
// filtered against the live tenant set; entries pointing at archived
// or deleted tenants are dropped and reported as a count.
func (h *Handler) ListUsers(c *gin.Context) {
	_, role, ok := h.actor(c)
	if !ok {
		return
	}
	if !h.canManage(role) {
		i18n.RespondWithError(c, i18n.ErrorPermissionDenied)
		return
	}

	ctx := c.Request.Context()
	users, err := h.db.ListUsers(ctx)
	if err != nil {
		i18n.RespondWithError(c, i18n.ErrInternalServer)
		return
	}

	lookup := h.tenantLookup(ctx)
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, h.userResponse(u, lookup))
	}
	c.JSON(http.StatusOK, out)
}

// CreateUser handles onboarding a new user
func (h *Handler) CreateUser(c *gin.Context) {
	actor, role, ok := h.actor(c)
	if !ok {
		return
	}
	if !h.canManage(role) {
		i18n.RespondWithError(c, i18n.ErrorPermissionDenied)
		return
	}

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}
	if _, ok := rbac.ParseRole(req.Role); !ok {
		i18n.RespondWithError(c, i18n.ErrorInvalidRole)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.db.GetUserByEmail(ctx, req.Email); err == nil {
		i18n.RespondWithError(c, i18n.ErrorEmailExists)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		i18n.RespondWithError(c, i18n.ErrInternalServer)
		return
	}

	accepted, acceptedCount := access.FilterExisting(req.AssignedTenants, h.tenantLookup(ctx))

	user := &database.User{
		Email:    req.Email,
		Password: string(hashed),
		Role:     req.Role,
		IsActive: true,
	}
	user.SetAssignments(accepted)

	if err := h.db.CreateUser(ctx, user); err != nil {
		i18n.RespondWithError(c, i18n.ErrInternalServer)
		return
	}

	h.audit.Record(ctx, actor.Email, actor.Role, cnst.AuditCreateUser,
		user.Email, fmt.Sprintf("created %s with %d tenant assignments", req.Role, acceptedCount))
	h.notifier.NotifyEmail(ctx, user.Email,
		"Welcome to Lumina",
		"Your account has been created",
		"/dashboard")

	i18n.Created(i18n.SuccessUserCreated).WithPayload(h.userResponse(user, h.tenantLookup(ctx))).Send(c)
}

// UpdateUser handles updating a user's role, password, activity flag
// or tenant assignments
func (h *Handler) UpdateUser(c *gin.Context) {
	actor, role, ok := h.actor(c)
	if !ok {
		return
	}
	if !h.canManage(role) {
		i18n.RespondWithError(c, i18n.ErrorPermissionDenied)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}

	ctx := c.Request.Context()
	user, err := h.db.GetUserByID(ctx, uint(id))
	if err != nil {
		i18n.RespondWithError(c, i18n.ErrorUserNotFound)
		return
	}

	if req.Role != "" {
		if _, ok := rbac.ParseRole(req.Role); !ok {
			i18n.RespondWithError(c, i18n.ErrorInvalidRole)
			return
		}
		user.Role = req.Role
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			i18n.RespondWithError(c, i18n.ErrInternalServer)
			return
		}
		user.Password = string(hashed)
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	assignmentsChanged := false
	if req.AssignedTenants != nil {
		accepted, _ := access.FilterExisting(*req.AssignedTenants, h.tenantLookup(ctx))
		user.SetAssignments(accepted)
		assignmentsChanged = true
	}

	if err := h.db.UpdateUser(ctx, user); err != nil {
		i18n.RespondWithError(c, i18n.ErrInternalServer)
		return
	}

	h.audit.Record(ctx, actor.Email, actor.Role, cnst.AuditUpdateUser, user.Email, "")
	if assignmentsChanged {
		h.audit.Record(ctx, actor.Email, actor.Role, cnst.AuditUpdateAssignments,
			user.Email, fmt.Sprintf("now assigned to %d tenants", len(user.Assignments())))
	}

	i18n.Success(i18n.SuccessUserUpdated).WithPayload(h.userResponse(user, h.tenantLookup(ctx))).Send(c)
}

// DeleteUser removes a user permanently. Actors cannot delete their
// own account.
func (h *Handler) DeleteUser(c *gin.Context) {
	actor, role, ok := h.actor(c)
	if !ok {
		return
	}
	if !h.canManage(role) {
		i18n.RespondWithError(c, i18n.ErrorPermissionDenied)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}
	if uint(id) == actor.ID {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}

	ctx := c.Request.Context()
	user, err := h.db.GetUserByID(ctx, uint(id))
	if err != nil {
		i18n.RespondWithError(c, i18n.ErrorUserNotFound)
		return
	}

	if err := h.db.DeleteUser(ctx, user.ID); err != nil {
		i18n.RespondWithError(c, i18n.ErrInternalServer)
		return
	}

	h.audit.Record(ctx, actor.Email, actor.Role, cnst.AuditDeleteUser, user.Email, "")

	i18n.Success(i18n.SuccessUserDeleted).With("id", user.ID).Send(c)
}
