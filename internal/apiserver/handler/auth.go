package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/luminahq/lumina/internal/common/dto"
	"github.com/luminahq/lumina/internal/core/access"
	"github.com/luminahq/lumina/internal/i18n"
)

// Login handles user login
func (h *Handler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		i18n.RespondWithError(c, i18n.ErrorEmailPasswordRequired)
		return
	}

	user, err := h.db.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		i18n.RespondWithError(c, i18n.ErrorInvalidCredentials)
		return
	}
	if !user.IsActive {
		i18n.RespondWithError(c, i18n.ErrorUserDisabled)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		i18n.RespondWithError(c, i18n.ErrorInvalidCredentials)
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		h.logger.Error("failed to generate token",
			zap.String("email", user.Email),
			zap.Error(err))
		i18n.RespondWithError(c, i18n.ErrInternalServer)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token: token,
		User: dto.UserInfo{
			ID:              user.ID,
			Email:           user.Email,
			Role:            user.Role,
			AssignedTenants: access.Normalize(user.Assignments()),
		},
	})
}

// Me returns the authenticated user's profile
func (h *Handler) Me(c *gin.Context) {
	user, _, ok := h.actor(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.UserInfo{
		ID:              user.ID,
		Email:           user.Email,
		Role:            user.Role,
		AssignedTenants: access.Normalize(user.Assignments()),
	})
}

// ChangePassword handles password changes for the authenticated user
func (h *Handler) ChangePassword(c *gin.Context) {
	user, _, ok := h.actor(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		i18n.RespondWithError(c, i18n.ErrBadRequest)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		i18n.RespondWithError(c, i18n.ErrorInvalidOldPassword)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		i18n.RespondWithError(c, i18n.ErrInternalServer)
		return
	}

	user.Password = string(hashed)
	if err := h.db.UpdateUser(c.Request.Context(), user); err != nil {
		i18n.RespondWithError(c, i18n.ErrInternalServer)
		return
	}

	i18n.Success(i18n.SuccessPasswordChanged).Send(c)
}
