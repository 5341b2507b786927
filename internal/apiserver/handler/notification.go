package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/luminahq/lumina/internal/apiserver/database"
	"github.com/luminahq/lumina/internal/i18n"
)

const defaultNotificationLimit = 50

// ListNotifications returns the actor's most recent notifications
func (h *Handler) ListNotifications(c *gin.Context) {
	user, _, ok := h.actor(c)
	if !ok {
		return
	}

	limit := defaultNotificationLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	notifications, err := h.db.ListNotifications(c.Request.Context(), user.ID, limit)
	if err != nil {
		i18n.RespondWithError(c, i18n.ErrInternalServer)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead marks one of the actor's notifications as read
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	user, _, ok := h.actor(c)
	if !ok {
		return
	}

	err := h.db.MarkNotificationRead(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			i18n.RespondWithError(c, i18n.ErrorNotificationNotFound)
			return
		}
		i18n.RespondWithError(c, i18n.ErrInternalServer)
		return
	}

	i18n.Success(i18n.SuccessNotificationRead).Send(c)
}

// DeleteNotification removes one of the actor's notifications
func (h *Handler) DeleteNotification(c *gin.Context) {
	user, _, ok := h.actor(c)
	if !ok {
		return
	}

	err := h.db.DeleteNotification(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			i18n.RespondWithError(c, i18n.ErrorNotificationNotFound)
			return
		}
		i18n.RespondWithError(c, i18n.ErrInternalServer)
		return
	}

	c.Status(http.StatusNoContent)
}
