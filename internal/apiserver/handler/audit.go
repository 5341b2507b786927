package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/luminahq/lumina/internal/i18n"
)

const defaultAuditLimit = 100

// ListAuditLogs returns the most recent audit trail entries
func (h *Handler) ListAuditLogs(c *gin.Context) {
	_, role, ok := h.actor(c)
	if !ok {
		return
	}
	if !h.canManage(role) {
		i18n.RespondWithError(c, i18n.ErrorPermissionDenied)
		return
	}

	limit := defaultAuditLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	entries, err := h.db.ListAuditLogs(c.Request.Context(), limit)
	if err != nil {
		i18n.RespondWithError(c, i18n.ErrInternalServer)
		return
	}
	c.JSON(http.StatusOK, entries)
}
