package handlers

import (
	"net/http"

	"civicos/internal/middleware"
	"civicos/internal/services"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.CurrentUserID(c)

	notifications, err := h.notifications.List(ctx, userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	unread, err := h.notifications.UnreadCount(ctx, userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications, "unread": unread})
}

func (h *NotificationHandler) Read(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.notifications.MarkRead(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) ReadAll(c *gin.Context) {
	if err := h.notifications.MarkAllRead(c.Request.Context(), middleware.CurrentUserID(c)); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.notifications.Delete(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
