package api

import (
	"github.com/Domenick1991/flightbooking/internal/service/notifications"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	service notifications.NotificationUseCase
}

func NewNotificationHandler(service notifications.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.PATCH("/:id/read", h.markRead)
	router.POST("/read-all", h.markAllRead)
	router.DELETE("/:id", h.delete)
}

func (h *NotificationHandler) list(c *gin.Context) {
	me, _ := identity(c)
	list, err := h.service.List(c.Request.Context(), me.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, list)
}

func (h *NotificationHandler) markRead(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	me, _ := identity(c)
	if err := h.service.MarkRead(c.Request.Context(), id, me.UserID); err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"id": id, "read": true})
}

func (h *NotificationHandler) markAllRead(c *gin.Context) {
	me, _ := identity(c)
	n, err := h.service.MarkAllRead(c.Request.Context(), me.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"updated": n})
}

func (h *NotificationHandler) delete(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	me, _ := identity(c)
	if err := h.service.Delete(c.Request.Context(), id, me.UserID); err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"deleted": id})
}
