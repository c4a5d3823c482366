package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cubstechnical/cubs-ems/internal/services"
	"github.com/cubstechnical/cubs-ems/internal/utils"
	"github.com/cubstechnical/cubs-ems/internal/workers"
)

type NotificationHandler struct {
	svc      services.NotificationService
	tokens   services.PushTokenService
	notifier *workers.ExpiryNotifier
}

func NewNotificationHandler(svc services.NotificationService, tokens services.PushTokenService, notifier *workers.ExpiryNotifier) *NotificationHandler {
	return &NotificationHandler{svc: svc, tokens: tokens, notifier: notifier}
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	limit, offset := pageParams(c)
	rows, total, err := h.svc.List(c.Request.Context(), userID, c.Query("unread") == "true", limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSearchResponse(rows, total))
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.svc.MarkRead(c.Request.Context(), c.Param("id"), userID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type RegisterPushTokenRequest struct {
	Token    string `json:"token" binding:"required"`
	Platform string `json:"platform" binding:"required,oneof=ios android web"`
}

func (h *NotificationHandler) RegisterPushToken(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req RegisterPushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "NotificationHandler.RegisterPushToken", FormatBindingError(err), err))
		return
	}

	row, err := h.tokens.Register(c.Request.Context(), userID, req.Token, req.Platform)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *NotificationHandler) DeactivatePushToken(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.tokens.Deactivate(c.Request.Context(), userID, c.Param("token")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RunExpiryCheck is the manual admin trigger; it bypasses the daily lock.
func (h *NotificationHandler) RunExpiryCheck(c *gin.Context) {
	if h.notifier == nil {
		writeError(c, utils.E(utils.CodeInternal, "NotificationHandler.RunExpiryCheck", "notifier is not configured", nil))
		return
	}

	sent, err := h.notifier.RunOnce(c.Request.Context(), true)
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "NotificationHandler.RunExpiryCheck", "expiry run failed", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"notified_employees": sent})
}
