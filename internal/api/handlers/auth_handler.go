package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cubstechnical/cubs-ems/internal/services"
	"github.com/cubstechnical/cubs-ems/internal/utils"
)

type AuthHandler struct {
	svc   services.AuthService
	audit services.AuditService
}

func NewAuthHandler(svc services.AuthService, audit services.AuditService) *AuthHandler {
	return &AuthHandler{svc: svc, audit: audit}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AuthHandler.Register", FormatBindingError(err), err))
		return
	}

	p, err := h.svc.Register(c.Request.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user_id": p.UserID,
		"status":  p.Status,
		"message": "account created; an administrator must approve it before you can sign in",
	})
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AuthHandler.Login", FormatBindingError(err), err))
		return
	}

	token, p, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"profile": p,
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	p, err := h.svc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *AuthHandler) PendingUsers(c *gin.Context) {
	rows, err := h.svc.PendingProfiles(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSearchResponse(rows, int64(len(rows))))
}

func (h *AuthHandler) ApproveUser(c *gin.Context) {
	h.decide(c, true)
}

func (h *AuthHandler) RejectUser(c *gin.Context) {
	h.decide(c, false)
}

func (h *AuthHandler) decide(c *gin.Context, approve bool) {
	adminID, ok := requireUserID(c)
	if !ok {
		return
	}
	targetID := c.Param("id")

	var (
		p      any
		err    error
		action = "reject"
	)
	if approve {
		action = "approve"
		p, err = h.svc.Approve(c.Request.Context(), adminID, targetID)
	} else {
		p, err = h.svc.Reject(c.Request.Context(), adminID, targetID)
	}
	if err != nil {
		writeError(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), adminID, action, "profile", targetID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, p)
}
