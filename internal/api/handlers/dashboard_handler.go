package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	pgrepo "github.com/cubstechnical/cubs-ems/internal/repositories/postgres"
	"github.com/cubstechnical/cubs-ems/internal/reports"
	"github.com/cubstechnical/cubs-ems/internal/services"
	"github.com/cubstechnical/cubs-ems/internal/utils"
)

type DashboardHandler struct {
	svc   services.DashboardService
	audit services.AuditService
}

func NewDashboardHandler(svc services.DashboardService, audit services.AuditService) *DashboardHandler {
	return &DashboardHandler{svc: svc, audit: audit}
}

func (h *DashboardHandler) Summary(c *gin.Context) {
	out, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *DashboardHandler) ExpiryReport(c *gin.Context) {
	within := 60
	if v, err := intQuery(c, "within"); err == nil && v > 0 {
		within = v
	}

	rows, err := h.svc.ExpiringVisas(c.Request.Context(), within)
	if err != nil {
		writeError(c, err)
		return
	}

	buf, err := reports.BuildExpiryReport(rows, time.Now().UTC())
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "DashboardHandler.ExpiryReport", "failed to build report", err))
		return
	}

	name := fmt.Sprintf("visa-expiry-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}

func (h *DashboardHandler) AuditLogs(c *gin.Context) {
	limit, offset := pageParams(c)

	rows, total, err := h.audit.List(c.Request.Context(), pgrepo.AuditListParams{
		ActorID:      c.Query("actor_id"),
		ResourceType: c.Query("resource_type"),
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSearchResponse(rows, total))
}
