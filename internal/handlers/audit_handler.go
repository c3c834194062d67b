package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/ahamhfc/aham-cms-api/internal/repository"
	"github.com/ahamhfc/aham-cms-api/internal/services"
	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService  *services.AuditService
	exportService *services.ExportService
}

func NewAuditHandler(auditService *services.AuditService, exportService *services.ExportService) *AuditHandler {
	return &AuditHandler{auditService: auditService, exportService: exportService}
}

func parseAuditFilter(c *gin.Context) repository.AuditFilter {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	return repository.AuditFilter{
		Section: c.Query("section"),
		Action:  c.Query("action"),
		Actor:   c.Query("actor"),
		Limit:   limit,
		Offset:  offset,
	}
}

// @Summary List Audit Logs
// @Description Audit trail, newest first
// @Tags Audit
// @Produce json
// @Param limit query int false "Items per page" default(100)
// @Param offset query int false "Offset" default(0)
// @Param section query string false "Filter by section"
// @Param action query string false "Filter by action" Enums(create, update, delete)
// @Param actor query string false "Filter by user email"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admin/audit-logs [get]
func (h *AuditHandler) Index(c *gin.Context) {
	filter := parseAuditFilter(c)
	logs, total, err := h.auditService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs": logs,
		"pagination": gin.H{
			"total":  total,
			"limit":  filter.Limit,
			"offset": filter.Offset,
		},
	})
}

// @Summary Export Audit Logs
// @Description Downloads the filtered audit trail
// @Tags Audit
// @Produce application/octet-stream
// @Param format query string false "Report format" Enums(xlsx, csv, pdf) default(xlsx)
// @Param section query string false "Filter by section"
// @Param action query string false "Filter by action"
// @Param actor query string false "Filter by user email"
// @Security BearerAuth
// @Router /admin/audit-logs/export [get]
func (h *AuditHandler) Export(c *gin.Context) {
	data, filename, contentType, err := h.exportService.Export(c.Request.Context(), c.DefaultQuery("format", services.ExportXLSX), parseAuditFilter(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, contentType, data)
}
