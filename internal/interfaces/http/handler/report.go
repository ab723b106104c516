package handler

import (
	"time"

	"github.com/campusclear/backend/internal/application/report"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles reporting API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *report.Service
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *report.Service) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// DepartmentDues godoc
// @Summary      Department dues report
// @Description  Aggregate pending dues per department for the caller's visible scope
// @Tags         reports
// @Produce      json
// @Param        department query string false "Restrict to a single department"
// @Param        from query string false "Range start (RFC 3339)" format(date-time)
// @Param        to query string false "Range end (RFC 3339)" format(date-time)
// @Success      200 {object} dto.Response{data=report.DepartmentDuesReport}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/department-dues [get]
func (h *ReportHandler) DepartmentDues(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	query := report.Query{
		Department: c.Query("department"),
	}

	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			h.BadRequest(c, "Invalid 'from' timestamp; use RFC 3339")
			return
		}
		query.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			h.BadRequest(c, "Invalid 'to' timestamp; use RFC 3339")
			return
		}
		query.To = &t
	}
	if query.From != nil && query.To != nil && query.To.Before(*query.From) {
		h.BadRequest(c, "'to' must not be before 'from'")
		return
	}

	result, err := h.reportService.DepartmentDues(c.Request.Context(), actor, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
