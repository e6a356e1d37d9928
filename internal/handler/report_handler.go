package handler

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/acadport/acadport-api/internal/service"
	appErrors "github.com/acadport/acadport-api/pkg/errors"
	"github.com/acadport/acadport-api/pkg/response"
)

// ReportHandler serves downloadable attendance reports.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler creates a new handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// AttendanceOverview godoc
// @Summary Download the attendance overview report
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "Report format (csv or pdf)" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /reports/attendance [get]
func (h *ReportHandler) AttendanceOverview(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	format := service.ReportFormat(c.DefaultQuery("format", "csv"))
	report, err := h.service.AttendanceOverview(c.Request.Context(), claims.DepartmentID, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(report.FileName)))
	c.Data(http.StatusOK, report.ContentType, report.Data)
}
