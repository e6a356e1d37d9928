package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/acadport/acadport-api/internal/service"
	appErrors "github.com/acadport/acadport-api/pkg/errors"
	"github.com/acadport/acadport-api/pkg/response"
)

// AttendanceHandler exposes attendance CSV ingestion and its audit trail.
type AttendanceHandler struct {
	service     *service.AttendanceUploadService
	maxFileSize int64
}

// NewAttendanceHandler creates a new handler.
func NewAttendanceHandler(svc *service.AttendanceUploadService, maxFileSize int64) *AttendanceHandler {
	if maxFileSize <= 0 {
		maxFileSize = 5 * 1024 * 1024
	}
	return &AttendanceHandler{service: svc, maxFileSize: maxFileSize}
}

// Upload godoc
// @Summary Upload an attendance CSV
// @Description Ingests a CSV with columns register_number, subject_code, date, status
// @Tags Attendance
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /attendance/upload [post]
func (h *AttendanceHandler) Upload(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "CSV file is required"))
		return
	}
	if fileHeader.Size > h.maxFileSize {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file exceeds the maximum allowed size"))
		return
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "only .csv files are accepted"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to open uploaded file"))
		return
	}
	defer file.Close() //nolint:errcheck

	res, err := h.service.Ingest(c.Request.Context(), claims.UserID, claims.DepartmentID, fileHeader.Filename, file)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// History godoc
// @Summary List attendance upload history
// @Tags Attendance
// @Produce json
// @Param limit query int false "Maximum entries"
// @Success 200 {object} response.Envelope
// @Router /attendance/uploads [get]
func (h *AttendanceHandler) History(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	uploads, err := h.service.History(c.Request.Context(), claims.DepartmentID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, uploads, nil)
}
