package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadport/acadport-api/internal/dto"
	"github.com/acadport/acadport-api/internal/service"
	appErrors "github.com/acadport/acadport-api/pkg/errors"
	"github.com/acadport/acadport-api/pkg/response"
)

// AssistantHandler exposes the academic assistant over HTTP.
type AssistantHandler struct {
	service *service.AssistantService
}

// NewAssistantHandler creates a new handler.
func NewAssistantHandler(svc *service.AssistantService) *AssistantHandler {
	return &AssistantHandler{service: svc}
}

// Ask godoc
// @Summary Ask the academic assistant
// @Description Answers a free-text question about the caller's department using marks and attendance data
// @Tags Assistant
// @Accept json
// @Produce json
// @Param payload body dto.AskRequest true "Question payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /assistant/ask [post]
func (h *AssistantHandler) Ask(c *gin.Context) {
	var req dto.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "question is required"))
		return
	}

	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	res, err := h.service.Ask(c.Request.Context(), claims.DepartmentID, claims.Role, req.Question)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}
