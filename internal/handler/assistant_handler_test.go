package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acadport/acadport-api/internal/dto"
	"github.com/acadport/acadport-api/internal/genai"
	"github.com/acadport/acadport-api/internal/middleware"
	"github.com/acadport/acadport-api/internal/models"
	"github.com/acadport/acadport-api/internal/service"
	"github.com/acadport/acadport-api/pkg/config"
)

type stubContextBuilder struct{}

func (stubContextBuilder) BuildGeneralContext(context.Context, string, string) (*dto.AcademicContext, error) {
	return &dto.AcademicContext{Meta: dto.ContextMeta{FilterApplied: "General/Recent"}}, nil
}

func (stubContextBuilder) BuildAttendanceSummary(context.Context, string, string) (*dto.AttendanceSummary, error) {
	return &dto.AttendanceSummary{Kind: dto.SummaryKindDepartment, Department: &dto.DepartmentAttendance{}}, nil
}

type stubCompleter struct {
	answer string
	err    error
}

func (s stubCompleter) Complete(context.Context, string, int64) (*genai.Completion, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &genai.Completion{Content: s.answer, FinishReason: genai.FinishStop}, nil
}

func newAssistantHandler(completer genai.Completer) *AssistantHandler {
	svc := service.NewAssistantService(stubContextBuilder{}, completer, config.AssistantConfig{}, nil, zap.NewNop())
	return NewAssistantHandler(svc)
}

func assistantRequest(body string, claims *models.JWTClaims) (*httptest.ResponseRecorder, *gin.Context) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/assistant/ask", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return rec, c
}

func TestAssistantHandlerAskSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAssistantHandler(stubCompleter{answer: "all students are doing fine"})

	rec, c := assistantRequest(`{"question":"how are my students performing?"}`, &models.JWTClaims{
		UserID:       "user-1",
		DepartmentID: "dep-1",
		Role:         models.RoleAdmin,
	})

	handler.Ask(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data dto.AskResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "all students are doing fine", envelope.Data.Answer)
}

func TestAssistantHandlerAskMissingQuestion(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAssistantHandler(stubCompleter{answer: "unused"})

	rec, c := assistantRequest(`{}`, &models.JWTClaims{DepartmentID: "dep-1"})

	handler.Ask(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssistantHandlerAskNoClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAssistantHandler(stubCompleter{answer: "unused"})

	rec, c := assistantRequest(`{"question":"attendance?"}`, nil)

	handler.Ask(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAssistantHandlerAskNoDepartment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAssistantHandler(stubCompleter{answer: "unused"})

	rec, c := assistantRequest(`{"question":"attendance?"}`, &models.JWTClaims{UserID: "user-1"})

	handler.Ask(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
