package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/acadport/acadport-api/internal/dto"
	"github.com/acadport/acadport-api/internal/genai"
	"github.com/acadport/acadport-api/internal/models"
	"github.com/acadport/acadport-api/pkg/config"
	"github.com/acadport/acadport-api/pkg/errors"
)

// Fixed notices returned in place of model output for degraded completions.
const (
	noticeContentFiltered = "Response was blocked by the content safety filter."
	noticeThoughtTooLong  = "The model spent its entire token budget reasoning and produced no answer. Please try a simpler question."
	noticeTruncatedSuffix = "\n\n(Response truncated due to length limit)"
	noticeEmptyCompletion = "No response generated."
)

const attendancePromptTemplate = `[SYSTEM INSTRUCTION]
You are an AI Academic Assistant.
Answer using ONLY the provided JSON summary below.
If the data is for a specific student, ALWAYS mention their Register Number.
If the data is empty, say "I couldn't find attendance records for that query."
Keep it professional and concise.

[USER QUESTION]
%s

[DATA CONTEXT]
%s`

const generalPromptTemplate = `[SYSTEM INSTRUCTION]
You are an AI Academic Assistant.
Analyze the provided JSON data to answer the user's question.
- If looking for "at-risk" or "weak" students, identify those with low marks (< 50%%) OR low attendance (< 75%%).
- Explicitly mention Student Name and Register Number.
- If data is missing for a specific student/subject, explicitly say so.
- Do not hallucinate data not present in the JSON.

[USER QUESTION]
%s

[DATA CONTEXT]
%s`

// ContextBuilder is the context-selection surface the orchestrator needs.
type ContextBuilder interface {
	BuildGeneralContext(ctx context.Context, departmentID, question string) (*dto.AcademicContext, error)
	BuildAttendanceSummary(ctx context.Context, departmentID, question string) (*dto.AttendanceSummary, error)
}

type assistantObserver interface {
	ObserveAssistantRequest(intent QuestionIntent, outcome string)
	ObserveCompletion(duration time.Duration)
}

// AssistantService answers free-text questions about the caller's department
// by classifying the question, assembling a bounded data context, and asking
// the completion provider to ground its answer in that context.
type AssistantService struct {
	contexts  ContextBuilder
	completer genai.Completer
	cfg       config.AssistantConfig
	metrics   assistantObserver
	logger    *zap.Logger
}

// NewAssistantService constructs an AssistantService. metrics may be nil.
func NewAssistantService(contexts ContextBuilder, completer genai.Completer, cfg config.AssistantConfig, metrics assistantObserver, logger *zap.Logger) *AssistantService {
	if cfg.AttendanceMaxTokens <= 0 {
		cfg.AttendanceMaxTokens = 5000
	}
	if cfg.GeneralMaxTokens <= 0 {
		cfg.GeneralMaxTokens = 12000
	}
	return &AssistantService{
		contexts:  contexts,
		completer: completer,
		cfg:       cfg,
		metrics:   metrics,
		logger:    logger,
	}
}

// Ask answers a question scoped to the caller's department. The role is
// resolved by the auth layer once per request and passed down explicitly.
func (s *AssistantService) Ask(ctx context.Context, departmentID string, role models.UserRole, question string) (*dto.AskResponse, error) {
	if strings.TrimSpace(question) == "" {
		return nil, errors.Clone(errors.ErrValidation, "question is required")
	}
	if departmentID == "" {
		return nil, errors.ErrNoDepartment
	}
	if role != models.RoleAdmin && role != models.RoleTeacher {
		return nil, errors.ErrForbidden
	}

	intent := ClassifyQuestion(question)
	s.logger.Info("assistant question received",
		zap.String("department_id", departmentID),
		zap.String("role", string(role)),
		zap.String("intent", string(intent)))

	var (
		prompt    string
		maxTokens int64
		err       error
	)
	switch intent {
	case IntentAttendance:
		prompt, err = s.attendancePrompt(ctx, departmentID, question)
		maxTokens = s.cfg.AttendanceMaxTokens
	default:
		prompt, err = s.generalPrompt(ctx, departmentID, question)
		maxTokens = s.cfg.GeneralMaxTokens
	}
	if err != nil {
		s.observe(intent, "context_error")
		return nil, err
	}

	start := time.Now()
	completion, err := s.completer.Complete(ctx, prompt, maxTokens)
	if s.metrics != nil {
		s.metrics.ObserveCompletion(time.Since(start))
	}
	if err != nil {
		s.observe(intent, "provider_error")
		return nil, err
	}

	s.observe(intent, "answered")
	return &dto.AskResponse{Answer: renderAnswer(completion)}, nil
}

func (s *AssistantService) observe(intent QuestionIntent, outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveAssistantRequest(intent, outcome)
	}
}

func (s *AssistantService) attendancePrompt(ctx context.Context, departmentID, question string) (string, error) {
	summary, err := s.contexts.BuildAttendanceSummary(ctx, departmentID, question)
	if err != nil {
		return "", err
	}
	payload, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode attendance summary: %w", err)
	}
	return fmt.Sprintf(attendancePromptTemplate, question, payload), nil
}

func (s *AssistantService) generalPrompt(ctx context.Context, departmentID, question string) (string, error) {
	academic, err := s.contexts.BuildGeneralContext(ctx, departmentID, question)
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(academic)
	if err != nil {
		return "", fmt.Errorf("encode academic context: %w", err)
	}
	return fmt.Sprintf(generalPromptTemplate, question, payload), nil
}

// renderAnswer maps degraded finish reasons to fixed notices. Truncated
// output is still useful and is returned with a suffix rather than
// discarded.
func renderAnswer(c *genai.Completion) string {
	switch c.FinishReason {
	case genai.FinishContentFilter:
		return noticeContentFiltered
	case genai.FinishLength:
		if c.Content == "" {
			return noticeThoughtTooLong
		}
		return c.Content + noticeTruncatedSuffix
	default:
		if c.Content == "" {
			return noticeEmptyCompletion
		}
		return c.Content
	}
}
