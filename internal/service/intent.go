package service

import "strings"

// QuestionIntent routes an assistant question to a context strategy.
type QuestionIntent string

const (
	// IntentGeneral uses the detailed marks-plus-attendance context.
	IntentGeneral QuestionIntent = "general"
	// IntentAttendance uses the aggregated attendance summary.
	IntentAttendance QuestionIntent = "attendance"
)

var attendanceKeywords = []string{
	"attendance",
	"present",
	"absent",
	"absentee",
	"absenteeism",
	"regularity",
	"punctuality",
	"classes attended",
	"missed classes",
}

var academicKeywords = []string{
	"mark",
	"grade",
	"score",
	"result",
	"fail",
	"pass",
	"performance",
}

// ClassifyQuestion picks the context strategy for a question. Academic
// keywords win over attendance keywords: a question mixing both ("marks and
// attendance of John") needs the detailed context, which already includes
// attendance rows.
func ClassifyQuestion(question string) QuestionIntent {
	text := strings.ToLower(question)

	for _, kw := range academicKeywords {
		if strings.Contains(text, kw) {
			return IntentGeneral
		}
	}
	for _, kw := range attendanceKeywords {
		if strings.Contains(text, kw) {
			return IntentAttendance
		}
	}
	return IntentGeneral
}
