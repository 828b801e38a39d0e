// Package oracle declares the contract with the external text-generation
// collaborator. The oracle is untrusted: every method returns the raw
// model text and the caller applies its own best-effort parsing and
// fallback.
package oracle

import (
	"context"
	"strings"
	"unicode/utf8"
)

// NoResumeSentinel is the placeholder clients send when the candidate
// supplied no résumé.
const NoResumeSentinel = "No resume"

// usableResumeMinLength is the trimmed length a résumé must exceed before
// prompts treat it as real content.
const usableResumeMinLength = 50

// UsableResume reports whether the résumé text is worth feeding to the
// oracle: non-empty after trimming, not the placeholder sentinel, and
// longer than usableResumeMinLength characters. The length is counted in
// runes, not bytes.
func UsableResume(resumeText string) bool {
	trimmed := strings.TrimSpace(resumeText)
	return trimmed != "" && trimmed != NoResumeSentinel && utf8.RuneCountInString(trimmed) > usableResumeMinLength
}

// QuestionRequest asks for the next interview question given the full
// history, so the oracle itself can avoid repeats.
type QuestionRequest struct {
	Role           string
	Experience     string
	Difficulty     string
	ResumeText     string
	AskedQuestions []string
	TopicsCovered  []string
}

// EvaluationRequest asks for a confidence/decision judgment of one answer.
type EvaluationRequest struct {
	Question       string
	Answer         string
	Role           string
	Experience     string
	AskedQuestions []string
	ResumeText     string
}

// ScoringRequest asks for dimensional scores of one question/answer pair.
type ScoringRequest struct {
	Role       string
	Experience string
	Question   string
	Answers    []string
}

// ReportRequest asks for the final narrative report over the whole session.
type ReportRequest struct {
	Role          string
	Experience    string
	Difficulty    string
	Interactions  []ReportInteraction
	TopicsCovered []string
	AverageScore  float64
}

// ReportInteraction is the per-round slice of session state the report
// prompt needs.
type ReportInteraction struct {
	Question   string
	Answer     string
	Feedback   string
	FinalScore float64
}

// Oracle is the external text-generation capability, one method per call
// shape. Implementations return raw model text; transport and parse
// failures are handled by the caller's fallbacks.
type Oracle interface {
	AskQuestion(ctx context.Context, req QuestionRequest) (string, error)
	EvaluateAnswer(ctx context.Context, req EvaluationRequest) (string, error)
	ScoreAnswer(ctx context.Context, req ScoringRequest) (string, error)
	GenerateReport(ctx context.Context, req ReportRequest) (string, error)
}
