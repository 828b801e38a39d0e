// Package gemini implements the oracle contract on top of the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/prepdeck/interviewd/internal/logger"
	"github.com/prepdeck/interviewd/internal/oracle"
)

//go:embed prompts/question.md
var questionTemplate string

//go:embed prompts/evaluate.md
var evaluateTemplate string

//go:embed prompts/score.md
var scoreTemplate string

//go:embed prompts/report.md
var reportTemplate string

const defaultMaxLogLength = 200

// recentQuestionWindow is how many of the most recent asked questions are
// repeated verbatim in evaluation prompts.
const recentQuestionWindow = 5

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Oracle is the Gemini-backed text-generation collaborator.
type Oracle struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

// NewOracle wraps a content generator into the oracle contract.
func NewOracle(generator contentGenerator, log *zap.Logger, maxLogLength int) *Oracle {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Oracle{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// AskQuestion requests the next interview question. The full asked-question
// and topic history goes into the prompt so the model avoids repeats.
func (o *Oracle) AskQuestion(ctx context.Context, req oracle.QuestionRequest) (string, error) {
	prompt := replaceAll(questionTemplate, map[string]string{
		"{{ROLE}}":            req.Role,
		"{{EXPERIENCE}}":      req.Experience,
		"{{DIFFICULTY}}":      req.Difficulty,
		"{{ASKED_QUESTIONS}}": bulletList(req.AskedQuestions, "None yet"),
		"{{TOPICS_COVERED}}":  commaList(req.TopicsCovered, "None yet"),
		"{{RESUME_SECTION}}":  resumeSection(req.ResumeText, req.Role),
	})

	return o.generate(ctx, "ask_question", prompt)
}

// EvaluateAnswer requests a confidence/decision judgment of one answer.
func (o *Oracle) EvaluateAnswer(ctx context.Context, req oracle.EvaluationRequest) (string, error) {
	recent := req.AskedQuestions
	if len(recent) > recentQuestionWindow {
		recent = recent[len(recent)-recentQuestionWindow:]
	}

	prompt := replaceAll(evaluateTemplate, map[string]string{
		"{{QUESTION}}":        req.Question,
		"{{ANSWER}}":          req.Answer,
		"{{ROLE}}":            req.Role,
		"{{EXPERIENCE}}":      req.Experience,
		"{{ASKED_QUESTIONS}}": bulletList(recent, "None yet"),
		"{{RESUME_SECTION}}":  resumeSection(req.ResumeText, req.Role),
	})

	return o.generate(ctx, "evaluate_answer", prompt)
}

// ScoreAnswer requests dimensional scores for one question/answer pair.
func (o *Oracle) ScoreAnswer(ctx context.Context, req oracle.ScoringRequest) (string, error) {
	answers := make([]string, 0, len(req.Answers))
	for i, a := range req.Answers {
		answers = append(answers, fmt.Sprintf("A%d: %s", i+1, a))
	}

	prompt := replaceAll(scoreTemplate, map[string]string{
		"{{ROLE}}":       req.Role,
		"{{EXPERIENCE}}": req.Experience,
		"{{QUESTION}}":   req.Question,
		"{{ANSWERS}}":    strings.Join(answers, "\n"),
	})

	return o.generate(ctx, "score_answer", prompt)
}

// GenerateReport requests the final narrative report.
func (o *Oracle) GenerateReport(ctx context.Context, req oracle.ReportRequest) (string, error) {
	var blocks strings.Builder
	for i, interaction := range req.Interactions {
		fmt.Fprintf(&blocks, "Q%d: %s\n", i+1, interaction.Question)
		fmt.Fprintf(&blocks, "A%d: %s\n", i+1, interaction.Answer)
		fmt.Fprintf(&blocks, "Score: %.0f/100, Feedback: %s\n\n", interaction.FinalScore, interaction.Feedback)
	}
	if blocks.Len() == 0 {
		blocks.WriteString("No interactions recorded.\n")
	}

	prompt := replaceAll(reportTemplate, map[string]string{
		"{{ROLE}}":           req.Role,
		"{{EXPERIENCE}}":     req.Experience,
		"{{DIFFICULTY}}":     req.Difficulty,
		"{{INTERACTIONS}}":   blocks.String(),
		"{{TOPICS_COVERED}}": commaList(req.TopicsCovered, "None"),
		"{{AVERAGE_SCORE}}":  fmt.Sprintf("%.1f", req.AverageScore),
	})

	return o.generate(ctx, "generate_report", prompt)
}

func (o *Oracle) generate(ctx context.Context, call, prompt string) (string, error) {
	o.logger.Debug("gemini request",
		zap.String("call", call),
		zap.String("model", o.generator.Model()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, o.maxLogLen)),
	)

	raw, err := o.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}

	o.logger.Debug("gemini response",
		zap.String("call", call),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, o.maxLogLen)),
	)

	return raw, nil
}

func replaceAll(template string, replacements map[string]string) string {
	for placeholder, value := range replacements {
		template = strings.ReplaceAll(template, placeholder, value)
	}
	return template
}

func bulletList(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "- "+item)
	}
	return strings.Join(lines, "\n")
}

func commaList(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	return strings.Join(items, ", ")
}

func resumeSection(resumeText, role string) string {
	if !oracle.UsableResume(resumeText) {
		return fmt.Sprintf("NO RESUME PROVIDED - ask generic role-based questions about the %s position.", role)
	}

	return fmt.Sprintf(`CANDIDATE'S RESUME AND BACKGROUND:
%s

Prioritize questions about the specific skills, projects, and work
experience listed above, and relate them to the %s position.`, strings.TrimSpace(resumeText), role)
}
