// Package interview drives one mock interview: start, a loop of answer
// rounds, and a final report. It composes the session store, the decision
// policy, the scoring aggregator, and the external oracle.
package interview

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/prepdeck/interviewd/internal/logger"
	"github.com/prepdeck/interviewd/internal/oracle"
	"github.com/prepdeck/interviewd/internal/report"
	"github.com/prepdeck/interviewd/internal/session"
)

// ErrSessionNotFound is returned by Answer and End when the session id was
// never started, already ended, or swept.
var ErrSessionNotFound = errors.New("session not found")

// topicIntroduction tags the opening question of every interview.
const topicIntroduction = "introduction"

// fallbackQuestion keeps the interview moving when the question oracle
// call fails outright.
const fallbackQuestion = "Tell me about a challenging problem you solved recently and how you approached it."

const responsePreviewLen = 200

var timeNow = time.Now

// DocumentRenderer persists the final report document. Render failures are
// logged and tolerated.
type DocumentRenderer interface {
	Render(summary *session.Summary, narrative report.Narrative) (string, error)
}

// ConversationEntry is one turn of the client-held transcript.
type ConversationEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RoleInterviewer marks transcript entries authored by the interviewer.
const RoleInterviewer = "interviewer"

// StartParams describes a new interview.
type StartParams struct {
	SessionID  string
	Role       string
	Experience string
	Difficulty string
	ResumeText string
}

// AnswerParams carries one candidate answer.
type AnswerParams struct {
	SessionID string
	Answer    string
	History   []ConversationEntry
}

// AnswerResult is the client-visible outcome of one answer round.
type AnswerResult struct {
	Question   string
	Feedback   string
	Score      float64
	IsFollowup bool
	Confidence float64
	SessionID  string
}

// EndResult is the final report bundle.
type EndResult struct {
	Report       report.Narrative
	DocumentPath string
	Summary      *session.Summary
}

// Orchestrator owns the interview state machine for every live session.
type Orchestrator struct {
	store    *session.Store
	oracle   oracle.Oracle
	renderer DocumentRenderer
	logger   *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates an orchestrator. The renderer may be nil, in which case no
// document is produced on End.
func New(store *session.Store, o oracle.Oracle, renderer DocumentRenderer, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		store:    store,
		oracle:   o,
		renderer: renderer,
		logger:   log,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Start creates a session and returns the first question, tagged as the
// introduction topic with sequence 1.
func (o *Orchestrator) Start(ctx context.Context, params StartParams) (string, error) {
	unlock := o.lock(params.SessionID)
	defer unlock()

	o.store.Create(params.SessionID, params.Role, params.Experience, params.Difficulty, params.ResumeText)

	question, err := o.oracle.AskQuestion(ctx, oracle.QuestionRequest{
		Role:       params.Role,
		Experience: params.Experience,
		Difficulty: params.Difficulty,
		ResumeText: params.ResumeText,
	})
	if err != nil {
		o.logger.Warn("first question call failed, using fallback",
			zap.String("session_id", params.SessionID),
			zap.Error(err),
		)
		question = fallbackQuestion
	}
	question = strings.TrimSpace(question)
	if question == "" {
		question = fallbackQuestion
	}

	o.store.AppendQuestion(params.SessionID, question, topicIntroduction, 1)
	o.store.AddTopic(params.SessionID, topicIntroduction)
	o.store.SetCurrentTopic(params.SessionID, topicIntroduction)

	o.logger.Info("interview started",
		zap.String("session_id", params.SessionID),
		zap.String("role", params.Role),
		zap.Bool("resume_usable", oracle.UsableResume(params.ResumeText)),
	)

	return question, nil
}

// Answer processes one candidate answer: the evaluator judges it, the
// decision policy picks the follow-up category, a fresh question is
// requested with the full history, and the previous question/answer pair
// is scored and appended. Each oracle call has its own fallback, so the
// round always completes once the session exists.
func (o *Orchestrator) Answer(ctx context.Context, params AnswerParams) (*AnswerResult, error) {
	unlock := o.lock(params.SessionID)
	defer unlock()

	sess, ok := o.store.Get(params.SessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	currentQuestion := lastInterviewerEntry(params.History)
	asked := askedQuestionTexts(sess)

	resumeForPrompt := ""
	if oracle.UsableResume(sess.ResumeText) {
		resumeForPrompt = sess.ResumeText
	}

	evaluation := o.evaluate(ctx, sess, currentQuestion, params.Answer, asked, resumeForPrompt)

	nextQuestion := o.nextQuestion(ctx, sess, asked)

	seq := sess.QuestionCount + 1
	topic := string(evaluation.Decision)
	o.store.AppendQuestion(params.SessionID, nextQuestion, topic, seq)
	o.store.AddTopic(params.SessionID, topic)
	o.store.SetCurrentTopic(params.SessionID, topic)

	scores := o.score(ctx, sess, currentQuestion, params.Answer)

	o.store.AppendInteraction(params.SessionID, session.Interaction{
		Question:   currentQuestion,
		Answer:     params.Answer,
		Feedback:   scores.Feedback,
		Scores:     scores.Dimensions,
		FinalScore: scores.FinalScore,
	})

	o.logger.Info("answer processed",
		zap.String("session_id", params.SessionID),
		zap.Float64("confidence", evaluation.Confidence),
		zap.String("decision", string(evaluation.Decision)),
		zap.Float64("score", scores.FinalScore),
	)

	return &AnswerResult{
		Question:   nextQuestion,
		Feedback:   scores.Feedback,
		Score:      scores.FinalScore,
		IsFollowup: evaluation.Decision == DecisionFollowUp,
		Confidence: evaluation.Confidence,
		SessionID:  params.SessionID,
	}, nil
}

// End finalizes the interview: builds the summary, asks the oracle for the
// narrative report, renders the document best-effort, deletes the session,
// and returns everything to the caller.
func (o *Orchestrator) End(ctx context.Context, sessionID string) (*EndResult, error) {
	unlock := o.lock(sessionID)
	defer unlock()

	summary, ok := o.store.Summary(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	raw, err := o.oracle.GenerateReport(ctx, oracle.ReportRequest{
		Role:          summary.Role,
		Experience:    summary.Experience,
		Difficulty:    summary.Difficulty,
		Interactions:  reportInteractions(summary),
		TopicsCovered: summary.TopicsCovered,
		AverageScore:  summary.AverageScore,
	})
	if err != nil {
		o.logger.Warn("report call failed, using fallback",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		raw = ""
	}
	narrative := report.ParseNarrative(raw, summary.AverageScore)

	documentPath := ""
	if o.renderer != nil {
		path, err := o.renderer.Render(summary, narrative)
		if err != nil {
			o.logger.Error("report document generation failed",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
		} else {
			documentPath = path
		}
	}

	o.store.Delete(sessionID)
	o.forget(sessionID)

	o.logger.Info("interview ended",
		zap.String("session_id", sessionID),
		zap.Int("total_interactions", summary.TotalInteractions),
		zap.Float64("average_score", summary.AverageScore),
	)

	return &EndResult{
		Report:       narrative,
		DocumentPath: documentPath,
		Summary:      summary,
	}, nil
}

// Sweep removes expired sessions from the store and drops the lock
// entries of sessions that no longer exist, so abandoned interviews do
// not accumulate orchestrator state.
func (o *Orchestrator) Sweep() int {
	removed := o.store.SweepExpired(timeNow())
	o.pruneLocks()
	if removed > 0 {
		o.logger.Info("swept expired sessions", zap.Int("removed", removed))
	}
	return removed
}

// pruneLocks deletes lock entries whose session is gone from the store.
// A mutex that is currently held is skipped; the holder's operation fails
// on the session lookup and the entry goes on the next sweep.
func (o *Orchestrator) pruneLocks() {
	o.mu.Lock()
	defer o.mu.Unlock()

	for id, m := range o.locks {
		if _, ok := o.store.Get(id); ok {
			continue
		}
		if m.TryLock() {
			m.Unlock()
			delete(o.locks, id)
		}
	}
}

func (o *Orchestrator) evaluate(ctx context.Context, sess *session.Session, question, answer string, asked []string, resumeText string) Evaluation {
	raw, err := o.oracle.EvaluateAnswer(ctx, oracle.EvaluationRequest{
		Question:       question,
		Answer:         answer,
		Role:           sess.Role,
		Experience:     sess.Experience,
		AskedQuestions: asked,
		ResumeText:     resumeText,
	})
	if err != nil {
		o.logger.Warn("evaluator call failed, using fallback",
			zap.String("session_id", sess.ID),
			zap.Error(err),
		)
		return FallbackEvaluation()
	}

	o.logger.Debug("evaluator response",
		zap.String("session_id", sess.ID),
		zap.String("preview", logger.TruncateForLog(raw, responsePreviewLen)),
	)

	return ParseEvaluation(raw)
}

func (o *Orchestrator) nextQuestion(ctx context.Context, sess *session.Session, asked []string) string {
	raw, err := o.oracle.AskQuestion(ctx, oracle.QuestionRequest{
		Role:           sess.Role,
		Experience:     sess.Experience,
		Difficulty:     sess.Difficulty,
		ResumeText:     sess.ResumeText,
		AskedQuestions: asked,
		TopicsCovered:  sess.TopicsCovered,
	})
	if err != nil {
		o.logger.Warn("question call failed, using fallback",
			zap.String("session_id", sess.ID),
			zap.Error(err),
		)
		return fallbackQuestion
	}

	question := strings.TrimSpace(raw)
	if question == "" {
		return fallbackQuestion
	}
	return question
}

func (o *Orchestrator) score(ctx context.Context, sess *session.Session, question, answer string) ScoreBlock {
	raw, err := o.oracle.ScoreAnswer(ctx, oracle.ScoringRequest{
		Role:       sess.Role,
		Experience: sess.Experience,
		Question:   question,
		Answers:    []string{answer},
	})
	if err != nil {
		o.logger.Warn("scorer call failed, using fallback",
			zap.String("session_id", sess.ID),
			zap.Error(err),
		)
		raw = ""
	} else {
		o.logger.Debug("scorer response",
			zap.String("session_id", sess.ID),
			zap.String("preview", logger.TruncateForLog(raw, responsePreviewLen)),
		)
	}

	return ParseScores(raw)
}

// lock serializes all operations on one session id.
func (o *Orchestrator) lock(id string) func() {
	o.mu.Lock()
	m, ok := o.locks[id]
	if !ok {
		m = &sync.Mutex{}
		o.locks[id] = m
	}
	o.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// forget drops the per-session lock once the session is gone. Callers must
// hold the lock being forgotten.
func (o *Orchestrator) forget(id string) {
	o.mu.Lock()
	delete(o.locks, id)
	o.mu.Unlock()
}

func lastInterviewerEntry(history []ConversationEntry) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == RoleInterviewer {
			return history[i].Content
		}
	}
	return ""
}

func askedQuestionTexts(sess *session.Session) []string {
	texts := make([]string, 0, len(sess.AskedQuestions))
	for _, q := range sess.AskedQuestions {
		texts = append(texts, q.Text)
	}
	return texts
}

func reportInteractions(summary *session.Summary) []oracle.ReportInteraction {
	interactions := make([]oracle.ReportInteraction, 0, len(summary.Interactions))
	for _, block := range summary.Interactions {
		interactions = append(interactions, oracle.ReportInteraction{
			Question:   block.Question,
			Answer:     block.Answer,
			Feedback:   block.Feedback,
			FinalScore: block.FinalScore,
		})
	}
	return interactions
}
