package interview

import (
	"strings"

	"github.com/prepdeck/interviewd/internal/extract"
)

// Decision is the next-action category derived from the evaluator's
// confidence in the candidate's answer.
type Decision string

const (
	// DecisionFollowUp asks a clarifying question on the same topic.
	DecisionFollowUp Decision = "followup"
	// DecisionHardFollowUp challenges a good answer with a deeper question.
	DecisionHardFollowUp Decision = "hard_followup"
	// DecisionDifferentQuestion abandons the topic after a weak answer.
	DecisionDifferentQuestion Decision = "different_question"
)

// Confidence bands. Boundary convention: both 30 and 70 belong to the
// follow-up band, so <30 moves on, 30-70 inclusive clarifies, >70 digs
// deeper.
const (
	differentQuestionBelow = 30.0
	hardFollowUpAbove      = 70.0
)

// Fallback evaluation used whenever the evaluator's output cannot be
// parsed. A deliberate degradation, not an error.
const (
	FallbackConfidence = 50.0
	FallbackReasoning  = "parse failure"
)

// Evaluation is the policy's view of one evaluator response.
type Evaluation struct {
	Confidence float64
	Decision   Decision
	Reasoning  string
}

// Decide maps a confidence value to its decision category. Out-of-range
// values are clamped to [0,100] first; the oracle is untrusted.
func Decide(confidence float64) Decision {
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}

	switch {
	case confidence < differentQuestionBelow:
		return DecisionDifferentQuestion
	case confidence > hardFollowUpAbove:
		return DecisionHardFollowUp
	default:
		return DecisionFollowUp
	}
}

// FallbackEvaluation returns the documented safe default applied on any
// evaluator failure.
func FallbackEvaluation() Evaluation {
	return Evaluation{
		Confidence: FallbackConfidence,
		Decision:   DecisionFollowUp,
		Reasoning:  FallbackReasoning,
	}
}

// ParseEvaluation turns raw evaluator text into an Evaluation. It never
// fails: malformed output, missing fields, or a non-numeric confidence all
// degrade to FallbackEvaluation. The decision is always re-derived from
// the confidence so the two cannot disagree.
func ParseEvaluation(raw string) Evaluation {
	var decoded struct {
		Confidence *float64 `mapstructure:"confidence"`
		Decision   string   `mapstructure:"decision"`
		Reasoning  string   `mapstructure:"reasoning"`
	}

	if err := extract.Decode(raw, &decoded); err != nil {
		return FallbackEvaluation()
	}

	if decoded.Confidence == nil {
		return FallbackEvaluation()
	}

	confidence := *decoded.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}

	return Evaluation{
		Confidence: confidence,
		Decision:   Decide(confidence),
		Reasoning:  strings.TrimSpace(decoded.Reasoning),
	}
}
