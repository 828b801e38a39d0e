package interview

import (
	"strings"

	"github.com/prepdeck/interviewd/internal/extract"
	"github.com/prepdeck/interviewd/internal/session"
)

// Scoring defaults. The scorer's output is best-effort: individually
// missing dimensions get DefaultDimensionScore, while a response with no
// parsable object at all falls back to NeutralDimensionScore across the
// board.
const (
	DefaultDimensionScore = 70.0
	NeutralDimensionScore = 75.0

	// GenericFeedback fills the feedback field when the scorer supplied
	// nothing usable. The field is never left empty.
	GenericFeedback = "Feedback generated"

	fallbackFeedbackLimit = 300
)

// Final-score weights, applied when the scorer does not supply its own
// combined value. They sum to 1.0.
const (
	weightDomainKnowledge = 0.30
	weightCommunication   = 0.25
	weightConfidence      = 0.20
	weightDepth           = 0.25
)

// ScoreBlock is one normalized scoring result.
type ScoreBlock struct {
	Dimensions session.DimensionScores
	FinalScore float64
	Feedback   string
}

// WeightedFinalScore combines the four dimensions with the fixed weights.
func WeightedFinalScore(d session.DimensionScores) float64 {
	return d.DomainKnowledge*weightDomainKnowledge +
		d.Communication*weightCommunication +
		d.Confidence*weightConfidence +
		d.Depth*weightDepth
}

// ParseScores normalizes raw scorer output into a ScoreBlock. It never
// fails. When no JSON object can be extracted, every dimension and the
// final score fall back to NeutralDimensionScore and the feedback carries
// the first fallbackFeedbackLimit characters of the raw text. When the
// object parses, missing dimensions default to DefaultDimensionScore and
// a missing final score is computed with the weighted formula.
func ParseScores(raw string) ScoreBlock {
	var decoded struct {
		DomainKnowledge *float64 `mapstructure:"domain_knowledge"`
		Communication   *float64 `mapstructure:"communication"`
		Confidence      *float64 `mapstructure:"confidence"`
		Depth           *float64 `mapstructure:"depth"`
		FinalScore      *float64 `mapstructure:"final_score"`
		Feedback        string   `mapstructure:"feedback"`
	}

	if err := extract.Decode(raw, &decoded); err != nil {
		feedback := truncate(strings.TrimSpace(raw), fallbackFeedbackLimit)
		if feedback == "" {
			feedback = GenericFeedback
		}
		return ScoreBlock{
			Dimensions: session.DimensionScores{
				DomainKnowledge: NeutralDimensionScore,
				Communication:   NeutralDimensionScore,
				Confidence:      NeutralDimensionScore,
				Depth:           NeutralDimensionScore,
			},
			FinalScore: NeutralDimensionScore,
			Feedback:   feedback,
		}
	}

	block := ScoreBlock{
		Dimensions: session.DimensionScores{
			DomainKnowledge: dimensionOrDefault(decoded.DomainKnowledge),
			Communication:   dimensionOrDefault(decoded.Communication),
			Confidence:      dimensionOrDefault(decoded.Confidence),
			Depth:           dimensionOrDefault(decoded.Depth),
		},
	}

	if decoded.FinalScore != nil {
		block.FinalScore = clampScore(*decoded.FinalScore)
	} else {
		block.FinalScore = WeightedFinalScore(block.Dimensions)
	}

	block.Feedback = strings.TrimSpace(decoded.Feedback)
	if block.Feedback == "" {
		block.Feedback = GenericFeedback
	}

	return block
}

func dimensionOrDefault(v *float64) float64 {
	if v == nil {
		return DefaultDimensionScore
	}
	return clampScore(*v)
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
