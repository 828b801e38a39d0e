package interview

import (
	"math"
	"strings"
	"testing"

	"github.com/prepdeck/interviewd/internal/session"
)

func TestParseScoresComplete(t *testing.T) {
	raw := `{"domain_knowledge": 80, "communication": 70, "confidence": 60, "depth": 90, "final_score": 77, "feedback": "Solid answer with concrete examples."}`

	block := ParseScores(raw)

	if block.Dimensions.DomainKnowledge != 80 || block.Dimensions.Depth != 90 {
		t.Fatalf("unexpected dimensions: %+v", block.Dimensions)
	}
	if block.FinalScore != 77 {
		t.Fatalf("expected oracle-supplied final score 77, got %v", block.FinalScore)
	}
	if block.Feedback != "Solid answer with concrete examples." {
		t.Fatalf("unexpected feedback: %s", block.Feedback)
	}
}

func TestParseScoresDefaultsMissingDimensions(t *testing.T) {
	raw := `{"communication": 90, "feedback": "Clear but shallow."}`

	block := ParseScores(raw)

	if block.Dimensions.DomainKnowledge != DefaultDimensionScore {
		t.Fatalf("expected default for missing domain knowledge, got %v", block.Dimensions.DomainKnowledge)
	}
	if block.Dimensions.Communication != 90 {
		t.Fatalf("expected supplied communication 90, got %v", block.Dimensions.Communication)
	}

	want := WeightedFinalScore(block.Dimensions)
	if math.Abs(block.FinalScore-want) > 1e-9 {
		t.Fatalf("expected weighted final %v, got %v", want, block.FinalScore)
	}
}

func TestWeightedFinalScore(t *testing.T) {
	d := session.DimensionScores{
		DomainKnowledge: 100,
		Communication:   80,
		Confidence:      60,
		Depth:           40,
	}

	// 100*0.30 + 80*0.25 + 60*0.20 + 40*0.25 = 72
	if got := WeightedFinalScore(d); math.Abs(got-72) > 1e-9 {
		t.Fatalf("expected 72, got %v", got)
	}
}

func TestParseScoresUnparsableFallsBackToNeutral(t *testing.T) {
	raw := "The candidate gave a reasonable answer but I cannot produce JSON today. " + strings.Repeat("More detail. ", 40)

	block := ParseScores(raw)

	if block.Dimensions.DomainKnowledge != NeutralDimensionScore ||
		block.Dimensions.Communication != NeutralDimensionScore ||
		block.Dimensions.Confidence != NeutralDimensionScore ||
		block.Dimensions.Depth != NeutralDimensionScore {
		t.Fatalf("expected all neutral dimensions, got %+v", block.Dimensions)
	}
	if block.FinalScore != NeutralDimensionScore {
		t.Fatalf("expected neutral final score, got %v", block.FinalScore)
	}

	if block.Feedback == "" {
		t.Fatalf("feedback must never be empty")
	}
	if len([]rune(block.Feedback)) > fallbackFeedbackLimit {
		t.Fatalf("expected feedback capped at %d runes, got %d", fallbackFeedbackLimit, len([]rune(block.Feedback)))
	}
	if !strings.HasPrefix(block.Feedback, "The candidate gave a reasonable answer") {
		t.Fatalf("expected feedback derived from raw text, got %q", block.Feedback)
	}
}

func TestParseScoresEmptyRawUsesGenericFeedback(t *testing.T) {
	block := ParseScores("")

	if block.Feedback != GenericFeedback {
		t.Fatalf("expected generic feedback, got %q", block.Feedback)
	}
}

func TestParseScoresClampsOutOfRange(t *testing.T) {
	raw := `{"domain_knowledge": 150, "communication": -10, "confidence": 70, "depth": 70, "final_score": 120, "feedback": "odd"}`

	block := ParseScores(raw)

	if block.Dimensions.DomainKnowledge != 100 {
		t.Fatalf("expected domain clamped to 100, got %v", block.Dimensions.DomainKnowledge)
	}
	if block.Dimensions.Communication != 0 {
		t.Fatalf("expected communication clamped to 0, got %v", block.Dimensions.Communication)
	}
	if block.FinalScore != 100 {
		t.Fatalf("expected final clamped to 100, got %v", block.FinalScore)
	}
}
