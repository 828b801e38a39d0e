package interview

import "testing"

func TestDecideBands(t *testing.T) {
	cases := []struct {
		confidence float64
		want       Decision
	}{
		{15, DecisionDifferentQuestion},
		{29.9, DecisionDifferentQuestion},
		{30, DecisionFollowUp},
		{50, DecisionFollowUp},
		{70, DecisionFollowUp},
		{70.1, DecisionHardFollowUp},
		{85, DecisionHardFollowUp},
		{-20, DecisionDifferentQuestion},
		{400, DecisionHardFollowUp},
	}

	for _, tc := range cases {
		if got := Decide(tc.confidence); got != tc.want {
			t.Fatalf("Decide(%v) = %s, want %s", tc.confidence, got, tc.want)
		}
	}
}

func TestParseEvaluation(t *testing.T) {
	eval := ParseEvaluation(`{"confidence": 85, "decision": "hard_followup", "reasoning": "Strong answer"}`)

	if eval.Confidence != 85 {
		t.Fatalf("expected confidence 85, got %v", eval.Confidence)
	}
	if eval.Decision != DecisionHardFollowUp {
		t.Fatalf("expected hard_followup, got %s", eval.Decision)
	}
	if eval.Reasoning != "Strong answer" {
		t.Fatalf("unexpected reasoning: %s", eval.Reasoning)
	}
}

func TestParseEvaluationRederivesDecision(t *testing.T) {
	// The decision always follows the confidence band, even when the
	// oracle's own decision string disagrees.
	eval := ParseEvaluation(`{"confidence": 10, "decision": "hard_followup", "reasoning": "contradictory"}`)

	if eval.Decision != DecisionDifferentQuestion {
		t.Fatalf("expected decision derived from confidence, got %s", eval.Decision)
	}
}

func TestParseEvaluationCodeFence(t *testing.T) {
	raw := "```json\n{\"confidence\": \"42\", \"decision\": \"followup\", \"reasoning\": \"partial\"}\n```"
	eval := ParseEvaluation(raw)

	if eval.Confidence != 42 {
		t.Fatalf("expected string confidence to decode, got %v", eval.Confidence)
	}
	if eval.Decision != DecisionFollowUp {
		t.Fatalf("expected followup, got %s", eval.Decision)
	}
}

func TestParseEvaluationFallbacks(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"no braces", "the answer was okay I suppose"},
		{"malformed json", "{confidence: lots}"},
		{"missing confidence", `{"decision": "followup", "reasoning": "no number"}`},
		{"non-numeric confidence", `{"confidence": "very high"}`},
		{"empty", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			eval := ParseEvaluation(tc.raw)

			if eval.Confidence != FallbackConfidence {
				t.Fatalf("expected fallback confidence %v, got %v", FallbackConfidence, eval.Confidence)
			}
			if eval.Decision != DecisionFollowUp {
				t.Fatalf("expected fallback decision followup, got %s", eval.Decision)
			}
			if eval.Reasoning != FallbackReasoning {
				t.Fatalf("expected fallback reasoning, got %q", eval.Reasoning)
			}
		})
	}
}

func TestParseEvaluationClampsConfidence(t *testing.T) {
	eval := ParseEvaluation(`{"confidence": 250, "reasoning": "overeager"}`)

	if eval.Confidence != 100 {
		t.Fatalf("expected clamped confidence 100, got %v", eval.Confidence)
	}
	if eval.Decision != DecisionHardFollowUp {
		t.Fatalf("expected hard_followup after clamping, got %s", eval.Decision)
	}
}
