package report

import (
	"strings"
	"testing"
)

func TestParseNarrativeComplete(t *testing.T) {
	raw := `Here is the final report:
{
  "overall_assessment": "Solid performance across topics.",
  "strengths": ["Go", "API design"],
  "weak_areas": ["System design"],
  "communication_analysis": "Clear and structured.",
  "technical_depth": "Good depth on backend topics.",
  "recommendations": ["Practice distributed systems"],
  "hire_verdict": "Hire",
  "confidence_level": "High",
  "final_score": 82
}`

	narrative := ParseNarrative(raw, 70)

	if narrative.OverallAssessment != "Solid performance across topics." {
		t.Fatalf("unexpected assessment: %q", narrative.OverallAssessment)
	}
	if len(narrative.Strengths) != 2 || narrative.Strengths[0] != "Go" {
		t.Fatalf("unexpected strengths: %v", narrative.Strengths)
	}
	if narrative.HireVerdict != "Hire" {
		t.Fatalf("unexpected verdict: %q", narrative.HireVerdict)
	}
	if narrative.FinalScore != 82 {
		t.Fatalf("expected parsed final score 82, got %v", narrative.FinalScore)
	}
}

func TestParseNarrativeFillsMissingFields(t *testing.T) {
	narrative := ParseNarrative(`{"strengths": ["Go"]}`, 64.5)

	for name, got := range map[string]string{
		"overall_assessment":     narrative.OverallAssessment,
		"communication_analysis": narrative.CommunicationAnalysis,
		"technical_depth":        narrative.TechnicalDepth,
		"hire_verdict":           narrative.HireVerdict,
		"confidence_level":       narrative.ConfidenceLevel,
	} {
		if got != NotAvailable {
			t.Fatalf("%s = %q, want %q", name, got, NotAvailable)
		}
	}
	if narrative.FinalScore != 64.5 {
		t.Fatalf("expected average score fallback, got %v", narrative.FinalScore)
	}
}

func TestParseNarrativeKeepsExplicitZeroScore(t *testing.T) {
	narrative := ParseNarrative(`{"overall_assessment": "Did not engage.", "final_score": 0}`, 68)

	if narrative.FinalScore != 0 {
		t.Fatalf("a reported score of 0 must be kept, got %v", narrative.FinalScore)
	}
	if narrative.OverallAssessment != "Did not engage." {
		t.Fatalf("unexpected assessment: %q", narrative.OverallAssessment)
	}
}

func TestParseNarrativeUnparsableUsesRawText(t *testing.T) {
	raw := "The candidate did well overall but there is no JSON here. " + strings.Repeat("x", 600)

	narrative := ParseNarrative(raw, 71)

	if len([]rune(narrative.OverallAssessment)) != fallbackAssessmentLimit {
		t.Fatalf("expected assessment truncated to %d runes, got %d", fallbackAssessmentLimit, len([]rune(narrative.OverallAssessment)))
	}
	if !strings.HasPrefix(narrative.OverallAssessment, "The candidate did well") {
		t.Fatalf("assessment should carry the raw text, got %q", narrative.OverallAssessment)
	}
	if narrative.FinalScore != 71 {
		t.Fatalf("expected average score, got %v", narrative.FinalScore)
	}
	if narrative.HireVerdict != NotAvailable || narrative.ConfidenceLevel != NotAvailable {
		t.Fatalf("expected sentinel fields, got %+v", narrative)
	}
	if narrative.Strengths == nil || narrative.Recommendations == nil {
		t.Fatalf("list fields must be empty, not nil")
	}
}

func TestParseNarrativeEmptyRaw(t *testing.T) {
	narrative := ParseNarrative("", 55)

	if narrative.OverallAssessment != NotAvailable {
		t.Fatalf("expected %q assessment, got %q", NotAvailable, narrative.OverallAssessment)
	}
	if narrative.FinalScore != 55 {
		t.Fatalf("expected average score, got %v", narrative.FinalScore)
	}
}
