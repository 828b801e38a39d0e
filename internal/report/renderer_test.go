package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prepdeck/interviewd/internal/session"
)

func TestPerformanceLabel(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{92, labelExcellent},
		{85, labelExcellent},
		{84.9, labelGood},
		{70, labelGood},
		{69.9, labelAverage},
		{55, labelAverage},
		{54.9, labelNeedsImprovement},
		{0, labelNeedsImprovement},
	}

	for _, tc := range cases {
		if got := PerformanceLabel(tc.score); got != tc.want {
			t.Errorf("PerformanceLabel(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func summaryWithScores(scores session.DimensionScores) *session.Summary {
	return &session.Summary{
		SessionID:         "s1",
		Role:              "Backend Engineer",
		Experience:        "2-3",
		Difficulty:        "Medium",
		TotalQuestions:    2,
		TotalInteractions: 1,
		TopicsCovered:     []string{"introduction", "followup"},
		AverageScore:      scores.DomainKnowledge,
		Interactions: []session.Interaction{
			{
				Question:   "What is a goroutine?",
				Answer:     "A lightweight thread managed by the runtime.",
				Feedback:   "Accurate.",
				Scores:     scores,
				FinalScore: scores.DomainKnowledge,
			},
		},
	}
}

func TestAnalyzeStrengthsAndWeaknesses(t *testing.T) {
	summary := summaryWithScores(session.DimensionScores{
		DomainKnowledge: 90,
		Communication:   60,
		Confidence:      70,
		Depth:           80,
	})

	analysis := Analyze(summary)

	if len(analysis.Strengths) != 2 {
		t.Fatalf("expected 2 strengths (domain, depth), got %v", analysis.Strengths)
	}
	if len(analysis.Weaknesses) != 1 || !strings.Contains(analysis.Weaknesses[0], "Communication") {
		t.Fatalf("expected one communication weakness, got %v", analysis.Weaknesses)
	}
	// One targeted recommendation plus the always-present review entry.
	if len(analysis.Recommendations) != 2 {
		t.Fatalf("expected 2 recommendations, got %v", analysis.Recommendations)
	}
}

func TestAnalyzeFallbacksWhenNothingStandsOut(t *testing.T) {
	summary := summaryWithScores(session.DimensionScores{
		DomainKnowledge: 70,
		Communication:   70,
		Confidence:      70,
		Depth:           70,
	})

	analysis := Analyze(summary)

	if len(analysis.Strengths) != 1 || analysis.Strengths[0] != "Good effort in attempting all questions" {
		t.Fatalf("expected generic strength, got %v", analysis.Strengths)
	}
	if len(analysis.Weaknesses) != 1 || analysis.Weaknesses[0] != "No major weaknesses identified" {
		t.Fatalf("expected generic weakness, got %v", analysis.Weaknesses)
	}
	if len(analysis.Recommendations) != 3 {
		t.Fatalf("expected 2 generic recommendations plus the review entry, got %v", analysis.Recommendations)
	}
}

func TestAnalyzeEmptySummary(t *testing.T) {
	analysis := Analyze(&session.Summary{})

	if len(analysis.Strengths) == 0 || len(analysis.Weaknesses) == 0 || len(analysis.Recommendations) == 0 {
		t.Fatalf("empty summary must still produce fallback entries: %+v", analysis)
	}
}

func TestRenderWritesDocument(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir)
	r.now = func() time.Time { return time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC) }

	summary := summaryWithScores(session.DimensionScores{
		DomainKnowledge: 80,
		Communication:   78,
		Confidence:      76,
		Depth:           82,
	})
	narrative := Narrative{
		OverallAssessment: "Strong candidate.",
		HireVerdict:       "Hire",
		FinalScore:        80,
	}

	path, err := r.Render(summary, narrative)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if filepath.Base(path) != "interview_report_20260314_150926.md" {
		t.Fatalf("unexpected file name: %q", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read rendered file: %v", err)
	}
	doc := string(data)

	for _, want := range []string{
		"# Interview Performance Report",
		"| Role | Backend Engineer |",
		"**Performance Level:** Good",
		"## Interviewer Assessment",
		"Strong candidate.",
		"**Verdict:** Hire",
		"**Question:** What is a goroutine?",
		"## Topics Covered",
		"introduction, followup",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestRenderTruncatesLongAnswers(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir)

	summary := summaryWithScores(session.DimensionScores{})
	summary.Interactions[0].Answer = strings.Repeat("a", 250)

	path, err := r.Render(summary, Narrative{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read rendered file: %v", err)
	}

	if !strings.Contains(string(data), strings.Repeat("a", 200)+"...") {
		t.Fatalf("expected the answer truncated at 200 runes with an ellipsis")
	}
	if strings.Contains(string(data), strings.Repeat("a", 201)) {
		t.Fatalf("answer was not truncated")
	}
}

func TestRenderSkipsAssessmentWhenNotAvailable(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir)

	summary := summaryWithScores(session.DimensionScores{})
	narrative := Narrative{OverallAssessment: NotAvailable, HireVerdict: NotAvailable}

	path, err := r.Render(summary, narrative)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read rendered file: %v", err)
	}

	if strings.Contains(string(data), "## Interviewer Assessment") {
		t.Fatalf("assessment section must be skipped for sentinel narratives")
	}
}

func TestRenderNilSummary(t *testing.T) {
	r := NewRenderer(t.TempDir())

	if _, err := r.Render(nil, Narrative{}); err == nil {
		t.Fatalf("expected error for nil summary")
	}
}
