// Package report turns a finalized interview session into a rendered
// document plus a parsed narrative from the oracle.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prepdeck/interviewd/internal/session"
)

// Performance labels and their score thresholds.
const (
	labelExcellent        = "Excellent"
	labelGood             = "Good"
	labelAverage          = "Average"
	labelNeedsImprovement = "Needs Improvement"

	excellentAt = 85.0
	goodAt      = 70.0
	averageAt   = 55.0
)

// Dimension thresholds for the analysis section.
const (
	strengthAbove = 75.0
	weaknessBelow = 65.0
)

// Renderer writes one Markdown document per completed interview into a
// fixed output directory.
type Renderer struct {
	dir string
	now func() time.Time
}

// NewRenderer creates a renderer writing into dir. The directory is
// created on first render.
func NewRenderer(dir string) *Renderer {
	return &Renderer{dir: dir, now: time.Now}
}

// Render writes the report document for the given session snapshot and
// returns the path of the written file.
func (r *Renderer) Render(summary *session.Summary, narrative Narrative) (string, error) {
	if summary == nil {
		return "", fmt.Errorf("session summary is required")
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports directory: %w", err)
	}

	now := r.now()
	path := filepath.Join(r.dir, fmt.Sprintf("interview_report_%s.md", now.Format("20060102_150405")))

	doc := r.build(summary, narrative, now)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	return path, nil
}

func (r *Renderer) build(summary *session.Summary, narrative Narrative, now time.Time) string {
	var b strings.Builder

	b.WriteString("# Interview Performance Report\n\n")

	b.WriteString("## Session Information\n\n")
	fmt.Fprintf(&b, "| Role | %s |\n", summary.Role)
	b.WriteString("|---|---|\n")
	fmt.Fprintf(&b, "| Experience Level | %s |\n", summary.Experience)
	fmt.Fprintf(&b, "| Difficulty | %s |\n", summary.Difficulty)
	fmt.Fprintf(&b, "| Date | %s |\n", now.Format("January 2, 2006 at 3:04 PM"))
	fmt.Fprintf(&b, "| Total Questions | %d |\n", summary.TotalQuestions)
	fmt.Fprintf(&b, "| Total Interactions | %d |\n\n", summary.TotalInteractions)

	b.WriteString("## Overall Performance\n\n")
	fmt.Fprintf(&b, "**Final Score:** %.1f/100\n\n", summary.AverageScore)
	fmt.Fprintf(&b, "**Performance Level:** %s\n\n", PerformanceLabel(summary.AverageScore))

	if narrative.OverallAssessment != "" && narrative.OverallAssessment != NotAvailable {
		b.WriteString("## Interviewer Assessment\n\n")
		b.WriteString(narrative.OverallAssessment)
		b.WriteString("\n\n")
		if narrative.HireVerdict != "" && narrative.HireVerdict != NotAvailable {
			fmt.Fprintf(&b, "**Verdict:** %s\n\n", narrative.HireVerdict)
		}
	}

	b.WriteString("## Detailed Feedback by Question\n\n")
	for i, interaction := range summary.Interactions {
		fmt.Fprintf(&b, "### Question %d\n\n", i+1)
		fmt.Fprintf(&b, "**Question:** %s\n\n", interaction.Question)
		answer := interaction.Answer
		if runes := []rune(answer); len(runes) > 200 {
			answer = string(runes[:200]) + "..."
		}
		fmt.Fprintf(&b, "**Your Answer:** %s\n\n", answer)
		fmt.Fprintf(&b,
			"**Scores:** Domain Knowledge: %.0f/100 | Communication: %.0f/100 | Confidence: %.0f/100 | Depth: %.0f/100\n\n",
			interaction.Scores.DomainKnowledge,
			interaction.Scores.Communication,
			interaction.Scores.Confidence,
			interaction.Scores.Depth,
		)
		fmt.Fprintf(&b, "**Feedback:** %s\n\n", interaction.Feedback)
	}

	analysis := Analyze(summary)

	b.WriteString("## Analysis & Recommendations\n\n")
	b.WriteString("### Strengths\n\n")
	for _, s := range analysis.Strengths {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	b.WriteString("\n### Areas for Improvement\n\n")
	for _, w := range analysis.Weaknesses {
		fmt.Fprintf(&b, "- %s\n", w)
	}
	b.WriteString("\n### Recommendations\n\n")
	for _, rec := range analysis.Recommendations {
		fmt.Fprintf(&b, "- %s\n", rec)
	}

	if len(summary.TopicsCovered) > 0 {
		b.WriteString("\n## Topics Covered\n\n")
		b.WriteString(strings.Join(summary.TopicsCovered, ", "))
		b.WriteString("\n")
	}

	return b.String()
}

// PerformanceLabel maps the average score to its qualitative label.
func PerformanceLabel(average float64) string {
	switch {
	case average >= excellentAt:
		return labelExcellent
	case average >= goodAt:
		return labelGood
	case average >= averageAt:
		return labelAverage
	default:
		return labelNeedsImprovement
	}
}

// Analysis is the derived strengths/weaknesses breakdown.
type Analysis struct {
	Strengths       []string
	Weaknesses      []string
	Recommendations []string
}

// Analyze computes per-dimension averages across all interactions and
// derives strengths (average above 75) and weaknesses (average below 65)
// with matching recommendations. Empty lists get a generic fallback entry
// rather than staying empty.
func Analyze(summary *session.Summary) Analysis {
	var analysis Analysis

	n := float64(len(summary.Interactions))
	var domain, communication, confidence, depth float64
	for _, interaction := range summary.Interactions {
		domain += interaction.Scores.DomainKnowledge
		communication += interaction.Scores.Communication
		confidence += interaction.Scores.Confidence
		depth += interaction.Scores.Depth
	}
	if n > 0 {
		domain /= n
		communication /= n
		confidence /= n
		depth /= n
	}

	if domain > strengthAbove {
		analysis.Strengths = append(analysis.Strengths, "Strong domain knowledge and technical understanding")
	}
	if communication > strengthAbove {
		analysis.Strengths = append(analysis.Strengths, "Clear and effective communication skills")
	}
	if confidence > strengthAbove {
		analysis.Strengths = append(analysis.Strengths, "High confidence and conviction in answers")
	}
	if depth > strengthAbove {
		analysis.Strengths = append(analysis.Strengths, "Ability to provide detailed and comprehensive answers")
	}

	if domain < weaknessBelow {
		analysis.Weaknesses = append(analysis.Weaknesses, fmt.Sprintf("Domain knowledge needs improvement (Current: %.0f/100)", domain))
		analysis.Recommendations = append(analysis.Recommendations, "Study core concepts and practice technical problems")
	}
	if communication < weaknessBelow {
		analysis.Weaknesses = append(analysis.Weaknesses, fmt.Sprintf("Communication clarity could be enhanced (Current: %.0f/100)", communication))
		analysis.Recommendations = append(analysis.Recommendations, "Practice explaining concepts clearly and concisely")
	}
	if confidence < weaknessBelow {
		analysis.Weaknesses = append(analysis.Weaknesses, fmt.Sprintf("Confidence level is lower than ideal (Current: %.0f/100)", confidence))
		analysis.Recommendations = append(analysis.Recommendations, "Build confidence through more practice and preparation")
	}
	if depth < weaknessBelow {
		analysis.Weaknesses = append(analysis.Weaknesses, fmt.Sprintf("Answers lack sufficient depth (Current: %.0f/100)", depth))
		analysis.Recommendations = append(analysis.Recommendations, "Provide more detailed examples and explanations in your answers")
	}

	if len(analysis.Recommendations) == 0 {
		analysis.Recommendations = append(analysis.Recommendations,
			"Continue practicing to maintain and improve your performance",
			"Focus on explaining your thought process during interviews",
		)
	}
	analysis.Recommendations = append(analysis.Recommendations,
		"Review the feedback for each question and practice similar topics",
	)

	if len(analysis.Strengths) == 0 {
		analysis.Strengths = []string{"Good effort in attempting all questions"}
	}
	if len(analysis.Weaknesses) == 0 {
		analysis.Weaknesses = []string{"No major weaknesses identified"}
	}

	return analysis
}
