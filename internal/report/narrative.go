package report

import (
	"strings"

	"github.com/prepdeck/interviewd/internal/extract"
)

// NotAvailable marks narrative fields the oracle did not produce.
const NotAvailable = "N/A"

const fallbackAssessmentLimit = 500

// Narrative is the oracle-authored final report.
type Narrative struct {
	OverallAssessment     string   `mapstructure:"overall_assessment" json:"overall_assessment"`
	Strengths             []string `mapstructure:"strengths" json:"strengths"`
	WeakAreas             []string `mapstructure:"weak_areas" json:"weak_areas"`
	CommunicationAnalysis string   `mapstructure:"communication_analysis" json:"communication_analysis"`
	TechnicalDepth        string   `mapstructure:"technical_depth" json:"technical_depth"`
	Recommendations       []string `mapstructure:"recommendations" json:"recommendations"`
	HireVerdict           string   `mapstructure:"hire_verdict" json:"hire_verdict"`
	ConfidenceLevel       string   `mapstructure:"confidence_level" json:"confidence_level"`
	FinalScore            float64  `mapstructure:"final_score" json:"final_score"`
}

// ParseNarrative turns raw report text into a Narrative. On any parse
// failure the assessment carries the raw text truncated to 500 characters,
// the final score falls back to the session's running average, and the
// remaining fields are explicit "N/A" sentinels. A parsed final score is
// kept as-is, including a literal 0; only a missing field falls back.
func ParseNarrative(raw string, averageScore float64) Narrative {
	var decoded struct {
		OverallAssessment     string   `mapstructure:"overall_assessment"`
		Strengths             []string `mapstructure:"strengths"`
		WeakAreas             []string `mapstructure:"weak_areas"`
		CommunicationAnalysis string   `mapstructure:"communication_analysis"`
		TechnicalDepth        string   `mapstructure:"technical_depth"`
		Recommendations       []string `mapstructure:"recommendations"`
		HireVerdict           string   `mapstructure:"hire_verdict"`
		ConfidenceLevel       string   `mapstructure:"confidence_level"`
		FinalScore            *float64 `mapstructure:"final_score"`
	}
	if err := extract.Decode(raw, &decoded); err != nil {
		return fallbackNarrative(raw, averageScore)
	}

	narrative := Narrative{
		OverallAssessment:     decoded.OverallAssessment,
		Strengths:             decoded.Strengths,
		WeakAreas:             decoded.WeakAreas,
		CommunicationAnalysis: decoded.CommunicationAnalysis,
		TechnicalDepth:        decoded.TechnicalDepth,
		Recommendations:       decoded.Recommendations,
		HireVerdict:           decoded.HireVerdict,
		ConfidenceLevel:       decoded.ConfidenceLevel,
		FinalScore:            averageScore,
	}
	if decoded.FinalScore != nil {
		narrative.FinalScore = *decoded.FinalScore
	}

	if strings.TrimSpace(narrative.OverallAssessment) == "" {
		narrative.OverallAssessment = NotAvailable
	}
	if strings.TrimSpace(narrative.CommunicationAnalysis) == "" {
		narrative.CommunicationAnalysis = NotAvailable
	}
	if strings.TrimSpace(narrative.TechnicalDepth) == "" {
		narrative.TechnicalDepth = NotAvailable
	}
	if strings.TrimSpace(narrative.HireVerdict) == "" {
		narrative.HireVerdict = NotAvailable
	}
	if strings.TrimSpace(narrative.ConfidenceLevel) == "" {
		narrative.ConfidenceLevel = NotAvailable
	}

	return narrative
}

func fallbackNarrative(raw string, averageScore float64) Narrative {
	assessment := strings.TrimSpace(raw)
	runes := []rune(assessment)
	if len(runes) > fallbackAssessmentLimit {
		assessment = string(runes[:fallbackAssessmentLimit])
	}
	if assessment == "" {
		assessment = NotAvailable
	}

	return Narrative{
		OverallAssessment:     assessment,
		Strengths:             []string{},
		WeakAreas:             []string{},
		CommunicationAnalysis: NotAvailable,
		TechnicalDepth:        NotAvailable,
		Recommendations:       []string{},
		HireVerdict:           NotAvailable,
		ConfidenceLevel:       NotAvailable,
		FinalScore:            averageScore,
	}
}
