package ai

import (
	"context"
	"errors"
)

// Confidence levels the model may report for its own grade prediction.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Categories an inline comment may carry.
const (
	CategoryThesis    = "thesis"
	CategoryEvidence  = "evidence"
	CategoryAnalysis  = "analysis"
	CategoryStructure = "structure"
	CategoryStyle     = "style"
	CategoryMechanics = "mechanics"
	CategoryStrength  = "strength"
)

// Severities an inline comment may carry.
const (
	SeverityPraise     = "praise"
	SeveritySuggestion = "suggestion"
	SeverityConcern    = "concern"
)

var (
	// ErrInvalidInput indicates the analysis input is missing required
	// fields; no model call is made.
	ErrInvalidInput = errors.New("analysis input is invalid")
	// ErrUpstream indicates the model call itself failed or returned no
	// usable text. Never retried.
	ErrUpstream = errors.New("model request failed")
	// ErrMalformedResponse indicates the model replied but the reply did
	// not decode or validate against the expected shape. Never retried.
	ErrMalformedResponse = errors.New("model response is malformed")
)

// TeacherProfile carries the statistical grading profile used to steer the
// model. All fields are optional in the sense that zero values degrade to
// documented defaults during prompt compilation.
type TeacherProfile struct {
	StrictnessScore    float64
	ThesisWeight       float64
	EvidenceWeight     float64
	AnalysisWeight     float64
	MechanicsWeight    float64
	StyleWeight        float64
	ToneKeywords       []string
	CommonPhrases      []string
	AvgGrade           *float64
	MostCommonGrade    *string
	TrainingEssayCount int
}

// AnalysisInput bundles everything the analyzer needs for one essay.
type AnalysisInput struct {
	TeacherName  string
	SchoolName   string
	Department   string
	Subjects     []string
	GradingStyle string
	Profile      *TeacherProfile

	EssayText string
	Prompt    string
	Rubric    string
	ClassName string
}

// GradePrediction is the model's predicted grade for the essay.
type GradePrediction struct {
	LetterGrade  string   `json:"letter_grade"`
	NumericGrade float64  `json:"numeric_grade"`
	Confidence   string   `json:"confidence"`
	Reasoning    []string `json:"reasoning"`
	Strengths    []string `json:"strengths"`
	Weaknesses   []string `json:"weaknesses"`
}

// InlineComment is one localized piece of feedback tied to an excerpt.
type InlineComment struct {
	Excerpt    string `json:"excerpt"`
	Comment    string `json:"comment"`
	Category   string `json:"category"`
	Severity   string `json:"severity"`
	StartIndex int    `json:"start_index"`
	EndIndex   int    `json:"end_index"`
}

// AnalysisResult is the validated, normalized model output.
type AnalysisResult struct {
	GradePrediction GradePrediction `json:"grade_prediction"`
	InlineComments  []InlineComment `json:"inline_comments"`
	EndComment      string          `json:"end_comment"`
	NextSteps       []string        `json:"next_steps"`
}

// Analyzer describes a model capable of grading a student essay in a
// specific teacher's voice.
type Analyzer interface {
	Analyze(ctx context.Context, input AnalysisInput) (AnalysisResult, error)
}
