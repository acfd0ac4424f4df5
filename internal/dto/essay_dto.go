package dto

import (
	"time"

	"github.com/redpen-labs/redpen-api/internal/models"
)

// EssaySummaryResponse is one row in a student's essay list.
type EssaySummaryResponse struct {
	ID          uint      `json:"id"`
	TeacherName string    `json:"teacher_name"`
	SchoolName  string    `json:"school_name"`
	Prompt      string    `json:"prompt"`
	ClassName   string    `json:"class_name"`
	WordCount   int       `json:"word_count"`
	Status      string    `json:"status"`
	LetterGrade *string   `json:"letter_grade"`
	CreatedAt   time.Time `json:"created_at"`
}

// GradePredictionResponse serializes a stored grade prediction.
type GradePredictionResponse struct {
	LetterGrade  string   `json:"letter_grade"`
	NumericGrade float64  `json:"numeric_grade"`
	Confidence   string   `json:"confidence"`
	Reasoning    []string `json:"reasoning"`
	Strengths    []string `json:"strengths"`
	Weaknesses   []string `json:"weaknesses"`
}

// InlineCommentResponse serializes a stored inline comment.
type InlineCommentResponse struct {
	Excerpt      string `json:"excerpt"`
	CommentText  string `json:"comment_text"`
	Category     string `json:"category"`
	Severity     string `json:"severity"`
	StartIndex   int    `json:"start_index"`
	EndIndex     int    `json:"end_index"`
	DisplayOrder int    `json:"display_order"`
}

// EndCommentResponse serializes a stored end comment.
type EndCommentResponse struct {
	CommentText string   `json:"comment_text"`
	NextSteps   []string `json:"next_steps"`
}

// EssayDetailResponse is the full results view for one essay.
type EssayDetailResponse struct {
	ID              uint                     `json:"id"`
	TeacherName     string                   `json:"teacher_name"`
	SchoolName      string                   `json:"school_name"`
	EssayText       string                   `json:"essay_text"`
	Prompt          string                   `json:"prompt"`
	Rubric          string                   `json:"rubric,omitempty"`
	ClassName       string                   `json:"class_name,omitempty"`
	WordCount       int                      `json:"word_count"`
	Status          string                   `json:"status"`
	GradePrediction *GradePredictionResponse `json:"grade_prediction"`
	InlineComments  []InlineCommentResponse  `json:"inline_comments"`
	EndComment      *EndCommentResponse      `json:"end_comment"`
	CreatedAt       time.Time                `json:"created_at"`
}

// NewEssaySummaryResponse converts an Essay model into a list row.
func NewEssaySummaryResponse(essay models.Essay) EssaySummaryResponse {
	response := EssaySummaryResponse{
		ID:        essay.ID,
		Prompt:    essay.Prompt,
		ClassName: essay.ClassName,
		WordCount: essay.WordCount,
		Status:    essay.Status,
		CreatedAt: essay.CreatedAt,
	}

	if essay.Teacher.ID != 0 {
		response.TeacherName = essay.Teacher.Name
	}
	if essay.School.ID != 0 {
		response.SchoolName = essay.School.Name
	}
	if essay.GradePrediction != nil {
		grade := essay.GradePrediction.LetterGrade
		response.LetterGrade = &grade
	}

	return response
}

// NewEssaySummaryResponseSlice converts essay models into list rows.
func NewEssaySummaryResponseSlice(essays []models.Essay) []EssaySummaryResponse {
	responses := make([]EssaySummaryResponse, 0, len(essays))
	for _, essay := range essays {
		responses = append(responses, NewEssaySummaryResponse(essay))
	}

	return responses
}

// NewEssayDetailResponse converts an Essay model with preloaded results
// into the detail view.
func NewEssayDetailResponse(essay models.Essay) EssayDetailResponse {
	response := EssayDetailResponse{
		ID:        essay.ID,
		EssayText: essay.EssayText,
		Prompt:    essay.Prompt,
		Rubric:    essay.Rubric,
		ClassName: essay.ClassName,
		WordCount: essay.WordCount,
		Status:    essay.Status,
		CreatedAt: essay.CreatedAt,
	}

	if essay.Teacher.ID != 0 {
		response.TeacherName = essay.Teacher.Name
	}
	if essay.School.ID != 0 {
		response.SchoolName = essay.School.Name
	}

	if prediction := essay.GradePrediction; prediction != nil {
		response.GradePrediction = &GradePredictionResponse{
			LetterGrade:  prediction.LetterGrade,
			NumericGrade: prediction.NumericGrade,
			Confidence:   prediction.Confidence,
			Reasoning:    prediction.Reasoning,
			Strengths:    prediction.Strengths,
			Weaknesses:   prediction.Weaknesses,
		}
	}

	comments := make([]InlineCommentResponse, 0, len(essay.InlineComments))
	for _, comment := range essay.InlineComments {
		comments = append(comments, InlineCommentResponse{
			Excerpt:      comment.Excerpt,
			CommentText:  comment.CommentText,
			Category:     comment.Category,
			Severity:     comment.Severity,
			StartIndex:   comment.StartIndex,
			EndIndex:     comment.EndIndex,
			DisplayOrder: comment.DisplayOrder,
		})
	}
	response.InlineComments = comments

	if end := essay.EndComment; end != nil {
		response.EndComment = &EndCommentResponse{
			CommentText: end.CommentText,
			NextSteps:   end.NextSteps,
		}
	}

	return response
}
