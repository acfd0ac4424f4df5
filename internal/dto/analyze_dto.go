package dto

import (
	"github.com/redpen-labs/redpen-api/pkg/ai"
)

// AnalyzeRequest is the JSON body accepted by the analyze endpoint.
type AnalyzeRequest struct {
	EssayText      string `json:"essay_text" validate:"required"`
	Prompt         string `json:"prompt" validate:"required"`
	Rubric         string `json:"rubric"`
	AssignmentType string `json:"assignment_type"`
	ClassName      string `json:"class_name"`
	SchoolID       uint   `json:"school_id" validate:"required,gt=0"`
	TeacherID      uint   `json:"teacher_id" validate:"required,gt=0"`
}

// AnalyzeResponse is returned after a successful analysis. The shape is a
// public contract: clients read essay_id and result directly at the top
// level.
type AnalyzeResponse struct {
	EssayID     uint              `json:"essay_id"`
	Result      ai.AnalysisResult `json:"result"`
	TeacherName string            `json:"teacher_name"`
	SchoolName  string            `json:"school_name"`
}
