package models

import (
	"time"

	"gorm.io/datatypes"
)

// GradePrediction is the model's predicted grade for one essay. Exactly one
// per essay, never mutated after insert.
type GradePrediction struct {
	ID           uint                        `gorm:"primaryKey" json:"id"`
	EssayID      uint                        `gorm:"not null;uniqueIndex" json:"essay_id"`
	TeacherID    uint                        `gorm:"not null" json:"teacher_id"`
	LetterGrade  string                      `gorm:"size:8;not null" json:"letter_grade"`
	NumericGrade float64                     `json:"numeric_grade"`
	Confidence   string                      `gorm:"size:8;not null" json:"confidence"`
	Reasoning    datatypes.JSONSlice[string] `gorm:"type:json" json:"reasoning"`
	Strengths    datatypes.JSONSlice[string] `gorm:"type:json" json:"strengths"`
	Weaknesses   datatypes.JSONSlice[string] `gorm:"type:json" json:"weaknesses"`
	CreatedAt    time.Time                   `json:"created_at"`
}

// InlineComment is a localized piece of feedback anchored to a quoted
// excerpt of the essay. Zero or many per essay; DisplayOrder drives the
// results view, the indices are advisory highlighting hints only.
type InlineComment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EssayID      uint      `gorm:"not null;index" json:"essay_id"`
	TeacherID    uint      `gorm:"not null" json:"teacher_id"`
	StartIndex   int       `json:"start_index"`
	EndIndex     int       `json:"end_index"`
	Excerpt      string    `gorm:"type:text;not null" json:"excerpt"`
	CommentText  string    `gorm:"type:text;not null" json:"comment_text"`
	Category     string    `gorm:"size:16;not null" json:"category"`
	Severity     string    `gorm:"size:16;not null" json:"severity"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// EndComment is the holistic summary plus prioritized next steps for one
// essay. Exactly one per essay.
type EndComment struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	EssayID     uint                        `gorm:"not null;uniqueIndex" json:"essay_id"`
	CommentText string                      `gorm:"type:text;not null" json:"comment_text"`
	NextSteps   datatypes.JSONSlice[string] `gorm:"type:json" json:"next_steps"`
	CreatedAt   time.Time                   `json:"created_at"`
}
