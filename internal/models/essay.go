package models

import "time"

// Essay is one student submission plus its assignment context. It is the
// root record all analysis output hangs off.
type Essay struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	StudentID      *uint     `gorm:"index" json:"student_id"`
	SchoolID       uint      `gorm:"not null" json:"school_id"`
	TeacherID      uint      `gorm:"not null" json:"teacher_id"`
	EssayText      string    `gorm:"type:text;not null" json:"essay_text"`
	Prompt         string    `gorm:"type:text;not null" json:"prompt"`
	Rubric         string    `gorm:"type:text" json:"rubric"`
	AssignmentType string    `gorm:"size:64" json:"assignment_type"`
	ClassName      string    `gorm:"size:128" json:"class_name"`
	WordCount      int       `json:"word_count"`
	SourceURL      string    `gorm:"size:512" json:"source_url"`
	Status         string    `gorm:"size:16;not null" json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	School  School  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"school"`
	Teacher Teacher `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"teacher"`

	GradePrediction *GradePrediction `json:"grade_prediction,omitempty"`
	InlineComments  []InlineComment  `json:"inline_comments,omitempty"`
	EndComment      *EndComment      `json:"end_comment,omitempty"`
}

const (
	// EssayStatusSubmitted means the essay was received but analysis has
	// not started. The synchronous pipeline inserts essays directly in
	// analyzing, so this value is part of the status vocabulary but is
	// never persisted by this service.
	EssayStatusSubmitted = "submitted"
	// EssayStatusAnalyzing means the model call is in flight.
	EssayStatusAnalyzing = "analyzing"
	// EssayStatusCompleted means all result rows were written.
	EssayStatusCompleted = "completed"
	// EssayStatusFailed means the pipeline gave up on this essay.
	EssayStatusFailed = "failed"
)

// IsTerminal reports whether the essay has reached a final state.
func (e Essay) IsTerminal() bool {
	return e.Status == EssayStatusCompleted || e.Status == EssayStatusFailed
}
