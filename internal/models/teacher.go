package models

import (
	"time"

	"gorm.io/datatypes"
)

// Teacher identifies a teacher whose grading behaviour can be modelled.
type Teacher struct {
	ID           uint                         `gorm:"primaryKey" json:"id"`
	SchoolID     uint                         `gorm:"not null" json:"school_id"`
	Name         string                       `gorm:"size:255;not null" json:"name"`
	Email        string                       `gorm:"size:255" json:"email"`
	Department   string                       `gorm:"size:128" json:"department"`
	Subjects     datatypes.JSONSlice[string]  `gorm:"type:json" json:"subjects"`
	GradingStyle string                       `gorm:"type:text" json:"grading_style"`
	EssaysGraded int                          `json:"essays_graded"`
	IsActive     bool                         `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time                    `json:"created_at"`
	School       School                       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"school"`
}

// TeacherProfile aggregates one teacher's historical grading behaviour.
// It is produced by an out-of-band training job and read-only here.
type TeacherProfile struct {
	ID                 uint                        `gorm:"primaryKey" json:"id"`
	TeacherID          uint                        `gorm:"not null;uniqueIndex" json:"teacher_id"`
	StrictnessScore    float64                     `json:"strictness_score"`
	ThesisWeight       float64                     `json:"thesis_weight"`
	EvidenceWeight     float64                     `json:"evidence_weight"`
	AnalysisWeight     float64                     `json:"analysis_weight"`
	MechanicsWeight    float64                     `json:"mechanics_weight"`
	StyleWeight        float64                     `json:"style_weight"`
	ToneKeywords       datatypes.JSONSlice[string] `gorm:"type:json" json:"tone_keywords"`
	CommonPhrases      datatypes.JSONSlice[string] `gorm:"type:json" json:"common_phrases"`
	AvgGrade           *float64                    `json:"avg_grade"`
	GradeStdDev        *float64                    `json:"grade_std_dev"`
	MostCommonGrade    *string                     `gorm:"size:8" json:"most_common_grade"`
	FeedbackLengthAvg  float64                     `json:"feedback_length_avg"`
	TrainingEssayCount int                         `json:"training_essay_count"`
	ModelVersion       string                      `gorm:"size:32" json:"model_version"`
	ConfidenceScore    float64                     `json:"confidence_score"`
	CreatedAt          time.Time                   `json:"created_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`
}
