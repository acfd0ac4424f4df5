package models

import "time"

// School is an institution whose teachers can be selected for analysis.
type School struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Location     string    `gorm:"size:255" json:"location"`
	Type         string    `gorm:"size:32" json:"type"`
	Description  string    `gorm:"type:text" json:"description"`
	TeacherCount int       `json:"teacher_count"`
	CreatedAt    time.Time `json:"created_at"`
}

const (
	// SchoolTypePublic marks a publicly funded school.
	SchoolTypePublic = "public"
	// SchoolTypePrivate marks an independent school.
	SchoolTypePrivate = "private"
	// SchoolTypeCharter marks a charter school.
	SchoolTypeCharter = "charter"
	// SchoolTypeInternational marks an international school.
	SchoolTypeInternational = "international"
)
