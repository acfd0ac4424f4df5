package dto

import "github.com/redpen-labs/redpen-api/internal/models"

// SchoolResponse is one school in the directory listing.
type SchoolResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Location     string `json:"location"`
	Type         string `json:"type"`
	Description  string `json:"description"`
	TeacherCount int    `json:"teacher_count"`
}

// TeacherResponse is one teacher in a school's directory listing.
type TeacherResponse struct {
	ID           uint     `json:"id"`
	SchoolID     uint     `json:"school_id"`
	Name         string   `json:"name"`
	Department   string   `json:"department"`
	Subjects     []string `json:"subjects"`
	GradingStyle string   `json:"grading_style"`
	EssaysGraded int      `json:"essays_graded"`
}

// NewSchoolResponse converts a School model into a directory row.
func NewSchoolResponse(school models.School) SchoolResponse {
	return SchoolResponse{
		ID:           school.ID,
		Name:         school.Name,
		Location:     school.Location,
		Type:         school.Type,
		Description:  school.Description,
		TeacherCount: school.TeacherCount,
	}
}

// NewSchoolResponseSlice converts school models into directory rows.
func NewSchoolResponseSlice(schools []models.School) []SchoolResponse {
	responses := make([]SchoolResponse, 0, len(schools))
	for _, school := range schools {
		responses = append(responses, NewSchoolResponse(school))
	}

	return responses
}

// NewTeacherResponse converts a Teacher model into a directory row.
func NewTeacherResponse(teacher models.Teacher) TeacherResponse {
	return TeacherResponse{
		ID:           teacher.ID,
		SchoolID:     teacher.SchoolID,
		Name:         teacher.Name,
		Department:   teacher.Department,
		Subjects:     teacher.Subjects,
		GradingStyle: teacher.GradingStyle,
		EssaysGraded: teacher.EssaysGraded,
	}
}

// NewTeacherResponseSlice converts teacher models into directory rows.
func NewTeacherResponseSlice(teachers []models.Teacher) []TeacherResponse {
	responses := make([]TeacherResponse, 0, len(teachers))
	for _, teacher := range teachers {
		responses = append(responses, NewTeacherResponse(teacher))
	}

	return responses
}
