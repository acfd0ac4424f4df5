package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/redpen-labs/redpen-api/internal/models"
)

// TeacherRepository defines data operations for teachers and their
// grading profiles. Profiles are written by an out-of-band training job,
// so only reads are exposed here.
type TeacherRepository interface {
	GetByID(ctx context.Context, id uint) (models.Teacher, error)
	ListBySchool(ctx context.Context, schoolID uint) ([]models.Teacher, error)
	GetProfile(ctx context.Context, teacherID uint) (models.TeacherProfile, error)
}

type teacherRepository struct {
	db *gorm.DB
}

// NewTeacherRepository instantiates the repository.
func NewTeacherRepository(db *gorm.DB) TeacherRepository {
	return &teacherRepository{db: db}
}

func (r *teacherRepository) GetByID(ctx context.Context, id uint) (models.Teacher, error) {
	var teacher models.Teacher
	if err := r.db.WithContext(ctx).Preload("School").First(&teacher, id).Error; err != nil {
		return models.Teacher{}, err
	}

	return teacher, nil
}

func (r *teacherRepository) ListBySchool(ctx context.Context, schoolID uint) ([]models.Teacher, error) {
	var teachers []models.Teacher
	if err := r.db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&teachers).Error; err != nil {
		return nil, err
	}

	return teachers, nil
}

func (r *teacherRepository) GetProfile(ctx context.Context, teacherID uint) (models.TeacherProfile, error) {
	var profile models.TeacherProfile
	if err := r.db.WithContext(ctx).Where("teacher_id = ?", teacherID).First(&profile).Error; err != nil {
		return models.TeacherProfile{}, err
	}

	return profile, nil
}
