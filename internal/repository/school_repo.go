package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/redpen-labs/redpen-api/internal/models"
)

// SchoolRepository defines data operations for schools.
type SchoolRepository interface {
	List(ctx context.Context) ([]models.School, error)
	GetByID(ctx context.Context, id uint) (models.School, error)
}

type schoolRepository struct {
	db *gorm.DB
}

// NewSchoolRepository instantiates the repository.
func NewSchoolRepository(db *gorm.DB) SchoolRepository {
	return &schoolRepository{db: db}
}

func (r *schoolRepository) List(ctx context.Context) ([]models.School, error) {
	var schools []models.School
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&schools).Error; err != nil {
		return nil, err
	}

	return schools, nil
}

func (r *schoolRepository) GetByID(ctx context.Context, id uint) (models.School, error) {
	var school models.School
	if err := r.db.WithContext(ctx).First(&school, id).Error; err != nil {
		return models.School{}, err
	}

	return school, nil
}
