package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/redpen-labs/redpen-api/internal/models"
)

// EssayRepository defines data operations for essays.
type EssayRepository interface {
	Create(ctx context.Context, essay *models.Essay) error
	GetByID(ctx context.Context, id uint) (models.Essay, error)
	GetWithResults(ctx context.Context, id uint) (models.Essay, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Essay, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
}

type essayRepository struct {
	db *gorm.DB
}

// NewEssayRepository instantiates the repository.
func NewEssayRepository(db *gorm.DB) EssayRepository {
	return &essayRepository{db: db}
}

func (r *essayRepository) Create(ctx context.Context, essay *models.Essay) error {
	return r.db.WithContext(ctx).Create(essay).Error
}

func (r *essayRepository) GetByID(ctx context.Context, id uint) (models.Essay, error) {
	var essay models.Essay
	if err := r.db.WithContext(ctx).
		Preload("School").
		Preload("Teacher").
		First(&essay, id).Error; err != nil {
		return models.Essay{}, err
	}

	return essay, nil
}

func (r *essayRepository) GetWithResults(ctx context.Context, id uint) (models.Essay, error) {
	var essay models.Essay
	if err := r.db.WithContext(ctx).
		Preload("School").
		Preload("Teacher").
		Preload("GradePrediction").
		Preload("InlineComments", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Preload("EndComment").
		First(&essay, id).Error; err != nil {
		return models.Essay{}, err
	}

	return essay, nil
}

func (r *essayRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Essay, error) {
	var essays []models.Essay
	if err := r.db.WithContext(ctx).
		Preload("Teacher").
		Preload("School").
		Preload("GradePrediction").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&essays).Error; err != nil {
		return nil, err
	}

	return essays, nil
}

func (r *essayRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Essay{}).
		Where("id = ?", id).
		Update("status", status).Error
}
