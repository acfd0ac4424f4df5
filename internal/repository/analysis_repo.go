package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/redpen-labs/redpen-api/internal/models"
)

// AnalysisRepository persists the three result kinds produced by a
// completed analysis. The writes are individual inserts; there is no
// transaction spanning them, so a crash mid-sequence can leave an essay
// without its full result set (the essay status is the source of truth).
type AnalysisRepository interface {
	CreateGradePrediction(ctx context.Context, prediction *models.GradePrediction) error
	CreateInlineComments(ctx context.Context, comments []models.InlineComment) error
	CreateEndComment(ctx context.Context, comment *models.EndComment) error
}

type analysisRepository struct {
	db *gorm.DB
}

// NewAnalysisRepository instantiates the repository.
func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) CreateGradePrediction(ctx context.Context, prediction *models.GradePrediction) error {
	return r.db.WithContext(ctx).Create(prediction).Error
}

func (r *analysisRepository) CreateInlineComments(ctx context.Context, comments []models.InlineComment) error {
	if len(comments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&comments).Error
}

func (r *analysisRepository) CreateEndComment(ctx context.Context, comment *models.EndComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}
