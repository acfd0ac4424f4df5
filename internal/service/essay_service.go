package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/redpen-labs/redpen-api/internal/dto"
	"github.com/redpen-labs/redpen-api/internal/repository"
)

// ErrEssayNotFound indicates the essay does not exist or is not visible
// to the caller.
var ErrEssayNotFound = errors.New("essay not found")

// EssayService serves stored essays and their analysis results.
type EssayService interface {
	ListForStudent(ctx context.Context, studentID uint) ([]dto.EssaySummaryResponse, error)
	GetResults(ctx context.Context, id uint, studentID uint) (dto.EssayDetailResponse, error)
}

type essayService struct {
	essays repository.EssayRepository
	logger zerolog.Logger
}

// NewEssayService constructs an EssayService instance.
func NewEssayService(essays repository.EssayRepository, logger zerolog.Logger) EssayService {
	return &essayService{
		essays: essays,
		logger: logger.With().Str("component", "essay_service").Logger(),
	}
}

func (s *essayService) ListForStudent(ctx context.Context, studentID uint) ([]dto.EssaySummaryResponse, error) {
	essays, err := s.essays.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return dto.NewEssaySummaryResponseSlice(essays), nil
}

func (s *essayService) GetResults(ctx context.Context, id uint, studentID uint) (dto.EssayDetailResponse, error) {
	essay, err := s.essays.GetWithResults(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EssayDetailResponse{}, ErrEssayNotFound
		}
		return dto.EssayDetailResponse{}, err
	}

	// Essays submitted anonymously are readable by any authenticated
	// caller; owned essays only by their owner.
	if essay.StudentID != nil && *essay.StudentID != studentID {
		return dto.EssayDetailResponse{}, ErrEssayNotFound
	}

	return dto.NewEssayDetailResponse(essay), nil
}
