package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/redpen-labs/redpen-api/internal/dto"
	"github.com/redpen-labs/redpen-api/internal/models"
	"github.com/redpen-labs/redpen-api/internal/repository"
	"github.com/redpen-labs/redpen-api/pkg/ai"
)

// ErrSchoolNotFound indicates the referenced school does not exist.
var ErrSchoolNotFound = errors.New("school not found")

// ErrTeacherNotFound indicates the referenced teacher does not exist.
var ErrTeacherNotFound = errors.New("teacher not found")

// AnalysisService runs the full essay analysis pipeline: resolve teacher
// context, record the essay, call the model, persist the validated result.
type AnalysisService interface {
	Analyze(ctx context.Context, studentID *uint, payload dto.AnalyzeRequest) (dto.AnalyzeResponse, error)
}

type analysisService struct {
	essays    repository.EssayRepository
	results   repository.AnalysisRepository
	teachers  repository.TeacherRepository
	schools   repository.SchoolRepository
	analyzer  ai.Analyzer
	events    EventPublisher
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewAnalysisService constructs an AnalysisService instance. The event
// publisher may be nil when no broker is configured.
func NewAnalysisService(
	essays repository.EssayRepository,
	results repository.AnalysisRepository,
	teachers repository.TeacherRepository,
	schools repository.SchoolRepository,
	analyzer ai.Analyzer,
	events EventPublisher,
	validate *validator.Validate,
	logger zerolog.Logger,
) AnalysisService {
	return &analysisService{
		essays:    essays,
		results:   results,
		teachers:  teachers,
		schools:   schools,
		analyzer:  analyzer,
		events:    events,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "analysis_service").Logger(),
		tracer:    otel.Tracer("github.com/redpen-labs/redpen-api/internal/service/analysis"),
	}
}

func (s *analysisService) Analyze(ctx context.Context, studentID *uint, payload dto.AnalyzeRequest) (dto.AnalyzeResponse, error) {
	ctx, span := s.tracer.Start(ctx, "analysis.run", trace.WithAttributes(
		attribute.Int64("analysis.teacher_id", int64(payload.TeacherID)),
		attribute.Int64("analysis.school_id", int64(payload.SchoolID)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.AnalyzeResponse{}, err
	}

	// Essays are plain text; markup is stripped, never rendered.
	essayText := strings.TrimSpace(s.sanitizer.Sanitize(payload.EssayText))
	prompt := strings.TrimSpace(s.sanitizer.Sanitize(payload.Prompt))
	rubric := strings.TrimSpace(s.sanitizer.Sanitize(payload.Rubric))
	className := strings.TrimSpace(s.sanitizer.Sanitize(payload.ClassName))

	teacher, school, profile, err := s.resolveContext(ctx, payload.TeacherID, payload.SchoolID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "context_lookup_failed")
		return dto.AnalyzeResponse{}, err
	}

	input := ai.AnalysisInput{
		TeacherName:  teacher.Name,
		SchoolName:   school.Name,
		Department:   teacher.Department,
		Subjects:     teacher.Subjects,
		GradingStyle: teacher.GradingStyle,
		Profile:      profile,
		EssayText:    essayText,
		Prompt:       prompt,
		Rubric:       rubric,
		ClassName:    className,
	}

	// Invalid input must be rejected before any record is written and
	// before any network call is made.
	if err := ai.ValidateInput(input); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "input_rejected")
		return dto.AnalyzeResponse{}, err
	}

	essay := models.Essay{
		StudentID:      studentID,
		SchoolID:       school.ID,
		TeacherID:      teacher.ID,
		EssayText:      essayText,
		Prompt:         prompt,
		Rubric:         rubric,
		AssignmentType: strings.TrimSpace(payload.AssignmentType),
		ClassName:      className,
		WordCount:      countWords(essayText),
		Status:         models.EssayStatusAnalyzing,
	}
	if err := s.essays.Create(ctx, &essay); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "essay_insert_failed")
		return dto.AnalyzeResponse{}, fmt.Errorf("failed to save essay: %w", err)
	}
	span.SetAttributes(attribute.Int64("analysis.essay_id", int64(essay.ID)))

	result, err := s.analyzer.Analyze(ctx, input)
	if err != nil {
		s.markFailed(ctx, essay.ID)
		span.RecordError(err)
		span.SetStatus(codes.Error, "model_call_failed")
		return dto.AnalyzeResponse{}, err
	}

	if err := s.persistResult(ctx, essay.ID, teacher.ID, result); err != nil {
		s.markFailed(ctx, essay.ID)
		span.RecordError(err)
		span.SetStatus(codes.Error, "result_persist_failed")
		return dto.AnalyzeResponse{}, err
	}

	if err := s.essays.UpdateStatus(ctx, essay.ID, models.EssayStatusCompleted); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "status_update_failed")
		return dto.AnalyzeResponse{}, fmt.Errorf("failed to complete essay: %w", err)
	}

	s.publishCompleted(ctx, essay, teacher)

	s.logger.Info().
		Uint("essay_id", essay.ID).
		Uint("teacher_id", teacher.ID).
		Str("confidence", result.GradePrediction.Confidence).
		Int("inline_comments", len(result.InlineComments)).
		Msg("essay analysis completed")

	return dto.AnalyzeResponse{
		EssayID:     essay.ID,
		Result:      result,
		TeacherName: teacher.Name,
		SchoolName:  school.Name,
	}, nil
}

func (s *analysisService) resolveContext(ctx context.Context, teacherID, schoolID uint) (models.Teacher, models.School, *ai.TeacherProfile, error) {
	teacher, err := s.teachers.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Teacher{}, models.School{}, nil, ErrTeacherNotFound
		}
		return models.Teacher{}, models.School{}, nil, err
	}

	school, err := s.schools.GetByID(ctx, schoolID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Teacher{}, models.School{}, nil, ErrSchoolNotFound
		}
		return models.Teacher{}, models.School{}, nil, err
	}

	// A missing profile is normal for an untrained teacher; the compiler
	// falls back to a neutral fragment.
	var profile *ai.TeacherProfile
	stored, err := s.teachers.GetProfile(ctx, teacherID)
	if err == nil {
		profile = &ai.TeacherProfile{
			StrictnessScore:    stored.StrictnessScore,
			ThesisWeight:       stored.ThesisWeight,
			EvidenceWeight:     stored.EvidenceWeight,
			AnalysisWeight:     stored.AnalysisWeight,
			MechanicsWeight:    stored.MechanicsWeight,
			StyleWeight:        stored.StyleWeight,
			ToneKeywords:       stored.ToneKeywords,
			CommonPhrases:      stored.CommonPhrases,
			AvgGrade:           stored.AvgGrade,
			MostCommonGrade:    stored.MostCommonGrade,
			TrainingEssayCount: stored.TrainingEssayCount,
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Teacher{}, models.School{}, nil, err
	}

	return teacher, school, profile, nil
}

// persistResult writes the three result kinds. The writes are sequential
// and non-transactional; any failure flips the essay to failed so it never
// presents a partial result set as complete.
func (s *analysisService) persistResult(ctx context.Context, essayID, teacherID uint, result ai.AnalysisResult) error {
	prediction := models.GradePrediction{
		EssayID:      essayID,
		TeacherID:    teacherID,
		LetterGrade:  result.GradePrediction.LetterGrade,
		NumericGrade: result.GradePrediction.NumericGrade,
		Confidence:   result.GradePrediction.Confidence,
		Reasoning:    result.GradePrediction.Reasoning,
		Strengths:    result.GradePrediction.Strengths,
		Weaknesses:   result.GradePrediction.Weaknesses,
	}
	if err := s.results.CreateGradePrediction(ctx, &prediction); err != nil {
		return fmt.Errorf("failed to save grade prediction: %w", err)
	}

	comments := make([]models.InlineComment, 0, len(result.InlineComments))
	for i, comment := range result.InlineComments {
		comments = append(comments, models.InlineComment{
			EssayID:      essayID,
			TeacherID:    teacherID,
			StartIndex:   comment.StartIndex,
			EndIndex:     comment.EndIndex,
			Excerpt:      comment.Excerpt,
			CommentText:  comment.Comment,
			Category:     comment.Category,
			Severity:     comment.Severity,
			DisplayOrder: i,
		})
	}
	if err := s.results.CreateInlineComments(ctx, comments); err != nil {
		return fmt.Errorf("failed to save inline comments: %w", err)
	}

	endComment := models.EndComment{
		EssayID:     essayID,
		CommentText: result.EndComment,
		NextSteps:   result.NextSteps,
	}
	if err := s.results.CreateEndComment(ctx, &endComment); err != nil {
		return fmt.Errorf("failed to save end comment: %w", err)
	}

	return nil
}

func (s *analysisService) markFailed(ctx context.Context, essayID uint) {
	if err := s.essays.UpdateStatus(ctx, essayID, models.EssayStatusFailed); err != nil {
		s.logger.Error().Err(err).Uint("essay_id", essayID).Msg("failed to mark essay as failed")
	}
}

func (s *analysisService) publishCompleted(ctx context.Context, essay models.Essay, teacher models.Teacher) {
	if s.events == nil {
		return
	}
	event := EssayEvent{
		EssayID:   essay.ID,
		TeacherID: teacher.ID,
		SchoolID:  essay.SchoolID,
		Status:    models.EssayStatusCompleted,
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn().Err(err).Uint("essay_id", essay.ID).Msg("failed to publish completion event")
	}
}

func countWords(text string) int {
	return len(strings.Fields(text))
}
