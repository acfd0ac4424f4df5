package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/redpen-labs/redpen-api/internal/dto"
	"github.com/redpen-labs/redpen-api/internal/repository"
)

// DirectoryService lists the schools and teachers available to the
// submission wizard. Listings change rarely, so they sit behind a short
// redis cache.
type DirectoryService interface {
	Schools(ctx context.Context) ([]dto.SchoolResponse, error)
	Teachers(ctx context.Context, schoolID uint) ([]dto.TeacherResponse, error)
}

type directoryService struct {
	schools  repository.SchoolRepository
	teachers repository.TeacherRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewDirectoryService constructs a DirectoryService. The cache client may
// be nil, in which case every call hits the database.
func NewDirectoryService(schools repository.SchoolRepository, teachers repository.TeacherRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DirectoryService {
	return &directoryService{
		schools:  schools,
		teachers: teachers,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "directory_service").Logger(),
	}
}

func (s *directoryService) Schools(ctx context.Context) ([]dto.SchoolResponse, error) {
	const cacheKey = "directory:schools"

	var cached []dto.SchoolResponse
	if s.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	schools, err := s.schools.List(ctx)
	if err != nil {
		return nil, err
	}

	response := dto.NewSchoolResponseSlice(schools)
	s.writeCache(ctx, cacheKey, response)

	return response, nil
}

func (s *directoryService) Teachers(ctx context.Context, schoolID uint) ([]dto.TeacherResponse, error) {
	if _, err := s.schools.GetByID(ctx, schoolID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchoolNotFound
		}
		return nil, err
	}

	cacheKey := fmt.Sprintf("directory:school:%d:teachers", schoolID)

	var cached []dto.TeacherResponse
	if s.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	teachers, err := s.teachers.ListBySchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	response := dto.NewTeacherResponseSlice(teachers)
	s.writeCache(ctx, cacheKey, response)

	return response, nil
}

func (s *directoryService) readCache(ctx context.Context, key string, target interface{}) bool {
	if s.cache == nil {
		return false
	}

	cached, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("failed to read directory cache")
		}
		return false
	}

	if err := json.Unmarshal([]byte(cached), target); err != nil {
		return false
	}

	s.logger.Debug().Str("key", key).Msg("directory cache hit")

	return true
}

func (s *directoryService) writeCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to store directory cache")
	}
}
