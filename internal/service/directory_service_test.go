package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/redpen-labs/redpen-api/internal/models"
	"github.com/redpen-labs/redpen-api/internal/repository"
)

func newDirectoryService(db *gorm.DB, cache *redis.Client) DirectoryService {
	return NewDirectoryService(
		repository.NewSchoolRepository(db),
		repository.NewTeacherRepository(db),
		cache,
		time.Minute,
		zerolog.Nop(),
	)
}

func TestDirectoryServiceSchoolsCached(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	cache := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer cache.Close()

	db := openTestDB(t)
	require.NoError(t, db.Create(&models.School{Name: "Ridgeview High"}).Error)

	svc := newDirectoryService(db, cache)

	schools, err := svc.Schools(context.Background())
	require.NoError(t, err)
	require.Len(t, schools, 1)
	require.Equal(t, "Ridgeview High", schools[0].Name)

	// a second school added after the first read stays invisible until
	// the cache entry expires
	require.NoError(t, db.Create(&models.School{Name: "Lakeside Prep"}).Error)

	cached, err := svc.Schools(context.Background())
	require.NoError(t, err)
	require.Len(t, cached, 1)

	server.FastForward(2 * time.Minute)

	fresh, err := svc.Schools(context.Background())
	require.NoError(t, err)
	require.Len(t, fresh, 2)
}

func TestDirectoryServiceWithoutCache(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&models.School{Name: "Ridgeview High"}).Error)

	svc := newDirectoryService(db, nil)

	schools, err := svc.Schools(context.Background())
	require.NoError(t, err)
	require.Len(t, schools, 1)
}

func TestDirectoryServiceTeachers(t *testing.T) {
	db := openTestDB(t)
	school, teacher := seedTeacher(t, db)
	require.NoError(t, db.Create(&models.Teacher{
		SchoolID: school.ID,
		Name:     "Mr. Retired",
		IsActive: false,
	}).Error)

	svc := newDirectoryService(db, nil)

	teachers, err := svc.Teachers(context.Background(), school.ID)
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	require.Equal(t, teacher.Name, teachers[0].Name)
}

func TestDirectoryServiceTeachersUnknownSchool(t *testing.T) {
	db := openTestDB(t)
	svc := newDirectoryService(db, nil)

	_, err := svc.Teachers(context.Background(), 42)
	require.ErrorIs(t, err, ErrSchoolNotFound)
}
