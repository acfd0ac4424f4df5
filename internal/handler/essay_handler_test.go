package handler_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/redpen-labs/redpen-api/internal/config"
	"github.com/redpen-labs/redpen-api/internal/dto"
	"github.com/redpen-labs/redpen-api/internal/handler"
	"github.com/redpen-labs/redpen-api/internal/models"
	"github.com/redpen-labs/redpen-api/internal/repository"
	"github.com/redpen-labs/redpen-api/internal/router"
	"github.com/redpen-labs/redpen-api/internal/service"
)

func setupEssayApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := openHandlerDB(t)
	logger := zerolog.New(io.Discard)

	essayService := service.NewEssayService(repository.NewEssayRepository(db), logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test", JWTSecret: "secret"}, router.Dependencies{
		EssayHandler:  handler.NewEssayHandler(essayService, logger),
		JWTMiddleware: stubJWT,
	})

	return app, db
}

func seedAnalyzedEssay(t *testing.T, db *gorm.DB, studentID *uint) models.Essay {
	t.Helper()

	school, teacher := seedDirectory(t, db)

	essay := models.Essay{
		StudentID: studentID,
		SchoolID:  school.ID,
		TeacherID: teacher.ID,
		EssayText: "Body text.",
		Prompt:    "Prompt.",
		Status:    models.EssayStatusCompleted,
	}
	require.NoError(t, db.Create(&essay).Error)

	require.NoError(t, db.Create(&models.GradePrediction{
		EssayID:     essay.ID,
		TeacherID:   teacher.ID,
		LetterGrade: "A-",
		Confidence:  "high",
	}).Error)
	require.NoError(t, db.Create(&[]models.InlineComment{
		{EssayID: essay.ID, TeacherID: teacher.ID, Excerpt: "b", CommentText: "second", Category: "style", Severity: "suggestion", DisplayOrder: 1},
		{EssayID: essay.ID, TeacherID: teacher.ID, Excerpt: "a", CommentText: "first", Category: "thesis", Severity: "praise", DisplayOrder: 0},
	}).Error)
	require.NoError(t, db.Create(&models.EndComment{
		EssayID:     essay.ID,
		CommentText: "Good work.",
		NextSteps:   []string{"revise intro"},
	}).Error)

	return essay
}

func TestEssayHandlerGetResults(t *testing.T) {
	app, db := setupEssayApp(t)
	owner := uint(1)
	essay := seedAnalyzedEssay(t, db, &owner)

	req := httptest.NewRequest("GET", "/api/v1/essays/"+itoa(essay.ID), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var detail dto.EssayDetailResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&detail))
	require.Equal(t, essay.ID, detail.ID)
	require.Equal(t, "Ms. Alvarez", detail.TeacherName)
	require.NotNil(t, detail.GradePrediction)
	require.Equal(t, "A-", detail.GradePrediction.LetterGrade)
	require.Len(t, detail.InlineComments, 2)
	require.Equal(t, "first", detail.InlineComments[0].CommentText)
	require.NotNil(t, detail.EndComment)
}

func TestEssayHandlerGetResultsNotFound(t *testing.T) {
	app, _ := setupEssayApp(t)

	req := httptest.NewRequest("GET", "/api/v1/essays/999", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var apiErr struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&apiErr))
	require.Equal(t, "essay not found", apiErr.Error)
}

func TestEssayHandlerHidesForeignEssay(t *testing.T) {
	app, db := setupEssayApp(t)
	other := uint(99)
	essay := seedAnalyzedEssay(t, db, &other)

	req := httptest.NewRequest("GET", "/api/v1/essays/"+itoa(essay.ID), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestEssayHandlerInvalidID(t *testing.T) {
	app, _ := setupEssayApp(t)

	req := httptest.NewRequest("GET", "/api/v1/essays/not-a-number", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestEssayHandlerList(t *testing.T) {
	app, db := setupEssayApp(t)
	owner := uint(1)
	essay := seedAnalyzedEssay(t, db, &owner)

	req := httptest.NewRequest("GET", "/api/v1/essays", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var summaries []dto.EssaySummaryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summaries))
	require.Len(t, summaries, 1)
	require.Equal(t, essay.ID, summaries[0].ID)
	require.Equal(t, models.EssayStatusCompleted, summaries[0].Status)
	require.NotNil(t, summaries[0].LetterGrade)
}
