package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/redpen-labs/redpen-api/internal/config"
	"github.com/redpen-labs/redpen-api/internal/dto"
	"github.com/redpen-labs/redpen-api/internal/handler"
	"github.com/redpen-labs/redpen-api/internal/middleware"
	"github.com/redpen-labs/redpen-api/internal/models"
	"github.com/redpen-labs/redpen-api/internal/repository"
	"github.com/redpen-labs/redpen-api/internal/router"
	"github.com/redpen-labs/redpen-api/internal/service"
	"github.com/redpen-labs/redpen-api/pkg/ai"
)

const fencedReply = "```json\n" + `{
  "grade_prediction": {
    "letter_grade": "B+",
    "numeric_grade": 88,
    "confidence": "high",
    "reasoning": ["clear thesis"],
    "strengths": ["strong voice"],
    "weaknesses": ["thin evidence"]
  },
  "inline_comments": [
    {"excerpt": "the opening line", "comment": "Nice hook.", "category": "thesis", "severity": "praise", "start_index": 0, "end_index": 16}
  ],
  "end_comment": "Solid work overall.",
  "next_steps": ["cite two more sources"]
}` + "\n```"

type fencedAnalyzer struct {
	err error
}

func (a *fencedAnalyzer) Analyze(_ context.Context, input ai.AnalysisInput) (ai.AnalysisResult, error) {
	if a.err != nil {
		return ai.AnalysisResult{}, a.err
	}
	if err := ai.ValidateInput(input); err != nil {
		return ai.AnalysisResult{}, err
	}
	return ai.ParseAnalysisResult(fencedReply)
}

func openHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:handler_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.School{},
		&models.Teacher{},
		&models.TeacherProfile{},
		&models.Essay{},
		&models.GradePrediction{},
		&models.InlineComment{},
		&models.EndComment{},
	))

	return db
}

func seedDirectory(t *testing.T, db *gorm.DB) (models.School, models.Teacher) {
	t.Helper()

	school := models.School{Name: "Ridgeview High", Type: models.SchoolTypePublic}
	require.NoError(t, db.Create(&school).Error)

	teacher := models.Teacher{
		SchoolID:   school.ID,
		Name:       "Ms. Alvarez",
		Department: "English",
		IsActive:   true,
	}
	require.NoError(t, db.Create(&teacher).Error)

	return school, teacher
}

func stubJWT(c *fiber.Ctx) error {
	c.Locals("user_id", uint(1))
	return c.Next()
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func setupAnalyzeApp(t *testing.T, analyzer ai.Analyzer, jwtMiddleware fiber.Handler) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := openHandlerDB(t)

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	analysisService := service.NewAnalysisService(
		repository.NewEssayRepository(db),
		repository.NewAnalysisRepository(db),
		repository.NewTeacherRepository(db),
		repository.NewSchoolRepository(db),
		analyzer,
		nil,
		validate,
		logger,
	)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test", JWTSecret: "secret"}, router.Dependencies{
		AnalyzeHandler: handler.NewAnalyzeHandler(analysisService, logger),
		JWTMiddleware:  jwtMiddleware,
	})

	return app, db
}

func postAnalyze(t *testing.T, app *fiber.App, payload dto.AnalyzeRequest, headers map[string]string) (int, []byte) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/analyze", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, responseBody
}

func TestAnalyzeEndpointSuccess(t *testing.T) {
	app, db := setupAnalyzeApp(t, &fencedAnalyzer{}, stubJWT)
	school, teacher := seedDirectory(t, db)

	status, body := postAnalyze(t, app, dto.AnalyzeRequest{
		EssayText: "The opening line sets the tone for the whole essay.",
		Prompt:    "Discuss the author's use of tone.",
		SchoolID:  school.ID,
		TeacherID: teacher.ID,
	}, nil)
	require.Equal(t, fiber.StatusOK, status)

	var resp dto.AnalyzeResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotZero(t, resp.EssayID)
	require.Equal(t, "Ms. Alvarez", resp.TeacherName)
	require.Equal(t, "Ridgeview High", resp.SchoolName)
	require.Equal(t, ai.ConfidenceHigh, resp.Result.GradePrediction.Confidence)
	require.NotEmpty(t, resp.Result.InlineComments)
	require.Equal(t, "Solid work overall.", resp.Result.EndComment)

	var essay models.Essay
	require.NoError(t, db.First(&essay, resp.EssayID).Error)
	require.Equal(t, models.EssayStatusCompleted, essay.Status)
	require.NotNil(t, essay.StudentID)
	require.Equal(t, uint(1), *essay.StudentID)
}

func TestAnalyzeEndpointMissingPrompt(t *testing.T) {
	app, db := setupAnalyzeApp(t, &fencedAnalyzer{}, stubJWT)
	school, teacher := seedDirectory(t, db)

	status, body := postAnalyze(t, app, dto.AnalyzeRequest{
		EssayText: "Body text here.",
		Prompt:    "   ",
		SchoolID:  school.ID,
		TeacherID: teacher.ID,
	}, nil)
	require.Equal(t, fiber.StatusBadRequest, status)

	var apiErr struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &apiErr))
	require.Equal(t, "missing required fields", apiErr.Error)

	var count int64
	require.NoError(t, db.Model(&models.Essay{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestAnalyzeEndpointMissingBodyFields(t *testing.T) {
	app, db := setupAnalyzeApp(t, &fencedAnalyzer{}, stubJWT)
	seedDirectory(t, db)

	status, _ := postAnalyze(t, app, dto.AnalyzeRequest{
		EssayText: "Body text here.",
		Prompt:    "Prompt here.",
	}, nil)
	require.Equal(t, fiber.StatusBadRequest, status)
}

func TestAnalyzeEndpointUnknownTeacher(t *testing.T) {
	app, db := setupAnalyzeApp(t, &fencedAnalyzer{}, stubJWT)
	school, _ := seedDirectory(t, db)

	status, body := postAnalyze(t, app, dto.AnalyzeRequest{
		EssayText: "Body text here.",
		Prompt:    "Prompt here.",
		SchoolID:  school.ID,
		TeacherID: 999,
	}, nil)
	require.Equal(t, fiber.StatusNotFound, status)

	var apiErr struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &apiErr))
	require.Equal(t, "teacher not found", apiErr.Error)
}

func TestAnalyzeEndpointModelFailure(t *testing.T) {
	app, db := setupAnalyzeApp(t, &fencedAnalyzer{err: fmt.Errorf("%w: timeout", ai.ErrUpstream)}, stubJWT)
	school, teacher := seedDirectory(t, db)

	status, body := postAnalyze(t, app, dto.AnalyzeRequest{
		EssayText: "Body text here.",
		Prompt:    "Prompt here.",
		SchoolID:  school.ID,
		TeacherID: teacher.ID,
	}, nil)
	require.Equal(t, fiber.StatusInternalServerError, status)

	var apiErr struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &apiErr))
	require.Equal(t, "analysis failed", apiErr.Error)

	var essay models.Essay
	require.NoError(t, db.First(&essay).Error)
	require.Equal(t, models.EssayStatusFailed, essay.Status)
}

func TestAnalyzeEndpointRequiresToken(t *testing.T) {
	app, db := setupAnalyzeApp(t, &fencedAnalyzer{}, middleware.JWTProtected("secret"))
	school, teacher := seedDirectory(t, db)

	payload := dto.AnalyzeRequest{
		EssayText: "Body text here.",
		Prompt:    "Prompt here.",
		SchoolID:  school.ID,
		TeacherID: teacher.ID,
	}

	status, body := postAnalyze(t, app, payload, nil)
	require.Equal(t, fiber.StatusUnauthorized, status)

	var apiErr struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &apiErr))
	require.NotEmpty(t, apiErr.Error)

	status, body = postAnalyze(t, app, payload, map[string]string{
		"Authorization": "Bearer " + signToken(t, "secret", 7),
	})
	require.Equal(t, fiber.StatusOK, status)

	var resp dto.AnalyzeResponse
	require.NoError(t, json.Unmarshal(body, &resp))

	var essay models.Essay
	require.NoError(t, db.First(&essay, resp.EssayID).Error)
	require.NotNil(t, essay.StudentID)
	require.Equal(t, uint(7), *essay.StudentID)
}

func signToken(t *testing.T, secret string, subject uint) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": float64(subject),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	return signed
}
