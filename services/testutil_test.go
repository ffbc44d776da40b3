package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/polldesk/survey-server/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// :memory: is per-connection; keep the pool at one.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Survey{},
		&models.Question{},
		&models.AnswerOption{},
		&models.UserResponse{},
		&models.UserAnswer{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, firstName, email string) *models.User {
	t.Helper()
	u := models.User{FirstName: firstName, LastName: "Tester", Email: email}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func createSurvey(t *testing.T, db *gorm.DB, owner *models.User, status string, anonymous bool) *models.Survey {
	t.Helper()
	s := models.Survey{Name: "Team survey", Status: status, IsAnonymous: anonymous}
	if owner != nil {
		s.Owners = []models.User{*owner}
	}
	require.NoError(t, db.Create(&s).Error)

	var loaded models.Survey
	require.NoError(t, db.Preload("Owners").First(&loaded, "uuid = ?", s.ID).Error)
	return &loaded
}

func addQuestion(t *testing.T, db *gorm.DB, survey *models.Survey, seq int, name, qtype string) *models.Question {
	t.Helper()
	q := models.Question{SurveyID: survey.ID, SeqID: seq, Name: name, Type: qtype, IsActive: true}
	require.NoError(t, db.Create(&q).Error)
	return &q
}

func addOption(t *testing.T, db *gorm.DB, question *models.Question, seq int, name string) *models.AnswerOption {
	t.Helper()
	o := models.AnswerOption{QuestionID: question.ID, SeqID: seq, Name: name, IsActive: true}
	require.NoError(t, db.Create(&o).Error)
	return &o
}

func startResponse(t *testing.T, db *gorm.DB, survey *models.Survey, user *models.User) *models.UserResponse {
	t.Helper()
	resp, _, err := GetOrCreateUserResponse(db, survey, user, nil)
	require.NoError(t, err)
	return resp
}

func submitOption(t *testing.T, db *gorm.DB, q *models.Question, resp *models.UserResponse, o *models.AnswerOption) {
	t.Helper()
	require.NoError(t, ApplyAnswer(db, q, resp, o, nil))
}

func submitText(t *testing.T, db *gorm.DB, q *models.Question, resp *models.UserResponse, text string) {
	t.Helper()
	require.NoError(t, ApplyAnswer(db, q, resp, nil, &text))
}

func answersFor(t *testing.T, db *gorm.DB, resp *models.UserResponse, q *models.Question) []models.UserAnswer {
	t.Helper()
	var answers []models.UserAnswer
	require.NoError(t, db.Where("user_response_id = ? AND question_id = ?", resp.ID, q.ID).Find(&answers).Error)
	return answers
}

func completeResponse(t *testing.T, db *gorm.DB, resp *models.UserResponse) {
	t.Helper()
	require.NoError(t, db.Model(resp).Updates(map[string]interface{}{
		"status":       models.ResponseStatusCompleted,
		"completed_at": time.Now(),
	}).Error)
}

func strPtr(s string) *string { return &s }

func uuidPtr(id uuid.UUID) *uuid.UUID { return &id }
