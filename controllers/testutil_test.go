package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/polldesk/survey-server/config"
	"github.com/polldesk/survey-server/models"
	"github.com/polldesk/survey-server/routes"
	"github.com/polldesk/survey-server/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupServer wires a fresh in-memory database into the package-level
// connection and returns the full route tree.
func setupServer(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Survey{},
		&models.Question{},
		&models.AnswerOption{},
		&models.UserResponse{},
		&models.UserAnswer{},
	))
	config.DB = db

	r := gin.New()
	routes.SetupRoutes(r)
	return r
}

func createTestUser(t *testing.T, firstName, email string) *models.User {
	t.Helper()
	u := models.User{FirstName: firstName, LastName: "Tester", Email: email}
	require.NoError(t, config.DB.Create(&u).Error)
	return &u
}

func bearerToken(t *testing.T, u *models.User) string {
	t.Helper()
	token, err := utils.GenerateToken(strconv.FormatUint(uint64(u.ID), 10))
	require.NoError(t, err)
	return "Bearer " + token
}

func jsonRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func doRequest(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
