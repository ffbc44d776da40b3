package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/polldesk/survey-server/config"
	"github.com/polldesk/survey-server/middleware"
	"github.com/polldesk/survey-server/models"
	"github.com/polldesk/survey-server/services"
)

func loadStatSurvey(c *gin.Context) (*models.Survey, bool) {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid survey id"})
		return nil, false
	}

	var survey models.Survey
	if err := config.DB.Preload("Owners").First(&survey, "uuid = ?", id).Error; err != nil {
		handleServiceError(c, err)
		return nil, false
	}

	u := c.MustGet(middleware.CtxUser).(models.User)
	req := &services.AnswerRequest{User: &u, Survey: &survey}
	if err := services.SurveyStatChecker().Validate(config.DB, req); err != nil {
		handleServiceError(c, err)
		return nil, false
	}
	return &survey, true
}

// GET /api/surveys/:uuid/stat (owner-gated via the stat pipeline)
func GetSurveyStat(c *gin.Context) {
	survey, ok := loadStatSurvey(c)
	if !ok {
		return
	}

	stat, err := services.BuildSurveyStat(config.DB, survey)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stat)
}

// GET /api/surveys/:uuid/stat-user?page=1&limit=10
//
// Per-respondent breakdown, paginated over respondents. Anonymous
// sessions never appear here.
func GetSurveyUserStat(c *gin.Context) {
	survey, ok := loadStatSurvey(c)
	if !ok {
		return
	}

	stat, err := services.BuildSurveyUserStat(config.DB, survey)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	total := len(stat.Users)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	users := stat.Users[start:end]

	totalPages := (total + limit - 1) / limit

	c.JSON(http.StatusOK, gin.H{
		"count":       total,
		"total_pages": totalPages,
		"results": gin.H{
			"uuid":   stat.UUID,
			"name":   stat.Name,
			"status": stat.Status,
			"users":  users,
		},
	})
}
