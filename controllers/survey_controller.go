package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/polldesk/survey-server/config"
	"github.com/polldesk/survey-server/middleware"
	"github.com/polldesk/survey-server/models"
	"github.com/polldesk/survey-server/services"
)

const responseTokenCookie = "user_response_uuid"

type createSurveyReq struct {
	Name        string `json:"name" binding:"required,min=1"`
	IsAnonymous bool   `json:"is_anonymous"`
}

func CreateSurvey(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	var req createSurveyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	survey := models.Survey{
		Name:        req.Name,
		Status:      models.SurveyStatusDraft,
		IsAnonymous: req.IsAnonymous,
		Owners:      []models.User{u},
	}

	if err := config.DB.Create(&survey).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"uuid":         survey.ID,
		"name":         survey.Name,
		"status":       survey.Status,
		"is_anonymous": survey.IsAnonymous,
		"created_at":   survey.CreatedAt,
	})
}

// GET /api/surveys?filter_action=own|all_active&page=1&limit=10
func ListSurveys(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := config.DB.Model(&models.Survey{})
	if c.DefaultQuery("filter_action", "own") == "all_active" {
		query = query.Where("status = ?", models.SurveyStatusActive)
	} else {
		query = query.
			Where("uuid IN (?)", config.DB.Table("survey_owners").
				Select("survey_uuid").Where("user_id = ?", u.ID)).
			Where("status <> ?", models.SurveyStatusArchived)
	}
	if name := c.Query("name"); name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}

	var total int64
	query.Count(&total)

	var surveys []models.Survey
	if err := query.Order("name ASC").Limit(limit).Offset(offset).Find(&surveys).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":    page,
		"limit":   limit,
		"total":   total,
		"surveys": surveys,
	})
}

// GET /api/surveys/:uuid
//
// Returns the survey with its questions, options, the caller's own
// answers and the computed can_finish / is_completed / is_user_owner /
// actions fields. Anonymous surveys are readable without a login.
func GetSurveyDetail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid survey id"})
		return
	}

	var survey models.Survey
	err = config.DB.
		Preload("Owners").
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("seq_id ASC") }).
		Preload("Questions.AnswerOptions", func(db *gorm.DB) *gorm.DB { return db.Order("seq_id ASC") }).
		First(&survey, "uuid = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Survey not found"})
		return
	}
	if err != nil {
		handleServiceError(c, err)
		return
	}

	caller := middleware.CurrentUser(c)
	if !survey.IsAnonymous && caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	// Anonymous surveys are always taken via the session token, even by
	// logged-in callers.
	respondent := caller
	if survey.IsAnonymous {
		respondent = nil
	}
	token := responseTokenFromCookie(c)

	req := &services.AnswerRequest{User: respondent, Survey: &survey, ResponseToken: token}
	if err := services.UserResponseChecker().Validate(config.DB, req); err != nil {
		handleServiceError(c, err)
		return
	}

	resp, err := services.ResolveUserResponse(config.DB, &survey, respondent, token)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	userAnswers := []models.UserAnswer{}
	if resp != nil {
		if err := config.DB.Where("user_response_id = ?", resp.ID).Find(&userAnswers).Error; err != nil {
			handleServiceError(c, err)
			return
		}
	}

	canFinish, err := services.CanFinish(config.DB, resp)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	isOwner := caller != nil && survey.IsUserOwner(caller.ID)

	c.JSON(http.StatusOK, gin.H{
		"uuid":          survey.ID,
		"name":          survey.Name,
		"status":        survey.Status,
		"is_anonymous":  survey.IsAnonymous,
		"end_date":      survey.EndDate,
		"questions":     survey.Questions,
		"user_answers":  userAnswers,
		"can_finish":    canFinish,
		"is_completed":  services.IsCompleted(resp),
		"is_user_owner": isOwner,
		"actions":       services.ActionsForStatus(survey.Status),
	})
}

type updateSurveyReq struct {
	Name        *string `json:"name"`
	Status      *string `json:"status"`
	IsAnonymous *bool   `json:"is_anonymous"`
}

// PUT /api/surveys/:uuid (owner-gated)
//
// Moving a draft to active runs the publish pipeline first; closing a
// survey stamps end_date.
func UpdateSurvey(c *gin.Context) {
	survey := c.MustGet(middleware.CtxSurvey).(models.Survey)
	u := c.MustGet(middleware.CtxUser).(models.User)

	var req updateSurveyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	if req.Status != nil {
		switch *req.Status {
		case models.SurveyStatusDraft, models.SurveyStatusActive,
			models.SurveyStatusClosed, models.SurveyStatusArchived:
		default:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Unknown survey status"})
			return
		}
	}

	if req.Status != nil && *req.Status == models.SurveyStatusActive {
		r := &services.AnswerRequest{User: &u, Survey: &survey}
		if err := services.PublishSurveyChecker().Validate(config.DB, r); err != nil {
			handleServiceError(c, err)
			return
		}
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.IsAnonymous != nil {
		updates["is_anonymous"] = *req.IsAnonymous
	}
	if req.Status != nil {
		updates["status"] = *req.Status
		if *req.Status == models.SurveyStatusClosed && survey.Status != models.SurveyStatusClosed {
			updates["end_date"] = time.Now()
		}
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Nothing to update"})
		return
	}

	if err := config.DB.Model(&models.Survey{}).
		Where("uuid = ?", survey.ID).
		Updates(updates).Error; err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

// POST /api/surveys/:uuid/complete
func CompleteSurvey(c *gin.Context) {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid survey id"})
		return
	}

	var survey models.Survey
	if err := config.DB.Preload("Owners").First(&survey, "uuid = ?", id).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	respondent := middleware.CurrentUser(c)
	if survey.IsAnonymous {
		respondent = nil
	} else if respondent == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}
	token := responseTokenFromCookie(c)

	if err := services.CompleteSurvey(config.DB, &survey, respondent, token); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"uuid":   survey.ID,
		"name":   survey.Name,
		"status": survey.Status,
	})
}

func responseTokenFromCookie(c *gin.Context) *uuid.UUID {
	raw, err := c.Cookie(responseTokenCookie)
	if err != nil {
		return nil
	}
	token, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &token
}
