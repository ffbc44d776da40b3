package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/polldesk/survey-server/config"
	"github.com/polldesk/survey-server/middleware"
	"github.com/polldesk/survey-server/models"
	"github.com/polldesk/survey-server/services"
)

// Anonymous session cookie lifetime.
const responseTokenTTL = 7 * 24 * time.Hour

type submitAnswerReq struct {
	Survey       string  `json:"survey" binding:"required"`
	Question     string  `json:"question" binding:"required"`
	AnswerOption *string `json:"answer_option"`
	TextAnswer   *string `json:"text_answer"`
}

// POST /api/user-answers
//
// Creates or updates a single answer according to the question type.
// The respondent's session is created here on first submission; for
// anonymous surveys the new session's token is handed back as a
// cookie, on first creation only.
func SubmitAnswer(c *gin.Context) {
	var req submitAnswerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	surveyID, err := uuid.Parse(req.Survey)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid survey id"})
		return
	}
	questionID, err := uuid.Parse(req.Question)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid question id"})
		return
	}

	var survey models.Survey
	if err := config.DB.First(&survey, "uuid = ?", surveyID).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	var question models.Question
	if err := config.DB.First(&question, "uuid = ?", questionID).Error; err != nil {
		handleServiceError(c, err)
		return
	}
	if question.SurveyID != survey.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question does not belong to the survey"})
		return
	}

	var option *models.AnswerOption
	var optionID *uuid.UUID
	if req.AnswerOption != nil && *req.AnswerOption != "" {
		oid, err := uuid.Parse(*req.AnswerOption)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid answer option id"})
			return
		}
		var o models.AnswerOption
		if err := config.DB.First(&o, "uuid = ?", oid).Error; err != nil {
			handleServiceError(c, err)
			return
		}
		option = &o
		optionID = &o.ID
	}

	respondent := middleware.CurrentUser(c)
	if survey.IsAnonymous {
		respondent = nil
	} else if respondent == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}
	token := responseTokenFromCookie(c)

	answerReq := &services.AnswerRequest{
		User:          respondent,
		Survey:        &survey,
		QuestionID:    &question.ID,
		OptionID:      optionID,
		TextAnswer:    req.TextAnswer,
		ResponseToken: token,
	}
	if err := services.UserAnswerChecker().Validate(config.DB, answerReq); err != nil {
		handleServiceError(c, err)
		return
	}

	var resp *models.UserResponse
	var created bool
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		resp, created, txErr = services.GetOrCreateUserResponse(tx, &survey, respondent, token)
		if txErr != nil {
			return txErr
		}
		return services.ApplyAnswer(tx, &question, resp, option, req.TextAnswer)
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if respondent == nil && created {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(responseTokenCookie, resp.ID.String(), int(responseTokenTTL.Seconds()), "/", "", false, true)
	}
	c.Status(http.StatusNoContent)
}
