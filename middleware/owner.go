package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/polldesk/survey-server/config"
	"github.com/polldesk/survey-server/models"
)

const (
	CtxQuestion = "questionObj"
	CtxOption   = "optionObj"
)

// CheckSurveyOwner loads the survey (with its owner set) into the
// context and rejects callers outside that set.
func CheckSurveyOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := c.MustGet(CtxUser).(models.User)

		id, err := uuid.Parse(c.Param("uuid"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid survey id"})
			return
		}

		var survey models.Survey
		if err := config.DB.Preload("Owners").First(&survey, "uuid = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Survey not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Cannot load survey"})
			return
		}

		if !survey.IsUserOwner(u.ID) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Not a survey owner"})
			return
		}

		c.Set(CtxSurvey, survey)
		c.Next()
	}
}

// CheckQuestionOwner resolves a question's survey and applies the same
// ownership gate, stashing both objects for the controller.
func CheckQuestionOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := c.MustGet(CtxUser).(models.User)

		qid, err := uuid.Parse(c.Param("uuid"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid question id"})
			return
		}

		var question models.Question
		if err := config.DB.First(&question, "uuid = ?", qid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Question not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Cannot load question"})
			return
		}

		var survey models.Survey
		if err := config.DB.Preload("Owners").First(&survey, "uuid = ?", question.SurveyID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Cannot load survey"})
			return
		}

		if !survey.IsUserOwner(u.ID) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Not a survey owner"})
			return
		}

		c.Set(CtxSurvey, survey)
		c.Set(CtxQuestion, question)
		c.Next()
	}
}

// CheckOptionOwner walks option -> question -> survey before applying
// the ownership gate.
func CheckOptionOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := c.MustGet(CtxUser).(models.User)

		oid, err := uuid.Parse(c.Param("uuid"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid answer option id"})
			return
		}

		var option models.AnswerOption
		if err := config.DB.First(&option, "uuid = ?", oid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Answer option not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Cannot load answer option"})
			return
		}

		var question models.Question
		if err := config.DB.First(&question, "uuid = ?", option.QuestionID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Cannot load question"})
			return
		}

		var survey models.Survey
		if err := config.DB.Preload("Owners").First(&survey, "uuid = ?", question.SurveyID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Cannot load survey"})
			return
		}

		if !survey.IsUserOwner(u.ID) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Not a survey owner"})
			return
		}

		c.Set(CtxOption, option)
		c.Next()
	}
}
