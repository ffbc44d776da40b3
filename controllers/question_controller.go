package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/polldesk/survey-server/config"
	"github.com/polldesk/survey-server/middleware"
	"github.com/polldesk/survey-server/models"
)

func validQuestionType(t string) bool {
	switch t {
	case models.QuestionTypeSingleChoice, models.QuestionTypeMultipleChoice, models.QuestionTypeText:
		return true
	}
	return false
}

type createQuestionReq struct {
	Name string `json:"name"`
	Type string `json:"type" binding:"required"`
}

// POST /api/surveys/:uuid/questions (owner-gated)
func CreateQuestion(c *gin.Context) {
	survey := c.MustGet(middleware.CtxSurvey).(models.Survey)

	var req createQuestionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}
	if !validQuestionType(req.Type) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Unknown question type"})
		return
	}

	// Next seq_id = MAX(seq_id)+1 within the survey.
	type nextRes struct{ Next int }
	var r nextRes
	_ = config.DB.Model(&models.Question{}).
		Where("survey_id = ?", survey.ID).
		Select("COALESCE(MAX(seq_id), 0) + 1 AS next").
		Scan(&r).Error

	q := models.Question{
		SurveyID: survey.ID,
		SeqID:    r.Next,
		Name:     req.Name,
		Type:     req.Type,
		IsActive: true,
	}

	if err := config.DB.Create(&q).Error; err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"uuid": q.ID, "survey": survey.ID, "seq_id": q.SeqID})
}

type updateQuestionReq struct {
	Name     *string `json:"name"`
	Type     *string `json:"type"`
	SeqID    *int    `json:"seq_id"`
	IsActive *bool   `json:"is_active"`
}

// PUT /api/questions/:uuid (owner-gated)
//
// Switching a question to the text type drops its answer options in
// the same transaction.
func UpdateQuestion(c *gin.Context) {
	q := c.MustGet(middleware.CtxQuestion).(models.Question)

	var req updateQuestionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}
	if req.Type != nil && !validQuestionType(*req.Type) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Unknown question type"})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.SeqID != nil {
		updates["seq_id"] = *req.SeqID
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Nothing to update"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if req.Type != nil && *req.Type == models.QuestionTypeText && q.Type != models.QuestionTypeText {
			if err := tx.Where("question_id = ?", q.ID).Delete(&models.AnswerOption{}).Error; err != nil {
				return err
			}
		}
		return tx.Model(&q).Updates(updates).Error
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

// DELETE /api/questions/:uuid (owner-gated)
func DeleteQuestion(c *gin.Context) {
	q := c.MustGet(middleware.CtxQuestion).(models.Question)

	if err := config.DB.Delete(&q).Error; err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
