package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polldesk/survey-server/config"
	"github.com/polldesk/survey-server/middleware"
	"github.com/polldesk/survey-server/models"
)

type createOptionReq struct {
	Name string `json:"name"`
}

// POST /api/questions/:uuid/answer-options (owner-gated)
func CreateAnswerOption(c *gin.Context) {
	q := c.MustGet(middleware.CtxQuestion).(models.Question)

	var req createOptionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}
	if q.Type == models.QuestionTypeText {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text questions have no answer options"})
		return
	}

	type nextRes struct{ Next int }
	var r nextRes
	_ = config.DB.Model(&models.AnswerOption{}).
		Where("question_id = ?", q.ID).
		Select("COALESCE(MAX(seq_id), 0) + 1 AS next").
		Scan(&r).Error

	option := models.AnswerOption{
		QuestionID: q.ID,
		SeqID:      r.Next,
		Name:       req.Name,
		IsActive:   true,
	}

	if err := config.DB.Create(&option).Error; err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"uuid": option.ID, "question": q.ID, "seq_id": option.SeqID})
}

type updateOptionReq struct {
	Name     *string `json:"name"`
	SeqID    *int    `json:"seq_id"`
	IsActive *bool   `json:"is_active"`
}

// PUT /api/answer-options/:uuid (owner-gated)
func UpdateAnswerOption(c *gin.Context) {
	option := c.MustGet(middleware.CtxOption).(models.AnswerOption)

	var req updateOptionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
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

	if err := config.DB.Model(&option).Updates(updates).Error; err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

// DELETE /api/answer-options/:uuid (owner-gated)
func DeleteAnswerOption(c *gin.Context) {
	option := c.MustGet(middleware.CtxOption).(models.AnswerOption)

	if err := config.DB.Delete(&option).Error; err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
