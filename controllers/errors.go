package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/polldesk/survey-server/services"
)

// handleServiceError is the single boundary where core errors become
// HTTP responses: validation failures are 400s (with the per-question
// map when present), missing records 404s, uniqueness conflicts 409s,
// everything else a 500. Nothing here is retried.
func handleServiceError(c *gin.Context, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		body := gin.H{"error": verr.Message}
		if verr.QuestionErrors != nil {
			body["questions_error_map"] = verr.QuestionErrors
		}
		c.JSON(http.StatusBadRequest, body)
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		c.JSON(http.StatusConflict, gin.H{"error": "Conflicting concurrent request"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
