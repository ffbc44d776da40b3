package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/polldesk/survey-server/models"
)

// CompleteSurvey validates and marks the respondent's session as
// completed. Validation and the status mutation run inside one
// transaction so the per-question answer check sees the same snapshot
// the mutation applies to.
func CompleteSurvey(db *gorm.DB, survey *models.Survey, user *models.User, token *uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		req := &AnswerRequest{User: user, Survey: survey, ResponseToken: token}
		if err := CompletedSurveyChecker().Validate(tx, req); err != nil {
			return err
		}

		resp, err := ResolveUserResponse(tx, survey, user, token)
		if err != nil {
			return err
		}

		now := time.Now()
		return tx.Model(resp).Updates(map[string]interface{}{
			"status":       models.ResponseStatusCompleted,
			"completed_at": now,
		}).Error
	})
}
