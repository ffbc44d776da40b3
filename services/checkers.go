package services

import (
	"gorm.io/gorm"

	"github.com/polldesk/survey-server/models"
)

// CanFinish reports whether the respondent has answered every question
// of the survey at least once, which is what enables the finish button
// on the client.
func CanFinish(db *gorm.DB, resp *models.UserResponse) (bool, error) {
	if resp == nil {
		return false, nil
	}

	var questionCount int64
	if err := db.Model(&models.Question{}).
		Where("survey_id = ?", resp.SurveyID).
		Count(&questionCount).Error; err != nil {
		return false, err
	}

	var answeredCount int64
	if err := db.Model(&models.UserAnswer{}).
		Where("user_response_id = ?", resp.ID).
		Distinct("question_id").
		Count(&answeredCount).Error; err != nil {
		return false, err
	}

	return questionCount > 0 && questionCount == answeredCount, nil
}

// IsCompleted reports whether the session has been completed. A nil
// session (respondent never started) counts as not completed.
func IsCompleted(resp *models.UserResponse) bool {
	return resp != nil && resp.Status == models.ResponseStatusCompleted
}
