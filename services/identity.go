package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/polldesk/survey-server/models"
)

// ResolveUserResponse finds the caller's session for a survey.
// Anonymous surveys are resolved only by the session token; everything
// else only by the user's identity. A missing session is not an error:
// it means the respondent has not started, and (nil, nil) is returned.
// This never creates a session — see GetOrCreateUserResponse.
func ResolveUserResponse(db *gorm.DB, survey *models.Survey, user *models.User, token *uuid.UUID) (*models.UserResponse, error) {
	q := db.Where("survey_id = ?", survey.ID)
	if survey.IsAnonymous {
		if token == nil {
			return nil, nil
		}
		q = q.Where("uuid = ?", *token)
	} else {
		if user == nil {
			return nil, nil
		}
		q = q.Where("user_id = ?", user.ID)
	}

	var resp models.UserResponse
	if err := q.First(&resp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &resp, nil
}

// GetOrCreateUserResponse is the only place sessions come into
// existence. The lookup filter matches ResolveUserResponse; the
// FirstOrCreate runs against the caller's transaction so a concurrent
// first submission hits the (survey_id, user_id) unique index instead
// of racing in a second row. The bool reports whether a new session
// was created.
func GetOrCreateUserResponse(tx *gorm.DB, survey *models.Survey, user *models.User, token *uuid.UUID) (*models.UserResponse, bool, error) {
	var resp models.UserResponse

	q := tx.Where("survey_id = ?", survey.ID)
	if user != nil {
		q = q.Where("user_id = ?", user.ID)
	} else if token != nil {
		q = q.Where("uuid = ?", *token)
	} else {
		q = q.Where("1 = 0") // no identity at all: always create
	}

	attrs := models.UserResponse{SurveyID: survey.ID, Status: models.ResponseStatusInProgress}
	if user != nil {
		attrs.UserID = &user.ID
	}

	res := q.Attrs(attrs).FirstOrCreate(&resp)
	if res.Error != nil {
		return nil, false, res.Error
	}
	return &resp, res.RowsAffected > 0, nil
}
