package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/polldesk/survey-server/models"
)

// ApplyAnswer mutates the stored answers for one (response, question)
// pair according to the question type. Callers are expected to have
// validated the payload and to run this inside the same transaction as
// the session get-or-create.
//
//   - text: create on first non-empty text, update in place after,
//     delete when the text is cleared
//   - single_choice: at most one row, always pointing at the last
//     selected option
//   - multiple_choice: toggle one row per option
func ApplyAnswer(tx *gorm.DB, question *models.Question, resp *models.UserResponse, option *models.AnswerOption, text *string) error {
	switch question.Type {
	case models.QuestionTypeText:
		return applyTextAnswer(tx, question, resp, text)
	case models.QuestionTypeSingleChoice:
		if option == nil {
			return NewValidationError("answer must reference a selected option")
		}
		return applySingleChoiceAnswer(tx, question, resp, option)
	case models.QuestionTypeMultipleChoice:
		if option == nil {
			return NewValidationError("answer must reference a selected option")
		}
		return applyMultipleChoiceAnswer(tx, question, resp, option)
	default:
		return fmt.Errorf("unsupported question type: %s", question.Type)
	}
}

func applyTextAnswer(tx *gorm.DB, question *models.Question, resp *models.UserResponse, text *string) error {
	var answer models.UserAnswer
	err := tx.Where("user_response_id = ? AND question_id = ?", resp.ID, question.ID).
		First(&answer).Error

	hasText := text != nil && *text != ""

	if errors.Is(err, gorm.ErrRecordNotFound) {
		if !hasText {
			return nil
		}
		return tx.Create(&models.UserAnswer{
			UserResponseID: resp.ID,
			QuestionID:     question.ID,
			TextAnswer:     text,
		}).Error
	}
	if err != nil {
		return err
	}

	// Clearing the text deletes the answer instead of keeping an empty row.
	if !hasText {
		return tx.Delete(&answer).Error
	}
	return tx.Model(&answer).Update("text_answer", *text).Error
}

func applySingleChoiceAnswer(tx *gorm.DB, question *models.Question, resp *models.UserResponse, option *models.AnswerOption) error {
	var answer models.UserAnswer
	err := tx.Where("user_response_id = ? AND question_id = ?", resp.ID, question.ID).
		First(&answer).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&models.UserAnswer{
			UserResponseID: resp.ID,
			QuestionID:     question.ID,
			AnswerOptionID: &option.ID,
		}).Error
	}
	if err != nil {
		return err
	}
	return tx.Model(&answer).Update("answer_option_id", option.ID).Error
}

func applyMultipleChoiceAnswer(tx *gorm.DB, question *models.Question, resp *models.UserResponse, option *models.AnswerOption) error {
	var answer models.UserAnswer
	err := tx.Where("user_response_id = ? AND question_id = ? AND answer_option_id = ?",
		resp.ID, question.ID, option.ID).
		First(&answer).Error

	// Resubmitting a selected option deselects it.
	if err == nil {
		return tx.Delete(&answer).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return tx.Create(&models.UserAnswer{
		UserResponseID: resp.ID,
		QuestionID:     question.ID,
		AnswerOptionID: &option.ID,
	}).Error
}
