package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/polldesk/survey-server/models"
)

// SurveyValidator is one independent check in a pipeline. A validator
// either passes silently or returns a *ValidationError.
type SurveyValidator interface {
	Check(db *gorm.DB, r *AnswerRequest) error
}

// Checker runs an ordered validator list with fail-fast semantics: the
// first failing validator aborts the pipeline.
type Checker struct {
	validators []SurveyValidator
}

func (c Checker) Validate(db *gorm.DB, r *AnswerRequest) error {
	for _, v := range c.validators {
		if err := v.Check(db, r); err != nil {
			return err
		}
	}
	return nil
}

// UserAnswerChecker guards answer submission.
func UserAnswerChecker() Checker {
	return Checker{validators: []SurveyValidator{
		IsSurveyActiveValidator{},
		ChoiceAnswerValidator{},
		CompletedSurveyValidator{},
		TextAnswerValidator{},
	}}
}

// UserResponseChecker guards survey retrieval by a respondent.
func UserResponseChecker() Checker {
	return Checker{validators: []SurveyValidator{
		OwnerCompletedSurveyValidator{},
	}}
}

// CompletedSurveyChecker guards the complete-survey transition.
func CompletedSurveyChecker() Checker {
	return Checker{validators: []SurveyValidator{
		CompletedSurveyValidator{},
		SurveyNotStartedValidator{},
		QuestionAnswersValidator{},
	}}
}

// SurveyStatChecker guards both statistics endpoints.
func SurveyStatChecker() Checker {
	return Checker{validators: []SurveyValidator{
		OwnerSurveyValidator{},
		IsSurveyStatValidator{},
	}}
}

// PublishSurveyChecker guards the draft -> active transition.
func PublishSurveyChecker() Checker {
	return Checker{validators: []SurveyValidator{
		SurveyNameValidator{},
		SurveyQuestionsValidator{},
		SurveyAnswersValidator{},
		UniqueQuestionsValidator{},
		UniqueAnswerOptionsValidator{},
	}}
}

type IsSurveyActiveValidator struct{}

func (IsSurveyActiveValidator) Check(db *gorm.DB, r *AnswerRequest) error {
	if r.Survey.Status != models.SurveyStatusActive {
		return NewValidationError("survey is not active")
	}
	return nil
}

func questionType(db *gorm.DB, r *AnswerRequest) (string, error) {
	if r.QuestionID == nil {
		return "", nil
	}
	var q models.Question
	if err := db.Select("uuid, type").First(&q, "uuid = ?", *r.QuestionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return q.Type, nil
}

// ChoiceAnswerValidator rejects free text sent to a choice question.
type ChoiceAnswerValidator struct{}

func (ChoiceAnswerValidator) Check(db *gorm.DB, r *AnswerRequest) error {
	qt, err := questionType(db, r)
	if err != nil {
		return err
	}
	if qt != "" && qt != models.QuestionTypeText && r.TextAnswer != nil && *r.TextAnswer != "" {
		return NewValidationError("answer must reference a selected option")
	}
	return nil
}

// TextAnswerValidator rejects an option reference sent to a text question.
type TextAnswerValidator struct{}

func (TextAnswerValidator) Check(db *gorm.DB, r *AnswerRequest) error {
	qt, err := questionType(db, r)
	if err != nil {
		return err
	}
	if qt == models.QuestionTypeText && r.OptionID != nil {
		return NewValidationError("answer must contain text")
	}
	return nil
}

type CompletedSurveyValidator struct{}

func (CompletedSurveyValidator) Check(db *gorm.DB, r *AnswerRequest) error {
	resp, err := ResolveUserResponse(db, r.Survey, r.User, r.ResponseToken)
	if err != nil {
		return err
	}
	if resp != nil && resp.Status == models.ResponseStatusCompleted {
		return NewValidationError("survey already completed")
	}
	return nil
}

// OwnerCompletedSurveyValidator blocks re-viewing a completed survey,
// but only for authenticated non-owners of non-anonymous surveys.
type OwnerCompletedSurveyValidator struct{}

func (OwnerCompletedSurveyValidator) Check(db *gorm.DB, r *AnswerRequest) error {
	if r.User == nil || r.Survey.IsAnonymous || r.Survey.IsUserOwner(r.User.ID) {
		return nil
	}
	return CompletedSurveyValidator{}.Check(db, r)
}

type SurveyNotStartedValidator struct{}

func (SurveyNotStartedValidator) Check(db *gorm.DB, r *AnswerRequest) error {
	resp, err := ResolveUserResponse(db, r.Survey, r.User, r.ResponseToken)
	if err != nil {
		return err
	}
	if resp == nil {
		return NewValidationError("respondent has not started the survey")
	}
	return nil
}

// OwnerSurveyValidator requires the caller to be in the survey's owner
// set. Anonymous callers pass automatically: there is no identity to
// check ownership against.
type OwnerSurveyValidator struct{}

func (OwnerSurveyValidator) Check(db *gorm.DB, r *AnswerRequest) error {
	if r.User != nil && !r.Survey.IsUserOwner(r.User.ID) {
		return NewValidationError("not a survey owner")
	}
	return nil
}

type IsSurveyStatValidator struct{}

func (IsSurveyStatValidator) Check(db *gorm.DB, r *AnswerRequest) error {
	var count int64
	err := db.Model(&models.UserAnswer{}).
		Joins("JOIN user_responses ur ON ur.uuid = user_answers.user_response_id").
		Where("ur.survey_id = ? AND ur.status = ?", r.Survey.ID, models.ResponseStatusCompleted).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return NewValidationError("no statistics available for this survey")
	}
	return nil
}

// QuestionAnswersValidator is the one aggregating validator: it checks
// answer sufficiency per question and collects every failure into a
// question -> message map instead of aborting on the first one.
type QuestionAnswersValidator struct{}

func (QuestionAnswersValidator) Check(db *gorm.DB, r *AnswerRequest) error {
	resp, err := ResolveUserResponse(db, r.Survey, r.User, r.ResponseToken)
	if err != nil {
		return err
	}
	if resp == nil {
		return NewValidationError("respondent has not started the survey")
	}

	var questions []models.Question
	if err := db.Where("survey_id = ?", r.Survey.ID).
		Order("seq_id ASC").
		Find(&questions).Error; err != nil {
		return err
	}

	questionErrors := map[string]string{}
	for _, q := range questions {
		var answers []models.UserAnswer
		if err := db.Where("user_response_id = ? AND question_id = ?", resp.ID, q.ID).
			Find(&answers).Error; err != nil {
			return err
		}
		if err := checkQuestionAnswers(&q, answers); err != nil {
			questionErrors[q.ID.String()] = err.Error()
		}
	}

	if len(questionErrors) > 0 {
		return &ValidationError{
			Message:        "answer validation failed",
			QuestionErrors: questionErrors,
		}
	}
	return nil
}

func checkQuestionAnswers(q *models.Question, answers []models.UserAnswer) error {
	switch q.Type {
	case models.QuestionTypeText:
		if len(answers) == 0 {
			return NewValidationError("answer missing")
		}
		if answers[0].TextAnswer == nil || *answers[0].TextAnswer == "" {
			return NewValidationError("text field is empty")
		}
	case models.QuestionTypeSingleChoice:
		if len(answers) == 0 {
			return NewValidationError("answer missing")
		}
		if len(answers) > 1 {
			return NewValidationError("multiple answers for a single choice field")
		}
	case models.QuestionTypeMultipleChoice:
		if len(answers) == 0 {
			return NewValidationError("answer missing")
		}
	}
	return nil
}

type SurveyNameValidator struct{}

func (SurveyNameValidator) Check(db *gorm.DB, r *AnswerRequest) error {
	if r.Survey.Name == "" {
		return NewValidationError("survey has no name")
	}
	return nil
}

type SurveyQuestionsValidator struct{}

func (SurveyQuestionsValidator) Check(db *gorm.DB, r *AnswerRequest) error {
	var questions []models.Question
	if err := db.Where("survey_id = ?", r.Survey.ID).Find(&questions).Error; err != nil {
		return err
	}
	if len(questions) == 0 {
		return NewValidationError("survey must have at least one question")
	}
	for _, q := range questions {
		if q.Name == "" {
			return NewValidationError("survey has a question with an empty name")
		}
	}
	return nil
}

// SurveyAnswersValidator requires every choice question to carry at
// least one named answer option.
type SurveyAnswersValidator struct{}

func (SurveyAnswersValidator) Check(db *gorm.DB, r *AnswerRequest) error {
	var questions []models.Question
	if err := db.Where("survey_id = ? AND type <> ?", r.Survey.ID, models.QuestionTypeText).
		Preload("AnswerOptions").
		Find(&questions).Error; err != nil {
		return err
	}
	for _, q := range questions {
		if len(q.AnswerOptions) == 0 {
			return NewValidationError(fmt.Sprintf("question %q must have at least one answer option", q.Name))
		}
		for _, o := range q.AnswerOptions {
			if o.Name == "" {
				return NewValidationError(fmt.Sprintf("question %q has answer options with empty names", q.Name))
			}
		}
	}
	return nil
}

type UniqueQuestionsValidator struct{}

func (UniqueQuestionsValidator) Check(db *gorm.DB, r *AnswerRequest) error {
	var questions []models.Question
	if err := db.Where("survey_id = ?", r.Survey.ID).Find(&questions).Error; err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		if _, dup := seen[q.Name]; dup {
			return NewValidationError("question names must be unique")
		}
		seen[q.Name] = struct{}{}
	}
	return nil
}

type UniqueAnswerOptionsValidator struct{}

func (UniqueAnswerOptionsValidator) Check(db *gorm.DB, r *AnswerRequest) error {
	var questions []models.Question
	if err := db.Where("survey_id = ?", r.Survey.ID).Preload("AnswerOptions").Find(&questions).Error; err != nil {
		return err
	}
	for _, q := range questions {
		seen := make(map[string]struct{}, len(q.AnswerOptions))
		for _, o := range q.AnswerOptions {
			if _, dup := seen[o.Name]; dup {
				return NewValidationError("answer option names must be unique")
			}
			seen[o.Name] = struct{}{}
		}
	}
	return nil
}
