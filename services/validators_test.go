package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polldesk/survey-server/models"
)

func requireValidationError(t *testing.T, err error) *ValidationError {
	t.Helper()
	require.Error(t, err)
	verr, ok := err.(*ValidationError)
	require.True(t, ok, "expected *ValidationError, got %T", err)
	return verr
}

func TestUserAnswerCheckerRejectsInactiveSurvey(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "Alice", "alice@example.com")

	for _, status := range []string{models.SurveyStatusDraft, models.SurveyStatusClosed, models.SurveyStatusArchived} {
		survey := createSurvey(t, db, nil, status, false)
		err := UserAnswerChecker().Validate(db, &AnswerRequest{User: user, Survey: survey})
		verr := requireValidationError(t, err)
		assert.Equal(t, "survey is not active", verr.Message)
	}
}

func TestUserAnswerCheckerRejectsTextOnChoiceQuestion(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "Alice", "alice@example.com")
	survey := createSurvey(t, db, nil, models.SurveyStatusActive, false)
	q := addQuestion(t, db, survey, 1, "Favorite color", models.QuestionTypeSingleChoice)

	err := UserAnswerChecker().Validate(db, &AnswerRequest{
		User:       user,
		Survey:     survey,
		QuestionID: uuidPtr(q.ID),
		TextAnswer: strPtr("blue"),
	})
	verr := requireValidationError(t, err)
	assert.Equal(t, "answer must reference a selected option", verr.Message)
}

func TestUserAnswerCheckerRejectsOptionOnTextQuestion(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "Alice", "alice@example.com")
	survey := createSurvey(t, db, nil, models.SurveyStatusActive, false)
	q := addQuestion(t, db, survey, 1, "Comments", models.QuestionTypeText)
	choiceQ := addQuestion(t, db, survey, 2, "Pick one", models.QuestionTypeSingleChoice)
	o := addOption(t, db, choiceQ, 1, "A")

	err := UserAnswerChecker().Validate(db, &AnswerRequest{
		User:       user,
		Survey:     survey,
		QuestionID: uuidPtr(q.ID),
		OptionID:   uuidPtr(o.ID),
	})
	verr := requireValidationError(t, err)
	assert.Equal(t, "answer must contain text", verr.Message)
}

func TestUserAnswerCheckerRejectsCompletedRespondent(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "Alice", "alice@example.com")
	survey := createSurvey(t, db, nil, models.SurveyStatusActive, false)
	resp := startResponse(t, db, survey, user)
	completeResponse(t, db, resp)

	err := UserAnswerChecker().Validate(db, &AnswerRequest{User: user, Survey: survey})
	verr := requireValidationError(t, err)
	assert.Equal(t, "survey already completed", verr.Message)
}

func TestUserAnswerCheckerPassesForValidSubmission(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "Alice", "alice@example.com")
	survey := createSurvey(t, db, nil, models.SurveyStatusActive, false)
	q := addQuestion(t, db, survey, 1, "Pick one", models.QuestionTypeSingleChoice)
	o := addOption(t, db, q, 1, "A")

	err := UserAnswerChecker().Validate(db, &AnswerRequest{
		User:       user,
		Survey:     survey,
		QuestionID: uuidPtr(q.ID),
		OptionID:   uuidPtr(o.ID),
	})
	assert.NoError(t, err)
}

func TestUserResponseCheckerBlocksCompletedNonOwner(t *testing.T) {
	db := setupTestDB(t)
	owner := createUser(t, db, "Olivia", "olivia@example.com")
	respondent := createUser(t, db, "Alice", "alice@example.com")
	survey := createSurvey(t, db, owner, models.SurveyStatusActive, false)
	resp := startResponse(t, db, survey, respondent)
	completeResponse(t, db, resp)

	err := UserResponseChecker().Validate(db, &AnswerRequest{User: respondent, Survey: survey})
	verr := requireValidationError(t, err)
	assert.Equal(t, "survey already completed", verr.Message)
}

func TestUserResponseCheckerOwnerBypassesCompletedBlock(t *testing.T) {
	db := setupTestDB(t)
	owner := createUser(t, db, "Olivia", "olivia@example.com")
	survey := createSurvey(t, db, owner, models.SurveyStatusActive, false)
	resp := startResponse(t, db, survey, owner)
	completeResponse(t, db, resp)

	err := UserResponseChecker().Validate(db, &AnswerRequest{User: owner, Survey: survey})
	assert.NoError(t, err)
}

func TestUserResponseCheckerSkipsAnonymousSurvey(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "Alice", "alice@example.com")
	survey := createSurvey(t, db, nil, models.SurveyStatusActive, true)

	err := UserResponseChecker().Validate(db, &AnswerRequest{User: user, Survey: survey})
	assert.NoError(t, err)
}

func TestCompletedSurveyCheckerRequiresStartedResponse(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "Alice", "alice@example.com")
	survey := createSurvey(t, db, nil, models.SurveyStatusActive, false)
	addQuestion(t, db, survey, 1, "Pick one", models.QuestionTypeSingleChoice)

	err := CompletedSurveyChecker().Validate(db, &AnswerRequest{User: user, Survey: survey})
	verr := requireValidationError(t, err)
	assert.Equal(t, "respondent has not started the survey", verr.Message)
}

func TestCompletedSurveyCheckerAggregatesPerQuestionErrors(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "Alice", "alice@example.com")
	survey := createSurvey(t, db, nil, models.SurveyStatusActive, false)
	answered := addQuestion(t, db, survey, 1, "Pick one", models.QuestionTypeSingleChoice)
	o := addOption(t, db, answered, 1, "A")
	missing := addQuestion(t, db, survey, 2, "Comments", models.QuestionTypeText)
	empty := addQuestion(t, db, survey, 3, "More comments", models.QuestionTypeText)

	resp := startResponse(t, db, survey, user)
	submitOption(t, db, answered, resp, o)
	// An answer row exists but carries no text.
	require.NoError(t, db.Create(&models.UserAnswer{
		UserResponseID: resp.ID,
		QuestionID:     empty.ID,
	}).Error)

	err := CompletedSurveyChecker().Validate(db, &AnswerRequest{User: user, Survey: survey})
	verr := requireValidationError(t, err)
	assert.Equal(t, "answer validation failed", verr.Message)
	require.Len(t, verr.QuestionErrors, 2)
	assert.Equal(t, "answer missing", verr.QuestionErrors[missing.ID.String()])
	assert.Equal(t, "text field is empty", verr.QuestionErrors[empty.ID.String()])
	assert.NotContains(t, verr.QuestionErrors, answered.ID.String())
}

func TestCompletedSurveyCheckerSingleUnansweredQuestion(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "Alice", "alice@example.com")
	survey := createSurvey(t, db, nil, models.SurveyStatusActive, false)
	answered := addQuestion(t, db, survey, 1, "Pick one", models.QuestionTypeSingleChoice)
	o := addOption(t, db, answered, 1, "A")
	unanswered := addQuestion(t, db, survey, 2, "Comments", models.QuestionTypeText)

	resp := startResponse(t, db, survey, user)
	submitOption(t, db, answered, resp, o)

	verr := requireValidationError(t, CompletedSurveyChecker().Validate(db, &AnswerRequest{User: user, Survey: survey}))
	require.Len(t, verr.QuestionErrors, 1)
	assert.Equal(t, "answer missing", verr.QuestionErrors[unanswered.ID.String()])
}

func TestCompletedSurveyCheckerPassesWhenAllAnswered(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "Alice", "alice@example.com")
	survey := createSurvey(t, db, nil, models.SurveyStatusActive, false)
	single := addQuestion(t, db, survey, 1, "Pick one", models.QuestionTypeSingleChoice)
	o1 := addOption(t, db, single, 1, "A")
	multi := addQuestion(t, db, survey, 2, "Pick many", models.QuestionTypeMultipleChoice)
	o2 := addOption(t, db, multi, 1, "X")
	text := addQuestion(t, db, survey, 3, "Comments", models.QuestionTypeText)

	resp := startResponse(t, db, survey, user)
	submitOption(t, db, single, resp, o1)
	submitOption(t, db, multi, resp, o2)
	submitText(t, db, text, resp, "looks good")

	err := CompletedSurveyChecker().Validate(db, &AnswerRequest{User: user, Survey: survey})
	assert.NoError(t, err)
}

func TestSurveyStatCheckerRejectsNonOwner(t *testing.T) {
	db := setupTestDB(t)
	owner := createUser(t, db, "Olivia", "olivia@example.com")
	outsider := createUser(t, db, "Eve", "eve@example.com")
	survey := createSurvey(t, db, owner, models.SurveyStatusActive, false)

	err := SurveyStatChecker().Validate(db, &AnswerRequest{User: outsider, Survey: survey})
	verr := requireValidationError(t, err)
	assert.Equal(t, "not a survey owner", verr.Message)
}

func TestSurveyStatCheckerRejectsSurveyWithoutCompletedAnswers(t *testing.T) {
	db := setupTestDB(t)
	owner := createUser(t, db, "Olivia", "olivia@example.com")
	respondent := createUser(t, db, "Alice", "alice@example.com")
	survey := createSurvey(t, db, owner, models.SurveyStatusActive, false)
	q := addQuestion(t, db, survey, 1, "Pick one", models.QuestionTypeSingleChoice)
	o := addOption(t, db, q, 1, "A")

	// An in-progress respondent does not make statistics available.
	resp := startResponse(t, db, survey, respondent)
	submitOption(t, db, q, resp, o)

	err := SurveyStatChecker().Validate(db, &AnswerRequest{User: owner, Survey: survey})
	verr := requireValidationError(t, err)
	assert.Equal(t, "no statistics available for this survey", verr.Message)

	completeResponse(t, db, resp)
	assert.NoError(t, SurveyStatChecker().Validate(db, &AnswerRequest{User: owner, Survey: survey}))
}

func TestPublishSurveyChecker(t *testing.T) {
	db := setupTestDB(t)
	owner := createUser(t, db, "Olivia", "olivia@example.com")

	t.Run("empty name", func(t *testing.T) {
		survey := createSurvey(t, db, owner, models.SurveyStatusDraft, false)
		survey.Name = ""
		verr := requireValidationError(t, PublishSurveyChecker().Validate(db, &AnswerRequest{User: owner, Survey: survey}))
		assert.Equal(t, "survey has no name", verr.Message)
	})

	t.Run("no questions", func(t *testing.T) {
		survey := createSurvey(t, db, owner, models.SurveyStatusDraft, false)
		verr := requireValidationError(t, PublishSurveyChecker().Validate(db, &AnswerRequest{User: owner, Survey: survey}))
		assert.Equal(t, "survey must have at least one question", verr.Message)
	})

	t.Run("choice question without options", func(t *testing.T) {
		survey := createSurvey(t, db, owner, models.SurveyStatusDraft, false)
		addQuestion(t, db, survey, 1, "Pick one", models.QuestionTypeSingleChoice)
		verr := requireValidationError(t, PublishSurveyChecker().Validate(db, &AnswerRequest{User: owner, Survey: survey}))
		assert.Equal(t, `question "Pick one" must have at least one answer option`, verr.Message)
	})

	t.Run("duplicate question names", func(t *testing.T) {
		survey := createSurvey(t, db, owner, models.SurveyStatusDraft, false)
		q1 := addQuestion(t, db, survey, 1, "Pick one", models.QuestionTypeSingleChoice)
		addOption(t, db, q1, 1, "A")
		q2 := addQuestion(t, db, survey, 2, "Pick one", models.QuestionTypeSingleChoice)
		addOption(t, db, q2, 1, "B")
		verr := requireValidationError(t, PublishSurveyChecker().Validate(db, &AnswerRequest{User: owner, Survey: survey}))
		assert.Equal(t, "question names must be unique", verr.Message)
	})

	t.Run("duplicate option names", func(t *testing.T) {
		survey := createSurvey(t, db, owner, models.SurveyStatusDraft, false)
		q := addQuestion(t, db, survey, 1, "Pick one", models.QuestionTypeSingleChoice)
		addOption(t, db, q, 1, "A")
		addOption(t, db, q, 2, "A")
		verr := requireValidationError(t, PublishSurveyChecker().Validate(db, &AnswerRequest{User: owner, Survey: survey}))
		assert.Equal(t, "answer option names must be unique", verr.Message)
	})

	t.Run("valid draft", func(t *testing.T) {
		survey := createSurvey(t, db, owner, models.SurveyStatusDraft, false)
		q := addQuestion(t, db, survey, 1, "Pick one", models.QuestionTypeSingleChoice)
		addOption(t, db, q, 1, "A")
		addQuestion(t, db, survey, 2, "Comments", models.QuestionTypeText)
		assert.NoError(t, PublishSurveyChecker().Validate(db, &AnswerRequest{User: owner, Survey: survey}))
	})
}
