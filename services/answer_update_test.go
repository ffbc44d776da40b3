package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polldesk/survey-server/models"
)

func TestApplyAnswerSingleChoiceReplacesSelection(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "Alice", "alice@example.com")
	survey := createSurvey(t, db, nil, models.SurveyStatusActive, false)
	q := addQuestion(t, db, survey, 1, "Favourite color", models.QuestionTypeSingleChoice)
	optA := addOption(t, db, q, 1, "Red")
	optB := addOption(t, db, q, 2, "Blue")
	resp := startResponse(t, db, survey, user)

	submitOption(t, db, q, resp, optA)
	submitOption(t, db, q, resp, optB)

	answers := answersFor(t, db, resp, q)
	require.Len(t, answers, 1)
	assert.Equal(t, optB.ID, *answers[0].AnswerOptionID)
}

func TestApplyAnswerSingleChoiceIdempotent(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "Alice", "alice@example.com")
	survey := createSurvey(t, db, nil, models.SurveyStatusActive, false)
	q := addQuestion(t, db, survey, 1, "Favourite color", models.QuestionTypeSingleChoice)
	optA := addOption(t, db, q, 1, "Red")
	resp := startResponse(t, db, survey, user)

	submitOption(t, db, q, resp, optA)
	submitOption(t, db, q, resp, optA)

	answers := answersFor(t, db, resp, q)
	require.Len(t, answers, 1)
	assert.Equal(t, optA.ID, *answers[0].AnswerOptionID)
}

func TestApplyAnswerMultipleChoiceToggles(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "Alice", "alice@example.com")
	survey := createSurvey(t, db, nil, models.SurveyStatusActive, false)
	q := addQuestion(t, db, survey, 1, "Languages", models.QuestionTypeMultipleChoice)
	optA := addOption(t, db, q, 1, "Go")
	optB := addOption(t, db, q, 2, "Rust")
	resp := startResponse(t, db, survey, user)

	// A, A, B: A toggled off, B stays selected.
	submitOption(t, db, q, resp, optA)
	submitOption(t, db, q, resp, optA)
	submitOption(t, db, q, resp, optB)

	answers := answersFor(t, db, resp, q)
	require.Len(t, answers, 1)
	assert.Equal(t, optB.ID, *answers[0].AnswerOptionID)

	// Odd number of submissions selects again, B untouched.
	submitOption(t, db, q, resp, optA)
	answers = answersFor(t, db, resp, q)
	assert.Len(t, answers, 2)
}

func TestApplyAnswerTextCreateUpdateClear(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "Alice", "alice@example.com")
	survey := createSurvey(t, db, nil, models.SurveyStatusActive, false)
	q := addQuestion(t, db, survey, 1, "Feedback", models.QuestionTypeText)
	resp := startResponse(t, db, survey, user)

	submitText(t, db, q, resp, "first draft")
	answers := answersFor(t, db, resp, q)
	require.Len(t, answers, 1)
	assert.Equal(t, "first draft", *answers[0].TextAnswer)

	submitText(t, db, q, resp, "final")
	answers = answersFor(t, db, resp, q)
	require.Len(t, answers, 1)
	assert.Equal(t, "final", *answers[0].TextAnswer)

	// Clearing the text deletes the row entirely.
	submitText(t, db, q, resp, "")
	answers = answersFor(t, db, resp, q)
	assert.Empty(t, answers)
}

func TestApplyAnswerTextClearWithoutExistingIsNoop(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "Alice", "alice@example.com")
	survey := createSurvey(t, db, nil, models.SurveyStatusActive, false)
	q := addQuestion(t, db, survey, 1, "Feedback", models.QuestionTypeText)
	resp := startResponse(t, db, survey, user)

	submitText(t, db, q, resp, "")
	assert.Empty(t, answersFor(t, db, resp, q))
}

func TestApplyAnswerUnsupportedType(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "Alice", "alice@example.com")
	survey := createSurvey(t, db, nil, models.SurveyStatusActive, false)
	q := addQuestion(t, db, survey, 1, "Weird", "rating")
	resp := startResponse(t, db, survey, user)

	err := ApplyAnswer(db, q, resp, nil, nil)
	assert.Error(t, err)
}

func TestApplyAnswerChoiceWithoutOption(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "Alice", "alice@example.com")
	survey := createSurvey(t, db, nil, models.SurveyStatusActive, false)
	single := addQuestion(t, db, survey, 1, "Pick one", models.QuestionTypeSingleChoice)
	multi := addQuestion(t, db, survey, 2, "Pick any", models.QuestionTypeMultipleChoice)
	resp := startResponse(t, db, survey, user)

	assert.Error(t, ApplyAnswer(db, single, resp, nil, nil))
	assert.Error(t, ApplyAnswer(db, multi, resp, nil, nil))
	assert.Empty(t, answersFor(t, db, resp, single))
	assert.Empty(t, answersFor(t, db, resp, multi))
}
