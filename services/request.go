package services

import (
	"github.com/google/uuid"

	"github.com/polldesk/survey-server/models"
)

// AnswerRequest carries everything a validator pipeline needs to judge
// one inbound operation: the caller (nil when anonymous), the survey,
// and for answer submissions the question/option/text payload plus the
// anonymous session token from the cookie.
type AnswerRequest struct {
	User          *models.User
	Survey        *models.Survey
	QuestionID    *uuid.UUID
	OptionID      *uuid.UUID
	TextAnswer    *string
	ResponseToken *uuid.UUID
}
