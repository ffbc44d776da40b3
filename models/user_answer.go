package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserAnswer links a response session to a question. Choice questions
// reference an answer option; text questions carry the free text.
// Single-choice and text questions hold at most one row per
// (response, question); multiple-choice holds one row per selected
// option.
type UserAnswer struct {
	ID             uuid.UUID  `gorm:"column:uuid;type:uuid;primaryKey" json:"uuid"`
	UserResponseID uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_response"`
	QuestionID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"question"`
	AnswerOptionID *uuid.UUID `gorm:"type:uuid" json:"answer_option"`
	TextAnswer     *string    `gorm:"type:text" json:"text_answer"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`

	AnswerOption *AnswerOption `gorm:"foreignKey:AnswerOptionID" json:"-"`
}

func (UserAnswer) TableName() string {
	return "user_answers"
}

func (a *UserAnswer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
