package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	QuestionTypeSingleChoice   = "single_choice"
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeText           = "text"
)

type Question struct {
	ID        uuid.UUID `gorm:"column:uuid;type:uuid;primaryKey" json:"uuid"`
	SurveyID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_questions_survey_seq" json:"survey"`
	SeqID     int       `gorm:"not null;uniqueIndex:idx_questions_survey_seq" json:"seq_id"`
	Name      string    `gorm:"type:text" json:"name"`
	Type      string    `gorm:"size:20;not null" json:"type"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`

	AnswerOptions []AnswerOption `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"answer_options"`
	Answers       []UserAnswer   `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Question) TableName() string {
	return "questions"
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
