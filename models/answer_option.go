package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnswerOption struct {
	ID         uuid.UUID `gorm:"column:uuid;type:uuid;primaryKey" json:"uuid"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_answer_options_question_seq" json:"question"`
	SeqID      int       `gorm:"not null;uniqueIndex:idx_answer_options_question_seq" json:"seq_id"`
	Name       string    `gorm:"size:512" json:"name"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"-"`
}

func (AnswerOption) TableName() string {
	return "answer_options"
}

func (o *AnswerOption) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
