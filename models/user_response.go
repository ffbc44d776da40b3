package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ResponseStatusInProgress = "IN_PROGRESS"
	ResponseStatusCompleted  = "COMPLETED"
)

// UserResponse is one respondent's attempt at one survey. The row is
// created lazily on the first answer submission. For anonymous surveys
// UserID stays nil and the uuid itself is the opaque session token
// handed to the client.
type UserResponse struct {
	ID          uuid.UUID  `gorm:"column:uuid;type:uuid;primaryKey" json:"uuid"`
	SurveyID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_responses_survey_user" json:"survey"`
	UserID      *uint      `gorm:"uniqueIndex:idx_user_responses_survey_user" json:"user"`
	Status      string     `gorm:"size:20;default:'IN_PROGRESS'" json:"status"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`

	User    *User        `gorm:"foreignKey:UserID" json:"-"`
	Answers []UserAnswer `gorm:"foreignKey:UserResponseID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UserResponse) TableName() string {
	return "user_responses"
}

func (r *UserResponse) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
