package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SurveyStatusDraft    = "draft"
	SurveyStatusActive   = "active"
	SurveyStatusClosed   = "closed"
	SurveyStatusArchived = "archived"
)

type Survey struct {
	ID          uuid.UUID  `gorm:"column:uuid;type:uuid;primaryKey" json:"uuid"`
	Name        string     `gorm:"size:255" json:"name"`
	Status      string     `gorm:"size:20;default:'draft'" json:"status"`
	IsAnonymous bool       `gorm:"default:false" json:"is_anonymous"`
	EndDate     *time.Time `json:"end_date"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"-"`

	Owners    []User         `gorm:"many2many:survey_owners;joinForeignKey:SurveyUUID;joinReferences:UserID" json:"-"`
	Questions []Question     `gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE" json:"-"`
	Responses []UserResponse `gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Survey) TableName() string {
	return "surveys"
}

func (s *Survey) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// IsUserOwner reports whether the user belongs to the survey's owner set.
// Owners must be preloaded or passed through a count query by the caller.
func (s *Survey) IsUserOwner(userID uint) bool {
	for _, o := range s.Owners {
		if o.ID == userID {
			return true
		}
	}
	return false
}
