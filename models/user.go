package models

import "time"

type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName string    `gorm:"size:100;not null" json:"first_name"`
	LastName  string    `gorm:"size:100" json:"last_name"`
	Email     string    `gorm:"size:100;unique;not null" json:"email"`
	Password  string    `gorm:"size:255" json:"-"` // empty for Google-only accounts
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	OwnedSurveys []Survey       `gorm:"many2many:survey_owners;joinForeignKey:UserID;joinReferences:SurveyUUID" json:"-"`
	Responses    []UserResponse `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
