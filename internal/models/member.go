package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

type Member struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FirstName    string     `gorm:"size:100;not null" json:"first_name"`
	LastName     string     `gorm:"size:100;not null" json:"last_name"`
	Gender       string     `gorm:"size:10;not null" json:"gender"`
	Age          int        `gorm:"not null" json:"age"`
	Address      *string    `gorm:"type:text" json:"address,omitempty"`
	Mobile       string     `gorm:"size:20;not null;uniqueIndex" json:"mobile"`
	Email        string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	JoiningDate  time.Time  `gorm:"not null" json:"joining_date"`
	MembershipID *uuid.UUID `gorm:"type:uuid;index" json:"membership_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}
