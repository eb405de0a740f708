package models

import (
	"time"

	"github.com/google/uuid"
)

// Enquiry is a prospective member's lead captured from the public form.
type Enquiry struct {
	ID                    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FullName              string    `gorm:"size:200;not null" json:"full_name"`
	Mobile                string    `gorm:"size:20;not null;index" json:"mobile"`
	PreviousGymExperience bool      `gorm:"not null;default:false" json:"previous_gym_experience"`
	Reference             *string   `gorm:"size:200" json:"reference,omitempty"`
	FitnessGoal           string    `gorm:"size:200;not null" json:"fitness_goal"`
	Target                string    `gorm:"size:200;not null" json:"target"`
	PreferredTimeSlot     string    `gorm:"size:50;not null" json:"preferred_time_slot"`
	Note                  *string   `gorm:"type:text" json:"note,omitempty"`
	CreatedAt             time.Time `gorm:"index" json:"created_at"`
}
