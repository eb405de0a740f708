package models

import (
	"time"

	"github.com/google/uuid"
)

// Plan is a named subscription tier sold by the gym.
type Plan struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name           string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description    string    `gorm:"type:text" json:"description"`
	Price          float64   `gorm:"not null" json:"price"`
	DurationMonths int       `gorm:"not null" json:"duration_months"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

const (
	MinDurationMonths = 1
	MaxDurationMonths = 12
)

// ValidDuration reports whether months is an allowed membership length.
func ValidDuration(months int) bool {
	return months >= MinDurationMonths && months <= MaxDurationMonths
}
