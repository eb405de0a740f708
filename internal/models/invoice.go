package models

import (
	"time"

	"github.com/google/uuid"
)

// Invoice is an immutable billing snapshot taken at a lifecycle event.
type Invoice struct {
	ID                uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID         string     `gorm:"size:40;not null;uniqueIndex" json:"invoice_id"`
	MemberID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"member_id"`
	MembershipID      *uuid.UUID `gorm:"type:uuid;index" json:"membership_id,omitempty"`
	ExtensionID       *uuid.UUID `gorm:"type:uuid" json:"extension_id,omitempty"`
	MemberName        string     `gorm:"size:201;not null" json:"member_name"`
	MemberEmail       string     `gorm:"size:255;not null" json:"member_email"`
	PlanName          string     `gorm:"size:100;not null" json:"plan_name"`
	PlanDescription   string     `gorm:"type:text" json:"plan_description"`
	PlanPrice         float64    `gorm:"not null" json:"plan_price"`
	PlanDuration      int        `gorm:"not null" json:"plan_duration"`
	StartDate         time.Time  `gorm:"not null" json:"start_date"`
	EndDate           time.Time  `gorm:"not null" json:"end_date"`
	PreviousEndDate   time.Time  `gorm:"not null" json:"previous_end_date"`
	ExtensionDuration *int       `json:"extension_duration,omitempty"`
	CreatedAt         time.Time  `gorm:"index" json:"created_at"`
}
