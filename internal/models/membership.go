package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type MembershipStatus string

const (
	MembershipActive   MembershipStatus = "active"
	MembershipInactive MembershipStatus = "inactive"
)

// Membership is one plan-backed period owned by a member. Its extension log is
// append-only and stored inline as a jsonb document.
type Membership struct {
	ID         uuid.UUID                     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	MemberID   uuid.UUID                     `gorm:"type:uuid;not null;index" json:"member_id"`
	PlanID     uuid.UUID                     `gorm:"type:uuid;not null;index" json:"plan_id"`
	StartDate  time.Time                     `gorm:"not null" json:"start_date"`
	EndDate    time.Time                     `gorm:"not null;index" json:"end_date"`
	Status     MembershipStatus              `gorm:"size:20;not null;index" json:"status"`
	Extensions datatypes.JSONSlice[Extension] `gorm:"type:jsonb;not null" json:"extensions"`
	Version    int                           `gorm:"not null" json:"version"`
	CreatedAt  time.Time                     `json:"created_at"`
	UpdatedAt  time.Time                     `json:"updated_at"`
}

// Extension records one grant of time on a membership: the initial period or a renewal.
type Extension struct {
	ID              uuid.UUID `json:"id"`
	PreviousEndDate time.Time `json:"previous_end_date"`
	NewEndDate      time.Time `json:"new_end_date"`
	ExtendedBy      uuid.UUID `json:"extended_by"`
	ExtendedAt      time.Time `json:"extended_at"`
	DurationMonths  int       `json:"duration_months"`
}

// LatestExtension returns the most recent extension, or nil for an empty log.
func (m *Membership) LatestExtension() *Extension {
	if len(m.Extensions) == 0 {
		return nil
	}
	ext := m.Extensions[len(m.Extensions)-1]
	return &ext
}

func (m *Membership) FindExtension(id uuid.UUID) (*Extension, bool) {
	for _, ext := range m.Extensions {
		if ext.ID == id {
			e := ext
			return &e, true
		}
	}
	return nil, false
}

func (m *Membership) IsActive() bool {
	return m.Status == MembershipActive
}

// Clone returns a copy that shares no slice storage with m.
func (m *Membership) Clone() Membership {
	c := *m
	if m.Extensions != nil {
		c.Extensions = make(datatypes.JSONSlice[Extension], len(m.Extensions))
		copy(c.Extensions, m.Extensions)
	}
	return c
}
