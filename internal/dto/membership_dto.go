package dto

import "github.com/ahmetcoskunkizilkaya/gym-backend/internal/models"

type ExtendMembershipRequest struct {
	DurationMonths int `json:"duration_months" validate:"required"`
}

type SwitchPlanRequest struct {
	PlanID string `json:"plan_id" validate:"required,uuid"`
}

// RenewMembershipRequest switches plan when PlanID is set and extends the
// current membership by DurationMonths otherwise.
type RenewMembershipRequest struct {
	DurationMonths int    `json:"duration_months"`
	PlanID         string `json:"plan_id" validate:"omitempty,uuid"`
}

type LifecycleResponse struct {
	Membership *models.Membership `json:"membership"`
	Invoice    *models.Invoice    `json:"invoice,omitempty"`
}
