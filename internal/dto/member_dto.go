package dto

import "github.com/ahmetcoskunkizilkaya/gym-backend/internal/models"

type RegisterMemberRequest struct {
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Gender    string  `json:"gender" validate:"required,oneof=male female other"`
	Age       int     `json:"age" validate:"required,gt=0,lt=130"`
	Address   *string `json:"address,omitempty"`
	Mobile    string  `json:"mobile" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	PlanID    string  `json:"plan_id" validate:"required,uuid"`
}

type UpdateMemberRequest struct {
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,min=1"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,min=1"`
	Gender    *string `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Age       *int    `json:"age,omitempty" validate:"omitempty,gt=0,lt=130"`
	Address   *string `json:"address,omitempty"`
	Mobile    *string `json:"mobile,omitempty" validate:"omitempty,min=1"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
}

// MemberView is a member composed with its current membership and plan.
type MemberView struct {
	Member     models.Member      `json:"member"`
	Membership *models.Membership `json:"membership,omitempty"`
	Plan       *models.Plan       `json:"plan,omitempty"`
	Invoice    *models.Invoice    `json:"invoice,omitempty"`
}

type MemberListResponse struct {
	Members []models.Member `json:"members"`
	Total   int             `json:"total"`
}
