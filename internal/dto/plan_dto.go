package dto

type PlanRequest struct {
	Name           string  `json:"name" yaml:"name" validate:"required,max=100"`
	Description    string  `json:"description" yaml:"description"`
	Price          float64 `json:"price" yaml:"price" validate:"gte=0"`
	DurationMonths int     `json:"duration_months" yaml:"duration_months" validate:"required,min=1,max=12"`
}

type UpdatePlanRequest struct {
	Name           *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description    *string  `json:"description,omitempty"`
	Price          *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	DurationMonths *int     `json:"duration_months,omitempty" validate:"omitempty,min=1,max=12"`
}
