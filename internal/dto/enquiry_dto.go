package dto

type EnquiryRequest struct {
	FullName              string  `json:"full_name" validate:"required"`
	Mobile                string  `json:"mobile" validate:"required"`
	PreviousGymExperience bool    `json:"previous_gym_experience"`
	Reference             *string `json:"reference,omitempty"`
	FitnessGoal           string  `json:"fitness_goal" validate:"required"`
	Target                string  `json:"target" validate:"required"`
	PreferredTimeSlot     string  `json:"preferred_time_slot" validate:"required"`
	Note                  *string `json:"note,omitempty"`
}
