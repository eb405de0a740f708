package dto

type GenerateInvoiceRequest struct {
	MemberID    string `json:"member_id" validate:"required,uuid"`
	ExtensionID string `json:"extension_id,omitempty" validate:"omitempty,uuid"`
}
