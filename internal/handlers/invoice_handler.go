package handlers

import (
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InvoiceHandler struct {
	invoices *services.InvoiceService
}

func NewInvoiceHandler(invoices *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// Generate invoices the member's current membership. Without extension_id
// the latest extension is billed.
func (h *InvoiceHandler) Generate(c *fiber.Ctx) error {
	var req dto.GenerateInvoiceRequest
	if err := decodeBody(c, &req); err != nil {
		return respondError(c, err)
	}
	if err := validation.Struct(&req); err != nil {
		return respondError(c, err)
	}
	memberID := uuid.MustParse(req.MemberID)
	var extensionID *uuid.UUID
	if req.ExtensionID != "" {
		id := uuid.MustParse(req.ExtensionID)
		extensionID = &id
	}
	invoice, err := h.invoices.Generate(c.UserContext(), memberID, extensionID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	invoice, err := h.invoices.Get(c.UserContext(), c.Params("invoiceId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}
