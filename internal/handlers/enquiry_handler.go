package handlers

import (
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type EnquiryHandler struct {
	enquiries *services.EnquiryService
}

func NewEnquiryHandler(enquiries *services.EnquiryService) *EnquiryHandler {
	return &EnquiryHandler{enquiries: enquiries}
}

func (h *EnquiryHandler) Create(c *fiber.Ctx) error {
	var req dto.EnquiryRequest
	if err := decodeBody(c, &req); err != nil {
		return respondError(c, err)
	}
	enquiry, err := h.enquiries.Create(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(enquiry)
}

func (h *EnquiryHandler) List(c *fiber.Ctx) error {
	enquiries, err := h.enquiries.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"enquiries": enquiries, "total": len(enquiries)})
}

func (h *EnquiryHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "enquiry")
	if err != nil {
		return respondError(c, err)
	}
	enquiry, err := h.enquiries.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(enquiry)
}
