package handlers

import (
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type MembershipHandler struct {
	lifecycle *services.LifecycleService
}

func NewMembershipHandler(lifecycle *services.LifecycleService) *MembershipHandler {
	return &MembershipHandler{lifecycle: lifecycle}
}

func (h *MembershipHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "membership")
	if err != nil {
		return respondError(c, err)
	}
	ms, err := h.lifecycle.GetMembership(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ms)
}

func (h *MembershipHandler) Extend(c *fiber.Ctx) error {
	adminID, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", "membership")
	if err != nil {
		return respondError(c, err)
	}
	var req dto.ExtendMembershipRequest
	if err := decodeBody(c, &req); err != nil {
		return respondError(c, err)
	}
	res, err := h.lifecycle.ExtendAndInvoice(c.UserContext(), id, req.DurationMonths, adminID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

func parsePlanID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.InvalidInput("invalid plan id")
	}
	return id, nil
}
