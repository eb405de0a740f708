package handlers

import (
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type PlanHandler struct {
	plans *services.PlanService
}

func NewPlanHandler(plans *services.PlanService) *PlanHandler {
	return &PlanHandler{plans: plans}
}

func (h *PlanHandler) Create(c *fiber.Ctx) error {
	var req dto.PlanRequest
	if err := decodeBody(c, &req); err != nil {
		return respondError(c, err)
	}
	plan, err := h.plans.Create(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(plan)
}

func (h *PlanHandler) List(c *fiber.Ctx) error {
	plans, err := h.plans.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"plans": plans, "total": len(plans)})
}

func (h *PlanHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "plan")
	if err != nil {
		return respondError(c, err)
	}
	plan, err := h.plans.GetPlan(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(plan)
}

func (h *PlanHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "plan")
	if err != nil {
		return respondError(c, err)
	}
	var req dto.UpdatePlanRequest
	if err := decodeBody(c, &req); err != nil {
		return respondError(c, err)
	}
	plan, err := h.plans.Update(c.UserContext(), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(plan)
}

func (h *PlanHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "plan")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.plans.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Plan deleted"})
}
