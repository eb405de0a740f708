package handlers

import (
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type MemberHandler struct {
	registration *services.RegistrationService
	members      *services.MemberService
	lifecycle    *services.LifecycleService
	invoices     *services.InvoiceService
}

func NewMemberHandler(
	registration *services.RegistrationService,
	members *services.MemberService,
	lifecycle *services.LifecycleService,
	invoices *services.InvoiceService,
) *MemberHandler {
	return &MemberHandler{registration: registration, members: members, lifecycle: lifecycle, invoices: invoices}
}

// Register creates the member, its first membership and the first invoice.
func (h *MemberHandler) Register(c *fiber.Ctx) error {
	adminID, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.RegisterMemberRequest
	if err := decodeBody(c, &req); err != nil {
		return respondError(c, err)
	}
	view, err := h.registration.Register(c.UserContext(), &req, adminID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

func (h *MemberHandler) List(c *fiber.Ctx) error {
	members, err := h.members.List(c.UserContext(), c.Query("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MemberListResponse{Members: members, Total: len(members)})
}

func (h *MemberHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "member")
	if err != nil {
		return respondError(c, err)
	}
	view, err := h.members.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

func (h *MemberHandler) Update(c *fiber.Ctx) error {
	adminID, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", "member")
	if err != nil {
		return respondError(c, err)
	}
	var req dto.UpdateMemberRequest
	if err := decodeBody(c, &req); err != nil {
		return respondError(c, err)
	}
	member, err := h.members.Update(c.UserContext(), id, &req, adminID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(member)
}

func (h *MemberHandler) Delete(c *fiber.Ctx) error {
	adminID, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", "member")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.members.Delete(c.UserContext(), id, adminID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Member deleted"})
}

func (h *MemberHandler) SwitchPlan(c *fiber.Ctx) error {
	adminID, err := actor(c)
	if err != nil {
		return err
	}
	memberID, err := parseID(c, "id", "member")
	if err != nil {
		return respondError(c, err)
	}
	var req dto.SwitchPlanRequest
	if err := decodeBody(c, &req); err != nil {
		return respondError(c, err)
	}
	if err := validation.Struct(&req); err != nil {
		return respondError(c, err)
	}
	planID, err := parsePlanID(req.PlanID)
	if err != nil {
		return respondError(c, err)
	}
	res, err := h.lifecycle.SwitchPlanAndInvoice(c.UserContext(), memberID, planID, adminID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

func (h *MemberHandler) Renew(c *fiber.Ctx) error {
	adminID, err := actor(c)
	if err != nil {
		return err
	}
	memberID, err := parseID(c, "id", "member")
	if err != nil {
		return respondError(c, err)
	}
	var req dto.RenewMembershipRequest
	if err := decodeBody(c, &req); err != nil {
		return respondError(c, err)
	}
	resp, err := h.lifecycle.Renew(c.UserContext(), memberID, &req, adminID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *MemberHandler) Memberships(c *fiber.Ctx) error {
	memberID, err := parseID(c, "id", "member")
	if err != nil {
		return respondError(c, err)
	}
	history, err := h.lifecycle.History(c.UserContext(), memberID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"memberships": history, "total": len(history)})
}

func (h *MemberHandler) Invoices(c *fiber.Ctx) error {
	memberID, err := parseID(c, "id", "member")
	if err != nil {
		return respondError(c, err)
	}
	invoices, err := h.invoices.ListForMember(c.UserContext(), memberID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"invoices": invoices, "total": len(invoices)})
}
