package services

import (
	"context"
	"errors"
	"strings"

	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/store"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/validation"
	"github.com/google/uuid"
)

type MemberService struct {
	store store.Store
	plans PlanLookup
	opts  options
}

func NewMemberService(st store.Store, plans PlanLookup, opts ...Option) *MemberService {
	return &MemberService{store: st, plans: plans, opts: buildOptions(opts)}
}

// Get composes the member with its current membership and that membership's plan.
func (s *MemberService) Get(ctx context.Context, id uuid.UUID) (*dto.MemberView, error) {
	member, err := s.store.Members().Get(ctx, id)
	if err != nil {
		return nil, storeErr(err, "member")
	}
	view := &dto.MemberView{Member: *member}
	if member.MembershipID == nil {
		return view, nil
	}

	ms, err := s.store.Memberships().Get(ctx, *member.MembershipID)
	if err != nil {
		return nil, storeErr(err, "membership")
	}
	view.Membership = ms

	plan, err := s.plans.GetPlan(ctx, ms.PlanID)
	switch {
	case err == nil:
		view.Plan = plan
	case apperr.KindOf(err) != apperr.KindNotFound:
		return nil, err
	}
	return view, nil
}

// List returns members whose current membership has the given status.
func (s *MemberService) List(ctx context.Context, status string) ([]models.Member, error) {
	if status == "" {
		status = string(models.MembershipActive)
	}
	st := models.MembershipStatus(status)
	if st != models.MembershipActive && st != models.MembershipInactive {
		return nil, apperr.InvalidInput("status must be one of: active, inactive")
	}
	members, err := s.store.Members().ListByMembershipStatus(ctx, st)
	if err != nil {
		return nil, storeErr(err, "member")
	}
	return members, nil
}

func (s *MemberService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateMemberRequest, adminID uuid.UUID) (*models.Member, error) {
	normalizeUpdate(req)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	member, err := s.store.Members().Get(ctx, id)
	if err != nil {
		return nil, storeErr(err, "member")
	}

	if req.FirstName != nil {
		member.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		member.LastName = *req.LastName
	}
	if req.Gender != nil {
		member.Gender = *req.Gender
	}
	if req.Age != nil {
		member.Age = *req.Age
	}
	if req.Address != nil {
		member.Address = req.Address
	}
	if req.Email != nil {
		member.Email = *req.Email
	}
	if req.Mobile != nil {
		member.Mobile = *req.Mobile
	}

	if err := s.store.Members().Update(ctx, member); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict("email or mobile already belongs to another member")
		}
		return nil, storeErr(err, "member")
	}

	s.opts.logger.InfoContext(ctx, "member updated",
		"action", "update_member",
		"user_id", adminID.String(),
		"member_id", member.ID.String(),
	)
	return member, nil
}

// Delete removes the member and every membership it held. Invoices are kept.
func (s *MemberService) Delete(ctx context.Context, id uuid.UUID, adminID uuid.UUID) error {
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		if _, err := tx.Members().Get(ctx, id); err != nil {
			return storeErr(err, "member")
		}
		if err := tx.Memberships().DeleteByMember(ctx, id); err != nil {
			return storeErr(err, "membership")
		}
		if err := tx.Members().Delete(ctx, id); err != nil {
			return storeErr(err, "member")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.opts.logger.InfoContext(ctx, "member deleted",
		"action", "delete_member",
		"user_id", adminID.String(),
		"member_id", id.String(),
	)
	return nil
}

// normalizeUpdate trims the set fields in place so whitespace-only values
// fail validation instead of being stored empty.
func normalizeUpdate(req *dto.UpdateMemberRequest) {
	trim := func(p *string) {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
	trim(req.FirstName)
	trim(req.LastName)
	if req.Gender != nil {
		*req.Gender = strings.ToLower(strings.TrimSpace(*req.Gender))
	}
	if req.Email != nil {
		*req.Email, _ = normalizeContact(*req.Email, "")
	}
	if req.Mobile != nil {
		_, *req.Mobile = normalizeContact("", *req.Mobile)
	}
}
