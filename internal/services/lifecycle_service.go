package services

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/dates"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/store"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/validation"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
)

// LifecycleService owns membership state transitions: the initial grant,
// extensions, and plan switches. Every mutation takes the acting admin's id.
type LifecycleService struct {
	store    store.Store
	plans    PlanLookup
	invoices *InvoiceService
	opts     options
}

func NewLifecycleService(st store.Store, plans PlanLookup, invoices *InvoiceService, opts ...Option) *LifecycleService {
	return &LifecycleService{store: st, plans: plans, invoices: invoices, opts: buildOptions(opts)}
}

func errDuration() error {
	return apperr.InvalidInput("duration_months must be between 1 and 12")
}

// newMembership builds an active membership starting at start with its seed
// extension covering the plan's full duration.
func newMembership(memberID uuid.UUID, plan *models.Plan, start time.Time, adminID uuid.UUID) *models.Membership {
	end := dates.AddMonths(start, plan.DurationMonths)
	return &models.Membership{
		ID:        uuid.New(),
		MemberID:  memberID,
		PlanID:    plan.ID,
		StartDate: start,
		EndDate:   end,
		Status:    models.MembershipActive,
		Extensions: datatypes.JSONSlice[models.Extension]{{
			ID:              uuid.New(),
			PreviousEndDate: start,
			NewEndDate:      end,
			ExtendedBy:      adminID,
			ExtendedAt:      start,
			DurationMonths:  plan.DurationMonths,
		}},
		Version: 1,
	}
}

// CreateInitial persists the first membership for member inside tx.
// The membership starts at start, which callers pass as the member's joining
// date.
func (s *LifecycleService) CreateInitial(ctx context.Context, tx store.Store, member *models.Member, plan *models.Plan, start time.Time, adminID uuid.UUID) (*models.Membership, error) {
	if !models.ValidDuration(plan.DurationMonths) {
		return nil, apperr.InvalidInput("plan duration must be between 1 and 12 months")
	}
	ms := newMembership(member.ID, plan, start, adminID)
	if err := tx.Memberships().Create(ctx, ms); err != nil {
		return nil, storeErr(err, "membership")
	}
	return ms, nil
}

// Extend appends an extension of durationMonths to the membership and moves
// its end date forward.
func (s *LifecycleService) Extend(ctx context.Context, membershipID uuid.UUID, durationMonths int, adminID uuid.UUID) (ms *models.Membership, err error) {
	ctx, span := tracer.Start(ctx, "lifecycle.extend", trace.WithAttributes(
		attribute.String("membership.id", membershipID.String()),
		attribute.Int("duration.months", durationMonths),
	))
	defer func() { endSpan(span, err) }()

	err = s.store.WithTx(ctx, func(tx store.Store) error {
		current, err := tx.Memberships().Get(ctx, membershipID)
		if err != nil {
			return storeErr(err, "membership")
		}
		if err := s.appendExtension(current, durationMonths, adminID); err != nil {
			return err
		}
		if err := tx.Memberships().Update(ctx, current); err != nil {
			return storeErr(err, "membership")
		}
		ms = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.opts.metrics.RecordLifecycleEvent(metrics.EventExtend)
	s.opts.logger.InfoContext(ctx, "membership extended",
		"action", "extend_membership",
		"user_id", adminID.String(),
		"membership_id", ms.ID.String(),
		"duration_months", durationMonths,
		"end_date", ms.EndDate,
	)
	return ms, nil
}

func (s *LifecycleService) appendExtension(ms *models.Membership, durationMonths int, adminID uuid.UUID) error {
	if !models.ValidDuration(durationMonths) {
		return errDuration()
	}
	if !ms.IsActive() {
		return apperr.InvalidInput("membership is inactive, switch plans to start a new one")
	}
	previous := ms.EndDate
	next := dates.AddMonths(previous, durationMonths)
	if !next.After(previous) {
		return apperr.InvalidInput("extension must move the end date forward")
	}
	ms.Extensions = append(ms.Extensions, models.Extension{
		ID:              uuid.New(),
		PreviousEndDate: previous,
		NewEndDate:      next,
		ExtendedBy:      adminID,
		ExtendedAt:      s.opts.clock(),
		DurationMonths:  durationMonths,
	})
	ms.Status = models.MembershipActive
	ms.EndDate = next
	return nil
}

// SwitchPlan retires the member's current membership and starts a new one on
// newPlanID, repointing the member at it.
func (s *LifecycleService) SwitchPlan(ctx context.Context, memberID, newPlanID, adminID uuid.UUID) (ms *models.Membership, err error) {
	ctx, span := tracer.Start(ctx, "lifecycle.switch_plan", trace.WithAttributes(
		attribute.String("member.id", memberID.String()),
		attribute.String("plan.id", newPlanID.String()),
	))
	defer func() { endSpan(span, err) }()

	plan, err := s.plans.GetPlan(ctx, newPlanID)
	if err != nil {
		return nil, err
	}
	if !models.ValidDuration(plan.DurationMonths) {
		return nil, apperr.InvalidInput("plan duration must be between 1 and 12 months")
	}

	var previousID uuid.UUID
	err = s.store.WithTx(ctx, func(tx store.Store) error {
		member, err := tx.Members().Get(ctx, memberID)
		if err != nil {
			return storeErr(err, "member")
		}
		if member.MembershipID == nil {
			return apperr.NotFound("membership")
		}
		current, err := tx.Memberships().Get(ctx, *member.MembershipID)
		if err != nil {
			return storeErr(err, "membership")
		}
		previousID = current.ID

		if current.IsActive() {
			current.Status = models.MembershipInactive
			if err := tx.Memberships().Update(ctx, current); err != nil {
				return storeErr(err, "membership")
			}
		}

		next := newMembership(member.ID, plan, s.opts.clock(), adminID)
		if err := tx.Memberships().Create(ctx, next); err != nil {
			return storeErr(err, "membership")
		}
		member.MembershipID = &next.ID
		if err := tx.Members().Update(ctx, member); err != nil {
			return storeErr(err, "member")
		}
		ms = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.opts.metrics.RecordLifecycleEvent(metrics.EventSwitch)
	s.opts.logger.InfoContext(ctx, "membership plan switched",
		"action", "switch_plan",
		"user_id", adminID.String(),
		"member_id", memberID.String(),
		"previous_membership_id", previousID.String(),
		"membership_id", ms.ID.String(),
		"plan_id", plan.ID.String(),
	)
	return ms, nil
}

// ExtendAndInvoice extends the membership and bills the new extension.
func (s *LifecycleService) ExtendAndInvoice(ctx context.Context, membershipID uuid.UUID, durationMonths int, adminID uuid.UUID) (*dto.LifecycleResponse, error) {
	ms, err := s.Extend(ctx, membershipID, durationMonths, adminID)
	if err != nil {
		return nil, err
	}
	return s.invoiceLatest(ctx, ms)
}

// SwitchPlanAndInvoice switches the member's plan and bills the seed
// extension of the replacement membership.
func (s *LifecycleService) SwitchPlanAndInvoice(ctx context.Context, memberID, planID, adminID uuid.UUID) (*dto.LifecycleResponse, error) {
	ms, err := s.SwitchPlan(ctx, memberID, planID, adminID)
	if err != nil {
		return nil, err
	}
	return s.invoiceLatest(ctx, ms)
}

// invoiceLatest runs after the mutation has committed, so a failure here
// leaves the membership change in place.
func (s *LifecycleService) invoiceLatest(ctx context.Context, ms *models.Membership) (*dto.LifecycleResponse, error) {
	ext := ms.LatestExtension()
	if ext == nil {
		return nil, apperr.Internal("membership has no extension to invoice", nil)
	}
	invoice, err := s.invoices.Generate(ctx, ms.MemberID, &ext.ID)
	if err != nil {
		return nil, err
	}
	return &dto.LifecycleResponse{Membership: ms, Invoice: invoice}, nil
}

// Renew is the admin renewal action: it switches plan when req.PlanID is set
// and otherwise extends the member's current membership. Either way the new
// extension is invoiced.
func (s *LifecycleService) Renew(ctx context.Context, memberID uuid.UUID, req *dto.RenewMembershipRequest, adminID uuid.UUID) (*dto.LifecycleResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	if req.PlanID != "" {
		planID, _ := uuid.Parse(req.PlanID)
		return s.SwitchPlanAndInvoice(ctx, memberID, planID, adminID)
	}
	if !models.ValidDuration(req.DurationMonths) {
		return nil, errDuration()
	}
	member, err := s.store.Members().Get(ctx, memberID)
	if err != nil {
		return nil, storeErr(err, "member")
	}
	if member.MembershipID == nil {
		return nil, apperr.NotFound("membership")
	}
	return s.ExtendAndInvoice(ctx, *member.MembershipID, req.DurationMonths, adminID)
}

func (s *LifecycleService) GetMembership(ctx context.Context, id uuid.UUID) (*models.Membership, error) {
	ms, err := s.store.Memberships().Get(ctx, id)
	if err != nil {
		return nil, storeErr(err, "membership")
	}
	return ms, nil
}

// History lists every membership the member has held, newest first.
func (s *LifecycleService) History(ctx context.Context, memberID uuid.UUID) ([]models.Membership, error) {
	if _, err := s.store.Members().Get(ctx, memberID); err != nil {
		return nil, storeErr(err, "member")
	}
	list, err := s.store.Memberships().ListByMember(ctx, memberID)
	if err != nil {
		return nil, storeErr(err, "membership")
	}
	return list, nil
}
