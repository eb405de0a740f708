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
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RegistrationService onboards a member: the member row, its first
// membership, and the back-reference commit together, then the seed
// extension is invoiced.
type RegistrationService struct {
	store     store.Store
	plans     PlanLookup
	lifecycle *LifecycleService
	invoices  *InvoiceService
	opts      options
}

func NewRegistrationService(st store.Store, plans PlanLookup, lifecycle *LifecycleService, invoices *InvoiceService, opts ...Option) *RegistrationService {
	return &RegistrationService{store: st, plans: plans, lifecycle: lifecycle, invoices: invoices, opts: buildOptions(opts)}
}

func normalizeContact(email, mobile string) (string, string) {
	return strings.ToLower(strings.TrimSpace(email)), strings.TrimSpace(mobile)
}

func (s *RegistrationService) Register(ctx context.Context, req *dto.RegisterMemberRequest, adminID uuid.UUID) (view *dto.MemberView, err error) {
	ctx, span := tracer.Start(ctx, "registration.register", trace.WithAttributes(
		attribute.String("plan.id", req.PlanID),
	))
	defer func() { endSpan(span, err) }()

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Gender = strings.ToLower(strings.TrimSpace(req.Gender))
	req.Email, req.Mobile = normalizeContact(req.Email, req.Mobile)
	req.PlanID = strings.TrimSpace(req.PlanID)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	existing, err := s.store.Members().FindByEmailOrMobile(ctx, req.Email, req.Mobile)
	switch {
	case err == nil && existing.Email == req.Email:
		return nil, apperr.Conflict("a member with this email already exists")
	case err == nil:
		return nil, apperr.Conflict("a member with this mobile already exists")
	case !errors.Is(err, store.ErrNotFound):
		return nil, storeErr(err, "member")
	}

	planID, _ := uuid.Parse(req.PlanID)
	plan, err := s.plans.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	joined := s.opts.clock()
	member := &models.Member{
		ID:          uuid.New(),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Gender:      req.Gender,
		Age:         req.Age,
		Address:     req.Address,
		Mobile:      req.Mobile,
		Email:       req.Email,
		JoiningDate: joined,
	}
	var ms *models.Membership
	err = s.store.WithTx(ctx, func(tx store.Store) error {
		if err := tx.Members().Create(ctx, member); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return apperr.Conflict("a member with this email or mobile already exists")
			}
			return storeErr(err, "member")
		}
		created, err := s.lifecycle.CreateInitial(ctx, tx, member, plan, joined, adminID)
		if err != nil {
			return err
		}
		member.MembershipID = &created.ID
		if err := tx.Members().Update(ctx, member); err != nil {
			return storeErr(err, "member")
		}
		ms = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.opts.metrics.RecordRegistration()
	s.opts.logger.InfoContext(ctx, "member registered",
		"action", "register_member",
		"user_id", adminID.String(),
		"member_id", member.ID.String(),
		"membership_id", ms.ID.String(),
		"plan_id", plan.ID.String(),
	)

	seed := ms.LatestExtension()
	invoice, err := s.invoices.GenerateFor(ctx, member, &seed.ID)
	if err != nil {
		return nil, apperr.Internal("member registered but invoice generation failed", err)
	}
	return &dto.MemberView{Member: *member, Membership: ms, Plan: plan, Invoice: invoice}, nil
}
