package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/store"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// InvoiceService snapshots a member's current membership and plan into an
// immutable invoice.
type InvoiceService struct {
	store store.Store
	opts  options
}

func NewInvoiceService(st store.Store, opts ...Option) *InvoiceService {
	return &InvoiceService{store: st, opts: buildOptions(opts)}
}

// Generate invoices the member's current membership. With a nil extensionID
// the latest extension is billed.
func (s *InvoiceService) Generate(ctx context.Context, memberID uuid.UUID, extensionID *uuid.UUID) (*models.Invoice, error) {
	member, err := s.store.Members().Get(ctx, memberID)
	if err != nil {
		return nil, storeErr(err, "member")
	}
	return s.GenerateFor(ctx, member, extensionID)
}

func (s *InvoiceService) GenerateFor(ctx context.Context, member *models.Member, extensionID *uuid.UUID) (invoice *models.Invoice, err error) {
	ctx, span := tracer.Start(ctx, "invoice.generate", trace.WithAttributes(
		attribute.String("member.id", member.ID.String()),
	))
	defer func() { endSpan(span, err) }()

	if member.MembershipID == nil {
		return nil, apperr.NotFound("membership")
	}
	ms, err := s.store.Memberships().Get(ctx, *member.MembershipID)
	if err != nil {
		return nil, storeErr(err, "membership")
	}
	plan, err := s.store.Plans().Get(ctx, ms.PlanID)
	if err != nil {
		return nil, storeErr(err, "plan")
	}

	invoice, err = buildInvoice(member, ms, plan, extensionID)
	if err != nil {
		return nil, err
	}
	invoice.InvoiceID = s.newInvoiceID()

	if err := s.store.Invoices().Create(ctx, invoice); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Internal("invoice id collision", err)
		}
		return nil, apperr.Internal("failed to save invoice", err)
	}

	s.opts.metrics.RecordInvoice()
	s.opts.logger.InfoContext(ctx, "invoice generated",
		"action", "generate_invoice",
		"member_id", member.ID.String(),
		"membership_id", ms.ID.String(),
		"invoice_id", invoice.InvoiceID,
	)
	return invoice, nil
}

func buildInvoice(member *models.Member, ms *models.Membership, plan *models.Plan, extensionID *uuid.UUID) (*models.Invoice, error) {
	membershipID := ms.ID
	invoice := &models.Invoice{
		MemberID:        member.ID,
		MembershipID:    &membershipID,
		MemberName:      member.FullName(),
		MemberEmail:     member.Email,
		PlanName:        plan.Name,
		PlanDescription: plan.Description,
		PlanPrice:       plan.Price,
		PlanDuration:    plan.DurationMonths,
		StartDate:       ms.StartDate,
	}

	var ext *models.Extension
	if extensionID != nil {
		found, ok := ms.FindExtension(*extensionID)
		if !ok {
			return nil, apperr.NotFound("extension")
		}
		ext = found
	} else {
		ext = ms.LatestExtension()
	}

	if ext == nil {
		invoice.EndDate = ms.EndDate
		invoice.PreviousEndDate = ms.EndDate
		return invoice, nil
	}
	extID := ext.ID
	duration := ext.DurationMonths
	invoice.ExtensionID = &extID
	invoice.EndDate = ext.NewEndDate
	invoice.PreviousEndDate = ext.PreviousEndDate
	invoice.ExtensionDuration = &duration
	return invoice, nil
}

// newInvoiceID renders INV-{unix millis}-{6 hex chars}.
func (s *InvoiceService) newInvoiceID() string {
	return fmt.Sprintf("INV-%d-%s", s.opts.clock().UnixMilli(), uuid.NewString()[:6])
}

func (s *InvoiceService) Get(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	invoice, err := s.store.Invoices().GetByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, storeErr(err, "invoice")
	}
	return invoice, nil
}

func (s *InvoiceService) ListForMember(ctx context.Context, memberID uuid.UUID) ([]models.Invoice, error) {
	if _, err := s.store.Members().Get(ctx, memberID); err != nil {
		return nil, storeErr(err, "member")
	}
	invoices, err := s.store.Invoices().ListByMember(ctx, memberID)
	if err != nil {
		return nil, storeErr(err, "invoice")
	}
	return invoices, nil
}
