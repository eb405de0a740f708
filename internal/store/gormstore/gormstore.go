// Package gormstore implements store.Store on PostgreSQL through gorm.
package gormstore

import (
	"context"
	"errors"
	"time"

	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/store"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// Store expects a *gorm.DB opened with TranslateError enabled so unique
// violations surface as gorm.ErrDuplicatedKey.
type Store struct {
	db     *gorm.DB
	tracer trace.Tracer
	inTx   bool
}

var _ store.Store = (*Store)(nil)

func New(db *gorm.DB) *Store {
	return &Store{db: db, tracer: otel.Tracer("gym-backend/gormstore")}
}

func (s *Store) WithTx(ctx context.Context, fn func(tx store.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	ctx, span := s.start(ctx, "gormstore.tx")
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, tracer: s.tracer, inTx: true})
	})
	return finish(span, err)
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Plans() store.PlanRepository             { return planRepo{s} }
func (s *Store) Members() store.MemberRepository         { return memberRepo{s} }
func (s *Store) Memberships() store.MembershipRepository { return membershipRepo{s} }
func (s *Store) Invoices() store.InvoiceRepository       { return invoiceRepo{s} }
func (s *Store) Enquiries() store.EnquiryRepository      { return enquiryRepo{s} }

func (s *Store) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// finish translates err into the store sentinels and closes span.
func finish(span trace.Span, err error) error {
	defer span.End()
	err = translate(err)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return store.ErrDuplicate
	default:
		return err
	}
}

func affected(res *gorm.DB, none error) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return none
	}
	return nil
}

func idAttr(key string, id uuid.UUID) attribute.KeyValue {
	return attribute.String(key, id.String())
}

type planRepo struct{ s *Store }

func (r planRepo) Create(ctx context.Context, plan *models.Plan) error {
	ctx, span := r.s.start(ctx, "gormstore.plans.create", attribute.String("plan.name", plan.Name))
	return finish(span, r.s.conn(ctx).Create(plan).Error)
}

func (r planRepo) Get(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	ctx, span := r.s.start(ctx, "gormstore.plans.get", idAttr("plan.id", id))
	var plan models.Plan
	if err := finish(span, r.s.conn(ctx).First(&plan, "id = ?", id).Error); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r planRepo) GetByName(ctx context.Context, name string) (*models.Plan, error) {
	ctx, span := r.s.start(ctx, "gormstore.plans.get_by_name", attribute.String("plan.name", name))
	var plan models.Plan
	if err := finish(span, r.s.conn(ctx).First(&plan, "name = ?", name).Error); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r planRepo) List(ctx context.Context) ([]models.Plan, error) {
	ctx, span := r.s.start(ctx, "gormstore.plans.list")
	var plans []models.Plan
	err := finish(span, r.s.conn(ctx).Order("name ASC").Find(&plans).Error)
	return plans, err
}

func (r planRepo) Update(ctx context.Context, plan *models.Plan) error {
	ctx, span := r.s.start(ctx, "gormstore.plans.update", idAttr("plan.id", plan.ID))
	plan.UpdatedAt = time.Now().UTC()
	res := r.s.conn(ctx).Model(&models.Plan{}).Where("id = ?", plan.ID).Updates(map[string]interface{}{
		"name":            plan.Name,
		"description":     plan.Description,
		"price":           plan.Price,
		"duration_months": plan.DurationMonths,
		"updated_at":      plan.UpdatedAt,
	})
	return finish(span, affected(res, store.ErrNotFound))
}

func (r planRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := r.s.start(ctx, "gormstore.plans.delete", idAttr("plan.id", id))
	res := r.s.conn(ctx).Delete(&models.Plan{}, "id = ?", id)
	return finish(span, affected(res, store.ErrNotFound))
}

type memberRepo struct{ s *Store }

func (r memberRepo) Create(ctx context.Context, member *models.Member) error {
	ctx, span := r.s.start(ctx, "gormstore.members.create")
	return finish(span, r.s.conn(ctx).Create(member).Error)
}

func (r memberRepo) Get(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	ctx, span := r.s.start(ctx, "gormstore.members.get", idAttr("member.id", id))
	var member models.Member
	if err := finish(span, r.s.conn(ctx).First(&member, "id = ?", id).Error); err != nil {
		return nil, err
	}
	return &member, nil
}

func (r memberRepo) FindByEmailOrMobile(ctx context.Context, email, mobile string) (*models.Member, error) {
	ctx, span := r.s.start(ctx, "gormstore.members.find_by_contact")
	var member models.Member
	err := r.s.conn(ctx).Where("email = ? OR mobile = ?", email, mobile).First(&member).Error
	if err := finish(span, err); err != nil {
		return nil, err
	}
	return &member, nil
}

func (r memberRepo) ListByMembershipStatus(ctx context.Context, status models.MembershipStatus) ([]models.Member, error) {
	ctx, span := r.s.start(ctx, "gormstore.members.list_by_status", attribute.String("membership.status", string(status)))
	var members []models.Member
	err := r.s.conn(ctx).
		Select("members.*").
		Joins("JOIN memberships ON memberships.id = members.membership_id").
		Where("memberships.status = ?", status).
		Order("members.created_at DESC").
		Find(&members).Error
	return members, finish(span, err)
}

func (r memberRepo) Update(ctx context.Context, member *models.Member) error {
	ctx, span := r.s.start(ctx, "gormstore.members.update", idAttr("member.id", member.ID))
	member.UpdatedAt = time.Now().UTC()
	res := r.s.conn(ctx).Model(&models.Member{}).Where("id = ?", member.ID).Updates(map[string]interface{}{
		"first_name":    member.FirstName,
		"last_name":     member.LastName,
		"gender":        member.Gender,
		"age":           member.Age,
		"address":       member.Address,
		"mobile":        member.Mobile,
		"email":         member.Email,
		"joining_date":  member.JoiningDate,
		"membership_id": member.MembershipID,
		"updated_at":    member.UpdatedAt,
	})
	return finish(span, affected(res, store.ErrNotFound))
}

func (r memberRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := r.s.start(ctx, "gormstore.members.delete", idAttr("member.id", id))
	res := r.s.conn(ctx).Delete(&models.Member{}, "id = ?", id)
	return finish(span, affected(res, store.ErrNotFound))
}

type membershipRepo struct{ s *Store }

func (r membershipRepo) Create(ctx context.Context, membership *models.Membership) error {
	ctx, span := r.s.start(ctx, "gormstore.memberships.create", idAttr("member.id", membership.MemberID))
	if membership.Version == 0 {
		membership.Version = 1
	}
	return finish(span, r.s.conn(ctx).Create(membership).Error)
}

func (r membershipRepo) Get(ctx context.Context, id uuid.UUID) (*models.Membership, error) {
	ctx, span := r.s.start(ctx, "gormstore.memberships.get", idAttr("membership.id", id))
	var membership models.Membership
	if err := finish(span, r.s.conn(ctx).First(&membership, "id = ?", id).Error); err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r membershipRepo) Update(ctx context.Context, membership *models.Membership) error {
	ctx, span := r.s.start(ctx, "gormstore.memberships.update",
		idAttr("membership.id", membership.ID),
		attribute.Int("expected.version", membership.Version),
	)
	now := time.Now().UTC()
	res := r.s.conn(ctx).Model(&models.Membership{}).
		Where("id = ? AND version = ?", membership.ID, membership.Version).
		Updates(map[string]interface{}{
			"status":     membership.Status,
			"end_date":   membership.EndDate,
			"extensions": membership.Extensions,
			"version":    membership.Version + 1,
			"updated_at": now,
		})
	if err := affected(res, store.ErrVersionConflict); err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			// Distinguish a missing row from a stale version.
			var count int64
			if cErr := r.s.conn(ctx).Model(&models.Membership{}).Where("id = ?", membership.ID).Count(&count).Error; cErr == nil && count == 0 {
				err = store.ErrNotFound
			}
		}
		return finish(span, err)
	}
	membership.Version++
	membership.UpdatedAt = now
	return finish(span, nil)
}

func (r membershipRepo) ListByMember(ctx context.Context, memberID uuid.UUID) ([]models.Membership, error) {
	ctx, span := r.s.start(ctx, "gormstore.memberships.list_by_member", idAttr("member.id", memberID))
	var memberships []models.Membership
	err := r.s.conn(ctx).Where("member_id = ?", memberID).Order("start_date DESC").Find(&memberships).Error
	return memberships, finish(span, err)
}

func (r membershipRepo) ListEndingBetween(ctx context.Context, status models.MembershipStatus, from, to time.Time) ([]models.Membership, error) {
	ctx, span := r.s.start(ctx, "gormstore.memberships.list_ending",
		attribute.String("membership.status", string(status)),
		attribute.String("window.from", from.Format(time.RFC3339)),
	)
	var memberships []models.Membership
	err := r.s.conn(ctx).
		Where("status = ? AND end_date >= ? AND end_date < ?", status, from, to).
		Order("end_date ASC").
		Find(&memberships).Error
	return memberships, finish(span, err)
}

func (r membershipRepo) DeleteByMember(ctx context.Context, memberID uuid.UUID) error {
	ctx, span := r.s.start(ctx, "gormstore.memberships.delete_by_member", idAttr("member.id", memberID))
	return finish(span, r.s.conn(ctx).Where("member_id = ?", memberID).Delete(&models.Membership{}).Error)
}

type invoiceRepo struct{ s *Store }

func (r invoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	ctx, span := r.s.start(ctx, "gormstore.invoices.create", attribute.String("invoice.id", invoice.InvoiceID))
	return finish(span, r.s.conn(ctx).Create(invoice).Error)
}

func (r invoiceRepo) GetByInvoiceID(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	ctx, span := r.s.start(ctx, "gormstore.invoices.get", attribute.String("invoice.id", invoiceID))
	var invoice models.Invoice
	if err := finish(span, r.s.conn(ctx).First(&invoice, "invoice_id = ?", invoiceID).Error); err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r invoiceRepo) ListByMember(ctx context.Context, memberID uuid.UUID) ([]models.Invoice, error) {
	ctx, span := r.s.start(ctx, "gormstore.invoices.list_by_member", idAttr("member.id", memberID))
	var invoices []models.Invoice
	err := r.s.conn(ctx).Where("member_id = ?", memberID).Order("created_at DESC").Find(&invoices).Error
	return invoices, finish(span, err)
}

type enquiryRepo struct{ s *Store }

func (r enquiryRepo) Create(ctx context.Context, enquiry *models.Enquiry) error {
	ctx, span := r.s.start(ctx, "gormstore.enquiries.create")
	return finish(span, r.s.conn(ctx).Create(enquiry).Error)
}

func (r enquiryRepo) Get(ctx context.Context, id uuid.UUID) (*models.Enquiry, error) {
	ctx, span := r.s.start(ctx, "gormstore.enquiries.get", idAttr("enquiry.id", id))
	var enquiry models.Enquiry
	if err := finish(span, r.s.conn(ctx).First(&enquiry, "id = ?", id).Error); err != nil {
		return nil, err
	}
	return &enquiry, nil
}

func (r enquiryRepo) List(ctx context.Context) ([]models.Enquiry, error) {
	ctx, span := r.s.start(ctx, "gormstore.enquiries.list")
	var enquiries []models.Enquiry
	err := r.s.conn(ctx).Order("created_at DESC").Find(&enquiries).Error
	return enquiries, finish(span, err)
}
