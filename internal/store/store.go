// Package store defines the persistence contract used by the services.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/models"
	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicate       = errors.New("duplicate record")
	ErrVersionConflict = errors.New("version conflict")
)

type PlanRepository interface {
	Create(ctx context.Context, plan *models.Plan) error
	Get(ctx context.Context, id uuid.UUID) (*models.Plan, error)
	GetByName(ctx context.Context, name string) (*models.Plan, error)
	List(ctx context.Context) ([]models.Plan, error)
	Update(ctx context.Context, plan *models.Plan) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	Get(ctx context.Context, id uuid.UUID) (*models.Member, error)
	// FindByEmailOrMobile returns any member holding either value, or ErrNotFound.
	FindByEmailOrMobile(ctx context.Context, email, mobile string) (*models.Member, error)
	// ListByMembershipStatus returns members whose current membership has status.
	ListByMembershipStatus(ctx context.Context, status models.MembershipStatus) ([]models.Member, error)
	Update(ctx context.Context, member *models.Member) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type MembershipRepository interface {
	Create(ctx context.Context, membership *models.Membership) error
	Get(ctx context.Context, id uuid.UUID) (*models.Membership, error)
	// Update writes membership only if the stored version still equals
	// membership.Version, then bumps the version. A stale version yields
	// ErrVersionConflict.
	Update(ctx context.Context, membership *models.Membership) error
	ListByMember(ctx context.Context, memberID uuid.UUID) ([]models.Membership, error)
	// ListEndingBetween returns memberships with status whose end date is in [from, to).
	ListEndingBetween(ctx context.Context, status models.MembershipStatus, from, to time.Time) ([]models.Membership, error)
	DeleteByMember(ctx context.Context, memberID uuid.UUID) error
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByInvoiceID(ctx context.Context, invoiceID string) (*models.Invoice, error)
	ListByMember(ctx context.Context, memberID uuid.UUID) ([]models.Invoice, error)
}

type EnquiryRepository interface {
	Create(ctx context.Context, enquiry *models.Enquiry) error
	Get(ctx context.Context, id uuid.UUID) (*models.Enquiry, error)
	List(ctx context.Context) ([]models.Enquiry, error)
}

// Store groups the repositories. WithTx runs fn against a transactional view
// that commits when fn returns nil and rolls back otherwise. Calling WithTx on
// that view joins the outer transaction.
type Store interface {
	Plans() PlanRepository
	Members() MemberRepository
	Memberships() MembershipRepository
	Invoices() InvoiceRepository
	Enquiries() EnquiryRepository
	WithTx(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}
