package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/store"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/store/memstore"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// fakeClock returns t and then advances it by step.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

func (c *fakeClock) Set(y int, m time.Month, d int) {
	c.t = time.Date(y, m, d, 9, 30, 0, 0, time.UTC)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 30, 0, 0, time.UTC)
}

type testEnv struct {
	store        store.Store
	clock        *fakeClock
	metrics      *metrics.Metrics
	plans        *PlanService
	invoices     *InvoiceService
	lifecycle    *LifecycleService
	registration *RegistrationService
	members      *MemberService
	admin        uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithStore(t, memstore.New())
}

func newTestEnvWithStore(t *testing.T, st store.Store) *testEnv {
	t.Helper()
	clock := &fakeClock{}
	clock.Set(2024, time.January, 15)
	m := metrics.New(prometheus.NewRegistry())
	opts := []Option{
		WithClock(clock.Now),
		WithMetrics(m),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}

	plans := NewPlanService(st, 16, time.Minute, opts...)
	invoices := NewInvoiceService(st, opts...)
	lifecycle := NewLifecycleService(st, plans, invoices, opts...)
	return &testEnv{
		store:        st,
		clock:        clock,
		metrics:      m,
		plans:        plans,
		invoices:     invoices,
		lifecycle:    lifecycle,
		registration: NewRegistrationService(st, plans, lifecycle, invoices, opts...),
		members:      NewMemberService(st, plans, opts...),
		admin:        uuid.New(),
	}
}

func (e *testEnv) createPlan(t *testing.T, name string, price float64, months int) *models.Plan {
	t.Helper()
	plan, err := e.plans.Create(context.Background(), &dto.PlanRequest{Name: name, Price: price, DurationMonths: months})
	require.NoError(t, err)
	return plan
}

func registerRequest(planID uuid.UUID) *dto.RegisterMemberRequest {
	return &dto.RegisterMemberRequest{
		FirstName: "Asha",
		LastName:  "Rao",
		Gender:    "female",
		Age:       29,
		Mobile:    "9000000001",
		Email:     "Asha.Rao@Example.com ",
		PlanID:    planID.String(),
	}
}

func (e *testEnv) register(t *testing.T, plan *models.Plan) *dto.MemberView {
	t.Helper()
	view, err := e.registration.Register(context.Background(), registerRequest(plan.ID), e.admin)
	require.NoError(t, err)
	return view
}

// faultyStore wraps a store and fails selected operations, including inside
// transactions.
type faultyStore struct {
	store.Store
	failMembershipCreate bool
	failMembershipUpdate error
	failListEnding       bool
	failInvoiceCreate    bool
}

func (f *faultyStore) wrap(inner store.Store) *faultyStore {
	c := *f
	c.Store = inner
	return &c
}

func (f *faultyStore) WithTx(ctx context.Context, fn func(tx store.Store) error) error {
	return f.Store.WithTx(ctx, func(tx store.Store) error {
		return fn(f.wrap(tx))
	})
}

func (f *faultyStore) Memberships() store.MembershipRepository {
	return faultyMemberships{MembershipRepository: f.Store.Memberships(), cfg: f}
}

func (f *faultyStore) Invoices() store.InvoiceRepository {
	return faultyInvoices{InvoiceRepository: f.Store.Invoices(), cfg: f}
}

type faultyMemberships struct {
	store.MembershipRepository
	cfg *faultyStore
}

func (r faultyMemberships) Create(ctx context.Context, ms *models.Membership) error {
	if r.cfg.failMembershipCreate {
		return errDiskFull
	}
	return r.MembershipRepository.Create(ctx, ms)
}

func (r faultyMemberships) Update(ctx context.Context, ms *models.Membership) error {
	if r.cfg.failMembershipUpdate != nil {
		return r.cfg.failMembershipUpdate
	}
	return r.MembershipRepository.Update(ctx, ms)
}

func (r faultyMemberships) ListEndingBetween(ctx context.Context, status models.MembershipStatus, from, to time.Time) ([]models.Membership, error) {
	if r.cfg.failListEnding {
		return nil, errDiskFull
	}
	return r.MembershipRepository.ListEndingBetween(ctx, status, from, to)
}

type faultyInvoices struct {
	store.InvoiceRepository
	cfg *faultyStore
}

func (r faultyInvoices) Create(ctx context.Context, inv *models.Invoice) error {
	if r.cfg.failInvoiceCreate {
		return errDiskFull
	}
	return r.InvoiceRepository.Create(ctx, inv)
}

var errDiskFull = errorString("disk full")

type errorString string

func (e errorString) Error() string { return string(e) }
