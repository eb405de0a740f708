package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMember(email, mobile string) *models.Member {
	return &models.Member{
		FirstName: "Asha", LastName: "Rao", Gender: models.GenderFemale, Age: 29,
		Email: email, Mobile: mobile, JoiningDate: time.Now(),
	}
}

func TestWithTxCommits(t *testing.T) {
	ctx := context.Background()
	s := New()

	m := newMember("asha@example.com", "9000000001")
	err := s.WithTx(ctx, func(tx store.Store) error {
		return tx.Members().Create(ctx, m)
	})
	require.NoError(t, err)

	got, err := s.Members().Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", got.Email)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("membership insert failed")

	m := newMember("asha@example.com", "9000000001")
	err := s.WithTx(ctx, func(tx store.Store) error {
		require.NoError(t, tx.Members().Create(ctx, m))
		_, err := tx.Members().Get(ctx, m.ID)
		require.NoError(t, err, "read-your-writes inside the transaction")
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Members().Get(ctx, m.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestNestedWithTxJoinsOuter(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("outer fails")

	err := s.WithTx(ctx, func(tx store.Store) error {
		require.NoError(t, tx.WithTx(ctx, func(inner store.Store) error {
			return inner.Plans().Create(ctx, &models.Plan{Name: "Gold", Price: 1000, DurationMonths: 3})
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	plans, err := s.Plans().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestMemberUniqueness(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Members().Create(ctx, newMember("a@example.com", "1")))

	assert.ErrorIs(t, s.Members().Create(ctx, newMember("a@example.com", "2")), store.ErrDuplicate)
	assert.ErrorIs(t, s.Members().Create(ctx, newMember("b@example.com", "1")), store.ErrDuplicate)

	found, err := s.Members().FindByEmailOrMobile(ctx, "nobody@example.com", "1")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", found.Email)

	_, err = s.Members().FindByEmailOrMobile(ctx, "nobody@example.com", "3")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMembershipOptimisticUpdate(t *testing.T) {
	ctx := context.Background()
	s := New()
	ms := &models.Membership{MemberID: uuid.New(), PlanID: uuid.New(), Status: models.MembershipActive, EndDate: time.Now()}
	require.NoError(t, s.Memberships().Create(ctx, ms))
	assert.Equal(t, 1, ms.Version)

	first, err := s.Memberships().Get(ctx, ms.ID)
	require.NoError(t, err)
	second, err := s.Memberships().Get(ctx, ms.ID)
	require.NoError(t, err)

	first.Extensions = append(first.Extensions, models.Extension{ID: uuid.New()})
	require.NoError(t, s.Memberships().Update(ctx, first))
	assert.Equal(t, 2, first.Version)

	second.Extensions = append(second.Extensions, models.Extension{ID: uuid.New()})
	assert.ErrorIs(t, s.Memberships().Update(ctx, second), store.ErrVersionConflict)

	stored, err := s.Memberships().Get(ctx, ms.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Extensions, 1)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	ms := &models.Membership{MemberID: uuid.New(), Status: models.MembershipActive,
		Extensions: []models.Extension{{ID: uuid.New(), DurationMonths: 3}}}
	require.NoError(t, s.Memberships().Create(ctx, ms))

	got, err := s.Memberships().Get(ctx, ms.ID)
	require.NoError(t, err)
	got.Extensions[0].DurationMonths = 99

	again, err := s.Memberships().Get(ctx, ms.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, again.Extensions[0].DurationMonths)
}

func TestListEndingBetween(t *testing.T) {
	ctx := context.Background()
	s := New()
	day := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	inside := &models.Membership{MemberID: uuid.New(), Status: models.MembershipActive, EndDate: day.Add(10 * time.Hour)}
	boundary := &models.Membership{MemberID: uuid.New(), Status: models.MembershipActive, EndDate: day.AddDate(0, 0, 1)}
	inactive := &models.Membership{MemberID: uuid.New(), Status: models.MembershipInactive, EndDate: day}
	for _, m := range []*models.Membership{inside, boundary, inactive} {
		require.NoError(t, s.Memberships().Create(ctx, m))
	}

	got, err := s.Memberships().ListEndingBetween(ctx, models.MembershipActive, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, inside.ID, got[0].ID)
}

func TestListByMembershipStatus(t *testing.T) {
	ctx := context.Background()
	s := New()

	active := &models.Membership{MemberID: uuid.New(), Status: models.MembershipActive}
	require.NoError(t, s.Memberships().Create(ctx, active))
	m1 := newMember("a@example.com", "1")
	m1.MembershipID = &active.ID
	require.NoError(t, s.Members().Create(ctx, m1))
	require.NoError(t, s.Members().Create(ctx, newMember("b@example.com", "2")))

	got, err := s.Members().ListByMembershipStatus(ctx, models.MembershipActive)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, m1.ID, got[0].ID)

	got, err = s.Members().ListByMembershipStatus(ctx, models.MembershipInactive)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestInvoiceIDUnique(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Invoices().Create(ctx, &models.Invoice{InvoiceID: "INV-1-abc", MemberID: uuid.New()}))
	assert.ErrorIs(t, s.Invoices().Create(ctx, &models.Invoice{InvoiceID: "INV-1-abc", MemberID: uuid.New()}), store.ErrDuplicate)
}
