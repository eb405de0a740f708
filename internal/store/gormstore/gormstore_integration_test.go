//go:build integration

package gormstore

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupPostgres(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("gym_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(pgdriver.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return New(db)
}

func TestIntegrationRegistrationRoundTrip(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	plan := &models.Plan{Name: "Gold", Price: 1000, DurationMonths: 3}
	require.NoError(t, s.Plans().Create(ctx, plan))
	assert.ErrorIs(t, s.Plans().Create(ctx, &models.Plan{Name: "Gold", Price: 1, DurationMonths: 1}), store.ErrDuplicate)

	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	member := &models.Member{FirstName: "Asha", LastName: "Rao", Gender: "female", Age: 29,
		Email: "asha@example.com", Mobile: "9000000001", JoiningDate: start}

	err := s.WithTx(ctx, func(tx store.Store) error {
		if err := tx.Members().Create(ctx, member); err != nil {
			return err
		}
		ms := &models.Membership{
			MemberID: member.ID, PlanID: plan.ID, StartDate: start, EndDate: end,
			Status: models.MembershipActive,
			Extensions: []models.Extension{{ID: uuid.New(), PreviousEndDate: start, NewEndDate: end, DurationMonths: 3}},
		}
		if err := tx.Memberships().Create(ctx, ms); err != nil {
			return err
		}
		member.MembershipID = &ms.ID
		return tx.Members().Update(ctx, member)
	})
	require.NoError(t, err)

	got, err := s.Members().Get(ctx, member.ID)
	require.NoError(t, err)
	require.NotNil(t, got.MembershipID)

	ms, err := s.Memberships().Get(ctx, *got.MembershipID)
	require.NoError(t, err)
	require.Len(t, ms.Extensions, 1)
	assert.True(t, ms.Extensions[0].NewEndDate.Equal(end))
	assert.Equal(t, 1, ms.Version)

	stale := *ms
	ms.Status = models.MembershipInactive
	require.NoError(t, s.Memberships().Update(ctx, ms))
	assert.ErrorIs(t, s.Memberships().Update(ctx, &stale), store.ErrVersionConflict)

	inactive, err := s.Members().ListByMembershipStatus(ctx, models.MembershipInactive)
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, member.ID, inactive[0].ID)
}

func TestIntegrationTransactionRollback(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	member := &models.Member{FirstName: "Ravi", LastName: "K", Gender: "male", Age: 35,
		Email: "ravi@example.com", Mobile: "9000000002", JoiningDate: time.Now()}
	err := s.WithTx(ctx, func(tx store.Store) error {
		if err := tx.Members().Create(ctx, member); err != nil {
			return err
		}
		return tx.Members().Create(ctx, &models.Member{FirstName: "Dup", LastName: "X", Gender: "male", Age: 20,
			Email: "ravi@example.com", Mobile: "9000000003", JoiningDate: time.Now()})
	})
	require.ErrorIs(t, err, store.ErrDuplicate)

	_, err = s.Members().FindByEmailOrMobile(ctx, "ravi@example.com", "9000000002")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
