package services

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanCreateValidatesAndRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.createPlan(t, "Gold", 1000, 3)

	_, err := env.plans.Create(ctx, &dto.PlanRequest{Name: " Gold ", Price: 10, DurationMonths: 1})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = env.plans.Create(ctx, &dto.PlanRequest{Name: "Decade", Price: 10, DurationMonths: 120})
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	_, err = env.plans.Create(ctx, &dto.PlanRequest{Price: 10, DurationMonths: 1})
	assert.Equal(t, "name is required", err.Error())
}

func TestPlanUpdateInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	plan := env.createPlan(t, "Gold", 1000, 3)

	cached, err := env.plans.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, cached.Price)

	price := 1200.0
	_, err = env.plans.Update(ctx, plan.ID, &dto.UpdatePlanRequest{Price: &price})
	require.NoError(t, err)

	fresh, err := env.plans.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 1200.0, fresh.Price)
}

func TestPlanUpdateNameConflict(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.createPlan(t, "Gold", 1000, 3)
	silver := env.createPlan(t, "Silver", 500, 1)

	name := "Gold"
	_, err := env.plans.Update(ctx, silver.ID, &dto.UpdatePlanRequest{Name: &name})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestPlanDelete(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	plan := env.createPlan(t, "Gold", 1000, 3)
	_, err := env.plans.GetPlan(ctx, plan.ID)
	require.NoError(t, err)

	require.NoError(t, env.plans.Delete(ctx, plan.ID))
	_, err = env.plans.GetPlan(ctx, plan.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(env.plans.Delete(ctx, uuid.New())))
}

func TestPlanSeedSkipsExisting(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.createPlan(t, "Gold", 1000, 3)

	created, err := env.plans.Seed(ctx, []dto.PlanRequest{
		{Name: "Gold", Price: 1000, DurationMonths: 3},
		{Name: "Silver", Price: 500, DurationMonths: 1},
		{Name: "Annual", Price: 3500, DurationMonths: 12},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	plans, err := env.plans.List(ctx)
	require.NoError(t, err)
	assert.Len(t, plans, 3)
}
