package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/store"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/validation"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// PlanLookup resolves a plan by id, failing with NotFound.
type PlanLookup interface {
	GetPlan(ctx context.Context, id uuid.UUID) (*models.Plan, error)
}

// PlanService is the plan catalog. Reads go through a small expiring cache
// that writes invalidate.
type PlanService struct {
	store store.Store
	cache *expirable.LRU[uuid.UUID, models.Plan]
	opts  options
}

var _ PlanLookup = (*PlanService)(nil)

func NewPlanService(st store.Store, cacheSize int, cacheTTL time.Duration, opts ...Option) *PlanService {
	if cacheSize <= 0 {
		cacheSize = 128
	}
	return &PlanService{
		store: st,
		cache: expirable.NewLRU[uuid.UUID, models.Plan](cacheSize, nil, cacheTTL),
		opts:  buildOptions(opts),
	}
}

func (s *PlanService) Create(ctx context.Context, req *dto.PlanRequest) (*models.Plan, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	if _, err := s.store.Plans().GetByName(ctx, req.Name); err == nil {
		return nil, apperr.Conflict("plan name already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, storeErr(err, "plan")
	}

	plan := &models.Plan{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		DurationMonths: req.DurationMonths,
	}
	if err := s.store.Plans().Create(ctx, plan); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict("plan name already exists")
		}
		return nil, storeErr(err, "plan")
	}
	s.cache.Add(plan.ID, *plan)
	return plan, nil
}

func (s *PlanService) GetPlan(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	if plan, ok := s.cache.Get(id); ok {
		return &plan, nil
	}
	plan, err := s.store.Plans().Get(ctx, id)
	if err != nil {
		return nil, storeErr(err, "plan")
	}
	s.cache.Add(id, *plan)
	return plan, nil
}

func (s *PlanService) List(ctx context.Context) ([]models.Plan, error) {
	plans, err := s.store.Plans().List(ctx)
	if err != nil {
		return nil, storeErr(err, "plan")
	}
	return plans, nil
}

func (s *PlanService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdatePlanRequest) (*models.Plan, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	plan, err := s.store.Plans().Get(ctx, id)
	if err != nil {
		return nil, storeErr(err, "plan")
	}

	if req.Name != nil {
		plan.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		plan.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		plan.Price = *req.Price
	}
	if req.DurationMonths != nil {
		plan.DurationMonths = *req.DurationMonths
	}

	if err := s.store.Plans().Update(ctx, plan); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict("plan name already exists")
		}
		return nil, storeErr(err, "plan")
	}
	s.cache.Remove(id)
	return plan, nil
}

func (s *PlanService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Plans().Delete(ctx, id); err != nil {
		return storeErr(err, "plan")
	}
	s.cache.Remove(id)
	return nil
}

// Seed creates the given plans, skipping names that already exist. It returns
// how many were created.
func (s *PlanService) Seed(ctx context.Context, plans []dto.PlanRequest) (int, error) {
	created := 0
	for i := range plans {
		if _, err := s.Create(ctx, &plans[i]); err != nil {
			if apperr.KindOf(err) == apperr.KindConflict {
				continue
			}
			return created, err
		}
		created++
	}
	s.opts.logger.Info("plan catalog seeded", "action", "seed_plans", "created", created, "total", len(plans))
	return created, nil
}
