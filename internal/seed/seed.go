// Package seed loads the plan catalog from a YAML file at startup.
package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/dto"
	"gopkg.in/yaml.v3"
)

type PlanFile struct {
	Plans []dto.PlanRequest `yaml:"plans"`
}

// PlanSeeder is satisfied by services.PlanService.
type PlanSeeder interface {
	Seed(ctx context.Context, plans []dto.PlanRequest) (int, error)
}

func LoadPlans(path string) ([]dto.PlanRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plans file: %w", err)
	}
	var file PlanFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse plans file: %w", err)
	}
	return file.Plans, nil
}

// Plans seeds the catalog from path. An empty path is a no-op.
func Plans(ctx context.Context, seeder PlanSeeder, path string) (int, error) {
	if path == "" {
		return 0, nil
	}
	plans, err := LoadPlans(path)
	if err != nil {
		return 0, err
	}
	return seeder.Seed(ctx, plans)
}
