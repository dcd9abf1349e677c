package service

import (
	"context"

	"github.com/Zavalalgamer/wialon-backend/module/core/domain"
	"github.com/Zavalalgamer/wialon-backend/module/core/internal/repository/remote"
)

type UnitService struct {
	repo remote.FleetRepository
}

func NewUnitService(repo remote.FleetRepository) *UnitService {
	return &UnitService{repo: repo}
}

func (s *UnitService) ListUnits(ctx context.Context) ([]domain.Unit, error) {
	return s.repo.ListUnits(ctx)
}

func (s *UnitService) ListResources(ctx context.Context) ([]domain.Resource, error) {
	return s.repo.ListResources(ctx)
}
