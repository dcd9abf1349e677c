package remote

import (
	"context"

	"github.com/Zavalalgamer/wialon-backend/module/core/domain"
)

type FleetRepository interface {
	ListUnits(ctx context.Context) ([]domain.Unit, error)
	ListResources(ctx context.Context) ([]domain.Resource, error)
	ListZones(ctx context.Context, resourceID int64) ([]domain.Zone, error)
}
