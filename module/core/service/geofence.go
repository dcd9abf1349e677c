package service

import (
	"context"
	"fmt"

	"github.com/Zavalalgamer/wialon-backend/module/core/domain"
	"github.com/Zavalalgamer/wialon-backend/module/core/internal/repository/remote"
)

type GeofenceService struct {
	repo remote.FleetRepository
}

func NewGeofenceService(repo remote.FleetRepository) *GeofenceService {
	return &GeofenceService{repo: repo}
}

func (s *GeofenceService) ListZones(ctx context.Context, resourceID int64) ([]domain.Zone, error) {
	return s.repo.ListZones(ctx, resourceID)
}

// Membership is the outcome of a crossing query.
type Membership struct {
	Resources []domain.Resource
	Result    domain.MembershipResult
}

// UnitsInGeofences crosses the current units with the zones of one resource,
// or of every resource when resourceID is nil. When maxUnits is positive only
// the first maxUnits units of the listing take part.
func (s *GeofenceService) UnitsInGeofences(ctx context.Context, resourceID *int64, maxUnits int) (*Membership, error) {
	units, err := s.repo.ListUnits(ctx)
	if err != nil {
		return nil, err
	}
	units = capUnits(units, maxUnits)

	var resources []domain.Resource
	if resourceID != nil {
		resources = []domain.Resource{{ID: *resourceID}}
	} else {
		resources, err = s.repo.ListResources(ctx)
		if err != nil {
			return nil, err
		}
	}

	zones := make(map[int64][]domain.Zone, len(resources))
	for _, r := range resources {
		zs, err := s.repo.ListZones(ctx, r.ID)
		if err != nil {
			return nil, fmt.Errorf("zones of resource %d: %w", r.ID, err)
		}
		zones[r.ID] = zs
	}

	return &Membership{
		Resources: resources,
		Result:    Cross(units, resources, zones),
	}, nil
}

// MapView bundles what a map client needs to draw one resource.
type MapView struct {
	ResourceID int64
	Units      []domain.Unit
	Zones      []domain.Zone
	Result     domain.MembershipResult
}

func (s *GeofenceService) MapView(ctx context.Context, resourceID int64, maxUnits int) (*MapView, error) {
	units, err := s.repo.ListUnits(ctx)
	if err != nil {
		return nil, err
	}

	zones, err := s.repo.ListZones(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	resources := []domain.Resource{{ID: resourceID}}
	result := Cross(capUnits(units, maxUnits), resources, map[int64][]domain.Zone{resourceID: zones})

	return &MapView{
		ResourceID: resourceID,
		Units:      units,
		Zones:      zones,
		Result:     result,
	}, nil
}

// Cross tests every positioned unit against every zone of each resource, in
// listing order. Units and resources without a hit are left out.
//
// This is a full units x zones scan with no spatial index; fleets in the tens
// of thousands would need one.
func Cross(units []domain.Unit, resources []domain.Resource, zonesByResource map[int64][]domain.Zone) domain.MembershipResult {
	result := domain.MembershipResult{}

	for _, r := range resources {
		zones := zonesByResource[r.ID]
		if len(zones) == 0 {
			continue
		}

		for _, u := range units {
			if !u.HasPosition() {
				continue
			}

			var hits []int64
			for _, z := range zones {
				if zoneContains(z, *u.Lat, *u.Lon) {
					hits = append(hits, z.ID)
				}
			}
			if len(hits) == 0 {
				continue
			}

			if result[r.ID] == nil {
				result[r.ID] = map[int64][]int64{}
			}
			result[r.ID][u.ID] = hits
		}
	}
	return result
}

func capUnits(units []domain.Unit, maxUnits int) []domain.Unit {
	if maxUnits > 0 && len(units) > maxUnits {
		return units[:maxUnits]
	}
	return units
}
