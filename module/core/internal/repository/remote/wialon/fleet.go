package wialon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/Zavalalgamer/wialon-backend/module/core/domain"
	"github.com/Zavalalgamer/wialon-backend/module/core/internal/repository/remote"
)

var _ remote.FleetRepository = (*FleetRepo)(nil)

const (
	searchItemsService = "core/search_items"
	zoneDataService    = "resource/get_zone_data"

	itemsTypeUnit     = "avl_unit"
	itemsTypeResource = "avl_resource"

	// base flags plus last message/position
	unitFlags     = 1025
	resourceFlags = 1
	// every zone field group, geometry included
	zoneFlags = 0x1F
)

type caller interface {
	Call(ctx context.Context, svc string, params any) (json.RawMessage, error)
}

type FleetRepo struct {
	client caller
}

func NewFleetRepo(client caller) *FleetRepo {
	return &FleetRepo{client: client}
}

type searchSpec struct {
	ItemsType     string `json:"itemsType"`
	PropName      string `json:"propName"`
	PropValueMask string `json:"propValueMask"`
	SortType      string `json:"sortType"`
}

type searchParams struct {
	Spec  searchSpec `json:"spec"`
	Force int        `json:"force"`
	Flags int        `json:"flags"`
	From  int        `json:"from"`
	To    int        `json:"to"`
}

func newSearch(itemsType string, flags int) searchParams {
	return searchParams{
		Spec: searchSpec{
			ItemsType:     itemsType,
			PropName:      "sys_name",
			PropValueMask: "*",
			SortType:      "sys_name",
		},
		Force: 1,
		Flags: flags,
	}
}

type unitPosition struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
	T *int64   `json:"t"`
	S *float64 `json:"s"`
}

type unitItem struct {
	ID   int64         `json:"id"`
	Name string        `json:"nm"`
	Pos  *unitPosition `json:"pos"`
}

func (r *FleetRepo) ListUnits(ctx context.Context) ([]domain.Unit, error) {
	body, err := r.client.Call(ctx, searchItemsService, newSearch(itemsTypeUnit, unitFlags))
	if err != nil {
		return nil, err
	}

	var resp struct {
		Items []unitItem `json:"items"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode units: %w", err)
	}

	units := make([]domain.Unit, 0, len(resp.Items))
	for _, it := range resp.Items {
		u := domain.Unit{ID: it.ID, Name: it.Name}
		if it.Pos != nil {
			u.Lat = it.Pos.Y
			u.Lon = it.Pos.X
			u.Timestamp = it.Pos.T
			u.Speed = it.Pos.S
		}
		units = append(units, u)
	}
	return units, nil
}

type resourceItem struct {
	ID   int64  `json:"id"`
	Name string `json:"nm"`
}

func (r *FleetRepo) ListResources(ctx context.Context) ([]domain.Resource, error) {
	body, err := r.client.Call(ctx, searchItemsService, newSearch(itemsTypeResource, resourceFlags))
	if err != nil {
		return nil, err
	}

	var resp struct {
		Items []resourceItem `json:"items"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode resources: %w", err)
	}

	resources := make([]domain.Resource, 0, len(resp.Items))
	for _, it := range resp.Items {
		resources = append(resources, domain.Resource{ID: it.ID, Name: it.Name})
	}
	return resources, nil
}

type zoneParams struct {
	ItemID int64 `json:"itemId"`
	Flags  int   `json:"flags"`
}

func (r *FleetRepo) ListZones(ctx context.Context, resourceID int64) ([]domain.Zone, error) {
	body, err := r.client.Call(ctx, zoneDataService, zoneParams{ItemID: resourceID, Flags: zoneFlags})
	if err != nil {
		return nil, err
	}

	raws, err := decodeZoneList(body)
	if err != nil {
		return nil, fmt.Errorf("decode zones of resource %d: %w", resourceID, err)
	}

	zones := make([]domain.Zone, 0, len(raws))
	for _, raw := range raws {
		zones = append(zones, NormalizeZone(raw))
	}
	return zones, nil
}

// decodeZoneList accepts a JSON list of zones or an object keyed by zone id.
// Object members are returned in document order. Entries that are not
// objects are skipped.
func decodeZoneList(body json.RawMessage) ([]map[string]any, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var values []any
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &values); err != nil {
			return nil, err
		}
	case '{':
		var err error
		values, err = orderedObjectValues(trimmed)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unexpected zone payload %.32q", trimmed)
	}

	zones := make([]map[string]any, 0, len(values))
	for _, v := range values {
		if obj, ok := v.(map[string]any); ok {
			zones = append(zones, obj)
		}
	}
	return zones, nil
}

func orderedObjectValues(data []byte) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	var values []any
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return values, nil
}
