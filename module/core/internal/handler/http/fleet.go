package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Zavalalgamer/wialon-backend/module/core/domain"
	"github.com/Zavalalgamer/wialon-backend/module/core/service"
)

type unitService interface {
	ListUnits(ctx context.Context) ([]domain.Unit, error)
	ListResources(ctx context.Context) ([]domain.Resource, error)
}

type geofenceService interface {
	ListZones(ctx context.Context, resourceID int64) ([]domain.Zone, error)
	UnitsInGeofences(ctx context.Context, resourceID *int64, maxUnits int) (*service.Membership, error)
	MapView(ctx context.Context, resourceID int64, maxUnits int) (*service.MapView, error)
}

type unitsResponse struct {
	Count int           `json:"count"`
	Units []domain.Unit `json:"units"`
}

type resourcesResponse struct {
	Count     int               `json:"count"`
	Resources []domain.Resource `json:"resources"`
}

type geofencesResponse struct {
	ResourceID int64         `json:"resource_id"`
	Count      int           `json:"count"`
	Geofences  []domain.Zone `json:"geofences"`
}

type membershipResponse struct {
	Count            int                     `json:"count"`
	ResourceCount    int                     `json:"resource_count"`
	UnitsInGeofences domain.MembershipResult `json:"units_in_geofences"`
}

type listSection[T any] struct {
	Count int `json:"count"`
	Items []T `json:"items"`
}

type resultSection struct {
	Count  int                     `json:"count"`
	Result domain.MembershipResult `json:"result"`
}

type mapViewResponse struct {
	ResourceID       int64                    `json:"resource_id"`
	Units            listSection[domain.Unit] `json:"units"`
	Geofences        listSection[domain.Zone] `json:"geofences"`
	UnitsInGeofences resultSection            `json:"units_in_geofences"`
}

var endpoints = []string{
	"/wialon/units",
	"/wialon/resources",
	"/wialon/resources/{resource_id}/geofences",
	"/wialon/resources/{resource_id}/map",
	"/wialon/units-in-geofences",
}

type FleetHandler struct {
	unitSvc     unitService
	geofenceSvc geofenceService
}

func NewFleetHandler(unitSvc unitService, geofenceSvc geofenceService) *FleetHandler {
	return &FleetHandler{unitSvc: unitSvc, geofenceSvc: geofenceSvc}
}

func (h *FleetHandler) Register(r *gin.RouterGroup) {
	r.GET("/", h.Index)
	r.GET("/wialon/units", h.ListUnits)
	r.GET("/wialon/resources", h.ListResources)
	r.GET("/wialon/resources/:resource_id/geofences", h.ListGeofences)
	r.GET("/wialon/resources/:resource_id/map", h.MapView)
	r.GET("/wialon/units-in-geofences", h.UnitsInGeofences)
}

func (h *FleetHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "endpoints": endpoints})
}

func (h *FleetHandler) ListUnits(c *gin.Context) {
	units, err := h.unitSvc.ListUnits(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	units = orEmpty(units)
	c.JSON(http.StatusOK, unitsResponse{Count: len(units), Units: units})
}

func (h *FleetHandler) ListResources(c *gin.Context) {
	resources, err := h.unitSvc.ListResources(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	resources = orEmpty(resources)
	c.JSON(http.StatusOK, resourcesResponse{Count: len(resources), Resources: resources})
}

func (h *FleetHandler) ListGeofences(c *gin.Context) {
	resourceID, err := parsePositive(c.Param("resource_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resource_id parameter"})
		return
	}

	zones, err := h.geofenceSvc.ListZones(c.Request.Context(), resourceID)
	if err != nil {
		writeError(c, err)
		return
	}

	zones = orEmpty(zones)
	c.JSON(http.StatusOK, geofencesResponse{ResourceID: resourceID, Count: len(zones), Geofences: zones})
}

func (h *FleetHandler) UnitsInGeofences(c *gin.Context) {
	var resourceID *int64
	if v := c.Query("resource_id"); v != "" {
		id, err := parsePositive(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resource_id parameter"})
			return
		}
		resourceID = &id
	}

	maxUnits, ok := maxUnitsParam(c)
	if !ok {
		return
	}

	m, err := h.geofenceSvc.UnitsInGeofences(c.Request.Context(), resourceID, maxUnits)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, membershipResponse{
		Count:            m.Result.Hits(),
		ResourceCount:    len(m.Resources),
		UnitsInGeofences: m.Result,
	})
}

func (h *FleetHandler) MapView(c *gin.Context) {
	resourceID, err := parsePositive(c.Param("resource_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resource_id parameter"})
		return
	}

	maxUnits, ok := maxUnitsParam(c)
	if !ok {
		return
	}

	view, err := h.geofenceSvc.MapView(c.Request.Context(), resourceID, maxUnits)
	if err != nil {
		writeError(c, err)
		return
	}

	units := orEmpty(view.Units)
	zones := orEmpty(view.Zones)
	c.JSON(http.StatusOK, mapViewResponse{
		ResourceID:       view.ResourceID,
		Units:            listSection[domain.Unit]{Count: len(units), Items: units},
		Geofences:        listSection[domain.Zone]{Count: len(zones), Items: zones},
		UnitsInGeofences: resultSection{Count: view.Result.Hits(), Result: view.Result},
	})
}

func maxUnitsParam(c *gin.Context) (int, bool) {
	v := c.Query("max_units")
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_units parameter"})
		return 0, false
	}
	return n, true
}

func parsePositive(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive")
	}
	return n, nil
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// writeError maps remote-layer failures to responses. The error is attached to
// the gin context for the request logger.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var (
		cfgErr  *domain.ConfigError
		authErr *domain.AuthError
		httpErr *domain.HTTPError
		svcErr  *domain.ServiceError
	)

	switch {
	case errors.As(err, &cfgErr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": cfgErr.Error()})
	case errors.As(err, &authErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "token/login failed", "detail": authErr.Detail})
	case errors.As(err, &httpErr):
		c.JSON(httpErr.Status, gin.H{
			"error":  fmt.Sprintf("HTTP %d from %s", httpErr.Status, httpErr.Service),
			"detail": httpErr.Body,
		})
	case errors.As(err, &svcErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   svcErr.Error(),
			"code":    svcErr.Code,
			"service": svcErr.Service,
		})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}
