package core

import (
	"github.com/gin-gonic/gin"

	handler "github.com/Zavalalgamer/wialon-backend/module/core/internal/handler/http"
	"github.com/Zavalalgamer/wialon-backend/module/core/internal/repository/remote/wialon"
	"github.com/Zavalalgamer/wialon-backend/module/core/service"
)

// Options configures the connection to the Wialon platform.
type Options = wialon.Options

// Recorder receives remote call outcomes.
type Recorder = wialon.Recorder

type Module struct {
	UnitSvc     *service.UnitService
	GeofenceSvc *service.GeofenceService
	Session     *wialon.Session
	handler     *handler.FleetHandler
}

func Build(opts Options) *Module {
	client := wialon.NewClient(opts)
	fleetRepo := wialon.NewFleetRepo(client)

	unitSvc := service.NewUnitService(fleetRepo)
	geofenceSvc := service.NewGeofenceService(fleetRepo)

	return &Module{
		UnitSvc:     unitSvc,
		GeofenceSvc: geofenceSvc,
		Session:     client.Session(),
		handler:     handler.NewFleetHandler(unitSvc, geofenceSvc),
	}
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	m.handler.Register(r)
}
