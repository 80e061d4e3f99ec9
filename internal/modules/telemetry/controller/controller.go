package controller

import (
	"net/http"
	"time"

	"sensorboard/internal/modules/telemetry/repository"
	"sensorboard/internal/modules/telemetry/state"
)

type TelemetryController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type telemetryControllerImpl struct {
	store      *state.Store
	repository repository.ReadingRepository
	// now is the wall clock for relative range presets; tests inject a
	// fixed one.
	now func() time.Time
}

func NewTelemetryController(store *state.Store, repo repository.ReadingRepository) TelemetryController {
	return &telemetryControllerImpl{store: store, repository: repo, now: time.Now}
}

func (c *telemetryControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", c.handleDashboard)
	mux.HandleFunc("GET /partials/cards", c.handleCardsPartial)
	mux.HandleFunc("GET /partials/chart", c.handleChartPartial)
	mux.HandleFunc("GET /api/v1/readings", c.handleReadings)
	mux.HandleFunc("GET /api/v1/latest", c.handleLatest)
}
