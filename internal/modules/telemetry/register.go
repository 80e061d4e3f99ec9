package telemetry

import (
	"database/sql"
	"net/http"

	"sensorboard/internal/modules/telemetry/controller"
	"sensorboard/internal/modules/telemetry/repository"
	"sensorboard/internal/modules/telemetry/state"
)

// RegisterFeature wires the telemetry module: HTTP routes, the live state
// store and the snapshot-source handler feeding both the store and the
// archive. Returns the store so the app can inspect it if needed.
func RegisterFeature(mux *http.ServeMux, db *sql.DB, subscriber SnapshotSubscriber) *state.Store {
	store := state.NewStore()
	repo := repository.NewRepository(db)

	registerSourceHandlers(subscriber, store, repo)

	telemetryController := controller.NewTelemetryController(store, repo)
	telemetryController.RegisterRoutes(mux)

	return store
}
