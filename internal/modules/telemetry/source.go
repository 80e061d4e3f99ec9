package telemetry

import (
	"log/slog"
	"time"

	"sensorboard/internal/modules/telemetry/normalize"
	"sensorboard/internal/modules/telemetry/repository"
	"sensorboard/internal/modules/telemetry/state"
	"sensorboard/internal/modules/telemetry/types"
)

// sourceErrorMessage is the generic banner text; delivery failures are
// logged with detail but never shown verbatim to the user.
const sourceErrorMessage = "Live data is currently unavailable."

// SnapshotSubscriber is the push-source contract the telemetry module wires
// against: register handlers, receive asynchronous snapshot and error
// events, unregister on teardown.
type SnapshotSubscriber interface {
	SetSnapshotHandler(handler func(snap types.Snapshot))
	SetErrorHandler(handler func(err error))
}

// registerSourceHandlers hooks snapshot deliveries into the state store and
// the archive. Each delivery replaces the held sequence wholesale; a
// delivery error raises the banner without touching held readings.
func registerSourceHandlers(subscriber SnapshotSubscriber, store *state.Store, repo repository.ReadingRepository) {
	subscriber.SetSnapshotHandler(func(snap types.Snapshot) {
		readings := normalize.Snapshot(snap)
		store.Replace(readings, time.Now())
		slog.Debug("snapshot applied", "records", len(snap), "readings", len(readings))

		if err := repo.UpsertReadings(readings); err != nil {
			// archive failure does not degrade the live dashboard
			slog.Error("failed to archive readings", "error", err)
		}
	})

	subscriber.SetErrorHandler(func(err error) {
		slog.Warn("snapshot delivery failed", "error", err)
		store.Fail(sourceErrorMessage)
	})
}
