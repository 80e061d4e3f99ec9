package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sensorboard/internal/modules/telemetry/state"
	"sensorboard/internal/modules/telemetry/types"
	"sensorboard/internal/modules/telemetry/views"
)

type mockRepo struct {
	readings    []types.Reading
	readingsErr error
	latest      []types.Reading
	latestErr   error
}

func (m *mockRepo) UpsertReadings(readings []types.Reading) error { return nil }

func (m *mockRepo) GetReadings(from, to time.Time, limit, offset int) ([]types.Reading, error) {
	return m.readings, m.readingsErr
}

func (m *mockRepo) GetLatest(limit int) ([]types.Reading, error) {
	return m.latest, m.latestErr
}

func (m *mockRepo) CountReadings(from, to time.Time) (int, error) {
	return len(m.readings), nil
}

func f64(v float64) *float64 { return &v }

func newTestController(t *testing.T, store *state.Store, repo *mockRepo) *telemetryControllerImpl {
	t.Helper()
	if err := views.LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates(): %v", err)
	}
	ctrl := NewTelemetryController(store, repo).(*telemetryControllerImpl)
	ctrl.now = func() time.Time { return time.UnixMilli(3_000_000) }
	return ctrl
}

func Test_handleDashboard(t *testing.T) {
	t.Run("empty store renders placeholders and no-data chart", func(t *testing.T) {
		st := state.NewStore()
		st.Replace(nil, time.Time{})
		ctrl := newTestController(t, st, &mockRepo{})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		ctrl.handleDashboard(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
			t.Errorf("Content-Type = %q; want text/html; charset=utf-8", ct)
		}
		body := rec.Body.String()
		if strings.Count(body, "--") < 3 {
			t.Errorf("body should show -- on all three cards; got %q", body)
		}
		if !strings.Contains(body, "No data for the selected range") {
			t.Errorf("body missing chart empty state; got %q", body)
		}
	})

	t.Run("renders latest reading values", func(t *testing.T) {
		st := state.NewStore()
		st.Replace([]types.Reading{
			{ID: "a", Timestamp: 1_000_000, Temperature: f64(20.0), Humidity: f64(51.0)},
			{ID: "b", Timestamp: 2_000_000, Temperature: f64(21.44), UV: f64(3.05)},
		}, time.UnixMilli(2_000_000))
		ctrl := newTestController(t, st, &mockRepo{})

		req := httptest.NewRequest(http.MethodGet, "/?range=1h", nil)
		rec := httptest.NewRecorder()
		ctrl.handleDashboard(rec, req)

		body := rec.Body.String()
		if !strings.Contains(body, "21.4") {
			t.Errorf("body missing latest temperature; got %q", body)
		}
		// latest reading has no humidity; card shows the placeholder
		if !strings.Contains(body, "--") {
			t.Errorf("body missing -- for absent humidity; got %q", body)
		}
	})

	t.Run("delivery error shows banner and keeps readings", func(t *testing.T) {
		st := state.NewStore()
		st.Replace([]types.Reading{{ID: "a", Timestamp: 2_500_000, Temperature: f64(19.0)}}, time.UnixMilli(2_500_000))
		st.Fail("Live data is currently unavailable.")
		ctrl := newTestController(t, st, &mockRepo{})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		ctrl.handleDashboard(rec, req)

		body := rec.Body.String()
		if !strings.Contains(body, "banner-error") {
			t.Errorf("body missing error banner; got %q", body)
		}
		if !strings.Contains(body, "19.0") {
			t.Errorf("body should still show held readings; got %q", body)
		}
	})

	t.Run("mock mode renders synthetic data", func(t *testing.T) {
		ctrl := newTestController(t, state.NewStore(), &mockRepo{})

		req := httptest.NewRequest(http.MethodGet, "/?mode=mock&range=all", nil)
		rec := httptest.NewRecorder()
		ctrl.handleDashboard(rec, req)

		body := rec.Body.String()
		if strings.Contains(body, "No data for the selected range") {
			t.Errorf("mock mode should always have chart data; got %q", body)
		}
		if !strings.Contains(body, "<polyline") {
			t.Errorf("mock mode chart missing series; got %q", body)
		}
	})
}

func Test_handleCardsPartial(t *testing.T) {
	st := state.NewStore()
	st.Replace([]types.Reading{{ID: "a", Timestamp: 2_900_000, Humidity: f64(55.0)}}, time.UnixMilli(2_900_000))
	ctrl := newTestController(t, st, &mockRepo{})

	req := httptest.NewRequest(http.MethodGet, "/partials/cards", nil)
	rec := httptest.NewRecorder()
	ctrl.handleCardsPartial(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "55.0") {
		t.Errorf("partial missing humidity; got %q", body)
	}
	if strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("partial should not include the page shell")
	}
}

func Test_handleChartPartial_rangeFiltering(t *testing.T) {
	st := state.NewStore()
	// readings at t=0, 1000, 2000 ms; injected now is t=3,000,000 ms,
	// so all three sit inside the 1h window.
	st.Replace([]types.Reading{
		{ID: "a", Timestamp: 0, Temperature: f64(20)},
		{ID: "b", Timestamp: 1000, Temperature: f64(21)},
		{ID: "c", Timestamp: 2000, Temperature: f64(22)},
	}, time.UnixMilli(2000))
	ctrl := newTestController(t, st, &mockRepo{})

	req := httptest.NewRequest(http.MethodGet, "/partials/chart?range=1h", nil)
	rec := httptest.NewRecorder()
	ctrl.handleChartPartial(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "3 readings") {
		t.Errorf("chart should include all three readings; got %q", body)
	}

	// push now past the window; nothing remains
	ctrl.now = func() time.Time { return time.UnixMilli(5_000_000) }
	rec = httptest.NewRecorder()
	ctrl.handleChartPartial(rec, httptest.NewRequest(http.MethodGet, "/partials/chart?range=1h", nil))
	if body := rec.Body.String(); !strings.Contains(body, "0 readings") {
		t.Errorf("chart should be empty outside the window; got %q", body)
	}
}

func Test_handleReadings(t *testing.T) {
	t.Run("returns archived readings as JSON", func(t *testing.T) {
		repo := &mockRepo{readings: []types.Reading{{ID: "a", Timestamp: 1000, Temperature: f64(20)}}}
		ctrl := newTestController(t, state.NewStore(), repo)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/readings", nil)
		rec := httptest.NewRecorder()
		ctrl.handleReadings(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
		}
		var got []types.Reading
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if len(got) != 1 || got[0].ID != "a" {
			t.Errorf("body = %v; want single reading a", got)
		}
	})

	t.Run("bad query returns 400", func(t *testing.T) {
		ctrl := newTestController(t, state.NewStore(), &mockRepo{})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/readings?from=bogus", nil)
		rec := httptest.NewRecorder()
		ctrl.handleReadings(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d; want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("repository failure returns 500", func(t *testing.T) {
		repo := &mockRepo{readingsErr: errFake}
		ctrl := newTestController(t, state.NewStore(), repo)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/readings", nil)
		rec := httptest.NewRecorder()
		ctrl.handleReadings(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d; want %d", rec.Code, http.StatusInternalServerError)
		}
	})
}

func Test_handleLatest(t *testing.T) {
	repo := &mockRepo{latest: []types.Reading{{ID: "z", Timestamp: 9000, UV: f64(4.2)}}}
	ctrl := newTestController(t, state.NewStore(), repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/latest?limit=1", nil)
	rec := httptest.NewRecorder()
	ctrl.handleLatest(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
	}
	var got []types.Reading
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(got) != 1 || got[0].ID != "z" {
		t.Errorf("body = %v; want single reading z", got)
	}
}

var errFake = errors.New("query failed")
