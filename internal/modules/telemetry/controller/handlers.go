package controller

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"

	"sensorboard/internal/modules/telemetry/chart"
	"sensorboard/internal/modules/telemetry/mock"
	"sensorboard/internal/modules/telemetry/state"
	"sensorboard/internal/modules/telemetry/timerange"
	"sensorboard/internal/modules/telemetry/types"
	"sensorboard/internal/modules/telemetry/views"
	"sensorboard/internal/utils"
)

func (c *telemetryControllerImpl) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sel := parseRangeSelection(r)
	view, readings := c.windowedReadings(sel)

	data := views.DashboardData{
		Cards:       c.buildCards(view),
		Chart:       buildChart(sel.Key, readings),
		Ranges:      buildRangeOptions(sel.Key),
		RangeKey:    sel.Key,
		CustomStart: sel.StartRaw,
		CustomEnd:   sel.EndRaw,
		MockMode:    sel.MockMode,
		ErrMessage:  view.ErrMessage,
	}

	var buf bytes.Buffer
	if err := views.RenderDashboard(&buf, &data); err != nil {
		slog.Error("dashboard template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("dashboard: write response failed", "error", err)
	}
}

func (c *telemetryControllerImpl) handleCardsPartial(w http.ResponseWriter, r *http.Request) {
	sel := parseRangeSelection(r)
	view, _ := c.windowedReadings(sel)

	data := c.buildCards(view)
	var buf bytes.Buffer
	if err := views.RenderCardsPartial(&buf, &data); err != nil {
		slog.Error("cards partial render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("cards: write response failed", "error", err)
	}
}

func (c *telemetryControllerImpl) handleChartPartial(w http.ResponseWriter, r *http.Request) {
	sel := parseRangeSelection(r)
	_, readings := c.windowedReadings(sel)

	data := buildChart(sel.Key, readings)
	var buf bytes.Buffer
	if err := views.RenderChartPartial(&buf, &data); err != nil {
		slog.Error("chart partial render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("chart: write response failed", "error", err)
	}
}

// handleReadings serves the archived history as JSON.
func (c *telemetryControllerImpl) handleReadings(w http.ResponseWriter, r *http.Request) {
	from, to, limit, err := parseReadingsQuery(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if to.IsZero() {
		to = c.now()
	}

	readings, err := c.repository.GetReadings(from, to, limit, 0)
	if err != nil {
		slog.Error("readings query failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load readings")
		return
	}
	utils.WriteJSON(w, http.StatusOK, readings)
}

func (c *telemetryControllerImpl) handleLatest(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	latest, err := c.repository.GetLatest(limit)
	if err != nil {
		slog.Error("latest query failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load readings")
		return
	}
	utils.WriteJSON(w, http.StatusOK, latest)
}

// windowedReadings resolves the data behind a request: the live store view
// (or a synthetic sequence in mock mode) filtered to the selected window.
func (c *telemetryControllerImpl) windowedReadings(sel rangeSelection) (state.View, []types.Reading) {
	var view state.View
	if sel.MockMode {
		now := c.now()
		view = state.View{Readings: mock.Generate(now), LastUpdated: now}
	} else {
		view = c.store.View()
	}
	filtered := timerange.Filter(view.Readings, sel.Key, sel.Custom, c.now())
	return view, filtered
}

// buildCards derives the latest-value cards from the full (unfiltered)
// sequence; the cards always show the newest reading regardless of the
// chart window.
func (c *telemetryControllerImpl) buildCards(view state.View) views.CardsData {
	data := views.CardsData{
		Temperature: "--",
		Humidity:    "--",
		UV:          "--",
		Loading:     view.Loading,
	}
	if len(view.Readings) > 0 {
		latest := view.Readings[len(view.Readings)-1]
		data.Temperature = FormatValue(latest.Temperature)
		data.Humidity = FormatValue(latest.Humidity)
		data.UV = FormatValue(latest.UV)
	}
	if !view.LastUpdated.IsZero() {
		data.LastUpdated = view.LastUpdated.Local().Format(lastUpdatedFormat)
	}
	return data
}

func buildChart(rangeKey string, readings []types.Reading) views.ChartData {
	return views.ChartData{
		SVG:        template.HTML(chart.Render(readings)),
		RangeLabel: timerange.Label(rangeKey),
		Count:      len(readings),
	}
}

func buildRangeOptions(selected string) []views.RangeOption {
	opts := make([]views.RangeOption, 0, len(timerange.PresetOrder)+2)
	for _, key := range timerange.PresetOrder {
		opts = append(opts, views.RangeOption{
			Key:      key,
			Label:    timerange.Presets[key].Label,
			Selected: key == selected,
		})
	}
	opts = append(opts,
		views.RangeOption{Key: timerange.KeyAll, Label: timerange.Label(timerange.KeyAll), Selected: selected == timerange.KeyAll},
		views.RangeOption{Key: timerange.KeyCustom, Label: timerange.Label(timerange.KeyCustom), Selected: selected == timerange.KeyCustom},
	)
	return opts
}
