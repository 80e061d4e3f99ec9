package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"sensorboard/internal/modules/telemetry/timerange"
)

// FormatValue renders a card value: one decimal place, or the "--"
// placeholder when the reading is absent.
func FormatValue(v *float64) string {
	if v == nil {
		return "--"
	}
	return fmt.Sprintf("%.1f", *v)
}

// lastUpdatedFormat is a localized absolute format for the header label.
const lastUpdatedFormat = "Jan 2, 2006 15:04:05 MST"

// customPickerFormat matches the datetime-local input, no seconds.
const customPickerFormat = "2006-01-02T15:04"

// rangeSelection is everything parsed from the dashboard query string.
type rangeSelection struct {
	Key      string
	Custom   timerange.Interval
	MockMode bool
	// raw picker values, echoed back into the form
	StartRaw string
	EndRaw   string
}

// parseRangeSelection never fails: unknown keys resolve to the default
// preset and unparseable custom endpoints stay unset, which the filter
// treats permissively.
func parseRangeSelection(r *http.Request) rangeSelection {
	q := r.URL.Query()

	key, _ := timerange.Resolve(q.Get("range"))

	sel := rangeSelection{
		Key:      key,
		MockMode: q.Get("mode") == "mock",
		StartRaw: q.Get("start"),
		EndRaw:   q.Get("end"),
	}

	if key == timerange.KeyCustom {
		sel.Custom.Start = parsePickerTime(sel.StartRaw)
		sel.Custom.End = parsePickerTime(sel.EndRaw)
	}
	return sel
}

// parsePickerTime accepts the datetime-local format or raw epoch
// milliseconds; nil when absent or unparseable.
func parsePickerTime(s string) *int64 {
	if s == "" {
		return nil
	}
	if t, err := time.Parse(customPickerFormat, s); err == nil {
		ms := t.UnixMilli()
		return &ms
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return &ms
	}
	return nil
}

func parseReadingsQuery(r *http.Request) (from time.Time, to time.Time, limit int, err error) {
	q := r.URL.Query()

	if s := q.Get("from"); s != "" {
		from, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, time.Time{}, 0, errors.New("invalid 'from' (expected RFC3339)")
		}
	}
	if s := q.Get("to"); s != "" {
		to, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, time.Time{}, 0, errors.New("invalid 'to' (expected RFC3339)")
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, 0, errors.New("'from' must be <= 'to'")
	}

	limit, err = parseLimit(r)
	if err != nil {
		return time.Time{}, time.Time{}, 0, err
	}
	return from, to, limit, nil
}

func parseLimit(r *http.Request) (int, error) {
	limit := 100
	if s := r.URL.Query().Get("limit"); s != "" {
		n, convErr := strconv.Atoi(s)
		if convErr != nil {
			return 0, errors.New("invalid 'limit' (expected integer)")
		}
		if n <= 0 {
			return 0, errors.New("'limit' must be > 0")
		}
		if n > 1000 {
			return 0, errors.New("'limit' must be <= 1000")
		}
		limit = n
	}
	return limit, nil
}
