// Package timerange selects the display window for a Reading sequence.
package timerange

import (
	"time"

	"sensorboard/internal/modules/telemetry/types"
)

const (
	// DefaultKey is used when the requested range key is unknown.
	DefaultKey = "24h"
	KeyAll     = "all"
	KeyCustom  = "custom"
)

type Preset struct {
	Duration time.Duration
	Label    string
}

// Presets are the relative range choices offered by the dashboard.
var Presets = map[string]Preset{
	"1h":  {Duration: time.Hour, Label: "Last 1 hour"},
	"24h": {Duration: 24 * time.Hour, Label: "Last 24 hours"},
	"7d":  {Duration: 7 * 24 * time.Hour, Label: "Last 7 days"},
	"30d": {Duration: 30 * 24 * time.Hour, Label: "Last 30 days"},
}

// PresetOrder fixes selector rendering order; maps iterate randomly.
var PresetOrder = []string{"1h", "24h", "7d", "30d"}

// Interval is a closed absolute range in epoch milliseconds. Nil endpoints are
// "not picked yet".
type Interval struct {
	Start *int64
	End   *int64
}

// Resolve maps a requested key to the key actually applied: "all" and
// "custom" pass through, known presets pass through, anything else falls back
// to DefaultKey. ok reports whether key was recognized.
func Resolve(key string) (resolved string, ok bool) {
	switch key {
	case KeyAll, KeyCustom:
		return key, true
	}
	if _, found := Presets[key]; found {
		return key, true
	}
	return DefaultKey, false
}

// Label returns the human label for a resolved range key.
func Label(key string) string {
	switch key {
	case KeyAll:
		return "All data"
	case KeyCustom:
		return "Custom range"
	}
	if p, ok := Presets[key]; ok {
		return p.Label
	}
	return Presets[DefaultKey].Label
}

// Filter returns the readings inside the window selected by key,
// non-destructively. now is read only for relative presets; inject a fixed
// clock in tests.
//
//   - "all": the full sequence.
//   - "custom": start ≤ ts ≤ end when both endpoints are set, otherwise the
//     full sequence (permissive fallback while the user is still picking).
//   - presets: end = now, start = end − duration; unknown keys behave as the
//     24h preset.
func Filter(readings []types.Reading, key string, custom Interval, now time.Time) []types.Reading {
	switch key {
	case KeyAll:
		return readings
	case KeyCustom:
		if custom.Start == nil || custom.End == nil {
			return readings
		}
		return between(readings, *custom.Start, *custom.End)
	}

	preset, ok := Presets[key]
	if !ok {
		preset = Presets[DefaultKey]
	}
	end := now.UnixMilli()
	start := end - preset.Duration.Milliseconds()
	return between(readings, start, end)
}

func between(readings []types.Reading, start, end int64) []types.Reading {
	out := make([]types.Reading, 0, len(readings))
	for _, r := range readings {
		if r.Timestamp >= start && r.Timestamp <= end {
			out = append(out, r)
		}
	}
	return out
}
