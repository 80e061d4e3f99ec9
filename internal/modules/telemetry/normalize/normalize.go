// Package normalize converts loosely-schema'd upstream records into the
// canonical Reading shape. Ingestion is best-effort: malformed entries are
// silently dropped or get absent fields, never an error.
package normalize

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"sensorboard/internal/modules/telemetry/types"
)

// Field resolution order. First defined key wins; the upstream schema is
// inconsistent between records, so each field is an explicit fallback list
// rather than ad hoc conditionals.
var (
	humidityAliases    = []string{"humid", "humidity"}
	temperatureAliases = []string{"temp", "temperature"}
	uvAliases          = []string{"uv"}
	timestampAliases   = []string{"ts", "timestamp"}
)

// msThreshold separates raw timestamps already in milliseconds from those in
// seconds. Values above it (~Sep 2001 in ms) are taken as milliseconds;
// anything at or below is seconds and gets multiplied by 1000. A legitimate
// seconds value would not cross this line before year ~33658.
const msThreshold = 1e12

// Snapshot converts an id→record mapping into a sorted Reading sequence.
// Records without a usable, non-zero timestamp are dropped. The result is
// sorted ascending by timestamp; ties keep key order, which reproduces the
// upstream store's key-ordered delivery.
func Snapshot(snap types.Snapshot) []types.Reading {
	ids := make([]string, 0, len(snap))
	for id := range snap {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]types.Reading, 0, len(snap))
	for _, id := range ids {
		r, ok := Record(id, snap[id])
		if !ok {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}

// Record normalizes a single raw record. ok is false when the record has no
// usable timestamp and must be dropped.
func Record(id string, raw types.RawRecord) (types.Reading, bool) {
	ts, ok := resolveNumber(raw, timestampAliases)
	if !ok || ts == 0 {
		return types.Reading{}, false
	}

	r := types.Reading{
		ID:          id,
		Temperature: resolveOptional(raw, temperatureAliases),
		Humidity:    resolveOptional(raw, humidityAliases),
		UV:          resolveOptional(raw, uvAliases),
		Timestamp:   toMillis(ts),
	}
	return r, true
}

func toMillis(raw float64) int64 {
	if raw > msThreshold {
		return int64(raw)
	}
	return int64(raw * 1000)
}

func resolveOptional(raw types.RawRecord, aliases []string) *float64 {
	v, ok := resolveNumber(raw, aliases)
	if !ok {
		return nil
	}
	return &v
}

// resolveNumber walks the alias list and coerces the first defined value to a
// finite float64. Coercion failure counts as absent, so a record with
// humid:"n/a" behaves like one with no humidity at all.
func resolveNumber(raw types.RawRecord, aliases []string) (float64, bool) {
	for _, key := range aliases {
		v, present := raw[key]
		if !present || v == nil {
			continue
		}
		return coerce(v)
	}
	return 0, false
}

func coerce(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
