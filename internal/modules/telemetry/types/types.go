package types

import "time"

// RawRecord is one record as delivered by the upstream realtime store.
// The upstream schema is not validated: field names vary between records
// ("humid" vs "humidity", "temp" vs "temperature", "ts" vs "timestamp")
// and values may arrive as numbers or numeric strings.
type RawRecord = map[string]any

// Snapshot is a complete point-in-time dump of all retained raw records,
// keyed by record id. Each delivery replaces prior state wholesale.
type Snapshot = map[string]RawRecord

// Reading is a normalized sensor sample. Channel fields are nil when the
// upstream record had no usable value; Timestamp is always present and
// non-zero, in milliseconds since the Unix epoch.
type Reading struct {
	ID          string   `json:"id"`
	Temperature *float64 `json:"temperature_c,omitempty"`
	Humidity    *float64 `json:"humidity_pct,omitempty"`
	UV          *float64 `json:"uv_index,omitempty"`
	Timestamp   int64    `json:"timestamp_ms"`
}

// Time returns the reading timestamp as a time.Time in UTC.
func (r Reading) Time() time.Time {
	return time.UnixMilli(r.Timestamp).UTC()
}
