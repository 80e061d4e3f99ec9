// Package mock generates synthetic readings so the dashboard can be exercised
// without a live data source.
package mock

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"sensorboard/internal/modules/telemetry/types"
)

const (
	// Points samples at Step spacing, the last one at "now". Spans just
	// under 24 hours.
	Points = 144
	Step   = 10 * time.Minute
)

// Lookback is the distance between the first and last generated sample.
const Lookback = time.Duration(Points-1) * Step

// Generate returns a full synthetic Reading sequence ending at now. Each
// channel follows a smooth sinusoid over the lookback window plus bounded
// jitter. All channels are present on every reading and timestamps ascend.
// Seeded from now so a given instant renders reproducibly.
func Generate(now time.Time) []types.Reading {
	rng := rand.New(rand.NewSource(now.UnixMilli()))
	start := now.Add(-Lookback)

	out := make([]types.Reading, 0, Points)
	for i := 0; i < Points; i++ {
		// phase sweeps one full day-cycle across the window
		phase := 2 * math.Pi * float64(i) / float64(Points-1)

		temp := 21 + 4*math.Sin(phase) + jitter(rng, 0.6)
		humid := 55 + 15*math.Sin(phase+math.Pi/3) + jitter(rng, 2.0)
		uv := math.Max(0, 4+4*math.Sin(phase-math.Pi/2)+jitter(rng, 0.4))

		out = append(out, types.Reading{
			ID:          fmt.Sprintf("mock-%03d", i),
			Temperature: &temp,
			Humidity:    &humid,
			UV:          &uv,
			Timestamp:   start.Add(time.Duration(i) * Step).UnixMilli(),
		})
	}
	return out
}

func jitter(rng *rand.Rand, amplitude float64) float64 {
	return (rng.Float64()*2 - 1) * amplitude
}
