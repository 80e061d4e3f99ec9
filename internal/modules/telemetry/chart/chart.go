// Package chart renders the dashboard's dual-axis time-series chart as inline
// SVG. Left axis carries temperature and humidity, right axis carries UV.
package chart

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"sensorboard/internal/modules/telemetry/types"
)

const (
	width   = 860
	height  = 360
	padLeft = 48
	padRight = 48
	padTop  = 16
	padBottom = 28
)

type series struct {
	name   string
	color  string
	unit   string
	value  func(types.Reading) *float64
	right  bool
}

var allSeries = []series{
	{name: "Temperature", color: "#e4572e", unit: "°C", value: func(r types.Reading) *float64 { return r.Temperature }},
	{name: "Humidity", color: "#17a398", unit: "%", value: func(r types.Reading) *float64 { return r.Humidity }},
	{name: "UV", color: "#8338ec", unit: "", value: func(r types.Reading) *float64 { return r.UV }, right: true},
}

// Render produces the chart SVG for a window of readings. Readings are
// expected sorted ascending by timestamp. Returns an empty-state SVG when no
// reading carries a plottable point.
func Render(readings []types.Reading) []byte {
	if !hasAnyPoint(readings) {
		return renderEmpty()
	}

	minTS := readings[0].Timestamp
	maxTS := readings[len(readings)-1].Timestamp
	if maxTS == minTS {
		// a single instant still needs a non-zero x span
		maxTS = minTS + 1
	}

	leftMin, leftMax := valueBounds(readings, false)
	rightMin, rightMax := valueBounds(readings, true)

	timeToX := func(ts int64) float64 {
		frac := float64(ts-minTS) / float64(maxTS-minTS)
		return padLeft + frac*(width-padLeft-padRight)
	}
	leftToY := scaleY(leftMin, leftMax)
	rightToY := scaleY(rightMin, rightMax)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" role="img">`+"\n", width, height)
	fmt.Fprintf(&buf, `<rect width="%d" height="%d" fill="white"/>`+"\n", width, height)

	drawGrid(&buf, leftMin, leftMax, rightMin, rightMax, minTS, maxTS, timeToX, leftToY)

	for _, s := range allSeries {
		toY := leftToY
		if s.right {
			toY = rightToY
		}
		drawSeries(&buf, readings, s, timeToX, toY)
	}

	buf.WriteString("</svg>")
	return buf.Bytes()
}

func hasAnyPoint(readings []types.Reading) bool {
	for _, r := range readings {
		for _, s := range allSeries {
			if s.value(r) != nil {
				return true
			}
		}
	}
	return false
}

// valueBounds returns padded min/max over the readings for one axis side.
func valueBounds(readings []types.Reading, right bool) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range readings {
		for _, s := range allSeries {
			if s.right != right {
				continue
			}
			if v := s.value(r); v != nil {
				lo = math.Min(lo, *v)
				hi = math.Max(hi, *v)
			}
		}
	}
	if lo > hi {
		// axis has no data; any sane span works, nothing will be drawn on it
		return 0, 1
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	return lo - span*0.1, hi + span*0.1
}

func scaleY(lo, hi float64) func(float64) float64 {
	return func(v float64) float64 {
		frac := (v - lo) / (hi - lo)
		return float64(height-padBottom) - frac*float64(height-padTop-padBottom)
	}
}

func drawGrid(buf *bytes.Buffer, leftMin, leftMax, rightMin, rightMax float64, minTS, maxTS int64, timeToX func(int64) float64, leftToY func(float64) float64) {
	buf.WriteString(`<g stroke="#e3e3e3" stroke-width="1" fill="none">` + "\n")
	const rows = 4
	for i := 0; i <= rows; i++ {
		v := leftMin + (leftMax-leftMin)*float64(i)/rows
		y := leftToY(v)
		fmt.Fprintf(buf, `<line x1="%d" y1="%.1f" x2="%d" y2="%.1f"/>`+"\n", padLeft, y, width-padRight, y)
	}
	buf.WriteString("</g>\n")

	// axis labels
	buf.WriteString(`<g font-size="11" fill="#666">` + "\n")
	for i := 0; i <= rows; i++ {
		frac := float64(i) / rows
		left := leftMin + (leftMax-leftMin)*frac
		right := rightMin + (rightMax-rightMin)*frac
		y := leftToY(left)
		fmt.Fprintf(buf, `<text x="4" y="%.1f">%.1f</text>`+"\n", y+4, left)
		fmt.Fprintf(buf, `<text x="%d" y="%.1f">%.1f</text>`+"\n", width-padRight+6, y+4, right)
	}
	// time axis: window edges
	fmt.Fprintf(buf, `<text x="%d" y="%d">%s</text>`+"\n", padLeft, height-8, formatTick(minTS))
	fmt.Fprintf(buf, `<text x="%d" y="%d" text-anchor="end">%s</text>`+"\n", width-padRight, height-8, formatTick(maxTS))
	buf.WriteString("</g>\n")
}

func drawSeries(buf *bytes.Buffer, readings []types.Reading, s series, timeToX func(int64) float64, toY func(float64) float64) {
	fmt.Fprintf(buf, `<g fill="%s" stroke="%s">`+"\n", s.color, s.color)

	// polyline segments; an absent value breaks the line
	var points []string
	flush := func() {
		if len(points) > 1 {
			buf.WriteString(`<polyline fill="none" stroke-width="1.5" points="`)
			for i, p := range points {
				if i > 0 {
					buf.WriteByte(' ')
				}
				buf.WriteString(p)
			}
			buf.WriteString(`"/>` + "\n")
		}
		points = points[:0]
	}

	for _, r := range readings {
		v := s.value(r)
		if v == nil {
			flush()
			continue
		}
		x, y := timeToX(r.Timestamp), toY(*v)
		points = append(points, fmt.Sprintf("%.1f,%.1f", x, y))
		fmt.Fprintf(buf, `<circle cx="%.1f" cy="%.1f" r="2"><title>%s: %.1f%s at %s</title></circle>`+"\n",
			x, y, s.name, *v, s.unit, formatTick(r.Timestamp))
	}
	flush()

	buf.WriteString("</g>\n")
}

func formatTick(ts int64) string {
	return time.UnixMilli(ts).UTC().Format("Jan 2 15:04")
}

func renderEmpty() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" role="img">`+"\n", width, height)
	fmt.Fprintf(&buf, `<rect width="%d" height="%d" fill="white"/>`+"\n", width, height)
	fmt.Fprintf(&buf, `<text x="%d" y="%d" text-anchor="middle" font-size="14" fill="#888">No data for the selected range</text>`+"\n", width/2, height/2)
	buf.WriteString("</svg>")
	return buf.Bytes()
}
