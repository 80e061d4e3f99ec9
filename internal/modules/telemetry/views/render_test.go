package views

import (
	"bytes"
	"html/template"
	"io"
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoadTemplates_success(t *testing.T) {
	err := LoadTemplates()
	if err != nil {
		t.Fatalf("LoadTemplates() = %v; want nil", err)
	}
	if dashboardTmpl == nil {
		t.Fatal("LoadTemplates() left dashboardTmpl nil")
	}
}

func TestLoadTemplates_failure_sub(t *testing.T) {
	// Empty FS has no "templates" directory; fs.Sub fails.
	emptyFS := fstest.MapFS{}
	err := loadTemplatesFromFS(emptyFS, "templates")
	if err == nil {
		t.Fatal("loadTemplatesFromFS(emptyFS, \"templates\") = nil; want error")
	}
}

func TestLoadTemplates_failure_parse(t *testing.T) {
	// FS with invalid template syntax; ParseFS fails.
	badFS := fstest.MapFS{
		"templates/dashboard.html": {Data: []byte("{{ .")},
	}
	err := loadTemplatesFromFS(badFS, "templates")
	if err == nil {
		t.Fatal("loadTemplatesFromFS(badFS, \"templates\") = nil; want error")
	}
}

func TestRenderDashboard_notLoaded(t *testing.T) {
	prev := dashboardTmpl
	dashboardTmpl = nil
	t.Cleanup(func() { dashboardTmpl = prev })

	var buf bytes.Buffer
	err := RenderDashboard(&buf, &DashboardData{})
	if err == nil {
		t.Fatal("RenderDashboard() = nil; want error when templates not loaded")
	}
	if !strings.Contains(err.Error(), "not loaded") {
		t.Errorf("err = %q; want message containing \"not loaded\"", err.Error())
	}
}

func TestRenderDashboard_emptyData(t *testing.T) {
	if err := LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates(): %v", err)
	}

	var buf bytes.Buffer
	err := RenderDashboard(&buf, &DashboardData{
		Cards: CardsData{Temperature: "--", Humidity: "--", UV: "--"},
	})
	if err != nil {
		t.Fatalf("RenderDashboard(empty data) = %v; want nil", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Sensorboard") {
		t.Errorf("output missing \"Sensorboard\"; got %q", out)
	}
	if !strings.Contains(out, "<!DOCTYPE html>") {
		t.Errorf("output missing DOCTYPE; got %q", out)
	}
	if strings.Count(out, "--") < 3 {
		t.Errorf("output should show the -- placeholder on all three cards; got %q", out)
	}
	if !strings.Contains(out, "No data received yet") {
		t.Errorf("output missing empty-state label; got %q", out)
	}
}

func TestRenderDashboard_withData(t *testing.T) {
	if err := LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates(): %v", err)
	}

	data := &DashboardData{
		Cards: CardsData{
			Temperature: "21.4",
			Humidity:    "55.0",
			UV:          "3.2",
			LastUpdated: "Mar 1, 2025 10:00:00",
		},
		Chart: ChartData{
			SVG:        template.HTML("<svg data-test></svg>"),
			RangeLabel: "Last 24 hours",
			Count:      12,
		},
		Ranges:   []RangeOption{{Key: "24h", Label: "Last 24 hours", Selected: true}},
		RangeKey: "24h",
	}

	var buf bytes.Buffer
	if err := RenderDashboard(&buf, data); err != nil {
		t.Fatalf("RenderDashboard(data) = %v; want nil", err)
	}
	out := buf.String()
	if !strings.Contains(out, "21.4") {
		t.Errorf("output missing temperature value; got %q", out)
	}
	if !strings.Contains(out, "Last updated Mar 1, 2025 10:00:00") {
		t.Errorf("output missing last-updated label; got %q", out)
	}
	if !strings.Contains(out, "<svg data-test></svg>") {
		t.Errorf("output missing inline chart SVG; got %q", out)
	}
	if !strings.Contains(out, "Last 24 hours") {
		t.Errorf("output missing range label; got %q", out)
	}
}

func TestRenderDashboard_errorBanner(t *testing.T) {
	if err := LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates(): %v", err)
	}

	var buf bytes.Buffer
	err := RenderDashboard(&buf, &DashboardData{ErrMessage: "Live data is currently unavailable."})
	if err != nil {
		t.Fatalf("RenderDashboard() = %v; want nil", err)
	}
	out := buf.String()
	if !strings.Contains(out, "banner-error") {
		t.Errorf("output missing error banner; got %q", out)
	}
	if !strings.Contains(out, "Live data is currently unavailable.") {
		t.Errorf("output missing banner message; got %q", out)
	}
}

func TestRenderCardsPartial(t *testing.T) {
	if err := LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates(): %v", err)
	}

	var buf bytes.Buffer
	err := RenderCardsPartial(&buf, &CardsData{Temperature: "19.8", Humidity: "--", UV: "--"})
	if err != nil {
		t.Fatalf("RenderCardsPartial() = %v; want nil", err)
	}
	out := buf.String()
	if !strings.Contains(out, "19.8") || !strings.Contains(out, "--") {
		t.Errorf("cards partial missing values; got %q", out)
	}
	if strings.Contains(out, "<!DOCTYPE html>") {
		t.Error("cards partial should not include the page shell")
	}
}

func TestRenderChartPartial_notLoaded(t *testing.T) {
	prev := dashboardTmpl
	dashboardTmpl = nil
	t.Cleanup(func() { dashboardTmpl = prev })

	var buf bytes.Buffer
	if err := RenderChartPartial(&buf, &ChartData{}); err == nil {
		t.Fatal("RenderChartPartial() = nil; want error when templates not loaded")
	}
}

// Ensure render propagates write errors (e.g. closed writer).
func TestRenderDashboard_writeError(t *testing.T) {
	if err := LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates(): %v", err)
	}

	w := &failingWriter{err: io.ErrClosedPipe}
	err := RenderDashboard(w, &DashboardData{})
	if err == nil {
		t.Fatal("RenderDashboard(failingWriter) = nil; want error")
	}
}

type failingWriter struct{ err error }

func (f *failingWriter) Write([]byte) (int, error) { return 0, f.err }
