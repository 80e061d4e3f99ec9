package views

import (
	"errors"
	"html/template"
	"io"
	"io/fs"
)

var dashboardTmpl *template.Template

// loadTemplatesFromFS loads dashboard templates from the given fs and dir.
// Used by LoadTemplates and by tests to simulate failure scenarios.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	dashboardTmpl, err = template.ParseFS(sub, "*.html", "partials/*.html")
	if err != nil {
		return err
	}
	return nil
}

// LoadTemplates loads embedded dashboard templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// RangeOption is the view model for one entry in the range selector.
type RangeOption struct {
	Key      string
	Label    string
	Selected bool
}

// CardsData is the view model for the latest-value summary cards. Values are
// pre-formatted: one decimal place, or "--" when the reading is absent.
type CardsData struct {
	Temperature string
	Humidity    string
	UV          string
	// LastUpdated is a localized absolute timestamp, empty before the
	// first delivery.
	LastUpdated string
	Loading     bool
}

// ChartData is the view model for the chart partial.
type ChartData struct {
	SVG        template.HTML
	RangeLabel string
	Count      int
}

// DashboardData is the view model for the full dashboard page.
type DashboardData struct {
	Cards       CardsData
	Chart       ChartData
	Ranges      []RangeOption
	RangeKey    string
	CustomStart string
	CustomEnd   string
	MockMode    bool
	ErrMessage  string
}

func RenderDashboard(w io.Writer, data *DashboardData) error {
	if dashboardTmpl == nil {
		return errors.New("dashboard template not loaded: call views.LoadTemplates during startup")
	}
	return dashboardTmpl.ExecuteTemplate(w, "dashboard.html", data)
}

// RenderCardsPartial executes only the summary cards into w.
// Use for fragment refresh.
func RenderCardsPartial(w io.Writer, data *CardsData) error {
	if dashboardTmpl == nil {
		return errors.New("dashboard template not loaded: call views.LoadTemplates during startup")
	}
	return dashboardTmpl.ExecuteTemplate(w, "cards.html", data)
}

// RenderChartPartial executes only the chart fragment into w.
func RenderChartPartial(w io.Writer, data *ChartData) error {
	if dashboardTmpl == nil {
		return errors.New("dashboard template not loaded: call views.LoadTemplates during startup")
	}
	return dashboardTmpl.ExecuteTemplate(w, "chart.html", data)
}
