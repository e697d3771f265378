package report

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/pkg/models"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/pkg/utils"
)

// ════════════════════════════════════════════════════════════════════
// Report Generator — Orchestrates chart + template rendering
// ════════════════════════════════════════════════════════════════════

// ReportFormat specifies the output format.
type ReportFormat string

const (
	FormatHTML ReportFormat = "html"
	FormatPDF  ReportFormat = "pdf"
	FormatText ReportFormat = "text"
)

// ReportSection identifies a section to include/exclude.
type ReportSection string

const (
	SectionSummary    ReportSection = "summary"
	SectionParameters ReportSection = "parameters"
	SectionResults    ReportSection = "results"
	SectionCharts     ReportSection = "charts"
	SectionWarnings   ReportSection = "warnings"
	SectionFailures   ReportSection = "failures"
)

// AllSections returns all report sections in display order.
func AllSections() []ReportSection {
	return []ReportSection{
		SectionSummary,
		SectionResults,
		SectionCharts,
		SectionParameters,
		SectionWarnings,
		SectionFailures,
	}
}

// ReportConfig controls report generation behaviour.
type ReportConfig struct {
	Format   ReportFormat    // output format (default: HTML)
	Sections []ReportSection // sections to include (default: all)
	Title    string          // custom report title (optional)
	Author   string          // author line (optional, default: "riskengine")
	History  []float64       // optional portfolio return history, charted when present
	ChartCfg ChartConfig     // chart rendering config
}

// DefaultReportConfig returns sensible defaults.
func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		Format:   FormatHTML,
		Sections: AllSections(),
		Author:   "riskengine",
		ChartCfg: DefaultChartConfig(),
	}
}

// hasSection returns true if the section is included in the config.
func (rc ReportConfig) hasSection(s ReportSection) bool {
	for _, sec := range rc.Sections {
		if sec == s {
			return true
		}
	}
	return false
}

// ════════════════════════════════════════════════════════════════════
// Report Data — Flattened for template rendering
// ════════════════════════════════════════════════════════════════════

// ReportData is the template model passed to HTML templates. Every numeric
// field is pre-formatted so the template stays free of logic.
type ReportData struct {
	// Header
	Title       string
	Author      string
	GeneratedAt string

	// Summary bar
	PortfolioValue string
	Confidence     string
	Horizon        string
	Window         string
	MethodCount    int

	// Headline: the most conservative estimate across methods
	HeadlineMethod string
	HeadlineVaR    string
	HeadlineES     string
	HeadlinePct    string
	HeadlineClass  string // CSS class: low, elevated, high, severe

	// Tables
	Results    []ResultRow
	Parameters []ParamRow
	Warnings   []string
	Failures   []FailureRow

	// Charts (embedded SVG strings)
	MethodChart  template.HTML
	GaugeChart   template.HTML
	ReturnsChart template.HTML

	// Section visibility flags
	ShowSummary    bool
	ShowResults    bool
	ShowCharts     bool
	ShowParameters bool
	ShowWarnings   bool
	ShowFailures   bool
}

// ResultRow is one method's measures, flattened for rendering.
type ResultRow struct {
	Method       string
	VaR          string
	VaRPct       string
	ES           string
	ESPct        string
	Observations string
	StdErr       string
	SVaR         string
	Ratio        string
	RatioClass   string // CSS class: ok, flag
}

// ParamRow represents a key-value parameter row.
type ParamRow struct {
	Label string
	Value string
}

// FailureRow is one method that could not be estimated.
type FailureRow struct {
	Method string
	Error  string
}

// ════════════════════════════════════════════════════════════════════
// Generate Report
// ════════════════════════════════════════════════════════════════════

// GenerateHTML generates an HTML risk report from a RiskReport.
func GenerateHTML(rep *models.RiskReport, cfg ReportConfig) (string, error) {
	if rep == nil {
		return "", fmt.Errorf("report is nil")
	}

	data := buildReportData(rep, cfg)

	tmpl, err := template.New("report").Parse(ReportTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}

	return buf.String(), nil
}

// GenerateText generates a plain-text risk report (terminal / CLI friendly).
func GenerateText(rep *models.RiskReport, cfg ReportConfig) (string, error) {
	if rep == nil {
		return "", fmt.Errorf("report is nil")
	}

	data := buildReportData(rep, cfg)
	return renderTextReport(data), nil
}

// ════════════════════════════════════════════════════════════════════
// Internal — Build template data
// ════════════════════════════════════════════════════════════════════

func buildReportData(rep *models.RiskReport, cfg ReportConfig) ReportData {
	generated := rep.GeneratedAt
	if generated.IsZero() {
		generated = time.Now().UTC()
	}

	data := ReportData{
		Title:       cfg.Title,
		Author:      cfg.Author,
		GeneratedAt: generated.UTC().Format("02 Jan 2006, 15:04 UTC"),

		PortfolioValue: utils.FormatMoney(rep.PortfolioValue),
		Confidence:     utils.FormatPct(rep.Parameters.Confidence * 100),
		Horizon:        formatDays(rep.Parameters.HorizonDays),
		Window:         formatWindow(rep.Parameters.WindowDays),
		MethodCount:    len(rep.Results) + len(rep.Failures),

		Parameters: buildParamRows(rep.Parameters),

		ShowSummary:    cfg.hasSection(SectionSummary),
		ShowResults:    cfg.hasSection(SectionResults) && len(rep.Results) > 0,
		ShowCharts:     cfg.hasSection(SectionCharts) && len(rep.Results) > 0,
		ShowParameters: cfg.hasSection(SectionParameters),
		ShowFailures:   cfg.hasSection(SectionFailures) && len(rep.Failures) > 0,
	}

	if data.Title == "" {
		data.Title = "Portfolio Risk Report"
	}
	if data.Author == "" {
		data.Author = "riskengine"
	}

	// Result rows, plus the headline: the method reporting the largest VaR.
	headline := -1
	bars := make([]MethodBar, 0, len(rep.Results))
	for i, res := range rep.Results {
		row := ResultRow{
			Method: string(res.Method),
			VaR:    utils.FormatMoney(res.VaR),
			ES:     utils.FormatMoney(res.ES),
		}
		if rep.PortfolioValue > 0 {
			row.VaRPct = utils.FormatPct(res.VaR / rep.PortfolioValue * 100)
			row.ESPct = utils.FormatPct(res.ES / rep.PortfolioValue * 100)
		}
		if res.Observations > 0 {
			row.Observations = fmt.Sprintf("%d", res.Observations)
		}
		if res.StdErr > 0 {
			row.StdErr = utils.FormatMoney(res.StdErr)
		}
		if check, ok := rep.Plausibility[res.Method]; ok && check.SVaR > 0 {
			row.SVaR = utils.FormatMoney(check.SVaR)
			row.Ratio = fmt.Sprintf("%.2f", check.Ratio)
			row.RatioClass = ratioClass(check.Ratio)
		}
		data.Results = append(data.Results, row)
		bars = append(bars, MethodBar{Label: string(res.Method), VaR: res.VaR, ES: res.ES})

		if headline < 0 || res.VaR > rep.Results[headline].VaR {
			headline = i
		}

		for _, w := range res.Warnings {
			data.Warnings = append(data.Warnings, fmt.Sprintf("%s: %s", res.Method, w))
		}
	}
	data.ShowWarnings = cfg.hasSection(SectionWarnings) && len(data.Warnings) > 0

	if headline >= 0 {
		top := rep.Results[headline]
		data.HeadlineMethod = string(top.Method)
		data.HeadlineVaR = utils.FormatMoney(top.VaR)
		data.HeadlineES = utils.FormatMoney(top.ES)
		pct := 0.0
		if rep.PortfolioValue > 0 {
			pct = top.VaR / rep.PortfolioValue * 100
		}
		data.HeadlinePct = utils.FormatPct(pct)
		data.HeadlineClass = headlineClass(pct)
		data.GaugeChart = template.HTML(GaugeChart(pct, "of portfolio value at risk", 180))
	}

	// Failure rows in a stable order: map iteration would shuffle them.
	methods := make([]models.Method, 0, len(rep.Failures))
	for m := range rep.Failures {
		methods = append(methods, m)
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i] < methods[j] })
	for _, m := range methods {
		data.Failures = append(data.Failures, FailureRow{Method: string(m), Error: rep.Failures[m]})
	}

	// Charts
	if len(bars) > 0 {
		chartCfg := cfg.ChartCfg
		chartCfg.Height = 60 + 44*len(bars)
		data.MethodChart = template.HTML(MethodComparisonChart(bars, chartCfg))
	}
	if len(cfg.History) > 0 {
		pcts := make([]float64, len(cfg.History))
		for i, r := range cfg.History {
			pcts[i] = r * 100
		}
		chartCfg := cfg.ChartCfg
		chartCfg.Title = "Portfolio Daily Returns (%)"
		data.ReturnsChart = template.HTML(LineChart([]LineChartSeries{
			{Name: "daily return", Values: pcts, Color: "#2563eb"},
		}, nil, chartCfg))
	}

	return data
}

func buildParamRows(p models.RiskModelParameters) []ParamRow {
	rows := []ParamRow{
		{Label: "Confidence", Value: utils.FormatPct(p.Confidence * 100)},
		{Label: "Horizon", Value: formatDays(p.HorizonDays)},
		{Label: "Window", Value: formatWindow(p.WindowDays)},
		{Label: "Decay λ", Value: fmt.Sprintf("%.2f", p.Lambda)},
		{Label: "PCA Components", Value: fmt.Sprintf("%d", p.Components)},
		{Label: "MC Paths", Value: fmt.Sprintf("%d", p.Paths)},
		{Label: "Seed", Value: fmt.Sprintf("%d", p.Seed)},
		{Label: "Antithetic", Value: fmt.Sprintf("%t", p.Antithetic)},
		{Label: "Delta-Gamma", Value: fmt.Sprintf("%t", p.DeltaGamma)},
	}
	if p.Workers > 0 {
		rows = append(rows, ParamRow{Label: "Workers", Value: fmt.Sprintf("%d", p.Workers)})
	}
	return rows
}

// ratioClass flags plausibility ratios far from 1: the stressed proxy is an
// order-of-magnitude yardstick, so a factor of 2 either way earns a look.
func ratioClass(ratio float64) string {
	if ratio >= 0.5 && ratio <= 2 {
		return "ok"
	}
	return "flag"
}

func headlineClass(pct float64) string {
	switch {
	case pct < 5:
		return "low"
	case pct < 15:
		return "elevated"
	case pct < 30:
		return "high"
	default:
		return "severe"
	}
}

func formatDays(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

func formatWindow(days int) string {
	if days == 0 {
		return "full history"
	}
	return formatDays(days)
}

// ════════════════════════════════════════════════════════════════════
// Plain-text renderer
// ════════════════════════════════════════════════════════════════════

func renderTextReport(d ReportData) string {
	var sb strings.Builder
	line := strings.Repeat("═", 78)
	thinLine := strings.Repeat("─", 78)

	sb.WriteString("\n" + line + "\n")
	sb.WriteString(fmt.Sprintf("  %s\n", d.Title))
	sb.WriteString(fmt.Sprintf("  Generated: %s | %s\n", d.GeneratedAt, d.Author))
	sb.WriteString(line + "\n\n")

	if d.ShowSummary {
		sb.WriteString(fmt.Sprintf("  Portfolio Value: %s\n", d.PortfolioValue))
		sb.WriteString(fmt.Sprintf("  Confidence: %s | Horizon: %s | Window: %s\n",
			d.Confidence, d.Horizon, d.Window))
		if d.HeadlineMethod != "" {
			sb.WriteString(fmt.Sprintf("  Worst-case VaR: %s (%s, %s of value)\n",
				d.HeadlineVaR, d.HeadlineMethod, d.HeadlinePct))
		}
		sb.WriteString(thinLine + "\n")
	}

	if d.ShowResults {
		sb.WriteString("\n  ■ RISK MEASURES\n")
		sb.WriteString(fmt.Sprintf("  %-20s %14s %9s %14s %9s %8s\n",
			"METHOD", "VaR", "% VALUE", "ES", "% VALUE", "OBS"))
		for _, r := range d.Results {
			sb.WriteString(fmt.Sprintf("  %-20s %14s %9s %14s %9s %8s\n",
				r.Method, r.VaR, r.VaRPct, r.ES, r.ESPct, r.Observations))
		}
		sb.WriteString(thinLine + "\n")

		hasPlausibility := false
		for _, r := range d.Results {
			if r.SVaR != "" {
				hasPlausibility = true
				break
			}
		}
		if hasPlausibility {
			sb.WriteString("\n  ■ PLAUSIBILITY (vs stressed proxy)\n")
			for _, r := range d.Results {
				if r.SVaR == "" {
					continue
				}
				marker := ""
				if r.RatioClass == "flag" {
					marker = "  ← review"
				}
				sb.WriteString(fmt.Sprintf("  %-20s sVaR %14s   ratio %s%s\n",
					r.Method, r.SVaR, r.Ratio, marker))
			}
			sb.WriteString(thinLine + "\n")
		}
	}

	if d.ShowParameters {
		sb.WriteString("\n  ■ PARAMETERS\n")
		for _, p := range d.Parameters {
			sb.WriteString(fmt.Sprintf("    %-18s %s\n", p.Label, p.Value))
		}
		sb.WriteString(thinLine + "\n")
	}

	if d.ShowWarnings {
		sb.WriteString("\n  ■ WARNINGS\n")
		for _, w := range d.Warnings {
			sb.WriteString(fmt.Sprintf("    · %s\n", w))
		}
		sb.WriteString(thinLine + "\n")
	}

	if d.ShowFailures {
		sb.WriteString("\n  ■ FAILED METHODS\n")
		for _, f := range d.Failures {
			sb.WriteString(fmt.Sprintf("    [%s] %s\n", f.Method, f.Error))
		}
		sb.WriteString(thinLine + "\n")
	}

	sb.WriteString("\n" + line + "\n")
	sb.WriteString("  Figures are model estimates from historical data, not guarantees of\n")
	sb.WriteString("  future losses. Review the methodology assumptions before relying on them.\n")
	sb.WriteString(line + "\n")

	return sb.String()
}

// ════════════════════════════════════════════════════════════════════
// Utility: Timestamp
// ════════════════════════════════════════════════════════════════════

// ReportTimestamp returns the current UTC time formatted for report headers.
func ReportTimestamp() string {
	return time.Now().UTC().Format("02 Jan 2006, 15:04 UTC")
}

// FormatDuration formats a duration for display.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}
