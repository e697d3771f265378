package report

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Test Helpers
// ════════════════════════════════════════════════════════════════════

func sampleReport() *models.RiskReport {
	computed := time.Date(2026, 3, 10, 17, 30, 0, 0, time.UTC)
	return &models.RiskReport{
		PortfolioValue: 500000,
		Parameters: models.RiskModelParameters{
			Confidence:  0.99,
			HorizonDays: 1,
			Lambda:      0.95,
			WindowDays:  750,
			Components:  2,
			Paths:       10000,
			Seed:        42,
			Antithetic:  true,
		},
		Results: []models.RiskMeasureResult{
			{
				Method:       models.MethodGaussian,
				VaR:          23500,
				ES:           26900,
				Confidence:   0.99,
				HorizonDays:  1,
				Observations: 750,
				ComputedAt:   computed,
			},
			{
				Method:       models.MethodHistorical,
				VaR:          41250,
				ES:           48300,
				Confidence:   0.99,
				HorizonDays:  1,
				Observations: 750,
				ComputedAt:   computed,
			},
			{
				Method:       models.MethodMonteCarlo,
				VaR:          24100,
				ES:           27500,
				Confidence:   0.99,
				HorizonDays:  1,
				Observations: 10000,
				StdErr:       320,
				Warnings:     []string{"sqrt-of-time scaling applied for multi-day horizon"},
				ComputedAt:   computed,
			},
			{
				Method:      models.MethodDeltaNormal,
				VaR:         22900,
				ES:          26200,
				Confidence:  0.99,
				HorizonDays: 1,
				ComputedAt:  computed,
			},
		},
		Plausibility: map[models.Method]models.PlausibilityCheck{
			models.MethodGaussian:   {SVaR: 30000, Ratio: 0.78},
			models.MethodHistorical: {SVaR: 12000, Ratio: 3.44},
		},
		Failures: map[models.Method]string{
			models.MethodPCA:       "insufficient data for pca: need 30 observations, got 12",
			models.MethodBootstrap: "insufficient data for bootstrap: need 30 observations, got 12",
		},
		GeneratedAt: computed,
	}
}

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing report HTML: %v", err)
	}
	return doc
}

// ════════════════════════════════════════════════════════════════════
// Chart Tests
// ════════════════════════════════════════════════════════════════════

func TestMethodComparisonChart_Basic(t *testing.T) {
	items := []MethodBar{
		{Label: "gaussian", VaR: 23500, ES: 26900},
		{Label: "historical", VaR: 41250, ES: 48300},
		{Label: "monte_carlo", VaR: 24100, ES: 27500},
	}

	cfg := DefaultChartConfig()
	svg := MethodComparisonChart(items, cfg)

	if !strings.Contains(svg, "VaR / ES by Method") {
		t.Error("expected default title")
	}
	for _, label := range []string{"gaussian", "historical", "monte_carlo"} {
		if !strings.Contains(svg, label) {
			t.Errorf("expected label %q in chart", label)
		}
	}
	// Two legend entries
	if !strings.Contains(svg, ">VaR<") || !strings.Contains(svg, ">ES<") {
		t.Error("expected VaR and ES legend entries")
	}
}

func TestMethodComparisonChart_NegativeVaR(t *testing.T) {
	// A book whose expected gain outweighs its tail can report negative VaR.
	items := []MethodBar{
		{Label: "gaussian", VaR: -1200, ES: 400},
		{Label: "historical", VaR: 800, ES: 1500},
	}
	svg := MethodComparisonChart(items, DefaultChartConfig())
	if !strings.Contains(svg, "line") {
		t.Error("expected zero line for mixed-sign values")
	}
	if !strings.Contains(svg, "gaussian") {
		t.Error("expected method label")
	}
}

func TestMethodComparisonChart_Empty(t *testing.T) {
	svg := MethodComparisonChart(nil, DefaultChartConfig())
	if !strings.Contains(svg, "No results") {
		t.Error("expected empty message")
	}
}

func TestMethodComparisonChart_AllZero(t *testing.T) {
	items := []MethodBar{{Label: "gaussian", VaR: 0, ES: 0}}
	svg := MethodComparisonChart(items, DefaultChartConfig())
	if !strings.Contains(svg, "<svg") {
		t.Error("expected valid SVG even for all-zero values")
	}
	if strings.Contains(svg, "NaN") {
		t.Error("unexpected NaN coordinates in SVG")
	}
}

func TestLineChart_Basic(t *testing.T) {
	series := []LineChartSeries{
		{Name: "daily return", Values: []float64{0.4, -1.1, 0.8, 2.3, -0.6}, Color: "#2563eb"},
		{Name: "benchmark", Values: []float64{0.2, -0.9, 0.5, 1.8, -0.4}, Color: "#ea580c"},
	}
	labels := []string{"Mon", "Tue", "Wed", "Thu", "Fri"}

	cfg := DefaultChartConfig()
	cfg.Title = "Portfolio Daily Returns (%)"

	svg := LineChart(series, labels, cfg)
	if !strings.Contains(svg, "Portfolio Daily Returns") {
		t.Error("expected title")
	}
	if !strings.Contains(svg, "daily return") {
		t.Error("expected series name in legend")
	}
	if !strings.Contains(svg, "benchmark") {
		t.Error("expected second series name")
	}
}

func TestLineChart_Empty(t *testing.T) {
	svg := LineChart(nil, nil, DefaultChartConfig())
	if !strings.Contains(svg, "No data") {
		t.Error("expected empty message")
	}
}

func TestLineChart_SinglePoint(t *testing.T) {
	series := []LineChartSeries{{Name: "A", Values: []float64{42}}}
	svg := LineChart(series, nil, DefaultChartConfig())
	if !strings.Contains(svg, "<svg") {
		t.Error("expected SVG for single point")
	}
	if strings.Contains(svg, "NaN") {
		t.Error("unexpected NaN coordinates for single-point series")
	}
}

func TestLineChart_NaN(t *testing.T) {
	series := []LineChartSeries{
		{Name: "Test", Values: []float64{10, math.NaN(), 20, math.NaN(), 30}},
	}
	svg := LineChart(series, nil, DefaultChartConfig())
	if !strings.Contains(svg, "path") {
		t.Error("expected path even with NaN values")
	}
}

func TestGaugeChart_Values(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		label string
	}{
		{"low", 2.5, "of portfolio value at risk"},
		{"elevated", 8.2, "of portfolio value at risk"},
		{"high", 22, "of portfolio value at risk"},
		{"severe", 45, "of portfolio value at risk"},
		{"clamped_zero", -10, "Below Zero"},
		{"clamped_max", 150, "Above Max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svg := GaugeChart(tt.value, tt.label, 200)
			if !strings.Contains(svg, "<svg") {
				t.Error("expected SVG output")
			}
			if !strings.Contains(svg, tt.label) {
				t.Errorf("expected label '%s' in output", tt.label)
			}
		})
	}
}

func TestGaugeChart_ZeroWidth(t *testing.T) {
	svg := GaugeChart(50, "Test", 0)
	if !strings.Contains(svg, "<svg") {
		t.Error("expected SVG with auto-width")
	}
}

// ════════════════════════════════════════════════════════════════════
// Report Generator Tests
// ════════════════════════════════════════════════════════════════════

func TestGenerateHTML_Basic(t *testing.T) {
	rep := sampleReport()
	cfg := DefaultReportConfig()

	html, err := GenerateHTML(rep, cfg)
	if err != nil {
		t.Fatalf("GenerateHTML failed: %v", err)
	}

	checks := []struct {
		name   string
		substr string
	}{
		{"html tag", "<html"},
		{"default title", "Portfolio Risk Report"},
		{"portfolio value", "500,000.00"},
		{"confidence", "99.00%"},
		{"headline var", "41,250.00"},
		{"headline method", "historical"},
		{"results section", "Risk Measures"},
		{"parameters section", "Model Parameters"},
		{"failures section", "Failed Methods"},
		{"failure text", "insufficient data for pca"},
		{"warning text", "sqrt-of-time"},
		{"disclaimer", "Disclaimer"},
		{"CSS", "font-family"},
		{"ratio badge", "ratio-badge"},
	}

	for _, c := range checks {
		t.Run(c.name, func(t *testing.T) {
			if !strings.Contains(html, c.substr) {
				t.Errorf("expected '%s' in HTML output", c.substr)
			}
		})
	}
}

func TestGenerateHTML_Structure(t *testing.T) {
	rep := sampleReport()
	html, err := GenerateHTML(rep, DefaultReportConfig())
	if err != nil {
		t.Fatalf("GenerateHTML failed: %v", err)
	}
	doc := parseHTML(t, html)

	if n := doc.Find("table.results tbody tr").Length(); n != 4 {
		t.Errorf("expected 4 result rows, got %d", n)
	}
	if n := doc.Find("table.results thead th").Length(); n != 9 {
		t.Errorf("expected 9 result columns, got %d", n)
	}
	if n := doc.Find(".summary-bar .summary-item").Length(); n != 4 {
		t.Errorf("expected 4 summary items, got %d", n)
	}
	if n := doc.Find(".headline").Length(); n != 1 {
		t.Fatalf("expected 1 headline box, got %d", n)
	}
	// 41,250 of 500,000 is 8.25% — elevated band
	if !doc.Find(".headline").HasClass("elevated") {
		cls, _ := doc.Find(".headline").Attr("class")
		t.Errorf("expected elevated headline class, got %q", cls)
	}
	if n := doc.Find(".param-grid .param-card").Length(); n != 9 {
		t.Errorf("expected 9 parameter cards, got %d", n)
	}
	if n := doc.Find("table.failures tbody tr").Length(); n != 2 {
		t.Errorf("expected 2 failure rows, got %d", n)
	}
	// Failures sort by method name for stable output
	first := doc.Find("table.failures tbody tr").First().Find("td").First().Text()
	if first != "bootstrap" {
		t.Errorf("expected bootstrap failure first, got %q", first)
	}
}

func TestGenerateHTML_RatioBadges(t *testing.T) {
	rep := sampleReport()
	html, err := GenerateHTML(rep, DefaultReportConfig())
	if err != nil {
		t.Fatalf("GenerateHTML failed: %v", err)
	}
	doc := parseHTML(t, html)

	if n := doc.Find(".ratio-badge.ok").Length(); n != 1 {
		t.Errorf("expected 1 ok ratio badge, got %d", n)
	}
	if n := doc.Find(".ratio-badge.flag").Length(); n != 1 {
		t.Errorf("expected 1 flagged ratio badge, got %d", n)
	}
	flagged := doc.Find(".ratio-badge.flag").Text()
	if flagged != "3.44" {
		t.Errorf("expected flagged ratio 3.44, got %q", flagged)
	}
}

func TestGenerateHTML_EmbeddedCharts(t *testing.T) {
	rep := sampleReport()
	cfg := DefaultReportConfig()
	cfg.History = []float64{0.004, -0.011, 0.008, 0.023, -0.006}

	html, err := GenerateHTML(rep, cfg)
	if err != nil {
		t.Fatalf("GenerateHTML failed: %v", err)
	}

	// Method comparison + returns history + headline gauge
	if n := strings.Count(html, "<svg"); n < 3 {
		t.Errorf("expected at least 3 embedded SVG charts, found %d", n)
	}
	doc := parseHTML(t, html)
	if n := doc.Find(".chart-container").Length(); n != 2 {
		t.Errorf("expected 2 chart containers, got %d", n)
	}
	if n := doc.Find(".gauge-inline").Length(); n != 1 {
		t.Errorf("expected inline gauge in headline, got %d", n)
	}
}

func TestGenerateHTML_NilReport(t *testing.T) {
	_, err := GenerateHTML(nil, DefaultReportConfig())
	if err == nil {
		t.Error("expected error for nil report")
	}
}

func TestGenerateHTML_MinimalReport(t *testing.T) {
	rep := &models.RiskReport{
		PortfolioValue: 100000,
		Parameters:     models.DefaultRiskModelParameters(),
		Results: []models.RiskMeasureResult{
			{Method: models.MethodGaussian, VaR: 5000, ES: 6000, Confidence: 0.99, HorizonDays: 1},
		},
	}

	html, err := GenerateHTML(rep, DefaultReportConfig())
	if err != nil {
		t.Fatalf("GenerateHTML failed: %v", err)
	}
	if !strings.Contains(html, "gaussian") {
		t.Error("expected method name in output")
	}
	doc := parseHTML(t, html)
	if n := doc.Find("table.failures").Length(); n != 0 {
		t.Error("did not expect failures table with no failures")
	}
	if n := doc.Find(".warning-list").Length(); n != 0 {
		t.Error("did not expect warnings list with no warnings")
	}
}

func TestGenerateHTML_SelectedSections(t *testing.T) {
	rep := sampleReport()
	cfg := DefaultReportConfig()
	cfg.Sections = []ReportSection{SectionSummary, SectionResults}

	html, err := GenerateHTML(rep, cfg)
	if err != nil {
		t.Fatalf("GenerateHTML failed: %v", err)
	}

	if !strings.Contains(html, "Risk Measures") {
		t.Error("expected results section")
	}
	if strings.Contains(html, "Model Parameters") {
		t.Error("did not expect parameters section when not selected")
	}
	if strings.Contains(html, "Failed Methods") {
		t.Error("did not expect failures section when not selected")
	}
}

func TestGenerateHTML_CustomTitle(t *testing.T) {
	rep := sampleReport()
	cfg := DefaultReportConfig()
	cfg.Title = "Equity Book — Overnight Risk"

	html, err := GenerateHTML(rep, cfg)
	if err != nil {
		t.Fatalf("GenerateHTML failed: %v", err)
	}
	if !strings.Contains(html, "Equity Book") {
		t.Error("expected custom title in HTML")
	}
}

func TestGenerateText_Basic(t *testing.T) {
	rep := sampleReport()
	cfg := DefaultReportConfig()

	text, err := GenerateText(rep, cfg)
	if err != nil {
		t.Fatalf("GenerateText failed: %v", err)
	}

	checks := []string{
		"Portfolio Risk Report",
		"500,000.00",
		"RISK MEASURES",
		"PLAUSIBILITY",
		"PARAMETERS",
		"WARNINGS",
		"FAILED METHODS",
		"gaussian",
		"historical",
		"Worst-case VaR",
		"← review",
		"model estimates",
	}

	for _, c := range checks {
		if !strings.Contains(text, c) {
			t.Errorf("expected '%s' in text report", c)
		}
	}
}

func TestGenerateText_NilReport(t *testing.T) {
	_, err := GenerateText(nil, DefaultReportConfig())
	if err == nil {
		t.Error("expected error for nil report")
	}
}

func TestGenerateText_MinimalReport(t *testing.T) {
	rep := &models.RiskReport{
		PortfolioValue: 100000,
		Parameters:     models.DefaultRiskModelParameters(),
		Results: []models.RiskMeasureResult{
			{Method: models.MethodDeltaNormal, VaR: 4100, ES: 4700, Confidence: 0.99, HorizonDays: 1},
		},
	}

	text, err := GenerateText(rep, DefaultReportConfig())
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if !strings.Contains(text, "delta_normal") {
		t.Error("expected method name")
	}
	if strings.Contains(text, "FAILED METHODS") {
		t.Error("did not expect failures section with no failures")
	}
	if strings.Contains(text, "PLAUSIBILITY") {
		t.Error("did not expect plausibility section without checks")
	}
}

// ════════════════════════════════════════════════════════════════════
// Report Config Tests
// ════════════════════════════════════════════════════════════════════

func TestDefaultReportConfig(t *testing.T) {
	cfg := DefaultReportConfig()
	if cfg.Format != FormatHTML {
		t.Errorf("expected HTML format, got %s", cfg.Format)
	}
	if cfg.Author != "riskengine" {
		t.Errorf("expected default author, got %s", cfg.Author)
	}
	if len(cfg.Sections) != 6 {
		t.Errorf("expected 6 sections, got %d", len(cfg.Sections))
	}
}

func TestHasSection(t *testing.T) {
	cfg := DefaultReportConfig()
	if !cfg.hasSection(SectionResults) {
		t.Error("expected results section in default config")
	}

	cfg.Sections = []ReportSection{SectionSummary}
	if cfg.hasSection(SectionResults) {
		t.Error("did not expect results section with only summary")
	}
	if !cfg.hasSection(SectionSummary) {
		t.Error("expected summary section")
	}
}

func TestAllSections(t *testing.T) {
	sections := AllSections()
	if len(sections) != 6 {
		t.Errorf("expected 6 sections, got %d", len(sections))
	}
	seen := make(map[ReportSection]bool)
	for _, s := range sections {
		if seen[s] {
			t.Errorf("duplicate section: %s", s)
		}
		seen[s] = true
	}
}

// ════════════════════════════════════════════════════════════════════
// Data Building Tests
// ════════════════════════════════════════════════════════════════════

func TestBuildReportData_HeadlineIsWorstVaR(t *testing.T) {
	rep := sampleReport()
	data := buildReportData(rep, DefaultReportConfig())

	if data.HeadlineMethod != "historical" {
		t.Errorf("expected historical as worst-case method, got %s", data.HeadlineMethod)
	}
	if data.HeadlineVaR != "41,250.00" {
		t.Errorf("unexpected headline VaR: %s", data.HeadlineVaR)
	}
	if data.HeadlinePct != "8.25%" {
		t.Errorf("unexpected headline pct: %s", data.HeadlinePct)
	}
	if data.HeadlineClass != "elevated" {
		t.Errorf("unexpected headline class: %s", data.HeadlineClass)
	}
}

func TestBuildReportData_ZeroPortfolioValue(t *testing.T) {
	rep := sampleReport()
	rep.PortfolioValue = 0
	data := buildReportData(rep, DefaultReportConfig())

	for _, row := range data.Results {
		if row.VaRPct != "" || row.ESPct != "" {
			t.Errorf("expected empty percent columns for zero portfolio value, got %q / %q",
				row.VaRPct, row.ESPct)
		}
	}
}

func TestBuildReportData_WarningsCarryMethodName(t *testing.T) {
	rep := sampleReport()
	data := buildReportData(rep, DefaultReportConfig())

	if len(data.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(data.Warnings))
	}
	if !strings.HasPrefix(data.Warnings[0], "monte_carlo: ") {
		t.Errorf("expected method prefix on warning, got %q", data.Warnings[0])
	}
}

func TestBuildReportData_FailuresSorted(t *testing.T) {
	rep := sampleReport()
	data := buildReportData(rep, DefaultReportConfig())

	if len(data.Failures) != 2 {
		t.Fatalf("expected 2 failures, got %d", len(data.Failures))
	}
	if data.Failures[0].Method != "bootstrap" || data.Failures[1].Method != "pca" {
		t.Errorf("expected failures sorted by method, got %s then %s",
			data.Failures[0].Method, data.Failures[1].Method)
	}
}

func TestRatioClass(t *testing.T) {
	tests := []struct {
		ratio    float64
		expected string
	}{
		{0.49, "flag"},
		{0.5, "ok"},
		{1.0, "ok"},
		{2.0, "ok"},
		{2.01, "flag"},
		{3.44, "flag"},
	}

	for _, tt := range tests {
		if got := ratioClass(tt.ratio); got != tt.expected {
			t.Errorf("ratioClass(%v) = %s, want %s", tt.ratio, got, tt.expected)
		}
	}
}

func TestHeadlineClass(t *testing.T) {
	tests := []struct {
		pct      float64
		expected string
	}{
		{2, "low"},
		{4.99, "low"},
		{5, "elevated"},
		{14.9, "elevated"},
		{15, "high"},
		{29.9, "high"},
		{30, "severe"},
		{55, "severe"},
	}

	for _, tt := range tests {
		if got := headlineClass(tt.pct); got != tt.expected {
			t.Errorf("headlineClass(%v) = %s, want %s", tt.pct, got, tt.expected)
		}
	}
}

func TestFormatDays(t *testing.T) {
	if got := formatDays(1); got != "1 day" {
		t.Errorf("formatDays(1) = %s", got)
	}
	if got := formatDays(10); got != "10 days" {
		t.Errorf("formatDays(10) = %s", got)
	}
	if got := formatWindow(0); got != "full history" {
		t.Errorf("formatWindow(0) = %s", got)
	}
	if got := formatWindow(250); got != "250 days" {
		t.Errorf("formatWindow(250) = %s", got)
	}
}

// ════════════════════════════════════════════════════════════════════
// PDF Tests
// ════════════════════════════════════════════════════════════════════

func TestDetectPDFEngine(t *testing.T) {
	engine := DetectPDFEngine()
	switch engine {
	case EngineWKHTML, EngineChromium, EngineNone:
		// OK
	default:
		t.Errorf("unexpected engine: %s", engine)
	}
}

func TestIsPDFSupported(t *testing.T) {
	_ = IsPDFSupported()
}

func TestGeneratePDF_NoOutputPath(t *testing.T) {
	err := GeneratePDF("<html></html>", PDFConfig{})
	if err == nil {
		t.Error("expected error for empty output path")
	}
}

func TestGeneratePDF_HTMLFallback(t *testing.T) {
	tmpDir := t.TempDir()
	outPath := filepath.Join(tmpDir, "risk.pdf")

	// Force the fallback path regardless of what is installed locally.
	err := writeHTMLFallback("<html><body>Risk Report</body></html>", outPath)
	if err != nil {
		t.Fatalf("fallback failed: %v", err)
	}

	htmlPath := filepath.Join(tmpDir, "risk.html")
	data, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("reading fallback file: %v", err)
	}
	if !strings.Contains(string(data), "Risk Report") {
		t.Error("fallback HTML content mismatch")
	}
}

func TestDefaultPDFConfig(t *testing.T) {
	cfg := DefaultPDFConfig()
	if cfg.PageSize != "A4" {
		t.Errorf("expected A4, got %s", cfg.PageSize)
	}
	if cfg.Orientation != "portrait" {
		t.Errorf("expected portrait, got %s", cfg.Orientation)
	}
}

func TestWriteTempHTML_UniqueNames(t *testing.T) {
	a, err := writeTempHTML("<html>a</html>")
	if err != nil {
		t.Fatalf("writeTempHTML: %v", err)
	}
	defer os.Remove(a)
	b, err := writeTempHTML("<html>b</html>")
	if err != nil {
		t.Fatalf("writeTempHTML: %v", err)
	}
	defer os.Remove(b)
	if a == b {
		t.Error("expected distinct temp files for concurrent renders")
	}
}

// ════════════════════════════════════════════════════════════════════
// Utility Tests
// ════════════════════════════════════════════════════════════════════

func TestReportTimestamp(t *testing.T) {
	ts := ReportTimestamp()
	if ts == "" {
		t.Error("expected non-empty timestamp")
	}
	if !strings.Contains(ts, "UTC") {
		t.Errorf("expected UTC in timestamp, got %s", ts)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input    time.Duration
		contains string
	}{
		{5 * time.Second, "s"},
		{3 * time.Minute, "m"},
		{2 * time.Hour, "h"},
	}

	for _, tt := range tests {
		result := FormatDuration(tt.input)
		if !strings.Contains(result, tt.contains) {
			t.Errorf("FormatDuration(%v) = %s, expected to contain '%s'", tt.input, result, tt.contains)
		}
	}
}

func TestEscapeXML(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello", "hello"},
		{"a & b", "a &amp; b"},
		{"<b>test</b>", "&lt;b&gt;test&lt;/b&gt;"},
		{`"quoted"`, "&quot;quoted&quot;"},
	}

	for _, tt := range tests {
		result := escapeXML(tt.input)
		if result != tt.expected {
			t.Errorf("escapeXML(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestDefaultChartConfig(t *testing.T) {
	cfg := DefaultChartConfig()
	if cfg.Width != 800 {
		t.Errorf("expected width 800, got %d", cfg.Width)
	}
	if cfg.Height != 400 {
		t.Errorf("expected height 400, got %d", cfg.Height)
	}
	if cfg.BgColor != "#ffffff" {
		t.Errorf("expected white bg, got %s", cfg.BgColor)
	}
}

func TestPlotArea(t *testing.T) {
	cfg := DefaultChartConfig()
	x, y, w, h := cfg.plotArea()
	if x != cfg.MarginLeft {
		t.Errorf("expected x=%d, got %d", cfg.MarginLeft, x)
	}
	if y != cfg.MarginTop {
		t.Errorf("expected y=%d, got %d", cfg.MarginTop, y)
	}
	expectedW := cfg.Width - cfg.MarginLeft - cfg.MarginRight
	if w != expectedW {
		t.Errorf("expected w=%d, got %d", expectedW, w)
	}
	expectedH := cfg.Height - cfg.MarginTop - cfg.MarginBottom
	if h != expectedH {
		t.Errorf("expected h=%d, got %d", expectedH, h)
	}
}

func TestEmptySVG(t *testing.T) {
	svg := emptySVG(ChartConfig{}, "Test message")
	if !strings.Contains(svg, "Test message") {
		t.Error("expected message in empty SVG")
	}
	if !strings.Contains(svg, "<svg") {
		t.Error("expected valid SVG")
	}
}

// ════════════════════════════════════════════════════════════════════
// Integration: Full Report Pipeline
// ════════════════════════════════════════════════════════════════════

func TestFullReportPipeline_HTML(t *testing.T) {
	rep := sampleReport()
	cfg := DefaultReportConfig()
	cfg.History = []float64{0.004, -0.011, 0.008, 0.023, -0.006, 0.001, -0.003}

	html, err := GenerateHTML(rep, cfg)
	if err != nil {
		t.Fatalf("GenerateHTML: %v", err)
	}

	if !strings.Contains(html, "<!DOCTYPE html>") {
		t.Error("expected DOCTYPE")
	}
	if !strings.Contains(html, "</html>") {
		t.Error("expected closing HTML tag")
	}

	sections := []string{
		"Risk Measures", "Method Comparison",
		"Model Parameters", "Warnings", "Failed Methods",
	}
	for _, s := range sections {
		if !strings.Contains(html, s) {
			t.Errorf("missing section: %s", s)
		}
	}

	svgCount := strings.Count(html, "<svg")
	if svgCount < 3 {
		t.Errorf("expected at least 3 SVG charts, found %d", svgCount)
	}
}

func TestFullReportPipeline_Text(t *testing.T) {
	rep := sampleReport()
	cfg := DefaultReportConfig()

	text, err := GenerateText(rep, cfg)
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}

	if !strings.Contains(text, "═") {
		t.Error("expected section separators")
	}
	if !strings.Contains(text, "■ RISK MEASURES") {
		t.Error("expected risk measures section")
	}
	if !strings.Contains(text, "■ PLAUSIBILITY") {
		t.Error("expected plausibility section")
	}
}

func TestFullReportPipeline_WriteToDisk(t *testing.T) {
	rep := sampleReport()
	cfg := DefaultReportConfig()

	html, err := GenerateHTML(rep, cfg)
	if err != nil {
		t.Fatalf("GenerateHTML: %v", err)
	}

	tmpDir := t.TempDir()
	outPath := filepath.Join(tmpDir, "report.html")
	if err := os.WriteFile(outPath, []byte(html), 0644); err != nil {
		t.Fatalf("writing report: %v", err)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		t.Fatalf("stat report file: %v", err)
	}
	if info.Size() < 1000 {
		t.Errorf("report file suspiciously small: %d bytes", info.Size())
	}
}
