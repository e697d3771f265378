package report

// ReportTemplate is the HTML template for the risk report.
// It is embedded as a Go constant — no external file dependencies.
const ReportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
  :root {
    --bg: #ffffff;
    --text: #1a1a2e;
    --muted: #6b7280;
    --border: #e5e7eb;
    --accent: #2563eb;
    --green: #16a34a;
    --red: #dc2626;
    --orange: #ea580c;
    --section-bg: #f8fafc;
  }
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    color: var(--text);
    background: var(--bg);
    line-height: 1.6;
    max-width: 900px;
    margin: 0 auto;
    padding: 20px;
  }
  h1, h2, h3, h4 { font-weight: 600; }
  h1 { font-size: 1.5rem; margin-bottom: 4px; }
  h2 { font-size: 1.2rem; margin: 24px 0 12px; padding-bottom: 6px; border-bottom: 2px solid var(--accent); }
  h3 { font-size: 1rem; margin: 16px 0 8px; }
  p { margin: 6px 0; }
  .muted { color: var(--muted); font-size: 0.85rem; }

  /* Header */
  .header {
    display: flex;
    justify-content: space-between;
    align-items: flex-start;
    border-bottom: 3px solid var(--accent);
    padding-bottom: 12px;
    margin-bottom: 16px;
  }
  .header-left h1 { color: var(--accent); }
  .header-right { text-align: right; }

  /* Summary bar */
  .summary-bar {
    display: grid;
    grid-template-columns: repeat(auto-fill, minmax(160px, 1fr));
    gap: 8px;
    background: var(--section-bg);
    padding: 12px;
    border-radius: 8px;
    margin-bottom: 16px;
  }
  .summary-item { text-align: center; }
  .summary-item .label { font-size: 0.75rem; color: var(--muted); text-transform: uppercase; }
  .summary-item .value { font-size: 1rem; font-weight: 600; }

  /* Headline box */
  .headline {
    display: flex;
    align-items: center;
    gap: 16px;
    padding: 16px;
    border-radius: 8px;
    margin: 12px 0;
  }
  .headline.low { background: #dcfce7; border-left: 5px solid var(--green); }
  .headline.elevated { background: #fefce8; border-left: 5px solid #eab308; }
  .headline.high { background: #fff7ed; border-left: 5px solid var(--orange); }
  .headline.severe { background: #fef2f2; border-left: 5px solid var(--red); }
  .headline-var { font-size: 1.4rem; font-weight: 700; }
  .headline.low .headline-var { color: var(--green); }
  .headline.elevated .headline-var { color: #eab308; }
  .headline.high .headline-var { color: var(--orange); }
  .headline.severe .headline-var { color: var(--red); }

  /* Results table */
  table { width: 100%; border-collapse: collapse; margin: 8px 0 16px; font-size: 0.9rem; }
  th { background: var(--section-bg); text-align: left; padding: 8px; font-weight: 600; }
  td { padding: 8px; border-bottom: 1px solid var(--border); }
  td.num, th.num { text-align: right; font-variant-numeric: tabular-nums; }
  .ratio-badge {
    display: inline-block;
    padding: 1px 8px;
    border-radius: 3px;
    font-size: 0.8rem;
    font-weight: 600;
  }
  .ratio-badge.ok { background: #dcfce7; color: var(--green); }
  .ratio-badge.flag { background: #fef2f2; color: var(--red); }

  /* Parameter grid */
  .param-grid {
    display: grid;
    grid-template-columns: repeat(auto-fill, minmax(180px, 1fr));
    gap: 8px;
    margin: 10px 0 16px;
  }
  .param-card {
    background: var(--section-bg);
    padding: 8px 12px;
    border-radius: 6px;
    display: flex;
    justify-content: space-between;
  }
  .param-card .label { color: var(--muted); font-size: 0.85rem; }
  .param-card .value { font-weight: 600; }

  /* Chart container */
  .chart-container {
    margin: 12px 0;
    overflow-x: auto;
  }
  .chart-container svg { max-width: 100%; height: auto; }

  /* Section */
  .section { margin: 20px 0; }
  .warning-list { margin: 8px 0 16px 20px; font-size: 0.9rem; }
  .warning-list li { margin: 4px 0; }

  /* Footer */
  .footer {
    margin-top: 30px;
    padding-top: 12px;
    border-top: 2px solid var(--border);
    font-size: 0.8rem;
    color: var(--muted);
    text-align: center;
  }

  /* Gauge inline */
  .gauge-inline { display: flex; align-items: center; gap: 12px; }
  .gauge-inline svg { flex-shrink: 0; }

  @media print {
    body { max-width: 100%; padding: 10px; }
    .section { page-break-inside: avoid; }
  }
</style>
</head>
<body>

<!-- ═══════ HEADER ═══════ -->
<div class="header">
  <div class="header-left">
    <h1>{{.Title}}</h1>
    <p class="muted">Value-at-Risk &amp; Expected Shortfall · {{.MethodCount}} methods</p>
  </div>
  <div class="header-right">
    <p class="muted">{{.GeneratedAt}}</p>
    <p class="muted">{{.Author}}</p>
  </div>
</div>

<!-- ═══════ SUMMARY BAR ═══════ -->
{{if .ShowSummary}}
<div class="summary-bar">
  <div class="summary-item">
    <div class="label">Portfolio Value</div>
    <div class="value">{{.PortfolioValue}}</div>
  </div>
  <div class="summary-item">
    <div class="label">Confidence</div>
    <div class="value">{{.Confidence}}</div>
  </div>
  <div class="summary-item">
    <div class="label">Horizon</div>
    <div class="value">{{.Horizon}}</div>
  </div>
  <div class="summary-item">
    <div class="label">Window</div>
    <div class="value">{{.Window}}</div>
  </div>
</div>

{{if .HeadlineMethod}}
<div class="headline {{.HeadlineClass}}">
  <div>
    <div class="headline-var">VaR {{.HeadlineVaR}}</div>
    <div class="muted">Worst case across methods ({{.HeadlineMethod}}) · ES {{.HeadlineES}} · {{.HeadlinePct}} of value</div>
  </div>
  <div class="gauge-inline">{{.GaugeChart}}</div>
</div>
{{end}}
{{end}}

<!-- ═══════ RESULTS ═══════ -->
{{if .ShowResults}}
<div class="section">
  <h2>Risk Measures</h2>
  <table class="results">
    <thead><tr>
      <th>Method</th><th class="num">VaR</th><th class="num">% Value</th>
      <th class="num">ES</th><th class="num">% Value</th><th class="num">Obs</th>
      <th class="num">Std Err</th><th class="num">sVaR</th><th class="num">Ratio</th>
    </tr></thead>
    <tbody>
    {{range .Results}}
    <tr>
      <td>{{.Method}}</td>
      <td class="num">{{.VaR}}</td>
      <td class="num">{{.VaRPct}}</td>
      <td class="num">{{.ES}}</td>
      <td class="num">{{.ESPct}}</td>
      <td class="num">{{.Observations}}</td>
      <td class="num">{{.StdErr}}</td>
      <td class="num">{{.SVaR}}</td>
      <td class="num">{{if .Ratio}}<span class="ratio-badge {{.RatioClass}}">{{.Ratio}}</span>{{end}}</td>
    </tr>
    {{end}}
    </tbody>
  </table>
</div>
{{end}}

<!-- ═══════ CHARTS ═══════ -->
{{if .ShowCharts}}
<div class="section">
  <h2>Method Comparison</h2>
  {{if .MethodChart}}
  <div class="chart-container">{{.MethodChart}}</div>
  {{end}}
  {{if .ReturnsChart}}
  <div class="chart-container">{{.ReturnsChart}}</div>
  {{end}}
</div>
{{end}}

<!-- ═══════ PARAMETERS ═══════ -->
{{if .ShowParameters}}
<div class="section">
  <h2>Model Parameters</h2>
  <div class="param-grid">
    {{range .Parameters}}
    <div class="param-card">
      <span class="label">{{.Label}}</span>
      <span class="value">{{.Value}}</span>
    </div>
    {{end}}
  </div>
</div>
{{end}}

<!-- ═══════ WARNINGS ═══════ -->
{{if .ShowWarnings}}
<div class="section">
  <h2>Warnings</h2>
  <ul class="warning-list">
    {{range .Warnings}}
    <li>{{.}}</li>
    {{end}}
  </ul>
</div>
{{end}}

<!-- ═══════ FAILED METHODS ═══════ -->
{{if .ShowFailures}}
<div class="section">
  <h2>Failed Methods</h2>
  <table class="failures">
    <thead><tr><th>Method</th><th>Error</th></tr></thead>
    <tbody>
    {{range .Failures}}
    <tr>
      <td>{{.Method}}</td>
      <td>{{.Error}}</td>
    </tr>
    {{end}}
    </tbody>
  </table>
</div>
{{end}}

<!-- ═══════ FOOTER ═══════ -->
<div class="footer">
  <p><strong>Disclaimer:</strong> Figures in this report are model estimates computed from historical
  market data and do not guarantee future losses or gains. Review the methodology assumptions
  before relying on any single number.</p>
  <p>Generated on {{.GeneratedAt}} · {{.Author}}</p>
</div>

</body>
</html>`
