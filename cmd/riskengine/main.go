// riskengine — equity portfolio VaR / ES engine
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/api"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/internal/config"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/internal/marketdata"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/internal/pricing"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/internal/report"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/internal/risk"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/pkg/models"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "riskengine",
	Short: "riskengine — equity portfolio VaR / ES engine",
	Long: `riskengine
Value-at-Risk and Expected Shortfall for equity portfolios, estimated by
parametric, historical, bootstrap, weighted-historical, and PCA methods,
cross-checked against Monte Carlo revaluation and a delta-normal
approximation, with a cliquet option pricer on the side.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./riskengine.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(varCmd)
	rootCmd.AddCommand(cliquetCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("riskengine %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- VaR Command ---

var varCmd = &cobra.Command{
	Use:   "var",
	Short: "Estimate portfolio VaR and ES",
	Long: `Estimate Value-at-Risk and Expected Shortfall for a portfolio.

Price history comes from long-format CSV files (date,instrument,price) given
with --file, or from per-instrument files in the configured data directory.
Without --portfolio, the book defaults to one unit of every loaded instrument
marked at its last close.

Examples:
  riskengine var --file prices.csv --method all --confidence 0.99 --horizon 10
  riskengine var --file q1.csv --file q2.csv --method gaussian,historical
  riskengine var --portfolio book.json --save risk.html --format html`,
	RunE: func(cmd *cobra.Command, args []string) error {
		methods, err := parseMethods(cmd)
		if err != nil {
			return err
		}

		returns, spots, series, err := loadMarket(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		portfolio, err := loadPortfolio(cmd, series, spots)
		if err != nil {
			return err
		}

		params := flagParams(cmd)
		rate := flagRate(cmd)

		rep, err := runReport(cmd.Context(), portfolio, returns, spots, params, rate, methods)
		if err != nil {
			return err
		}

		history, _ := portfolioHistory(portfolio, returns)
		return emitReport(cmd, rep, history)
	},
}

func init() {
	addMarketFlags(varCmd)
	addRiskFlags(varCmd)
	varCmd.Flags().String("method", "all", "methods to run: all, or a comma list (see `riskengine serve` /methods)")
	varCmd.Flags().Bool("json", false, "print the report as JSON")
	varCmd.Flags().String("save", "", "write the rendered report to this path")
	varCmd.Flags().String("format", "", "saved report format: text, html, or pdf (default: report.format from config)")
}

// --- Cliquet Command ---

var cliquetCmd = &cobra.Command{
	Use:   "cliquet",
	Short: "Price a cliquet option by Monte Carlo",
	Long: `Price a cliquet (ratchet) option: the sum of periodic returns, each
clipped to [local floor, local cap], optionally clipped again globally,
discounted at the risk-free rate. Caps and floors left unset stay disabled.

Examples:
  riskengine cliquet --spot 100 --periods 4 --period-years 0.25 --vol 0.2 --local-cap 0.08
  riskengine cliquet --spot 100 --periods 12 --vol 0.25,0.22,0.20 --global-floor 0`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		spot, _ := f.GetFloat64("spot")
		periods, _ := f.GetInt("periods")
		periodYears, _ := f.GetFloat64("period-years")
		vols, _ := f.GetFloat64Slice("vol")
		notional, _ := f.GetFloat64("notional")

		spec := models.CliquetSpec{
			Spot:        spot,
			Periods:     periods,
			PeriodYears: periodYears,
			LocalCap:    math.Inf(1),
			LocalFloor:  math.Inf(-1),
			GlobalCap:   math.Inf(1),
			GlobalFloor: math.Inf(-1),
			Rate:        flagRate(cmd),
			Vols:        vols,
			Notional:    notional,
		}
		if f.Changed("local-cap") {
			spec.LocalCap, _ = f.GetFloat64("local-cap")
		}
		if f.Changed("local-floor") {
			spec.LocalFloor, _ = f.GetFloat64("local-floor")
		}
		if f.Changed("global-cap") {
			spec.GlobalCap, _ = f.GetFloat64("global-cap")
		}
		if f.Changed("global-floor") {
			spec.GlobalFloor, _ = f.GetFloat64("global-floor")
		}

		params := flagParams(cmd)
		sim := pricing.SimConfig{
			Paths:      params.Paths,
			Seed:       params.Seed,
			Antithetic: params.Antithetic,
			Workers:    params.Workers,
		}

		start := time.Now()
		res, err := pricing.PriceCliquet(cmd.Context(), spec, sim)
		if err != nil {
			return err
		}

		if jsonOut, _ := f.GetBool("json"); jsonOut {
			return printJSON(res)
		}

		fmt.Println("💰 Cliquet Option — Monte Carlo")
		fmt.Printf("   Structure: %d × %.2fy | vols %s | rate %s\n",
			spec.Periods, spec.PeriodYears, formatVols(spec.Vols), utils.FormatPct(spec.Rate*100))
		fmt.Printf("   Price:     %.4f\n", res.Price)
		fmt.Printf("   Std Err:   %.4f  (95%% CI ± %.4f)\n", res.StdErr, 1.96*res.StdErr)
		fmt.Printf("   Paths:     %d in %s\n", res.Paths, report.FormatDuration(time.Since(start)))
		return nil
	},
}

func init() {
	addRiskFlags(cliquetCmd)
	cliquetCmd.Flags().Float64("spot", 100, "initial underlying level")
	cliquetCmd.Flags().Int("periods", 4, "number of reset periods")
	cliquetCmd.Flags().Float64("period-years", 0.25, "length of one period in years")
	cliquetCmd.Flags().Float64Slice("vol", []float64{0.2}, "per-period vols; one value = flat")
	cliquetCmd.Flags().Float64("local-cap", 0, "cap per periodic return (default: uncapped)")
	cliquetCmd.Flags().Float64("local-floor", 0, "floor per periodic return (default: unfloored)")
	cliquetCmd.Flags().Float64("global-cap", 0, "cap on the summed payoff (default: uncapped)")
	cliquetCmd.Flags().Float64("global-floor", 0, "floor on the summed payoff (default: unfloored)")
	cliquetCmd.Flags().Float64("notional", 0, "payoff multiplier (0 = 1.0)")
	cliquetCmd.Flags().Bool("json", false, "print the result as JSON")
}

// --- Compare Command ---

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare delta-normal VaR against full Monte Carlo revaluation",
	Long: `Run the delta-normal approximation and the Monte Carlo revaluation
engine on the same portfolio and history, and report how far apart they land.
A small gap on a linear book is expected; a wide one means the book carries
convexity the linear approximation cannot see.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		returns, spots, series, err := loadMarket(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		portfolio, err := loadPortfolio(cmd, series, spots)
		if err != nil {
			return err
		}

		params := flagParams(cmd)
		rate := flagRate(cmd)

		start := time.Now()
		progress := func(done, total int) {
			fmt.Fprintf(os.Stderr, "\r  simulating... %d/%d paths", done, total)
		}
		cmp, err := risk.CompareRevaluation(cmd.Context(), portfolio, returns, spots, params, rate, progress)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return err
		}

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return printJSON(cmp)
		}

		fmt.Println("⚖️  Delta-Normal vs Monte Carlo")
		fmt.Printf("   Portfolio: %s | confidence %s | horizon %s\n",
			utils.FormatMoney(portfolio.Value()), utils.FormatPct(params.Confidence*100), pluralDays(params.HorizonDays))
		fmt.Printf("   %-14s VaR %14s   ES %14s\n", "delta_normal",
			utils.FormatMoney(cmp.DeltaNormal.VaR), utils.FormatMoney(cmp.DeltaNormal.ES))
		fmt.Printf("   %-14s VaR %14s   ES %14s  (std err %s)\n", "monte_carlo",
			utils.FormatMoney(cmp.MonteCarlo.VaR), utils.FormatMoney(cmp.MonteCarlo.ES),
			utils.FormatMoney(cmp.MonteCarlo.StdErr))
		fmt.Printf("   Relative gap: %s in %s\n",
			utils.FormatSignedPct(cmp.RelativeGap*100), report.FormatDuration(time.Since(start)))
		return nil
	},
}

func init() {
	addMarketFlags(compareCmd)
	addRiskFlags(compareCmd)
	compareCmd.Flags().Bool("json", false, "print the comparison as JSON")
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := api.NewServer(cfg)
		if err != nil {
			return fmt.Errorf("failed to build server: %w", err)
		}
		srv.SetVersion(version)

		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		fmt.Printf("🌐 riskengine API listening on http://%s\n", addr)
		fmt.Printf("   dashboard: http://%s/  |  API: http://%s/api/v1\n", addr, addr)
		return srv.ListenAndServe(addr)
	},
}

// --- Config Command ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to render config: %w", err)
		}
		fmt.Printf("# %s\n", config.ConfigFilePath())
		fmt.Print(string(out))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the current settings to riskengine.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("path")
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists — edit it instead", path)
		}
		if err := config.SaveToFile(cfg, path); err != nil {
			return err
		}
		fmt.Printf("✅ wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().String("path", "riskengine.yaml", "where to write the config file")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  riskengine — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Printf("  Config file:   %s\n", config.ConfigFilePath())
		fmt.Println()

		fmt.Println("  Default parameters:")
		fmt.Printf("    Confidence:    %s\n", utils.FormatPct(cfg.Risk.Confidence*100))
		fmt.Printf("    Horizon:       %s\n", pluralDays(cfg.Risk.HorizonDays))
		fmt.Printf("    Window:        %s\n", windowLabel(cfg.Risk.WindowDays))
		fmt.Printf("    Decay λ:       %.2f\n", cfg.Risk.Lambda)
		fmt.Printf("    MC paths:      %d (seed %d)\n", cfg.Risk.Paths, cfg.Risk.Seed)
		fmt.Printf("    API server:    %s:%d\n", cfg.Server.Host, cfg.Server.Port)
		fmt.Println()

		fmt.Println("  Data paths:")
		for _, p := range config.CheckDataPaths(cfg) {
			status := "❌ " + string(p.State)
			if p.State == config.PathOK {
				status = "✅ ok"
				if p.Files > 0 {
					status = fmt.Sprintf("✅ ok (%d files)", p.Files)
				}
			}
			fmt.Printf("    %-25s %s\n", p.Name+":", status)
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}

// --- Market data & portfolio helpers ---

func addMarketFlags(cmd *cobra.Command) {
	cmd.Flags().StringArray("file", nil, "long-format price CSV (date,instrument,price); repeatable")
	cmd.Flags().String("portfolio", "", "portfolio JSON file (positions: instrument, quantity, price)")
}

func addRiskFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("confidence", 0, "confidence level, e.g. 0.99")
	cmd.Flags().Int("horizon", 0, "risk horizon in business days")
	cmd.Flags().Int("window", 0, "estimation window in observations (0 = full history)")
	cmd.Flags().Float64("lambda", 0, "decay factor for weighted historical")
	cmd.Flags().Int("components", 0, "principal components retained")
	cmd.Flags().Int("paths", 0, "Monte Carlo path count")
	cmd.Flags().Int64("seed", 0, "RNG seed")
	cmd.Flags().Bool("antithetic", false, "antithetic variates for Monte Carlo")
	cmd.Flags().Int("workers", 0, "parallel path workers")
	cmd.Flags().Float64("vol-of-vol", 0, "implied-vol shock scale for Monte Carlo (0 = vols held flat)")
	cmd.Flags().Float64("rate", 0, "risk-free rate, continuous compounding")
}

// flagParams starts from the configured defaults and applies only the flags
// the user actually set, so a zero on the command line still means zero.
func flagParams(cmd *cobra.Command) models.RiskModelParameters {
	params := cfg.Parameters()
	f := cmd.Flags()
	if f.Changed("confidence") {
		params.Confidence, _ = f.GetFloat64("confidence")
	}
	if f.Changed("horizon") {
		params.HorizonDays, _ = f.GetInt("horizon")
	}
	if f.Changed("window") {
		params.WindowDays, _ = f.GetInt("window")
	}
	if f.Changed("lambda") {
		params.Lambda, _ = f.GetFloat64("lambda")
	}
	if f.Changed("components") {
		params.Components, _ = f.GetInt("components")
	}
	if f.Changed("paths") {
		params.Paths, _ = f.GetInt("paths")
	}
	if f.Changed("seed") {
		params.Seed, _ = f.GetInt64("seed")
	}
	if f.Changed("antithetic") {
		params.Antithetic, _ = f.GetBool("antithetic")
	}
	if f.Changed("workers") {
		params.Workers, _ = f.GetInt("workers")
	}
	if f.Changed("vol-of-vol") {
		params.VolOfVol, _ = f.GetFloat64("vol-of-vol")
	}
	return params
}

func flagRate(cmd *cobra.Command) float64 {
	if cmd.Flags().Changed("rate") {
		rate, _ := cmd.Flags().GetFloat64("rate")
		return rate
	}
	return cfg.Risk.RiskFreeRate
}

// loadMarket resolves the price history for a command: explicit --file paths,
// or per-instrument files from the configured data directory. It returns the
// aligned returns, last-close spots, and the raw series for default books.
func loadMarket(ctx context.Context, cmd *cobra.Command) (*marketdata.AlignedReturns, map[string]float64, []*marketdata.PriceSeries, error) {
	files, _ := cmd.Flags().GetStringArray("file")
	if len(files) == 0 {
		instruments, err := portfolioInstruments(cmd)
		if err != nil {
			return nil, nil, nil, err
		}
		if len(instruments) == 0 {
			return nil, nil, nil, fmt.Errorf("no price history: pass --file, or --portfolio with data.dir configured")
		}
		for _, id := range instruments {
			files = append(files, filepath.Join(cfg.Data.Dir, id+".csv"))
		}
	}

	series, err := marketdata.LoadFiles(ctx, files...)
	if err != nil {
		return nil, nil, nil, err
	}

	kind := marketdata.ReturnType(cfg.Data.ReturnType)
	spots := make(map[string]float64, len(series))
	returnSeries := make([]*marketdata.ReturnSeries, 0, len(series))
	for _, ps := range series {
		spots[ps.Instrument()] = ps.Last().Price
		rs, err := marketdata.BuildReturns(ps, kind)
		if err != nil {
			return nil, nil, nil, err
		}
		returnSeries = append(returnSeries, rs)
	}

	aligned, err := marketdata.Align(returnSeries...)
	if err != nil {
		return nil, nil, nil, err
	}
	return aligned, spots, series, nil
}

// portfolioInstruments peeks at the portfolio file for the instrument list,
// so directory loading knows which files to fetch.
func portfolioInstruments(cmd *cobra.Command) ([]string, error) {
	path, _ := cmd.Flags().GetString("portfolio")
	if path == "" {
		return nil, nil
	}
	p, err := readPortfolioFile(path)
	if err != nil {
		return nil, err
	}
	return p.Underlyings(), nil
}

func readPortfolioFile(path string) (models.Portfolio, error) {
	var p models.Portfolio
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("reading portfolio: %w", err)
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parsing portfolio %s: %w", path, err)
	}
	if len(p.Positions) == 0 {
		return p, fmt.Errorf("portfolio %s holds no positions", path)
	}
	return p, nil
}

// loadPortfolio reads the --portfolio file, marking unpriced cash positions
// at their last close. Without a file, the book defaults to one unit of
// every loaded instrument.
func loadPortfolio(cmd *cobra.Command, series []*marketdata.PriceSeries, spots map[string]float64) (models.Portfolio, error) {
	path, _ := cmd.Flags().GetString("portfolio")
	if path == "" {
		p := models.Portfolio{Positions: make([]models.Position, 0, len(series))}
		for _, ps := range series {
			p.Positions = append(p.Positions, models.Position{
				Instrument: ps.Instrument(),
				Quantity:   1,
				Price:      ps.Last().Price,
			})
		}
		fmt.Fprintf(os.Stderr, "no portfolio file — assuming 1 unit of each of %d instruments\n", len(p.Positions))
		return p, nil
	}

	p, err := readPortfolioFile(path)
	if err != nil {
		return p, err
	}
	for i := range p.Positions {
		pos := &p.Positions[i]
		if pos.Price != 0 || pos.Option != nil {
			continue // option positions must carry their own mark
		}
		spot, ok := spots[pos.Instrument]
		if !ok {
			return p, fmt.Errorf("no last close to price position %s — set its price explicitly", pos.Instrument)
		}
		pos.Price = spot
	}
	return p, nil
}

// portfolioHistory collapses the aligned history into one portfolio return
// per date, for the returns chart in saved reports.
func portfolioHistory(p models.Portfolio, returns *marketdata.AlignedReturns) ([]float64, error) {
	value := p.Value()
	if value <= 0 {
		return nil, fmt.Errorf("portfolio has no positive value")
	}
	byInstrument := make(map[string]float64)
	for _, pos := range p.Positions {
		byInstrument[pos.Instrument] += pos.Value() / value
	}
	weights := make([]float64, len(returns.Instruments))
	for i, id := range returns.Instruments {
		weights[i] = byInstrument[id]
	}
	return returns.PortfolioReturns(weights)
}

// --- Method selection & report output ---

func allMethods() []models.Method {
	methods := append(risk.Methods(), models.MethodMonteCarlo, models.MethodDeltaNormal)
	sort.Slice(methods, func(i, j int) bool { return methods[i] < methods[j] })
	return methods
}

// parseMethods turns the --method flag into a method list; nil means all.
func parseMethods(cmd *cobra.Command) ([]models.Method, error) {
	arg, _ := cmd.Flags().GetString("method")
	if arg == "" || arg == "all" {
		return nil, nil
	}

	valid := make(map[models.Method]bool)
	names := make([]string, 0, len(allMethods()))
	for _, m := range allMethods() {
		valid[m] = true
		names = append(names, string(m))
	}

	var methods []models.Method
	for _, part := range strings.Split(arg, ",") {
		m := models.Method(strings.TrimSpace(part))
		if !valid[m] {
			return nil, fmt.Errorf("unknown method %q (valid: %s)", part, strings.Join(names, ", "))
		}
		methods = append(methods, m)
	}
	return methods, nil
}

// runReport measures the requested methods; with none given it runs the full
// spread. Named revaluation methods are dispatched directly since they need
// spots and a discount rate on top of the return history.
func runReport(ctx context.Context, p models.Portfolio, returns *marketdata.AlignedReturns, spots map[string]float64, params models.RiskModelParameters, rate float64, methods []models.Method) (*models.RiskReport, error) {
	if len(methods) == 0 {
		return risk.FullReport(ctx, p, returns, spots, params, rate)
	}

	var estimators, revaluations []models.Method
	for _, m := range methods {
		switch m {
		case models.MethodMonteCarlo, models.MethodDeltaNormal:
			revaluations = append(revaluations, m)
		default:
			estimators = append(estimators, m)
		}
	}

	engine, err := risk.NewEngine(p, returns, params)
	if err != nil {
		return nil, err
	}

	rep := &models.RiskReport{
		PortfolioValue: p.Value(),
		Parameters:     params,
		Plausibility:   make(map[models.Method]models.PlausibilityCheck),
		Failures:       make(map[models.Method]string),
		GeneratedAt:    time.Now().UTC(),
	}
	if len(estimators) > 0 {
		rep, err = engine.Run(ctx, estimators...)
		if err != nil {
			return nil, err
		}
	}

	for _, m := range revaluations {
		var res *models.RiskMeasureResult
		var rerr error
		switch m {
		case models.MethodMonteCarlo:
			res, rerr = risk.MonteCarloVaR(ctx, p, returns, spots, params, rate)
		case models.MethodDeltaNormal:
			res, rerr = risk.DeltaNormalVaR(p, returns, spots, params, rate)
		}
		if rerr != nil {
			rep.Failures[m] = rerr.Error()
			continue
		}
		rep.Results = append(rep.Results, *res)
		if check, perr := risk.Plausibility(engine.Input(), res.VaR); perr == nil {
			rep.Plausibility[m] = *check
		}
	}

	sort.Slice(rep.Results, func(i, j int) bool {
		return rep.Results[i].Method < rep.Results[j].Method
	})
	return rep, nil
}

// emitReport prints the report (text or JSON) and optionally renders it to a
// file in the requested format.
func emitReport(cmd *cobra.Command, rep *models.RiskReport, history []float64) error {
	rcfg := report.DefaultReportConfig()
	rcfg.Title = cfg.Report.Title
	rcfg.History = history

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		if err := printJSON(rep); err != nil {
			return err
		}
	} else {
		text, err := report.GenerateText(rep, rcfg)
		if err != nil {
			return err
		}
		fmt.Print(text)
	}

	save, _ := cmd.Flags().GetString("save")
	if save == "" {
		return nil
	}
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = cfg.Report.Format
	}

	switch report.ReportFormat(format) {
	case report.FormatText:
		text, err := report.GenerateText(rep, rcfg)
		if err != nil {
			return err
		}
		if err := os.WriteFile(save, []byte(text), 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	case report.FormatHTML:
		html, err := report.GenerateHTML(rep, rcfg)
		if err != nil {
			return err
		}
		if err := os.WriteFile(save, []byte(html), 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	case report.FormatPDF:
		html, err := report.GenerateHTML(rep, rcfg)
		if err != nil {
			return err
		}
		pdfCfg := report.DefaultPDFConfig()
		pdfCfg.OutputPath = save
		if err := report.GeneratePDF(html, pdfCfg); err != nil {
			return err
		}
		if !report.IsPDFSupported() {
			fmt.Fprintln(os.Stderr, "no PDF engine installed — wrote HTML next to the requested path")
		}
	default:
		return fmt.Errorf("unknown report format %q (text, html, pdf)", format)
	}

	fmt.Printf("📄 report saved to %s\n", save)
	return nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func formatVols(vols []float64) string {
	parts := make([]string, len(vols))
	for i, v := range vols {
		parts[i] = utils.FormatPct(v * 100)
	}
	return strings.Join(parts, ", ")
}

func pluralDays(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

func windowLabel(days int) string {
	if days == 0 {
		return "full history"
	}
	return pluralDays(days)
}
