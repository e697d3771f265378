package risk

import (
	"context"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/internal/marketdata"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/internal/numerics"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Shared fixtures
// ════════════════════════════════════════════════════════════════════

// businessDates returns n consecutive business days from 2024-01-01 (a
// Monday) on.
func businessDates(n int) []time.Time {
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]time.Time, 0, n)
	for len(out) < n {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			out = append(out, d)
		}
		d = d.AddDate(0, 0, 1)
	}
	return out
}

// syntheticReturns builds a two-asset aligned log-return matrix with exact
// zero means and zero cross-correlation: asset one alternates ±amp1 with
// period 2, asset two flips ±amp2 with period 4. n must be divisible by 4.
func syntheticReturns(t *testing.T, n int, amp1, amp2 float64) *marketdata.AlignedReturns {
	t.Helper()
	if n%4 != 0 {
		t.Fatalf("fixture needs n divisible by 4, got %d", n)
	}

	col1 := make([]float64, n)
	col2 := make([]float64, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			col1[i] = amp1
		} else {
			col1[i] = -amp1
		}
		if i%4 < 2 {
			col2[i] = amp2
		} else {
			col2[i] = -amp2
		}
	}
	return &marketdata.AlignedReturns{
		Instruments: []string{"ADS.DE", "BMW.DE"},
		Kind:        marketdata.LogReturns,
		Dates:       businessDates(n),
		Columns:     [][]float64{col1, col2},
	}
}

// twoAssetPortfolio holds 500k in each of the fixture instruments.
func twoAssetPortfolio() models.Portfolio {
	return models.Portfolio{Positions: []models.Position{
		{Instrument: "ADS.DE", Quantity: 2500, Price: 200},
		{Instrument: "BMW.DE", Quantity: 5000, Price: 100},
	}}
}

// testParams disables windowing so the short synthetic history is used in
// full.
func testParams() models.RiskModelParameters {
	p := models.DefaultRiskModelParameters()
	p.WindowDays = 0
	p.Paths = 2000
	return p
}

func testInput(t *testing.T, n int) *Input {
	t.Helper()
	in, err := NewInput(twoAssetPortfolio(), syntheticReturns(t, n, 0.01, 0.01), testParams())
	if err != nil {
		t.Fatalf("NewInput: %v", err)
	}
	return in
}

// ════════════════════════════════════════════════════════════════════
// Input construction
// ════════════════════════════════════════════════════════════════════

func TestNewInputReordersColumnsToPortfolio(t *testing.T) {
	returns := syntheticReturns(t, 40, 0.01, 0.02)
	// Portfolio lists the instruments in the opposite order.
	pf := models.Portfolio{Positions: []models.Position{
		{Instrument: "BMW.DE", Quantity: 5000, Price: 100},
		{Instrument: "ADS.DE", Quantity: 2500, Price: 200},
	}}

	in, err := NewInput(pf, returns, testParams())
	if err != nil {
		t.Fatalf("NewInput: %v", err)
	}
	if in.Returns.Instruments[0] != "BMW.DE" {
		t.Errorf("columns not reordered: %v", in.Returns.Instruments)
	}
	if in.Returns.Columns[0][0] != 0.02 {
		t.Errorf("first column should carry BMW returns, got %f", in.Returns.Columns[0][0])
	}
}

func TestNewInputValidation(t *testing.T) {
	returns := syntheticReturns(t, 40, 0.01, 0.01)
	good := twoAssetPortfolio()

	cases := []struct {
		name   string
		mutate func(*models.Portfolio, *models.RiskModelParameters)
	}{
		{"bad_confidence", func(_ *models.Portfolio, p *models.RiskModelParameters) { p.Confidence = 1.2 }},
		{"bad_horizon", func(_ *models.Portfolio, p *models.RiskModelParameters) { p.HorizonDays = 0 }},
		{"empty_portfolio", func(pf *models.Portfolio, _ *models.RiskModelParameters) { pf.Positions = nil }},
		{"negative_value", func(pf *models.Portfolio, _ *models.RiskModelParameters) { pf.Positions[0].Quantity = -10000 }},
		{"unknown_instrument", func(pf *models.Portfolio, _ *models.RiskModelParameters) { pf.Positions[0].Instrument = "SIE.DE" }},
		{"window_exceeds_history", func(_ *models.Portfolio, p *models.RiskModelParameters) { p.WindowDays = 1000 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pf, params := good, testParams()
			pf.Positions = append([]models.Position(nil), good.Positions...)
			tc.mutate(&pf, &params)
			if _, err := NewInput(pf, returns, params); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestPortfolioLosses(t *testing.T) {
	in := testInput(t, 40)
	losses, err := in.PortfolioLosses()
	if err != nil {
		t.Fatalf("PortfolioLosses: %v", err)
	}
	if len(losses) != 40 {
		t.Fatalf("got %d losses, want 40", len(losses))
	}
	// t=0: both assets at +1%, equally weighted million → loss −10000.
	if math.Abs(losses[0]-(-10000)) > 1e-6 {
		t.Errorf("losses[0] = %f, want -10000", losses[0])
	}
	// t=3: both at −1% → loss +10000.
	if math.Abs(losses[3]-10000) > 1e-6 {
		t.Errorf("losses[3] = %f, want 10000", losses[3])
	}
}

// ════════════════════════════════════════════════════════════════════
// Registry
// ════════════════════════════════════════════════════════════════════

func TestRegistryListsAllEstimators(t *testing.T) {
	methods := Methods()
	want := []models.Method{
		models.MethodBootstrap,
		models.MethodGaussian,
		models.MethodHistorical,
		models.MethodPCA,
		models.MethodWeightedHistorical,
	}
	if !reflect.DeepEqual(methods, want) {
		t.Errorf("Methods() = %v, want %v", methods, want)
	}

	for _, m := range methods {
		est, err := EstimatorFor(m)
		if err != nil {
			t.Fatalf("EstimatorFor(%s): %v", m, err)
		}
		if est.Method() != m {
			t.Errorf("estimator registered under %s reports %s", m, est.Method())
		}
	}
}

func TestEstimatorForUnknownMethod(t *testing.T) {
	_, err := EstimatorFor("variance_gamma")
	var perr *models.InvalidParameterError
	if !errors.As(err, &perr) {
		t.Errorf("error = %v, want InvalidParameterError", err)
	}
}

// ════════════════════════════════════════════════════════════════════
// Gaussian estimator
// ════════════════════════════════════════════════════════════════════

func TestGaussianEstimate(t *testing.T) {
	in := testInput(t, 240)
	dist, warnings, err := gaussianEstimator{}.Estimate(in)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if dist.Kind != models.DistGaussian {
		t.Fatalf("kind = %s, want gaussian", dist.Kind)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	// Zero-mean fixture → zero mean loss; variance from the diagonal
	// covariance of the two alternating columns.
	if math.Abs(dist.Mean) > 1e-6 {
		t.Errorf("mean loss = %f, want 0", dist.Mean)
	}
	va := numerics.Covariance(in.Returns.Columns[0], in.Returns.Columns[0])
	vb := numerics.Covariance(in.Returns.Columns[1], in.Returns.Columns[1])
	wantSigma := in.Value * math.Sqrt(0.25*va+0.25*vb)
	if math.Abs(dist.StdDev-wantSigma)/wantSigma > 1e-9 {
		t.Errorf("σ = %f, want %f", dist.StdDev, wantSigma)
	}
}

func TestGaussianNeedsTwoObservations(t *testing.T) {
	in := testInput(t, 40)
	in.Returns.Dates = in.Returns.Dates[:1]
	in.Returns.Columns = [][]float64{in.Returns.Columns[0][:1], in.Returns.Columns[1][:1]}

	_, _, err := gaussianEstimator{}.Estimate(in)
	var derr *models.InsufficientDataError
	if !errors.As(err, &derr) {
		t.Fatalf("error = %v, want InsufficientDataError", err)
	}
	if derr.Need != 2 || derr.Got != 1 {
		t.Errorf("need/got = %d/%d, want 2/1", derr.Need, derr.Got)
	}
}

// ════════════════════════════════════════════════════════════════════
// Historical & bootstrap
// ════════════════════════════════════════════════════════════════════

func TestHistoricalEstimate(t *testing.T) {
	in := testInput(t, 240)
	dist, _, err := historicalEstimator{}.Estimate(in)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if dist.Kind != models.DistEmpirical || len(dist.Sample) != 240 {
		t.Fatalf("kind/size = %s/%d, want empirical/240", dist.Kind, len(dist.Sample))
	}

	var sum float64
	for _, wl := range dist.Sample {
		if wl.Weight != dist.Sample[0].Weight {
			t.Fatal("historical weights must be equal")
		}
		sum += wl.Weight
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("weights sum to %.12f, want 1", sum)
	}

	// The fixture's portfolio losses take values {−10000, 0, +10000} with
	// mass ¼, ½, ¼; the 99% quantile is the largest loss.
	varValue, esValue, err := Tail(dist, 0.99)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if math.Abs(varValue-10000) > 1e-6 || math.Abs(esValue-10000) > 1e-6 {
		t.Errorf("VaR/ES = %f/%f, want 10000 both", varValue, esValue)
	}
}

func TestBootstrapReproducible(t *testing.T) {
	in := testInput(t, 240)

	first, _, err := bootstrapEstimator{}.Estimate(in)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	second, _, err := bootstrapEstimator{}.Estimate(in)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if !reflect.DeepEqual(first.Sample, second.Sample) {
		t.Error("same seed must reproduce the identical bootstrap distribution")
	}
	if len(first.Sample) != in.Params.Paths {
		t.Errorf("draws = %d, want %d", len(first.Sample), in.Params.Paths)
	}
}

func TestBootstrapSeedChangesDraws(t *testing.T) {
	in := testInput(t, 240)
	base, _, err := bootstrapEstimator{}.Estimate(in)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}

	in2 := testInput(t, 240)
	in2.Params.Seed = in.Params.Seed + 1
	other, _, err := bootstrapEstimator{}.Estimate(in2)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if reflect.DeepEqual(base.Sample, other.Sample) {
		t.Error("different seeds produced the identical resampling")
	}
}

func TestBootstrapNeedsPositiveDraws(t *testing.T) {
	in := testInput(t, 40)
	in.Params.Paths = 0
	_, _, err := bootstrapEstimator{}.Estimate(in)
	var perr *models.InvalidParameterError
	if !errors.As(err, &perr) {
		t.Errorf("error = %v, want InvalidParameterError", err)
	}
}

// ════════════════════════════════════════════════════════════════════
// Weighted historical
// ════════════════════════════════════════════════════════════════════

func TestWeightedHistoricalWeights(t *testing.T) {
	in := testInput(t, 240)
	dist, _, err := weightedEstimator{}.Estimate(in)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}

	var sum float64
	for _, wl := range dist.Sample {
		if wl.Weight < 0 {
			t.Fatalf("negative weight %f", wl.Weight)
		}
		sum += wl.Weight
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("weights sum to %.12f, want 1 ± 1e-9", sum)
	}

	// λ < 1 → the most recent observation outweighs the oldest.
	first, last := dist.Sample[0].Weight, dist.Sample[len(dist.Sample)-1].Weight
	if last <= first {
		t.Errorf("decay not applied: oldest %g, newest %g", first, last)
	}
}

func TestWeightedHistoricalFlatWhenLambdaOne(t *testing.T) {
	in := testInput(t, 40)
	in.Params.Lambda = 1
	dist, _, err := weightedEstimator{}.Estimate(in)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	for _, wl := range dist.Sample {
		if math.Abs(wl.Weight-1.0/40) > 1e-12 {
			t.Fatalf("λ=1 should give flat weights, got %g", wl.Weight)
		}
	}
}

func TestWeightedHistoricalRejectsBadLambda(t *testing.T) {
	for _, lambda := range []float64{0, -0.5, 1.1, math.NaN()} {
		in := testInput(t, 40)
		in.Params.Lambda = lambda
		_, _, err := weightedEstimator{}.Estimate(in)
		var perr *models.InvalidParameterError
		if !errors.As(err, &perr) {
			t.Errorf("λ=%v: error = %v, want InvalidParameterError", lambda, err)
		}
	}
}

// ════════════════════════════════════════════════════════════════════
// PCA
// ════════════════════════════════════════════════════════════════════

func TestPCAFullRankMatchesGaussian(t *testing.T) {
	in := testInput(t, 240)
	in.Params.Components = 2 // full rank on two assets

	pca, warnings, err := pcaEstimator{}.Estimate(in)
	if err != nil {
		t.Fatalf("PCA: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("full-rank PCA should not warn, got %v", warnings)
	}
	gauss, _, err := gaussianEstimator{}.Estimate(in)
	if err != nil {
		t.Fatalf("gaussian: %v", err)
	}
	if math.Abs(pca.StdDev-gauss.StdDev)/gauss.StdDev > 1e-9 {
		t.Errorf("full-rank PCA σ = %f, gaussian σ = %f", pca.StdDev, gauss.StdDev)
	}
	if math.Abs(pca.Mean-gauss.Mean) > 1e-9 {
		t.Errorf("full-rank PCA mean = %f, gaussian mean = %f", pca.Mean, gauss.Mean)
	}
}

func TestPCATruncationKeepsTopComponent(t *testing.T) {
	// Distinct amplitudes so the leading eigenvector is the first axis.
	returns := syntheticReturns(t, 240, 0.012, 0.008)
	in, err := NewInput(twoAssetPortfolio(), returns, testParams())
	if err != nil {
		t.Fatalf("NewInput: %v", err)
	}
	in.Params.Components = 1

	dist, warnings, err := pcaEstimator{}.Estimate(in)
	if err != nil {
		t.Fatalf("PCA: %v", err)
	}

	// With zero cross-correlation the top component is asset one alone:
	// reduced variance = w₁²·Var₁.
	va := numerics.Covariance(in.Returns.Columns[0], in.Returns.Columns[0])
	wantSigma := in.Value * math.Sqrt(0.25*va)
	if math.Abs(dist.StdDev-wantSigma)/wantSigma > 1e-9 {
		t.Errorf("reduced σ = %f, want %f", dist.StdDev, wantSigma)
	}
	if dist.StdDev >= in.Value*math.Sqrt(0.25*va+0.25*numerics.Covariance(in.Returns.Columns[1], in.Returns.Columns[1])) {
		t.Error("truncated variance should fall below the full variance")
	}

	if len(warnings) != 1 || !strings.Contains(warnings[0], "components") {
		t.Errorf("expected an explained-variance warning, got %v", warnings)
	}
}

func TestPCARejectsBadComponentCount(t *testing.T) {
	for _, k := range []int{0, -1, 3} {
		in := testInput(t, 40)
		in.Params.Components = k
		_, _, err := pcaEstimator{}.Estimate(in)
		var perr *models.InvalidParameterError
		if !errors.As(err, &perr) {
			t.Errorf("k=%d: error = %v, want InvalidParameterError", k, err)
		}
	}
}

// ════════════════════════════════════════════════════════════════════
// Measurement & horizon scaling
// ════════════════════════════════════════════════════════════════════

func TestMeasureSqrtHorizonScaling(t *testing.T) {
	for _, m := range []models.Method{models.MethodGaussian, models.MethodPCA} {
		t.Run(string(m), func(t *testing.T) {
			oneDay := testInput(t, 240)
			res1, err := Measure(m, oneDay)
			if err != nil {
				t.Fatalf("Measure 1d: %v", err)
			}

			tenDay := testInput(t, 240)
			tenDay.Params.HorizonDays = 10
			res10, err := Measure(m, tenDay)
			if err != nil {
				t.Fatalf("Measure 10d: %v", err)
			}

			if math.Abs(res10.VaR-res1.VaR*math.Sqrt(10))/res1.VaR > 1e-9 {
				t.Errorf("10-day VaR = %f, want 1-day %f × √10", res10.VaR, res1.VaR)
			}
			if math.Abs(res10.ES-res1.ES*math.Sqrt(10))/res1.ES > 1e-9 {
				t.Errorf("10-day ES = %f, want 1-day %f × √10", res10.ES, res1.ES)
			}
		})
	}
}

func TestMeasureFlagsEmpiricalScaling(t *testing.T) {
	in := testInput(t, 240)
	in.Params.HorizonDays = 10

	res, err := Measure(models.MethodHistorical, in)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "scaling") {
			found = true
		}
	}
	if !found {
		t.Errorf("10-day historical measure should carry the scaling caveat, got %v", res.Warnings)
	}

	// Gaussian scaling is exact; no caveat.
	gres, err := Measure(models.MethodGaussian, in)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	for _, w := range gres.Warnings {
		if strings.Contains(w, "scaling") {
			t.Errorf("gaussian measure should not warn about scaling: %v", gres.Warnings)
		}
	}
}

func TestMeasureESDominatesVaRAcrossMethods(t *testing.T) {
	in := testInput(t, 240)
	for _, m := range Methods() {
		res, err := Measure(m, in)
		if err != nil {
			t.Fatalf("Measure(%s): %v", m, err)
		}
		if res.ES < res.VaR-1e-9 {
			t.Errorf("%s: ES %f < VaR %f", m, res.ES, res.VaR)
		}
		if res.Confidence != in.Params.Confidence || res.HorizonDays != in.Params.HorizonDays {
			t.Errorf("%s: result does not echo the request parameters", m)
		}
		if res.Observations != in.Returns.Observations() {
			t.Errorf("%s: observations = %d, want %d", m, res.Observations, in.Returns.Observations())
		}
	}
}

// ════════════════════════════════════════════════════════════════════
// Plausibility
// ════════════════════════════════════════════════════════════════════

func TestPlausibilityOnSymmetricFixture(t *testing.T) {
	in := testInput(t, 240)

	// Each asset's return quantiles are ±1%, weights ½ on a 1M book →
	// stressed loss 5000 per asset; uncorrelated columns → √(5000²+5000²).
	check, err := Plausibility(in, 16500)
	if err != nil {
		t.Fatalf("Plausibility: %v", err)
	}
	want := 5000 * math.Sqrt2
	if math.Abs(check.SVaR-want) > 1.0 {
		t.Errorf("sVaR = %f, want ≈ %f", check.SVaR, want)
	}
	if math.Abs(check.Ratio-16500/check.SVaR) > 1e-9 {
		t.Errorf("ratio = %f, want estimate/sVaR", check.Ratio)
	}
}

// ════════════════════════════════════════════════════════════════════
// Engine
// ════════════════════════════════════════════════════════════════════

func TestEngineRunAllMethods(t *testing.T) {
	engine, err := NewEngine(twoAssetPortfolio(), syntheticReturns(t, 240, 0.01, 0.01), testParams())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Failures) != 0 {
		t.Fatalf("unexpected failures: %v", report.Failures)
	}
	if len(report.Results) != len(Methods()) {
		t.Fatalf("got %d results, want %d", len(report.Results), len(Methods()))
	}
	if report.PortfolioValue != 1_000_000 {
		t.Errorf("portfolio value = %f, want 1000000", report.PortfolioValue)
	}

	for _, res := range report.Results {
		if res.ES < res.VaR-1e-9 {
			t.Errorf("%s: ES %f < VaR %f", res.Method, res.ES, res.VaR)
		}
		if _, ok := report.Plausibility[res.Method]; !ok {
			t.Errorf("%s: missing plausibility check", res.Method)
		}
	}

	// Results come back sorted by method for stable rendering.
	for i := 1; i < len(report.Results); i++ {
		if report.Results[i-1].Method > report.Results[i].Method {
			t.Errorf("results not sorted: %v before %v", report.Results[i-1].Method, report.Results[i].Method)
		}
	}
}

func TestFullReportCoversAllMethodologies(t *testing.T) {
	report, err := FullReport(context.Background(), twoAssetPortfolio(), syntheticReturns(t, 240, 0.01, 0.01), nil, testParams(), 0.03)
	if err != nil {
		t.Fatalf("FullReport: %v", err)
	}
	if len(report.Failures) != 0 {
		t.Fatalf("unexpected failures: %v", report.Failures)
	}

	// Registry estimators plus the two revaluation methods, sorted.
	var got []models.Method
	for _, res := range report.Results {
		got = append(got, res.Method)
	}
	want := []models.Method{
		models.MethodBootstrap,
		models.MethodDeltaNormal,
		models.MethodGaussian,
		models.MethodHistorical,
		models.MethodMonteCarlo,
		models.MethodPCA,
		models.MethodWeightedHistorical,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("methods = %v, want %v", got, want)
	}

	// The revaluation methods get the same plausibility cross-check as the
	// analytic ones.
	for _, m := range []models.Method{models.MethodMonteCarlo, models.MethodDeltaNormal} {
		check, ok := report.Plausibility[m]
		if !ok {
			t.Errorf("%s: missing plausibility check", m)
			continue
		}
		if check.SVaR <= 0 || check.Ratio <= 0 {
			t.Errorf("%s: degenerate plausibility %+v", m, check)
		}
	}

	// On a linear book the delta-normal approximation and the gaussian
	// estimator describe the same distribution.
	dn := report.ResultFor(models.MethodDeltaNormal)
	gauss := report.ResultFor(models.MethodGaussian)
	if math.Abs(dn.VaR-gauss.VaR)/gauss.VaR > 1e-6 {
		t.Errorf("delta-normal VaR = %f, gaussian VaR = %f", dn.VaR, gauss.VaR)
	}
}

func TestEngineRunCollectsPerMethodFailures(t *testing.T) {
	params := testParams()
	params.Components = 0 // breaks PCA, nothing else
	engine, err := NewEngine(twoAssetPortfolio(), syntheticReturns(t, 240, 0.01, 0.01), params)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	report, err := engine.Run(context.Background(), models.MethodGaussian, models.MethodPCA)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.ResultFor(models.MethodGaussian) == nil {
		t.Error("gaussian should have succeeded")
	}
	if report.ResultFor(models.MethodPCA) != nil {
		t.Error("pca should not appear among results")
	}
	if msg, ok := report.Failures[models.MethodPCA]; !ok || !strings.Contains(msg, "components") {
		t.Errorf("pca failure not collected: %v", report.Failures)
	}
}

func TestEngineRunUnknownMethod(t *testing.T) {
	engine, err := NewEngine(twoAssetPortfolio(), syntheticReturns(t, 240, 0.01, 0.01), testParams())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	report, err := engine.Run(context.Background(), "variance_gamma")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, ok := report.Failures["variance_gamma"]; !ok {
		t.Error("unknown method should land in Failures")
	}
}
