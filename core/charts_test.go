package core

import (
	"bytes"
	"strings"
	"testing"

	m "github.com/s1de-walker/Pairs-Watch/models"
)

func buildTestAnalysisResponse(t *testing.T) *m.PairAnalysisResponse {
	t.Helper()

	return &m.PairAnalysisResponse{
		Ticker1:   "SPY",
		Ticker2:   "QQQ",
		StartDate: "2025-01-01",
		EndDate:   "2025-03-01",
		Summary: m.MarketSummary{
			Ticker1: m.TickerSummary{Ticker: "SPY", LastClose: 500.12, DailyChangePct: 0.4},
			Ticker2: m.TickerSummary{Ticker: "QQQ", LastClose: 430.55, DailyChangePct: -0.2},
		},
		Dates:              []string{"2025-01-02", "2025-01-03", "2025-01-06"},
		Returns1:           []float64{0.01, -0.02, 0.015},
		Returns2:           []float64{0.012, -0.018, 0.02},
		CumulativeReturns1: []float64{0.01, -0.0102, 0.00465},
		CumulativeReturns2: []float64{0.012, -0.00622, 0.01366},
		Regression:         m.RegressionMetrics{Alpha: 0.0005, Beta: 1.1, RSquared: 0.92},
		Stationarity:       m.StationarityMetrics{Statistic: -3.2, PValue: 0.019, UsedLag: 1, Stationary: true},
		Residuals:          []float64{0.001, -0.002, 0.0015},
		Spread:             []float64{0.0011, -0.0021, 0.0016},
		Percentile:         3,
		LowerBand:          -0.0019,
		UpperBand:          0.0014,
		RollingRatio: m.RollingRatioSeries{
			Window: 2,
			Dates:  []string{"2025-01-03", "2025-01-06"},
			Values: []float64{0.95, 1.02},
		},
	}
}

func TestRenderAnalysisPage(t *testing.T) {
	res := buildTestAnalysisResponse(t)

	var buf bytes.Buffer
	if err := RenderAnalysisPage(&buf, res); err != nil {
		t.Fatalf("Failed to render analysis page: %v", err)
	}

	html := buf.String()
	if len(html) == 0 {
		t.Fatal("Rendered page is empty")
	}

	// all four charts plus the headline metrics should be on the page
	expectedFragments := []string{
		"Cumulative Returns: SPY vs QQQ",
		"Daily Returns: SPY vs QQQ",
		"Regression Residuals with Percentile Bands",
		"Rolling Volatility Ratio (2 day window)",
		"Lower Band",
		"Upper Band",
		"Volatility Ratio",
		colorTicker1,
		colorTicker2,
	}
	for _, fragment := range expectedFragments {
		if !strings.Contains(html, fragment) {
			t.Errorf("Rendered page is missing %q", fragment)
		}
	}
}

func TestBuildAnalysisPageHoldsFourCharts(t *testing.T) {
	res := buildTestAnalysisResponse(t)

	page := BuildAnalysisPage(res)
	if got := len(page.Charts); got != 4 {
		t.Errorf("Expected 4 charts on the page, got %d", got)
	}
}
