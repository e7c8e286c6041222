package core

import (
	"fmt"
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"

	dm "github.com/s1de-walker/Pairs-Watch/data/models"
)

// AlignedPrices holds the two close series restricted to the trading days
// both tickers have a valid close for, oldest first.
type AlignedPrices struct {
	Dates   []time.Time
	Closes1 []float64
	Closes2 []float64
}

func AlignPriceSeries(series1, series2 []*dm.PricePoint) (*AlignedPrices, error) {
	lookup := make(map[time.Time]float64, len(series2))
	for _, p := range series2 {
		if p.Close.Valid {
			lookup[p.Date] = p.Close.Float64
		}
	}

	aligned := &AlignedPrices{}
	for _, p := range series1 {
		if !p.Close.Valid {
			continue
		}
		close2, ok := lookup[p.Date]
		if !ok {
			continue
		}
		aligned.Dates = append(aligned.Dates, p.Date)
		aligned.Closes1 = append(aligned.Closes1, p.Close.Float64)
		aligned.Closes2 = append(aligned.Closes2, close2)
	}

	if len(aligned.Dates) < 3 {
		return nil, fmt.Errorf("only %d overlapping trading days between the two tickers, need at least 3", len(aligned.Dates))
	}

	return aligned, nil
}

// PercentReturns converts prices into daily percentage returns,
// r_t = p_t / p_{t-1} - 1, one element shorter than the price series.
func PercentReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns[i-1] = prices[i]/prices[i-1] - 1
	}
	return returns
}

// CumulativeReturns compounds returns into a cumulative series,
// c_t = prod(1+r_i) - 1 for i <= t.
func CumulativeReturns(returns []float64) []float64 {
	cumulative := make([]float64, len(returns))
	acc := 1.0
	for i, r := range returns {
		acc *= 1 + r
		cumulative[i] = acc - 1
	}
	return cumulative
}

type RegressionResult struct {
	Alpha     float64
	Beta      float64
	RSquared  float64
	Residuals []float64
}

// RunOLS regresses y on x with an intercept, y = alpha + beta*x + e.
func RunOLS(x, y []float64) (*RegressionResult, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("regression series lengths differ, %d vs %d", len(x), len(y))
	}
	if len(x) < 3 {
		return nil, fmt.Errorf("need at least 3 observations for a regression, got %d", len(x))
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	if math.IsNaN(alpha) || math.IsNaN(beta) {
		return nil, fmt.Errorf("regression is undefined, the independent return series has no variance")
	}

	residuals := make([]float64, len(x))
	for i := range x {
		residuals[i] = y[i] - (alpha + beta*x[i])
	}

	return &RegressionResult{
		Alpha:     alpha,
		Beta:      beta,
		RSquared:  stat.RSquared(x, y, nil, alpha, beta),
		Residuals: residuals,
	}, nil
}

// Spread is y - beta*x. The intercept is left out on purpose, matching the
// upstream cointegration spread definition this service reproduces.
func Spread(x, y []float64, beta float64) []float64 {
	spread := make([]float64, len(x))
	for i := range x {
		spread[i] = y[i] - beta*x[i]
	}
	return spread
}

// PercentileBands returns the percentile/100 and 1-percentile/100 quantiles
// over the whole residual series. These are reference lines, not clipping
// bounds. Linear interpolation matches numpy's default quantile.
func PercentileBands(residuals []float64, percentile int) (lower, upper float64) {
	sorted := slices.Clone(residuals)
	slices.Sort(sorted)

	p := float64(percentile) / 100
	lower = stat.Quantile(p, stat.LinInterp, sorted, nil)
	upper = stat.Quantile(1-p, stat.LinInterp, sorted, nil)
	return
}

// RollingStd computes the sample standard deviation over a moving window.
// The result has len(series)-window+1 entries, entry i covering
// series[i : i+window].
func RollingStd(series []float64, window int) []float64 {
	if window < 1 || window > len(series) {
		return nil
	}

	out := make([]float64, len(series)-window+1)
	for i := range out {
		out[i] = stat.StdDev(series[i:i+window], nil)
	}
	return out
}

// RollingStdRatio is std(x, window) / std(y, window) with both windows ending
// on the same date. Entries where either window is degenerate (NaN std, or a
// zero denominator) are dropped rather than carried as NaN.
func RollingStdRatio(dates []time.Time, x, y []float64, window int) (ratioDates []time.Time, values []float64) {
	stdX := RollingStd(x, window)
	stdY := RollingStd(y, window)

	for i := range stdX {
		if math.IsNaN(stdX[i]) || math.IsNaN(stdY[i]) || stdY[i] == 0 {
			continue
		}
		ratioDates = append(ratioDates, dates[i+window-1])
		values = append(values, stdX[i]/stdY[i])
	}
	return
}
