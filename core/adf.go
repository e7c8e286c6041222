package core

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Augmented Dickey-Fuller test with a constant term and AIC lag selection,
// following the reference implementation the analysis was ported from:
// delta_y_t = c + rho*y_{t-1} + sum_j phi_j*delta_y_{t-j} + e_t, tau is the
// t-statistic on rho, and the p-value comes from the MacKinnon approximate
// regression surface for the constant-only case.

// AdfMinObservations is the shortest series the test accepts.
const AdfMinObservations = 10

type ADFResult struct {
	Statistic float64
	PValue    float64
	UsedLag   int
	NObs      int
}

// MacKinnon (1994, 2010) approximate p-value surface, constant case, one series.
var (
	adfTauMax  = 2.74
	adfTauMin  = -18.83
	adfTauStar = -1.61

	adfTauSmallP = []float64{2.1659, 1.4412, 0.038269}
	adfTauLargeP = []float64{1.7339, 0.93202, -0.12745, -0.010368}
)

func ADFTest(series []float64) (*ADFResult, error) {
	n := len(series)
	if n < AdfMinObservations {
		return nil, fmt.Errorf("need at least %d observations for the ADF test, got %d", AdfMinObservations, n)
	}
	if stat.Variance(series, nil) == 0 {
		return nil, fmt.Errorf("cannot run the ADF test on a constant series")
	}

	// Schwert rule for the largest lag worth trying, capped to keep the
	// common estimation sample workable
	maxLag := int(math.Floor(12 * math.Pow(float64(n)/100, 0.25)))
	if limit := n/2 - 4; maxLag > limit {
		maxLag = limit
	}
	if maxLag < 0 {
		maxLag = 0
	}

	diff := make([]float64, n-1)
	for i := range diff {
		diff[i] = series[i+1] - series[i]
	}

	// pick the lag by AIC over the common sample so every candidate sees the
	// same observations
	usedLag := 0
	bestAIC := math.Inf(1)
	for lag := 0; lag <= maxLag; lag++ {
		_, _, aic, err := adfRegression(series, diff, lag, maxLag+1)
		if err != nil {
			return nil, err
		}
		if aic < bestAIC {
			bestAIC = aic
			usedLag = lag
		}
	}

	// refit with the chosen lag on the full feasible sample
	tau, nobs, _, err := adfRegression(series, diff, usedLag, usedLag+1)
	if err != nil {
		return nil, err
	}

	return &ADFResult{
		Statistic: tau,
		PValue:    mackinnonPValue(tau),
		UsedLag:   usedLag,
		NObs:      nobs,
	}, nil
}

// adfRegression fits the ADF regression with the given lag count, starting
// the sample at index start (in level terms). Returns the t-statistic of the
// level coefficient, the number of observations and the AIC.
func adfRegression(series, diff []float64, lag, start int) (tau float64, nobs int, aic float64, err error) {
	n := len(series)
	nobs = n - start
	ncols := lag + 2 // level coefficient, lag coefficients, constant
	if nobs <= ncols {
		return 0, 0, 0, fmt.Errorf("adf regression needs more observations than parameters (%d obs, %d params)", nobs, ncols)
	}

	X := mat.NewDense(nobs, ncols, nil)
	y := mat.NewVecDense(nobs, nil)
	for row := 0; row < nobs; row++ {
		t := start + row
		y.SetVec(row, diff[t-1])
		X.Set(row, 0, series[t-1])
		for j := 1; j <= lag; j++ {
			X.Set(row, j, diff[t-j-1])
		}
		X.Set(row, ncols-1, 1)
	}

	var qr mat.QR
	qr.Factorize(X)

	var coefs mat.Dense
	if err := qr.SolveTo(&coefs, false, y); err != nil {
		return 0, 0, 0, fmt.Errorf("error solving the adf regression: %w", err)
	}

	ssr := 0.0
	for row := 0; row < nobs; row++ {
		fitted := 0.0
		for col := 0; col < ncols; col++ {
			fitted += X.At(row, col) * coefs.At(col, 0)
		}
		resid := y.AtVec(row) - fitted
		ssr += resid * resid
	}

	dof := nobs - ncols
	sigma2 := ssr / float64(dof)

	var xtx, xtxInv mat.Dense
	xtx.Mul(X.T(), X)
	if err := xtxInv.Inverse(&xtx); err != nil {
		return 0, 0, 0, fmt.Errorf("error inverting the adf design matrix: %w", err)
	}

	se := math.Sqrt(sigma2 * xtxInv.At(0, 0))
	if se == 0 || math.IsNaN(se) {
		return 0, 0, 0, fmt.Errorf("adf regression is degenerate, the series is (close to) deterministic")
	}

	tau = coefs.At(0, 0) / se

	// gaussian AIC up to a constant: nobs*ln(ssr/nobs) + 2*params, same
	// ordering as the likelihood form
	if ssr <= 0 {
		aic = math.Inf(-1)
	} else {
		aic = float64(nobs)*math.Log(ssr/float64(nobs)) + 2*float64(ncols)
	}

	return tau, nobs, aic, nil
}

func mackinnonPValue(tau float64) float64 {
	if tau > adfTauMax {
		return 1
	}
	if tau < adfTauMin {
		return 0
	}

	coefs := adfTauLargeP
	if tau <= adfTauStar {
		coefs = adfTauSmallP
	}

	poly := 0.0
	for i, cf := range coefs {
		poly += cf * math.Pow(tau, float64(i))
	}

	return distuv.UnitNormal.CDF(poly)
}
