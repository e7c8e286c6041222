package core

import (
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	ex "github.com/s1de-walker/Pairs-Watch/data/extensions"
	dm "github.com/s1de-walker/Pairs-Watch/data/models"
	m "github.com/s1de-walker/Pairs-Watch/models"
)

const stationarityPValueThreshold = 0.05

func (sc *ServiceContext) RunPairAnalysis(req m.PairAnalysisRequest) (*m.PairAnalysisResponse, error) {
	start := time.Now()
	log.Printf("Recieved request to analyze pair %s/%s", req.Ticker1, req.Ticker2)

	// invalid requests never reach the run history
	startDate, endDate, err := ValidatePairAnalysisRequest(req, time.Now())
	if err != nil {
		log.Printf("Error validating pair %s/%s: %v", req.Ticker1, req.Ticker2, err)
		return nil, err
	}

	log.Printf("Inserting pair %s/%s to run history (time: %v)", req.Ticker1, req.Ticker2, time.Since(start))
	runId, err := sc.PostgresConnection.InsertPairAnalysisRun(sc.Context, mapPairAnalysisRequestToRun(req, startDate, endDate))
	if err != nil {
		log.Printf("Error inserting pair %s/%s to run history: %v", req.Ticker1, req.Ticker2, err)
		return nil, err
	}

	log.Printf("Syncing price data for pair %s/%s (time: %v)", req.Ticker1, req.Ticker2, time.Since(start))
	g, gctx := errgroup.WithContext(sc.Context)
	for _, symbol := range []string{req.Ticker1, req.Ticker2} {
		g.Go(func() error {
			return sc.SyncSymbolPriceData(gctx, symbol, startDate, endDate)
		})
	}
	if err := g.Wait(); err != nil {
		log.Printf("Error syncing price data for pair %s/%s: %v", req.Ticker1, req.Ticker2, err)
		return nil, sc.markRunAsFailure(runId, err)
	}

	log.Printf("Loading cached closes for pair %s/%s (time: %v)", req.Ticker1, req.Ticker2, time.Since(start))
	series1, err := sc.PostgresConnection.GetPriceData(sc.Context, req.Ticker1, startDate, endDate)
	if err != nil {
		return nil, sc.markRunAsFailure(runId, err)
	}
	series2, err := sc.PostgresConnection.GetPriceData(sc.Context, req.Ticker2, startDate, endDate)
	if err != nil {
		return nil, sc.markRunAsFailure(runId, err)
	}

	aligned, err := AlignPriceSeries(series1, series2)
	if err != nil {
		log.Printf("Error aligning pair %s/%s: %v", req.Ticker1, req.Ticker2, err)
		return nil, sc.markRunAsFailure(runId, err)
	}

	log.Printf("Running pair statistics for %s/%s on %d shared days (time: %v)", req.Ticker1, req.Ticker2, len(aligned.Dates), time.Since(start))
	response, err := buildPairAnalysisResponse(req, aligned)
	if err != nil {
		log.Printf("Error computing pair statistics for %s/%s: %v", req.Ticker1, req.Ticker2, err)
		return nil, sc.markRunAsFailure(runId, err)
	}

	if err := sc.PostgresConnection.UpdatePairAnalysisRunAsSuccess(sc.Context, runId); err != nil {
		log.Printf("Error updating run as success for pair %s/%s: %v", req.Ticker1, req.Ticker2, err)
		return nil, err // if we cant update it to success, we most likely cant update it to failure either
	}

	log.Printf("Pair %s/%s completed (time: %v)", req.Ticker1, req.Ticker2, time.Since(start))
	return response, nil
}

// markRunAsFailure records the failure but hands the original cause back to
// the caller, a bookkeeping error must not mask it.
func (sc *ServiceContext) markRunAsFailure(runId int32, cause error) error {
	if err := sc.PostgresConnection.UpdatePairAnalysisRunAsFailure(sc.Context, runId, cause.Error()); err != nil {
		log.Printf("Error marking run %d as failure: %v", runId, err)
	}
	return cause
}

func buildPairAnalysisResponse(req m.PairAnalysisRequest, aligned *AlignedPrices) (*m.PairAnalysisResponse, error) {
	returns1 := PercentReturns(aligned.Closes1)
	returns2 := PercentReturns(aligned.Closes2)

	// returns start one day after the first close
	returnDates := aligned.Dates[1:]

	regression, err := RunOLS(returns1, returns2)
	if err != nil {
		return nil, err
	}

	spread := Spread(returns1, returns2, regression.Beta)

	// too few shared trading days is the caller's range choice, not an
	// upstream failure
	if len(spread) < AdfMinObservations {
		return nil, newValidationError("the selected range yields only %d shared trading days, the stationarity test needs at least %d, pick a wider range", len(spread), AdfMinObservations)
	}

	adf, err := ADFTest(spread)
	if err != nil {
		return nil, err
	}

	lower, upper := PercentileBands(regression.Residuals, req.Percentile)
	ratioDates, ratioValues := RollingStdRatio(returnDates, returns1, returns2, req.RollingWindow)

	return &m.PairAnalysisResponse{
		Ticker1:   req.Ticker1,
		Ticker2:   req.Ticker2,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,

		Summary: m.MarketSummary{
			Ticker1: buildTickerSummary(req.Ticker1, aligned.Closes1, returns1),
			Ticker2: buildTickerSummary(req.Ticker2, aligned.Closes2, returns2),
		},

		Dates:              formatDates(returnDates),
		Returns1:           returns1,
		Returns2:           returns2,
		CumulativeReturns1: CumulativeReturns(returns1),
		CumulativeReturns2: CumulativeReturns(returns2),

		Regression: m.RegressionMetrics{
			Alpha:    regression.Alpha,
			Beta:     regression.Beta,
			RSquared: regression.RSquared,
		},
		Stationarity: m.StationarityMetrics{
			Statistic:  adf.Statistic,
			PValue:     adf.PValue,
			UsedLag:    adf.UsedLag,
			Stationary: adf.PValue < stationarityPValueThreshold,
		},

		Residuals:  regression.Residuals,
		Spread:     spread,
		Percentile: req.Percentile,
		LowerBand:  lower,
		UpperBand:  upper,

		RollingRatio: m.RollingRatioSeries{
			Window: req.RollingWindow,
			Dates:  formatDates(ratioDates),
			Values: ratioValues,
		},
	}, nil
}

func buildTickerSummary(ticker string, closes, returns []float64) m.TickerSummary {
	return m.TickerSummary{
		Ticker:         ticker,
		LastClose:      closes[len(closes)-1],
		DailyChangePct: returns[len(returns)-1] * 100,
	}
}

func formatDates(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = ex.FmtShort(d)
	}
	return out
}

func mapPairAnalysisRequestToRun(req m.PairAnalysisRequest, startDate, endDate time.Time) dm.NewPairAnalysisRun {
	return dm.NewPairAnalysisRun{
		Ticker1:       req.Ticker1,
		Ticker2:       req.Ticker2,
		StartDate:     startDate,
		EndDate:       endDate,
		RollingWindow: req.RollingWindow,
		Percentile:    req.Percentile,
	}
}
