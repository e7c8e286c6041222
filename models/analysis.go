package models

import "slices"

// tickerOptions is the fixed universe users can pick pairs from.
var tickerOptions = []string{
	"SPY", "QQQ", "AAPL", "GOOGL", "MSFT", "AMZN", "TSLA",
	"NVDA", "AMD", "META", "NFLX", "NKE", "ADDYY",
}

var percentileOptions = []int{1, 3, 5}

const (
	DefaultRollingWindow = 30
	MaxRollingWindow     = 365
	DefaultPercentile    = 3
	DefaultLookbackDays  = 180
)

// AnalysisOptionsResources is what the front end renders its selectors from.
// Keeping the option sets server side makes sure everything is mapped
// correctly, so the UI and the validation share one source.
type AnalysisOptionsResources struct {
	Tickers              []string `json:"tickers"`
	Percentiles          []int    `json:"percentiles"`
	DefaultRollingWindow int      `json:"defaultRollingWindow"`
	MaxRollingWindow     int      `json:"maxRollingWindow"`
	DefaultPercentile    int      `json:"defaultPercentile"`
	DefaultLookbackDays  int      `json:"defaultLookbackDays"`
}

func GetAnalysisOptionsResources() AnalysisOptionsResources {
	return AnalysisOptionsResources{
		Tickers:              slices.Clone(tickerOptions),
		Percentiles:          slices.Clone(percentileOptions),
		DefaultRollingWindow: DefaultRollingWindow,
		MaxRollingWindow:     MaxRollingWindow,
		DefaultPercentile:    DefaultPercentile,
		DefaultLookbackDays:  DefaultLookbackDays,
	}
}

func IsAllowedTicker(ticker string) bool {
	return slices.Contains(tickerOptions, ticker)
}

func IsAllowedPercentile(percentile int) bool {
	return slices.Contains(percentileOptions, percentile)
}

// PairAnalysisRequest will be the request from the front end to the analysis controller
type PairAnalysisRequest struct {
	Ticker1       string `json:"ticker1"` // independent variable (X)
	Ticker2       string `json:"ticker2"` // dependent variable (Y)
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	RollingWindow int    `json:"rollingWindow"`
	Percentile    int    `json:"percentile"`
}

// PairAnalysisResponse will be the response from the analysis controller and what is sent to the front end
type PairAnalysisResponse struct {
	Ticker1   string `json:"ticker1"`
	Ticker2   string `json:"ticker2"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`

	Summary MarketSummary `json:"marketSummary"`

	Dates              []string  `json:"dates"`
	Returns1           []float64 `json:"returns1"`
	Returns2           []float64 `json:"returns2"`
	CumulativeReturns1 []float64 `json:"cumulativeReturns1"`
	CumulativeReturns2 []float64 `json:"cumulativeReturns2"`

	Regression   RegressionMetrics   `json:"regression"`
	Stationarity StationarityMetrics `json:"stationarity"`

	Residuals  []float64 `json:"residuals"`
	Spread     []float64 `json:"spread"`
	Percentile int       `json:"percentile"`
	LowerBand  float64   `json:"lowerBand"`
	UpperBand  float64   `json:"upperBand"`

	RollingRatio RollingRatioSeries `json:"rollingRatio"`
}

// MarketSummary shows the latest close and daily move for both legs of the pair
type MarketSummary struct {
	Ticker1 TickerSummary `json:"ticker1"`
	Ticker2 TickerSummary `json:"ticker2"`
}

type TickerSummary struct {
	Ticker         string  `json:"ticker"`
	LastClose      float64 `json:"lastClose"`
	DailyChangePct float64 `json:"dailyChangePct"`
}

type RegressionMetrics struct {
	Alpha    float64 `json:"alpha"`
	Beta     float64 `json:"beta"`
	RSquared float64 `json:"rSquared"`
}

// StationarityMetrics carries the ADF test on the spread. The spread is
// stationary when the p-value is below 0.05.
type StationarityMetrics struct {
	Statistic  float64 `json:"statistic"`
	PValue     float64 `json:"pValue"`
	UsedLag    int     `json:"usedLag"`
	Stationary bool    `json:"stationary"`
}

// RollingRatioSeries is std(X returns, window) / std(Y returns, window).
// Shorter than the return series by window-1, plus any rows dropped for a
// degenerate denominator.
type RollingRatioSeries struct {
	Window int       `json:"window"`
	Dates  []string  `json:"dates"`
	Values []float64 `json:"values"`
}

// AnalysisRunRecord is the JSON view of one run-history row
type AnalysisRunRecord struct {
	Id            int32  `json:"id"`
	Ticker1       string `json:"ticker1"`
	Ticker2       string `json:"ticker2"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	RollingWindow int    `json:"rollingWindow"`
	Percentile    int    `json:"percentile"`
	Succeeded     bool   `json:"succeeded"`
	ErrorMessage  string `json:"errorMessage,omitempty"`
	CreatedAt     string `json:"createdAt"`
}
