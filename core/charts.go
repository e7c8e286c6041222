package core

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	m "github.com/s1de-walker/Pairs-Watch/models"
)

// chart colors, first ticker orange and second ticker blue
const (
	colorTicker1 = "#fb580d"
	colorTicker2 = "#5cc8e2"
)

const (
	chartWidth  = "1200px"
	chartHeight = "450px"
)

// BuildAnalysisPage renders the full analysis as one scrollable page of
// interactive charts: cumulative returns, the daily return scatter, the
// residual series with its percentile bands, and the rolling volatility ratio.
func BuildAnalysisPage(res *m.PairAnalysisResponse) *components.Page {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("Pair Watch: %s / %s", res.Ticker1, res.Ticker2)
	page.AddCharts(
		buildCumulativeReturnsChart(res),
		buildReturnScatterChart(res),
		buildResidualChart(res),
		buildRollingRatioChart(res),
	)
	return page
}

func RenderAnalysisPage(w io.Writer, res *m.PairAnalysisResponse) error {
	if err := BuildAnalysisPage(res).Render(w); err != nil {
		return fmt.Errorf("error rendering analysis page: %w", err)
	}
	return nil
}

func buildCumulativeReturnsChart(res *m.PairAnalysisResponse) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Cumulative Returns: %s vs %s", res.Ticker1, res.Ticker2),
			Subtitle: fmt.Sprintf("%s to %s", res.StartDate, res.EndDate),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)

	line.SetXAxis(res.Dates).
		AddSeries(res.Ticker1, toLineData(res.CumulativeReturns1),
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorTicker1}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colorTicker1})).
		AddSeries(res.Ticker2, toLineData(res.CumulativeReturns2),
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorTicker2}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colorTicker2}))

	return line
}

func buildReturnScatterChart(res *m.PairAnalysisResponse) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("Daily Returns: %s vs %s", res.Ticker1, res.Ticker2),
			Subtitle: fmt.Sprintf("beta = %.4f, alpha = %.6f, R-squared = %.4f",
				res.Regression.Beta, res.Regression.Alpha, res.Regression.RSquared),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: res.Ticker1, Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: res.Ticker2, Type: "value"}),
	)

	points := make([]opts.ScatterData, len(res.Returns1))
	for i := range res.Returns1 {
		points[i] = opts.ScatterData{
			Value:      []interface{}{res.Returns1[i], res.Returns2[i]},
			SymbolSize: 6,
		}
	}

	scatter.AddSeries(fmt.Sprintf("%s/%s", res.Ticker1, res.Ticker2), points,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colorTicker2}))

	return scatter
}

func buildResidualChart(res *m.PairAnalysisResponse) *charts.Line {
	stationarity := "not stationary"
	if res.Stationarity.Stationary {
		stationarity = "stationary"
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{
			Title: "Regression Residuals with Percentile Bands",
			Subtitle: fmt.Sprintf("ADF statistic = %.4f, p-value = %.4f (%s), bands at %d%%/%d%%",
				res.Stationarity.Statistic, res.Stationarity.PValue, stationarity,
				res.Percentile, 100-res.Percentile),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)

	line.SetXAxis(res.Dates).
		AddSeries("Residual", toLineData(res.Residuals),
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorTicker1}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colorTicker1})).
		AddSeries("Lower Band", toConstantLineData(res.LowerBand, len(res.Residuals)),
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorTicker2, Type: "dashed"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colorTicker2})).
		AddSeries("Upper Band", toConstantLineData(res.UpperBand, len(res.Residuals)),
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorTicker2, Type: "dashed"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colorTicker2}))

	return line
}

func buildRollingRatioChart(res *m.PairAnalysisResponse) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Rolling Volatility Ratio (%d day window)", res.RollingRatio.Window),
			Subtitle: fmt.Sprintf("std(%s) / std(%s)", res.Ticker1, res.Ticker2),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)

	line.SetXAxis(res.RollingRatio.Dates).
		AddSeries("Volatility Ratio", toLineData(res.RollingRatio.Values),
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorTicker1}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colorTicker1}))

	return line
}

func toLineData(values []float64) []opts.LineData {
	out := make([]opts.LineData, len(values))
	for i, v := range values {
		out[i] = opts.LineData{Value: v}
	}
	return out
}

func toConstantLineData(value float64, n int) []opts.LineData {
	out := make([]opts.LineData, n)
	for i := range out {
		out[i] = opts.LineData{Value: value}
	}
	return out
}
