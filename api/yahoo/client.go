package yahoo

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/guregu/null/v6"

	c "github.com/s1de-walker/Pairs-Watch/api"
	m "github.com/s1de-walker/Pairs-Watch/data/models"
)

// public
const (
	HostDefault = "query1.finance.yahoo.com"
)

// private
const (
	defaultTimeout = time.Second * 30

	// Yahoo answers 401/429 to generic clients, so we present a browser
	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	chartPathPrefix = "v8/finance/chart/"

	interval  = "interval"
	period1   = "period1"
	period2   = "period2"
	dailyBars = "1d"
)

type YahooClient struct {
	*c.Client
}

func GetClient() YahooClient {
	return YahooClient{
		c.ClientFactory(HostDefault, defaultUserAgent, defaultTimeout),
	}
}

// https://query1.finance.yahoo.com/v8/finance/chart/SPY?interval=1d&period1=...&period2=...
// GetDailyCloses queries daily closing prices for a ticker, from and to inclusive.
func (yc YahooClient) GetDailyCloses(ticker string, from, to time.Time) (*m.PriceSeriesResult, error) {
	endpoint := buildChartPath(ticker, from, to)

	response, err := yc.Client.Connection.Request(endpoint)
	if err != nil {
		return nil, err
	}

	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo chart request for %s returned status %d", ticker, response.StatusCode)
	}

	return parseChartRequestResult(response.Body, ticker)
}

func buildChartPath(ticker string, from, to time.Time) *url.URL {
	endpoint := &url.URL{}
	endpoint.Path = chartPathPrefix + ticker

	query := endpoint.Query()
	query.Set(interval, dailyBars)
	query.Set(period1, strconv.FormatInt(from.Unix(), 10))
	// period2 is exclusive on the Yahoo side, push it one day out
	query.Set(period2, strconv.FormatInt(to.AddDate(0, 0, 1).Unix(), 10))
	endpoint.RawQuery = query.Encode()

	return endpoint
}

type chartResultRaw struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol               string `json:"symbol"`
				Currency             string `json:"currency"`
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
				RegularMarketTime    int64  `json:"regularMarketTime"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func parseChartRequestResult(reader io.Reader, ticker string) (*m.PriceSeriesResult, error) {
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	var raw chartResultRaw
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("error unmarshaling response: %w", err)
	}

	if raw.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart error for %s: %s (%s)", ticker, raw.Chart.Error.Description, raw.Chart.Error.Code)
	}

	if len(raw.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo chart response for %s holds no result", ticker)
	}

	result := raw.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo chart response for %s holds no quote indicators", ticker)
	}

	location := getTimeZone(result.Meta.ExchangeTimezoneName)
	closes := result.Indicators.Quote[0].Close

	points := make([]*m.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) {
			break
		}

		// bar timestamps are session opens in exchange time, normalize to a UTC date
		sessionDay := time.Unix(ts, 0).In(location)
		y, mo, d := sessionDay.Date()

		points = append(points, &m.PricePoint{
			Date:  time.Date(y, mo, d, 0, 0, 0, 0, time.UTC),
			Close: parseClose(closes[i]),
		})
	}

	slices.SortFunc(points, func(a, b *m.PricePoint) int {
		return a.Date.Compare(b.Date)
	})

	symbol := result.Meta.Symbol
	if symbol == "" {
		symbol = ticker
	}

	lastRefreshed := time.Unix(result.Meta.RegularMarketTime, 0).UTC()
	if result.Meta.RegularMarketTime == 0 && len(points) > 0 {
		lastRefreshed = points[len(points)-1].Date
	}

	return &m.PriceSeriesResult{
		Metadata: &m.PriceSeriesMetadata{
			Symbol:        symbol,
			LastRefreshed: lastRefreshed,
		},
		Points: points,
	}, nil
}

func getTimeZone(location string) *time.Location {
	if location == "" {
		return time.UTC
	}

	res, err := time.LoadLocation(location)
	if err != nil {
		log.Printf("time zone %s is not recognized, falling back to UTC", location)
		return time.UTC
	}

	return res
}

func parseClose(val *float64) null.Float {
	if val == nil {
		return null.NewFloat(0, false)
	}
	return null.FloatFrom(*val)
}
