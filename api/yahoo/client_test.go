package yahoo

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	c "github.com/s1de-walker/Pairs-Watch/api"
	ex "github.com/s1de-walker/Pairs-Watch/data/extensions"
)

// mockConnection hands back a canned response and records the endpoint it was
// asked for, so the tests never touch yahoo
type mockConnection struct {
	response  *http.Response
	err       error
	requested *url.URL
}

func (mc *mockConnection) Request(endpoint *url.URL) (*http.Response, error) {
	mc.requested = endpoint
	return mc.response, mc.err
}

func getMockedClient(t *testing.T, status int, body string) (YahooClient, *mockConnection) {
	t.Helper()
	conn := &mockConnection{
		response: &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(bytes.NewBufferString(body)),
		},
	}
	return YahooClient{&c.Client{Connection: conn}}, conn
}

// three sessions of SPY with the middle close missing, timestamps are 09:30
// America/New_York opens
const chartFixture = `{
	"chart": {
		"result": [{
			"meta": {
				"symbol": "SPY",
				"currency": "USD",
				"exchangeTimezoneName": "America/New_York",
				"regularMarketTime": 1704488400
			},
			"timestamp": [1704205800, 1704292200, 1704378600],
			"indicators": {
				"quote": [{
					"close": [470.38, null, 468.79]
				}]
			}
		}],
		"error": null
	}
}`

const chartErrorFixture = `{
	"chart": {
		"result": null,
		"error": {
			"code": "Not Found",
			"description": "No data found, symbol may be delisted"
		}
	}
}`

func Test_Yahoo_GetDailyCloses(t *testing.T) {
	yc, conn := getMockedClient(t, http.StatusOK, chartFixture)

	from := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)

	res, err := yc.GetDailyCloses("SPY", from, to)
	if err != nil {
		t.Fatalf("error getting daily closes: %s", err)
	}

	// request shape
	ex.AssertAreEqual(t, "path", "v8/finance/chart/SPY", conn.requested.Path)
	query := conn.requested.Query()
	ex.AssertAreEqual(t, "interval", "1d", query.Get("interval"))
	ex.AssertAreEqual(t, "period1", "1704153600", query.Get("period1"))
	// period2 is pushed one day out since yahoo treats it as exclusive
	ex.AssertAreEqual(t, "period2", "1704412800", query.Get("period2"))

	// metadata
	ex.AssertAreEqual(t, "symbol", "SPY", res.Metadata.Symbol)
	ex.AssertAreEqual(t, "last refreshed", time.Unix(1704488400, 0).UTC(), res.Metadata.LastRefreshed)

	// points come back ascending, normalized to UTC midnight dates
	if len(res.Points) != 3 {
		t.Fatalf("expected 3 price points, got %d", len(res.Points))
	}

	expectedDates := []time.Time{
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
	}
	for i, expected := range expectedDates {
		ex.AssertAreEqual(t, "date", expected, res.Points[i].Date)
	}

	ex.AssertAreEqual(t, "first close", 470.38, res.Points[0].Close.Float64)
	ex.AssertNillability(t, "missing close", true, res.Points[1].Close.Ptr())
	ex.AssertAreEqual(t, "last close", 468.79, res.Points[2].Close.Float64)
}

func Test_Yahoo_GetDailyCloses_ErrorPayload(t *testing.T) {
	yc, _ := getMockedClient(t, http.StatusOK, chartErrorFixture)

	from := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)

	_, err := yc.GetDailyCloses("NOPE", from, to)
	if err == nil {
		t.Fatalf("expected an error for a yahoo error payload, got nil")
	}
	if !strings.Contains(err.Error(), "No data found") {
		t.Fatalf("error should carry the yahoo description, got: %s", err)
	}
}

func Test_Yahoo_GetDailyCloses_BadStatus(t *testing.T) {
	yc, _ := getMockedClient(t, http.StatusTooManyRequests, "slow down")

	from := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)

	_, err := yc.GetDailyCloses("SPY", from, to)
	if err == nil {
		t.Fatalf("expected an error for a 429 status, got nil")
	}
}

func Test_Yahoo_GetDailyCloses_EmptyResult(t *testing.T) {
	yc, _ := getMockedClient(t, http.StatusOK, `{"chart": {"result": [], "error": null}}`)

	from := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)

	_, err := yc.GetDailyCloses("SPY", from, to)
	if err == nil {
		t.Fatalf("expected an error for an empty result, got nil")
	}
}

func Test_Yahoo_TimeZoneFallback(t *testing.T) {
	ex.AssertAreEqual(t, "empty zone", time.UTC, getTimeZone(""))
	ex.AssertAreEqual(t, "unknown zone", time.UTC, getTimeZone("Not/AZone"))

	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("error parsing time zone: %s", err)
	}
	ex.AssertAreEqual(t, "known zone", ny.String(), getTimeZone("America/New_York").String())
}
