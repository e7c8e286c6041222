package core

import (
	"testing"
	"time"
)

func TestPriceCacheCoversRange(t *testing.T) {
	day := func(m time.Month, d int) time.Time { return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC) }
	ptr := func(t time.Time) *time.Time { return &t }

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	fresh := now.Add(-time.Hour)
	stale := now.Add(-25 * time.Hour)

	cases := []struct {
		name           string
		lastRefreshed  time.Time
		oldest, newest *time.Time
		from, to       time.Time
		covered        bool
	}{
		{
			name:          "fresh cache covering the full range",
			lastRefreshed: fresh,
			oldest:        ptr(day(time.January, 1)),
			newest:        ptr(day(time.February, 28)),
			from:          day(time.January, 1),
			to:            day(time.February, 28),
			covered:       true,
		},
		{
			name:          "stale metadata forces a fetch",
			lastRefreshed: stale,
			oldest:        ptr(day(time.January, 1)),
			newest:        ptr(day(time.February, 28)),
			from:          day(time.January, 1),
			to:            day(time.February, 28),
			covered:       false,
		},
		{
			name:          "empty cache forces a fetch",
			lastRefreshed: fresh,
			oldest:        nil,
			newest:        nil,
			from:          day(time.January, 1),
			to:            day(time.February, 28),
			covered:       false,
		},
		{
			name:          "request starting before the cached range forces a fetch",
			lastRefreshed: fresh,
			oldest:        ptr(day(time.January, 15)),
			newest:        ptr(day(time.February, 28)),
			from:          day(time.January, 1),
			to:            day(time.February, 28),
			covered:       false,
		},
		{
			// a narrower request filled the cache yesterday; widening the end
			// date must not silently serve the truncated tail
			name:          "request ending after the cached range forces a fetch",
			lastRefreshed: fresh,
			oldest:        ptr(day(time.January, 1)),
			newest:        ptr(day(time.February, 28)),
			from:          day(time.January, 1),
			to:            day(time.June, 30),
			covered:       false,
		},
		{
			// end date on a sunday, newest bar is the friday before
			name:          "newest bar trailing the end by a long weekend still covers",
			lastRefreshed: fresh,
			oldest:        ptr(day(time.January, 1)),
			newest:        ptr(day(time.February, 23)),
			from:          day(time.January, 1),
			to:            day(time.February, 25),
			covered:       true,
		},
		{
			name:          "newest bar trailing the end by more than the closed market allowance forces a fetch",
			lastRefreshed: fresh,
			oldest:        ptr(day(time.January, 1)),
			newest:        ptr(day(time.February, 19)),
			from:          day(time.January, 1),
			to:            day(time.February, 28),
			covered:       false,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := priceCacheCoversRange(c.lastRefreshed, c.oldest, c.newest, c.from, c.to, now)
			if got != c.covered {
				t.Errorf("Expected covered=%v, got %v", c.covered, got)
			}
		})
	}
}
