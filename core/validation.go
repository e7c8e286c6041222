package core

import (
	"fmt"
	"time"

	m "github.com/s1de-walker/Pairs-Watch/models"
)

// ValidationError marks a request the user can fix, as opposed to an
// upstream or internal failure.
type ValidationError struct {
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}

func newValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{message: fmt.Sprintf(format, args...)}
}

// ValidatePairAnalysisRequest checks the request against the ticker
// allow-list and the date/window contract. On success it returns the parsed
// start and end dates as UTC midnights. When any check fails the analysis
// pipeline must not run.
func ValidatePairAnalysisRequest(req m.PairAnalysisRequest, now time.Time) (start, end time.Time, err error) {
	if !m.IsAllowedTicker(req.Ticker1) {
		return start, end, newValidationError("ticker %q is not in the supported list", req.Ticker1)
	}
	if !m.IsAllowedTicker(req.Ticker2) {
		return start, end, newValidationError("ticker %q is not in the supported list", req.Ticker2)
	}
	if req.Ticker1 == req.Ticker2 {
		return start, end, newValidationError("select two different tickers, got %s twice", req.Ticker1)
	}

	start, err = time.ParseInLocation(time.DateOnly, req.StartDate, time.UTC)
	if err != nil {
		return start, end, newValidationError("start date %q is not a valid YYYY-MM-DD date", req.StartDate)
	}
	end, err = time.ParseInLocation(time.DateOnly, req.EndDate, time.UTC)
	if err != nil {
		return start, end, newValidationError("end date %q is not a valid YYYY-MM-DD date", req.EndDate)
	}

	if end.Before(start) {
		return start, end, newValidationError("end date cannot be earlier than start date")
	}

	todayY, todayM, todayD := now.UTC().Date()
	today := time.Date(todayY, todayM, todayD, 0, 0, 0, 0, time.UTC)
	if start.After(today) || end.After(today) {
		return start, end, newValidationError("dates cannot be in the future")
	}

	if req.RollingWindow < 1 || req.RollingWindow > m.MaxRollingWindow {
		return start, end, newValidationError("rolling window must be between 1 and %d days, got %d", m.MaxRollingWindow, req.RollingWindow)
	}
	if spanDays := int(end.Sub(start).Hours() / 24); req.RollingWindow > spanDays {
		return start, end, newValidationError("rolling window of %d days exceeds the %d day span between start and end", req.RollingWindow, spanDays)
	}

	if !m.IsAllowedPercentile(req.Percentile) {
		return start, end, newValidationError("percentile %d is not supported", req.Percentile)
	}

	return start, end, nil
}
