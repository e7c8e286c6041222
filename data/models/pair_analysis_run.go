package models

import (
	"time"

	"github.com/guregu/null/v6"
)

type NewPairAnalysisRun struct {
	Ticker1       string
	Ticker2       string
	StartDate     time.Time
	EndDate       time.Time
	RollingWindow int
	Percentile    int
}

type PairAnalysisRun struct {
	Id            int32       `db:"id"`
	Ticker1       string      `db:"ticker_1"`
	Ticker2       string      `db:"ticker_2"`
	StartDate     time.Time   `db:"start_date"`
	EndDate       time.Time   `db:"end_date"`
	RollingWindow int32       `db:"rolling_window"`
	Percentile    int32       `db:"percentile"`
	ErrorMessage  null.String `db:"error_message"`
	CreatedAt     time.Time   `db:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at"`
}
