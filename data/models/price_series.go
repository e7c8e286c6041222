package models

import (
	"time"

	"github.com/guregu/null/v6"
)

type PriceSeriesResult struct {
	Metadata *PriceSeriesMetadata
	Points   []*PricePoint
}

type PriceSeriesMetadata struct {
	Id            int32     `db:"id"`
	Symbol        string    `db:"symbol"`
	LastRefreshed time.Time `db:"last_refreshed"`
}

// PricePoint is one daily close. Close is nullable because the Yahoo chart
// API returns null entries for halted or partially traded sessions.
type PricePoint struct {
	SourceId int32      `db:"source_id"`
	Date     time.Time  `db:"date"`
	Close    null.Float `db:"close"`
}
