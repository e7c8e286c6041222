package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	m "github.com/s1de-walker/Pairs-Watch/data/models"
)

// GetPriceData returns the cached daily closes for a symbol inside the
// requested date range, oldest first. The statistics pipeline expects
// ascending order.
func (pg *Postgres) GetPriceData(ctx context.Context, symbol string, from, to time.Time) ([]*m.PricePoint, error) {
	query := `
		SELECT
			psd.source_id,
			psd."date",
			psd."close"
		FROM price_series_data psd
		JOIN price_series_metadata psm ON psd.source_id = psm.id
		WHERE psm.symbol = @symbol
			AND psd."date" >= @from
			AND psd."date" <= @to
		ORDER BY psd."date" ASC`

	args := pgx.NamedArgs{
		"symbol": symbol,
		"from":   from,
		"to":     to,
	}

	res, err := Query[m.PricePoint](ctx, pg, query, args)
	if err != nil {
		return nil, fmt.Errorf("unable to query price data by symbol (%s): %w", symbol, err)
	}
	return res, nil
}

// GetPriceDateRange returns the oldest and newest cached dates for a symbol,
// or nils when nothing is cached yet.
func (pg *Postgres) GetPriceDateRange(ctx context.Context, symbol string) (*time.Time, *time.Time, error) {
	query := `
		SELECT
			min(psd."date"),
			max(psd."date")
		FROM price_series_data psd
		JOIN price_series_metadata psm ON psd.source_id = psm.id
		WHERE psm.symbol = @symbol`

	args := pgx.NamedArgs{
		"symbol": symbol,
	}

	var oldest, newest *time.Time
	if err := pg.db.QueryRow(ctx, query, args).Scan(&oldest, &newest); err != nil {
		return nil, nil, fmt.Errorf("unable to query price date range for symbol (%s): %w", symbol, err)
	}

	return oldest, newest, nil
}

func (pg *Postgres) InsertPriceData(ctx context.Context, points []*m.PricePoint, sourceId int32, tx *pgx.Tx) (int64, error) {
	columns := []string{"source_id", "date", "close"}

	entries := make([][]any, len(points))
	for i, ent := range points {
		entries[i] = []any{sourceId, ent.Date, ent.Close}
	}

	return pg.BulkInsert(ctx, "price_series_data", columns, entries, tx)
}
