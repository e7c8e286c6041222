package core

import (
	"context"
	"fmt"
	"log"
	"time"

	ex "github.com/s1de-walker/Pairs-Watch/data/extensions"
	m "github.com/s1de-walker/Pairs-Watch/data/models"
)

const (
	refreshInterval = time.Hour * 24

	// markets close on weekends and holidays, so the newest cached bar can
	// trail the requested end date by a long weekend without being stale
	closedMarketAllowance = time.Hour * 24 * 4
)

// SyncSymbolPriceData makes sure the price cache covers the requested range
// for a symbol, pulling daily closes from yahoo when it does not.
func (sc *ServiceContext) SyncSymbolPriceData(ctx context.Context, symbol string, from, to time.Time) error {
	md, err := sc.PostgresConnection.GetPriceMetadataBySymbol(ctx, symbol)
	if err != nil {
		return fmt.Errorf("error determining if price metadata exists in sync data: %w", err)
	}

	if md == nil {
		log.Printf("adding new symbol to db: %s", symbol)
		md = &m.PriceSeriesMetadata{
			Symbol:        symbol,
			LastRefreshed: time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC),
		}

		if err := sc.PostgresConnection.InsertNewPriceMetadata(ctx, md, nil); err != nil {
			return fmt.Errorf("error adding %s to db: %w", symbol, err)
		}
	}

	oldest, newest, err := sc.PostgresConnection.GetPriceDateRange(ctx, symbol)
	if err != nil {
		return fmt.Errorf("error getting cached date range for symbol %s: %w", symbol, err)
	}

	if priceCacheCoversRange(md.LastRefreshed, oldest, newest, from, to, time.Now()) {
		log.Printf("symbol %s was refreshed %s and covers %s to %s, skipping sync", symbol, ex.FmtLong(md.LastRefreshed), ex.FmtShort(from), ex.FmtShort(to))
		return nil
	}

	res, err := sc.YahooClient.GetDailyCloses(symbol, from, to)
	if err != nil {
		return err
	}

	if len(res.Points) == 0 {
		return fmt.Errorf("yahoo returned no price points for symbol %s between %s and %s", symbol, ex.FmtShort(from), ex.FmtShort(to))
	}

	// only insert dates outside what is already cached, the range in between
	// is assumed contiguous
	f := func(p *m.PricePoint) bool {
		if oldest == nil || newest == nil {
			return true
		}
		return p.Date.Before(*oldest) || p.Date.After(*newest)
	}
	toInsert := ex.FilterMultiplePtr(res.Points, f)

	tx, err := sc.PostgresConnection.GetTransaction(ctx)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) // this will kick off if we return before committing

	var ra int64
	if len(toInsert) > 0 {
		ra, err = sc.PostgresConnection.InsertPriceData(ctx, toInsert, md.Id, &tx)
		if err != nil {
			return fmt.Errorf("error inserting price data: %w", err)
		}
	}

	if err := sc.PostgresConnection.UpdateLastRefreshedDate(ctx, symbol, res.Metadata.LastRefreshed, &tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing transaction to sync symbol %s: %w", symbol, err)
	}

	log.Printf("symbol %s got %v price points from yahoo, inserted %v rows", symbol, len(res.Points), ra)
	return nil
}

// priceCacheCoversRange decides whether the cache can serve a request without
// a fetch. Both ends of the cached range matter: a stale or missing oldest bar
// means the start is uncovered, and a newest bar that stops short of the
// requested end means a previous, narrower request left the tail unfetched.
func priceCacheCoversRange(lastRefreshed time.Time, oldest, newest *time.Time, from, to, now time.Time) bool {
	if !lastRefreshed.After(now.Add(-refreshInterval)) {
		return false
	}
	if oldest == nil || newest == nil {
		return false
	}
	if oldest.After(from) {
		return false
	}
	return !newest.Before(to.Add(-closedMarketAllowance))
}
