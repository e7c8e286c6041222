package repos

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	m "github.com/s1de-walker/Pairs-Watch/data/models"
	q "github.com/s1de-walker/Pairs-Watch/data/queries"
)

func (pg *Postgres) InsertPairAnalysisRun(ctx context.Context, run m.NewPairAnalysisRun) (int32, error) {
	sql := q.Get(q.QueryHelper.Insert.PairAnalysisRun)
	args := pgx.NamedArgs{
		"ticker_1":       run.Ticker1,
		"ticker_2":       run.Ticker2,
		"start_date":     run.StartDate,
		"end_date":       run.EndDate,
		"rolling_window": run.RollingWindow,
		"percentile":     run.Percentile,
	}

	var runId int32
	if err := pg.db.QueryRow(ctx, sql, args).Scan(&runId); err != nil {
		return 0, fmt.Errorf("error inserting pair analysis run: %w", err)
	}

	return runId, nil
}

func (pg *Postgres) UpdatePairAnalysisRunAsFailure(ctx context.Context, runId int32, errorMessage string) error {
	cleanErrorMessage := strings.TrimSpace(errorMessage)
	if cleanErrorMessage == "" {
		return fmt.Errorf("error message is required if an analysis run is failing, occurred in %d", runId)
	}

	return pg.updatePairAnalysisRun(ctx, pgx.NamedArgs{
		"id":            runId,
		"error_message": cleanErrorMessage,
	})
}

func (pg *Postgres) UpdatePairAnalysisRunAsSuccess(ctx context.Context, runId int32) error {
	return pg.updatePairAnalysisRun(ctx, pgx.NamedArgs{
		"id":            runId,
		"error_message": nil,
	})
}

func (pg *Postgres) updatePairAnalysisRun(ctx context.Context, args pgx.NamedArgs) error {
	sql := q.Get(q.QueryHelper.Update.PairAnalysisRun)
	if _, err := pg.db.Exec(ctx, sql, args); err != nil {
		return fmt.Errorf("error updating pair analysis run: %w", err)
	}
	return nil
}

func (pg *Postgres) GetRecentPairAnalysisRuns(ctx context.Context, limit int) ([]*m.PairAnalysisRun, error) {
	sql := q.Get(q.QueryHelper.Select.RecentPairAnalysisRuns)
	args := pgx.NamedArgs{
		"limit": limit,
	}

	res, err := Query[m.PairAnalysisRun](ctx, pg, sql, args)
	if err != nil {
		return nil, fmt.Errorf("unable to query recent pair analysis runs: %w", err)
	}
	return res, nil
}
