package queries

import (
	"embed"
	"fmt"
)

//go:embed insert/*.sql select/*.sql update/*.sql
var Files embed.FS

// ^^^ the go:embed directive is used to embed the files in the queries package
// meaning on compile time it will convert the files to binary data and embed it in the queries package

type InsertQueries struct {
	PairAnalysisRun string
}

type SelectQueries struct {
	RecentPairAnalysisRuns string
}

type UpdateQueries struct {
	PairAnalysisRun string
}

type QueryHelperStruct struct {
	Insert InsertQueries
	Select SelectQueries
	Update UpdateQueries
}

var QueryHelper = QueryHelperStruct{
	Insert: InsertQueries{
		PairAnalysisRun: "insert/pair_analysis_run.sql",
	},
	Select: SelectQueries{
		RecentPairAnalysisRuns: "select/recent_pair_analysis_runs.sql",
	},
	Update: UpdateQueries{
		PairAnalysisRun: "update/pair_analysis_run.sql",
	},
}

func Get(path string) string {
	content, err := Files.ReadFile(path)
	if err != nil {
		panic(fmt.Errorf("error reading query file: %w", err))
	}

	return string(content)
}
