package core

import (
	"context"

	"github.com/s1de-walker/Pairs-Watch/api/yahoo"
	r "github.com/s1de-walker/Pairs-Watch/data/repos"
)

type ServiceContext struct {
	Context            context.Context
	PostgresConnection *r.Postgres
	YahooClient        yahoo.YahooClient
}
