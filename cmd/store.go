package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/aeo-monitor/internal/collector"
	"github.com/sells-group/aeo-monitor/internal/platform"
	"github.com/sells-group/aeo-monitor/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "aeo-monitor.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initCollector(st store.Store) *collector.Collector {
	factory := platform.NewFactory(cfg, platform.CredentialsFromConfig(cfg))
	return collector.New(st, factory,
		collector.WithMaxConcurrent(cfg.Collector.MaxConcurrent),
		collector.WithRequestTimeout(time.Duration(cfg.Collector.RequestTimeoutSecs)*time.Second),
	)
}
