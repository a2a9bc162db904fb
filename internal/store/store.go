package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/aeo-monitor/internal/model"
)

// ErrNotFound is wrapped by both backends when a lookup matches no row.
var ErrNotFound = eris.New("not found")

// ResponseStats aggregates persisted responses over a lookback window.
type ResponseStats struct {
	Count        int
	AvgSentiment float64
	AvgAccuracy  float64
	ByPlatform   map[string]int
}

// Store defines the persistence contract the collection engine needs.
type Store interface {
	// Projects and queries
	CreateProject(ctx context.Context, p model.Project) (*model.Project, error)
	GetProject(ctx context.Context, projectID string) (*model.Project, error)
	ListProjects(ctx context.Context) ([]model.Project, error)
	AddQuery(ctx context.Context, q model.TrackedQuery) (*model.TrackedQuery, error)
	ListActiveQueries(ctx context.Context, projectID string) ([]model.TrackedQuery, error)

	// Collection output
	InsertResponse(ctx context.Context, rec model.ResponseRecord) error
	InsertRun(ctx context.Context, run model.CollectionRun) error
	ListRunsSince(ctx context.Context, since time.Time) ([]model.CollectionRun, error)
	ResponseStatsSince(ctx context.Context, since time.Time) (*ResponseStats, error)

	// Competitor-analysis cache
	CacheGet(ctx context.Context, key string) ([]byte, bool, error)
	CachePut(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteExpiredCache(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
