package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/aeo-monitor/internal/model"
)

// Pool abstracts the pgxpool methods the store uses, so tests can
// substitute pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the hot collection-loop paths.
var preparedStatements = map[string]string{
	"insert_response": `INSERT INTO responses (id, project_id, query_id, platform, response_text, brand_mentions, brand_position, sentiment_score, accuracy_score, response_length, collected_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
	"insert_run":      `INSERT INTO collection_runs (id, project_id, total, successful, failed, started_at, finished_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
	"get_project":     `SELECT id, name, brand_name, domain, industry, status, created_at FROM projects WHERE id = $1`,
	"list_queries":    `SELECT id, project_id, text, priority, is_active FROM tracked_queries WHERE project_id = $1 AND is_active ORDER BY priority, id`,
	"cache_get":       `SELECT value FROM analysis_cache WHERE key = $1 AND expires_at > now()`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS projects (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	name       TEXT NOT NULL,
	brand_name TEXT NOT NULL,
	domain     TEXT NOT NULL DEFAULT '',
	industry   TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL DEFAULT 'active',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS tracked_queries (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	project_id TEXT NOT NULL REFERENCES projects(id),
	text       TEXT NOT NULL,
	priority   INT NOT NULL DEFAULT 0,
	is_active  BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS responses (
	id              TEXT PRIMARY KEY,
	project_id      TEXT NOT NULL REFERENCES projects(id),
	query_id        TEXT NOT NULL,
	platform        TEXT NOT NULL,
	response_text   TEXT NOT NULL,
	brand_mentions  INT NOT NULL DEFAULT 0,
	brand_position  INT,
	sentiment_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	accuracy_score  DOUBLE PRECISION NOT NULL DEFAULT 0,
	response_length INT NOT NULL DEFAULT 0,
	collected_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS collection_runs (
	id          TEXT PRIMARY KEY,
	project_id  TEXT NOT NULL REFERENCES projects(id),
	total       INT NOT NULL,
	successful  INT NOT NULL,
	failed      INT NOT NULL,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS analysis_cache (
	key        TEXT PRIMARY KEY,
	value      JSONB NOT NULL,
	cached_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	expires_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_queries_project ON tracked_queries(project_id);
CREATE INDEX IF NOT EXISTS idx_responses_project ON responses(project_id);
CREATE INDEX IF NOT EXISTS idx_responses_collected_at ON responses(collected_at);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON collection_runs(started_at);
CREATE INDEX IF NOT EXISTS idx_cache_expires_at ON analysis_cache(expires_at);
`

// Migrate creates the schema if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// CreateProject inserts a project row. A missing ID is generated.
func (s *PostgresStore) CreateProject(ctx context.Context, p model.Project) (*model.Project, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = model.ProjectActive
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO projects (id, name, brand_name, domain, industry, status, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Name, p.BrandName, p.Domain, p.Industry, string(p.Status), p.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create project")
	}
	return &p, nil
}

// GetProject fetches a project by id.
func (s *PostgresStore) GetProject(ctx context.Context, projectID string) (*model.Project, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, brand_name, domain, industry, status, created_at FROM projects WHERE id = $1`,
		projectID,
	)
	var p model.Project
	var status string
	if err := row.Scan(&p.ID, &p.Name, &p.BrandName, &p.Domain, &p.Industry, &status, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrapf(ErrNotFound, "postgres: project %s", projectID)
		}
		return nil, eris.Wrap(err, "postgres: get project")
	}
	p.Status = model.ProjectStatus(status)
	return &p, nil
}

// ListProjects returns all projects, newest first.
func (s *PostgresStore) ListProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, brand_name, domain, industry, status, created_at FROM projects ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list projects")
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		var p model.Project
		var status string
		if err := rows.Scan(&p.ID, &p.Name, &p.BrandName, &p.Domain, &p.Industry, &status, &p.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan project")
		}
		p.Status = model.ProjectStatus(status)
		projects = append(projects, p)
	}
	return projects, eris.Wrap(rows.Err(), "postgres: list projects rows")
}

// AddQuery inserts a tracked query for a project.
func (s *PostgresStore) AddQuery(ctx context.Context, q model.TrackedQuery) (*model.TrackedQuery, error) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO tracked_queries (id, project_id, text, priority, is_active) VALUES ($1, $2, $3, $4, $5)`,
		q.ID, q.ProjectID, q.Text, q.Priority, q.IsActive,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: add query")
	}
	return &q, nil
}

// ListActiveQueries returns a project's active queries ordered by priority.
func (s *PostgresStore) ListActiveQueries(ctx context.Context, projectID string) ([]model.TrackedQuery, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, project_id, text, priority, is_active FROM tracked_queries WHERE project_id = $1 AND is_active ORDER BY priority, id`,
		projectID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list queries")
	}
	defer rows.Close()

	var queries []model.TrackedQuery
	for rows.Next() {
		var q model.TrackedQuery
		if err := rows.Scan(&q.ID, &q.ProjectID, &q.Text, &q.Priority, &q.IsActive); err != nil {
			return nil, eris.Wrap(err, "postgres: scan query")
		}
		queries = append(queries, q)
	}
	return queries, eris.Wrap(rows.Err(), "postgres: list queries rows")
}

// InsertResponse appends one persisted response row.
func (s *PostgresStore) InsertResponse(ctx context.Context, rec model.ResponseRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO responses (id, project_id, query_id, platform, response_text, brand_mentions, brand_position, sentiment_score, accuracy_score, response_length, collected_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.ProjectID, rec.QueryID, rec.Platform, rec.ResponseText,
		rec.BrandMentions, rec.BrandPosition, rec.SentimentScore, rec.AccuracyScore,
		rec.ResponseLength, rec.CollectedAt,
	)
	return eris.Wrap(err, "postgres: insert response")
}

// InsertRun appends one collection-pass summary row.
func (s *PostgresStore) InsertRun(ctx context.Context, run model.CollectionRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO collection_runs (id, project_id, total, successful, failed, started_at, finished_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		run.ID, run.ProjectID, run.Total, run.Successful, run.Failed, run.StartedAt, run.FinishedAt,
	)
	return eris.Wrap(err, "postgres: insert run")
}

// ListRunsSince returns collection runs started after the given time.
func (s *PostgresStore) ListRunsSince(ctx context.Context, since time.Time) ([]model.CollectionRun, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, project_id, total, successful, failed, started_at, finished_at FROM collection_runs WHERE started_at >= $1 ORDER BY started_at DESC`,
		since,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.CollectionRun
	for rows.Next() {
		var r model.CollectionRun
		if err := rows.Scan(&r.ID, &r.ProjectID, &r.Total, &r.Successful, &r.Failed, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs rows")
}

// ResponseStatsSince aggregates persisted responses after the given time.
func (s *PostgresStore) ResponseStatsSince(ctx context.Context, since time.Time) (*ResponseStats, error) {
	stats := &ResponseStats{ByPlatform: make(map[string]int)}

	row := s.pool.QueryRow(ctx,
		`SELECT count(*), coalesce(avg(sentiment_score), 0), coalesce(avg(accuracy_score), 0) FROM responses WHERE collected_at >= $1`,
		since,
	)
	if err := row.Scan(&stats.Count, &stats.AvgSentiment, &stats.AvgAccuracy); err != nil {
		return nil, eris.Wrap(err, "postgres: response stats")
	}

	rows, err := s.pool.Query(ctx,
		`SELECT platform, count(*) FROM responses WHERE collected_at >= $1 GROUP BY platform`,
		since,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: response stats by platform")
	}
	defer rows.Close()

	for rows.Next() {
		var platform string
		var n int
		if err := rows.Scan(&platform, &n); err != nil {
			return nil, eris.Wrap(err, "postgres: scan platform stat")
		}
		stats.ByPlatform[platform] = n
	}
	return stats, eris.Wrap(rows.Err(), "postgres: response stats rows")
}

// CacheGet returns the cached value for key if present and unexpired.
func (s *PostgresStore) CacheGet(ctx context.Context, key string) ([]byte, bool, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT value FROM analysis_cache WHERE key = $1 AND expires_at > now()`,
		key,
	)
	var value []byte
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, eris.Wrap(err, "postgres: cache get")
	}
	return value, true, nil
}

// CachePut stores value under key with the given freshness window.
func (s *PostgresStore) CachePut(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := time.Now().UTC()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO analysis_cache (key, value, cached_at, expires_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, cached_at = EXCLUDED.cached_at, expires_at = EXCLUDED.expires_at`,
		key, value, now, now.Add(ttl),
	)
	return eris.Wrap(err, "postgres: cache put")
}

// DeleteExpiredCache removes expired cache rows and reports how many.
func (s *PostgresStore) DeleteExpiredCache(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM analysis_cache WHERE expires_at <= now()`)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete expired cache")
	}
	return int(tag.RowsAffected()), nil
}
