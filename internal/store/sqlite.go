package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/aeo-monitor/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS projects (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	brand_name TEXT NOT NULL,
	domain     TEXT NOT NULL DEFAULT '',
	industry   TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL DEFAULT 'active',
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS tracked_queries (
	id         TEXT PRIMARY KEY,
	project_id TEXT NOT NULL REFERENCES projects(id),
	text       TEXT NOT NULL,
	priority   INTEGER NOT NULL DEFAULT 0,
	is_active  INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS responses (
	id              TEXT PRIMARY KEY,
	project_id      TEXT NOT NULL REFERENCES projects(id),
	query_id        TEXT NOT NULL,
	platform        TEXT NOT NULL,
	response_text   TEXT NOT NULL,
	brand_mentions  INTEGER NOT NULL DEFAULT 0,
	brand_position  INTEGER,
	sentiment_score REAL NOT NULL DEFAULT 0,
	accuracy_score  REAL NOT NULL DEFAULT 0,
	response_length INTEGER NOT NULL DEFAULT 0,
	collected_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS collection_runs (
	id          TEXT PRIMARY KEY,
	project_id  TEXT NOT NULL REFERENCES projects(id),
	total       INTEGER NOT NULL,
	successful  INTEGER NOT NULL,
	failed      INTEGER NOT NULL,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS analysis_cache (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	cached_at  DATETIME NOT NULL,
	expires_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_queries_project ON tracked_queries(project_id);
CREATE INDEX IF NOT EXISTS idx_responses_project ON responses(project_id);
CREATE INDEX IF NOT EXISTS idx_responses_collected_at ON responses(collected_at);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON collection_runs(started_at);
CREATE INDEX IF NOT EXISTS idx_cache_expires_at ON analysis_cache(expires_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateProject(ctx context.Context, p model.Project) (*model.Project, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = model.ProjectActive
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, brand_name, domain, industry, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.BrandName, p.Domain, p.Industry, string(p.Status), p.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: create project")
	}
	return &p, nil
}

func (s *SQLiteStore) GetProject(ctx context.Context, projectID string) (*model.Project, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, brand_name, domain, industry, status, created_at FROM projects WHERE id = ?`,
		projectID,
	)
	var p model.Project
	var status string
	if err := row.Scan(&p.ID, &p.Name, &p.BrandName, &p.Domain, &p.Industry, &status, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, eris.Wrapf(ErrNotFound, "sqlite: project %s", projectID)
		}
		return nil, eris.Wrap(err, "sqlite: get project")
	}
	p.Status = model.ProjectStatus(status)
	return &p, nil
}

func (s *SQLiteStore) ListProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, brand_name, domain, industry, status, created_at FROM projects ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list projects")
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		var p model.Project
		var status string
		if err := rows.Scan(&p.ID, &p.Name, &p.BrandName, &p.Domain, &p.Industry, &status, &p.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan project")
		}
		p.Status = model.ProjectStatus(status)
		projects = append(projects, p)
	}
	return projects, eris.Wrap(rows.Err(), "sqlite: list projects rows")
}

func (s *SQLiteStore) AddQuery(ctx context.Context, q model.TrackedQuery) (*model.TrackedQuery, error) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tracked_queries (id, project_id, text, priority, is_active) VALUES (?, ?, ?, ?, ?)`,
		q.ID, q.ProjectID, q.Text, q.Priority, q.IsActive,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: add query")
	}
	return &q, nil
}

func (s *SQLiteStore) ListActiveQueries(ctx context.Context, projectID string) ([]model.TrackedQuery, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, text, priority, is_active FROM tracked_queries WHERE project_id = ? AND is_active = 1 ORDER BY priority, id`,
		projectID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list queries")
	}
	defer rows.Close()

	var queries []model.TrackedQuery
	for rows.Next() {
		var q model.TrackedQuery
		if err := rows.Scan(&q.ID, &q.ProjectID, &q.Text, &q.Priority, &q.IsActive); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan query")
		}
		queries = append(queries, q)
	}
	return queries, eris.Wrap(rows.Err(), "sqlite: list queries rows")
}

func (s *SQLiteStore) InsertResponse(ctx context.Context, rec model.ResponseRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO responses (id, project_id, query_id, platform, response_text, brand_mentions, brand_position, sentiment_score, accuracy_score, response_length, collected_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ProjectID, rec.QueryID, rec.Platform, rec.ResponseText,
		rec.BrandMentions, rec.BrandPosition, rec.SentimentScore, rec.AccuracyScore,
		rec.ResponseLength, rec.CollectedAt,
	)
	return eris.Wrap(err, "sqlite: insert response")
}

func (s *SQLiteStore) InsertRun(ctx context.Context, run model.CollectionRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO collection_runs (id, project_id, total, successful, failed, started_at, finished_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.ProjectID, run.Total, run.Successful, run.Failed, run.StartedAt, run.FinishedAt,
	)
	return eris.Wrap(err, "sqlite: insert run")
}

func (s *SQLiteStore) ListRunsSince(ctx context.Context, since time.Time) ([]model.CollectionRun, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, total, successful, failed, started_at, finished_at FROM collection_runs WHERE started_at >= ? ORDER BY started_at DESC`,
		since,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.CollectionRun
	for rows.Next() {
		var r model.CollectionRun
		if err := rows.Scan(&r.ID, &r.ProjectID, &r.Total, &r.Successful, &r.Failed, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs rows")
}

func (s *SQLiteStore) ResponseStatsSince(ctx context.Context, since time.Time) (*ResponseStats, error) {
	stats := &ResponseStats{ByPlatform: make(map[string]int)}

	row := s.db.QueryRowContext(ctx,
		`SELECT count(*), coalesce(avg(sentiment_score), 0), coalesce(avg(accuracy_score), 0) FROM responses WHERE collected_at >= ?`,
		since,
	)
	if err := row.Scan(&stats.Count, &stats.AvgSentiment, &stats.AvgAccuracy); err != nil {
		return nil, eris.Wrap(err, "sqlite: response stats")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT platform, count(*) FROM responses WHERE collected_at >= ? GROUP BY platform`,
		since,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: response stats by platform")
	}
	defer rows.Close()

	for rows.Next() {
		var platform string
		var n int
		if err := rows.Scan(&platform, &n); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan platform stat")
		}
		stats.ByPlatform[platform] = n
	}
	return stats, eris.Wrap(rows.Err(), "sqlite: response stats rows")
}

func (s *SQLiteStore) CacheGet(ctx context.Context, key string) ([]byte, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT value FROM analysis_cache WHERE key = ? AND expires_at > ?`,
		key, time.Now().UTC(),
	)
	var value []byte
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, eris.Wrap(err, "sqlite: cache get")
	}
	return value, true, nil
}

func (s *SQLiteStore) CachePut(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO analysis_cache (key, value, cached_at, expires_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, cached_at = excluded.cached_at, expires_at = excluded.expires_at`,
		key, value, now, now.Add(ttl),
	)
	return eris.Wrap(err, "sqlite: cache put")
}

func (s *SQLiteStore) DeleteExpiredCache(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM analysis_cache WHERE expires_at <= ?`, time.Now().UTC())
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired cache")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: rows affected")
	}
	return int(n), nil
}
