package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/aeo-monitor/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_GetProject_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, name, brand_name, domain, industry, status, created_at FROM projects WHERE id = \$1`).
		WithArgs("nonexistent").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetProject(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetProject(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	created := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, name, brand_name, domain, industry, status, created_at FROM projects WHERE id = \$1`).
		WithArgs("proj-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "brand_name", "domain", "industry", "status", "created_at"}).
			AddRow("proj-1", "Acme Monitoring", "Acme", "acme.com", "Technology", "active", created))

	p, err := s.GetProject(context.Background(), "proj-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", p.BrandName)
	assert.Equal(t, model.ProjectActive, p.Status)
	assert.True(t, p.IsActive())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateProject_GeneratesID(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO projects`).
		WithArgs(pgxmock.AnyArg(), "Acme Monitoring", "Acme", "acme.com", "Technology", "active", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	p, err := s.CreateProject(context.Background(), model.Project{
		Name:      "Acme Monitoring",
		BrandName: "Acme",
		Domain:    "acme.com",
		Industry:  "Technology",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, model.ProjectActive, p.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListActiveQueries(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, project_id, text, priority, is_active FROM tracked_queries`).
		WithArgs("proj-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "project_id", "text", "priority", "is_active"}).
			AddRow("q-1", "proj-1", "best project tools?", 5, true).
			AddRow("q-2", "proj-1", "top vendors?", 1, true))

	queries, err := s.ListActiveQueries(context.Background(), "proj-1")
	require.NoError(t, err)
	require.Len(t, queries, 2)
	assert.Equal(t, "best project tools?", queries[0].Text)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InsertResponse(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	pos := 1
	mock.ExpectExec(`INSERT INTO responses`).
		WithArgs("resp-1", "proj-1", "q-1", "openai", "Acme is great.",
			1, &pos, 0.33, 0.9, 14, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.InsertResponse(context.Background(), model.ResponseRecord{
		ID:             "resp-1",
		ProjectID:      "proj-1",
		QueryID:        "q-1",
		Platform:       "openai",
		ResponseText:   "Acme is great.",
		BrandMentions:  1,
		BrandPosition:  &pos,
		SentimentScore: 0.33,
		AccuracyScore:  0.9,
		ResponseLength: 14,
		CollectedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InsertRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO collection_runs`).
		WithArgs("run-1", "proj-1", 8, 6, 2, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.InsertRun(context.Background(), model.CollectionRun{
		ID:         "run-1",
		ProjectID:  "proj-1",
		Total:      8,
		Successful: 6,
		Failed:     2,
		StartedAt:  time.Now().UTC(),
		FinishedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ResponseStatsSince(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	since := time.Now().UTC().Add(-24 * time.Hour)

	mock.ExpectQuery(`SELECT count\(\*\), coalesce\(avg\(sentiment_score\), 0\), coalesce\(avg\(accuracy_score\), 0\) FROM responses`).
		WithArgs(since).
		WillReturnRows(pgxmock.NewRows([]string{"count", "avg_sentiment", "avg_accuracy"}).
			AddRow(12, 0.25, 0.8))

	mock.ExpectQuery(`SELECT platform, count\(\*\) FROM responses`).
		WithArgs(since).
		WillReturnRows(pgxmock.NewRows([]string{"platform", "count"}).
			AddRow("openai", 6).
			AddRow("perplexity", 6))

	stats, err := s.ResponseStatsSince(context.Background(), since)
	require.NoError(t, err)
	assert.Equal(t, 12, stats.Count)
	assert.InDelta(t, 0.25, stats.AvgSentiment, 1e-9)
	assert.Equal(t, map[string]int{"openai": 6, "perplexity": 6}, stats.ByPlatform)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CacheGet_Miss(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT value FROM analysis_cache`).
		WithArgs("missing-key").
		WillReturnError(pgx.ErrNoRows)

	value, ok, err := s.CacheGet(context.Background(), "missing-key")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CachePut_Upsert(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`ON CONFLICT`).
		WithArgs("k", []byte(`{"total_found":3}`), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.CachePut(context.Background(), "k", []byte(`{"total_found":3}`), 24*time.Hour)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteExpiredCache(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM analysis_cache`).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := s.DeleteExpiredCache(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
