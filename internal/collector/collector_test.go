package collector

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/aeo-monitor/internal/model"
	"github.com/sells-group/aeo-monitor/internal/platform"
	"github.com/sells-group/aeo-monitor/internal/store"
)

type fakeStore struct {
	mu        sync.Mutex
	project   *model.Project
	queries   []model.TrackedQuery
	responses []model.ResponseRecord
	runs      []model.CollectionRun

	getProjectErr     error
	insertResponseErr error
	insertRunErr      error
}

func (f *fakeStore) CreateProject(context.Context, model.Project) (*model.Project, error) {
	return nil, nil
}

func (f *fakeStore) GetProject(_ context.Context, projectID string) (*model.Project, error) {
	if f.getProjectErr != nil {
		return nil, f.getProjectErr
	}
	if f.project == nil || f.project.ID != projectID {
		return nil, store.ErrNotFound
	}
	return f.project, nil
}

func (f *fakeStore) ListProjects(context.Context) ([]model.Project, error) { return nil, nil }

func (f *fakeStore) AddQuery(context.Context, model.TrackedQuery) (*model.TrackedQuery, error) {
	return nil, nil
}

func (f *fakeStore) ListActiveQueries(context.Context, string) ([]model.TrackedQuery, error) {
	return f.queries, nil
}

func (f *fakeStore) InsertResponse(_ context.Context, rec model.ResponseRecord) error {
	if f.insertResponseErr != nil {
		return f.insertResponseErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, rec)
	return nil
}

func (f *fakeStore) InsertRun(_ context.Context, run model.CollectionRun) error {
	if f.insertRunErr != nil {
		return f.insertRunErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeStore) ListRunsSince(context.Context, time.Time) ([]model.CollectionRun, error) {
	return nil, nil
}

func (f *fakeStore) ResponseStatsSince(context.Context, time.Time) (*store.ResponseStats, error) {
	return &store.ResponseStats{}, nil
}

func (f *fakeStore) CacheGet(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (f *fakeStore) CachePut(context.Context, string, []byte, time.Duration) error { return nil }
func (f *fakeStore) DeleteExpiredCache(context.Context) (int, error)               { return 0, nil }
func (f *fakeStore) Migrate(context.Context) error                                 { return nil }
func (f *fakeStore) Close() error                                                  { return nil }

type fakeAdapter struct {
	name string
	ask  func(ctx context.Context, question string) (*model.Answer, error)
}

func (a *fakeAdapter) Name() string { return a.name }

func (a *fakeAdapter) Ask(ctx context.Context, question string) (*model.Answer, error) {
	return a.ask(ctx, question)
}

type fakeAdapterSource struct {
	adapters map[string]platform.Adapter
}

func (s *fakeAdapterSource) Adapter(desc model.PlatformDescriptor, _ *model.Project) platform.Adapter {
	return s.adapters[desc.Name]
}

func echoAdapter(name string) platform.Adapter {
	return &fakeAdapter{
		name: name,
		ask: func(_ context.Context, question string) (*model.Answer, error) {
			return &model.Answer{
				Platform:    name,
				Question:    question,
				Text:        "Acme is an excellent choice. Many recommend Acme.",
				CollectedAt: time.Now().UTC(),
			}, nil
		},
	}
}

func failingAdapter(name string) platform.Adapter {
	return &fakeAdapter{
		name: name,
		ask: func(context.Context, string) (*model.Answer, error) {
			return nil, eris.New("upstream unavailable")
		},
	}
}

func testDescriptors(names ...string) []model.PlatformDescriptor {
	var descs []model.PlatformDescriptor
	for _, n := range names {
		descs = append(descs, model.PlatformDescriptor{
			ID:                "plat-" + n,
			Name:              n,
			IsActive:          true,
			RequestsPerMinute: 60000,
		})
	}
	return descs
}

func activeProject() *model.Project {
	return &model.Project{
		ID:        "proj-1",
		Name:      "Acme Monitoring",
		BrandName: "Acme",
		Industry:  "Technology",
		Status:    model.ProjectActive,
	}
}

func TestCollectForProjectMatrix(t *testing.T) {
	fs := &fakeStore{
		project: activeProject(),
		queries: []model.TrackedQuery{
			{ID: "q-low", ProjectID: "proj-1", Text: "best tools?", Priority: 1, IsActive: true},
			{ID: "q-high", ProjectID: "proj-1", Text: "top vendors?", Priority: 9, IsActive: true},
		},
	}
	source := &fakeAdapterSource{adapters: map[string]platform.Adapter{
		"alpha": echoAdapter("alpha"),
		"beta":  echoAdapter("beta"),
	}}

	c := New(fs, source,
		WithDescriptors(testDescriptors("alpha", "beta")),
		WithMaxConcurrent(2),
	)

	results, err := c.CollectForProject(context.Background(), "proj-1")
	require.NoError(t, err)
	require.Len(t, results, 4)

	// Higher-priority query fills the first row of the matrix.
	assert.Equal(t, "q-high", results[0].QueryID)
	assert.Equal(t, "alpha", results[0].Platform)
	assert.Equal(t, "q-high", results[1].QueryID)
	assert.Equal(t, "beta", results[1].Platform)
	assert.Equal(t, "q-low", results[2].QueryID)

	for _, r := range results {
		assert.True(t, r.Success)
		require.NotNil(t, r.Analysis)
		assert.Equal(t, 2, r.Analysis.MentionCount)
	}

	assert.Len(t, fs.responses, 4)
	require.Len(t, fs.runs, 1)
	assert.Equal(t, 4, fs.runs[0].Total)
	assert.Equal(t, 4, fs.runs[0].Successful)
	assert.Equal(t, 0, fs.runs[0].Failed)
}

func TestCollectForProjectInactive(t *testing.T) {
	project := activeProject()
	project.Status = model.ProjectPaused
	fs := &fakeStore{project: project}

	c := New(fs, &fakeAdapterSource{})
	_, err := c.CollectForProject(context.Background(), "proj-1")
	assert.ErrorIs(t, err, ErrProjectInactive)
}

func TestCollectForProjectMissing(t *testing.T) {
	c := New(&fakeStore{}, &fakeAdapterSource{})
	_, err := c.CollectForProject(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCollectForProjectNoQueries(t *testing.T) {
	fs := &fakeStore{project: activeProject()}

	c := New(fs, &fakeAdapterSource{}, WithDescriptors(testDescriptors("alpha")))
	results, err := c.CollectForProject(context.Background(), "proj-1")
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, fs.runs)
}

func TestCollectPairFailureIsolated(t *testing.T) {
	fs := &fakeStore{
		project: activeProject(),
		queries: []model.TrackedQuery{
			{ID: "q-1", ProjectID: "proj-1", Text: "best tools?", Priority: 1, IsActive: true},
		},
	}
	source := &fakeAdapterSource{adapters: map[string]platform.Adapter{
		"alpha": failingAdapter("alpha"),
		"beta":  echoAdapter("beta"),
	}}

	c := New(fs, source, WithDescriptors(testDescriptors("alpha", "beta")))

	results, err := c.CollectForProject(context.Background(), "proj-1")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Error, "upstream unavailable")
	assert.True(t, results[1].Success)

	assert.Len(t, fs.responses, 1)
	require.Len(t, fs.runs, 1)
	assert.Equal(t, 1, fs.runs[0].Failed)
}

func TestCollectPairPersistFailure(t *testing.T) {
	fs := &fakeStore{
		project: activeProject(),
		queries: []model.TrackedQuery{
			{ID: "q-1", ProjectID: "proj-1", Text: "best tools?", Priority: 1, IsActive: true},
		},
		insertResponseErr: eris.New("disk full"),
	}
	source := &fakeAdapterSource{adapters: map[string]platform.Adapter{
		"alpha": echoAdapter("alpha"),
	}}

	c := New(fs, source, WithDescriptors(testDescriptors("alpha")))

	results, err := c.CollectForProject(context.Background(), "proj-1")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Error, "disk full")
}

func TestCollectRunInsertBestEffort(t *testing.T) {
	fs := &fakeStore{
		project: activeProject(),
		queries: []model.TrackedQuery{
			{ID: "q-1", ProjectID: "proj-1", Text: "best tools?", Priority: 1, IsActive: true},
		},
		insertRunErr: eris.New("runs table missing"),
	}
	source := &fakeAdapterSource{adapters: map[string]platform.Adapter{
		"alpha": echoAdapter("alpha"),
	}}

	c := New(fs, source, WithDescriptors(testDescriptors("alpha")))

	results, err := c.CollectForProject(context.Background(), "proj-1")
	require.NoError(t, err)
	assert.True(t, results[0].Success)
}

func TestCollectForProjectCancelled(t *testing.T) {
	fs := &fakeStore{
		project: activeProject(),
		queries: []model.TrackedQuery{
			{ID: "q-1", ProjectID: "proj-1", Text: "best tools?", Priority: 1, IsActive: true},
		},
	}
	source := &fakeAdapterSource{adapters: map[string]platform.Adapter{
		"alpha": echoAdapter("alpha"),
	}}

	c := New(fs, source, WithDescriptors(testDescriptors("alpha")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := c.CollectForProject(ctx, "proj-1")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Empty(t, fs.responses)
}
