// Package collector orchestrates one collection pass: every active tracked
// query asked on every active platform, each answer analyzed and persisted.
package collector

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/aeo-monitor/internal/analysis"
	"github.com/sells-group/aeo-monitor/internal/model"
	"github.com/sells-group/aeo-monitor/internal/platform"
	"github.com/sells-group/aeo-monitor/internal/resilience"
	"github.com/sells-group/aeo-monitor/internal/store"
)

// ErrProjectInactive is returned when a collection pass targets a paused or
// archived project.
var ErrProjectInactive = eris.New("project is not active")

// AdapterSource resolves a platform descriptor to an adapter for one
// project. *platform.Factory is the production implementation.
type AdapterSource interface {
	Adapter(desc model.PlatformDescriptor, project *model.Project) platform.Adapter
}

// Collector runs the query x platform collection matrix with bounded
// concurrency, per-platform rate limiting, and per-platform circuit
// breakers.
type Collector struct {
	store       store.Store
	adapters    AdapterSource
	descriptors []model.PlatformDescriptor

	maxConcurrent  int
	requestTimeout time.Duration
	retry          resilience.RetryConfig
	breakers       *resilience.ServiceBreakers

	mu       sync.Mutex
	limiters map[string]*rate.Limiter

	newID func() string
	now   func() time.Time
}

// Option configures a Collector.
type Option func(*Collector)

// WithDescriptors overrides the default platform set.
func WithDescriptors(descriptors []model.PlatformDescriptor) Option {
	return func(c *Collector) {
		c.descriptors = descriptors
	}
}

// WithMaxConcurrent bounds how many pairs are in flight at once.
func WithMaxConcurrent(n int) Option {
	return func(c *Collector) {
		if n > 0 {
			c.maxConcurrent = n
		}
	}
}

// WithRequestTimeout bounds each platform call.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Collector) {
		if d > 0 {
			c.requestTimeout = d
		}
	}
}

// WithRetryConfig overrides the per-call retry policy.
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(c *Collector) {
		c.retry = cfg
	}
}

// WithBreakers injects a shared circuit-breaker registry.
func WithBreakers(breakers *resilience.ServiceBreakers) Option {
	return func(c *Collector) {
		c.breakers = breakers
	}
}

// New creates a Collector over a store and adapter source.
func New(s store.Store, adapters AdapterSource, opts ...Option) *Collector {
	c := &Collector{
		store:          s,
		adapters:       adapters,
		descriptors:    platform.DefaultDescriptors(),
		maxConcurrent:  4,
		requestTimeout: 60 * time.Second,
		retry:          resilience.DefaultRetryConfig(),
		breakers:       resilience.NewServiceBreakers(resilience.DefaultCircuitBreakerConfig()),
		limiters:       make(map[string]*rate.Limiter),
		newID:          uuid.NewString,
		now:            time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// CollectForProject runs one full collection pass. It returns exactly
// queries x platforms results in matrix order; individual pair failures are
// recorded in their result slot and never abort the pass.
func (c *Collector) CollectForProject(ctx context.Context, projectID string) ([]model.CollectionResult, error) {
	project, err := c.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, eris.Wrapf(err, "collector: load project %s", projectID)
	}
	if !project.IsActive() {
		return nil, eris.Wrapf(ErrProjectInactive, "project %s has status %s", projectID, project.Status)
	}

	queries, err := c.store.ListActiveQueries(ctx, projectID)
	if err != nil {
		return nil, eris.Wrapf(err, "collector: list queries for project %s", projectID)
	}
	if len(queries) == 0 {
		zap.L().Info("collector: no active queries", zap.String("project_id", projectID))
		return []model.CollectionResult{}, nil
	}
	sort.SliceStable(queries, func(i, j int) bool {
		return queries[i].Priority > queries[j].Priority
	})

	platforms := platform.ActiveDescriptors(c.descriptors)
	startedAt := c.now().UTC()

	results := make([]model.CollectionResult, len(queries)*len(platforms))

	g := new(errgroup.Group)
	g.SetLimit(c.maxConcurrent)
	for qi, query := range queries {
		for pi, desc := range platforms {
			slot := qi*len(platforms) + pi
			query, desc := query, desc
			g.Go(func() error {
				results[slot] = c.collectPair(ctx, project, query, desc)
				return nil
			})
		}
	}
	_ = g.Wait()

	summary := model.Summarize(results)
	zap.L().Info("collector: pass complete",
		zap.String("project_id", projectID),
		zap.Int("total", summary.Total),
		zap.Int("successful", summary.Successful),
		zap.Int("failed", summary.Failed),
	)

	// Best effort: a failed summary row must not fail a completed pass.
	run := model.CollectionRun{
		ID:         c.newID(),
		ProjectID:  projectID,
		Total:      summary.Total,
		Successful: summary.Successful,
		Failed:     summary.Failed,
		StartedAt:  startedAt,
		FinishedAt: c.now().UTC(),
	}
	if err := c.store.InsertRun(ctx, run); err != nil {
		zap.L().Warn("collector: failed to record collection run", zap.Error(err))
	}

	return results, nil
}

// collectPair asks one platform one question, analyzes the answer, and
// persists the reduced record. Every failure mode maps to a failed result
// for this slot only.
func (c *Collector) collectPair(ctx context.Context, project *model.Project, query model.TrackedQuery, desc model.PlatformDescriptor) model.CollectionResult {
	result := model.CollectionResult{
		QueryID:  query.ID,
		Platform: desc.Name,
	}

	if err := c.limiter(desc).Wait(ctx); err != nil {
		result.Error = eris.ToString(eris.Wrap(err, "rate limit wait"), false)
		return result
	}

	adapter := c.adapters.Adapter(desc, project)
	breaker := c.breakers.Get(desc.Name)

	callCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	answer, err := resilience.ExecuteVal(callCtx, breaker, func(ctx context.Context) (*model.Answer, error) {
		return resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*model.Answer, error) {
			return adapter.Ask(ctx, query.Text)
		})
	})
	if err != nil {
		zap.L().Warn("collector: platform call failed",
			zap.String("platform", desc.Name),
			zap.String("query_id", query.ID),
			zap.Error(err),
		)
		result.Error = eris.ToString(err, false)
		return result
	}

	brandAnalysis := analysis.Analyze(answer.Text, project.BrandName, query.Text)

	rec := model.ResponseRecord{
		ID:             c.newID(),
		ProjectID:      project.ID,
		QueryID:        query.ID,
		Platform:       desc.Name,
		ResponseText:   answer.Text,
		BrandMentions:  brandAnalysis.MentionCount,
		BrandPosition:  brandAnalysis.BrandPosition,
		SentimentScore: brandAnalysis.SentimentScore,
		AccuracyScore:  brandAnalysis.AccuracyScore,
		ResponseLength: len(answer.Text),
		CollectedAt:    answer.CollectedAt,
	}
	if err := c.store.InsertResponse(ctx, rec); err != nil {
		zap.L().Error("collector: persist failed",
			zap.String("platform", desc.Name),
			zap.String("query_id", query.ID),
			zap.Error(err),
		)
		result.Error = eris.ToString(err, false)
		return result
	}

	result.Success = true
	result.Answer = answer
	result.Analysis = &brandAnalysis
	return result
}

// limiter returns the shared per-platform rate limiter, sized from the
// descriptor's requests-per-minute budget.
func (c *Collector) limiter(desc model.PlatformDescriptor) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	if l, ok := c.limiters[desc.Name]; ok {
		return l
	}
	rpm := desc.RequestsPerMinute
	if rpm <= 0 {
		rpm = 10
	}
	l := rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1)
	c.limiters[desc.Name] = l
	return l
}
