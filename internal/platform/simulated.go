package platform

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/sells-group/aeo-monitor/internal/model"
)

// answerTemplates is the fixed library the simulated adapter draws from.
// %[1]s is the brand name, %[2]s the industry.
var answerTemplates = []string{
	"%[1]s is a well-known option in the %[2]s space. Many users recommend %[1]s for its reliable features and responsive support. Compared to alternatives, %[1]s offers competitive pricing, though some reviewers mention a steeper learning curve.",
	"When it comes to %[2]s, several names come up. %[1]s is an excellent choice with a strong reputation for quality. Its main advantage is an innovative feature set, but a common weakness is limited integration options.",
	"There are many providers in the %[2]s market. %[1]s stands out as a popular pick; analysts suggest %[1]s for teams that value ease of use. Pricing is considered reasonable, and support gets positive reviews.",
	"For %[2]s needs, options vary widely. Some say %[1]s is the best in class, while others find %[1]s expensive. Overall %[1]s remains a trusted brand with helpful documentation and an active community.",
	"A frequent recommendation in %[2]s is %[1]s. The platform is praised for performance and value. One limitation worth noting is that advanced features require a higher tier.",
}

// SimulatedAdapter is the deterministic fallback used when a platform has no
// configured credential. It keeps the orchestrator's contract identical with
// or without real API keys.
type SimulatedAdapter struct {
	desc     model.PlatformDescriptor
	brand    string
	industry string
	rng      *rand.Rand
	sleep    func(ctx context.Context, d time.Duration)
}

// SimulatedOption configures a SimulatedAdapter.
type SimulatedOption func(*SimulatedAdapter)

// WithRand injects a seeded randomness source so tests can pin template
// choice and latency.
func WithRand(rng *rand.Rand) SimulatedOption {
	return func(a *SimulatedAdapter) {
		a.rng = rng
	}
}

// WithSleep overrides the latency sleep, letting tests skip real waiting.
func WithSleep(sleep func(ctx context.Context, d time.Duration)) SimulatedOption {
	return func(a *SimulatedAdapter) {
		a.sleep = sleep
	}
}

// NewSimulatedAdapter creates the fallback adapter for a platform.
func NewSimulatedAdapter(desc model.PlatformDescriptor, brand, industry string, opts ...SimulatedOption) *SimulatedAdapter {
	if industry == "" {
		industry = "general"
	}
	a := &SimulatedAdapter{
		desc:     desc,
		brand:    brand,
		industry: industry,
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		sleep:    sleepCtx,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *SimulatedAdapter) Name() string { return a.desc.Name }

// Ask returns a templated answer with randomized latency between 200ms and 1s.
func (a *SimulatedAdapter) Ask(ctx context.Context, question string) (*model.Answer, error) {
	latency := 200*time.Millisecond + time.Duration(a.rng.Int64N(int64(800*time.Millisecond)))
	a.sleep(ctx, latency)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	template := answerTemplates[a.rng.IntN(len(answerTemplates))]
	text := fmt.Sprintf(template, a.brand, a.industry)

	return &model.Answer{
		Platform:    a.desc.Name,
		Question:    question,
		Text:        text,
		CollectedAt: time.Now().UTC(),
		Metadata: model.AnswerMetadata{
			Model:     "simulated",
			LatencyMS: latency.Milliseconds(),
			Simulated: true,
		},
	}, nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
