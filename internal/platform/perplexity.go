package platform

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/aeo-monitor/internal/model"
	"github.com/sells-group/aeo-monitor/pkg/perplexity"
)

// PerplexityAdapter asks questions through the Perplexity API.
type PerplexityAdapter struct {
	client perplexity.Client
	desc   model.PlatformDescriptor
}

// NewPerplexityAdapter creates an adapter backed by the given client.
func NewPerplexityAdapter(client perplexity.Client, desc model.PlatformDescriptor) *PerplexityAdapter {
	return &PerplexityAdapter{client: client, desc: desc}
}

func (a *PerplexityAdapter) Name() string { return a.desc.Name }

func (a *PerplexityAdapter) Ask(ctx context.Context, question string) (*model.Answer, error) {
	start := time.Now()
	resp, err := a.client.ChatCompletion(ctx, perplexity.ChatCompletionRequest{
		Messages: []perplexity.Message{{Role: "user", Content: question}},
	})
	if err != nil {
		if errors.Is(err, perplexity.ErrRateLimited) {
			return nil, eris.Wrap(ErrRateLimited, err.Error())
		}
		return nil, eris.Wrapf(err, "platform %s", a.desc.Name)
	}
	if len(resp.Choices) == 0 {
		return nil, eris.Errorf("platform %s: empty choice list", a.desc.Name)
	}

	return &model.Answer{
		Platform:    a.desc.Name,
		Question:    question,
		Text:        resp.Choices[0].Message.Content,
		CollectedAt: time.Now().UTC(),
		Metadata: model.AnswerMetadata{
			Model:     resp.Model,
			Tokens:    resp.Usage.TotalTokens,
			LatencyMS: time.Since(start).Milliseconds(),
			Citations: resp.Citations,
		},
	}, nil
}
