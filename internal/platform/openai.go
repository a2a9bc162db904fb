package platform

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/aeo-monitor/internal/model"
	"github.com/sells-group/aeo-monitor/pkg/openai"
)

// OpenAIAdapter asks questions through the OpenAI chat completions API.
type OpenAIAdapter struct {
	client openai.Client
	desc   model.PlatformDescriptor
}

// NewOpenAIAdapter creates an adapter backed by the given client.
func NewOpenAIAdapter(client openai.Client, desc model.PlatformDescriptor) *OpenAIAdapter {
	return &OpenAIAdapter{client: client, desc: desc}
}

func (a *OpenAIAdapter) Name() string { return a.desc.Name }

func (a *OpenAIAdapter) Ask(ctx context.Context, question string) (*model.Answer, error) {
	start := time.Now()
	resp, err := a.client.ChatCompletion(ctx, openai.ChatCompletionRequest{
		Messages: []openai.Message{{Role: "user", Content: question}},
	})
	if err != nil {
		if errors.Is(err, openai.ErrRateLimited) {
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
		},
	}, nil
}
