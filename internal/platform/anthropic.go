package platform

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/aeo-monitor/internal/model"
	"github.com/sells-group/aeo-monitor/pkg/anthropic"
)

// AnthropicAdapter asks questions through the Anthropic messages API.
type AnthropicAdapter struct {
	client    anthropic.Client
	desc      model.PlatformDescriptor
	model     string
	maxTokens int64
}

// NewAnthropicAdapter creates an adapter backed by the given client.
func NewAnthropicAdapter(client anthropic.Client, desc model.PlatformDescriptor, modelName string, maxTokens int64) *AnthropicAdapter {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &AnthropicAdapter{client: client, desc: desc, model: modelName, maxTokens: maxTokens}
}

func (a *AnthropicAdapter) Name() string { return a.desc.Name }

func (a *AnthropicAdapter) Ask(ctx context.Context, question string) (*model.Answer, error) {
	start := time.Now()
	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages:  []anthropic.Message{{Role: "user", Content: question}},
	})
	if err != nil {
		if errors.Is(err, anthropic.ErrRateLimited) {
			return nil, eris.Wrap(ErrRateLimited, err.Error())
		}
		return nil, eris.Wrapf(err, "platform %s", a.desc.Name)
	}

	return &model.Answer{
		Platform:    a.desc.Name,
		Question:    question,
		Text:        resp.Text,
		CollectedAt: time.Now().UTC(),
		Metadata: model.AnswerMetadata{
			Model:     resp.Model,
			Tokens:    int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
			LatencyMS: time.Since(start).Milliseconds(),
		},
	}, nil
}
