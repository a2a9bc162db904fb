package platform

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/aeo-monitor/internal/model"
	"github.com/sells-group/aeo-monitor/pkg/gemini"
)

// GeminiAdapter asks questions through the Google Gemini API.
type GeminiAdapter struct {
	client gemini.Client
	desc   model.PlatformDescriptor
}

// NewGeminiAdapter creates an adapter backed by the given client.
func NewGeminiAdapter(client gemini.Client, desc model.PlatformDescriptor) *GeminiAdapter {
	return &GeminiAdapter{client: client, desc: desc}
}

func (a *GeminiAdapter) Name() string { return a.desc.Name }

func (a *GeminiAdapter) Ask(ctx context.Context, question string) (*model.Answer, error) {
	start := time.Now()
	resp, err := a.client.GenerateContent(ctx, gemini.GenerateContentRequest{
		Contents: []gemini.Content{{Role: "user", Parts: []gemini.Part{{Text: question}}}},
	})
	if err != nil {
		if errors.Is(err, gemini.ErrRateLimited) {
			return nil, eris.Wrap(ErrRateLimited, err.Error())
		}
		return nil, eris.Wrapf(err, "platform %s", a.desc.Name)
	}
	text := resp.Text()
	if text == "" {
		return nil, eris.Errorf("platform %s: empty candidate list", a.desc.Name)
	}

	return &model.Answer{
		Platform:    a.desc.Name,
		Question:    question,
		Text:        text,
		CollectedAt: time.Now().UTC(),
		Metadata: model.AnswerMetadata{
			Model:     resp.ModelVersion,
			Tokens:    resp.UsageMetadata.TotalTokenCount,
			LatencyMS: time.Since(start).Milliseconds(),
		},
	}, nil
}
