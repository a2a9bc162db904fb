package platform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/aeo-monitor/internal/model"
	"github.com/sells-group/aeo-monitor/pkg/anthropic"
	"github.com/sells-group/aeo-monitor/pkg/gemini"
	"github.com/sells-group/aeo-monitor/pkg/openai"
	"github.com/sells-group/aeo-monitor/pkg/perplexity"
)

type fakeOpenAI struct {
	resp *openai.ChatCompletionResponse
	err  error
}

func (f *fakeOpenAI) ChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type fakePerplexity struct {
	resp *perplexity.ChatCompletionResponse
	err  error
}

func (f *fakePerplexity) ChatCompletion(context.Context, perplexity.ChatCompletionRequest) (*perplexity.ChatCompletionResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type fakeAnthropic struct {
	resp *anthropic.MessageResponse
	err  error
}

func (f *fakeAnthropic) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type fakeGemini struct {
	resp *gemini.GenerateContentResponse
	err  error
}

func (f *fakeGemini) GenerateContent(context.Context, gemini.GenerateContentRequest) (*gemini.GenerateContentResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func openaiDesc() model.PlatformDescriptor {
	return model.PlatformDescriptor{ID: "plat-openai", Name: NameOpenAI}
}

func TestOpenAIAdapterAsk(t *testing.T) {
	client := &fakeOpenAI{
		resp: &openai.ChatCompletionResponse{
			Model: "gpt-4o",
			Choices: []openai.Choice{
				{Message: openai.Message{Role: "assistant", Content: "Acme leads the market."}},
			},
			Usage: openai.Usage{TotalTokens: 42},
		},
	}
	a := NewOpenAIAdapter(client, openaiDesc())

	answer, err := a.Ask(context.Background(), "who leads the market?")
	require.NoError(t, err)

	assert.Equal(t, NameOpenAI, answer.Platform)
	assert.Equal(t, "Acme leads the market.", answer.Text)
	assert.Equal(t, "gpt-4o", answer.Metadata.Model)
	assert.Equal(t, 42, answer.Metadata.Tokens)
	assert.False(t, answer.Metadata.Simulated)
	assert.False(t, answer.CollectedAt.IsZero())
}

func TestOpenAIAdapterEmptyChoices(t *testing.T) {
	a := NewOpenAIAdapter(&fakeOpenAI{resp: &openai.ChatCompletionResponse{}}, openaiDesc())

	_, err := a.Ask(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty choice list")
}

func TestOpenAIAdapterRateLimitMapped(t *testing.T) {
	a := NewOpenAIAdapter(&fakeOpenAI{err: openai.ErrRateLimited}, openaiDesc())

	_, err := a.Ask(context.Background(), "q")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestPerplexityAdapterAsk(t *testing.T) {
	client := &fakePerplexity{
		resp: &perplexity.ChatCompletionResponse{
			Model: "sonar-pro",
			Choices: []perplexity.Choice{
				{Message: perplexity.Message{Role: "assistant", Content: "Acme tops most rankings."}},
			},
			Citations: []string{"https://example.com/ranking"},
			Usage:     perplexity.Usage{TotalTokens: 31},
		},
	}
	desc := model.PlatformDescriptor{ID: "plat-perplexity", Name: NamePerplexity}
	a := NewPerplexityAdapter(client, desc)

	answer, err := a.Ask(context.Background(), "which vendor tops the rankings?")
	require.NoError(t, err)

	assert.Equal(t, "Acme tops most rankings.", answer.Text)
	assert.Equal(t, []string{"https://example.com/ranking"}, answer.Metadata.Citations)
	assert.Equal(t, 31, answer.Metadata.Tokens)
}

func TestPerplexityAdapterRateLimitMapped(t *testing.T) {
	desc := model.PlatformDescriptor{ID: "plat-perplexity", Name: NamePerplexity}
	a := NewPerplexityAdapter(&fakePerplexity{err: perplexity.ErrRateLimited}, desc)

	_, err := a.Ask(context.Background(), "q")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestAnthropicAdapterAsk(t *testing.T) {
	client := &fakeAnthropic{
		resp: &anthropic.MessageResponse{
			Model: "claude-sonnet-4-20250514",
			Text:  "Acme is a strong option.",
			Usage: anthropic.TokenUsage{InputTokens: 12, OutputTokens: 8},
		},
	}
	desc := model.PlatformDescriptor{ID: "plat-claude", Name: NameAnthropic}
	a := NewAnthropicAdapter(client, desc, "claude-sonnet-4-20250514", 1024)

	answer, err := a.Ask(context.Background(), "is Acme a strong option?")
	require.NoError(t, err)

	assert.Equal(t, NameAnthropic, answer.Platform)
	assert.Equal(t, "Acme is a strong option.", answer.Text)
	assert.Equal(t, 20, answer.Metadata.Tokens)
}

func TestAnthropicAdapterRateLimitMapped(t *testing.T) {
	desc := model.PlatformDescriptor{ID: "plat-claude", Name: NameAnthropic}
	a := NewAnthropicAdapter(&fakeAnthropic{err: anthropic.ErrRateLimited}, desc, "claude-sonnet-4-20250514", 0)

	_, err := a.Ask(context.Background(), "q")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestGeminiAdapterAsk(t *testing.T) {
	client := &fakeGemini{
		resp: &gemini.GenerateContentResponse{
			Candidates: []gemini.Candidate{
				{Content: gemini.Content{Parts: []gemini.Part{{Text: "Acme is "}, {Text: "popular."}}}},
			},
			UsageMetadata: gemini.UsageMetadata{TotalTokenCount: 18},
			ModelVersion:  "gemini-2.0-flash",
		},
	}
	desc := model.PlatformDescriptor{ID: "plat-gemini", Name: NameGemini}
	a := NewGeminiAdapter(client, desc)

	answer, err := a.Ask(context.Background(), "is Acme popular?")
	require.NoError(t, err)

	assert.Equal(t, "Acme is popular.", answer.Text)
	assert.Equal(t, "gemini-2.0-flash", answer.Metadata.Model)
	assert.Equal(t, 18, answer.Metadata.Tokens)
}

func TestGeminiAdapterEmptyCandidates(t *testing.T) {
	desc := model.PlatformDescriptor{ID: "plat-gemini", Name: NameGemini}
	a := NewGeminiAdapter(&fakeGemini{resp: &gemini.GenerateContentResponse{}}, desc)

	_, err := a.Ask(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty candidate list")
}
