package platform

import (
	"github.com/sells-group/aeo-monitor/pkg/anthropic"
	"github.com/sells-group/aeo-monitor/pkg/gemini"
	"github.com/sells-group/aeo-monitor/pkg/openai"
	"github.com/sells-group/aeo-monitor/pkg/perplexity"
)

func (f *Factory) openAIClient(cred string) openai.Client {
	opts := []openai.Option{openai.WithModel(f.cfg.OpenAI.Model)}
	if f.cfg.OpenAI.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(f.cfg.OpenAI.BaseURL))
	}
	return openai.NewClient(cred, opts...)
}

func (f *Factory) anthropicClient(cred string) anthropic.Client {
	return anthropic.NewClient(cred)
}

func (f *Factory) perplexityClient(cred string) perplexity.Client {
	opts := []perplexity.Option{perplexity.WithModel(f.cfg.Perplexity.Model)}
	if f.cfg.Perplexity.BaseURL != "" {
		opts = append(opts, perplexity.WithBaseURL(f.cfg.Perplexity.BaseURL))
	}
	return perplexity.NewClient(cred, opts...)
}

func (f *Factory) geminiClient(cred string) gemini.Client {
	opts := []gemini.Option{gemini.WithModel(f.cfg.Gemini.Model)}
	if f.cfg.Gemini.BaseURL != "" {
		opts = append(opts, gemini.WithBaseURL(f.cfg.Gemini.BaseURL))
	}
	return gemini.NewClient(cred, opts...)
}
