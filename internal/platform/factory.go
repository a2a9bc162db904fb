package platform

import (
	"go.uber.org/zap"

	"github.com/sells-group/aeo-monitor/internal/config"
	"github.com/sells-group/aeo-monitor/internal/model"
)

// Factory resolves a platform descriptor plus a credential to a concrete
// adapter. Platforms without a configured credential transparently get the
// simulated variant, so callers never branch on key presence.
type Factory struct {
	cfg     *config.Config
	creds   CredentialSource
	simOpts []SimulatedOption
}

// NewFactory creates a Factory. simOpts apply to every simulated adapter it
// hands out (tests use them to pin randomness and skip sleeps).
func NewFactory(cfg *config.Config, creds CredentialSource, simOpts ...SimulatedOption) *Factory {
	return &Factory{cfg: cfg, creds: creds, simOpts: simOpts}
}

// CredentialsFromConfig builds the credential lookup from the app config.
func CredentialsFromConfig(cfg *config.Config) CredentialMap {
	return CredentialMap{
		NameOpenAI:     cfg.OpenAI.Key,
		NameAnthropic:  cfg.Anthropic.Key,
		NamePerplexity: cfg.Perplexity.Key,
		NameGemini:     cfg.Gemini.Key,
	}
}

// Adapter returns the adapter for one platform in the context of one
// project. Unknown platform names also fall back to the simulated variant so
// a stale descriptor cannot abort a collection pass.
func (f *Factory) Adapter(desc model.PlatformDescriptor, project *model.Project) Adapter {
	cred, ok := f.creds.Credential(desc.Name)
	if !ok {
		zap.L().Debug("platform: no credential, using simulated adapter",
			zap.String("platform", desc.Name),
		)
		return NewSimulatedAdapter(desc, project.BrandName, project.Industry, f.simOpts...)
	}

	switch desc.Name {
	case NameOpenAI:
		return NewOpenAIAdapter(f.openAIClient(cred), desc)
	case NameAnthropic:
		return NewAnthropicAdapter(f.anthropicClient(cred), desc, f.cfg.Anthropic.Model, f.cfg.Anthropic.MaxTokens)
	case NamePerplexity:
		return NewPerplexityAdapter(f.perplexityClient(cred), desc)
	case NameGemini:
		return NewGeminiAdapter(f.geminiClient(cred), desc)
	default:
		zap.L().Warn("platform: unknown platform name, using simulated adapter",
			zap.String("platform", desc.Name),
		)
		return NewSimulatedAdapter(desc, project.BrandName, project.Industry, f.simOpts...)
	}
}
