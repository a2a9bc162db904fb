package platform

import "github.com/sells-group/aeo-monitor/internal/model"

// Platform name constants. These are the identifiers descriptors, adapters,
// and persisted response rows agree on.
const (
	NameOpenAI     = "openai"
	NameAnthropic  = "anthropic"
	NamePerplexity = "perplexity"
	NameGemini     = "gemini"
)

// DefaultDescriptors returns the static process-wide platform configuration.
// Rate budgets are conservative free-tier numbers; the collector sizes its
// per-platform limiters from them.
func DefaultDescriptors() []model.PlatformDescriptor {
	return []model.PlatformDescriptor{
		{
			ID:                "plat-openai",
			Name:              NameOpenAI,
			DisplayName:       "ChatGPT",
			Endpoint:          "https://api.openai.com/v1",
			IsActive:          true,
			RequiresAuth:      true,
			RequestsPerMinute: 20,
			RequestsPerDay:    2000,
		},
		{
			ID:                "plat-anthropic",
			Name:              NameAnthropic,
			DisplayName:       "Claude",
			Endpoint:          "https://api.anthropic.com",
			IsActive:          true,
			RequiresAuth:      true,
			RequestsPerMinute: 20,
			RequestsPerDay:    2000,
		},
		{
			ID:                "plat-perplexity",
			Name:              NamePerplexity,
			DisplayName:       "Perplexity",
			Endpoint:          "https://api.perplexity.ai",
			IsActive:          true,
			RequiresAuth:      true,
			RequestsPerMinute: 10,
			RequestsPerDay:    1000,
		},
		{
			ID:                "plat-gemini",
			Name:              NameGemini,
			DisplayName:       "Gemini",
			Endpoint:          "https://generativelanguage.googleapis.com/v1beta",
			IsActive:          true,
			RequiresAuth:      true,
			RequestsPerMinute: 15,
			RequestsPerDay:    1500,
		},
	}
}

// ActiveDescriptors filters the descriptor set to active platforms.
func ActiveDescriptors(all []model.PlatformDescriptor) []model.PlatformDescriptor {
	var active []model.PlatformDescriptor
	for _, d := range all {
		if d.IsActive {
			active = append(active, d)
		}
	}
	return active
}
