package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/aeo-monitor/internal/config"
	"github.com/sells-group/aeo-monitor/internal/model"
)

func testProject() *model.Project {
	return &model.Project{
		ID:        "proj-1",
		BrandName: "Acme",
		Industry:  "Technology",
		Status:    model.ProjectActive,
	}
}

func TestFactoryFallsBackToSimulated(t *testing.T) {
	f := NewFactory(&config.Config{}, CredentialMap{})

	for _, desc := range DefaultDescriptors() {
		adapter := f.Adapter(desc, testProject())
		_, ok := adapter.(*SimulatedAdapter)
		assert.True(t, ok, "platform %s without credential should be simulated", desc.Name)
		assert.Equal(t, desc.Name, adapter.Name())
	}
}

func TestFactorySelectsLiveAdapters(t *testing.T) {
	creds := CredentialMap{
		NameOpenAI:     "sk-test",
		NameAnthropic:  "sk-ant-test",
		NamePerplexity: "pplx-test",
		NameGemini:     "goog-test",
	}
	f := NewFactory(&config.Config{}, creds)

	for _, desc := range DefaultDescriptors() {
		adapter := f.Adapter(desc, testProject())
		_, simulated := adapter.(*SimulatedAdapter)
		assert.False(t, simulated, "platform %s with credential should be live", desc.Name)
		assert.Equal(t, desc.Name, adapter.Name())
	}
}

func TestFactoryUnknownPlatformIsSimulated(t *testing.T) {
	f := NewFactory(&config.Config{}, CredentialMap{"mystery": "key"})

	adapter := f.Adapter(model.PlatformDescriptor{ID: "plat-x", Name: "mystery"}, testProject())
	_, ok := adapter.(*SimulatedAdapter)
	assert.True(t, ok)
}

func TestCredentialMap(t *testing.T) {
	m := CredentialMap{NameOpenAI: "sk-test", NameGemini: ""}

	cred, ok := m.Credential(NameOpenAI)
	require.True(t, ok)
	assert.Equal(t, "sk-test", cred)

	_, ok = m.Credential(NameGemini)
	assert.False(t, ok, "empty credential counts as absent")

	_, ok = m.Credential(NamePerplexity)
	assert.False(t, ok)
}

func TestCredentialsFromConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.OpenAI.Key = "sk-test"
	cfg.Perplexity.Key = "pplx-test"

	creds := CredentialsFromConfig(cfg)

	_, ok := creds.Credential(NameOpenAI)
	assert.True(t, ok)
	_, ok = creds.Credential(NameAnthropic)
	assert.False(t, ok)
}
