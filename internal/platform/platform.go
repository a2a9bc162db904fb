// Package platform defines the uniform adapter contract for external
// answer-engine platforms and the factory that selects an implementation.
package platform

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/aeo-monitor/internal/model"
)

// ErrRateLimited signals that a platform rejected the call with a rate-limit
// response. The orchestrator records the pair as failed and moves on; the
// distinct error lets a future policy back off instead.
var ErrRateLimited = eris.New("platform: rate limited")

// Adapter asks one external platform one question and maps the
// provider-specific payload into the uniform Answer value.
type Adapter interface {
	// Name returns the platform identifier (matches the descriptor name).
	Name() string
	// Ask sends the question and returns the platform's free-text answer.
	Ask(ctx context.Context, question string) (*model.Answer, error)
}

// CredentialSource resolves a platform name to an API credential.
// The second return is false when no credential is configured.
type CredentialSource interface {
	Credential(platformName string) (string, bool)
}

// CredentialMap is a static CredentialSource backed by a map.
type CredentialMap map[string]string

// Credential returns the credential for the named platform, if set.
func (m CredentialMap) Credential(platformName string) (string, bool) {
	cred, ok := m[platformName]
	if !ok || cred == "" {
		return "", false
	}
	return cred, true
}
