package resilience

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "dial tcp: request canceled while waiting" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestIsTransientNil(t *testing.T) {
	assert.False(t, IsTransient(nil))
}

func TestIsTransientExplicitWrap(t *testing.T) {
	err := NewTransientError(eris.New("upstream returned 502"), 502)
	assert.True(t, IsTransient(err))

	wrapped := eris.Wrap(err, "gemini: generate content")
	assert.True(t, IsTransient(wrapped))

	var te *TransientError
	require.ErrorAs(t, wrapped, &te)
	assert.Equal(t, 502, te.StatusCode)
}

func TestIsTransientNetTimeout(t *testing.T) {
	assert.True(t, IsTransient(timeoutError{}))
	assert.True(t, IsTransient(eris.Wrap(timeoutError{}, "chatgpt: send request")))
}

func TestIsTransientMessagePatterns(t *testing.T) {
	transient := []string{
		"read tcp 10.0.0.1:443: connection reset by peer",
		"write: broken pipe",
		"lookup api.perplexity.ai: no such host",
		"net/http: TLS handshake timeout",
		"Post \"https://api.openai.com\": i/o timeout",
	}
	for _, msg := range transient {
		assert.True(t, IsTransient(eris.New(msg)), msg)
	}
}

func TestIsTransientPermanentErrors(t *testing.T) {
	permanent := []error{
		eris.New("invalid api key"),
		eris.New("openai: unexpected status 400: bad request"),
		eris.New("project is not active"),
	}
	for _, err := range permanent {
		assert.False(t, IsTransient(err), err.Error())
	}
}

func TestTransientErrorUnwrap(t *testing.T) {
	inner := eris.New("upstream returned 503")
	te := NewTransientError(inner, 503)

	assert.Equal(t, inner.Error(), te.Error())
	assert.ErrorIs(t, te, inner)
}

func TestIsTransientHTTPStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, IsTransientHTTPStatus(code), code)
	}
	for _, code := range []int{200, 201, 301, 400, 401, 403, 404, 422} {
		assert.False(t, IsTransientHTTPStatus(code), code)
	}
}
