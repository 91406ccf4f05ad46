package middleware

import (
	"context"
	"sync"
)

var _ tokenValidator = &tokenValidatorMock{}

// tokenValidatorMock records every token it is asked to validate.
type tokenValidatorMock struct {
	ValidateTokenFunc func(ctx context.Context, token string) (string, error)

	mu   sync.Mutex
	seen []string
}

func (m *tokenValidatorMock) ValidateToken(ctx context.Context, token string) (string, error) {
	if m.ValidateTokenFunc == nil {
		panic("tokenValidatorMock: ValidateTokenFunc not set")
	}
	m.mu.Lock()
	m.seen = append(m.seen, token)
	m.mu.Unlock()
	return m.ValidateTokenFunc(ctx, token)
}

// ValidateTokenCalls returns the tokens passed to ValidateToken so far.
func (m *tokenValidatorMock) ValidateTokenCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.seen...)
}
