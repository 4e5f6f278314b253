// Package session holds the credential token the portal attaches to backend requests.
package session

import "sync"

// TokenKey is the key the token is stored under in every store.
const TokenKey = "token"

// TokenStore is the single place a credential token lives. Written on login,
// read before every backend request, cleared on logout or a 401.
type TokenStore interface {
	Token() string
	SetToken(token string)
	Clear()
}

// Memory keeps the token in process memory.
type Memory struct {
	mu    sync.RWMutex
	token string
}

func NewMemory(token string) *Memory {
	return &Memory{token: token}
}

func (m *Memory) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *Memory) SetToken(token string) {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
}

func (m *Memory) Clear() {
	m.SetToken("")
}
