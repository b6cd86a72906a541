package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// TokenStore persists the bearer credential pair. Implementations must be
// safe for concurrent use: the executor reads the current tokens at the
// moment each request is built, and the refresh coordinator replaces them
// from another goroutine.
type TokenStore interface {
	Tokens() (access, refresh string)
	SetTokens(access, refresh string)
	Clear()
}

// memoryTokenStore is the default, process-lifetime store.
type memoryTokenStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

// NewMemoryTokenStore returns an in-memory TokenStore.
func NewMemoryTokenStore() TokenStore {
	return &memoryTokenStore{}
}

func (s *memoryTokenStore) Tokens() (string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access, s.refresh
}

func (s *memoryTokenStore) SetTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access, s.refresh = access, refresh
}

func (s *memoryTokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access, s.refresh = "", ""
}

// fileTokenStore keeps the pair in a JSON file so a CLI session survives
// process restarts. Write errors are swallowed after the first load: losing
// persistence degrades to the in-memory behavior rather than failing calls.
type fileTokenStore struct {
	memoryTokenStore
	path string
}

type storedTokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// NewFileTokenStore returns a TokenStore backed by the given file, loading
// any tokens already present.
func NewFileTokenStore(path string) (TokenStore, error) {
	s := &fileTokenStore{path: path}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading token file %s: %w", path, err)
	}
	var t storedTokens
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("parsing token file %s: %w", path, err)
	}
	s.memoryTokenStore.SetTokens(t.Access, t.Refresh)
	return s, nil
}

func (s *fileTokenStore) SetTokens(access, refresh string) {
	s.memoryTokenStore.SetTokens(access, refresh)
	s.persist(access, refresh)
}

func (s *fileTokenStore) Clear() {
	s.memoryTokenStore.Clear()
	_ = os.Remove(s.path)
}

func (s *fileTokenStore) persist(access, refresh string) {
	raw, err := json.Marshal(storedTokens{Access: access, Refresh: refresh})
	if err != nil {
		return
	}
	_ = os.MkdirAll(filepath.Dir(s.path), 0o700)
	_ = os.WriteFile(s.path, raw, 0o600)
}

// Session owns the credential pair for one authenticated client. Tokens are
// written only through SetTokens/Clear, and every read goes to the store so
// a refresh landing between two calls is always observed.
type Session struct {
	store TokenStore
}

// NewSession wraps a TokenStore; a nil store gets an in-memory one.
func NewSession(store TokenStore) *Session {
	if store == nil {
		store = NewMemoryTokenStore()
	}
	return &Session{store: store}
}

// AccessToken returns the current access token, empty if none.
func (s *Session) AccessToken() string {
	access, _ := s.store.Tokens()
	return access
}

// RefreshToken returns the current refresh token, empty if none.
func (s *Session) RefreshToken() string {
	_, refresh := s.store.Tokens()
	return refresh
}

// SetTokens replaces both tokens, e.g. after login or a rotating refresh.
func (s *Session) SetTokens(access, refresh string) {
	s.store.SetTokens(access, refresh)
}

// Clear drops both tokens; the session is ended.
func (s *Session) Clear() {
	s.store.Clear()
}

// Authenticated reports whether an access token is present. Presence says
// nothing about validity; the server decides that.
func (s *Session) Authenticated() bool {
	return s.AccessToken() != ""
}
