// Package inmemsession keeps the admin code in memory only; used in tests.
package inmemsession

import (
	"sync"

	"github.com/trysabi/sabi-admin/core"
)

type Store struct {
	mu   sync.Mutex
	code string
}

var _ core.SessionStore = (*Store)(nil)

func NewStore(code string) *Store {
	return &Store{code: code}
}

func (s *Store) Load() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.code
}

func (s *Store) Save(code string) {
	s.mu.Lock()
	s.code = code
	s.mu.Unlock()
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.code = ""
	s.mu.Unlock()
}
