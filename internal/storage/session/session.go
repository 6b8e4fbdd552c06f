package storage_session

import (
	"context"
	"sync"

	"github.com/jellypick/core/internal/model"
	usecase_voting "github.com/jellypick/core/internal/usecase/voting"
)

// Storage holds at most one voting session per lobby, in memory.
type Storage struct {
	mu       sync.RWMutex
	sessions map[string]model.Session
}

func New() *Storage {
	return &Storage{sessions: make(map[string]model.Session)}
}

// Save overwrites any previous session for the same lobby.
func (s *Storage) Save(_ context.Context, session model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.LobbyID] = session.Clone()
	return nil
}

func (s *Storage) ByLobby(_ context.Context, lobbyID string) (model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[lobbyID]
	if !ok {
		return model.Session{}, usecase_voting.ErrSessionNotFound
	}
	return session.Clone(), nil
}

// Delete is a no-op when no session exists.
func (s *Storage) Delete(_ context.Context, lobbyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, lobbyID)
	return nil
}
