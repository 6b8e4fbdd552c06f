package storage_lobby

import (
	"context"
	"fmt"
	"sync"

	"github.com/jellypick/core/internal/model"
	usecase_lobby "github.com/jellypick/core/internal/usecase/lobby"
)

// Storage is the in-memory lobby registry. It owns the invite-code
// namespace and the user->lobby index; all three maps mutate together
// under one lock. Nothing survives a process restart.
type Storage struct {
	mu sync.RWMutex

	lobbies   map[string]model.Lobby
	codes     map[string]string // invite code -> lobby id
	userLobby map[string]string // user id -> lobby id
}

func New() *Storage {
	return &Storage{
		lobbies:   make(map[string]model.Lobby),
		codes:     make(map[string]string),
		userLobby: make(map[string]string),
	}
}

func (s *Storage) Create(_ context.Context, lobby model.Lobby) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.codes[lobby.InviteCode]; taken {
		return usecase_lobby.ErrCodeConflict
	}

	s.lobbies[lobby.ID] = lobby.Clone()
	s.codes[lobby.InviteCode] = lobby.ID
	for _, p := range lobby.Participants {
		s.userLobby[p.ID] = lobby.ID
	}
	return nil
}

func (s *Storage) ByID(_ context.Context, id string) (model.Lobby, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lobby, ok := s.lobbies[id]
	if !ok {
		return model.Lobby{}, usecase_lobby.ErrLobbyNotFound
	}
	return lobby.Clone(), nil
}

func (s *Storage) ByCode(_ context.Context, code string) (model.Lobby, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.codes[code]
	if !ok {
		return model.Lobby{}, usecase_lobby.ErrLobbyNotFound
	}
	lobby, ok := s.lobbies[id]
	if !ok {
		return model.Lobby{}, fmt.Errorf("%w: dangling invite code %q", usecase_lobby.ErrLobbyNotFound, code)
	}
	return lobby.Clone(), nil
}

func (s *Storage) ByUser(_ context.Context, userID string) (model.Lobby, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.userLobby[userID]
	if !ok {
		return model.Lobby{}, usecase_lobby.ErrLobbyNotFound
	}
	lobby, ok := s.lobbies[id]
	if !ok {
		return model.Lobby{}, usecase_lobby.ErrLobbyNotFound
	}
	return lobby.Clone(), nil
}

// AddParticipant appends the user unless already present. Order of the
// participant list is append order; creator succession depends on it.
func (s *Storage) AddParticipant(_ context.Context, lobbyID string, user model.User) (model.Lobby, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lobby, ok := s.lobbies[lobbyID]
	if !ok {
		return model.Lobby{}, usecase_lobby.ErrLobbyNotFound
	}

	if !lobby.HasParticipant(user.ID) {
		lobby.Participants = append(lobby.Participants, user)
		s.lobbies[lobbyID] = lobby
	}
	s.userLobby[user.ID] = lobbyID

	return lobby.Clone(), nil
}

func (s *Storage) RemoveParticipant(_ context.Context, lobbyID, userID string) (model.Lobby, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lobby, ok := s.lobbies[lobbyID]
	if !ok {
		return model.Lobby{}, false, usecase_lobby.ErrLobbyNotFound
	}

	remaining := lobby.Participants[:0:0]
	for _, p := range lobby.Participants {
		if p.ID != userID {
			remaining = append(remaining, p)
		}
	}
	delete(s.userLobby, userID)

	if len(remaining) == 0 {
		delete(s.lobbies, lobbyID)
		delete(s.codes, lobby.InviteCode)
		return model.Lobby{}, true, nil
	}

	lobby.Participants = remaining
	if lobby.CreatorID == userID {
		lobby.CreatorID = remaining[0].ID
	}
	s.lobbies[lobbyID] = lobby

	return lobby.Clone(), false, nil
}

func (s *Storage) SetStatus(_ context.Context, lobbyID string, status model.LobbyStatus) (model.Lobby, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lobby, ok := s.lobbies[lobbyID]
	if !ok {
		return model.Lobby{}, usecase_lobby.ErrLobbyNotFound
	}
	lobby.Status = status
	s.lobbies[lobbyID] = lobby
	return lobby.Clone(), nil
}

// SetCompleted finalizes the lobby on a unanimous match.
func (s *Storage) SetCompleted(_ context.Context, lobbyID, movieID string) (model.Lobby, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lobby, ok := s.lobbies[lobbyID]
	if !ok {
		return model.Lobby{}, usecase_lobby.ErrLobbyNotFound
	}
	lobby.Status = model.StatusCompleted
	lobby.SelectedMovieID = movieID
	s.lobbies[lobbyID] = lobby
	return lobby.Clone(), nil
}
