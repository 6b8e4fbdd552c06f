package usecase_voting

import (
	"context"
	"errors"
	"fmt"

	"github.com/jellypick/core/internal/model"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrLobbyNotFound   = errors.New("lobby not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInternal        = errors.New("internal error")
)

// MatchOutcome reports whether a vote produced a unanimous match.
type MatchOutcome struct {
	Matched bool
	MovieID string
	Session model.Session
	Lobby   model.Lobby // final lobby state, populated only when Matched
}

//go:generate mockery --name=SessionRepository --output=./mocks/session --filename=repository.go
type SessionRepository interface {
	Save(ctx context.Context, session model.Session) error
	ByLobby(ctx context.Context, lobbyID string) (model.Session, error)
	Delete(ctx context.Context, lobbyID string) error
}

// LobbyRepository is the slice of the registry the voting flow needs:
// the current participant list for the unanimity check and the final
// status flip on a match.
type LobbyRepository interface {
	ByID(ctx context.Context, id string) (model.Lobby, error)
	SetCompleted(ctx context.Context, lobbyID, movieID string) (model.Lobby, error)
}

type Usecase struct {
	sessions SessionRepository
	lobbies  LobbyRepository
}

func New(sessions SessionRepository, lobbies LobbyRepository) *Usecase {
	return &Usecase{sessions: sessions, lobbies: lobbies}
}

// Start replaces any previous session for the lobby wholesale. Votes from
// an earlier round never carry over.
func (u *Usecase) Start(ctx context.Context, lobbyID string, movies []model.Movie) (model.Session, error) {
	if lobbyID == "" {
		return model.Session{}, fmt.Errorf("%w: empty lobby id", ErrInvalidInput)
	}

	session := model.NewSession(lobbyID, movies)
	if err := u.sessions.Save(ctx, session); err != nil {
		return model.Session{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return session, nil
}

// ByLobby returns the active session for catch-up delivery to late joiners.
func (u *Usecase) ByLobby(ctx context.Context, lobbyID string) (model.Session, error) {
	session, err := u.sessions.ByLobby(ctx, lobbyID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return model.Session{}, ErrSessionNotFound
		}
		return model.Session{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return session, nil
}

// Drop discards the session of a destroyed lobby.
func (u *Usecase) Drop(ctx context.Context, lobbyID string) error {
	if err := u.sessions.Delete(ctx, lobbyID); err != nil {
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return nil
}

// Vote records one swipe, last write wins, then checks the movie for a
// unanimous yes across the lobby's current participants. The first vote
// that completes the unanimity wins the round: once MatchedMovieID is
// set it is never overwritten, and the lobby is completed atomically with
// the session update (callers serialize per lobby).
func (u *Usecase) Vote(ctx context.Context, lobbyID, userID, movieID string, vote model.Vote) (MatchOutcome, error) {
	if vote != model.VoteYes && vote != model.VoteNo {
		return MatchOutcome{}, fmt.Errorf("%w: vote must be yes or no", ErrInvalidInput)
	}

	session, err := u.sessions.ByLobby(ctx, lobbyID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return MatchOutcome{}, ErrSessionNotFound
		}
		return MatchOutcome{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	// Unknown movie ids get a vote map on the fly rather than an error.
	if session.Votes[movieID] == nil {
		session.Votes[movieID] = make(map[string]model.Vote)
	}
	session.Votes[movieID][userID] = vote

	outcome := MatchOutcome{Session: session}

	lobby, err := u.lobbies.ByID(ctx, lobbyID)
	if err == nil && session.MatchedMovieID == "" && u.allVotedYes(session, lobby, movieID) {
		session.MatchedMovieID = movieID
		finalLobby, err := u.lobbies.SetCompleted(ctx, lobbyID, movieID)
		if err != nil {
			return MatchOutcome{}, fmt.Errorf("%w: %w", ErrInternal, err)
		}
		outcome.Matched = true
		outcome.MovieID = movieID
		outcome.Session = session
		outcome.Lobby = finalLobby
	}

	if err := u.sessions.Save(ctx, session); err != nil {
		return MatchOutcome{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return outcome, nil
}

func (u *Usecase) allVotedYes(session model.Session, lobby model.Lobby, movieID string) bool {
	if len(lobby.Participants) == 0 {
		return false
	}
	for _, p := range lobby.Participants {
		if session.Votes[movieID][p.ID] != model.VoteYes {
			return false
		}
	}
	return true
}
