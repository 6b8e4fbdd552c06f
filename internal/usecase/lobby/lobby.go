package usecase_lobby

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"github.com/jellypick/core/internal/model"
)

var (
	ErrCodeConflict      = errors.New("invite code conflict")
	ErrLobbyNotFound     = errors.New("lobby not found")
	ErrInvalidInviteCode = errors.New("invalid invite code")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInternal          = errors.New("internal error")
)

// RemovalOutcome tells the caller what RemoveParticipant did to the lobby.
type RemovalOutcome struct {
	Destroyed bool
	Lobby     model.Lobby // zero value when Destroyed
}

//go:generate mockery --name=Repository --output=./mocks/repository --filename=repository.go
type Repository interface {
	Create(ctx context.Context, lobby model.Lobby) error
	ByID(ctx context.Context, id string) (model.Lobby, error)
	ByCode(ctx context.Context, code string) (model.Lobby, error)
	ByUser(ctx context.Context, userID string) (model.Lobby, error)
	AddParticipant(ctx context.Context, lobbyID string, user model.User) (model.Lobby, error)
	// RemoveParticipant deletes the lobby and its invite code when the
	// last participant leaves; destroyed is true in that case.
	RemoveParticipant(ctx context.Context, lobbyID, userID string) (lobby model.Lobby, destroyed bool, err error)
	SetStatus(ctx context.Context, lobbyID string, status model.LobbyStatus) (model.Lobby, error)
	SetCompleted(ctx context.Context, lobbyID, movieID string) (model.Lobby, error)
}

type Usecase struct {
	repository Repository
}

func New(repository Repository) *Usecase {
	return &Usecase{repository: repository}
}

// Create allocates a lobby with the creator as sole participant.
// Invite codes can conflict; retrying with a fresh code until the
// registry accepts one.
func (u *Usecase) Create(ctx context.Context, creator model.User, name string) (model.Lobby, error) {
	if creator.ID == "" {
		return model.Lobby{}, fmt.Errorf("%w: creator id is empty", ErrInvalidInput)
	}

	for {
		lobby := model.Lobby{
			ID:           uuid.NewString(),
			Name:         name,
			CreatorID:    creator.ID,
			Participants: []model.User{creator},
			Status:       model.StatusWaiting,
			InviteCode:   u.buildInviteCode(),
		}
		err := u.repository.Create(ctx, lobby)
		if err == nil {
			return lobby, nil
		}
		if !errors.Is(err, ErrCodeConflict) {
			return model.Lobby{}, fmt.Errorf("%w: %w", ErrInternal, err)
		}
	}
}

func (u *Usecase) buildInviteCode() string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const codeLen = 6

	var builder strings.Builder
	builder.Grow(codeLen)
	for i := 0; i < codeLen; i++ {
		builder.WriteByte(charset[rand.Intn(len(charset))])
	}
	return builder.String()
}

func (u *Usecase) ByID(ctx context.Context, id string) (model.Lobby, error) {
	lobby, err := u.repository.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrLobbyNotFound) {
			return model.Lobby{}, ErrLobbyNotFound
		}
		return model.Lobby{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return lobby, nil
}

// ByCode resolves an invite code to its live lobby.
func (u *Usecase) ByCode(ctx context.Context, code string) (model.Lobby, error) {
	if code == "" {
		return model.Lobby{}, fmt.Errorf("%w: empty invite code", ErrInvalidInput)
	}
	lobby, err := u.repository.ByCode(ctx, strings.ToUpper(code))
	if err != nil {
		if errors.Is(err, ErrLobbyNotFound) {
			return model.Lobby{}, ErrInvalidInviteCode
		}
		return model.Lobby{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return lobby, nil
}

// ByUser returns the lobby the user currently participates in.
func (u *Usecase) ByUser(ctx context.Context, userID string) (model.Lobby, error) {
	lobby, err := u.repository.ByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrLobbyNotFound) {
			return model.Lobby{}, ErrLobbyNotFound
		}
		return model.Lobby{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return lobby, nil
}

// Join adds the user to the lobby. Joining twice is a no-op.
func (u *Usecase) Join(ctx context.Context, lobbyID string, user model.User) (model.Lobby, error) {
	lobby, err := u.repository.AddParticipant(ctx, lobbyID, user)
	if err != nil {
		if errors.Is(err, ErrLobbyNotFound) {
			return model.Lobby{}, ErrLobbyNotFound
		}
		return model.Lobby{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return lobby, nil
}

// Leave removes the user from the lobby. Leaving a lobby that no longer
// exists counts as a successful destroy, so duplicate or late leave
// requests are harmless.
func (u *Usecase) Leave(ctx context.Context, lobbyID, userID string) (RemovalOutcome, error) {
	lobby, destroyed, err := u.repository.RemoveParticipant(ctx, lobbyID, userID)
	if err != nil {
		if errors.Is(err, ErrLobbyNotFound) {
			return RemovalOutcome{Destroyed: true}, nil
		}
		return RemovalOutcome{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return RemovalOutcome{Destroyed: destroyed, Lobby: lobby}, nil
}

// SetPicking marks the lobby as running a voting session. Completed
// lobbies may re-enter picking: starting a fresh round is allowed.
func (u *Usecase) SetPicking(ctx context.Context, lobbyID string) (model.Lobby, error) {
	lobby, err := u.repository.SetStatus(ctx, lobbyID, model.StatusPicking)
	if err != nil {
		if errors.Is(err, ErrLobbyNotFound) {
			return model.Lobby{}, ErrLobbyNotFound
		}
		return model.Lobby{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return lobby, nil
}
