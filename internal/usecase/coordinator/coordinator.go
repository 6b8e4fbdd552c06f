package usecase_coordinator

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jellypick/core/internal/model"
	usecase_lobby "github.com/jellypick/core/internal/usecase/lobby"
	usecase_voting "github.com/jellypick/core/internal/usecase/voting"
)

// Events emitted to lobby groups.
const (
	EventLobbyUpdate   = "lobby-update"
	EventSessionUpdate = "session-update"
)

// Broadcaster is the pub/sub channel the coordinator notifies through.
// Delivery is fire-and-forget: a member that misses an update catches up
// on its next join.
//
//go:generate mockery --name=Broadcaster --output=./mocks/broadcaster --filename=broadcaster.go
type Broadcaster interface {
	JoinGroup(connID, lobbyID string)
	LeaveGroup(connID, lobbyID string)
	Broadcast(lobbyID, event string, payload any)
	SendToOne(connID, event string, payload any)
}

type Metrics interface {
	LobbyCreated()
	LobbyDestroyed()
	VoteRecorded(vote string)
	MatchFound()
}

// Coordinator binds the lobby registry and voting sessions to inbound
// transport events. Every handler locks the lobby id it touches, so the
// read-modify-write-broadcast sequence of one lobby never interleaves
// with another handler for the same lobby; distinct lobbies proceed in
// parallel.
type Coordinator struct {
	lobbies *usecase_lobby.Usecase
	voting  *usecase_voting.Usecase

	broadcaster Broadcaster
	metrics     Metrics
	locks       *keyedMutex
	logger      *slog.Logger
}

type Option func(*Coordinator)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

func WithMetrics(m Metrics) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

func New(
	lobbies *usecase_lobby.Usecase,
	voting *usecase_voting.Usecase,
	broadcaster Broadcaster,
	opts ...Option,
) *Coordinator {
	c := &Coordinator{
		lobbies:     lobbies,
		voting:      voting,
		broadcaster: broadcaster,
		metrics:     nopMetrics{},
		locks:       newKeyedMutex(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateLobby registers a fresh lobby with the creator as only member and
// subscribes the creating connection to its group. The reply to the
// caller is the only notification; there is nobody else to broadcast to
// yet.
func (c *Coordinator) CreateLobby(ctx context.Context, connID string, creator model.User, name string) (model.Lobby, error) {
	lobby, err := c.lobbies.Create(ctx, creator, name)
	if err != nil {
		return model.Lobby{}, err
	}

	c.broadcaster.JoinGroup(connID, lobby.ID)
	c.metrics.LobbyCreated()
	c.logger.Info("lobby created",
		"lobby_id", lobby.ID,
		"invite_code", lobby.InviteCode,
		"creator_id", creator.ID)

	return lobby, nil
}

// JoinLobby adds the user to the lobby by id.
func (c *Coordinator) JoinLobby(ctx context.Context, connID string, user model.User, lobbyID string) (model.Lobby, error) {
	return c.join(ctx, connID, user, lobbyID)
}

// JoinLobbyByCode resolves the invite code first, then joins like
// JoinLobby. A stale code yields ErrInvalidInviteCode.
func (c *Coordinator) JoinLobbyByCode(ctx context.Context, connID string, user model.User, code string) (model.Lobby, error) {
	lobby, err := c.lobbies.ByCode(ctx, code)
	if err != nil {
		return model.Lobby{}, err
	}
	return c.join(ctx, connID, user, lobby.ID)
}

func (c *Coordinator) join(ctx context.Context, connID string, user model.User, lobbyID string) (model.Lobby, error) {
	unlock := c.locks.Lock(lobbyID)
	defer unlock()

	lobby, err := c.lobbies.Join(ctx, lobbyID, user)
	if err != nil {
		return model.Lobby{}, err
	}

	c.broadcaster.JoinGroup(connID, lobbyID)
	c.broadcaster.Broadcast(lobbyID, EventLobbyUpdate, lobby)

	// Late-join catch-up: only the joining connection gets the running
	// session snapshot.
	if lobby.Status == model.StatusPicking {
		if session, err := c.voting.ByLobby(ctx, lobbyID); err == nil {
			c.broadcaster.SendToOne(connID, EventSessionUpdate, session)
		}
	}

	c.logger.Info("user joined lobby", "lobby_id", lobbyID, "user_id", user.ID)
	return lobby, nil
}

// StartSession opens a voting round over the given movie snapshot. It
// replaces any previous round, which also covers "play again" from a
// completed lobby.
func (c *Coordinator) StartSession(ctx context.Context, lobbyID string, movies []model.Movie) (model.Lobby, model.Session, error) {
	unlock := c.locks.Lock(lobbyID)
	defer unlock()

	lobby, err := c.lobbies.SetPicking(ctx, lobbyID)
	if err != nil {
		return model.Lobby{}, model.Session{}, err
	}

	session, err := c.voting.Start(ctx, lobbyID, movies)
	if err != nil {
		return model.Lobby{}, model.Session{}, err
	}

	c.broadcaster.Broadcast(lobbyID, EventLobbyUpdate, lobby)
	c.broadcaster.Broadcast(lobbyID, EventSessionUpdate, session)

	c.logger.Info("session started", "lobby_id", lobbyID, "movies", len(movies))
	return lobby, session, nil
}

// SubmitVote records a swipe and broadcasts the updated session; on a
// unanimous match the completed lobby goes out in the same critical
// section, so members observe the match exactly once.
func (c *Coordinator) SubmitVote(ctx context.Context, lobbyID, userID, movieID string, vote model.Vote) error {
	unlock := c.locks.Lock(lobbyID)
	defer unlock()

	outcome, err := c.voting.Vote(ctx, lobbyID, userID, movieID, vote)
	if err != nil {
		return err
	}
	c.metrics.VoteRecorded(string(vote))

	if outcome.Matched {
		c.metrics.MatchFound()
		c.broadcaster.Broadcast(lobbyID, EventLobbyUpdate, outcome.Lobby)
		c.broadcaster.Broadcast(lobbyID, EventSessionUpdate, outcome.Session)
		c.logger.Info("match found", "lobby_id", lobbyID, "movie_id", outcome.MovieID)
		return nil
	}

	c.broadcaster.Broadcast(lobbyID, EventSessionUpdate, outcome.Session)
	return nil
}

// LeaveLobby removes the user and never fails: duplicate and late leaves
// are as good as the first one. An emptied lobby disappears together with
// its invite code and session, with no farewell broadcast.
func (c *Coordinator) LeaveLobby(ctx context.Context, connID, userID, lobbyID string) {
	unlock := c.locks.Lock(lobbyID)
	defer unlock()

	outcome, err := c.lobbies.Leave(ctx, lobbyID, userID)
	if err != nil {
		c.logger.Error("leave failed", "lobby_id", lobbyID, "user_id", userID, "error", err)
	} else if outcome.Destroyed {
		if err := c.voting.Drop(ctx, lobbyID); err != nil {
			c.logger.Error("session drop failed", "lobby_id", lobbyID, "error", err)
		}
		c.metrics.LobbyDestroyed()
		c.logger.Info("lobby destroyed", "lobby_id", lobbyID)
	} else {
		c.broadcaster.Broadcast(lobbyID, EventLobbyUpdate, outcome.Lobby)
	}

	c.broadcaster.LeaveGroup(connID, lobbyID)
}

// Disconnect routes a dropped connection through the regular leave path
// for whatever lobby the user was in.
func (c *Coordinator) Disconnect(ctx context.Context, connID, userID string) {
	if userID == "" {
		return
	}
	lobby, err := c.lobbies.ByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, usecase_lobby.ErrLobbyNotFound) {
			c.logger.Error("disconnect lookup failed", "user_id", userID, "error", err)
		}
		return
	}
	c.LeaveLobby(ctx, connID, userID, lobby.ID)
}

type nopMetrics struct{}

func (nopMetrics) LobbyCreated()       {}
func (nopMetrics) LobbyDestroyed()     {}
func (nopMetrics) VoteRecorded(string) {}
func (nopMetrics) MatchFound()         {}
