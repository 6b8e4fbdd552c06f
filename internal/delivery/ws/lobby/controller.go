package ws_lobby

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jellypick/core/internal/model"
	usecase_catalog "github.com/jellypick/core/internal/usecase/catalog"
	usecase_coordinator "github.com/jellypick/core/internal/usecase/coordinator"
	usecase_lobby "github.com/jellypick/core/internal/usecase/lobby"
	usecase_voting "github.com/jellypick/core/internal/usecase/voting"
)

// Controller upgrades /ws connections and drives the coordinator from
// inbound events. Each event gets an ack back on the same connection;
// group fan-out happens inside the coordinator via the hub.
type Controller struct {
	hub         *Hub
	coordinator *usecase_coordinator.Coordinator
	catalog     *usecase_catalog.Usecase

	upgrader websocket.Upgrader
	logger   *slog.Logger
}

type ControllerOption func(*Controller)

func WithControllerLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func NewController(
	hub *Hub,
	coordinator *usecase_coordinator.Coordinator,
	catalog *usecase_catalog.Usecase,
	allowedOrigins []string,
	opts ...ControllerOption,
) *Controller {
	c := &Controller{
		hub:         hub,
		coordinator: coordinator,
		catalog:     catalog,
		logger:      slog.Default(),
	}
	c.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ws", c.serve)
}

func (c *Controller) serve(ctx *gin.Context) {
	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := newClient(uuid.NewString(), conn)
	c.hub.Register(client)
	go client.writePump()

	defer func() {
		c.coordinator.Disconnect(context.Background(), client.ID, client.userID)
		c.hub.Remove(client)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		c.handleMessage(ctx.Request.Context(), client, data)
	}
}

func (c *Controller) handleMessage(ctx context.Context, client *Client, data []byte) {
	var event rawEvent
	if err := json.Unmarshal(data, &event); err != nil {
		c.ack(client, "", ackErr("malformed event"))
		return
	}

	switch event.Type {
	case EventCreateLobby:
		c.createLobby(ctx, client, event)
	case EventJoinLobby:
		c.joinLobby(ctx, client, event, false)
	case EventJoinLobbyCode:
		c.joinLobby(ctx, client, event, true)
	case EventStartSession:
		c.startSession(ctx, client, event)
	case EventSubmitVote:
		c.submitVote(ctx, client, event)
	case EventLeaveLobby:
		c.leaveLobby(ctx, client, event)
	default:
		c.ack(client, event.RequestID, ackErr("unknown event type"))
	}
}

func (c *Controller) createLobby(ctx context.Context, client *Client, event rawEvent) {
	var payload createLobbyPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		c.ack(client, event.RequestID, ackErr("malformed payload"))
		return
	}
	ensureUserID(&payload.User)
	client.bindUser(payload.User.ID)

	lobby, err := c.coordinator.CreateLobby(ctx, client.ID, payload.User, payload.Name)
	if err != nil {
		c.ack(client, event.RequestID, ackErr(errorMessage(err)))
		return
	}
	c.ack(client, event.RequestID, ackOK(&lobby))
}

func (c *Controller) joinLobby(ctx context.Context, client *Client, event rawEvent, byCode bool) {
	var payload joinLobbyPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		c.ack(client, event.RequestID, ackErr("malformed payload"))
		return
	}
	ensureUserID(&payload.User)
	client.bindUser(payload.User.ID)

	var (
		lobby model.Lobby
		err   error
	)
	if byCode {
		lobby, err = c.coordinator.JoinLobbyByCode(ctx, client.ID, payload.User, payload.InviteCode)
	} else {
		lobby, err = c.coordinator.JoinLobby(ctx, client.ID, payload.User, payload.LobbyID)
	}
	if err != nil {
		c.ack(client, event.RequestID, ackErr(errorMessage(err)))
		return
	}
	c.ack(client, event.RequestID, ackOK(&lobby))
}

func (c *Controller) startSession(ctx context.Context, client *Client, event rawEvent) {
	var payload startSessionPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		c.ack(client, event.RequestID, ackErr("malformed payload"))
		return
	}

	movies := payload.Movies
	if len(movies) == 0 && payload.Credentials != nil {
		fetched, err := c.catalog.Movies(ctx, model.Credentials{
			ServerURL:   payload.Credentials.ServerURL,
			UserID:      payload.Credentials.UserID,
			AccessToken: payload.Credentials.AccessToken,
		})
		if err != nil {
			c.ack(client, event.RequestID, ackErr(errorMessage(err)))
			return
		}
		movies = fetched
	}

	lobby, _, err := c.coordinator.StartSession(ctx, payload.LobbyID, movies)
	if err != nil {
		c.ack(client, event.RequestID, ackErr(errorMessage(err)))
		return
	}
	c.ack(client, event.RequestID, ackOK(&lobby))
}

func (c *Controller) submitVote(ctx context.Context, client *Client, event rawEvent) {
	var payload submitVotePayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		c.ack(client, event.RequestID, ackErr("malformed payload"))
		return
	}
	client.bindUser(payload.UserID)

	err := c.coordinator.SubmitVote(ctx, payload.LobbyID, payload.UserID, payload.MovieID, model.Vote(payload.Vote))
	if err != nil {
		c.ack(client, event.RequestID, ackErr(errorMessage(err)))
		return
	}
	c.ack(client, event.RequestID, ackOK(nil))
}

func (c *Controller) leaveLobby(ctx context.Context, client *Client, event rawEvent) {
	var payload leaveLobbyPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		c.ack(client, event.RequestID, ackErr("malformed payload"))
		return
	}

	c.coordinator.LeaveLobby(ctx, client.ID, payload.UserID, payload.LobbyID)
	c.ack(client, event.RequestID, ackOK(nil))
}

func (c *Controller) ack(client *Client, requestID string, payload ackPayload) {
	c.hub.Send(client.ID, Event{Type: EventAck, RequestID: requestID, Payload: payload})
}

// ensureUserID turns a connection without identity into an ephemeral
// guest.
func ensureUserID(user *model.User) {
	if user.ID == "" {
		user.ID = uuid.NewString()
		if user.Name == "" {
			user.Name = "Guest"
		}
	}
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, usecase_lobby.ErrInvalidInviteCode):
		return "Invalid invite code"
	case errors.Is(err, usecase_lobby.ErrLobbyNotFound):
		return "Lobby not found"
	case errors.Is(err, usecase_voting.ErrSessionNotFound):
		return "Session not found"
	case errors.Is(err, usecase_lobby.ErrInvalidInput), errors.Is(err, usecase_voting.ErrInvalidInput),
		errors.Is(err, usecase_catalog.ErrInvalidInput):
		return "Invalid input"
	case errors.Is(err, usecase_catalog.ErrCatalogUnavailable):
		return "Catalog unavailable"
	default:
		return "Internal error"
	}
}
