package ws_lobby

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jellypick/core/internal/model"
	storage_lobby "github.com/jellypick/core/internal/storage/lobby"
	storage_session "github.com/jellypick/core/internal/storage/session"
	usecase_catalog "github.com/jellypick/core/internal/usecase/catalog"
	usecase_coordinator "github.com/jellypick/core/internal/usecase/coordinator"
	usecase_lobby "github.com/jellypick/core/internal/usecase/lobby"
	usecase_voting "github.com/jellypick/core/internal/usecase/voting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nullProvider struct{}

func (nullProvider) FetchMovies(_ context.Context, _ model.Credentials) ([]model.Movie, error) {
	return nil, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	lobbies := storage_lobby.New()
	sessions := storage_session.New()
	lobbyUC := usecase_lobby.New(lobbies)
	votingUC := usecase_voting.New(sessions, lobbies)

	hub := NewHub()
	coordinator := usecase_coordinator.New(lobbyUC, votingUC, hub)
	catalog := usecase_catalog.New(nullProvider{})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewController(hub, coordinator, catalog, []string{"*"}).RegisterRoutes(router.Group("/api"))

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

type wireEvent struct {
	Type      string          `json:"type"`
	RequestID string          `json:"requestId"`
	Payload   json.RawMessage `json:"payload"`
}

type wireAck struct {
	Success bool         `json:"success"`
	Lobby   *model.Lobby `json:"lobby"`
	Error   string       `json:"error"`
}

// readEvent reads the next inbound event of the given type, skipping
// others; broadcasts and acks interleave on the same connection.
func readEvent(t *testing.T, conn *websocket.Conn, eventType string) wireEvent {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		var event wireEvent
		require.NoError(t, conn.ReadJSON(&event))
		if event.Type == eventType {
			return event
		}
	}
}

func readAck(t *testing.T, conn *websocket.Conn, requestID string) wireAck {
	t.Helper()

	event := readEvent(t, conn, EventAck)
	require.Equal(t, requestID, event.RequestID)

	var ack wireAck
	require.NoError(t, json.Unmarshal(event.Payload, &ack))
	return ack
}

func send(t *testing.T, conn *websocket.Conn, eventType, requestID string, payload any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(Event{Type: eventType, RequestID: requestID, Payload: payload}))
}

func createLobby(t *testing.T, conn *websocket.Conn, user model.User) model.Lobby {
	t.Helper()

	send(t, conn, EventCreateLobby, "create-1", createLobbyPayload{User: user, Name: "movie night"})
	ack := readAck(t, conn, "create-1")
	require.True(t, ack.Success)
	require.NotNil(t, ack.Lobby)
	return *ack.Lobby
}

func TestCreateLobbyAck(t *testing.T) {
	server := newTestServer(t)
	conn := dial(t, server)

	lobby := createLobby(t, conn, model.User{ID: "user-a", Name: "Alice"})

	assert.Len(t, lobby.InviteCode, 6)
	assert.Equal(t, "user-a", lobby.CreatorID)
	assert.Equal(t, model.StatusWaiting, lobby.Status)
}

func TestCreateLobbyAssignsGuestIdentity(t *testing.T) {
	server := newTestServer(t)
	conn := dial(t, server)

	lobby := createLobby(t, conn, model.User{})

	require.Len(t, lobby.Participants, 1)
	assert.NotEmpty(t, lobby.Participants[0].ID)
	assert.Equal(t, "Guest", lobby.Participants[0].Name)
}

func TestJoinByCodeNotifiesExistingMembers(t *testing.T) {
	server := newTestServer(t)
	aliceConn := dial(t, server)
	bobConn := dial(t, server)

	lobby := createLobby(t, aliceConn, model.User{ID: "user-a", Name: "Alice"})

	send(t, bobConn, EventJoinLobbyCode, "join-1", joinLobbyPayload{
		User:       model.User{ID: "user-b", Name: "Bob"},
		InviteCode: lobby.InviteCode,
	})
	ack := readAck(t, bobConn, "join-1")
	require.True(t, ack.Success)
	assert.Len(t, ack.Lobby.Participants, 2)

	update := readEvent(t, aliceConn, usecase_coordinator.EventLobbyUpdate)
	var updated model.Lobby
	require.NoError(t, json.Unmarshal(update.Payload, &updated))
	assert.Len(t, updated.Participants, 2)
}

func TestJoinWithStaleCode(t *testing.T) {
	server := newTestServer(t)
	conn := dial(t, server)

	send(t, conn, EventJoinLobbyCode, "join-1", joinLobbyPayload{
		User:       model.User{ID: "user-b", Name: "Bob"},
		InviteCode: "ZZZZZZ",
	})
	ack := readAck(t, conn, "join-1")
	assert.False(t, ack.Success)
	assert.Equal(t, "Invalid invite code", ack.Error)
}

func TestVotingRoundOverWebsocket(t *testing.T) {
	server := newTestServer(t)
	aliceConn := dial(t, server)
	bobConn := dial(t, server)

	lobby := createLobby(t, aliceConn, model.User{ID: "user-a", Name: "Alice"})
	send(t, bobConn, EventJoinLobbyCode, "join-1", joinLobbyPayload{
		User:       model.User{ID: "user-b", Name: "Bob"},
		InviteCode: lobby.InviteCode,
	})
	require.True(t, readAck(t, bobConn, "join-1").Success)

	send(t, aliceConn, EventStartSession, "start-1", startSessionPayload{
		LobbyID: lobby.ID,
		Movies:  []model.Movie{{ID: "m1", Name: "Heat"}, {ID: "m2", Name: "Ronin"}},
	})
	ack := readAck(t, aliceConn, "start-1")
	require.True(t, ack.Success)
	assert.Equal(t, model.StatusPicking, ack.Lobby.Status)

	sessionStart := readEvent(t, bobConn, usecase_coordinator.EventSessionUpdate)
	var session model.Session
	require.NoError(t, json.Unmarshal(sessionStart.Payload, &session))
	assert.Len(t, session.Movies, 2)

	send(t, aliceConn, EventSubmitVote, "vote-1", submitVotePayload{
		LobbyID: lobby.ID, UserID: "user-a", MovieID: "m1", Vote: "yes",
	})
	require.True(t, readAck(t, aliceConn, "vote-1").Success)

	send(t, bobConn, EventSubmitVote, "vote-2", submitVotePayload{
		LobbyID: lobby.ID, UserID: "user-b", MovieID: "m1", Vote: "yes",
	})
	require.True(t, readAck(t, bobConn, "vote-2").Success)

	// Unanimity pushes the completed lobby to everyone.
	final := readEvent(t, bobConn, usecase_coordinator.EventLobbyUpdate)
	var completed model.Lobby
	require.NoError(t, json.Unmarshal(final.Payload, &completed))
	assert.Equal(t, model.StatusCompleted, completed.Status)
	assert.Equal(t, "m1", completed.SelectedMovieID)
}

func TestLeaveLobbyAck(t *testing.T) {
	server := newTestServer(t)
	conn := dial(t, server)

	lobby := createLobby(t, conn, model.User{ID: "user-a", Name: "Alice"})

	send(t, conn, EventLeaveLobby, "leave-1", leaveLobbyPayload{
		LobbyID: lobby.ID, UserID: "user-a",
	})
	assert.True(t, readAck(t, conn, "leave-1").Success)

	// The lobby and its code are gone.
	send(t, conn, EventJoinLobbyCode, "join-1", joinLobbyPayload{
		User:       model.User{ID: "user-a", Name: "Alice"},
		InviteCode: lobby.InviteCode,
	})
	ack := readAck(t, conn, "join-1")
	assert.False(t, ack.Success)
}

func TestDisconnectRemovesUserFromLobby(t *testing.T) {
	server := newTestServer(t)
	aliceConn := dial(t, server)
	bobConn := dial(t, server)

	lobby := createLobby(t, aliceConn, model.User{ID: "user-a", Name: "Alice"})
	send(t, bobConn, EventJoinLobbyCode, "join-1", joinLobbyPayload{
		User:       model.User{ID: "user-b", Name: "Bob"},
		InviteCode: lobby.InviteCode,
	})
	require.True(t, readAck(t, bobConn, "join-1").Success)
	readEvent(t, aliceConn, usecase_coordinator.EventLobbyUpdate)

	require.NoError(t, bobConn.Close())

	update := readEvent(t, aliceConn, usecase_coordinator.EventLobbyUpdate)
	var updated model.Lobby
	require.NoError(t, json.Unmarshal(update.Payload, &updated))
	require.Len(t, updated.Participants, 1)
	assert.Equal(t, "user-a", updated.Participants[0].ID)
}

func TestUnknownEventType(t *testing.T) {
	server := newTestServer(t)
	conn := dial(t, server)

	send(t, conn, "teleport", "req-1", nil)
	ack := readAck(t, conn, "req-1")
	assert.False(t, ack.Success)
	assert.Equal(t, "unknown event type", ack.Error)
}

func TestMalformedEvent(t *testing.T) {
	server := newTestServer(t)
	conn := dial(t, server)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	ack := readAck(t, conn, "")
	assert.False(t, ack.Success)
	assert.Equal(t, "malformed event", ack.Error)
}
