package ws_lobby

import (
	"encoding/json"

	"github.com/jellypick/core/internal/model"
)

// Inbound event types, matching the client protocol.
const (
	EventCreateLobby   = "create-lobby"
	EventJoinLobby     = "join-lobby"
	EventJoinLobbyCode = "join-lobby-code"
	EventStartSession  = "start-session"
	EventSubmitVote    = "submit-vote"
	EventLeaveLobby    = "leave-lobby"

	EventAck = "ack"
)

// Event is the wire envelope in both directions. RequestID correlates an
// ack with the inbound event that caused it; broadcasts carry none.
type Event struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId,omitempty"`
	Payload   any    `json:"payload,omitempty"`
}

type rawEvent struct {
	Type      string          `json:"type"`
	RequestID string          `json:"requestId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type createLobbyPayload struct {
	User model.User `json:"user"`
	Name string     `json:"name"`
}

type joinLobbyPayload struct {
	User       model.User `json:"user"`
	LobbyID    string     `json:"lobbyId"`
	InviteCode string     `json:"inviteCode"`
}

type credentialsPayload struct {
	ServerURL   string `json:"serverUrl"`
	UserID      string `json:"userId"`
	AccessToken string `json:"accessToken"`
}

// startSessionPayload either carries the movie snapshot directly or the
// catalog credentials to fetch one server-side.
type startSessionPayload struct {
	LobbyID     string              `json:"lobbyId"`
	Movies      []model.Movie       `json:"movies"`
	Credentials *credentialsPayload `json:"credentials,omitempty"`
}

type submitVotePayload struct {
	LobbyID string `json:"lobbyId"`
	UserID  string `json:"userId"`
	MovieID string `json:"movieId"`
	Vote    string `json:"vote"`
}

type leaveLobbyPayload struct {
	LobbyID string `json:"lobbyId"`
	UserID  string `json:"userId"`
}

type ackPayload struct {
	Success bool         `json:"success"`
	Lobby   *model.Lobby `json:"lobby,omitempty"`
	Error   string       `json:"error,omitempty"`
}

func ackOK(lobby *model.Lobby) ackPayload {
	return ackPayload{Success: true, Lobby: lobby}
}

func ackErr(message string) ackPayload {
	return ackPayload{Success: false, Error: message}
}
