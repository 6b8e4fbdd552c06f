package model

type LobbyStatus string

const (
	StatusWaiting   LobbyStatus = "waiting"
	StatusPicking   LobbyStatus = "picking"
	StatusCompleted LobbyStatus = "completed"
)

// Lobby is one movie-selection round. Participant order is meaningful:
// when the creator leaves, the first remaining participant inherits the
// lobby.
type Lobby struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	CreatorID       string      `json:"creatorId"`
	Participants    []User      `json:"participants"`
	Status          LobbyStatus `json:"status"`
	SelectedMovieID string      `json:"selectedMovieId,omitempty"`
	InviteCode      string      `json:"inviteCode"`
}

// HasParticipant reports whether the user is already in the lobby.
func (l Lobby) HasParticipant(userID string) bool {
	for _, p := range l.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no mutable state with the receiver.
func (l Lobby) Clone() Lobby {
	out := l
	out.Participants = make([]User, len(l.Participants))
	copy(out.Participants, l.Participants)
	return out
}
