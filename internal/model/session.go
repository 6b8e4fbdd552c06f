package model

type Vote string

const (
	VoteYes Vote = "yes"
	VoteNo  Vote = "no"
)

// Session tracks per-movie votes for one lobby. Votes is keyed by movie
// id, then user id; a missing inner entry means "not voted yet". Every
// movie in Movies has an inner map, possibly empty.
type Session struct {
	LobbyID        string                     `json:"lobbyId"`
	Movies         []Movie                    `json:"movies"`
	Votes          map[string]map[string]Vote `json:"votes"`
	MatchedMovieID string                     `json:"matchedMovieId,omitempty"`
}

// NewSession builds a session with vote maps pre-seeded for every movie,
// so vote lookups are total.
func NewSession(lobbyID string, movies []Movie) Session {
	votes := make(map[string]map[string]Vote, len(movies))
	for _, m := range movies {
		votes[m.ID] = make(map[string]Vote)
	}
	return Session{
		LobbyID: lobbyID,
		Movies:  movies,
		Votes:   votes,
	}
}

// Clone returns a deep copy of the session.
func (s Session) Clone() Session {
	out := s
	out.Movies = make([]Movie, len(s.Movies))
	copy(out.Movies, s.Movies)
	out.Votes = make(map[string]map[string]Vote, len(s.Votes))
	for movieID, byUser := range s.Votes {
		inner := make(map[string]Vote, len(byUser))
		for userID, v := range byUser {
			inner[userID] = v
		}
		out.Votes[movieID] = inner
	}
	return out
}
