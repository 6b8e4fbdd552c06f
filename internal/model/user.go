package model

// User is a lobby participant. Jellyfin fields are opaque to the core and
// only forwarded to the catalog.
type User struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	JellyfinUserID      string `json:"jellyfinUserId,omitempty"`
	JellyfinAccessToken string `json:"jellyfinAccessToken,omitempty"`
}

// Credentials identify a user against their Jellyfin server.
type Credentials struct {
	ServerURL   string
	UserID      string
	AccessToken string
}
