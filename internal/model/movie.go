package model

// Movie is an immutable snapshot of a catalog item, taken at session
// start. Runtime is in minutes.
type Movie struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Overview  string   `json:"overview"`
	PosterURL string   `json:"posterUrl"`
	Year      int      `json:"year"`
	Runtime   int      `json:"runtime"`
	Genres    []string `json:"genres"`
}
