package infra_jellyfin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/doyensec/safeurl"
	"github.com/jellypick/core/internal/model"
)

// One runtime tick is 100ns, so a minute is 600M ticks.
const ticksPerMinute = 600_000_000

// Client is the catalog provider backed by a Jellyfin server. The server
// base URL is user-supplied per request, so outbound calls go through a
// safeurl-wrapped client unless private networks are explicitly allowed
// (home-LAN Jellyfin setups).
type Client struct {
	http  *http.Client
	limit int
}

type Config struct {
	Timeout              time.Duration
	PageLimit            int
	AllowPrivateNetworks bool
}

func New(cfg Config) *Client {
	if cfg.PageLimit <= 0 {
		cfg.PageLimit = 100
	}
	return &Client{http: NewHTTPClient(cfg), limit: cfg.PageLimit}
}

// NewHTTPClient builds the outbound client used for all Jellyfin traffic,
// the proxy included. Unless private networks are allowed, destinations
// are restricted to public addresses on the usual web and Jellyfin ports.
func NewHTTPClient(cfg Config) *http.Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.AllowPrivateNetworks {
		return &http.Client{Timeout: cfg.Timeout}
	}
	config := safeurl.GetConfigBuilder().
		SetTimeout(cfg.Timeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443, 8096, 8920).
		Build()
	return safeurl.Client(config).Client
}

type item struct {
	ID             string            `json:"Id"`
	Name           string            `json:"Name"`
	Overview       string            `json:"Overview"`
	ImageTags      map[string]string `json:"ImageTags"`
	ProductionYear int               `json:"ProductionYear"`
	RunTimeTicks   int64             `json:"RunTimeTicks"`
	Genres         []string          `json:"Genres"`
}

type itemsResponse struct {
	Items []item `json:"Items"`
}

// FetchMovies pulls a random page of movies from the user's library.
func (c *Client) FetchMovies(ctx context.Context, creds model.Credentials) ([]model.Movie, error) {
	base := strings.TrimRight(creds.ServerURL, "/")

	query := url.Values{}
	query.Set("userId", creds.UserID)
	query.Set("includeItemTypes", "Movie")
	query.Set("recursive", "true")
	query.Set("sortBy", "Random")
	query.Set("sortOrder", "Ascending")
	query.Set("fields", "Overview,Genres,ProductionYear,RunTimeTicks")
	query.Set("limit", strconv.Itoa(c.limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/Items?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build items request: %w", err)
	}
	req.Header.Set("X-Emby-Token", creds.AccessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch items: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch items: unexpected status %d", resp.StatusCode)
	}

	var payload itemsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}

	movies := make([]model.Movie, 0, len(payload.Items))
	for _, it := range payload.Items {
		if it.ID == "" {
			continue
		}
		movies = append(movies, mapItem(base, it))
	}
	return movies, nil
}

func mapItem(base string, it item) model.Movie {
	movie := model.Movie{
		ID:       it.ID,
		Name:     it.Name,
		Overview: it.Overview,
		Year:     it.ProductionYear,
		Runtime:  int(it.RunTimeTicks / ticksPerMinute),
		Genres:   it.Genres,
	}
	if tag, ok := it.ImageTags["Primary"]; ok {
		movie.PosterURL = fmt.Sprintf("%s/Items/%s/Images/Primary?tag=%s", base, it.ID, url.QueryEscape(tag))
	}
	return movie
}
