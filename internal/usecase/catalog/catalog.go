package usecase_catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jellypick/core/internal/model"
)

var (
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrInvalidInput       = errors.New("invalid input")
)

//go:generate mockery --name=Provider --output=./mocks/provider --filename=provider.go
type Provider interface {
	FetchMovies(ctx context.Context, creds model.Credentials) ([]model.Movie, error)
}

type Metrics interface {
	CatalogFetch(duration time.Duration, ok bool)
}

type Usecase struct {
	provider Provider
	metrics  Metrics
}

type Option func(*Usecase)

func WithMetrics(m Metrics) Option {
	return func(u *Usecase) {
		u.metrics = m
	}
}

func New(provider Provider, opts ...Option) *Usecase {
	u := &Usecase{
		provider: provider,
		metrics:  nopMetrics{},
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Movies pulls the candidate list for a session start. Whatever comes
// back is the immutable snapshot the whole round votes over; the catalog
// is never re-queried mid-session.
func (u *Usecase) Movies(ctx context.Context, creds model.Credentials) ([]model.Movie, error) {
	if creds.ServerURL == "" || creds.AccessToken == "" {
		return nil, fmt.Errorf("%w: missing catalog credentials", ErrInvalidInput)
	}

	started := time.Now()
	movies, err := u.provider.FetchMovies(ctx, creds)
	u.metrics.CatalogFetch(time.Since(started), err == nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	return movies, nil
}

type nopMetrics struct{}

func (nopMetrics) CatalogFetch(time.Duration, bool) {}
