// Package metrics collects and exposes Prometheus metrics for the
// coordination engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements the metrics interfaces consumed by the
// coordinator, the catalog usecase and the ws hub.
type Collector struct {
	lobbiesCreated   prometheus.Counter
	lobbiesDestroyed prometheus.Counter
	lobbiesActive    prometheus.Gauge
	votes            *prometheus.CounterVec
	matches          prometheus.Counter
	wsConnections    prometheus.Gauge
	catalogFetches   *prometheus.CounterVec
	catalogLatency   prometheus.Histogram
}

// NewCollector registers all metrics on reg and returns the collector.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		lobbiesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jellypick_lobbies_created_total",
			Help: "Total number of lobbies created.",
		}),
		lobbiesDestroyed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jellypick_lobbies_destroyed_total",
			Help: "Total number of lobbies destroyed after the last participant left.",
		}),
		lobbiesActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "jellypick_lobbies_active",
			Help: "Number of live lobbies.",
		}),
		votes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jellypick_votes_total",
			Help: "Total number of votes recorded, by value.",
		}, []string{"vote"}),
		matches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jellypick_matches_total",
			Help: "Total number of unanimous matches.",
		}),
		wsConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "jellypick_ws_connections",
			Help: "Number of open websocket connections.",
		}),
		catalogFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jellypick_catalog_fetches_total",
			Help: "Total number of catalog fetches, by outcome.",
		}, []string{"outcome"}),
		catalogLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "jellypick_catalog_fetch_seconds",
			Help:    "Catalog fetch latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.lobbiesCreated,
		c.lobbiesDestroyed,
		c.lobbiesActive,
		c.votes,
		c.matches,
		c.wsConnections,
		c.catalogFetches,
		c.catalogLatency,
	)
	return c
}

func (c *Collector) LobbyCreated() {
	c.lobbiesCreated.Inc()
	c.lobbiesActive.Inc()
}

func (c *Collector) LobbyDestroyed() {
	c.lobbiesDestroyed.Inc()
	c.lobbiesActive.Dec()
}

func (c *Collector) VoteRecorded(vote string) {
	c.votes.WithLabelValues(vote).Inc()
}

func (c *Collector) MatchFound() {
	c.matches.Inc()
}

func (c *Collector) ConnectionOpened() {
	c.wsConnections.Inc()
}

func (c *Collector) ConnectionClosed() {
	c.wsConnections.Dec()
}

func (c *Collector) CatalogFetch(duration time.Duration, ok bool) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	c.catalogFetches.WithLabelValues(outcome).Inc()
	c.catalogLatency.Observe(duration.Seconds())
}

// Handler returns the scrape endpoint for the given gatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
