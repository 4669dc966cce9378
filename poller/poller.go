// Package poller drives the periodic fetch-then-reduce cycle: it pulls
// snapshots from qBittorrent on an interval, derives the sensor values and
// keeps the most recent reading for the HTTP surface.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/qbitwatch/metrics"
	"github.com/s0up4200/qbitwatch/qbittorrent"
	"github.com/s0up4200/qbitwatch/sensor"
)

// Fetcher supplies qBittorrent snapshots.
type Fetcher interface {
	Snapshot(ctx context.Context) (*qbittorrent.Snapshot, error)
}

// Reading is the outcome of one successful poll.
type Reading struct {
	Values    sensor.Values
	FetchedAt time.Time
}

// Poller periodically fetches a snapshot and recomputes the sensor values.
// The last successful reading survives failed polls so consumers can serve
// stale-but-available data, mirroring how the readings were presented before
// a source outage.
type Poller struct {
	fetcher  Fetcher
	filter   *sensor.Filter
	interval time.Duration
	logger   zerolog.Logger

	mu      sync.RWMutex
	latest  Reading
	hasData bool
}

// New creates a poller. filter may be nil to aggregate every torrent.
func New(fetcher Fetcher, filter *sensor.Filter, interval time.Duration, logger zerolog.Logger) *Poller {
	return &Poller{
		fetcher:  fetcher,
		filter:   filter,
		interval: interval,
		logger:   logger,
	}
}

// Run polls immediately, then on every interval tick. Blocks until ctx is
// cancelled. Failed polls are logged and skipped; the next tick retries.
func (p *Poller) Run(ctx context.Context) error {
	if err := p.poll(ctx); err != nil && ctx.Err() == nil {
		p.logger.Error().Err(err).Msg("Initial poll failed")
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := p.poll(ctx); err != nil && ctx.Err() == nil {
				p.logger.Error().Err(err).Msg("Poll failed")
			}
		}
	}
}

// Latest returns the most recent reading. The boolean is false until the
// first successful poll.
func (p *Poller) Latest() (Reading, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest, p.hasData
}

func (p *Poller) poll(ctx context.Context) error {
	start := time.Now()

	snapshot, err := p.fetcher.Snapshot(ctx)
	if err != nil {
		metrics.PollsTotal.WithLabelValues("error").Inc()
		return err
	}

	if p.filter != nil {
		filtered, err := p.filter.Apply(snapshot.Torrents)
		if err != nil {
			metrics.PollsTotal.WithLabelValues("error").Inc()
			return err
		}
		p.logger.Debug().
			Int("matched", len(filtered)).
			Int("fetched", len(snapshot.Torrents)).
			Str("filter", p.filter.Expression()).
			Msg("Applied torrent filter")
		snapshot.Torrents = filtered
	}

	values := sensor.Compute(snapshot)

	p.mu.Lock()
	p.latest = Reading{Values: values, FetchedAt: snapshot.FetchedAt}
	p.hasData = true
	p.mu.Unlock()

	publish(values)
	metrics.PollsTotal.WithLabelValues("success").Inc()
	metrics.PollDuration.Observe(time.Since(start).Seconds())

	p.logger.Debug().
		Int("torrents", values.TotalCount).
		Str("status", values.Status).
		Dur("took", time.Since(start)).
		Msg("Poll completed")

	return nil
}

// publish pushes one reading into the Prometheus gauges. Speeds are exported
// in bytes/s, so the KiB/s display values are converted back.
func publish(values sensor.Values) {
	metrics.TorrentsTotal.Set(float64(values.TotalCount))
	metrics.TorrentsByState.WithLabelValues("downloading").Set(float64(values.DownloadingCount))
	metrics.TorrentsByState.WithLabelValues("seeding").Set(float64(values.SeedingCount))
	metrics.TorrentsByState.WithLabelValues("paused").Set(float64(values.PausedCount))
	metrics.DownloadPercent.Set(values.DownloadPercent)
	metrics.DownloadSpeedBytes.Set(values.DownloadSpeed * 1024)
	metrics.UploadSpeedBytes.Set(values.UploadSpeed * 1024)

	if values.HighestETAMinutes != nil {
		metrics.HighestETAMinutes.Set(float64(*values.HighestETAMinutes))
	} else {
		metrics.HighestETAMinutes.Set(0)
	}
}
