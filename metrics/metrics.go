package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	TorrentsTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "qbitwatch",
		Name:      "torrents_total",
		Help:      "Total number of torrents known to qBittorrent.",
	})

	TorrentsByState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "qbitwatch",
		Name:      "torrents",
		Help:      "Number of torrents by aggregate state (downloading, seeding, paused).",
	}, []string{"state"})

	HighestETAMinutes = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "qbitwatch",
		Name:      "highest_eta_minutes",
		Help:      "Highest completion ETA among downloading torrents, in minutes. Zero when no torrent has a finite ETA.",
	})

	DownloadPercent = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "qbitwatch",
		Name:      "download_percent",
		Help:      "Aggregate completion percentage over downloading-or-paused torrents.",
	})

	DownloadSpeedBytes = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "qbitwatch",
		Name:      "download_speed_bytes_per_second",
		Help:      "Global download speed reported by qBittorrent.",
	})

	UploadSpeedBytes = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "qbitwatch",
		Name:      "upload_speed_bytes_per_second",
		Help:      "Global upload speed reported by qBittorrent.",
	})

	PollsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "qbitwatch",
		Name:      "polls_total",
		Help:      "Total poll cycles by result status.",
	}, []string{"status"})

	PollDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "qbitwatch",
		Name:      "poll_duration_seconds",
		Help:      "Poll cycle duration in seconds.",
		Buckets:   []float64{0.05, 0.1, 0.3, 0.5, 1, 2, 5, 10},
	})
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		TorrentsTotal,
		TorrentsByState,
		HighestETAMinutes,
		DownloadPercent,
		DownloadSpeedBytes,
		UploadSpeedBytes,
		PollsTotal,
		PollDuration,
	)
}
