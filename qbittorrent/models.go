package qbittorrent

import "time"

// ETAInfinity is the sentinel qBittorrent reports when a torrent has no
// computable completion time.
const ETAInfinity = 8640000 * time.Second

// TorrentInfo contains information about a torrent
type TorrentInfo struct {
	Hash           string
	Name           string
	State          string
	Size           int64
	Progress       float64
	DownloadedSize int64
	UploadedSize   int64
	Ratio          float64
	ETA            time.Duration
	AddedOn        time.Time
	Category       string
	Tags           []string
}

// Snapshot is one poll's view of the qBittorrent instance: the full torrent
// list plus the global transfer speeds.
type Snapshot struct {
	Torrents      []TorrentInfo
	DownloadSpeed int64 // bytes/s
	UploadSpeed   int64 // bytes/s
	FetchedAt     time.Time
}

// HasETA reports whether qBittorrent computed a finite completion estimate.
func (t *TorrentInfo) HasETA() bool {
	return t.ETA > 0 && t.ETA < ETAInfinity
}
