package sensor

import (
	"math"
	"time"

	"github.com/s0up4200/qbitwatch/qbittorrent"
)

// Compute derives all sensor values from one snapshot.
func Compute(snapshot *qbittorrent.Snapshot) Values {
	values := Values{
		Status:        status(snapshot.DownloadSpeed, snapshot.UploadSpeed),
		DownloadSpeed: formatSpeed(snapshot.DownloadSpeed),
		UploadSpeed:   formatSpeed(snapshot.UploadSpeed),
		TotalCount:    len(snapshot.Torrents),
	}

	var (
		percentTotal      int64
		percentDownloaded int64
		highestETA        time.Duration
	)

	for i := range snapshot.Torrents {
		t := &snapshot.Torrents[i]

		downloading := IsDownloadingState(t.State)
		paused := IsPausedState(t.State)

		switch {
		case downloading:
			values.DownloadingCount++
		case IsSeedingState(t.State):
			values.SeedingCount++
		case paused:
			values.PausedCount++
		}

		if downloading || paused {
			percentTotal += t.Size
			percentDownloaded += t.DownloadedSize
		}

		if downloading && t.HasETA() && t.ETA > highestETA {
			highestETA = t.ETA
		}
	}

	if percentTotal > 0 {
		percent := float64(percentDownloaded) / float64(percentTotal) * 100
		percent = math.Min(math.Max(percent, 0), 100)
		values.DownloadPercent = round2(percent)
	}

	if highestETA > 0 {
		minutes := int64(math.Round(highestETA.Minutes()))
		values.HighestETAMinutes = &minutes
	}

	return values
}

// status classifies the overall activity from the global transfer speeds.
func status(download, upload int64) string {
	switch {
	case upload > 0 && download > 0:
		return StatusUpDown
	case upload > 0:
		return StatusSeeding
	case download > 0:
		return StatusDownloading
	default:
		return StatusIdle
	}
}

// formatSpeed converts a bytes/s measurement into KiB/s, rounded for display:
// two decimals below 0.1 KiB/s, one above.
func formatSpeed(speed int64) float64 {
	kib := float64(speed) / 1024
	if kib < 0.1 {
		return round2(kib)
	}
	return math.Round(kib*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
