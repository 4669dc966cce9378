package sensor

// Activity status values, derived from the global transfer speeds.
const (
	StatusUpDown      = "up_down"
	StatusSeeding     = "seeding"
	StatusDownloading = "downloading"
	StatusIdle        = "idle"
)

// Values holds one poll's derived sensor readings.
type Values struct {
	Status            string  `json:"status"`
	DownloadSpeed     float64 `json:"download_speed_kibps"`
	UploadSpeed       float64 `json:"upload_speed_kibps"`
	TotalCount        int     `json:"number_total"`
	DownloadingCount  int     `json:"number_downloading"`
	SeedingCount      int     `json:"number_seeding"`
	PausedCount       int     `json:"number_paused"`
	HighestETAMinutes *int64  `json:"highest_eta_minutes"`
	DownloadPercent   float64 `json:"download_percent"`
}

// IsDownloadingState reports whether a qBittorrent state label counts as
// actively downloading.
func IsDownloadingState(state string) bool {
	return state == "downloading" || state == "forcedDL"
}

// IsSeedingState reports whether a qBittorrent state label counts as seeding.
func IsSeedingState(state string) bool {
	return state == "uploading" || state == "stalledUP" || state == "queuedUP" || state == "forcedUP"
}

// IsPausedState reports whether a qBittorrent state label counts as a paused
// download. qBittorrent 5 renamed pausedDL to stoppedDL.
func IsPausedState(state string) bool {
	return state == "pausedDL" || state == "stoppedDL"
}
