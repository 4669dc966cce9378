package qbittorrent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/autobrr/go-qbittorrent"
	"github.com/rs/zerolog"
)

// Client wraps the qBittorrent API client
type Client struct {
	client *qbittorrent.Client
	logger zerolog.Logger
}

// NewClient creates a new qBittorrent client
func NewClient(url, username, password string, timeout time.Duration, logger zerolog.Logger) (*Client, error) {
	client := qbittorrent.NewClient(qbittorrent.Config{
		Host:     url,
		Username: username,
		Password: password,
		Timeout:  int(timeout.Seconds()),
	})

	// Test connection by logging in
	if err := client.Login(); err != nil {
		return nil, fmt.Errorf("failed to connect to qBittorrent: %w", err)
	}

	return &Client{
		client: client,
		logger: logger,
	}, nil
}

// Snapshot fetches the full torrent list together with the global transfer
// speeds. This is the unit of work for every poll cycle.
func (c *Client) Snapshot(ctx context.Context) (*Snapshot, error) {
	torrents, err := c.client.GetTorrentsCtx(ctx, qbittorrent.TorrentFilterOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get torrents: %w", err)
	}

	transfer, err := c.client.GetTransferInfoCtx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get transfer info: %w", err)
	}

	c.logger.Debug().Msgf("Retrieved %d torrents from qBittorrent", len(torrents))

	snapshot := &Snapshot{
		Torrents:      make([]TorrentInfo, 0, len(torrents)),
		DownloadSpeed: transfer.DlInfoSpeed,
		UploadSpeed:   transfer.UpInfoSpeed,
		FetchedAt:     time.Now(),
	}
	for _, t := range torrents {
		snapshot.Torrents = append(snapshot.Torrents, convertTorrent(t))
	}

	return snapshot, nil
}

// GetAllTorrents retrieves all torrents from qBittorrent
func (c *Client) GetAllTorrents(ctx context.Context) ([]TorrentInfo, error) {
	torrents, err := c.client.GetTorrentsCtx(ctx, qbittorrent.TorrentFilterOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get torrents: %w", err)
	}

	results := make([]TorrentInfo, 0, len(torrents))
	for _, t := range torrents {
		results = append(results, convertTorrent(t))
	}
	return results, nil
}

// convertTorrent maps the library's torrent shape to our TorrentInfo struct.
func convertTorrent(t qbittorrent.Torrent) TorrentInfo {
	return TorrentInfo{
		Hash:           t.Hash,
		Name:           t.Name,
		State:          string(t.State),
		Size:           t.Size,
		Progress:       t.Progress,
		DownloadedSize: t.Downloaded,
		UploadedSize:   t.Uploaded,
		Ratio:          t.Ratio,
		ETA:            time.Duration(t.ETA) * time.Second,
		AddedOn:        time.Unix(t.AddedOn, 0),
		Category:       t.Category,
		Tags:           splitTags(t.Tags),
	}
}

func splitTags(tags string) []string {
	if strings.TrimSpace(tags) == "" {
		return nil
	}
	parts := strings.Split(tags, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
