// Package qbittorrent provides a client for interacting with the qBittorrent Web API.
//
// This package wraps the autobrr/go-qbittorrent library to provide a
// higher-level interface tailored for qbitwatch's needs: fetching a
// point-in-time snapshot of the torrent list and global transfer speeds
// that the sensor package reduces to scalar values.
//
// # Usage
//
//	client, err := qbittorrent.NewClient(url, username, password, timeout, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	snapshot, err := client.Snapshot(ctx)
package qbittorrent
