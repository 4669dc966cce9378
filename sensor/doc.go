// Package sensor reduces a qBittorrent snapshot to the scalar sensor values
// qbitwatch publishes: torrent counts by state, the highest completion ETA,
// the aggregate download percentage, the global transfer speeds and an
// overall activity status.
//
// Every value is a pure function of one snapshot; recomputing from the same
// input always yields the same values.
package sensor
