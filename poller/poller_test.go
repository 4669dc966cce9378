package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/qbitwatch/qbittorrent"
	"github.com/s0up4200/qbitwatch/sensor"
)

type fakeFetcher struct {
	snapshot *qbittorrent.Snapshot
	err      error
	calls    int
}

func (f *fakeFetcher) Snapshot(ctx context.Context) (*qbittorrent.Snapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot, nil
}

func testSnapshot() *qbittorrent.Snapshot {
	return &qbittorrent.Snapshot{
		Torrents: []qbittorrent.TorrentInfo{
			{Name: "a", State: "downloading", Category: "movies", Size: 100, DownloadedSize: 50},
			{Name: "b", State: "uploading", Category: "tv", Size: 100, DownloadedSize: 100},
		},
		DownloadSpeed: 1024,
		FetchedAt:     time.Now(),
	}
}

func TestPollStoresReading(t *testing.T) {
	fetcher := &fakeFetcher{snapshot: testSnapshot()}
	p := New(fetcher, nil, time.Minute, zerolog.Nop())

	if _, ok := p.Latest(); ok {
		t.Fatal("Latest() reported data before first poll")
	}

	if err := p.poll(context.Background()); err != nil {
		t.Fatalf("poll failed: %v", err)
	}

	reading, ok := p.Latest()
	if !ok {
		t.Fatal("Latest() reported no data after successful poll")
	}
	if reading.Values.TotalCount != 2 {
		t.Errorf("TotalCount = %d, want 2", reading.Values.TotalCount)
	}
	if reading.Values.DownloadingCount != 1 || reading.Values.SeedingCount != 1 {
		t.Errorf("counts = %d/%d, want 1/1",
			reading.Values.DownloadingCount, reading.Values.SeedingCount)
	}
	if reading.FetchedAt.IsZero() {
		t.Error("FetchedAt not set")
	}
}

func TestPollKeepsLastReadingOnError(t *testing.T) {
	fetcher := &fakeFetcher{snapshot: testSnapshot()}
	p := New(fetcher, nil, time.Minute, zerolog.Nop())

	if err := p.poll(context.Background()); err != nil {
		t.Fatalf("poll failed: %v", err)
	}

	fetcher.err = errors.New("connection refused")
	if err := p.poll(context.Background()); err == nil {
		t.Fatal("expected poll error")
	}

	reading, ok := p.Latest()
	if !ok {
		t.Fatal("previous reading lost after failed poll")
	}
	if reading.Values.TotalCount != 2 {
		t.Errorf("TotalCount = %d, want 2 from previous reading", reading.Values.TotalCount)
	}
}

func TestPollAppliesFilter(t *testing.T) {
	filter, err := sensor.CompileFilter(`Category == "movies"`)
	if err != nil {
		t.Fatalf("failed to compile filter: %v", err)
	}

	fetcher := &fakeFetcher{snapshot: testSnapshot()}
	p := New(fetcher, filter, time.Minute, zerolog.Nop())

	if err := p.poll(context.Background()); err != nil {
		t.Fatalf("poll failed: %v", err)
	}

	reading, _ := p.Latest()
	if reading.Values.TotalCount != 1 {
		t.Errorf("TotalCount = %d, want 1 after filtering", reading.Values.TotalCount)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	fetcher := &fakeFetcher{snapshot: testSnapshot()}
	p := New(fetcher, nil, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- p.Run(ctx)
	}()

	// Let at least the immediate poll and one tick happen.
	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v, want nil on cancel", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	if fetcher.calls < 2 {
		t.Errorf("fetcher called %d times, want at least 2", fetcher.calls)
	}
}
