package sensor

import (
	"strings"
	"testing"

	"github.com/s0up4200/qbitwatch/qbittorrent"
)

func TestCompileFilter(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `Category == "movies"`,
			wantErr:    false,
		},
		{
			name:        "empty expression",
			expression:  "",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `hasTag("unclosed`,
			wantErr:    true,
		},
		{
			name:       "complex expression",
			expression: `hasTag("hd") and Size > 1024 and isDownloading()`,
			wantErr:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := CompileFilter(tt.expression)

			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error but got none")
				} else if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if filter == nil {
				t.Fatal("expected filter but got nil")
			}
			if filter.Expression() != tt.expression {
				t.Errorf("Expression() = %q, want %q", filter.Expression(), tt.expression)
			}
		})
	}
}

func TestFilterMatch(t *testing.T) {
	torrent := qbittorrent.TorrentInfo{
		Name:     "Test.Torrent.2023",
		State:    "downloading",
		Category: "movies",
		Tags:     []string{"hd", "remux"},
		Size:     8 * 1024 * 1024 * 1024,
		Progress: 0.4,
		Ratio:    0.1,
	}

	tests := []struct {
		name       string
		expression string
		expected   bool
	}{
		{
			name:       "has tag",
			expression: `hasTag("hd")`,
			expected:   true,
		},
		{
			name:       "tag match is case-insensitive",
			expression: `hasTag("REMUX")`,
			expected:   true,
		},
		{
			name:       "does not have tag",
			expression: `hasTag("sd")`,
			expected:   false,
		},
		{
			name:       "category match",
			expression: `Category == "movies"`,
			expected:   true,
		},
		{
			name:       "state helper",
			expression: `isDownloading()`,
			expected:   true,
		},
		{
			name:       "seeding helper on downloading torrent",
			expression: `isSeeding()`,
			expected:   false,
		},
		{
			name:       "size comparison",
			expression: `Size > 1024`,
			expected:   true,
		},
		{
			name:       "combined",
			expression: `Category == "movies" and isDownloading() and not isPaused()`,
			expected:   true,
		},
		{
			name:       "name contains",
			expression: `Name contains "2023"`,
			expected:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := CompileFilter(tt.expression)
			if err != nil {
				t.Fatalf("failed to compile filter: %v", err)
			}

			got, err := filter.Match(torrent)
			if err != nil {
				t.Fatalf("failed to evaluate filter: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Match() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFilterApply(t *testing.T) {
	torrents := []qbittorrent.TorrentInfo{
		{Name: "a", State: "downloading", Category: "movies"},
		{Name: "b", State: "uploading", Category: "movies"},
		{Name: "c", State: "downloading", Category: "tv"},
	}

	filter, err := CompileFilter(`Category == "movies"`)
	if err != nil {
		t.Fatalf("failed to compile filter: %v", err)
	}

	matched, err := filter.Apply(torrents)
	if err != nil {
		t.Fatalf("failed to apply filter: %v", err)
	}
	if len(matched) != 2 {
		t.Fatalf("Apply() returned %d torrents, want 2", len(matched))
	}
	if matched[0].Name != "a" || matched[1].Name != "b" {
		t.Errorf("Apply() returned %v", matched)
	}
}

func TestNilFilterMatchesEverything(t *testing.T) {
	var filter *Filter

	ok, err := filter.Match(qbittorrent.TorrentInfo{Name: "anything"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("nil filter should match everything")
	}

	torrents := []qbittorrent.TorrentInfo{{Name: "a"}, {Name: "b"}}
	matched, err := filter.Apply(torrents)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matched) != len(torrents) {
		t.Errorf("nil filter Apply() returned %d torrents, want %d", len(matched), len(torrents))
	}
}
