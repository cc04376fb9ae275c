package encoder

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMasterPlaylistOrderAndBandwidth(t *testing.T) {
	ladder := []Rendition{
		{Label: "720p", Width: 1280, Height: 720, BitrateKbps: 1400},
		{Label: "480p", Width: 854, Height: 480, BitrateKbps: 800},
	}

	got := MasterPlaylist(ladder)
	want := strings.Join([]string{
		"#EXTM3U",
		"#EXT-X-VERSION:3",
		"#EXT-X-STREAM-INF:BANDWIDTH=1400000,RESOLUTION=1280x720",
		"playlist_720p.m3u8",
		"#EXT-X-STREAM-INF:BANDWIDTH=800000,RESOLUTION=854x480",
		"playlist_480p.m3u8",
	}, "\n") + "\n"

	if got != want {
		t.Errorf("master playlist mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestMasterPlaylistFollowsLadderOrder(t *testing.T) {
	// Ladder order is the playlist order, whatever it is.
	ladder := []Rendition{
		{Label: "480p", Width: 854, Height: 480, BitrateKbps: 800},
		{Label: "720p", Width: 1280, Height: 720, BitrateKbps: 1400},
	}
	got := MasterPlaylist(ladder)
	if strings.Index(got, "playlist_480p.m3u8") > strings.Index(got, "playlist_720p.m3u8") {
		t.Errorf("playlist does not follow ladder order:\n%s", got)
	}
}

func TestWriteMasterPlaylist(t *testing.T) {
	dir := t.TempDir()
	if err := WriteMasterPlaylist(dir, DefaultLadder); err != nil {
		t.Fatalf("WriteMasterPlaylist failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, MasterPlaylistName))
	if err != nil {
		t.Fatalf("master playlist not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "#EXTM3U\n") {
		t.Errorf("unexpected playlist header: %q", string(data)[:20])
	}
}

func TestDefaultLadder(t *testing.T) {
	if len(DefaultLadder) != 2 {
		t.Fatalf("expected 2 renditions, got %d", len(DefaultLadder))
	}
	top := DefaultLadder[0]
	if top.Label != "720p" || top.Width != 1280 || top.Height != 720 || top.Bandwidth() != 1400000 {
		t.Errorf("unexpected top rendition: %+v", top)
	}
}
