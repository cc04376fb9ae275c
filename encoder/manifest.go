package encoder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MasterPlaylistName is the entry point a player fetches first.
const MasterPlaylistName = "master.m3u8"

// MasterPlaylist renders the top-level playlist for the ladder. Renditions
// appear in ladder order; players rely on that order when picking a
// default variant.
func MasterPlaylist(ladder []Rendition) string {
	lines := []string{"#EXTM3U", "#EXT-X-VERSION:3"}
	for _, r := range ladder {
		lines = append(lines,
			fmt.Sprintf("#EXT-X-STREAM-INF:BANDWIDTH=%d,RESOLUTION=%dx%d", r.Bandwidth(), r.Width, r.Height),
			r.PlaylistName())
	}
	return strings.Join(lines, "\n") + "\n"
}

// WriteMasterPlaylist writes the rendered master playlist into dir.
func WriteMasterPlaylist(dir string, ladder []Rendition) error {
	return os.WriteFile(filepath.Join(dir, MasterPlaylistName), []byte(MasterPlaylist(ladder)), 0644)
}
