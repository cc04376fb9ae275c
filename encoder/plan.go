package encoder

// Rendition describes one quality level of the encode ladder.
type Rendition struct {
	Label       string // e.g. "720p"
	Width       int
	Height      int
	BitrateKbps int // video bitrate in kbit/s
}

// DefaultLadder lists the renditions produced for every upload. Its order
// is the master playlist order.
var DefaultLadder = []Rendition{
	{Label: "720p", Width: 1280, Height: 720, BitrateKbps: 1400},
	{Label: "480p", Width: 854, Height: 480, BitrateKbps: 800},
}

// Bandwidth returns the playlist bandwidth in bits per second.
func (r Rendition) Bandwidth() int {
	return r.BitrateKbps * 1000
}

// PlaylistName returns the rendition's own index file name.
func (r Rendition) PlaylistName() string {
	return "playlist_" + r.Label + ".m3u8"
}

// SegmentPattern returns the ffmpeg filename pattern for the rendition's
// segment files.
func (r Rendition) SegmentPattern() string {
	return r.Label + "_seg_%03d.ts"
}
