package encoder

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Fixed encoding parameters. Segment boundaries must be deterministic so
// every segment is independently seekable: a keyframe every 48 frames,
// scene-cut keyframe insertion disabled, 10 second segments.
const (
	segmentSeconds   = 10
	keyframeInterval = 48
)

// FFmpeg runs an external ffmpeg process to produce one HLS rendition per
// invocation.
type FFmpeg struct {
	Path string
}

// NewFFmpeg returns an adapter invoking the given binary, defaulting to
// "ffmpeg" on PATH.
func NewFFmpeg(path string) *FFmpeg {
	if path == "" {
		path = "ffmpeg"
	}
	return &FFmpeg{Path: path}
}

// EncodeRendition transcodes input into a segmented HLS rendition under
// outDir, producing the rendition's segment files and index playlist.
// The ffmpeg diagnostic is preserved verbatim in the returned error.
func (f *FFmpeg) EncodeRendition(ctx context.Context, input, outDir string, r Rendition) error {
	cmd := exec.CommandContext(ctx, f.Path, hlsArgs(input, outDir, r)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg %s rendition: %w: %s", r.Label, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func hlsArgs(input, outDir string, r Rendition) []string {
	return []string{
		"-y",
		"-i", input,
		"-c:v", "libx264",
		"-c:a", "aac",
		"-preset", "veryfast",
		"-g", strconv.Itoa(keyframeInterval),
		"-sc_threshold", "0",
		"-s", fmt.Sprintf("%dx%d", r.Width, r.Height),
		"-b:v", fmt.Sprintf("%dk", r.BitrateKbps),
		"-map", "0:0", // the video stream
		"-map", "0:a?", // audio if present, no error otherwise
		"-b:a", "128k",
		"-f", "hls",
		"-hls_time", strconv.Itoa(segmentSeconds),
		"-hls_list_size", "0",
		"-hls_segment_filename", filepath.Join(outDir, r.SegmentPattern()),
		filepath.Join(outDir, r.PlaylistName()),
	}
}
