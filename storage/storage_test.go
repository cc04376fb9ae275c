package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestContentTypeFor(t *testing.T) {
	cases := map[string]string{
		"master.m3u8":        "application/vnd.apple.mpegurl",
		"720p_seg_000.ts":    "video/mp2t",
		"source.mp4":         "video/mp4",
		"PLAYLIST_480P.M3U8": "application/vnd.apple.mpegurl",
		"notes":              "application/octet-stream",
	}
	for name, want := range cases {
		if got := contentTypeFor(name); got != want {
			t.Errorf("contentTypeFor(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestJoinURL(t *testing.T) {
	if got := joinURL("https://cdn.example.com/", "s1", "master.m3u8"); got != "https://cdn.example.com/s1/master.m3u8" {
		t.Errorf("joinURL trimmed slash wrong: %q", got)
	}
	if got := joinURL("https://cdn.example.com", "s1", "master.m3u8"); got != "https://cdn.example.com/s1/master.m3u8" {
		t.Errorf("joinURL without slash wrong: %q", got)
	}
}

func writeOutputDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(name), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestListFiles(t *testing.T) {
	dir := writeOutputDir(t, "master.m3u8", "playlist_720p.m3u8", "720p_seg_000.ts")

	files, err := listFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("got %d files, want 3: %v", len(files), files)
	}
	seen := map[string]bool{}
	for _, f := range files {
		seen[f] = true
	}
	for _, want := range []string{"master.m3u8", "playlist_720p.m3u8", "720p_seg_000.ts"} {
		if !seen[want] {
			t.Errorf("missing %s in %v", want, files)
		}
	}
}

func TestLocalUploadAndDelete(t *testing.T) {
	src := writeOutputDir(t, "master.m3u8", "playlist_720p.m3u8", "720p_seg_000.ts")
	l := &Local{BaseDir: t.TempDir(), BaseURL: "https://media.example.com"}

	addr, err := l.UploadDir(context.Background(), "section-1", src, "master.m3u8")
	if err != nil {
		t.Fatal(err)
	}
	if addr != "https://media.example.com/section-1/master.m3u8" {
		t.Errorf("address = %q", addr)
	}

	copied := filepath.Join(l.BaseDir, "section-1", "720p_seg_000.ts")
	body, err := os.ReadFile(copied)
	if err != nil {
		t.Fatalf("segment not copied: %v", err)
	}
	if string(body) != "720p_seg_000.ts" {
		t.Errorf("segment body corrupted: %q", body)
	}

	if err := l.DeletePrefix(context.Background(), "section-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(l.BaseDir, "section-1")); !os.IsNotExist(err) {
		t.Errorf("prefix should be gone after delete, stat err=%v", err)
	}
}

func TestForBackendUnknown(t *testing.T) {
	if _, err := ForBackend(context.Background(), "carrier-pigeon"); err == nil {
		t.Error("unknown backend should error")
	}
}
