package job

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ArvinYang1925/kaiso-meow-backend/encoder"
	"github.com/ArvinYang1925/kaiso-meow-backend/models"
	"github.com/ArvinYang1925/kaiso-meow-backend/taskqueue"
)

type stubEngine struct {
	mu     sync.Mutex
	labels []string
	err    error
}

func (e *stubEngine) EncodeRendition(ctx context.Context, input, outDir string, r encoder.Rendition) error {
	e.mu.Lock()
	e.labels = append(e.labels, r.Label)
	e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	return os.WriteFile(filepath.Join(outDir, r.PlaylistName()), []byte("#EXTM3U\n"), 0644)
}

type stubUploader struct {
	url string
	err error

	mu        sync.Mutex
	prefixes  []string
	sawMaster bool
	deleted   []string
}

func (u *stubUploader) UploadDir(ctx context.Context, prefix, dir, entry string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.prefixes = append(u.prefixes, prefix)
	if _, err := os.Stat(filepath.Join(dir, entry)); err == nil {
		u.sawMaster = true
	}
	if u.err != nil {
		return "", u.err
	}
	return u.url, nil
}

func (u *stubUploader) DeletePrefix(ctx context.Context, prefix string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.deleted = append(u.deleted, prefix)
	return nil
}

type stubStore struct {
	mu             sync.Mutex
	results        map[string]*models.VideoResult
	failOnSuccess  bool
	successAttempt int
}

func (s *stubStore) SetVideoResult(id string, result *models.VideoResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if result != nil && result.URL != "" && s.failOnSuccess {
		s.successAttempt++
		return fmt.Errorf("catalog store unavailable")
	}
	if s.results == nil {
		s.results = make(map[string]*models.VideoResult)
	}
	s.results[id] = result
	return nil
}

func (s *stubStore) result(id string) *models.VideoResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results[id]
}

func newTestProcessor(t *testing.T, engine *stubEngine, uploader *stubUploader, store *stubStore) (*Processor, string) {
	t.Helper()
	input := filepath.Join(t.TempDir(), "lecture.mp4")
	if err := os.WriteFile(input, []byte("fake video"), 0644); err != nil {
		t.Fatal(err)
	}
	p := NewProcessor(engine, uploader, store)
	p.WorkDir = t.TempDir()
	return p, input
}

func assertCleanedUp(t *testing.T, p *Processor, sectionID, input string) {
	t.Helper()
	if _, err := os.Stat(input); !os.IsNotExist(err) {
		t.Errorf("temp input %s should have been removed", input)
	}
	outputDir := filepath.Join(p.WorkDir, sectionID+"_hls")
	if _, err := os.Stat(outputDir); !os.IsNotExist(err) {
		t.Errorf("output dir %s should have been removed", outputDir)
	}
}

func TestProcessSuccess(t *testing.T) {
	engine := &stubEngine{}
	uploader := &stubUploader{url: "https://storage.googleapis.com/bucket/sec-1/master.m3u8"}
	store := &stubStore{}
	p, input := newTestProcessor(t, engine, uploader, store)

	if err := p.Process(context.Background(), "sec-1", input); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	result := store.result("sec-1")
	if result == nil || result.URL != uploader.url {
		t.Errorf("expected persisted url %q, got %+v", uploader.url, result)
	}
	if len(engine.labels) != len(encoder.DefaultLadder) {
		t.Errorf("expected %d rendition encodes, got %v", len(encoder.DefaultLadder), engine.labels)
	}
	if !uploader.sawMaster {
		t.Error("master playlist was not present at upload time")
	}
	if len(uploader.prefixes) != 1 || uploader.prefixes[0] != "sec-1" {
		t.Errorf("expected one upload under prefix sec-1, got %v", uploader.prefixes)
	}
	assertCleanedUp(t, p, "sec-1", input)
}

func TestProcessTranscodeFailure(t *testing.T) {
	engine := &stubEngine{err: fmt.Errorf("codec not supported")}
	uploader := &stubUploader{url: "https://cdn/unused"}
	store := &stubStore{}
	p, input := newTestProcessor(t, engine, uploader, store)

	if err := p.Process(context.Background(), "sec-2", input); err == nil {
		t.Fatal("expected Process to fail")
	}

	result := store.result("sec-2")
	if result == nil || !result.Failed() {
		t.Fatalf("expected a persisted failure, got %+v", result)
	}
	if result.Category() != models.VideoErrorTranscode {
		t.Errorf("expected transcode category, got %q", result.Category())
	}
	if !contains(result.ErrorMessage, "codec not supported") {
		t.Errorf("diagnostic lost: %q", result.ErrorMessage)
	}
	if len(uploader.prefixes) != 0 {
		t.Error("uploader should not run after a transcode failure")
	}
	assertCleanedUp(t, p, "sec-2", input)
}

func TestProcessUploadFailure(t *testing.T) {
	engine := &stubEngine{}
	uploader := &stubUploader{err: fmt.Errorf("bucket unreachable")}
	store := &stubStore{}
	p, input := newTestProcessor(t, engine, uploader, store)

	if err := p.Process(context.Background(), "sec-3", input); err == nil {
		t.Fatal("expected Process to fail")
	}

	result := store.result("sec-3")
	if result == nil || result.Category() != models.VideoErrorUpload {
		t.Fatalf("expected upload failure, got %+v", result)
	}
	if !contains(result.ErrorMessage, "bucket unreachable") {
		t.Errorf("diagnostic lost: %q", result.ErrorMessage)
	}
	assertCleanedUp(t, p, "sec-3", input)
}

func TestProcessPersistFailure(t *testing.T) {
	engine := &stubEngine{}
	uploader := &stubUploader{url: "https://cdn/sec-4/master.m3u8"}
	store := &stubStore{failOnSuccess: true}
	p, input := newTestProcessor(t, engine, uploader, store)

	if err := p.Process(context.Background(), "sec-4", input); err == nil {
		t.Fatal("expected Process to fail")
	}

	result := store.result("sec-4")
	if result == nil || result.Category() != models.VideoErrorUnknown {
		t.Fatalf("expected unknown-category failure, got %+v", result)
	}
	assertCleanedUp(t, p, "sec-4", input)
}

func TestEndToEndThroughQueue(t *testing.T) {
	engine := &stubEngine{}
	uploader := &stubUploader{url: "https://cdn/test/S1/master.m3u8"}
	store := &stubStore{}
	p, input := newTestProcessor(t, engine, uploader, store)

	q := taskqueue.New()
	if err := q.Enqueue("S1", p.Task("S1", input)); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for q.Has("S1") && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if q.Has("S1") {
		t.Fatal("queue never drained")
	}

	if _, found := q.Info("S1"); found {
		t.Error("finished job should be gone from the registry")
	}
	result := store.result("S1")
	if result == nil || result.URL != "https://cdn/test/S1/master.m3u8" {
		t.Errorf("expected persisted address, got %+v", result)
	}
	assertCleanedUp(t, p, "S1", input)
}

func contains(s, sub string) bool {
	return strings.Contains(s, sub)
}
