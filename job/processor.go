package job

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/ArvinYang1925/kaiso-meow-backend/encoder"
	"github.com/ArvinYang1925/kaiso-meow-backend/logger"
	"github.com/ArvinYang1925/kaiso-meow-backend/models"
	"github.com/ArvinYang1925/kaiso-meow-backend/storage"
	"github.com/ArvinYang1925/kaiso-meow-backend/taskqueue"
)

// Engine produces one HLS rendition per invocation.
type Engine interface {
	EncodeRendition(ctx context.Context, input, outDir string, r encoder.Rendition) error
}

// ResultWriter persists a section's transcode outcome.
type ResultWriter interface {
	SetVideoResult(id string, result *models.VideoResult) error
}

// Processor is the body of a transcode job: it drives the engine, the
// storage uploader and the catalog store for one uploaded video. Every
// outcome, success or failure, is persisted on the section record; the
// HTTP caller that triggered the job has long since received its 202.
type Processor struct {
	Engine   Engine
	Uploader storage.Uploader
	Sections ResultWriter
	Ladder   []encoder.Rendition
	WorkDir  string // parent of per-job output directories
}

// NewProcessor wires a processor with the default ladder and the system
// temp directory as work area.
func NewProcessor(engine Engine, uploader storage.Uploader, sections ResultWriter) *Processor {
	return &Processor{
		Engine:   engine,
		Uploader: uploader,
		Sections: sections,
		Ladder:   encoder.DefaultLadder,
		WorkDir:  os.TempDir(),
	}
}

// Task returns the queue task body for one uploaded video, keyed by the
// caller under the section id.
func (p *Processor) Task(sectionID, tempFilePath string) taskqueue.Task {
	return func() error {
		return p.Process(context.Background(), sectionID, tempFilePath)
	}
}

// Process transcodes the uploaded file into all ladder renditions, uploads
// the HLS output under a section-scoped prefix and writes the master
// playlist address to the section record. Failures are persisted with a
// category before the error is handed back to the queue. The temp input
// file and the output directory are removed on every exit path.
func (p *Processor) Process(ctx context.Context, sectionID, tempFilePath string) error {
	// Deterministic per-section output dir; concurrent jobs for the same
	// section are prevented by the queue's key uniqueness.
	outputDir := filepath.Join(p.WorkDir, sectionID+"_hls")

	defer func() {
		if err := os.Remove(tempFilePath); err != nil && !os.IsNotExist(err) {
			logger.Errorf("section %s: failed to remove temp upload %s: %v", sectionID, tempFilePath, err)
		}
		if err := os.RemoveAll(outputDir); err != nil {
			logger.Errorf("section %s: failed to remove output dir %s: %v", sectionID, outputDir, err)
		}
	}()

	logger.Infof("section %s: transcoding %s", sectionID, tempFilePath)

	if err := p.transcode(ctx, tempFilePath, outputDir); err != nil {
		return p.fail(sectionID, models.VideoErrorTranscode, err)
	}

	addr, err := p.Uploader.UploadDir(ctx, sectionID, outputDir, encoder.MasterPlaylistName)
	if err != nil {
		return p.fail(sectionID, models.VideoErrorUpload, err)
	}

	if err := p.Sections.SetVideoResult(sectionID, models.VideoSuccess(addr)); err != nil {
		return p.fail(sectionID, models.VideoErrorUnknown, err)
	}

	logger.Infof("section %s: video ready at %s", sectionID, addr)
	return nil
}

// transcode runs all ladder renditions concurrently and writes the master
// playlist once every rendition has finished. The first rendition failure
// cancels its siblings through the group context.
func (p *Processor) transcode(ctx context.Context, input, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, r := range p.Ladder {
		g.Go(func() error {
			return p.Engine.EncodeRendition(gctx, input, outputDir, r)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := encoder.WriteMasterPlaylist(outputDir, p.Ladder); err != nil {
		return fmt.Errorf("write master playlist: %w", err)
	}
	return nil
}

// fail persists a categorized failure before handing the error back to
// the queue. The persisted record is what the polling instructor sees;
// the returned error only feeds the queue's log.
func (p *Processor) fail(sectionID, category string, cause error) error {
	if err := p.Sections.SetVideoResult(sectionID, models.VideoFailure(category, cause.Error())); err != nil {
		logger.Errorf("section %s: failed to persist %s failure: %v", sectionID, category, err)
	}
	return fmt.Errorf("%s: %w", category, cause)
}
