package routes

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ArvinYang1925/kaiso-meow-backend/logger"
	"github.com/ArvinYang1925/kaiso-meow-backend/taskqueue"
)

// maxUploadBytes caps uploaded videos at 1000 MB.
const maxUploadBytes = 1000 << 20

var allowedVideoExt = map[string]bool{
	".mp4": true,
	".mov": true,
	".mkv": true,
	".avi": true,
}

type uploadData struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	UploadStatus string `json:"uploadStatus"`
}

// UploadVideo accepts a lecture video, parks it in the upload temp dir and
// enqueues a transcode job keyed by the section id. It answers 202 before
// any processing happens; the caller polls VideoStatus for the outcome.
func (h *Handler) UploadVideo(w http.ResponseWriter, r *http.Request) {
	claims, err := h.authorize(r)
	if err != nil {
		respondFail(w, http.StatusUnauthorized, fmt.Sprintf("invalid token: %v", err))
		return
	}

	sec, ok := h.ownedSection(w, r, claims)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondFail(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondFail(w, http.StatusBadRequest, "a video file is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedVideoExt[ext] {
		respondFail(w, http.StatusBadRequest, "only MP4/MOV/MKV/AVI video formats are accepted")
		return
	}

	tempPath, err := h.saveUpload(file, header.Filename)
	if err != nil {
		logger.Errorf("section %s: failed to save upload: %v", sec.ID, err)
		respondFail(w, http.StatusInternalServerError, "failed to save uploaded file")
		return
	}

	if err := h.Queue.Enqueue(sec.ID, h.Tasks.Task(sec.ID, tempPath)); err != nil {
		// A job for this section is already queued or running. The
		// re-upload is dropped; the in-flight job's outcome stands.
		if errors.Is(err, taskqueue.ErrDuplicateJob) {
			logger.Warnf("section %s: transcode already in flight, ignoring re-upload", sec.ID)
			os.Remove(tempPath)
		} else {
			logger.Errorf("section %s: enqueue failed: %v", sec.ID, err)
			os.Remove(tempPath)
			respondFail(w, http.StatusInternalServerError, "failed to schedule transcode")
			return
		}
	}

	respondJSON(w, http.StatusAccepted, envelope{
		Status:  "success",
		Message: "video received, transcoding has started",
		Data: uploadData{
			ID:           sec.ID,
			Title:        sec.Title,
			UploadStatus: "processing",
		},
	})
}

// saveUpload writes the multipart file into the upload temp dir under a
// unique name and returns the full path.
func (h *Handler) saveUpload(file io.Reader, originalName string) (string, error) {
	if err := os.MkdirAll(h.UploadDir, 0755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(originalName))
	tempPath := filepath.Join(h.UploadDir, name)

	dst, err := os.Create(tempPath)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	return tempPath, nil
}
