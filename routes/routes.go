package routes

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ArvinYang1925/kaiso-meow-backend/logger"
	"github.com/ArvinYang1925/kaiso-meow-backend/models"
	"github.com/ArvinYang1925/kaiso-meow-backend/storage"
	"github.com/ArvinYang1925/kaiso-meow-backend/taskqueue"
)

// Catalog is the slice of the catalog store the video endpoints use.
type Catalog interface {
	GetSection(id string) (*models.Section, error)
	GetCourse(id string) (*models.Course, error)
	ClearVideo(id string) error
	CountPaidOrders(courseID string) (int, error)
	HasProgress(sectionID string) (bool, error)
}

// Jobs is the slice of the task queue the video endpoints use.
type Jobs interface {
	Enqueue(key string, task taskqueue.Task) error
	Info(key string) (taskqueue.Info, bool)
}

// TaskSource builds the queue task body for one uploaded video.
type TaskSource interface {
	Task(sectionID, tempFilePath string) taskqueue.Task
}

// Handler carries the video endpoints' dependencies. One instance is
// constructed at process start and registered on the router; there is no
// package-level state.
type Handler struct {
	Catalog   Catalog
	Queue     Jobs
	Tasks     TaskSource
	Uploader  storage.Uploader
	JWTSecret []byte
	UploadDir string
}

// NewRouter mounts all routes on a fresh chi router.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", h.Health)
	r.Get("/version", h.Version)
	r.Route("/api/v1/instructor/sections/{sectionId}/video", func(r chi.Router) {
		r.Post("/", h.UploadVideo)
		r.Get("/status", h.VideoStatus)
		r.Delete("/", h.DeleteVideo)
	})
	return r
}

// envelope is the API response shape shared by all endpoints.
type envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, code int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		logger.Errorf("failed to encode response: %v", err)
	}
}

func respondFail(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, envelope{Status: "fail", Message: message})
}
