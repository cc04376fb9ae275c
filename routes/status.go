package routes

import (
	"net/http"

	"github.com/ArvinYang1925/kaiso-meow-backend/models"
	"github.com/ArvinYang1925/kaiso-meow-backend/taskqueue"
)

type videoStatusData struct {
	UploadStatus string  `json:"uploadStatus"`
	VideoURL     *string `json:"videoUrl"`
	ErrorType    string  `json:"errorType,omitempty"`
}

// VideoStatus reports the derived transcode status for a section. It never
// blocks on the job; the status is a read-time join of the persisted
// result and the queue's live registry.
func (h *Handler) VideoStatus(w http.ResponseWriter, r *http.Request) {
	claims, err := h.authorize(r)
	if err != nil {
		respondFail(w, http.StatusUnauthorized, "invalid token")
		return
	}

	sec, ok := h.ownedSection(w, r, claims)
	if !ok {
		return
	}

	info, tracked := h.Queue.Info(sec.ID)
	data := deriveVideoStatus(sec.Video, info, tracked)

	message := "video status retrieved"
	if data.UploadStatus == "failed" {
		message = "video processing failed"
	}
	respondJSON(w, http.StatusOK, envelope{Status: "success", Message: message, Data: data})
}

// deriveVideoStatus computes the externally observable upload status. The
// persisted states are only nil, a valid address or a categorized error;
// pending, processing and no_video exist purely as a join against the
// queue registry at query time.
func deriveVideoStatus(video *models.VideoResult, info taskqueue.Info, tracked bool) videoStatusData {
	if video == nil {
		if tracked {
			if info.Status == taskqueue.StatusProcessing {
				return videoStatusData{UploadStatus: "processing"}
			}
			return videoStatusData{UploadStatus: "pending"}
		}
		return videoStatusData{UploadStatus: "no_video"}
	}

	if video.Failed() || !video.ValidURL() {
		message := video.ErrorMessage
		if message == "" {
			message = "video processing failed: invalid video address"
		}
		return videoStatusData{
			UploadStatus: "failed",
			VideoURL:     &message,
			ErrorType:    video.Category(),
		}
	}

	url := video.URL
	return videoStatusData{UploadStatus: "completed", VideoURL: &url}
}
