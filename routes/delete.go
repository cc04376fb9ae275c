package routes

import (
	"net/http"

	"github.com/ArvinYang1925/kaiso-meow-backend/logger"
)

type deleteData struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Content     string  `json:"content,omitempty"`
	VideoURL    *string `json:"videoUrl"`
	IsPublished bool    `json:"isPublished"`
}

// DeleteVideo removes a section's uploaded renditions from storage and
// clears the persisted result. Once a published section has a paid order
// or a viewing record, its video is immutable and the delete is rejected.
func (h *Handler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	claims, err := h.authorize(r)
	if err != nil {
		respondFail(w, http.StatusUnauthorized, "invalid token")
		return
	}

	sec, ok := h.ownedSection(w, r, claims)
	if !ok {
		return
	}

	if sec.Video == nil {
		respondFail(w, http.StatusNotFound, "this section has no video to delete")
		return
	}

	if sec.IsPublished {
		orders, err := h.Catalog.CountPaidOrders(sec.CourseID)
		if err != nil {
			respondFail(w, http.StatusInternalServerError, "failed to check orders")
			return
		}
		watched, err := h.Catalog.HasProgress(sec.ID)
		if err != nil {
			respondFail(w, http.StatusInternalServerError, "failed to check viewing records")
			return
		}
		if orders > 0 || watched {
			respondFail(w, http.StatusUnprocessableEntity,
				"section is published and already consumed, video cannot be deleted")
			return
		}
	}

	if err := h.Uploader.DeletePrefix(r.Context(), sec.ID); err != nil {
		logger.Errorf("section %s: failed to delete stored video: %v", sec.ID, err)
		respondFail(w, http.StatusInternalServerError, "failed to delete stored video")
		return
	}
	if err := h.Catalog.ClearVideo(sec.ID); err != nil {
		respondFail(w, http.StatusInternalServerError, "failed to clear video record")
		return
	}

	respondJSON(w, http.StatusOK, envelope{
		Status:  "success",
		Message: "video deleted",
		Data: deleteData{
			ID:          sec.ID,
			Title:       sec.Title,
			Content:     sec.Content,
			VideoURL:    nil,
			IsPublished: sec.IsPublished,
		},
	})
}
