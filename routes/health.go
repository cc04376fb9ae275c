package routes

import "net/http"

// Health answers liveness probes.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, envelope{Status: "success", Message: "ok"})
}
