package routes

import "net/http"

// Version is the server release tag reported by the version endpoint.
const Version = "1.0.0"

func (h *Handler) Version(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, envelope{
		Status:  "success",
		Message: "version",
		Data:    map[string]string{"version": Version},
	})
}
