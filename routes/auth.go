package routes

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ArvinYang1925/kaiso-meow-backend/models"
	"github.com/ArvinYang1925/kaiso-meow-backend/sections"
	"github.com/ArvinYang1925/kaiso-meow-backend/utils"
)

// authorize verifies the bearer token and returns the caller's claims.
func (h *Handler) authorize(r *http.Request) (*models.InstructorClaims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, fmt.Errorf("authorization header required")
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == authHeader {
		return nil, fmt.Errorf("invalid authorization header format")
	}
	return utils.VerifyInstructorJWT(token, utils.VerifyConfig{SecretKey: h.JWTSecret})
}

// ownedSection validates the path id, loads the section and checks that
// the caller's instructor id owns its course. On any failure it writes
// the error response and returns false.
func (h *Handler) ownedSection(w http.ResponseWriter, r *http.Request, claims *models.InstructorClaims) (*models.Section, bool) {
	sectionID := chi.URLParam(r, "sectionId")
	if _, err := uuid.Parse(sectionID); err != nil {
		respondFail(w, http.StatusBadRequest, "invalid section id format")
		return nil, false
	}

	sec, err := h.Catalog.GetSection(sectionID)
	if err != nil {
		if errors.Is(err, sections.ErrNotFound) {
			respondFail(w, http.StatusNotFound, "section not found")
		} else {
			respondFail(w, http.StatusInternalServerError, "failed to load section")
		}
		return nil, false
	}

	course, err := h.Catalog.GetCourse(sec.CourseID)
	if err != nil {
		if errors.Is(err, sections.ErrNotFound) {
			respondFail(w, http.StatusNotFound, "course not found")
		} else {
			respondFail(w, http.StatusInternalServerError, "failed to load course")
		}
		return nil, false
	}

	if course.InstructorID != claims.Subject {
		respondFail(w, http.StatusForbidden, "you do not own this section")
		return nil, false
	}
	return sec, true
}
