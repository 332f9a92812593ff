// internal/profile/handlers.go

package profile

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/stvnptra/picshare/internal/common/utils"
	"github.com/stvnptra/picshare/internal/session"
)

// Handler exposes profile endpoints
type Handler struct {
	service Service
}

// NewHandler creates a new profile handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetMyProfile returns the caller's profile
func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	profile, err := h.service.Get(r.Context(), sess.UserID)
	if err != nil {
		h.writeServiceError(w, err, "Failed to get profile")
		return
	}

	utils.SuccessResponse(w, profile, http.StatusOK)
}

// GetProfile returns any user's profile by id
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["id"]

	profile, err := h.service.Get(r.Context(), uid)
	if err != nil {
		h.writeServiceError(w, err, "Failed to get profile")
		return
	}

	utils.SuccessResponse(w, profile, http.StatusOK)
}

// UpdateMyProfile patches the caller's display name, bio, or photo URL
func (h *Handler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	profile, err := h.service.Update(r.Context(), sess.UserID, &req)
	if err != nil {
		h.writeServiceError(w, err, "Failed to update profile")
		return
	}

	utils.SuccessResponse(w, profile, http.StatusOK)
}

// UploadPhoto accepts a multipart avatar image for the caller
func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.ErrorResponse(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		utils.ErrorResponse(w, "Missing photo file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.ErrorResponse(w, "Failed to read photo", http.StatusBadRequest)
		return
	}

	profile, err := h.service.UploadPhoto(r.Context(), sess.UserID, data, header.Header.Get("Content-Type"), header.Filename)
	if err != nil {
		h.writeServiceError(w, err, "Failed to upload photo")
		return
	}

	utils.SuccessResponse(w, profile, http.StatusOK)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, generic string) {
	switch {
	case errors.Is(err, ErrNotFound):
		utils.ErrorResponse(w, "Profile not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidInput):
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("profile: %v", err)
		utils.ErrorResponse(w, generic+", please try again", http.StatusInternalServerError)
	}
}
