// internal/auth/handlers.go

package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/stvnptra/picshare/internal/common/utils"
	"github.com/stvnptra/picshare/internal/session"
)

// Handler exposes auth endpoints
type Handler struct {
	service Service
}

// NewHandler creates a new auth handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Register creates a new account
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.service.Register(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, err, "Registration failed")
		return
	}

	utils.SuccessResponse(w, resp, http.StatusCreated)
}

// Login signs an existing account in
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, err, "Login failed")
		return
	}

	utils.SuccessResponse(w, resp, http.StatusOK)
}

// Logout revokes the caller's refresh tokens
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.service.Logout(r.Context(), sess.UserID); err != nil {
		h.writeServiceError(w, err, "Logout failed")
		return
	}

	utils.MessageResponse(w, "Logged out", http.StatusOK)
}

// ResetPassword emails a password reset link. The response is the same
// whether or not the address has an account.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.SendPasswordReset(r.Context(), req.Email); err != nil {
		if errors.Is(err, ErrInvalidInput) {
			utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
			return
		}
		// Don't leak whether the address exists
		log.Printf("auth: password reset for %s: %v", req.Email, err)
	}

	utils.MessageResponse(w, "If that address has an account, a reset email is on its way", http.StatusOK)
}

// ChangePassword sets a new password for the caller
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.ChangePassword(r.Context(), sess.UserID, req.NewPassword); err != nil {
		h.writeServiceError(w, err, "Failed to change password")
		return
	}

	utils.MessageResponse(w, "Password changed", http.StatusOK)
}

// Me returns the caller's session
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	utils.SuccessResponse(w, sess, http.StatusOK)
}

// WSTicket mints a short-lived ticket for the websocket feed, which
// cannot carry an Authorization header
func (h *Handler) WSTicket(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ticket, err := h.service.IssueTicket(sess)
	if err != nil {
		h.writeServiceError(w, err, "Failed to issue ticket")
		return
	}

	utils.SuccessResponse(w, TicketResponse{Ticket: ticket}, http.StatusOK)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, generic string) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		utils.ErrorResponse(w, "Invalid email or password", http.StatusUnauthorized)
	case errors.Is(err, ErrInvalidInput):
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("auth: %v", err)
		utils.ErrorResponse(w, generic+", please try again", http.StatusInternalServerError)
	}
}
