// internal/auth/models.go

package auth

// RegisterRequest creates a new identity plus its profile document
type RegisterRequest struct {
	Email       string `json:"email" validate:"required"`
	Password    string `json:"password" validate:"required"`
	DisplayName string `json:"display_name" validate:"required"`
}

// LoginRequest exchanges credentials for tokens
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ResetPasswordRequest starts the password reset flow
type ResetPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

// ChangePasswordRequest sets a new password for the caller
type ChangePasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required"`
}

// AuthResponse carries the identity and tokens returned by register and
// login
type AuthResponse struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // seconds
}

// TicketResponse carries a short-lived websocket ticket
type TicketResponse struct {
	Ticket string `json:"ticket"`
}
