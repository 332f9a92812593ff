// internal/auth/service.go
// Account lifecycle on top of the external identity platform.
// Registration is a two-step write (identity, then profile document);
// the steps are not atomic, so a failed profile write triggers a
// compensating delete of the just-created identity.

package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/stvnptra/picshare/internal/common/utils"
	"github.com/stvnptra/picshare/internal/notification"
	"github.com/stvnptra/picshare/internal/profile"
	"github.com/stvnptra/picshare/internal/session"
	"github.com/stvnptra/picshare/internal/validate"
)

// Common errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidToken       = errors.New("invalid token")
)

// Config holds service configuration
type Config struct {
	TicketSecret string
	TicketExpiry time.Duration
}

// Service interface
type Service interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	Logout(ctx context.Context, uid string) error
	SendPasswordReset(ctx context.Context, email string) error
	ChangePassword(ctx context.Context, uid, newPassword string) error

	VerifyToken(ctx context.Context, idToken string) (*session.Session, error)
	IssueTicket(sess *session.Session) (string, error)
	ValidateTicket(ticket string) (*session.Session, error)
}

type service struct {
	identity IdentityProvider
	profiles profile.Repository
	sessions *session.Manager
	mailer   notification.Mailer
	config   *Config
}

// NewService creates a new auth service
func NewService(identity IdentityProvider, profiles profile.Repository, sessions *session.Manager, mailer notification.Mailer, config *Config) Service {
	return &service{
		identity: identity,
		profiles: profiles,
		sessions: sessions,
		mailer:   mailer,
		config:   config,
	}
}

// Register creates the identity and its profile document, then signs
// the new user in
func (s *service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	// 1. Advisory validation before touching the platform
	if !validate.IsValidEmail(req.Email) {
		return nil, fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	if res := validate.IsValidPassword(req.Password); !res.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, res.Message)
	}
	if res := validate.IsValidDisplayName(req.DisplayName); !res.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, res.Message)
	}

	// 2. Create the identity
	uid, err := s.identity.CreateUser(ctx, req.Email, req.Password, req.DisplayName)
	if err != nil {
		return nil, err
	}

	// 3. Write the profile document keyed by the identity id. On
	// failure, compensate by deleting the identity so the email can be
	// reused on retry.
	p := profile.NewProfile(uid, req.Email, req.DisplayName, time.Now())
	if err := s.profiles.Create(ctx, p); err != nil {
		if delErr := s.identity.DeleteUser(ctx, uid); delErr != nil {
			log.Printf("auth: compensating user delete failed for %s: %v", uid, delErr)
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	// 4. Sign in so the client gets tokens straight away
	result, err := s.identity.VerifyPassword(ctx, req.Email, req.Password)
	if err != nil {
		return nil, fmt.Errorf("registered but sign-in failed: %w", err)
	}

	s.sessions.Login(session.Session{
		UserID:      uid,
		Email:       req.Email,
		DisplayName: req.DisplayName,
	})

	return &AuthResponse{
		UserID:       uid,
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		IDToken:      result.IDToken,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    result.ExpiresIn,
	}, nil
}

// Login exchanges credentials for a live identity
func (s *service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	result, err := s.identity.VerifyPassword(ctx, req.Email, req.Password)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	sess := session.Session{
		UserID:      result.UID,
		Email:       result.Email,
		DisplayName: result.DisplayName,
	}

	// Enrich the session with the profile snapshot when available
	if p, err := s.profiles.GetByID(ctx, result.UID); err == nil && p != nil {
		sess.DisplayName = p.DisplayName
		if p.PhotoURL != nil {
			sess.PhotoURL = *p.PhotoURL
		}
	}

	s.sessions.Login(sess)

	return &AuthResponse{
		UserID:       result.UID,
		Email:        result.Email,
		DisplayName:  sess.DisplayName,
		IDToken:      result.IDToken,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    result.ExpiresIn,
	}, nil
}

// Logout revokes refresh tokens and tears down the live session
func (s *service) Logout(ctx context.Context, uid string) error {
	if err := s.identity.RevokeRefreshTokens(ctx, uid); err != nil {
		return err
	}
	s.sessions.Logout(uid)
	return nil
}

// SendPasswordReset emails a platform-generated reset link
func (s *service) SendPasswordReset(ctx context.Context, email string) error {
	if !validate.IsValidEmail(email) {
		return fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}

	link, err := s.identity.PasswordResetLink(ctx, email)
	if err != nil {
		return err
	}

	return s.mailer.Send(ctx, notification.PasswordResetEmail(email, link))
}

// ChangePassword sets a new password for the caller
func (s *service) ChangePassword(ctx context.Context, uid, newPassword string) error {
	if res := validate.IsValidPassword(newPassword); !res.Valid {
		return fmt.Errorf("%w: %s", ErrInvalidInput, res.Message)
	}
	return s.identity.UpdatePassword(ctx, uid, newPassword)
}

// VerifyToken validates a bearer ID token and returns a session handle
// for the request
func (s *service) VerifyToken(ctx context.Context, idToken string) (*session.Session, error) {
	uid, email, err := s.identity.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if live, ok := s.sessions.Current(uid); ok {
		return &live, nil
	}

	return &session.Session{UserID: uid, Email: email}, nil
}

// IssueTicket mints a short-lived websocket ticket for the session
func (s *service) IssueTicket(sess *session.Session) (string, error) {
	return utils.GenerateTicket(sess.UserID, sess.Email, s.config.TicketSecret, s.config.TicketExpiry)
}

// ValidateTicket checks a websocket ticket and returns its session
func (s *service) ValidateTicket(ticket string) (*session.Session, error) {
	claims, err := utils.ValidateTicket(ticket, s.config.TicketSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if time.Now().Unix() > claims.ExpiresAt {
		return nil, ErrInvalidToken
	}

	if live, ok := s.sessions.Current(claims.UserID); ok {
		return &live, nil
	}
	return &session.Session{UserID: claims.UserID, Email: claims.Email}, nil
}
