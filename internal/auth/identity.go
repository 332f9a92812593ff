// internal/auth/identity.go
// IdentityProvider narrows the external identity platform to the calls
// this service makes. The Firebase implementation combines the Admin
// SDK (user management, token verification) with the Identity Toolkit
// API (password sign-in, which the Admin SDK deliberately omits).

package auth

import (
	"context"
	"fmt"

	fbauth "firebase.google.com/go/v4/auth"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// SignInResult is the identity platform's answer to a successful
// password sign-in
type SignInResult struct {
	UID          string
	Email        string
	DisplayName  string
	IDToken      string
	RefreshToken string
	ExpiresIn    int64 // seconds
}

// IdentityProvider is the external identity platform
type IdentityProvider interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	DeleteUser(ctx context.Context, uid string) error
	VerifyPassword(ctx context.Context, email, password string) (*SignInResult, error)
	VerifyIDToken(ctx context.Context, idToken string) (uid, email string, err error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
	UpdatePassword(ctx context.Context, uid, newPassword string) error
	PasswordResetLink(ctx context.Context, email string) (string, error)
}

type firebaseIdentity struct {
	client  *fbauth.Client
	toolkit *identitytoolkit.Service
}

// NewFirebaseIdentity creates the Firebase-backed identity provider.
// The web API key scopes Identity Toolkit calls to the project.
func NewFirebaseIdentity(ctx context.Context, client *fbauth.Client, webAPIKey string) (IdentityProvider, error) {
	toolkit, err := identitytoolkit.NewService(ctx, option.WithAPIKey(webAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Identity Toolkit service: %w", err)
	}

	return &firebaseIdentity{
		client:  client,
		toolkit: toolkit,
	}, nil
}

func (f *firebaseIdentity) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&fbauth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	record, err := f.client.CreateUser(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	return record.UID, nil
}

func (f *firebaseIdentity) DeleteUser(ctx context.Context, uid string) error {
	if err := f.client.DeleteUser(ctx, uid); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", uid, err)
	}
	return nil
}

func (f *firebaseIdentity) VerifyPassword(ctx context.Context, email, password string) (*SignInResult, error) {
	req := &identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}

	resp, err := f.toolkit.Relyingparty.VerifyPassword(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("password sign-in rejected: %w", err)
	}

	return &SignInResult{
		UID:          resp.LocalId,
		Email:        resp.Email,
		DisplayName:  resp.DisplayName,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	}, nil
}

func (f *firebaseIdentity) VerifyIDToken(ctx context.Context, idToken string) (string, string, error) {
	token, err := f.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", "", fmt.Errorf("invalid ID token: %w", err)
	}

	email, _ := token.Claims["email"].(string)
	return token.UID, email, nil
}

func (f *firebaseIdentity) RevokeRefreshTokens(ctx context.Context, uid string) error {
	if err := f.client.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens for %s: %w", uid, err)
	}
	return nil
}

func (f *firebaseIdentity) UpdatePassword(ctx context.Context, uid, newPassword string) error {
	params := (&fbauth.UserToUpdate{}).Password(newPassword)
	if _, err := f.client.UpdateUser(ctx, uid, params); err != nil {
		return fmt.Errorf("failed to update password for %s: %w", uid, err)
	}
	return nil
}

func (f *firebaseIdentity) PasswordResetLink(ctx context.Context, email string) (string, error) {
	link, err := f.client.PasswordResetLink(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to generate reset link: %w", err)
	}
	return link, nil
}
