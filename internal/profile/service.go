// internal/profile/service.go
// Profile reads and owner-initiated edits. Display name and photo are
// snapshotted onto posts and comments at write time, so edits here do
// not fan out to existing content.

package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stvnptra/picshare/internal/store"
	"github.com/stvnptra/picshare/internal/validate"
)

// Common errors
var (
	ErrNotFound     = errors.New("profile not found")
	ErrInvalidInput = errors.New("invalid input")
)

// BlobUploader is the slice of the blob store the profile service needs
type BlobUploader interface {
	Upload(ctx context.Context, path string, data []byte, contentType string, limits store.UploadLimits) (string, error)
}

// Service exposes profile operations
type Service interface {
	Get(ctx context.Context, uid string) (*Profile, error)
	Update(ctx context.Context, uid string, req *UpdateProfileRequest) (*Profile, error)
	UploadPhoto(ctx context.Context, uid string, data []byte, contentType, filename string) (*Profile, error)
}

type service struct {
	repo  Repository
	blobs BlobUploader
}

// NewService creates a new profile service
func NewService(repo Repository, blobs BlobUploader) Service {
	return &service{repo: repo, blobs: blobs}
}

// Get reads a profile by identity id
func (s *service) Get(ctx context.Context, uid string) (*Profile, error) {
	p, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// Update patches the owner-editable fields after advisory validation
func (s *service) Update(ctx context.Context, uid string, req *UpdateProfileRequest) (*Profile, error) {
	var updates []store.Update

	if req.DisplayName != nil {
		if res := validate.IsValidDisplayName(*req.DisplayName); !res.Valid {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInput, res.Message)
		}
		updates = append(updates, store.Update{Path: []string{"displayName"}, Value: *req.DisplayName})
	}

	if req.Bio != nil {
		if res := validate.IsValidBio(*req.Bio); !res.Valid {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInput, res.Message)
		}
		updates = append(updates, store.Update{Path: []string{"bio"}, Value: *req.Bio})
	}

	if req.PhotoURL != nil {
		updates = append(updates, store.Update{Path: []string{"photoURL"}, Value: *req.PhotoURL})
	}

	if len(updates) == 0 {
		return s.Get(ctx, uid)
	}

	if err := s.repo.Patch(ctx, uid, updates); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return s.Get(ctx, uid)
}

// UploadPhoto validates and uploads an avatar image, then points the
// profile at its new URL
func (s *service) UploadPhoto(ctx context.Context, uid string, data []byte, contentType, filename string) (*Profile, error) {
	if res := validate.IsValidImageFile(contentType, int64(len(data))); !res.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, res.Message)
	}

	path := store.GeneratePath("avatars", uid, filename)
	url, err := s.blobs.Upload(ctx, path, data, contentType, store.UploadLimits{
		AllowedTypes: []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
		MaxSizeBytes: validate.MaxImageSizeBytes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload profile photo: %w", err)
	}

	if err := s.repo.Patch(ctx, uid, []store.Update{
		{Path: []string{"photoURL"}, Value: url},
	}); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return s.Get(ctx, uid)
}

// NewProfile builds the document written at registration time
func NewProfile(uid, email, displayName string, now time.Time) *Profile {
	return &Profile{
		UID:         uid,
		Email:       email,
		DisplayName: displayName,
		PhotoURL:    nil,
		Bio:         "",
		CreatedAt:   now,
	}
}
