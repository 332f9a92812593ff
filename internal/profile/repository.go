// internal/profile/repository.go

package profile

import (
	"context"

	"github.com/stvnptra/picshare/internal/store"
)

const usersCollection = "users"

// Repository persists profiles in the document store
type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, uid string) (*Profile, error)
	Patch(ctx context.Context, uid string, updates []store.Update) error
}

type repository struct {
	docs *store.DocStore
}

// NewRepository creates a document-store-backed profile repository
func NewRepository(docs *store.DocStore) Repository {
	return &repository{docs: docs}
}

// Create writes the profile document keyed by the identity id
func (r *repository) Create(ctx context.Context, p *Profile) error {
	return r.docs.Set(ctx, usersCollection, p.UID, map[string]interface{}{
		"uid":         p.UID,
		"email":       p.Email,
		"displayName": p.DisplayName,
		"photoURL":    p.PhotoURL,
		"bio":         p.Bio,
		"createdAt":   p.CreatedAt,
	})
}

// GetByID reads a profile; absence returns (nil, nil)
func (r *repository) GetByID(ctx context.Context, uid string) (*Profile, error) {
	var p Profile
	ok, err := r.docs.Get(ctx, usersCollection, uid, &p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	p.UID = uid
	return &p, nil
}

// Patch merges the supplied field updates into the profile document
func (r *repository) Patch(ctx context.Context, uid string, updates []store.Update) error {
	return r.docs.Update(ctx, usersCollection, uid, updates)
}
