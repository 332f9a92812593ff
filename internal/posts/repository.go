// internal/posts/repository.go

package posts

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/stvnptra/picshare/internal/store"
)

const postsCollection = "posts"

// Repository persists posts in the document store
type Repository interface {
	Create(ctx context.Context, p *Post) (string, error)
	GetByID(ctx context.Context, id string) (*Post, error)
	List(ctx context.Context, limit int, startAfter *time.Time) ([]*Post, *time.Time, error)
	ListByOwner(ctx context.Context, userID string) ([]*Post, error)
	UpdateCaption(ctx context.Context, id, caption string) error
	Delete(ctx context.Context, id string) error

	AddLike(ctx context.Context, id, userID string) error
	RemoveLike(ctx context.Context, id, userID string) error

	SetComment(ctx context.Context, postID string, c *Comment) error
	DeleteComment(ctx context.Context, postID, commentID string) error
}

type repository struct {
	docs *store.DocStore
}

// NewRepository creates a document-store-backed post repository
func NewRepository(docs *store.DocStore) Repository {
	return &repository{docs: docs}
}

// Create writes a new post document and returns its server-generated id
func (r *repository) Create(ctx context.Context, p *Post) (string, error) {
	return r.docs.Create(ctx, postsCollection, map[string]interface{}{
		"userId":    p.UserID,
		"userName":  p.UserName,
		"userPhoto": p.UserPhoto,
		"imageURL":  p.ImageURL,
		"caption":   p.Caption,
		"likes":     []string{},
		"comments":  map[string]interface{}{},
	})
}

// GetByID reads a post; absence returns (nil, nil)
func (r *repository) GetByID(ctx context.Context, id string) (*Post, error) {
	var p Post
	ok, err := r.docs.Get(ctx, postsCollection, id, &p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	p.ID = id
	return &p, nil
}

// List returns a newest-first page of posts plus the creation time of
// the last entry for use as the next page's cursor
func (r *repository) List(ctx context.Context, limit int, startAfter *time.Time) ([]*Post, *time.Time, error) {
	opts := store.QueryOptions{
		OrderBy: "createdAt",
		Desc:    true,
		Limit:   limit,
	}
	if startAfter != nil {
		opts.StartAfter = *startAfter
	}

	docs, cursor, err := r.docs.Query(ctx, postsCollection, opts)
	if err != nil {
		return nil, nil, err
	}

	result, err := decodeSnapshots(docs)
	if err != nil {
		return nil, nil, err
	}

	var next *time.Time
	if t, ok := cursor.(time.Time); ok {
		next = &t
	}
	return result, next, nil
}

// ListByOwner returns all of one user's posts, newest first
func (r *repository) ListByOwner(ctx context.Context, userID string) ([]*Post, error) {
	docs, _, err := r.docs.Query(ctx, postsCollection, store.QueryOptions{
		Filters: []store.Filter{{Path: "userId", Op: "==", Value: userID}},
		OrderBy: "createdAt",
		Desc:    true,
	})
	if err != nil {
		return nil, err
	}
	return decodeSnapshots(docs)
}

// UpdateCaption replaces the caption, leaving the creation time intact
func (r *repository) UpdateCaption(ctx context.Context, id, caption string) error {
	return r.docs.Update(ctx, postsCollection, id, []store.Update{
		{Path: []string{"caption"}, Value: caption},
	})
}

// Delete removes the post document
func (r *repository) Delete(ctx context.Context, id string) error {
	return r.docs.Delete(ctx, postsCollection, id)
}

// AddLike appends the user id to the likes array; duplicates are
// absorbed by the array-union semantics
func (r *repository) AddLike(ctx context.Context, id, userID string) error {
	return r.docs.Update(ctx, postsCollection, id, []store.Update{
		{Path: []string{"likes"}, Value: firestore.ArrayUnion(userID)},
	})
}

// RemoveLike removes the user id from the likes array; absent ids are a
// no-op
func (r *repository) RemoveLike(ctx context.Context, id, userID string) error {
	return r.docs.Update(ctx, postsCollection, id, []store.Update{
		{Path: []string{"likes"}, Value: firestore.ArrayRemove(userID)},
	})
}

// SetComment writes a comment under its own id inside the post's
// comment map. The id-keyed layout lets edits and deletions address one
// comment without rewriting or comparing the whole collection.
func (r *repository) SetComment(ctx context.Context, postID string, c *Comment) error {
	return r.docs.Update(ctx, postsCollection, postID, []store.Update{
		{Path: []string{"comments", c.ID}, Value: c},
	})
}

// DeleteComment removes a single comment by id
func (r *repository) DeleteComment(ctx context.Context, postID, commentID string) error {
	return r.docs.Update(ctx, postsCollection, postID, []store.Update{
		{Path: []string{"comments", commentID}, Value: store.DeleteField},
	})
}

func decodeSnapshots(docs []*firestore.DocumentSnapshot) ([]*Post, error) {
	result := make([]*Post, 0, len(docs))
	for _, snap := range docs {
		var p Post
		if err := snap.DataTo(&p); err != nil {
			return nil, err
		}
		p.ID = snap.Ref.ID
		result = append(result, &p)
	}
	return result, nil
}
