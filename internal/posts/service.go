// internal/posts/service.go
// Post lifecycle, likes, and comments. Creating a post is a two-step
// write (image blob, then post document); a failed document write
// triggers a compensating blob delete. Deleting a post removes the blob
// best-effort and never blocks the document delete on it.

package posts

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/stvnptra/picshare/internal/session"
	"github.com/stvnptra/picshare/internal/store"
	"github.com/stvnptra/picshare/internal/validate"
)

// Common errors
var (
	ErrNotFound     = errors.New("post not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("not allowed")
)

// DefaultFeedPageSize bounds unpaginated feed requests
const DefaultFeedPageSize = 20

// BlobStorage is the slice of the blob store the post service needs
type BlobStorage interface {
	Upload(ctx context.Context, path string, data []byte, contentType string, limits store.UploadLimits) (string, error)
	DeleteByURL(ctx context.Context, fileURL string) error
}

// Service exposes post operations
type Service interface {
	Create(ctx context.Context, sess *session.Session, image []byte, contentType, filename, caption string) (*Post, error)
	Get(ctx context.Context, id string) (*Post, error)
	Feed(ctx context.Context, limit int, cursor string) (*FeedResponse, error)
	ListByOwner(ctx context.Context, userID string) ([]*Post, error)
	UpdateCaption(ctx context.Context, sess *session.Session, id, caption string) (*Post, error)
	Delete(ctx context.Context, sess *session.Session, id string) error

	Like(ctx context.Context, sess *session.Session, id string) (*Post, error)
	Unlike(ctx context.Context, sess *session.Session, id string) (*Post, error)
	ToggleLike(ctx context.Context, sess *session.Session, id string) (*Post, error)

	AddComment(ctx context.Context, sess *session.Session, postID, text string) (*Comment, error)
	EditComment(ctx context.Context, sess *session.Session, postID, commentID, text string) (*Comment, error)
	DeleteComment(ctx context.Context, sess *session.Session, postID, commentID string) error
}

type service struct {
	repo  Repository
	blobs BlobStorage
}

// NewService creates a new post service
func NewService(repo Repository, blobs BlobStorage) Service {
	return &service{repo: repo, blobs: blobs}
}

// Create validates the caption and image, uploads the image, then
// writes the post document. The author's name and photo are snapshotted
// from the session.
func (s *service) Create(ctx context.Context, sess *session.Session, image []byte, contentType, filename, caption string) (*Post, error) {
	// Validate everything before transferring any bytes
	if res := validate.IsValidCaption(caption); !res.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, res.Message)
	}
	if res := validate.IsValidImageFile(contentType, int64(len(image))); !res.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, res.Message)
	}

	path := store.GeneratePath("posts", sess.UserID, filename)
	url, err := s.blobs.Upload(ctx, path, image, contentType, store.UploadLimits{
		AllowedTypes: []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
		MaxSizeBytes: validate.MaxImageSizeBytes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload post image: %w", err)
	}

	post := &Post{
		UserID:    sess.UserID,
		UserName:  sess.DisplayName,
		ImageURL:  url,
		Caption:   caption,
		Likes:     []string{},
		Comments:  map[string]Comment{},
		CreatedAt: time.Now(),
	}
	if sess.PhotoURL != "" {
		photo := sess.PhotoURL
		post.UserPhoto = &photo
	}

	id, err := s.repo.Create(ctx, post)
	if err != nil {
		// The image is orphaned without its document; clean it up so
		// retries don't accumulate blobs
		if delErr := s.blobs.DeleteByURL(ctx, url); delErr != nil {
			log.Printf("posts: compensating blob delete failed for %s: %v", url, delErr)
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	post.ID = id
	return post, nil
}

// Get reads a single post
func (s *service) Get(ctx context.Context, id string) (*Post, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// Feed returns a newest-first page of posts. The cursor is the RFC 3339
// creation time of the previous page's last post.
func (s *service) Feed(ctx context.Context, limit int, cursor string) (*FeedResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = DefaultFeedPageSize
	}

	var startAfter *time.Time
	if cursor != "" {
		t, err := time.Parse(time.RFC3339Nano, cursor)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid cursor", ErrInvalidInput)
		}
		startAfter = &t
	}

	result, next, err := s.repo.List(ctx, limit, startAfter)
	if err != nil {
		return nil, err
	}

	resp := &FeedResponse{Posts: result}
	if next != nil {
		resp.Cursor = next.Format(time.RFC3339Nano)
	}
	return resp, nil
}

// ListByOwner returns all of one user's posts, newest first
func (s *service) ListByOwner(ctx context.Context, userID string) ([]*Post, error) {
	return s.repo.ListByOwner(ctx, userID)
}

// UpdateCaption edits a post's caption. Only the author may edit; the
// creation time is untouched so the post keeps its feed position.
func (s *service) UpdateCaption(ctx context.Context, sess *session.Session, id, caption string) (*Post, error) {
	if res := validate.IsValidCaption(caption); !res.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, res.Message)
	}

	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.UserID != sess.UserID {
		return nil, ErrForbidden
	}

	if err := s.repo.UpdateCaption(ctx, id, caption); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	post.Caption = caption
	return post, nil
}

// Delete removes a post and its image. Only the author may delete. The
// blob delete is best-effort: a stranded image is preferable to a post
// that cannot be removed.
func (s *service) Delete(ctx context.Context, sess *session.Session, id string) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if post.UserID != sess.UserID {
		return ErrForbidden
	}

	if err := s.blobs.DeleteByURL(ctx, post.ImageURL); err != nil {
		log.Printf("posts: failed to delete image for %s: %v", id, err)
	}

	return s.repo.Delete(ctx, id)
}

// Like adds the caller's like. Liking twice is a no-op thanks to the
// array-union semantics.
func (s *service) Like(ctx context.Context, sess *session.Session, id string) (*Post, error) {
	if err := s.repo.AddLike(ctx, id, sess.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// Unlike removes the caller's like; an absent like is a no-op
func (s *service) Unlike(ctx context.Context, sess *session.Session, id string) (*Post, error) {
	if err := s.repo.RemoveLike(ctx, id, sess.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// ToggleLike adds the caller's like, or removes it if already present,
// and returns the post with the updated likes. The read and the write
// are separate operations; concurrent toggles by the same user can race
// but distinct users never clobber each other.
func (s *service) ToggleLike(ctx context.Context, sess *session.Session, id string) (*Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if post.LikedBy(sess.UserID) {
		return s.Unlike(ctx, sess, id)
	}
	return s.Like(ctx, sess, id)
}

// AddComment appends a comment with a fresh id, snapshotting the
// author's name and photo from the session
func (s *service) AddComment(ctx context.Context, sess *session.Session, postID, text string) (*Comment, error) {
	if res := validate.IsValidComment(text); !res.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, res.Message)
	}

	if _, err := s.Get(ctx, postID); err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:        uuid.New().String(),
		UserID:    sess.UserID,
		UserName:  sess.DisplayName,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if sess.PhotoURL != "" {
		photo := sess.PhotoURL
		comment.UserPhoto = &photo
	}

	if err := s.repo.SetComment(ctx, postID, comment); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return comment, nil
}

// EditComment replaces a comment's text in place, keeping its creation
// time and stamping an edit time. Only the comment's author may edit.
func (s *service) EditComment(ctx context.Context, sess *session.Session, postID, commentID, text string) (*Comment, error) {
	if res := validate.IsValidComment(text); !res.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, res.Message)
	}

	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}

	existing, ok := post.Comments[commentID]
	if !ok {
		return nil, fmt.Errorf("%w: comment not found", ErrNotFound)
	}
	if existing.UserID != sess.UserID {
		return nil, ErrForbidden
	}

	now := time.Now()
	existing.Text = text
	existing.UpdatedAt = &now

	if err := s.repo.SetComment(ctx, postID, &existing); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &existing, nil
}

// DeleteComment removes a comment. Only the comment's author may delete
// it.
func (s *service) DeleteComment(ctx context.Context, sess *session.Session, postID, commentID string) error {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return err
	}

	existing, ok := post.Comments[commentID]
	if !ok {
		return fmt.Errorf("%w: comment not found", ErrNotFound)
	}
	if existing.UserID != sess.UserID {
		return ErrForbidden
	}

	if err := s.repo.DeleteComment(ctx, postID, commentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// SortedComments returns a post's comments oldest first, the order they
// are rendered under the post
func SortedComments(p *Post) []Comment {
	result := make([]Comment, 0, len(p.Comments))
	for _, c := range p.Comments {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// FormatLikesCount renders a like count compactly: 999, 1.2K, 3.4M
func FormatLikesCount(count int) string {
	switch {
	case count >= 1_000_000:
		return trimTrailingZero(fmt.Sprintf("%.1f", float64(count)/1_000_000)) + "M"
	case count >= 1_000:
		return trimTrailingZero(fmt.Sprintf("%.1f", float64(count)/1_000)) + "K"
	default:
		return fmt.Sprintf("%d", count)
	}
}

func trimTrailingZero(s string) string {
	if len(s) > 2 && s[len(s)-2:] == ".0" {
		return s[:len(s)-2]
	}
	return s
}
