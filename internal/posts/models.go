// internal/posts/models.go

package posts

import "time"

// Post is an image post with its likes and comments embedded. Author
// name and photo are snapshots taken at creation time.
type Post struct {
	ID        string             `json:"id" firestore:"-"`
	UserID    string             `json:"user_id" firestore:"userId"`
	UserName  string             `json:"user_name" firestore:"userName"`
	UserPhoto *string            `json:"user_photo,omitempty" firestore:"userPhoto"`
	ImageURL  string             `json:"image_url" firestore:"imageURL"`
	Caption   string             `json:"caption" firestore:"caption"`
	Likes     []string           `json:"likes" firestore:"likes"`
	Comments  map[string]Comment `json:"comments" firestore:"comments"`
	CreatedAt time.Time          `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time          `json:"updated_at" firestore:"updatedAt"`

	// Posted is a display label ("2 hours ago") filled in by the view
	// layer, never stored
	Posted string `json:"posted,omitempty" firestore:"-"`
}

// Comment is a single comment, stored in the post document keyed by its
// own id
type Comment struct {
	ID        string     `json:"id" firestore:"id"`
	UserID    string     `json:"user_id" firestore:"userId"`
	UserName  string     `json:"user_name" firestore:"userName"`
	UserPhoto *string    `json:"user_photo,omitempty" firestore:"userPhoto"`
	Text      string     `json:"text" firestore:"text"`
	CreatedAt time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" firestore:"updatedAt"`

	Posted string `json:"posted,omitempty" firestore:"-"`
}

// LikeCount returns the number of likes on the post
func (p *Post) LikeCount() int {
	return len(p.Likes)
}

// LikedBy reports whether the given user has liked the post
func (p *Post) LikedBy(userID string) bool {
	for _, uid := range p.Likes {
		if uid == userID {
			return true
		}
	}
	return false
}

// UpdateCaptionRequest edits a post's caption
type UpdateCaptionRequest struct {
	Caption string `json:"caption"`
}

// AddCommentRequest adds a comment to a post
type AddCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// EditCommentRequest replaces a comment's text
type EditCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// FeedResponse is one page of the chronological feed plus the cursor
// for the next page. Cursor is empty when the feed is exhausted.
type FeedResponse struct {
	Posts  []*Post `json:"posts"`
	Cursor string  `json:"cursor,omitempty"`
}
