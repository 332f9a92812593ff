// internal/posts/handlers.go

package posts

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/stvnptra/picshare/internal/common/utils"
	"github.com/stvnptra/picshare/internal/session"
	"github.com/stvnptra/picshare/internal/timefmt"
)

func labelPost(p *Post) *Post {
	p.Posted = timefmt.TimeAgo(p.CreatedAt)
	return p
}

func labelPosts(page []*Post) []*Post {
	for _, p := range page {
		labelPost(p)
	}
	return page
}

func labelComments(comments []Comment) []Comment {
	for i := range comments {
		comments[i].Posted = timefmt.TimeAgo(comments[i].CreatedAt)
	}
	return comments
}

// Handler exposes post endpoints
type Handler struct {
	service Service
}

// NewHandler creates a new post handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreatePost accepts a multipart image plus caption
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.ErrorResponse(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.ErrorResponse(w, "Missing image file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.ErrorResponse(w, "Failed to read image", http.StatusBadRequest)
		return
	}

	caption := r.FormValue("caption")

	post, err := h.service.Create(r.Context(), sess, data, header.Header.Get("Content-Type"), header.Filename, caption)
	if err != nil {
		h.writeServiceError(w, err, "Failed to create post")
		return
	}

	utils.SuccessResponse(w, post, http.StatusCreated)
}

// GetFeed returns a newest-first page of posts
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	cursor := r.URL.Query().Get("cursor")

	feed, err := h.service.Feed(r.Context(), limit, cursor)
	if err != nil {
		h.writeServiceError(w, err, "Failed to load feed")
		return
	}

	labelPosts(feed.Posts)
	utils.SuccessResponse(w, feed, http.StatusOK)
}

// GetPost returns a single post
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, err, "Failed to get post")
		return
	}

	utils.SuccessResponse(w, labelPost(post), http.StatusOK)
}

// GetUserPosts returns all of one user's posts
func (h *Handler) GetUserPosts(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListByOwner(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, err, "Failed to load posts")
		return
	}

	utils.SuccessResponse(w, labelPosts(result), http.StatusOK)
}

// UpdateCaption edits the caller's post caption
func (h *Handler) UpdateCaption(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req UpdateCaptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.service.UpdateCaption(r.Context(), sess, mux.Vars(r)["id"], req.Caption)
	if err != nil {
		h.writeServiceError(w, err, "Failed to update caption")
		return
	}

	utils.SuccessResponse(w, post, http.StatusOK)
}

// DeletePost removes the caller's post
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.service.Delete(r.Context(), sess, mux.Vars(r)["id"]); err != nil {
		h.writeServiceError(w, err, "Failed to delete post")
		return
	}

	utils.MessageResponse(w, "Post deleted", http.StatusOK)
}

// LikePost adds the caller's like
func (h *Handler) LikePost(w http.ResponseWriter, r *http.Request) {
	h.writeLikeChange(w, r, h.service.Like)
}

// UnlikePost removes the caller's like
func (h *Handler) UnlikePost(w http.ResponseWriter, r *http.Request) {
	h.writeLikeChange(w, r, h.service.Unlike)
}

// ToggleLike flips the caller's like on a post
func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	h.writeLikeChange(w, r, h.service.ToggleLike)
}

func (h *Handler) writeLikeChange(w http.ResponseWriter, r *http.Request, change func(context.Context, *session.Session, string) (*Post, error)) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	post, err := change(r.Context(), sess, mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, err, "Failed to update like")
		return
	}

	utils.SuccessResponse(w, map[string]interface{}{
		"liked":       post.LikedBy(sess.UserID),
		"likes_count": post.LikeCount(),
		"likes_label": FormatLikesCount(post.LikeCount()),
	}, http.StatusOK)
}

// GetComments returns a post's comments oldest first
func (h *Handler) GetComments(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, err, "Failed to load comments")
		return
	}

	utils.SuccessResponse(w, labelComments(SortedComments(post)), http.StatusOK)
}

// AddComment adds a comment to a post
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	comment, err := h.service.AddComment(r.Context(), sess, mux.Vars(r)["id"], req.Text)
	if err != nil {
		h.writeServiceError(w, err, "Failed to add comment")
		return
	}

	utils.SuccessResponse(w, comment, http.StatusCreated)
}

// EditComment replaces the caller's comment text
func (h *Handler) EditComment(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req EditCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	comment, err := h.service.EditComment(r.Context(), sess, vars["id"], vars["commentId"], req.Text)
	if err != nil {
		h.writeServiceError(w, err, "Failed to edit comment")
		return
	}

	utils.SuccessResponse(w, comment, http.StatusOK)
}

// DeleteComment removes the caller's comment
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	if err := h.service.DeleteComment(r.Context(), sess, vars["id"], vars["commentId"]); err != nil {
		h.writeServiceError(w, err, "Failed to delete comment")
		return
	}

	utils.MessageResponse(w, "Comment deleted", http.StatusOK)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, generic string) {
	switch {
	case errors.Is(err, ErrNotFound):
		utils.ErrorResponse(w, "Not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		utils.ErrorResponse(w, "You can only modify your own content", http.StatusForbidden)
	case errors.Is(err, ErrInvalidInput):
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("posts: %v", err)
		utils.ErrorResponse(w, generic+", please try again", http.StatusInternalServerError)
	}
}
