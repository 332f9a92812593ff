// internal/posts/service_test.go

package posts

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stvnptra/picshare/internal/session"
	"github.com/stvnptra/picshare/internal/store"
)

type fakeRepo struct {
	posts     map[string]*Post
	nextID    int
	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{posts: make(map[string]*Post), nextID: 1}
}

func (f *fakeRepo) Create(_ context.Context, p *Post) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	id := "post-" + string(rune('0'+f.nextID))
	f.nextID++

	clone := *p
	clone.ID = id
	f.posts[id] = &clone
	return id, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	clone.Likes = append([]string(nil), p.Likes...)
	clone.Comments = make(map[string]Comment, len(p.Comments))
	for k, v := range p.Comments {
		clone.Comments[k] = v
	}
	return &clone, nil
}

func (f *fakeRepo) List(_ context.Context, limit int, _ *time.Time) ([]*Post, *time.Time, error) {
	var result []*Post
	for _, p := range f.posts {
		result = append(result, p)
		if len(result) == limit {
			break
		}
	}
	return result, nil, nil
}

func (f *fakeRepo) ListByOwner(_ context.Context, userID string) ([]*Post, error) {
	var result []*Post
	for _, p := range f.posts {
		if p.UserID == userID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (f *fakeRepo) UpdateCaption(_ context.Context, id, caption string) error {
	p, ok := f.posts[id]
	if !ok {
		return store.ErrNotFound
	}
	p.Caption = caption
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	delete(f.posts, id)
	return nil
}

func (f *fakeRepo) AddLike(_ context.Context, id, userID string) error {
	p, ok := f.posts[id]
	if !ok {
		return store.ErrNotFound
	}
	for _, uid := range p.Likes {
		if uid == userID {
			return nil
		}
	}
	p.Likes = append(p.Likes, userID)
	return nil
}

func (f *fakeRepo) RemoveLike(_ context.Context, id, userID string) error {
	p, ok := f.posts[id]
	if !ok {
		return store.ErrNotFound
	}
	for i, uid := range p.Likes {
		if uid == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeRepo) SetComment(_ context.Context, postID string, c *Comment) error {
	p, ok := f.posts[postID]
	if !ok {
		return store.ErrNotFound
	}
	if p.Comments == nil {
		p.Comments = make(map[string]Comment)
	}
	p.Comments[c.ID] = *c
	return nil
}

func (f *fakeRepo) DeleteComment(_ context.Context, postID, commentID string) error {
	p, ok := f.posts[postID]
	if !ok {
		return store.ErrNotFound
	}
	delete(p.Comments, commentID)
	return nil
}

type fakeBlobs struct {
	uploads int
	deleted []string
}

func (f *fakeBlobs) Upload(_ context.Context, path string, _ []byte, _ string, _ store.UploadLimits) (string, error) {
	f.uploads++
	return "https://cdn.example.com/" + path, nil
}

func (f *fakeBlobs) DeleteByURL(_ context.Context, fileURL string) error {
	f.deleted = append(f.deleted, fileURL)
	return nil
}

var testSession = &session.Session{UserID: "uid-1", Email: "alice@example.com", DisplayName: "Alice"}

func seedPost(repo *fakeRepo, userID string) string {
	id, _ := repo.Create(context.Background(), &Post{
		UserID:    userID,
		UserName:  "Alice",
		ImageURL:  "https://cdn.example.com/posts/uid-1/1_cat.jpg",
		Caption:   "hello",
		Likes:     []string{},
		Comments:  map[string]Comment{},
		CreatedAt: time.Now(),
	})
	return id
}

func TestCreatePostSnapshotsAuthor(t *testing.T) {
	repo := newFakeRepo()
	blobs := &fakeBlobs{}
	svc := NewService(repo, blobs)

	sess := &session.Session{UserID: "uid-1", DisplayName: "Alice", PhotoURL: "https://cdn.example.com/avatars/a.jpg"}
	post, err := svc.Create(context.Background(), sess, []byte("jpeg bytes"), "image/jpeg", "cat.jpg", "first post")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if post.ID == "" {
		t.Error("expected post id")
	}
	if post.UserName != "Alice" {
		t.Errorf("user name = %q, want Alice", post.UserName)
	}
	if post.UserPhoto == nil || *post.UserPhoto != sess.PhotoURL {
		t.Error("expected author photo snapshot on post")
	}
	if blobs.uploads != 1 {
		t.Errorf("uploads = %d, want 1", blobs.uploads)
	}
}

func TestCreatePostRejectsLongCaptionBeforeUpload(t *testing.T) {
	repo := newFakeRepo()
	blobs := &fakeBlobs{}
	svc := NewService(repo, blobs)

	_, err := svc.Create(context.Background(), testSession, []byte("x"), "image/jpeg", "cat.jpg", strings.Repeat("a", 2201))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if blobs.uploads != 0 {
		t.Errorf("uploads = %d, invalid captions must not transfer bytes", blobs.uploads)
	}
}

func TestCreatePostCompensatesFailedDocumentWrite(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = errors.New("firestore down")
	blobs := &fakeBlobs{}
	svc := NewService(repo, blobs)

	_, err := svc.Create(context.Background(), testSession, []byte("x"), "image/jpeg", "cat.jpg", "hi")
	if err == nil {
		t.Fatal("expected create to fail")
	}
	if len(blobs.deleted) != 1 {
		t.Errorf("deleted = %v, expected the orphaned image to be removed", blobs.deleted)
	}
}

func TestToggleLikeIsIdempotentPerParity(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeBlobs{})
	id := seedPost(repo, "uid-2")

	// Odd number of toggles: liked
	for i := 0; i < 3; i++ {
		if _, err := svc.ToggleLike(context.Background(), testSession, id); err != nil {
			t.Fatalf("ToggleLike: %v", err)
		}
	}
	post, _ := svc.Get(context.Background(), id)
	if !post.LikedBy("uid-1") || post.LikeCount() != 1 {
		t.Errorf("after 3 toggles: liked=%v count=%d, want liked with count 1", post.LikedBy("uid-1"), post.LikeCount())
	}

	// Fourth toggle: back to unliked
	if _, err := svc.ToggleLike(context.Background(), testSession, id); err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	post, _ = svc.Get(context.Background(), id)
	if post.LikedBy("uid-1") || post.LikeCount() != 0 {
		t.Errorf("after 4 toggles: liked=%v count=%d, want unliked with count 0", post.LikedBy("uid-1"), post.LikeCount())
	}
}

func TestLikeIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeBlobs{})
	id := seedPost(repo, "uid-2")

	for i := 0; i < 2; i++ {
		if _, err := svc.Like(context.Background(), testSession, id); err != nil {
			t.Fatalf("Like: %v", err)
		}
	}
	post, _ := svc.Get(context.Background(), id)
	if post.LikeCount() != 1 {
		t.Errorf("count after double like = %d, want 1", post.LikeCount())
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.Unlike(context.Background(), testSession, id); err != nil {
			t.Fatalf("Unlike: %v", err)
		}
	}
	post, _ = svc.Get(context.Background(), id)
	if post.LikeCount() != 0 {
		t.Errorf("count after double unlike = %d, want 0", post.LikeCount())
	}
}

func TestAddCommentSnapshotsAuthor(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeBlobs{})
	id := seedPost(repo, "uid-2")

	comment, err := svc.AddComment(context.Background(), testSession, id, "nice shot")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if comment.ID == "" {
		t.Error("expected comment id")
	}
	if comment.UserID != "uid-1" || comment.UserName != "Alice" {
		t.Errorf("comment author = %s/%s", comment.UserID, comment.UserName)
	}

	post, _ := svc.Get(context.Background(), id)
	if len(post.Comments) != 1 {
		t.Errorf("comment count = %d, want 1", len(post.Comments))
	}
}

func TestEditCommentKeepsCreationTime(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeBlobs{})
	id := seedPost(repo, "uid-2")

	comment, err := svc.AddComment(context.Background(), testSession, id, "first draft")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	edited, err := svc.EditComment(context.Background(), testSession, id, comment.ID, "second draft")
	if err != nil {
		t.Fatalf("EditComment: %v", err)
	}
	if edited.Text != "second draft" {
		t.Errorf("text = %q", edited.Text)
	}
	if !edited.CreatedAt.Equal(comment.CreatedAt) {
		t.Error("edit must not change the comment's creation time")
	}
	if edited.UpdatedAt == nil {
		t.Error("edit must stamp an update time")
	}
}

func TestDeleteCommentAuthorOnly(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeBlobs{})
	id := seedPost(repo, "uid-2")

	comment, err := svc.AddComment(context.Background(), testSession, id, "mine")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	stranger := &session.Session{UserID: "uid-9", DisplayName: "Mallory"}
	if err := svc.DeleteComment(context.Background(), stranger, id, comment.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}

	if err := svc.DeleteComment(context.Background(), testSession, id, comment.ID); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	post, _ := svc.Get(context.Background(), id)
	if len(post.Comments) != 0 {
		t.Errorf("comment count = %d, want 0", len(post.Comments))
	}
}

func TestDeletePostOwnerOnly(t *testing.T) {
	repo := newFakeRepo()
	blobs := &fakeBlobs{}
	svc := NewService(repo, blobs)
	id := seedPost(repo, "uid-1")

	stranger := &session.Session{UserID: "uid-9"}
	if err := svc.Delete(context.Background(), stranger, id); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}

	if err := svc.Delete(context.Background(), testSession, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(blobs.deleted) != 1 {
		t.Errorf("deleted blobs = %v, expected the post image", blobs.deleted)
	}
	if _, err := svc.Get(context.Background(), id); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound after delete", err)
	}
}

func TestUpdateCaptionOwnerOnly(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeBlobs{})
	id := seedPost(repo, "uid-1")

	stranger := &session.Session{UserID: "uid-9"}
	if _, err := svc.UpdateCaption(context.Background(), stranger, id, "hijacked"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}

	post, err := svc.UpdateCaption(context.Background(), testSession, id, "updated")
	if err != nil {
		t.Fatalf("UpdateCaption: %v", err)
	}
	if post.Caption != "updated" {
		t.Errorf("caption = %q", post.Caption)
	}
}

func TestSortedCommentsOldestFirst(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	post := &Post{Comments: map[string]Comment{
		"c": {ID: "c", Text: "third", CreatedAt: base.Add(2 * time.Minute)},
		"a": {ID: "a", Text: "first", CreatedAt: base},
		"b": {ID: "b", Text: "second", CreatedAt: base.Add(time.Minute)},
	}}

	sorted := SortedComments(post)
	if len(sorted) != 3 {
		t.Fatalf("len = %d", len(sorted))
	}
	for i, want := range []string{"first", "second", "third"} {
		if sorted[i].Text != want {
			t.Errorf("sorted[%d] = %q, want %q", i, sorted[i].Text, want)
		}
	}
}

func TestFormatLikesCount(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1K"},
		{1200, "1.2K"},
		{999999, "1000K"},
		{1000000, "1M"},
		{3400000, "3.4M"},
	}

	for _, tt := range tests {
		if got := FormatLikesCount(tt.count); got != tt.want {
			t.Errorf("FormatLikesCount(%d) = %q, want %q", tt.count, got, tt.want)
		}
	}
}
