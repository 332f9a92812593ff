// internal/profile/service_test.go

package profile

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stvnptra/picshare/internal/store"
)

type fakeRepo struct {
	profiles map[string]*Profile
	patches  [][]store.Update
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{profiles: make(map[string]*Profile)}
}

func (f *fakeRepo) Create(_ context.Context, p *Profile) error {
	f.profiles[p.UID] = p
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, uid string) (*Profile, error) {
	return f.profiles[uid], nil
}

func (f *fakeRepo) Patch(_ context.Context, uid string, updates []store.Update) error {
	p, ok := f.profiles[uid]
	if !ok {
		return store.ErrNotFound
	}
	f.patches = append(f.patches, updates)
	for _, u := range updates {
		switch u.Path[0] {
		case "displayName":
			p.DisplayName = u.Value.(string)
		case "bio":
			p.Bio = u.Value.(string)
		case "photoURL":
			url := u.Value.(string)
			p.PhotoURL = &url
		}
	}
	return nil
}

type fakeUploader struct {
	uploads int
}

func (f *fakeUploader) Upload(_ context.Context, path string, _ []byte, _ string, _ store.UploadLimits) (string, error) {
	f.uploads++
	return "https://cdn.example.com/" + path, nil
}

func seedProfile(repo *fakeRepo) {
	repo.profiles["uid-1"] = NewProfile("uid-1", "alice@example.com", "Alice", time.Now())
}

func TestGetUnknownProfile(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeUploader{})

	_, err := svc.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateValidatesFields(t *testing.T) {
	repo := newFakeRepo()
	seedProfile(repo)
	svc := NewService(repo, &fakeUploader{})

	bad := "x"
	if _, err := svc.Update(context.Background(), "uid-1", &UpdateProfileRequest{DisplayName: &bad}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("short display name: err = %v, want ErrInvalidInput", err)
	}

	longBio := strings.Repeat("b", 151)
	if _, err := svc.Update(context.Background(), "uid-1", &UpdateProfileRequest{Bio: &longBio}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("long bio: err = %v, want ErrInvalidInput", err)
	}

	if len(repo.patches) != 0 {
		t.Errorf("invalid input must not reach the store, got %d patches", len(repo.patches))
	}
}

func TestUpdateAppliesFields(t *testing.T) {
	repo := newFakeRepo()
	seedProfile(repo)
	svc := NewService(repo, &fakeUploader{})

	name := "Alice Liddell"
	bio := "down the rabbit hole"
	p, err := svc.Update(context.Background(), "uid-1", &UpdateProfileRequest{DisplayName: &name, Bio: &bio})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if p.DisplayName != name || p.Bio != bio {
		t.Errorf("profile = %+v", p)
	}
}

func TestUpdateWithNoFieldsReturnsCurrent(t *testing.T) {
	repo := newFakeRepo()
	seedProfile(repo)
	svc := NewService(repo, &fakeUploader{})

	p, err := svc.Update(context.Background(), "uid-1", &UpdateProfileRequest{})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if p.DisplayName != "Alice" {
		t.Errorf("display name = %q", p.DisplayName)
	}
	if len(repo.patches) != 0 {
		t.Error("empty update must not write")
	}
}

func TestUploadPhotoRejectsBadFiles(t *testing.T) {
	repo := newFakeRepo()
	seedProfile(repo)
	uploader := &fakeUploader{}
	svc := NewService(repo, uploader)

	if _, err := svc.UploadPhoto(context.Background(), "uid-1", []byte("x"), "text/plain", "notes.txt"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("wrong MIME: err = %v, want ErrInvalidInput", err)
	}

	big := make([]byte, 6<<20)
	if _, err := svc.UploadPhoto(context.Background(), "uid-1", big, "image/jpeg", "huge.jpg"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("oversize: err = %v, want ErrInvalidInput", err)
	}

	if uploader.uploads != 0 {
		t.Errorf("uploads = %d, invalid files must not transfer bytes", uploader.uploads)
	}
}

func TestUploadPhotoPointsProfileAtURL(t *testing.T) {
	repo := newFakeRepo()
	seedProfile(repo)
	svc := NewService(repo, &fakeUploader{})

	p, err := svc.UploadPhoto(context.Background(), "uid-1", []byte("jpeg bytes"), "image/jpeg", "me.jpg")
	if err != nil {
		t.Fatalf("UploadPhoto: %v", err)
	}
	if p.PhotoURL == nil || !strings.HasPrefix(*p.PhotoURL, "https://cdn.example.com/avatars/uid-1/") {
		t.Errorf("photo URL = %v", p.PhotoURL)
	}
}
