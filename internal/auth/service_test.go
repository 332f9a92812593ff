// internal/auth/service_test.go

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stvnptra/picshare/internal/notification"
	"github.com/stvnptra/picshare/internal/profile"
	"github.com/stvnptra/picshare/internal/session"
	"github.com/stvnptra/picshare/internal/store"
)

type fakeIdentity struct {
	users        map[string]string // uid -> email
	nextUID      string
	deleted      []string
	revoked      []string
	passwordErr  error
	resetLink    string
	passwordSets map[string]string
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		users:        make(map[string]string),
		nextUID:      "uid-1",
		resetLink:    "https://example.com/reset?code=abc",
		passwordSets: make(map[string]string),
	}
}

func (f *fakeIdentity) CreateUser(_ context.Context, email, _, _ string) (string, error) {
	uid := f.nextUID
	f.users[uid] = email
	return uid, nil
}

func (f *fakeIdentity) DeleteUser(_ context.Context, uid string) error {
	delete(f.users, uid)
	f.deleted = append(f.deleted, uid)
	return nil
}

func (f *fakeIdentity) VerifyPassword(_ context.Context, email, _ string) (*SignInResult, error) {
	if f.passwordErr != nil {
		return nil, f.passwordErr
	}
	for uid, e := range f.users {
		if e == email {
			return &SignInResult{
				UID:          uid,
				Email:        email,
				IDToken:      "id-token",
				RefreshToken: "refresh-token",
				ExpiresIn:    3600,
			}, nil
		}
	}
	return nil, errors.New("no such user")
}

func (f *fakeIdentity) VerifyIDToken(_ context.Context, idToken string) (string, string, error) {
	if idToken != "id-token" {
		return "", "", errors.New("bad token")
	}
	for uid, email := range f.users {
		return uid, email, nil
	}
	return "", "", errors.New("no users")
}

func (f *fakeIdentity) RevokeRefreshTokens(_ context.Context, uid string) error {
	f.revoked = append(f.revoked, uid)
	return nil
}

func (f *fakeIdentity) UpdatePassword(_ context.Context, uid, newPassword string) error {
	f.passwordSets[uid] = newPassword
	return nil
}

func (f *fakeIdentity) PasswordResetLink(_ context.Context, email string) (string, error) {
	for _, e := range f.users {
		if e == email {
			return f.resetLink, nil
		}
	}
	return "", errors.New("no such user")
}

type fakeProfileRepo struct {
	profiles  map[string]*profile.Profile
	createErr error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*profile.Profile)}
}

func (f *fakeProfileRepo) Create(_ context.Context, p *profile.Profile) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.profiles[p.UID] = p
	return nil
}

func (f *fakeProfileRepo) GetByID(_ context.Context, uid string) (*profile.Profile, error) {
	return f.profiles[uid], nil
}

func (f *fakeProfileRepo) Patch(_ context.Context, uid string, _ []store.Update) error {
	if _, ok := f.profiles[uid]; !ok {
		return store.ErrNotFound
	}
	return nil
}

func newTestService(identity *fakeIdentity, repo *fakeProfileRepo, mailer *notification.MockMailer) (Service, *session.Manager) {
	sessions := session.NewManager()
	svc := NewService(identity, repo, sessions, mailer, &Config{
		TicketSecret: "test-secret",
		TicketExpiry: time.Minute,
	})
	return svc, sessions
}

func TestRegisterCreatesProfileAndSession(t *testing.T) {
	identity := newFakeIdentity()
	repo := newFakeProfileRepo()
	svc, sessions := newTestService(identity, repo, notification.NewMockMailer())

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Email:       "alice@example.com",
		Password:    "secret1",
		DisplayName: "Alice",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.UserID != "uid-1" {
		t.Errorf("user id = %q, want uid-1", resp.UserID)
	}
	if resp.IDToken == "" || resp.RefreshToken == "" {
		t.Error("expected tokens in register response")
	}

	p := repo.profiles["uid-1"]
	if p == nil {
		t.Fatal("expected profile document to be created")
	}
	if p.DisplayName != "Alice" || p.Email != "alice@example.com" {
		t.Errorf("profile = %+v", p)
	}

	if _, ok := sessions.Current("uid-1"); !ok {
		t.Error("expected live session after register")
	}
}

func TestRegisterCompensatesWhenProfileWriteFails(t *testing.T) {
	identity := newFakeIdentity()
	repo := newFakeProfileRepo()
	repo.createErr = errors.New("firestore down")
	svc, sessions := newTestService(identity, repo, notification.NewMockMailer())

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email:       "bob@example.com",
		Password:    "secret1",
		DisplayName: "Bob",
	})
	if err == nil {
		t.Fatal("expected register to fail")
	}

	if len(identity.deleted) != 1 || identity.deleted[0] != "uid-1" {
		t.Errorf("expected compensating delete of uid-1, got %v", identity.deleted)
	}
	if sessions.Count() != 0 {
		t.Errorf("expected no live sessions, got %d", sessions.Count())
	}
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	identity := newFakeIdentity()
	svc, _ := newTestService(identity, newFakeProfileRepo(), notification.NewMockMailer())

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"bad email", RegisterRequest{Email: "not-an-email", Password: "secret1", DisplayName: "Alice"}},
		{"short password", RegisterRequest{Email: "a@b.co", Password: "abc", DisplayName: "Alice"}},
		{"short display name", RegisterRequest{Email: "a@b.co", Password: "secret1", DisplayName: "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), &tt.req)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}

	if len(identity.users) != 0 {
		t.Errorf("no identities should be created for invalid input, got %d", len(identity.users))
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	identity := newFakeIdentity()
	identity.passwordErr = errors.New("INVALID_PASSWORD")
	svc, sessions := newTestService(identity, newFakeProfileRepo(), notification.NewMockMailer())

	_, err := svc.Login(context.Background(), &LoginRequest{Email: "alice@example.com", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	if sessions.Count() != 0 {
		t.Error("failed login must not create a session")
	}
}

func TestLoginEnrichesSessionFromProfile(t *testing.T) {
	identity := newFakeIdentity()
	identity.users["uid-1"] = "alice@example.com"
	repo := newFakeProfileRepo()
	photo := "https://cdn.example.com/avatars/uid-1.jpg"
	repo.profiles["uid-1"] = &profile.Profile{
		UID:         "uid-1",
		Email:       "alice@example.com",
		DisplayName: "Alice Lidell",
		PhotoURL:    &photo,
	}
	svc, sessions := newTestService(identity, repo, notification.NewMockMailer())

	resp, err := svc.Login(context.Background(), &LoginRequest{Email: "alice@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.DisplayName != "Alice Lidell" {
		t.Errorf("display name = %q, want profile snapshot", resp.DisplayName)
	}

	sess, ok := sessions.Current("uid-1")
	if !ok {
		t.Fatal("expected live session")
	}
	if sess.PhotoURL != photo {
		t.Errorf("session photo = %q, want %q", sess.PhotoURL, photo)
	}
}

func TestLogoutRevokesAndClearsSession(t *testing.T) {
	identity := newFakeIdentity()
	identity.users["uid-1"] = "alice@example.com"
	svc, sessions := newTestService(identity, newFakeProfileRepo(), notification.NewMockMailer())
	sessions.Login(session.Session{UserID: "uid-1", Email: "alice@example.com"})

	if err := svc.Logout(context.Background(), "uid-1"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(identity.revoked) != 1 || identity.revoked[0] != "uid-1" {
		t.Errorf("revoked = %v, want [uid-1]", identity.revoked)
	}
	if sessions.Count() != 0 {
		t.Error("expected session to be cleared")
	}
}

func TestSendPasswordResetMailsLink(t *testing.T) {
	identity := newFakeIdentity()
	identity.users["uid-1"] = "alice@example.com"
	mailer := notification.NewMockMailer()
	svc, _ := newTestService(identity, newFakeProfileRepo(), mailer)

	if err := svc.SendPasswordReset(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("SendPasswordReset: %v", err)
	}
	if len(mailer.Sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(mailer.Sent))
	}
	if mailer.Sent[0].To != "alice@example.com" {
		t.Errorf("to = %q", mailer.Sent[0].To)
	}
}

func TestTicketRoundTrip(t *testing.T) {
	identity := newFakeIdentity()
	svc, _ := newTestService(identity, newFakeProfileRepo(), notification.NewMockMailer())

	sess := &session.Session{UserID: "uid-1", Email: "alice@example.com"}
	ticket, err := svc.IssueTicket(sess)
	if err != nil {
		t.Fatalf("IssueTicket: %v", err)
	}

	got, err := svc.ValidateTicket(ticket)
	if err != nil {
		t.Fatalf("ValidateTicket: %v", err)
	}
	if got.UserID != "uid-1" || got.Email != "alice@example.com" {
		t.Errorf("session = %+v", got)
	}

	if _, err := svc.ValidateTicket(ticket + "tampered"); err == nil {
		t.Error("expected tampered ticket to be rejected")
	}
}
