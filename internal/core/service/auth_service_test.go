package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/canvord/blog-api/internal/auth"
	"github.com/canvord/blog-api/internal/core/domain"
)

type stubAuthRepo struct {
	admins    map[string]*domain.Admin
	upsertErr error
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{admins: make(map[string]*domain.Admin)}
}

func cloneAdmin(a *domain.Admin) *domain.Admin {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAuthRepo) Upsert(_ context.Context, admin *domain.Admin) (*domain.Admin, error) {
	if r.upsertErr != nil {
		return nil, r.upsertErr
	}
	copy := cloneAdmin(admin)
	if existing, ok := r.admins[admin.Username]; ok {
		copy.ID = existing.ID
		copy.CreatedAt = existing.CreatedAt
	} else {
		copy.ID = admin.Username
	}
	r.admins[copy.Username] = cloneAdmin(copy)
	return cloneAdmin(copy), nil
}

func (r *stubAuthRepo) FindByUsername(_ context.Context, username string) (*domain.Admin, error) {
	a, ok := r.admins[username]
	if !ok {
		return nil, domain.ErrAdminNotFound
	}
	return cloneAdmin(a), nil
}

func newAuthSvc(t *testing.T, repo *stubAuthRepo) (*AuthService, *auth.TokenManager) {
	t.Helper()
	tm, err := auth.NewTokenManager("secret")
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	return NewAuthService(repo, tm, discardLogger), tm
}

func TestAuthService_EnsureAdmin_HashesPassword(t *testing.T) {
	repo := newStubAuthRepo()
	svc, _ := newAuthSvc(t, repo)

	admin, err := svc.EnsureAdmin(context.Background(), "admin", "123456")
	if err != nil {
		t.Fatalf("EnsureAdmin returned error: %v", err)
	}
	if admin.PasswordHash == "123456" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("123456")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if admin.Role != domain.RoleAdmin {
		t.Fatalf("unexpected role: %s", admin.Role)
	}
}

func TestAuthService_EnsureAdmin_RotatesPassword(t *testing.T) {
	repo := newStubAuthRepo()
	svc, _ := newAuthSvc(t, repo)

	first, _ := svc.EnsureAdmin(context.Background(), "admin", "old-pass")
	second, err := svc.EnsureAdmin(context.Background(), "admin", "new-pass")
	if err != nil {
		t.Fatalf("EnsureAdmin returned error: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same account, got %s and %s", first.ID, second.ID)
	}

	if _, _, err := svc.Login(context.Background(), "admin", "old-pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password should be rejected, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "admin", "new-pass"); err != nil {
		t.Fatalf("new password should work, got %v", err)
	}
}

func TestAuthService_EnsureAdmin_Validation(t *testing.T) {
	svc, _ := newAuthSvc(t, newStubAuthRepo())

	if _, err := svc.EnsureAdmin(context.Background(), "", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.EnsureAdmin(context.Background(), "admin", ""); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_EnsureAdmin_RepoError(t *testing.T) {
	repo := newStubAuthRepo()
	repo.upsertErr = errors.New("not primary")
	svc, _ := newAuthSvc(t, repo)

	if _, err := svc.EnsureAdmin(context.Background(), "admin", "pass"); err == nil {
		t.Fatalf("expected repository error")
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubAuthRepo()
	svc, tm := newAuthSvc(t, repo)

	if _, err := svc.EnsureAdmin(context.Background(), "carol", "s3cret"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	token, admin, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if admin == nil || admin.Username != "carol" {
		t.Fatalf("unexpected admin: %+v", admin)
	}

	id, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if id.UserID != "carol" || id.Role != domain.RoleAdmin {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	repo := newStubAuthRepo()
	svc, _ := newAuthSvc(t, repo)

	_, _ = svc.EnsureAdmin(context.Background(), "dave", "goodpass")
	if _, _, err := svc.Login(context.Background(), "dave", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUserLooksLikeBadPassword(t *testing.T) {
	svc, _ := newAuthSvc(t, newStubAuthRepo())

	if _, _, err := svc.Login(context.Background(), "ghost", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "", ""); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for empty input, got %v", err)
	}
}
