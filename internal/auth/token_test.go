package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/canvord/blog-api/internal/core/domain"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager(t *testing.T, secret string) (*TokenManager, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	m, err := NewTokenManager(secret, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}
	return m, clock
}

func requestWithAuth(value string) *http.Request {
	req := httptest.NewRequest(http.MethodPut, "/articles/publish", nil)
	if value != "" {
		req.Header.Set("Authorization", value)
	}
	return req
}

func TestNewTokenManager_EmptySecret(t *testing.T) {
	if _, err := NewTokenManager(""); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}

func TestAuthenticate_IssuedTokenRoundTrip(t *testing.T) {
	m, _ := newTestManager(t, "secret")

	token, err := m.Issue("alice", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	id, err := m.Authenticate(requestWithAuth("Bearer " + token))
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if id.UserID != "alice" || id.Role != domain.RoleAdmin {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestAuthenticate_ValidUntilJustBeforeExpiry(t *testing.T) {
	m, clock := newTestManager(t, "secret")
	token, _ := m.Issue("alice", domain.RoleAdmin)

	clock.Advance(DefaultTokenTTL - time.Second)
	if _, err := m.Authenticate(requestWithAuth("Bearer " + token)); err != nil {
		t.Fatalf("expected token to still be valid, got %v", err)
	}

	clock.Advance(time.Second)
	if _, err := m.Authenticate(requestWithAuth("Bearer " + token)); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired at exp, got %v", err)
	}
}

func TestAuthenticate_ExpiredThenFresh(t *testing.T) {
	m, clock := newTestManager(t, "secret")

	stale, _ := m.Issue("alice", domain.RoleAdmin)
	clock.Advance(DefaultTokenTTL + time.Second)
	if _, err := m.Authenticate(requestWithAuth("Bearer " + stale)); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}

	fresh, _ := m.Issue("alice", domain.RoleAdmin)
	id, err := m.Authenticate(requestWithAuth("Bearer " + fresh))
	if err != nil {
		t.Fatalf("fresh token rejected: %v", err)
	}
	if id != (domain.Identity{UserID: "alice", Role: "admin"}) {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestAuthenticate_ExpiredWinsOverBadSignature(t *testing.T) {
	verifier, clock := newTestManager(t, "secret")
	other, err := NewTokenManager("other-secret", WithClock(clock.Now))
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}

	token, _ := other.Issue("mallory", domain.RoleAdmin)
	clock.Advance(2 * DefaultTokenTTL)

	if _, err := verifier.Authenticate(requestWithAuth("Bearer " + token)); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestAuthenticate_DifferentSecret(t *testing.T) {
	verifier, clock := newTestManager(t, "secret")
	other, _ := NewTokenManager("other-secret", WithClock(clock.Now))

	token, _ := other.Issue("mallory", domain.RoleAdmin)
	if _, err := verifier.Authenticate(requestWithAuth("Bearer " + token)); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestAuthenticate_RejectsOtherAlgorithms(t *testing.T) {
	m, clock := newTestManager(t, "secret")
	claims := Claims{
		Role: domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
		},
	}

	hs384, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign hs384: %v", err)
	}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	for name, token := range map[string]string{"HS384": hs384, "none": none} {
		if _, err := m.Authenticate(requestWithAuth("Bearer " + token)); !errors.Is(err, ErrInvalidSignature) {
			t.Fatalf("%s: expected ErrInvalidSignature, got %v", name, err)
		}
	}
}

func TestAuthenticate_RequiresExpiry(t *testing.T) {
	m, _ := newTestManager(t, "secret")
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "alice"},
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := m.Authenticate(requestWithAuth("Bearer " + token)); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature for token without exp, got %v", err)
	}
}

func TestAuthenticate_MalformedToken(t *testing.T) {
	m, _ := newTestManager(t, "secret")
	for _, raw := range []string{"not-a-token", "a.b", "a.b.c.d", "x.y.z"} {
		if _, err := m.Authenticate(requestWithAuth("Bearer " + raw)); !errors.Is(err, ErrInvalidSignature) {
			t.Fatalf("%q: expected ErrInvalidSignature, got %v", raw, err)
		}
	}
}

func TestAuthenticate_MissingToken(t *testing.T) {
	m, _ := newTestManager(t, "secret")
	token, _ := m.Issue("alice", domain.RoleAdmin)

	cases := map[string]string{
		"no header":        "",
		"basic scheme":     "Basic YWxpY2U6c2VjcmV0",
		"lowercase scheme": "bearer " + token,
		"double space":     "Bearer  " + token,
		"no space":         "Bearer" + token,
		"empty token":      "Bearer ",
	}
	for name, header := range cases {
		if _, err := m.Authenticate(requestWithAuth(header)); !errors.Is(err, ErrMissingToken) {
			t.Fatalf("%s: expected ErrMissingToken, got %v", name, err)
		}
	}
}

func TestIdentityContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := IdentityFrom(req.Context()); ok {
		t.Fatalf("expected no identity on a fresh request")
	}

	ctx := WithIdentity(req.Context(), domain.Identity{UserID: "alice", Role: domain.RoleAdmin})
	id, ok := IdentityFrom(ctx)
	if !ok || id.UserID != "alice" {
		t.Fatalf("identity not propagated: %+v %v", id, ok)
	}
}
