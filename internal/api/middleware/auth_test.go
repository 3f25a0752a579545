package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canvord/blog-api/internal/auth"
	"github.com/canvord/blog-api/internal/core/domain"
)

const testSecret = "middleware-test-secret"

func newAuthContext(t *testing.T, header string) (echo.Context, *httptest.ResponseRecorder, *echo.Echo) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/articles/publish/1", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec, e
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tm, err := auth.NewTokenManager(testSecret)
	require.NoError(t, err)
	token, err := tm.Issue("alice", domain.RoleAdmin)
	require.NoError(t, err)

	c, rec, _ := newAuthContext(t, "Bearer "+token)

	called := false
	handler := Auth(tm, zerolog.Nop())(func(c echo.Context) error {
		called = true
		assert.Equal(t, "alice", c.Get(ContextKeyUserID))
		assert.Equal(t, domain.RoleAdmin, c.Get(ContextKeyRole))
		assert.Equal(t, domain.Identity{UserID: "alice", Role: domain.RoleAdmin}, c.Get(ContextKeyIdentity))

		id, ok := auth.IdentityFrom(c.Request().Context())
		assert.True(t, ok)
		assert.Equal(t, "alice", id.UserID)
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_RejectsWithGenericMessage(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tm, err := auth.NewTokenManager(testSecret, auth.WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	other, err := auth.NewTokenManager("another-secret", auth.WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	old, err := auth.NewTokenManager(testSecret, auth.WithClock(func() time.Time { return now.Add(-2 * time.Hour) }))
	require.NoError(t, err)

	forged, err := other.Issue("mallory", domain.RoleAdmin)
	require.NoError(t, err)
	expired, err := old.Issue("alice", domain.RoleAdmin)
	require.NoError(t, err)

	cases := map[string]string{
		"missing header":  "",
		"other scheme":    "Token abc",
		"lowercase":       "bearer abc",
		"not a jwt":       "Bearer not-a-token",
		"wrong secret":    "Bearer " + forged,
		"expired":         "Bearer " + expired,
		"empty bearer":    "Bearer ",
		"basic auth form": "Basic YWRtaW46MTIzNDU2",
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			c, rec, e := newAuthContext(t, header)

			handler := Auth(tm, zerolog.Nop())(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			err := handler(c)
			require.Error(t, err)
			e.HTTPErrorHandler(err, c)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"message":"unauthorized"}`, rec.Body.String())
			assert.Nil(t, c.Get(ContextKeyIdentity))
		})
	}
}

type stubAuthenticator struct {
	id  domain.Identity
	err error
}

func (s stubAuthenticator) Authenticate(*http.Request) (domain.Identity, error) {
	return s.id, s.err
}

func TestAuthMiddleware_AcceptsAnyAuthenticator(t *testing.T) {
	c, rec, _ := newAuthContext(t, "")
	stub := stubAuthenticator{id: domain.Identity{UserID: "svc", Role: "editor"}}

	handler := Auth(stub, zerolog.Nop())(func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get(ContextKeyRole).(string))
	})

	require.NoError(t, handler(c))
	assert.Equal(t, "editor", rec.Body.String())
}

func TestFailureReason(t *testing.T) {
	assert.Equal(t, "missing_token", failureReason(auth.ErrMissingToken))
	assert.Equal(t, "expired", failureReason(auth.ErrExpired))
	assert.Equal(t, "invalid_signature", failureReason(auth.ErrInvalidSignature))
	assert.Equal(t, "unknown", failureReason(domain.ErrForbidden))
}
