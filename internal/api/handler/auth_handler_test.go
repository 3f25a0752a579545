package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/canvord/blog-api/internal/core/domain"
)

type stubAuthService struct {
	loginFn func(ctx context.Context, username, password string) (string, *domain.Admin, error)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.Admin, error) {
	return s.loginFn(ctx, username, password)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func postJSON(e *echo.Echo, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.Admin, error) {
			if username != "admin" || password != "123456" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return "token123", &domain.Admin{Username: "admin", Role: domain.RoleAdmin}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := postJSON(e, "/admin/login", `{"username":"admin","password":"123456"}`)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
	if _, leaked := resp["password_hash"]; leaked {
		t.Fatalf("response must not carry credentials: %+v", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.Admin, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := postJSON(e, "/admin/login", `{"username":"admin","password":"bad"}`)
	_ = handler.Login(c)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid credentials") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthHandler_Login_InternalErrorPropagates(t *testing.T) {
	e := newTestEcho()
	boom := errors.New("server selection timeout")
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.Admin, error) {
			return "", nil, boom
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := postJSON(e, "/admin/login", `{"username":"admin","password":"x"}`)
	if err := handler.Login(c); !errors.Is(err, boom) {
		t.Fatalf("expected error to propagate to the error handler, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.Admin, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	for _, body := range []string{"{", `{"username":"admin"}`, `{"password":"x"}`} {
		c, rec := postJSON(e, "/admin/login", body)
		_ = handler.Login(c)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, rec.Code)
		}
	}
}
