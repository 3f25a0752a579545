package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

func TestHealth_Liveness(t *testing.T) {
	e := echo.New()
	c, rec := newRequest(e, http.MethodGet, "/health", "")

	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealth_Readiness(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("no reachable servers") }

	cases := []struct {
		name   string
		checks map[string]DependencyCheck
		code   int
		status string
	}{
		{"all up", map[string]DependencyCheck{"mongodb": ok, "redis": RedisCheck(rdb)}, http.StatusOK, "ok"},
		{"mongo down", map[string]DependencyCheck{"mongodb": down, "redis": RedisCheck(rdb)}, http.StatusServiceUnavailable, "degraded"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if err := NewHealthDependenciesHandler(tc.checks).Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}

			var resp readinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Status != tc.status {
				t.Fatalf("expected %s, got %s", tc.status, resp.Status)
			}
			if resp.Dependencies["redis"].Status != "ok" {
				t.Fatalf("expected redis ok, got %+v", resp.Dependencies["redis"])
			}
		})
	}
}

func TestHealth_Readiness_RedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	e := echo.New()
	c, rec := newRequest(e, http.MethodGet, "/health/ready", "")
	_ = NewHealthDependenciesHandler(map[string]DependencyCheck{"redis": RedisCheck(rdb)}).Readiness(c)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
