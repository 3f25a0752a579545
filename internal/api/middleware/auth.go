package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/canvord/blog-api/internal/api/metrics"
	"github.com/canvord/blog-api/internal/auth"
	"github.com/canvord/blog-api/internal/core/domain"
)

// Context keys set on echo.Context by Auth.
const (
	ContextKeyIdentity = "identity"
	ContextKeyUserID   = "user_id"
	ContextKeyRole     = "role"
)

// Authenticator verifies the credentials carried by a request.
type Authenticator interface {
	Authenticate(r *http.Request) (domain.Identity, error)
}

// Auth validates the bearer token and injects the caller identity into the
// echo context and the request context. Every failure is a 401 with the same
// message; the reason only reaches logs and metrics.
func Auth(authenticator Authenticator, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := authenticator.Authenticate(c.Request())
			if err != nil {
				reason := failureReason(err)
				metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
				log.Debug().
					Str("reason", reason).
					Str("method", c.Request().Method).
					Str("path", c.Path()).
					Msg("authentication failed")
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			c.Set(ContextKeyIdentity, id)
			c.Set(ContextKeyUserID, id.UserID)
			c.Set(ContextKeyRole, id.Role)
			c.SetRequest(c.Request().WithContext(auth.WithIdentity(c.Request().Context(), id)))

			return next(c)
		}
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return "missing_token"
	case errors.Is(err, auth.ErrExpired):
		return "expired"
	case errors.Is(err, auth.ErrInvalidSignature):
		return "invalid_signature"
	default:
		return "unknown"
	}
}
