package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/canvord/blog-api/internal/api/metrics"
	"github.com/canvord/blog-api/internal/core/domain"
)

// RBAC enforces role-based access control on top of Auth.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ContextKeyRole).(string)
			if _, ok := allowed[role]; !ok {
				metrics.AuthFailuresTotal.WithLabelValues("forbidden").Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": domain.ErrForbidden.Error()})
			}
			return next(c)
		}
	}
}
