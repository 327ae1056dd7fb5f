package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Middleware reads the session cookie, when present, and attaches the
// caller's Identity to the request context. Requests without a valid
// session proceed anonymously; role enforcement happens in RequireRole at
// route registration.
func Middleware(sessions *Sessions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			id, err := sessions.Parse(cookie.Value)
			if err != nil {
				// Expired or tampered cookie: treat as anonymous.
				return next(c)
			}

			ctx := WithIdentity(c.Request().Context(), id)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// RequireRole rejects requests before the handler runs: 401 without a
// session, 403 when the session's role is not one of those listed.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			for _, role := range roles {
				if id.Role == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
		}
	}
}
