package middleware

import (
	"context"
	"errors"
	"net/http"

	"slginvoice/internal/caching"
	"slginvoice/internal/common"
	"slginvoice/internal/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "slg_session"

// RequireSession runs after the JWT middleware has verified the token
// signature. It checks that the session id inside the token is still live in
// the session store (logout kills it immediately, before token expiry), then
// threads the operator name and session id through the request context.
func RequireSession(sessions caching.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing session token")
			}
			claims, ok := token.Claims.(*services.SessionClaims)
			if !ok || claims.SessionID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid session claims")
			}

			operator, err := sessions.GetSession(c.Request().Context(), claims.SessionID)
			if err != nil {
				if errors.Is(err, caching.ErrSessionNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Session expired")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "Session lookup failed")
			}

			ctx := context.WithValue(c.Request().Context(), common.OperatorKey, operator)
			ctx = context.WithValue(ctx, common.SessionIDKey, claims.SessionID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
