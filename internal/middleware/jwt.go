package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/doctor-booking/internal/model"
	"github.com/iliyamo/doctor-booking/internal/utils"
)

// SessionSource exposes the currently active session. The Auth Manager
// implements it.
type SessionSource interface {
	Current() *model.Session
}

// JWTAuth validates a Bearer access token and checks that it was issued to
// the user of the active session. On success the user id, role and session
// user are stored in the context under CtxUserID, CtxRole and CtxUser. Any
// failure is a 401.
func JWTAuth(secret string, sessions SessionSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			// A token outlives sign-out; only the active session's user is let in.
			sess := sessions.Current()
			if sess == nil || sess.ID != claims.UserID {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired"})
			}

			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxRole, claims.Role)
			c.Set(CtxUser, *sess)
			return next(c)
		}
	}
}
