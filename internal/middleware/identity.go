package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/doctor-booking/internal/model"
)

// Context keys set by JWTAuth.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
	CtxUser   = "user"
)

// currentUserID returns the authenticated user id or "anon".
func currentUserID(c echo.Context) string {
	if s, ok := c.Get(CtxUserID).(string); ok && s != "" {
		return s
	}
	return "anon"
}

// CurrentUser returns the session user JWTAuth attached to the request.
func CurrentUser(c echo.Context) (model.Session, bool) {
	u, ok := c.Get(CtxUser).(model.Session)
	return u, ok
}
