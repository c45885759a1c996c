package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/doctor-booking/internal/handler"
	"github.com/iliyamo/doctor-booking/internal/middleware"
	"github.com/iliyamo/doctor-booking/internal/model"
)

// RegisterPatient registers the booking endpoints under /v1/bookings. All
// of them require a valid access token for the active session and the
// patient role.
func RegisterPatient(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, sessions middleware.SessionSource) {
	g := e.Group(
		"/v1/bookings",
		middleware.JWTAuth(jwtSecret, sessions),
		middleware.RequireRole(model.RolePatient),
	)
	g.POST("", h.Create)
	g.GET("", h.List)
	g.POST("/:id/cancel", h.Cancel)
	g.GET("/:id/invoice", h.Invoice)
}
