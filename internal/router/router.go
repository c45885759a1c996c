// Package router wires handlers and middleware onto an Echo instance.
package router

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/doctor-booking/internal/handler"
	"github.com/iliyamo/doctor-booking/internal/middleware"
	"github.com/iliyamo/doctor-booking/internal/model"
)

// RegisterRoutes installs request logging and panic recovery and exposes
// the health check.
func RegisterRoutes(e *echo.Echo) {
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.Printf("http: %s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency.Round(time.Microsecond))
			return nil
		},
	}))
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers sign-up/sign-in under /v1/auth behind the rate
// limiter, and the session endpoints that need a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, sessions middleware.SessionSource, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	g.POST("/signup", a.SignUp, limiter)
	g.POST("/signin", a.SignIn, limiter)

	protected := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret, sessions),
		middleware.RequireRole(model.RolePatient),
	}
	g.POST("/signout", a.SignOut, protected...)
	e.GET("/v1/me", a.Me, protected...)
	e.PATCH("/v1/me", a.UpdateMe, protected...)
	// The client's landing screen; same payload as /v1/me.
	e.GET("/home", a.Me, protected...)
}

// RegisterPublic registers the unauthenticated catalog endpoints.
func RegisterPublic(e *echo.Echo, d *handler.DoctorHandler) {
	e.GET("/v1/doctors", d.List)
	e.GET("/v1/doctors/specializations", d.Specializations)
	e.GET("/v1/doctors/:id", d.Get)
}
