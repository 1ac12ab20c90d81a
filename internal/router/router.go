package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/campuslab/lab-seat-service/internal/handler"
	"github.com/campuslab/lab-seat-service/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the staff-console auth routes. Login, refresh and
// logout live under /api/auth and need no token; /api/me and account
// registration are protected. Only admins can add console accounts.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/api/auth")
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/api", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me, middleware.RequireRole("ADMIN", "STAFF"))
	auth.POST("/auth/register", a.Register, middleware.RequireRole("ADMIN"))
}

// RegisterPublic registers the kiosk-facing endpoints. The seat map and the
// registration flow are unauthenticated: the lab-door kiosk has no session,
// the scanned credential is what gets verified. Cacheable read endpoints
// take the Redis response cache; the assignment endpoint takes the rate
// limiter so a wedged kiosk cannot hammer the database.
func RegisterPublic(e *echo.Echo, sh *handler.SeatHandler, sch *handler.ScheduleHandler,
	st *handler.StudentHandler, ah *handler.AssignmentHandler, th *handler.TimeHandler,
	cache echo.MiddlewareFunc, limiter echo.MiddlewareFunc) {

	e.GET("/api/time", th.Now)
	e.GET("/api/labs/:lab/seats", sh.ListSeats, cache)
	e.GET("/api/labs/:lab/occupied", sh.OccupiedSeats)
	e.GET("/api/labs/:lab/current-class", sch.CurrentClass)
	e.GET("/api/labs/:lab/schedule", sch.List, cache)

	e.POST("/api/students/verify", st.Verify, limiter)
	e.POST("/api/assignments", ah.Create, limiter)
}

// RegisterStaff registers the authenticated operations surface. Staff can
// audit assignments, force a release and toggle seat maintenance; replacing
// layouts and schedules is admin-only.
func RegisterStaff(e *echo.Echo, sh *handler.SeatHandler, sch *handler.ScheduleHandler,
	ah *handler.AssignmentHandler, jwtSecret string) {

	staff := e.Group("/api",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "STAFF"),
	)
	staff.GET("/assignments", ah.List)
	staff.POST("/labs/:lab/release", ah.Release)
	staff.PUT("/labs/:lab/seats/:key/status", sh.SetStatus)

	admin := e.Group("/api",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	admin.PUT("/labs/:lab/seats", sh.ReplaceLayout)
	admin.PUT("/labs/:lab/schedule", sch.Replace)
}
