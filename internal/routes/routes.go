// Package routes defines HTTP routes for the attendance service.
package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/staffdeck/attendance-service/internal/handlers"
	"github.com/staffdeck/attendance-service/internal/loader"
	"github.com/staffdeck/attendance-service/internal/middleware"
	"github.com/staffdeck/attendance-service/internal/service"
)

// Handlers bundles the HTTP handlers wired into the router.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Employee   *handlers.EmployeeHandler
	Subject    *handlers.SubjectHandler
	Attendance *handlers.AttendanceHandler
	Health     *handlers.HealthHandler
}

// Setup configures all HTTP routes for the application.
func Setup(router *gin.Engine, h Handlers, authService service.AuthService, repos loader.Repositories) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	router.GET("/health", h.Health.Check)
	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth routes
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/verify-otp", h.Auth.VerifyOTP)
		auth.POST("/resend-otp", h.Auth.ResendOTP)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)
	}

	// Protected routes carry the resolved identity and a per-request
	// loader set. Authorization happens in the handlers through the
	// access gate, not here.
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(authService))
	v1.Use(middleware.Loaders(repos))
	{
		v1.GET("/employees", h.Employee.List)
		v1.POST("/employees", h.Employee.Create)
		v1.GET("/employees/:id", h.Employee.Get)
		v1.PUT("/employees/:id", h.Employee.Update)
		v1.DELETE("/employees/:id", h.Employee.Delete)
		v1.GET("/employees/:id/attendance", h.Attendance.ListByEmployee)

		v1.GET("/me/profile", h.Employee.MyProfile)
		v1.PATCH("/me/name", h.Employee.UpdateMyName)

		v1.GET("/subjects", h.Subject.List)
		v1.POST("/subjects", h.Subject.Create)
		v1.DELETE("/subjects/:id", h.Subject.Delete)
		v1.POST("/subjects/:id/assign", h.Subject.Assign)

		v1.POST("/attendance", h.Attendance.Mark)
	}
}
