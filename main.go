package main

import (
	"log"
	"net/http"

	"timeclock/attendance"
	"timeclock/config"
	"timeclock/database"
	"timeclock/handlers"
	"timeclock/middleware"
	"timeclock/models"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize JWT secret
	middleware.SetJWTSecret(cfg.JWTSecret)

	// Initialize database
	if err := database.Init(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Wire the attendance engine to its collaborators
	store := database.NewStore(database.GetDB())
	engine := attendance.NewService(store, attendance.SystemClock{}, attendance.Config{
		GraceHour:   cfg.GraceHour,
		GraceMinute: cfg.GraceMinute,
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg)
	attendanceHandler := handlers.NewAttendanceHandler(engine)
	adminHandler := handlers.NewAdminHandler(cfg, engine)

	// Setup router
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)

	// Public routes
	router.Post("/api/login", authHandler.Login)
	router.Post("/api/register", authHandler.Register)

	// Protected routes
	router.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)

		r.Post("/api/logout", authHandler.Logout)

		// Accessible even when password change is required
		r.Post("/api/change-password", authHandler.ChangePassword)

		// Routes that require password to be changed first
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePasswordChange)

			r.Get("/api/me", authHandler.Me)

			// Attendance lifecycle (all authenticated users)
			r.Post("/api/attendance/clock-in", attendanceHandler.ClockIn)
			r.Post("/api/attendance/clock-out", attendanceHandler.ClockOut)
			r.Post("/api/attendance/breaks", attendanceHandler.StartBreak)
			r.Post("/api/attendance/breaks/{breakID}/end", attendanceHandler.EndBreak)
			r.Get("/api/attendance/today", attendanceHandler.Today)
			r.Get("/api/attendance/summary", attendanceHandler.Summary)

			// Admin and HR only routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin, models.RoleHR))
				r.Get("/api/admin/attendance", adminHandler.AllAttendance)
				r.Get("/api/admin/attendance/export", adminHandler.ExportCSV)
				r.Get("/api/admin/summary/{userID}", adminHandler.UserSummary)
				r.Post("/api/admin/attendance/mark", adminHandler.MarkDay)
			})

			// Admin only routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin))
				r.Post("/api/admin/invites", adminHandler.CreateInvite)
				r.Get("/api/admin/invites", adminHandler.ListInvites)
				r.Get("/api/admin/users", adminHandler.ListUsers)
				r.Post("/api/admin/users/{userID}", adminHandler.UpdateUser)
				r.Post("/api/admin/users/{userID}/delete", adminHandler.DeleteUser)
				r.Get("/api/admin/departments", adminHandler.ListDepartments)
				r.Post("/api/admin/departments", adminHandler.CreateDepartment)
				r.Post("/api/admin/departments/{departmentID}/delete", adminHandler.DeleteDepartment)
			})
		})
	})

	log.Printf("Server starting on port %s", cfg.ServerPort)
	log.Printf("Default admin credentials: admin / admin")
	log.Fatal(http.ListenAndServe(":"+cfg.ServerPort, router))
}
