package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Users           *handlers.UsersHandler
	Complaints      *handlers.ComplaintsHandler
	StaffComplaints *handlers.StaffComplaintsHandler
	Admin           *handlers.AdminHandler
	AuthMiddleware  *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/password/reset/request", cfg.Users.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Users.ConfirmPasswordReset)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	authProtected.Get("/me", cfg.Users.Me)
	authProtected.Post("/password/change", cfg.Users.ChangePassword)

	app.Get("/categories", cfg.AuthMiddleware.Handle, auth.RequireAnyRole(), cfg.Complaints.ListCategories)

	student := app.Group("/complaints", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleStudent))
	student.Post("", cfg.Complaints.CreateComplaint)
	student.Get("", cfg.Complaints.ListComplaints)
	student.Get("/:id", cfg.Complaints.GetComplaint)
	student.Post("/:id/comments", cfg.Complaints.AddComment)

	staff := app.Group("/staff/complaints", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleStaff))
	staff.Get("", cfg.StaffComplaints.ListAssigned)
	staff.Get("/:id", cfg.StaffComplaints.GetComplaint)
	staff.Patch("/:id/status", cfg.StaffComplaints.UpdateStatus)
	staff.Post("/:id/comments", cfg.StaffComplaints.AddComment)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Get("/complaints", cfg.Admin.ListComplaints)
	admin.Get("/complaints/:id", cfg.Admin.GetComplaint)
	admin.Post("/complaints/:id/assign", cfg.Admin.AssignComplaint)
	admin.Post("/complaints/:id/reject", cfg.Admin.RejectComplaint)
	admin.Patch("/complaints/:id/priority", cfg.Admin.UpdatePriority)
	admin.Get("/dashboard", cfg.Admin.Dashboard)
	admin.Post("/users", cfg.Admin.CreateAccount)
	admin.Get("/users", cfg.Admin.ListAccounts)
	admin.Patch("/users/:id/active", cfg.Admin.SetAccountActive)
	admin.Post("/categories", cfg.Admin.CreateCategory)
	admin.Get("/categories", cfg.Admin.ListCategories)
	admin.Patch("/categories/:id", cfg.Admin.UpdateCategory)
}
