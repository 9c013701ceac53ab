package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Comments       *handlers.CommentsHandler
	Taxonomy       *handlers.TaxonomyHandler
	Admin          *handlers.AdminHandler
	Outbox         *handlers.OutboxHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	tickets := protected.Group("/tickets")
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", auth.RequireStaff(), cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Tickets.DeleteTicket)
	tickets.Get("/:id/events", cfg.Tickets.ListEvents)
	tickets.Post("/:id/comments", cfg.Comments.AddComment)
	tickets.Get("/:id/comments", cfg.Comments.ListComments)

	taxonomy := protected.Group("/taxonomy")
	taxonomy.Get("/statuses", cfg.Taxonomy.ListStatuses)
	taxonomy.Get("/priorities", cfg.Taxonomy.ListPriorities)

	admin := protected.Group("/admin", auth.RequireRole(domain.RoleAdmin))
	admin.Post("/users", cfg.Auth.CreateUser)
	admin.Patch("/users/:id/active", cfg.Auth.SetUserActive)
	admin.Post("/organizations", cfg.Admin.CreateOrganization)
	admin.Get("/organizations/:id", cfg.Admin.GetOrganization)
	admin.Post("/clients", cfg.Admin.CreateClient)
	admin.Get("/clients", cfg.Admin.ListClients)
	admin.Post("/projects", cfg.Admin.CreateProject)
	admin.Get("/projects", cfg.Admin.ListProjects)
	admin.Put("/projects/:id/members", cfg.Admin.SetMember)
	admin.Get("/outbox", cfg.Outbox.ListPending)
	admin.Post("/outbox/process", cfg.Outbox.ProcessPending)
}
