package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/leak-ticket-service/internal/api/http/handlers"
	"github.com/spec-kit/leak-ticket-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Accounts       *handlers.AccountsHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	// the login picker and the catalog are public; everything else
	// requires a session
	app.Get("/auth/accounts", cfg.Accounts.ListAccounts)
	app.Post("/auth/login", cfg.Accounts.Login)
	app.Get("/catalog", cfg.Tickets.Catalog)

	accounts := app.Group("/accounts", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	accounts.Post("/", cfg.Accounts.Provision)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	tickets.Post("/", auth.RequireOutlet(), cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id/plan", auth.RequireAdmin(), cfg.Tickets.SavePlan)
	tickets.Put("/:id/finish", auth.RequireAdmin(), cfg.Tickets.FinishTicket)
}
