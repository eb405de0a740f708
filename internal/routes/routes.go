package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Health     *handlers.HealthHandler
	Plans      *handlers.PlanHandler
	Members    *handlers.MemberHandler
	Membership *handlers.MembershipHandler
	Invoices   *handlers.InvoiceHandler
	Enquiries  *handlers.EnquiryHandler
}

func Setup(app *fiber.App, cfg *config.Config, h Handlers, gatherer prometheus.Gatherer) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := app.Group("/api")

	// Per-IP rate limit across the API
	limit := cfg.RateLimitPerMinute
	if limit <= 0 {
		limit = 60
	}
	api.Use(limiter.New(limiter.Config{
		Max:               limit,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Public
	api.Get("/health", h.Health.Check)
	api.Post("/enquiries", h.Enquiries.Create)

	jwt := middleware.JWTProtected(cfg)
	adminOnly := middleware.RequireRoles(cfg, identity.RoleAdmin)
	staff := middleware.RequireRoles(cfg, identity.RoleAdmin, identity.RoleTrainer)

	api.Get("/enquiries", jwt, adminOnly, h.Enquiries.List)
	api.Get("/enquiries/:id", jwt, adminOnly, h.Enquiries.Get)

	plans := api.Group("/plans", jwt, adminOnly)
	plans.Post("", h.Plans.Create)
	plans.Get("", h.Plans.List)
	plans.Get("/:id", h.Plans.Get)
	plans.Put("/:id", h.Plans.Update)
	plans.Delete("/:id", h.Plans.Delete)

	members := api.Group("/members", jwt)
	members.Post("", adminOnly, h.Members.Register)
	members.Get("", staff, h.Members.List)
	members.Get("/:id", staff, h.Members.Get)
	members.Put("/:id", adminOnly, h.Members.Update)
	members.Delete("/:id", adminOnly, h.Members.Delete)
	members.Post("/:id/renew", adminOnly, h.Members.Renew)
	members.Post("/:id/switch-plan", adminOnly, h.Members.SwitchPlan)
	members.Get("/:id/memberships", staff, h.Members.Memberships)
	members.Get("/:id/invoices", staff, h.Members.Invoices)

	memberships := api.Group("/memberships", jwt)
	memberships.Get("/:id", staff, h.Membership.Get)
	memberships.Post("/:id/extend", adminOnly, h.Membership.Extend)

	invoices := api.Group("/invoices", jwt)
	invoices.Post("", adminOnly, h.Invoices.Generate)
	invoices.Get("/:invoiceId", staff, h.Invoices.Get)
}
