package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/notify"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/scheduler"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/seed"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/store"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/store/gormstore"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/store/memstore"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/telemetry"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	loc, _ := cfg.Location()
	ctx := context.Background()

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTLPEndpoint, cfg.ServiceName)
	if err != nil {
		slog.Error("tracing init failed", "error", err)
		os.Exit(1)
	}

	// Store
	var (
		st           store.Store
		db           *gorm.DB
		pgLogHandler *logging.PGHandler
	)
	switch cfg.StoreDriver {
	case config.DriverMemory:
		st = memstore.New()
		slog.Warn("using in-memory store, data is lost on restart")
	default:
		db, err = database.Connect(cfg)
		if err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if err := database.Migrate(db); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}
		st = gormstore.New(db)

		// PostgreSQL log handler (ERROR+ async batch)
		pgLogHandler = logging.NewPGHandler(db)
		logging.Attach(pgLogHandler)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Services
	opts := []services.Option{services.WithMetrics(m), services.WithLogger(slog.Default())}
	planService := services.NewPlanService(st, cfg.PlanCacheSize, cfg.PlanCacheTTL, opts...)
	invoiceService := services.NewInvoiceService(st, opts...)
	lifecycleService := services.NewLifecycleService(st, planService, invoiceService, opts...)
	registrationService := services.NewRegistrationService(st, planService, lifecycleService, invoiceService, opts...)
	memberService := services.NewMemberService(st, planService, opts...)
	enquiryService := services.NewEnquiryService(st, opts...)

	if n, err := seed.Plans(ctx, planService, cfg.PlansSeedPath); err != nil {
		slog.Error("plan seeding failed", "path", cfg.PlansSeedPath, "error", err)
		os.Exit(1)
	} else if n > 0 {
		slog.Info("plans seeded", "created", n)
	}

	var notifier notify.Notifier = notify.NewLogNotifier(slog.Default())
	if cfg.SMTPHost != "" {
		notifier = notify.NewEmailNotifier(notify.EmailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}, st.Members())
	}
	scanner := services.NewExpiryScanner(st, notifier, loc, opts...)

	// Scheduler
	sched := scheduler.New(loc, slog.Default())
	if err := sched.Add("expiry_scan", cfg.ExpiryCron, scheduler.ExpiryJob(scanner, cfg.ExpiryHorizonDays)); err != nil {
		slog.Error("failed to schedule expiry scan", "error", err)
		os.Exit(1)
	}
	if db != nil {
		purge := func(cutoff time.Time) (int64, error) { return logging.PurgeBefore(db, cutoff) }
		if err := sched.Add("purge_logs", "30 3 * * *", sched.RetentionJob(purge, cfg.LogRetention, time.Now)); err != nil {
			slog.Error("failed to schedule log cleanup", "error", err)
			os.Exit(1)
		}
	}
	sched.Start()

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, routes.Handlers{
		Health:     handlers.NewHealthHandler(st),
		Plans:      handlers.NewPlanHandler(planService),
		Members:    handlers.NewMemberHandler(registrationService, memberService, lifecycleService, invoiceService),
		Membership: handlers.NewMembershipHandler(lifecycleService),
		Invoices:   handlers.NewInvoiceHandler(invoiceService),
		Enquiries:  handlers.NewEnquiryHandler(enquiryService),
	}, registry)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "store", cfg.StoreDriver)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sched.Stop(stopCtx)

	if err := app.ShutdownWithContext(stopCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if pgLogHandler != nil {
		pgLogHandler.Stop()
	}
	if err := shutdownTracing(stopCtx); err != nil {
		slog.Error("tracing shutdown error", "error", err)
	}
	sentry.Flush(2 * time.Second)

	// Close database connections
	if db != nil {
		if err := database.Close(db); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}
