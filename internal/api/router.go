package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/startupops/backend/internal/analytics"
	"github.com/startupops/backend/internal/api/handlers"
	"github.com/startupops/backend/internal/api/middleware"
	"github.com/startupops/backend/internal/audit"
	"github.com/startupops/backend/internal/auth"
	"github.com/startupops/backend/internal/billing"
	"github.com/startupops/backend/internal/cache"
	"github.com/startupops/backend/internal/config"
	"github.com/startupops/backend/internal/crm"
	"github.com/startupops/backend/internal/dashboard"
	"github.com/startupops/backend/internal/domains"
	"github.com/startupops/backend/internal/email"
	"github.com/startupops/backend/internal/finance"
	"github.com/startupops/backend/internal/hr"
	"github.com/startupops/backend/internal/llm"
	"github.com/startupops/backend/internal/models"
	"github.com/startupops/backend/internal/notification"
	"github.com/startupops/backend/internal/payment"
	"github.com/startupops/backend/internal/project"
	"github.com/startupops/backend/internal/queue"
	"github.com/startupops/backend/internal/tenant"
	"github.com/startupops/backend/internal/validation"
)

type Router struct {
	mux   *chi.Mux
	db    *pgxpool.Pool
	redis *redis.Client
	cfg   *config.Config
	ts    *tenant.Service
	authn *auth.Middleware
	llmGW *llm.Gateway
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config) *Router {
	ts := tenant.NewService(db)
	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHrs)*time.Hour)
	return &Router{
		mux:   chi.NewRouter(),
		db:    db,
		redis: rdb,
		cfg:   cfg,
		ts:    ts,
		authn: auth.NewMiddleware(issuer, ts),
		llmGW: llm.NewGateway(cfg.LLM),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Services
	queueClient := queue.NewClient(rt.cfg.Redis)
	auditSvc := audit.NewService(rt.db, queueClient)
	notifySvc := notification.NewService(rt.db, queueClient)
	mailer := email.NewMailer(rt.cfg.SMTP)
	issuer := auth.NewIssuer(rt.cfg.Auth.JWTSecret, time.Duration(rt.cfg.Auth.TokenTTLHrs)*time.Hour)
	authSvc := auth.NewService(rt.ts, issuer, auditSvc, notifySvc)
	provider := payment.NewStubProvider()
	billingSvc := billing.NewService(rt.db, provider, rt.ts, auditSvc, notifySvc)
	crmSvc := crm.NewService(rt.db)
	projectSvc := project.NewService(project.NewPGStore(rt.db), auditSvc, notifySvc)
	hrSvc := hr.NewService(rt.db)
	financeSvc := finance.NewService(rt.db)
	validationSvc := validation.NewService(rt.db)
	domainSvc := domains.NewService(rt.db)
	dashboardSvc := dashboard.NewService(rt.db, cache.NewCache(rt.redis))
	analyticsSvc := analytics.NewService(rt.db, rt.llmGW, auditSvc)

	authH := handlers.NewAuthHandler(authSvc, rt.ts, billingSvc)
	crmH := handlers.NewCRMHandler(crmSvc, auditSvc)
	projectH := handlers.NewProjectHandler(projectSvc)
	hrH := handlers.NewHRHandler(hrSvc, rt.ts, auditSvc, notifySvc)
	financeH := handlers.NewFinanceHandler(financeSvc, auditSvc)
	subH := handlers.NewSubscriptionHandler(billingSvc)
	webhookH := handlers.NewWebhookHandler(billingSvc, rt.cfg.Payment.WebhookSecret)
	notifH := handlers.NewNotificationHandler(notifySvc)
	auditH := handlers.NewAuditHandler(auditSvc)
	userH := handlers.NewUserHandler(rt.ts, queueClient, mailer, auditSvc)
	validationH := handlers.NewValidationHandler(validationSvc, auditSvc)
	analyticsH := handlers.NewAnalyticsHandler(analyticsSvc)
	domainH := handlers.NewDomainHandler(domainSvc)
	dashH := handlers.NewDashboardHandler(dashboardSvc)

	adminTrio := []models.Role{models.RoleSuperAdmin, models.RoleMainHandler, models.RoleAdmin}
	projectWriters := append(adminTrio[:len(adminTrio):len(adminTrio)], models.RoleManager)

	r.Route("/api/v1", func(r chi.Router) {
		// Public
		r.Post("/auth/register", authH.Register)
		r.Post("/auth/login", authH.Login)
		r.Post("/auth/biometric/login", authH.BiometricLogin)
		r.Post("/webhooks/payment", webhookH.Payment)
		r.Post("/domains/check", domainH.Check)
		r.Post("/domains/purchase", domainH.Purchase)

		// Authenticated
		r.Group(func(r chi.Router) {
			r.Use(rt.authn.Authenticate)

			r.Route("/auth", func(r chi.Router) {
				r.Get("/me", authH.Me)
				r.Post("/biometric/register", authH.BiometricRegister)
				r.Put("/password", authH.ChangePassword)
				r.Put("/company", authH.UpdateCompany)
				r.Post("/payment/add", authH.AddPaymentMethod)
				r.Get("/payment/methods", authH.ListPaymentMethods)
			})

			r.Route("/crm", func(r chi.Router) {
				r.Get("/leads", crmH.ListLeads)
				r.Get("/deals", crmH.ListDeals)
				r.Group(func(r chi.Router) {
					r.Use(auth.RequireRoles(adminTrio...))
					r.Post("/leads", crmH.CreateLead)
					r.Put("/leads/{id}", crmH.UpdateLead)
					r.Delete("/leads/{id}", crmH.DeleteLead)
					r.Post("/deals", crmH.CreateDeal)
				})
			})

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", projectH.List)
				r.Get("/tasks", projectH.ListTasks)
				r.Post("/tasks", projectH.CreateTask)
				r.Put("/tasks/{id}", projectH.UpdateTask)
				r.With(auth.RequireRoles(adminTrio...)).Delete("/tasks/{id}", projectH.DeleteTask)
				r.Group(func(r chi.Router) {
					r.Use(auth.RequireRoles(projectWriters...))
					r.Post("/", projectH.Create)
					r.Put("/{id}", projectH.Update)
					r.Delete("/{id}", projectH.Delete)
				})
			})

			r.Route("/hr", func(r chi.Router) {
				r.Get("/employees", hrH.ListEmployees)
				r.Get("/leaves", hrH.ListLeaves)
				r.Post("/leaves", hrH.CreateLeave)
				r.With(auth.RequireRoles(adminTrio...)).Put("/leaves/{id}", hrH.UpdateLeave)
			})

			r.Route("/finance", func(r chi.Router) {
				r.Get("/invoices", financeH.ListInvoices)
				r.With(auth.RequireRoles(adminTrio...)).Post("/invoices", financeH.CreateInvoice)
				r.Get("/expenses", financeH.ListExpenses)
				r.Post("/expenses", financeH.CreateExpense)
			})

			r.Route("/subscriptions", func(r chi.Router) {
				r.Get("/plans", subH.Plans)
				r.Post("/checkout", subH.Checkout)
				r.Get("/status/{sessionID}", subH.CheckoutStatus)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notifH.List)
				r.Put("/{id}/read", notifH.MarkRead)
				r.Put("/read-all", notifH.MarkAllRead)
			})

			r.With(auth.RequireRoles(models.RoleSuperAdmin, models.RoleMainHandler, models.RoleAdmin,
				models.RoleCEO, models.RoleHR)).Get("/audit-logs", auditH.List)

			r.Route("/users", func(r chi.Router) {
				r.With(auth.RequireRoles(models.RoleSuperAdmin, models.RoleMainHandler, models.RoleAdmin,
					models.RoleCEO, models.RoleHR, models.RoleManager, models.RoleServer)).Get("/", userH.List)
				r.With(auth.RequireRoles(models.RoleSuperAdmin, models.RoleMainHandler, models.RoleAdmin,
					models.RoleCEO, models.RoleHR, models.RoleManager)).Post("/create", userH.Invite)
				r.With(auth.RequireRoles(models.RoleSuperAdmin, models.RoleMainHandler, models.RoleAdmin,
					models.RoleCEO, models.RoleHR, models.RoleManager)).Delete("/{id}", userH.Delete)
				r.With(auth.RequireRoles(models.RoleSuperAdmin, models.RoleMainHandler, models.RoleAdmin,
					models.RoleCEO)).Put("/{id}/role", userH.UpdateRole)
			})

			r.Get("/dashboard/stats", dashH.Stats)

			r.Route("/analytics", func(r chi.Router) {
				execRoles := []models.Role{models.RoleSuperAdmin, models.RoleMainHandler, models.RoleAdmin,
					models.RoleCEO, models.RoleManager}
				r.With(auth.RequireRoles(execRoles...)).Post("/burn-rate", analyticsH.BurnRate)
				r.With(auth.RequireRoles(execRoles...)).Post("/unit-economics", analyticsH.UnitEconomics)
				r.With(auth.RequireRoles(adminTrio...)).Post("/product-optimization", analyticsH.ProductOptimization)
				r.Post("/project-estimation", analyticsH.ProjectEstimation)
			})

			r.Post("/ai/generate-pitch", analyticsH.PitchDeck)

			r.Route("/validation/ideas", func(r chi.Router) {
				r.Get("/", validationH.List)
				r.Post("/", validationH.Create)
				r.Post("/{id}/vote", validationH.Vote)
				r.Post("/{id}/feedback", validationH.AddFeedback)
			})
		})
	})

	return r
}
