package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rfigueroa/talentbridge-backend/api/controllers"
	"github.com/rfigueroa/talentbridge-backend/api/middleware"
	"github.com/rfigueroa/talentbridge-backend/internal/catalog"
	"github.com/rfigueroa/talentbridge-backend/internal/companies"
	"github.com/rfigueroa/talentbridge-backend/internal/entitlements"
	"github.com/rfigueroa/talentbridge-backend/internal/invitations"
	"github.com/rfigueroa/talentbridge-backend/internal/jobs"
	"github.com/rfigueroa/talentbridge-backend/internal/subscriptions"
	"github.com/rfigueroa/talentbridge-backend/internal/wallet"
	"github.com/rfigueroa/talentbridge-backend/pkg/config"
	"github.com/rfigueroa/talentbridge-backend/pkg/db"
	"github.com/rfigueroa/talentbridge-backend/pkg/logger"
	"github.com/rfigueroa/talentbridge-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface needs.
type RouterParams struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            db.Pinger
	Redis         *redis.Client
	Companies     companies.Service
	Catalog       catalog.Service
	Wallet        wallet.Service
	Entitlements  entitlements.Service
	Jobs          jobs.Service
	Invitations   invitations.Service
	Subscriptions subscriptions.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog/plans", controllers.CatalogPlans(p.Catalog, logg))
		r.Get("/catalog/point-packages", controllers.CatalogPointPackages(p.Catalog, logg))

		r.With(middleware.Idempotency(p.Redis, logg)).
			Post("/companies", controllers.CompanyRegister(p.Companies, logg))

		r.Route("/company/me", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.Idempotency(p.Redis, logg))

			r.Get("/", controllers.CompanyProfile(p.Companies, logg))
			r.Get("/entitlements", controllers.EntitlementsSnapshot(p.Entitlements, logg))

			r.Get("/wallet", controllers.WalletSnapshot(p.Wallet, logg))
			r.Get("/wallet/ledger", controllers.WalletLedger(p.Wallet, logg))
			r.Post("/wallet/credits", controllers.WalletCredit(p.Wallet, cfg.Webhook, logg))

			r.Get("/jobs", controllers.JobList(p.Jobs, logg))
			r.Post("/jobs", controllers.JobCreate(p.Jobs, logg))
			r.Post("/jobs/{jobId}/publish", controllers.JobPublish(p.Jobs, logg))
			r.Post("/jobs/{jobId}/close", controllers.JobClose(p.Jobs, logg))

			r.Get("/invitations", controllers.InvitationList(p.Invitations, logg))
			r.Post("/invitations", controllers.InvitationSend(p.Invitations, logg))

			r.Get("/subscription", controllers.SubscriptionFetch(p.Subscriptions, logg))
			r.Post("/subscription", controllers.SubscriptionActivate(p.Subscriptions, logg))
			r.Post("/subscription/cancel", controllers.SubscriptionCancel(p.Subscriptions, logg))
			r.Post("/subscription/renew", controllers.SubscriptionRenew(p.Subscriptions, logg))
		})
	})

	return r
}
