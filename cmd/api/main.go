package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/rfigueroa/talentbridge-backend/api/routes"
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
	"github.com/rfigueroa/talentbridge-backend/pkg/migrate"
	"github.com/rfigueroa/talentbridge-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	companiesRepo := companies.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	walletRepo := wallet.NewRepository(dbClient.DB())
	subscriptionsRepo := subscriptions.NewRepository(dbClient.DB())
	jobsRepo := jobs.NewRepository(dbClient.DB())
	invitationsRepo := invitations.NewRepository(dbClient.DB())

	companiesService, err := companies.NewService(companiesRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create company service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	walletService, err := wallet.NewService(wallet.ServiceParams{
		Tx:        dbClient,
		Repo:      walletRepo,
		Companies: companiesRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wallet service", err)
		os.Exit(1)
	}

	subscriptionsService, err := subscriptions.NewService(subscriptions.ServiceParams{
		Tx:      dbClient,
		Repo:    subscriptionsRepo,
		Catalog: catalogRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create subscription service", err)
		os.Exit(1)
	}

	entitlementsService, err := entitlements.NewService(entitlements.ServiceParams{
		Companies:     companiesRepo,
		Subscriptions: subscriptionsService,
		Wallet:        cfg.Wallet,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create entitlement service", err)
		os.Exit(1)
	}

	jobsService, err := jobs.NewService(jobs.ServiceParams{
		Tx:            dbClient,
		Repo:          jobsRepo,
		Companies:     companiesRepo,
		Subscriptions: subscriptionsService,
		Wallet:        walletService,
		WalletConfig:  cfg.Wallet,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create jobs service", err)
		os.Exit(1)
	}

	invitationsService, err := invitations.NewService(invitations.ServiceParams{
		Tx:           dbClient,
		Repo:         invitationsRepo,
		Companies:    companiesRepo,
		Jobs:         jobsRepo,
		Wallet:       walletService,
		WalletConfig: cfg.Wallet,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create invitation service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:        cfg,
			Logger:        logg,
			DB:            dbClient,
			Redis:         redisClient,
			Companies:     companiesService,
			Catalog:       catalogService,
			Wallet:        walletService,
			Entitlements:  entitlementsService,
			Jobs:          jobsService,
			Invitations:   invitationsService,
			Subscriptions: subscriptionsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
