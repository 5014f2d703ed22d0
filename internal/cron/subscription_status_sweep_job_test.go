package cron

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rfigueroa/talentbridge-backend/internal/catalog"
	"github.com/rfigueroa/talentbridge-backend/internal/subscriptions"
	"github.com/rfigueroa/talentbridge-backend/pkg/db/models"
	"github.com/rfigueroa/talentbridge-backend/pkg/enums"
	"github.com/rfigueroa/talentbridge-backend/pkg/logger"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (g gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

func newSubscriptionSweepFixture(t *testing.T) (*gorm.DB, subscriptions.Repository, subscriptions.Service, time.Time) {
	t.Helper()
	dsn := "file:cron_subs_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.SubscriptionPlan{}, &models.CompanySubscription{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := subscriptions.NewRepository(db)
	svc, err := subscriptions.NewService(subscriptions.ServiceParams{
		Tx:      gormTxRunner{db: db},
		Repo:    repo,
		Catalog: catalog.NewRepository(db),
		Now:     func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("build subscription service: %v", err)
	}
	return db, repo, svc, now
}

func seedSubscription(t *testing.T, db *gorm.DB, planID uuid.UUID, endDate time.Time, autoRenew bool) *models.CompanySubscription {
	t.Helper()
	sub := &models.CompanySubscription{
		ID:                 uuid.New(),
		CompanyID:          uuid.New(),
		SubscriptionPlanID: planID,
		Status:             enums.SubscriptionStatusActive,
		StartDate:          endDate.AddDate(0, -1, 0),
		EndDate:            endDate,
		BillingCycle:       enums.BillingCycleMonthly,
		AutoRenew:          autoRenew,
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
	return sub
}

func TestSubscriptionStatusSweep(t *testing.T) {
	t.Parallel()

	db, repo, svc, now := newSubscriptionSweepFixture(t)
	plan := &models.SubscriptionPlan{
		ID:           uuid.New(),
		Name:         "Growth",
		MonthlyPrice: decimal.NewFromInt(49),
		YearlyPrice:  decimal.NewFromInt(490),
		IsActive:     true,
	}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("seed plan: %v", err)
	}

	lapsedRenewing := seedSubscription(t, db, plan.ID, now.AddDate(0, 0, -2), true)
	lapsed := seedSubscription(t, db, plan.ID, now.AddDate(0, 0, -2), false)
	healthy := seedSubscription(t, db, plan.ID, now.AddDate(0, 1, 0), false)

	job, err := NewSubscriptionStatusSweepJob(SubscriptionStatusSweepJobParams{
		Logger:        logger.New(logger.Options{ServiceName: "cron-test"}),
		Repo:          repo,
		Subscriptions: svc,
		Now:           func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("build job: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run job: %v", err)
	}

	var renewed models.CompanySubscription
	if err := db.First(&renewed, "id = ?", lapsedRenewing.ID).Error; err != nil {
		t.Fatalf("load renewed: %v", err)
	}
	if renewed.Status != enums.SubscriptionStatusActive {
		t.Fatalf("auto-renewing row must stay active, got %s", renewed.Status)
	}
	want := lapsedRenewing.EndDate.AddDate(0, 1, 0)
	if !renewed.EndDate.Equal(want) {
		t.Fatalf("expected end date %s, got %s", want, renewed.EndDate)
	}

	var expired models.CompanySubscription
	if err := db.First(&expired, "id = ?", lapsed.ID).Error; err != nil {
		t.Fatalf("load expired: %v", err)
	}
	if expired.Status != enums.SubscriptionStatusExpired {
		t.Fatalf("lapsed row must be expired, got %s", expired.Status)
	}

	var untouched models.CompanySubscription
	if err := db.First(&untouched, "id = ?", healthy.ID).Error; err != nil {
		t.Fatalf("load healthy: %v", err)
	}
	if untouched.Status != enums.SubscriptionStatusActive || !untouched.EndDate.Equal(healthy.EndDate) {
		t.Fatal("healthy row must not be touched by the sweep")
	}

	// A second pass finds nothing left to do.
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}
	var stillExpired models.CompanySubscription
	if err := db.First(&stillExpired, "id = ?", lapsed.ID).Error; err != nil {
		t.Fatalf("reload expired: %v", err)
	}
	if stillExpired.Status != enums.SubscriptionStatusExpired {
		t.Fatalf("expired row must stay expired, got %s", stillExpired.Status)
	}
}
