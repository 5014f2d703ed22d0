package cron

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rfigueroa/talentbridge-backend/internal/companies"
	"github.com/rfigueroa/talentbridge-backend/internal/wallet"
	"github.com/rfigueroa/talentbridge-backend/pkg/db/models"
	"github.com/rfigueroa/talentbridge-backend/pkg/enums"
	"github.com/rfigueroa/talentbridge-backend/pkg/logger"
)

func TestLedgerExpirySweep(t *testing.T) {
	t.Parallel()

	dsn := "file:cron_ledger_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Company{}, &models.LedgerEntry{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := wallet.NewRepository(db)
	svc, err := wallet.NewService(wallet.ServiceParams{
		Tx:        gormTxRunner{db: db},
		Repo:      repo,
		Companies: companies.NewRepository(db),
	})
	if err != nil {
		t.Fatalf("build wallet service: %v", err)
	}

	company := &models.Company{
		ID:                 uuid.New(),
		Name:               "Acme Talent",
		VerificationStatus: enums.VerificationStatusVerified,
		PointBalance:       5,
	}
	if err := db.Create(company).Error; err != nil {
		t.Fatalf("seed company: %v", err)
	}
	expiry := now.Add(-time.Hour)
	credit := &models.LedgerEntry{
		ID:        uuid.New(),
		CompanyID: company.ID,
		Kind:      enums.LedgerEntryKindBonus,
		Points:    5,
		Status:    enums.LedgerEntryStatusCompleted,
		ExpiresAt: &expiry,
	}
	if err := db.Create(credit).Error; err != nil {
		t.Fatalf("seed credit: %v", err)
	}

	job, err := NewLedgerExpirySweepJob(LedgerExpirySweepJobParams{
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
		Repo:   repo,
		Wallet: svc,
		Now:    func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("build job: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run job: %v", err)
	}

	var stored models.Company
	if err := db.First(&stored, "id = ?", company.ID).Error; err != nil {
		t.Fatalf("reload company: %v", err)
	}
	if stored.PointBalance != 0 {
		t.Fatalf("expired credit must be removed from the balance, got %d", stored.PointBalance)
	}

	// Sweeping again settles nothing further.
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}
	var entries int64
	if err := db.Model(&models.LedgerEntry{}).Where("company_id = ?", company.ID).Count(&entries).Error; err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if entries != 2 {
		t.Fatalf("expected the credit and one offset entry, found %d", entries)
	}
}
