package companies

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rfigueroa/talentbridge-backend/pkg/db/models"
	"github.com/rfigueroa/talentbridge-backend/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:companies_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Company{}); err != nil {
		t.Fatalf("migrate companies: %v", err)
	}
	return db
}

func seedCompany(t *testing.T, db *gorm.DB, company *models.Company) *models.Company {
	t.Helper()
	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}
	if err := db.Create(company).Error; err != nil {
		t.Fatalf("seed company: %v", err)
	}
	return company
}

func TestRepositoryUpdateBalance(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	company := seedCompany(t, db, &models.Company{Name: "Acme Recruiting", PointBalance: 10})

	at := time.Now().UTC()
	if err := repo.UpdateBalance(ctx, company.ID, 7, at); err != nil {
		t.Fatalf("update balance: %v", err)
	}

	got, err := repo.FindByID(ctx, company.ID)
	if err != nil {
		t.Fatalf("find company: %v", err)
	}
	if got.PointBalance != 7 {
		t.Fatalf("expected balance 7, got %d", got.PointBalance)
	}
	if got.BalanceUpdatedAt == nil {
		t.Fatal("expected balance_updated_at to be set")
	}
}

func TestRepositoryJobPostCounters(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	company := seedCompany(t, db, &models.Company{Name: "Northwind"})

	for i := 0; i < 3; i++ {
		if err := repo.IncrementJobPostCounters(ctx, company.ID); err != nil {
			t.Fatalf("increment counters: %v", err)
		}
	}
	if err := repo.DecrementActiveJobPosts(ctx, company.ID); err != nil {
		t.Fatalf("decrement active posts: %v", err)
	}

	got, err := repo.FindByID(ctx, company.ID)
	if err != nil {
		t.Fatalf("find company: %v", err)
	}
	if got.TotalJobPosts != 3 {
		t.Fatalf("expected 3 total posts, got %d", got.TotalJobPosts)
	}
	if got.ActiveJobPosts != 2 {
		t.Fatalf("expected 2 active posts, got %d", got.ActiveJobPosts)
	}
}

func TestRepositoryDecrementNeverNegative(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	company := seedCompany(t, db, &models.Company{Name: "Contoso"})

	if err := repo.DecrementActiveJobPosts(ctx, company.ID); err != nil {
		t.Fatalf("decrement active posts: %v", err)
	}

	got, err := repo.FindByID(ctx, company.ID)
	if err != nil {
		t.Fatalf("find company: %v", err)
	}
	if got.ActiveJobPosts != 0 {
		t.Fatalf("active posts went negative: %d", got.ActiveJobPosts)
	}
}

func TestRepositoryUpdateVerificationStatus(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	company := seedCompany(t, db, &models.Company{Name: "Initech"})

	if err := repo.UpdateVerificationStatus(ctx, company.ID, enums.VerificationStatusVerified); err != nil {
		t.Fatalf("update verification status: %v", err)
	}

	got, err := repo.FindByID(ctx, company.ID)
	if err != nil {
		t.Fatalf("find company: %v", err)
	}
	if got.VerificationStatus != enums.VerificationStatusVerified {
		t.Fatalf("expected verified, got %s", got.VerificationStatus)
	}
	if !got.IsVerified() {
		t.Fatal("IsVerified should report true")
	}
}
