package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rfigueroa/talentbridge-backend/pkg/db/models"
	pkgerrors "github.com/rfigueroa/talentbridge-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.PointPackage{}, &models.SubscriptionPlan{}); err != nil {
		t.Fatalf("migrate catalog: %v", err)
	}
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestPointPackageLifecycle(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	pkg, err := svc.CreatePointPackage(ctx, CreatePointPackageInput{
		Name:        "Starter",
		Points:      10,
		BonusPoints: 2,
		Price:       decimal.NewFromFloat(9.99),
		Currency:    "usd",
	})
	if err != nil {
		t.Fatalf("create package: %v", err)
	}
	if pkg.Currency != "USD" {
		t.Fatalf("currency not normalized: %q", pkg.Currency)
	}
	if pkg.TotalPoints() != 12 {
		t.Fatalf("expected 12 total points, got %d", pkg.TotalPoints())
	}

	got, err := svc.GetPointPackage(ctx, pkg.ID)
	if err != nil {
		t.Fatalf("get package: %v", err)
	}
	if !got.Price.Equal(decimal.NewFromFloat(9.99)) {
		t.Fatalf("price mismatch: %s", got.Price)
	}

	list, err := svc.ListPointPackages(ctx, false)
	if err != nil {
		t.Fatalf("list packages: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 active package, got %d", len(list))
	}
}

func TestCreatePointPackageValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreatePointPackageInput
	}{
		{name: "blank name", input: CreatePointPackageInput{Points: 10}},
		{name: "zero points", input: CreatePointPackageInput{Name: "Starter", Points: 0}},
		{name: "negative bonus", input: CreatePointPackageInput{Name: "Starter", Points: 10, BonusPoints: -1}},
		{name: "negative price", input: CreatePointPackageInput{Name: "Starter", Points: 10, Price: decimal.NewFromInt(-1)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreatePointPackage(ctx, tc.input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestPlanLifecycle(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	limit := 5
	plan, err := svc.CreatePlan(ctx, CreatePlanInput{
		Name:            "Growth",
		JobPostingLimit: &limit,
		MonthlyPrice:    decimal.NewFromInt(49),
		YearlyPrice:     decimal.NewFromInt(490),
	})
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}
	if plan.UnlimitedPostings() {
		t.Fatal("plan with a limit must not report unlimited")
	}

	unlimited, err := svc.CreatePlan(ctx, CreatePlanInput{
		Name:         "Enterprise",
		MonthlyPrice: decimal.NewFromInt(199),
		YearlyPrice:  decimal.NewFromInt(1990),
	})
	if err != nil {
		t.Fatalf("create unlimited plan: %v", err)
	}
	if !unlimited.UnlimitedPostings() {
		t.Fatal("nil posting limit means unlimited")
	}

	plans, err := svc.ListPlans(ctx, false)
	if err != nil {
		t.Fatalf("list plans: %v", err)
	}
	if len(plans) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(plans))
	}
	// Cheapest first.
	if plans[0].Name != "Growth" {
		t.Fatalf("expected Growth first, got %s", plans[0].Name)
	}

	_, err = svc.GetPlan(ctx, uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
