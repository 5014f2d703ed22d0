package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rfigueroa/talentbridge-backend/pkg/db/models"
	pkgerrors "github.com/rfigueroa/talentbridge-backend/pkg/errors"
)

// Service exposes the read-mostly pricing catalog. The entitlement engine
// never mutates catalog rows; the create operations exist for the admin
// surface only.
type Service interface {
	ListPointPackages(ctx context.Context, includeInactive bool) ([]models.PointPackage, error)
	GetPointPackage(ctx context.Context, id uuid.UUID) (*models.PointPackage, error)
	CreatePointPackage(ctx context.Context, input CreatePointPackageInput) (*models.PointPackage, error)
	ListPlans(ctx context.Context, includeInactive bool) ([]models.SubscriptionPlan, error)
	GetPlan(ctx context.Context, id uuid.UUID) (*models.SubscriptionPlan, error)
	CreatePlan(ctx context.Context, input CreatePlanInput) (*models.SubscriptionPlan, error)
}

// CreatePointPackageInput captures a new purchasable point bundle.
type CreatePointPackageInput struct {
	Name        string
	Points      int
	BonusPoints int
	Price       decimal.Decimal
	Currency    string
	IsFeatured  bool
}

// CreatePlanInput captures a new subscription tier. A nil JobPostingLimit
// means unlimited postings.
type CreatePlanInput struct {
	Name                 string
	JobPostingLimit      *int
	JobInvitationLimit   *int
	FeaturedJobLimit     int
	AutoPromote          bool
	PremiumBadge         bool
	AnalyticsAccess      bool
	PrioritySupport      bool
	TalentDatabaseAccess bool
	MonthlyPrice         decimal.Decimal
	YearlyPrice          decimal.Decimal
	Currency             string
}

type service struct {
	repo Repository
}

// NewService wires a catalog service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListPointPackages(ctx context.Context, includeInactive bool) ([]models.PointPackage, error) {
	pkgs, err := s.repo.ListPointPackages(ctx, !includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list point packages")
	}
	return pkgs, nil
}

func (s *service) GetPointPackage(ctx context.Context, id uuid.UUID) (*models.PointPackage, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "point package id is required")
	}
	pkg, err := s.repo.FindPointPackageByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "point package not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load point package")
	}
	return pkg, nil
}

func (s *service) CreatePointPackage(ctx context.Context, input CreatePointPackageInput) (*models.PointPackage, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "package name is required")
	}
	if input.Points <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "package points must be positive")
	}
	if input.BonusPoints < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bonus points cannot be negative")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	pkg := &models.PointPackage{
		ID:          uuid.New(),
		Name:        name,
		Points:      input.Points,
		BonusPoints: input.BonusPoints,
		Price:       input.Price,
		Currency:    normalizeCurrency(input.Currency),
		IsActive:    true,
		IsFeatured:  input.IsFeatured,
	}
	if err := s.repo.CreatePointPackage(ctx, pkg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create point package")
	}
	return pkg, nil
}

func (s *service) ListPlans(ctx context.Context, includeInactive bool) ([]models.SubscriptionPlan, error) {
	plans, err := s.repo.ListPlans(ctx, !includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list plans")
	}
	return plans, nil
}

func (s *service) GetPlan(ctx context.Context, id uuid.UUID) (*models.SubscriptionPlan, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plan id is required")
	}
	plan, err := s.repo.FindPlanByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load plan")
	}
	return plan, nil
}

func (s *service) CreatePlan(ctx context.Context, input CreatePlanInput) (*models.SubscriptionPlan, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plan name is required")
	}
	if input.JobPostingLimit != nil && *input.JobPostingLimit < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "job posting limit cannot be negative")
	}
	if input.JobInvitationLimit != nil && *input.JobInvitationLimit < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "job invitation limit cannot be negative")
	}
	if input.MonthlyPrice.IsNegative() || input.YearlyPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plan prices cannot be negative")
	}

	plan := &models.SubscriptionPlan{
		ID:                   uuid.New(),
		Name:                 name,
		JobPostingLimit:      input.JobPostingLimit,
		JobInvitationLimit:   input.JobInvitationLimit,
		FeaturedJobLimit:     input.FeaturedJobLimit,
		AutoPromote:          input.AutoPromote,
		PremiumBadge:         input.PremiumBadge,
		AnalyticsAccess:      input.AnalyticsAccess,
		PrioritySupport:      input.PrioritySupport,
		TalentDatabaseAccess: input.TalentDatabaseAccess,
		MonthlyPrice:         input.MonthlyPrice,
		YearlyPrice:          input.YearlyPrice,
		Currency:             normalizeCurrency(input.Currency),
		IsActive:             true,
	}
	if err := s.repo.CreatePlan(ctx, plan); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create plan")
	}
	return plan, nil
}

func normalizeCurrency(currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return "USD"
	}
	return currency
}
