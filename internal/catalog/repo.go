package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rfigueroa/talentbridge-backend/pkg/db/models"
)

// Repository manages persistence for the pricing catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreatePointPackage(ctx context.Context, pkg *models.PointPackage) error
	FindPointPackageByID(ctx context.Context, id uuid.UUID) (*models.PointPackage, error)
	ListPointPackages(ctx context.Context, activeOnly bool) ([]models.PointPackage, error)
	CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) error
	FindPlanByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionPlan, error)
	ListPlans(ctx context.Context, activeOnly bool) ([]models.SubscriptionPlan, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a catalog repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreatePointPackage(ctx context.Context, pkg *models.PointPackage) error {
	return r.db.WithContext(ctx).Create(pkg).Error
}

func (r *repository) FindPointPackageByID(ctx context.Context, id uuid.UUID) (*models.PointPackage, error) {
	var pkg models.PointPackage
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&pkg).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *repository) ListPointPackages(ctx context.Context, activeOnly bool) ([]models.PointPackage, error) {
	q := r.db.WithContext(ctx).Order("is_featured DESC, price ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var pkgs []models.PointPackage
	if err := q.Find(&pkgs).Error; err != nil {
		return nil, err
	}
	return pkgs, nil
}

func (r *repository) CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *repository) FindPlanByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *repository) ListPlans(ctx context.Context, activeOnly bool) ([]models.SubscriptionPlan, error) {
	q := r.db.WithContext(ctx).Order("monthly_price ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var plans []models.SubscriptionPlan
	if err := q.Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}
