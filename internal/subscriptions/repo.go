package subscriptions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rfigueroa/talentbridge-backend/pkg/db/models"
	"github.com/rfigueroa/talentbridge-backend/pkg/enums"
)

// Repository manages persistence for company subscriptions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, sub *models.CompanySubscription) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.CompanySubscription, error)
	CurrentByCompany(ctx context.Context, companyID uuid.UUID, now time.Time) (*models.CompanySubscription, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.CompanySubscription, error)
	ExpireActive(ctx context.Context, companyID uuid.UUID) error
	Update(ctx context.Context, sub *models.CompanySubscription) error
	ListStaleActive(ctx context.Context, now time.Time, limit int) ([]models.CompanySubscription, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a subscription repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, sub *models.CompanySubscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CompanySubscription, error) {
	var sub models.CompanySubscription
	if err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("id = ?", id).
		First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// CurrentByCompany resolves the single subscription considered current:
// stored status active with an end date that has not passed, latest end date
// winning when more than one row qualifies.
func (r *repository) CurrentByCompany(ctx context.Context, companyID uuid.UUID, now time.Time) (*models.CompanySubscription, error) {
	var sub models.CompanySubscription
	if err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("company_id = ? AND status = ? AND end_date >= ?", companyID, enums.SubscriptionStatusActive, now).
		Order("end_date DESC").
		First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *repository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.CompanySubscription, error) {
	var subs []models.CompanySubscription
	if err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("company_id = ?", companyID).
		Order("start_date DESC").
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *repository) ExpireActive(ctx context.Context, companyID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.CompanySubscription{}).
		Where("company_id = ? AND status = ?", companyID, enums.SubscriptionStatusActive).
		Update("status", enums.SubscriptionStatusExpired).Error
}

func (r *repository) Update(ctx context.Context, sub *models.CompanySubscription) error {
	if sub == nil {
		return gorm.ErrInvalidData
	}
	return r.db.WithContext(ctx).Omit("Plan").Save(sub).Error
}

// ListStaleActive returns rows whose stored status lags the computed one:
// still marked active though their end date has passed.
func (r *repository) ListStaleActive(ctx context.Context, now time.Time, limit int) ([]models.CompanySubscription, error) {
	var subs []models.CompanySubscription
	if err := r.db.WithContext(ctx).
		Where("status = ? AND end_date < ?", enums.SubscriptionStatusActive, now).
		Order("end_date ASC").
		Limit(limit).
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}
