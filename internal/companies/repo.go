package companies

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rfigueroa/talentbridge-backend/pkg/db/models"
	"github.com/rfigueroa/talentbridge-backend/pkg/enums"
)

// Repository manages persistence for company rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, company *models.Company) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Company, error)
	UpdateBalance(ctx context.Context, id uuid.UUID, balance int, at time.Time) error
	IncrementJobPostCounters(ctx context.Context, id uuid.UUID) error
	DecrementActiveJobPosts(ctx context.Context, id uuid.UUID) error
	UpdateVerificationStatus(ctx context.Context, id uuid.UUID, status enums.VerificationStatus) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a company repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, company *models.Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// FindByIDForUpdate loads the company holding an exclusive row lock so a
// balance check-then-decrement cannot race a concurrent debit. The sqlite
// dialect used in tests has no FOR UPDATE; its single writer makes the
// clause unnecessary there.
func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	q := r.db.WithContext(ctx)
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var company models.Company
	if err := q.Where("id = ?", id).First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *repository) UpdateBalance(ctx context.Context, id uuid.UUID, balance int, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Company{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"point_balance":      balance,
			"balance_updated_at": at,
		}).Error
}

func (r *repository) IncrementJobPostCounters(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Company{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"total_job_posts":  gorm.Expr("total_job_posts + 1"),
			"active_job_posts": gorm.Expr("active_job_posts + 1"),
		}).Error
}

func (r *repository) DecrementActiveJobPosts(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Company{}).
		Where("id = ?", id).
		Update("active_job_posts", gorm.Expr("CASE WHEN active_job_posts > 0 THEN active_job_posts - 1 ELSE 0 END")).Error
}

func (r *repository) UpdateVerificationStatus(ctx context.Context, id uuid.UUID, status enums.VerificationStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Company{}).
		Where("id = ?", id).
		Update("verification_status", status).Error
}
