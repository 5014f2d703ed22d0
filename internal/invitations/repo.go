package invitations

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rfigueroa/talentbridge-backend/pkg/db/models"
	"github.com/rfigueroa/talentbridge-backend/pkg/enums"
)

// Repository manages persistence for job invitations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, invitation *models.JobInvitation) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.JobInvitation, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.JobInvitation, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.JobInvitation, error)
	StampPointsDeducted(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.InvitationStatus) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an invitation repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, invitation *models.JobInvitation) error {
	return r.db.WithContext(ctx).Create(invitation).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.JobInvitation, error) {
	var invitation models.JobInvitation
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// FindByIDForUpdate locks the invitation row so a retried charge cannot race
// the first one past the stamp check. The sqlite dialect used in tests has
// no FOR UPDATE; its single writer makes the clause unnecessary there.
func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.JobInvitation, error) {
	q := r.db.WithContext(ctx)
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var invitation models.JobInvitation
	if err := q.Where("id = ?", id).First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *repository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.JobInvitation, error) {
	var invitations []models.JobInvitation
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

func (r *repository) StampPointsDeducted(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.JobInvitation{}).
		Where("id = ? AND points_deducted_at IS NULL", id).
		Update("points_deducted_at", at).Error
}

func (r *repository) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.JobInvitation{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":  enums.InvitationStatusSent,
			"sent_at": at,
		}).Error
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.InvitationStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.JobInvitation{}).
		Where("id = ?", id).
		Update("status", status).Error
}
