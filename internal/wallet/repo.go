package wallet

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rfigueroa/talentbridge-backend/pkg/db/models"
	"github.com/rfigueroa/talentbridge-backend/pkg/enums"
	"github.com/rfigueroa/talentbridge-backend/pkg/pagination"
)

// Repository manages persistence for ledger entries. Entries are append-only;
// no update or delete methods exist on purpose.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateEntry(ctx context.Context, entry *models.LedgerEntry) error
	ListByCompany(ctx context.Context, companyID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.LedgerEntry, error)
	SumCompletedPoints(ctx context.Context, companyID uuid.UUID) (int, error)
	ListExpiredCredits(ctx context.Context, now time.Time, limit int) ([]models.LedgerEntry, error)
	HasExpiryOffset(ctx context.Context, entryID uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateEntry(ctx context.Context, entry *models.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListByCompany(ctx context.Context, companyID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.LedgerEntry, error) {
	q := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var entries []models.LedgerEntry
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) SumCompletedPoints(ctx context.Context, companyID uuid.UUID) (int, error) {
	var total *int
	if err := r.db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Where("company_id = ? AND status = ?", companyID, enums.LedgerEntryStatusCompleted).
		Select("SUM(points)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *repository) ListExpiredCredits(ctx context.Context, now time.Time, limit int) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	if err := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Where("status = ? AND points > 0", enums.LedgerEntryStatusCompleted).
		Order("expires_at ASC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) HasExpiryOffset(ctx context.Context, entryID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Where("reference_kind = ? AND reference_id = ?", enums.LedgerReferenceKindLedgerEntry, entryID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
