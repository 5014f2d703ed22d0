package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rfigueroa/talentbridge-backend/pkg/enums"
)

// JobListing carries the idempotency stamp for its one-time posting charge:
// once PointsDeductedAt is set the listing can never be debited again.
type JobListing struct {
	ID               uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	CompanyID        uuid.UUID              `gorm:"column:company_id;type:uuid;not null;index"`
	Title            string                 `gorm:"column:title;not null"`
	Description      string                 `gorm:"column:description"`
	Status           enums.JobListingStatus `gorm:"column:status;type:job_listing_status_enum;not null;default:'draft'"`
	IsFeatured       bool                   `gorm:"column:is_featured;not null;default:false"`
	PointsDeductedAt *time.Time             `gorm:"column:points_deducted_at"`
	PublishedAt      *time.Time             `gorm:"column:published_at"`
	ClosedAt         *time.Time             `gorm:"column:closed_at"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
