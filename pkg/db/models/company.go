package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rfigueroa/talentbridge-backend/pkg/enums"
)

// Company is the employer account that owns a point wallet, job listings and
// subscriptions. PointBalance is denormalized from the ledger and is only
// mutated by the wallet inside a locked transaction.
type Company struct {
	ID                 uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	Name               string                   `gorm:"column:name;not null"`
	VerificationStatus enums.VerificationStatus `gorm:"column:verification_status;type:verification_status_enum;not null;default:'unverified'"`
	PointBalance       int                      `gorm:"column:point_balance;not null;default:0"`
	BalanceUpdatedAt   *time.Time               `gorm:"column:balance_updated_at"`
	TotalJobPosts      int                      `gorm:"column:total_job_posts;not null;default:0"`
	ActiveJobPosts     int                      `gorm:"column:active_job_posts;not null;default:0"`
	MaxActiveJobs      int                      `gorm:"column:max_active_jobs;not null;default:0"`
	CreatedAt          time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

// IsVerified reports whether the company passed review.
func (c *Company) IsVerified() bool {
	return c.VerificationStatus == enums.VerificationStatusVerified
}
