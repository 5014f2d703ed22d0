package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rfigueroa/talentbridge-backend/pkg/enums"
)

// JobInvitation is a company's direct outreach to a candidate. The source
// platform had no idempotency marker here and could double-charge retries;
// PointsDeductedAt closes that gap the same way job listings do.
type JobInvitation struct {
	ID               uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	CompanyID        uuid.UUID              `gorm:"column:company_id;type:uuid;not null;index"`
	JobListingID     *uuid.UUID             `gorm:"column:job_listing_id;type:uuid"`
	CandidateEmail   string                 `gorm:"column:candidate_email;not null"`
	Message          string                 `gorm:"column:message"`
	Status           enums.InvitationStatus `gorm:"column:status;type:invitation_status_enum;not null;default:'pending'"`
	PointsDeductedAt *time.Time             `gorm:"column:points_deducted_at"`
	SentAt           *time.Time             `gorm:"column:sent_at"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
