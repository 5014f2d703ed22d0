package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubscriptionPlan is a catalog tier whose quotas can supersede point-based
// job posting limits. A nil JobPostingLimit means unlimited postings.
type SubscriptionPlan struct {
	ID                   uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name                 string          `gorm:"column:name;not null"`
	JobPostingLimit      *int            `gorm:"column:job_posting_limit"`
	JobInvitationLimit   *int            `gorm:"column:job_invitation_limit"`
	FeaturedJobLimit     int             `gorm:"column:featured_job_limit;not null;default:0"`
	AutoPromote          bool            `gorm:"column:auto_promote;not null;default:false"`
	PremiumBadge         bool            `gorm:"column:premium_badge;not null;default:false"`
	AnalyticsAccess      bool            `gorm:"column:analytics_access;not null;default:false"`
	PrioritySupport      bool            `gorm:"column:priority_support;not null;default:false"`
	TalentDatabaseAccess bool            `gorm:"column:talent_database_access;not null;default:false"`
	MonthlyPrice         decimal.Decimal `gorm:"column:monthly_price;type:numeric(12,2);not null"`
	YearlyPrice          decimal.Decimal `gorm:"column:yearly_price;type:numeric(12,2);not null"`
	Currency             string          `gorm:"column:currency;not null;default:'USD'"`
	IsActive             bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt            time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// UnlimitedPostings reports whether the plan removes the posting quota.
func (p *SubscriptionPlan) UnlimitedPostings() bool {
	return p.JobPostingLimit == nil
}
