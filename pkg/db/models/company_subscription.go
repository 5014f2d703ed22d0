package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rfigueroa/talentbridge-backend/pkg/enums"
)

// CompanySubscription is a time-boxed assignment of a plan to a company.
// A company keeps its full subscription history; "current" is a computed
// notion (active status and an end date that has not passed), not a stored
// one. The stored Status field can lag the dates until a sweep corrects it.
type CompanySubscription struct {
	ID                 uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	CompanyID          uuid.UUID                `gorm:"column:company_id;type:uuid;not null;index"`
	SubscriptionPlanID uuid.UUID                `gorm:"column:subscription_plan_id;type:uuid;not null"`
	Plan               *SubscriptionPlan        `gorm:"foreignKey:SubscriptionPlanID"`
	Status             enums.SubscriptionStatus `gorm:"column:status;type:subscription_status_enum;not null;default:'active'"`
	StartDate          time.Time                `gorm:"column:start_date;not null"`
	EndDate            time.Time                `gorm:"column:end_date;not null"`
	BillingCycle       enums.BillingCycle       `gorm:"column:billing_cycle;type:billing_cycle_enum;not null"`
	AutoRenew          bool                     `gorm:"column:auto_renew;not null;default:false"`
	CancelledAt        *time.Time               `gorm:"column:cancelled_at"`
	CancellationReason *string                  `gorm:"column:cancellation_reason"`
	CreatedAt          time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
