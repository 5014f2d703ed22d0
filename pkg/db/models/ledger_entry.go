package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rfigueroa/talentbridge-backend/pkg/enums"
)

// LedgerEntry records an immutable signed point movement for a company.
// Points is negative for debits, positive for credits. Rows are never
// updated or deleted; expired promotional credits are offset with new
// usage entries instead.
type LedgerEntry struct {
	ID             uuid.UUID                 `gorm:"column:id;type:uuid;primaryKey"`
	CompanyID      uuid.UUID                 `gorm:"column:company_id;type:uuid;not null;index"`
	Kind           enums.LedgerEntryKind     `gorm:"column:kind;type:ledger_entry_kind_enum;not null"`
	Points         int                       `gorm:"column:points;not null"`
	MonetaryAmount *decimal.Decimal          `gorm:"column:monetary_amount;type:numeric(12,2)"`
	Description    string                    `gorm:"column:description;not null"`
	ReferenceKind  enums.LedgerReferenceKind `gorm:"column:reference_kind;type:ledger_reference_kind_enum;not null;default:'none'"`
	ReferenceID    *uuid.UUID                `gorm:"column:reference_id;type:uuid"`
	Status         enums.LedgerEntryStatus   `gorm:"column:status;type:ledger_entry_status_enum;not null;default:'completed'"`
	Metadata       json.RawMessage           `gorm:"column:metadata;type:jsonb"`
	ExpiresAt      *time.Time                `gorm:"column:expires_at"`
	CreatedAt      time.Time                 `gorm:"column:created_at;autoCreateTime"`
}
