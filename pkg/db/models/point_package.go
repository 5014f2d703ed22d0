package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PointPackage is a catalog row describing a purchasable bundle of points.
// Read-only from the engine's perspective; checkout confirms payment upstream
// and the wallet credits Points+BonusPoints.
type PointPackage struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	Points      int             `gorm:"column:points;not null"`
	BonusPoints int             `gorm:"column:bonus_points;not null;default:0"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Currency    string          `gorm:"column:currency;not null;default:'USD'"`
	IsActive    bool            `gorm:"column:is_active;not null;default:true"`
	IsFeatured  bool            `gorm:"column:is_featured;not null;default:false"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TotalPoints is the amount credited when this package is purchased.
func (p *PointPackage) TotalPoints() int {
	return p.Points + p.BonusPoints
}
