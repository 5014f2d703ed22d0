package models

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// The sqlite-backed fixtures across the service packages all build their
// schema from these structs, so the gorm tags must render into DDL that
// sqlite accepts. IDs are assigned by the application; column defaults live
// in the SQL migrations only.
func TestAutoMigrateAllModelsOnSqlite(t *testing.T) {
	t.Parallel()

	dsn := "file:models_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	if err := db.AutoMigrate(
		&Company{},
		&LedgerEntry{},
		&PointPackage{},
		&SubscriptionPlan{},
		&CompanySubscription{},
		&JobListing{},
		&JobInvitation{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	company := &Company{ID: uuid.New(), Name: "Acme", PointBalance: 3}
	if err := db.Create(company).Error; err != nil {
		t.Fatalf("insert company: %v", err)
	}

	var loaded Company
	if err := db.First(&loaded, "id = ?", company.ID).Error; err != nil {
		t.Fatalf("load company: %v", err)
	}
	if loaded.PointBalance != 3 {
		t.Fatalf("unexpected balance: %d", loaded.PointBalance)
	}
}
