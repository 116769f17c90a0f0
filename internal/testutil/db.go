// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/hugorgg/command-ai-nexus/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database that lives for the test
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.TenantModels()...))
	return db
}

// NewTenant inserts a tenant with the given tier
func NewTenant(t *testing.T, db *gorm.DB, name, tier string) *model.Tenant {
	t.Helper()

	tenant := &model.Tenant{Name: name, Email: name + "@example.com", Tier: tier}
	require.NoError(t, db.Create(tenant).Error)
	return tenant
}

// Money parses a decimal literal
func Money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// MoneyPtr parses a decimal literal and returns its address
func MoneyPtr(s string) *decimal.Decimal {
	d := Money(s)
	return &d
}

// Day returns midnight UTC of the given date
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf returns the given day as a date column value
func DateOf(year int, month time.Month, day int) datatypes.Date {
	return datatypes.Date(Day(year, month, day))
}
