// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/luxone/quotation-api/internal/database"
	"github.com/luxone/quotation-api/internal/domain"
	"github.com/luxone/quotation-api/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a private in-memory SQLite database with the schema
// migrated. It is closed when the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err, "Failed to open in-memory test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// SeedDefaultCostRules inserts the built-in rule table
func SeedDefaultCostRules(t *testing.T, db *gorm.DB) {
	t.Helper()
	for _, r := range pricing.DefaultRules() {
		row := domain.CostRule{
			ID:          string(r.ID),
			Name:        r.Name,
			Category:    r.Category,
			Type:        r.Type,
			Value:       r.Value,
			Description: r.Description,
			IsActive:    r.IsActive,
		}
		require.NoError(t, db.Create(&row).Error)
	}
}

// TestSpec is a two piece Luxone quotation delivered in Dubai. With the
// default rules it prices to a grand total of 1337.62.
func TestSpec() pricing.QuotationSpec {
	dim := func(v int64) decimal.NullDecimal { return decimal.NewNullDecimal(decimal.NewFromInt(v)) }
	return pricing.QuotationSpec{
		ServiceLevel:   pricing.ServiceFabricationDeliveryInstallation,
		MaterialSource: pricing.MaterialLuxone,
		Pieces: map[string]pricing.Piece{
			"A": {Label: "A", LengthMm: dim(1200), WidthMm: dim(600), ThicknessMm: dim(20)},
			"B": {Label: "B", LengthMm: dim(1200), WidthMm: dim(600), ThicknessMm: dim(20)},
		},
		SinkOption: pricing.SinkClientProvided,
		Location:   "Dubai",
	}
}

// CreateTestQuotation stores a priced quotation for the given customer
func CreateTestQuotation(t *testing.T, db *gorm.DB, quoteNumber, customerName, location string, status domain.QuotationStatus) *domain.Quotation {
	t.Helper()

	spec := TestSpec()
	spec.Location = location
	engine := pricing.NewEngine(pricing.PolicyAreaV2, "AED")
	breakdown, err := engine.Calculate(spec, pricing.RuleSet{})
	require.NoError(t, err)

	q := &domain.Quotation{
		QuoteNumber:      quoteNumber,
		Status:           status,
		ServiceLevel:     spec.ServiceLevel,
		MaterialSource:   spec.MaterialSource,
		MaterialType:     "quartz",
		WorktopLayout:    "l-shape",
		SinkOption:       spec.SinkOption,
		Timeline:         "3-6weeks",
		ProjectType:      "residential",
		CustomerName:     customerName,
		CustomerEmail:    "customer@example.com",
		CustomerPhone:    "+971500000000",
		CustomerLocation: location,
		DesignerName:     "Dana Designer",
		DesignerContact:  "+971511111111",
		DesignerEmail:    "designer@example.com",
		PieceVersion:     1,
		Spec:             datatypes.NewJSONType(spec),
		Breakdown:        datatypes.NewJSONType(breakdown),
		PolicyVersion:    breakdown.PolicyVersion,
		GrandTotal:       breakdown.GrandTotal,
		Currency:         "AED",
	}
	require.NoError(t, db.WithContext(context.Background()).Create(q).Error)
	return q
}
