package service_test

import (
	"context"
	"testing"

	"github.com/luxone/quotation-api/internal/domain"
	"github.com/luxone/quotation-api/internal/pricing"
	"github.com/luxone/quotation-api/internal/repository"
	"github.com/luxone/quotation-api/internal/service"
	"github.com/luxone/quotation-api/internal/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testServices struct {
	db         *gorm.DB
	pricing    *service.PricingService
	rules      *service.CostRuleService
	numbers    *service.NumberSequenceService
	quotations *service.QuotationService
	settings   *service.SettingsService
	dashboard  *service.DashboardService
	formFields *service.FormFieldService
}

// newTestServices wires the services over a fresh database seeded with the
// default cost rules
func newTestServices(t *testing.T) *testServices {
	t.Helper()

	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	ctx := context.Background()

	ruleRepo := repository.NewCostRuleRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)

	store := pricing.NewCostRuleStore()
	engine := pricing.NewEngine(pricing.PolicyAreaV2, "AED")
	pricingService := service.NewPricingService(store, engine, ruleRepo, logger)
	ruleService := service.NewCostRuleService(ruleRepo, store, logger)

	_, err := ruleService.SeedDefaults(ctx)
	require.NoError(t, err)
	require.NoError(t, pricingService.Reload(ctx))

	numbers := service.NewNumberSequenceService(repository.NewNumberSequenceRepository(db), logger)

	return &testServices{
		db:         db,
		pricing:    pricingService,
		rules:      ruleService,
		numbers:    numbers,
		quotations: service.NewQuotationService(quotationRepo, numbers, pricingService, "AED", logger),
		settings:   service.NewSettingsService(repository.NewSettingsRepository(db), logger),
		dashboard:  service.NewDashboardService(quotationRepo, "AED", logger),
		formFields: service.NewFormFieldService(repository.NewFormFieldRepository(db), logger),
	}
}

func piecesInput() map[string]domain.PieceInput {
	return map[string]domain.PieceInput{
		"A": {Length: "1200", Width: "600", Thickness: "20"},
		"B": {Length: 1200.0, Width: 600.0, Thickness: 20.0},
	}
}

// createRequest is the two piece Dubai submission pricing to 1337.62
func createRequest() *domain.CreateQuotationRequest {
	return &domain.CreateQuotationRequest{
		ServiceLevel:     "fabrication-delivery-installation",
		MaterialSource:   "luxone",
		MaterialType:     "quartz",
		MaterialColor:    "Calacatta",
		WorktopLayout:    "l-shape",
		Pieces:           piecesInput(),
		SinkOption:       "client-provided",
		Features:         domain.FeaturesInput{CustomEdge: "YES", SinkCutOut: "1", TapHoles: 2.0},
		Timeline:         "3-6weeks",
		ProjectType:      "residential",
		CustomerName:     "  Amira Haddad ",
		CustomerEmail:    "amira@example.com",
		CustomerPhone:    "+971500000001",
		CustomerLocation: "Dubai",
		DesignerName:     "Dana Designer",
		DesignerContact:  "+971511111111",
		DesignerEmail:    "dana@example.com",
	}
}
