package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/luxone/quotation-api/internal/domain"
	"github.com/luxone/quotation-api/internal/pricing"
	"github.com/luxone/quotation-api/internal/service"
	"github.com/luxone/quotation-api/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_GetDashboard(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	first, err := svc.quotations.Create(ctx, createRequest())
	require.NoError(t, err)

	req := createRequest()
	req.CustomerLocation = "Abu Dhabi"
	_, err = svc.quotations.Create(ctx, req)
	require.NoError(t, err)

	_, err = svc.quotations.UpdateStatus(ctx, first.ID, domain.QuotationStatusApproved)
	require.NoError(t, err)

	dash, err := svc.dashboard.GetDashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), dash.TotalQuotations)
	assert.Equal(t, "AED", dash.Currency)
	assert.Equal(t, int64(1), dash.ByStatus["approved"])
	assert.Equal(t, int64(1), dash.ByStatus["pending"])
	assert.Equal(t, int64(0), dash.ByStatus["rejected"])
	assert.Len(t, dash.ByLocation, 2)
	require.Len(t, dash.ByMaterial, 1)
	assert.Equal(t, "Luxone quartz", dash.ByMaterial[0].Label)
	assert.Equal(t, int64(2), dash.ByMaterial[0].Count)
	assert.Len(t, dash.RecentQuotations, 2)

	require.Len(t, dash.Monthly, 12)
	current := dash.Monthly[len(dash.Monthly)-1]
	assert.Equal(t, time.Now().UTC().Format("2006-01"), current.Month)
	assert.Equal(t, int64(2), current.Count)
	assert.Equal(t, dash.TotalValue, current.Value)
}

func TestDashboardService_Empty(t *testing.T) {
	svc := newTestServices(t)

	dash, err := svc.dashboard.GetDashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), dash.TotalQuotations)
	assert.Equal(t, 0.0, dash.AverageValue)
	assert.Len(t, dash.ByStatus, len(domain.AllQuotationStatuses))
	assert.NotNil(t, dash.RecentQuotations)
}

func TestDashboardService_Analytics(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	seed := []struct {
		status   domain.QuotationStatus
		level    pricing.ServiceLevel
		total    string
		designer string
		email    string
		daysAgo  int
	}{
		{domain.QuotationStatusApproved, pricing.ServiceFabrication, "1000", "Dana Designer", "dana@example.com", 0},
		{domain.QuotationStatusRejected, pricing.ServiceFabrication, "3000", "Dana Designer", "DANA@example.com", 0},
		{domain.QuotationStatusQuoted, pricing.ServiceFabricationDelivery, "500", "Omar Studio", "omar@example.com", 2},
		{domain.QuotationStatusPending, pricing.ServiceFabrication, "2000", "", "", 2},
		{domain.QuotationStatusApproved, pricing.ServiceFabricationDelivery, "9999", "Old Designer", "old@example.com", 40},
	}
	now := time.Now().UTC()
	for i, row := range seed {
		q := testutil.CreateTestQuotation(t, svc.db, fmt.Sprintf("LUX-2026-%04d", i+1), "Customer", "Dubai", row.status)
		require.NoError(t, svc.db.Model(q).Updates(map[string]interface{}{
			"service_level":  row.level,
			"grand_total":    decimal.RequireFromString(row.total),
			"designer_name":  row.designer,
			"designer_email": row.email,
			"created_at":     now.AddDate(0, 0, -row.daysAgo),
		}).Error)
	}

	analytics, err := svc.dashboard.Analytics(ctx, 30)
	require.NoError(t, err)

	assert.Equal(t, 30, analytics.PeriodDays)
	assert.Equal(t, now.AddDate(0, 0, -29).Format("2006-01-02"), analytics.StartDate)
	assert.Equal(t, "AED", analytics.Currency)
	assert.NotEmpty(t, analytics.GeneratedAt)

	require.Len(t, analytics.QuoteTrends, 30)
	today := analytics.QuoteTrends[29]
	assert.Equal(t, now.Format("2006-01-02"), today.Date)
	assert.Equal(t, int64(2), today.Quotes)
	assert.Equal(t, 2000.0, today.AverageAmount)
	twoDaysAgo := analytics.QuoteTrends[27]
	assert.Equal(t, int64(2), twoDaysAgo.Quotes)
	assert.Equal(t, 1250.0, twoDaysAgo.AverageAmount)
	assert.Equal(t, int64(0), analytics.QuoteTrends[0].Quotes)

	assert.Equal(t, domain.ConversionStatsDTO{
		TotalQuotes:    4,
		ApprovedQuotes: 1,
		RejectedQuotes: 1,
		PendingQuotes:  2,
		ConversionRate: 25,
	}, analytics.ConversionStats)

	assert.Equal(t, []domain.ServiceLevelStatsDTO{
		{ServiceLevel: "fabrication", Count: 3, AverageAmount: 2000, MinAmount: 1000, MaxAmount: 3000},
		{ServiceLevel: "fabrication-delivery", Count: 1, AverageAmount: 500, MinAmount: 500, MaxAmount: 500},
	}, analytics.ServiceAnalytics)

	assert.Equal(t, []domain.DesignerStatsDTO{
		{DesignerName: "Dana Designer", DesignerEmail: "dana@example.com", QuoteCount: 2, AverageQuoteValue: 2000},
		{DesignerName: "Omar Studio", DesignerEmail: "omar@example.com", QuoteCount: 1, AverageQuoteValue: 500},
	}, analytics.TopDesigners)
}

func TestDashboardService_AnalyticsPeriod(t *testing.T) {
	svc := newTestServices(t)

	tests := []struct {
		name    string
		period  int
		wantErr bool
	}{
		{name: "one day", period: 1},
		{name: "a year", period: service.MaxAnalyticsPeriod},
		{name: "zero", period: 0, wantErr: true},
		{name: "negative", period: -7, wantErr: true},
		{name: "over a year", period: service.MaxAnalyticsPeriod + 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analytics, err := svc.dashboard.Analytics(context.Background(), tt.period)
			if tt.wantErr {
				assert.ErrorIs(t, err, service.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Len(t, analytics.QuoteTrends, tt.period)
			assert.Equal(t, int64(0), analytics.ConversionStats.TotalQuotes)
			assert.Equal(t, 0.0, analytics.ConversionStats.ConversionRate)
			assert.Empty(t, analytics.ServiceAnalytics)
			assert.Empty(t, analytics.TopDesigners)
		})
	}
}

func TestMaterialCategory(t *testing.T) {
	tests := []struct {
		source       pricing.MaterialSource
		materialType string
		want         string
	}{
		{source: pricing.MaterialLuxone, materialType: "quartz", want: "Luxone quartz"},
		{source: pricing.MaterialLuxone, want: "Luxone"},
		{source: pricing.MaterialYourself, materialType: "granite", want: "Customer Supplied"},
		{source: pricing.MaterialLuxoneOthers, want: "Luxone Others"},
		{source: "", want: "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, service.MaterialCategory(tt.source, tt.materialType))
		})
	}
}
