package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/luxone/quotation-api/internal/domain"
	"github.com/luxone/quotation-api/internal/mapper"
	"github.com/luxone/quotation-api/internal/pricing"
	"github.com/luxone/quotation-api/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	dashboardMonths = 12
	recentLimit     = 10

	// MaxAnalyticsPeriod is the longest analytics window in days
	MaxAnalyticsPeriod = 365
	topDesignersLimit  = 10
)

// DashboardService aggregates quotation statistics for the admin panel
type DashboardService struct {
	repo     *repository.QuotationRepository
	currency string
	logger   *zap.Logger
	now      func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(repo *repository.QuotationRepository, currency string, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		repo:     repo,
		currency: currency,
		logger:   logger,
		now:      time.Now,
	}
}

// GetDashboard returns totals, breakdowns, monthly counts and recent quotations
func (s *DashboardService) GetDashboard(ctx context.Context) (*domain.DashboardDTO, error) {
	count, total, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get quotation totals: %w", err)
	}

	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count quotations by status: %w", err)
	}

	byLocation, err := s.repo.CountByLocation(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count quotations by location: %w", err)
	}

	byMaterial, err := s.repo.CountByMaterial(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count quotations by material: %w", err)
	}

	monthly, err := s.monthly(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.repo.Recent(ctx, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent quotations: %w", err)
	}

	average := decimal.Zero
	if count > 0 {
		average = total.Div(decimal.NewFromInt(count))
	}

	dashboard := &domain.DashboardDTO{
		TotalQuotations:  count,
		TotalValue:       total.Round(2).InexactFloat64(),
		AverageValue:     average.Round(2).InexactFloat64(),
		ByStatus:         make(map[string]int64, len(domain.AllQuotationStatuses)),
		ByLocation:       make([]domain.CountDTO, 0, len(byLocation)),
		ByMaterial:       materialCounts(byMaterial),
		Monthly:          monthly,
		RecentQuotations: make([]domain.QuotationSummaryDTO, 0, len(recent)),
		Currency:         s.currency,
	}

	for _, status := range domain.AllQuotationStatuses {
		dashboard.ByStatus[string(status)] = 0
	}
	for _, g := range byStatus {
		dashboard.ByStatus[g.Label] = g.Count
	}
	for _, g := range byLocation {
		dashboard.ByLocation = append(dashboard.ByLocation, domain.CountDTO{
			Label: g.Label,
			Count: g.Count,
			Value: g.Total.Round(2).InexactFloat64(),
		})
	}
	for i := range recent {
		dashboard.RecentQuotations = append(dashboard.RecentQuotations, mapper.ToQuotationSummaryDTO(&recent[i]))
	}

	return dashboard, nil
}

// monthly buckets the last twelve months by creation month, oldest first.
// Months without quotations are included with zero counts.
func (s *DashboardService) monthly(ctx context.Context) ([]domain.MonthlyCountDTO, error) {
	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(dashboardMonths - 1), 0)

	quotations, err := s.repo.ListCreatedSince(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent quotations: %w", err)
	}

	months := make([]domain.MonthlyCountDTO, dashboardMonths)
	totals := make([]decimal.Decimal, dashboardMonths)
	index := make(map[string]int, dashboardMonths)
	for i := range months {
		key := start.AddDate(0, i, 0).Format("2006-01")
		months[i].Month = key
		totals[i] = decimal.Zero
		index[key] = i
	}

	for _, q := range quotations {
		i, ok := index[q.CreatedAt.UTC().Format("2006-01")]
		if !ok {
			continue
		}
		months[i].Count++
		totals[i] = totals[i].Add(q.GrandTotal)
	}
	for i := range months {
		months[i].Value = totals[i].Round(2).InexactFloat64()
	}

	return months, nil
}

// Analytics summarises the last periodDays days, today included: daily
// counts, outcome counts, value spread per service level and the designers
// referring the most quotations.
func (s *DashboardService) Analytics(ctx context.Context, periodDays int) (*domain.AnalyticsDTO, error) {
	if periodDays < 1 || periodDays > MaxAnalyticsPeriod {
		return nil, fmt.Errorf("%w: period must be between 1 and %d days", ErrInvalidInput, MaxAnalyticsPeriod)
	}

	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(periodDays - 1))

	quotations, err := s.repo.ListForAnalytics(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotations for analytics: %w", err)
	}

	return &domain.AnalyticsDTO{
		PeriodDays:       periodDays,
		StartDate:        start.Format("2006-01-02"),
		QuoteTrends:      dailyTrends(start, periodDays, quotations),
		ConversionStats:  conversionStats(quotations),
		ServiceAnalytics: serviceLevelStats(quotations),
		TopDesigners:     topDesigners(quotations, topDesignersLimit),
		Currency:         s.currency,
		GeneratedAt:      now.Format(time.RFC3339),
	}, nil
}

// dailyTrends buckets quotations by creation day, oldest first. Days without
// quotations are included with zero counts.
func dailyTrends(start time.Time, days int, quotations []domain.Quotation) []domain.DailyTrendDTO {
	trends := make([]domain.DailyTrendDTO, days)
	totals := make([]decimal.Decimal, days)
	index := make(map[string]int, days)
	for i := range trends {
		key := start.AddDate(0, 0, i).Format("2006-01-02")
		trends[i].Date = key
		totals[i] = decimal.Zero
		index[key] = i
	}

	for _, q := range quotations {
		i, ok := index[q.CreatedAt.UTC().Format("2006-01-02")]
		if !ok {
			continue
		}
		trends[i].Quotes++
		totals[i] = totals[i].Add(q.GrandTotal)
	}
	for i := range trends {
		if trends[i].Quotes > 0 {
			trends[i].AverageAmount = totals[i].Div(decimal.NewFromInt(trends[i].Quotes)).Round(2).InexactFloat64()
		}
	}
	return trends
}

func conversionStats(quotations []domain.Quotation) domain.ConversionStatsDTO {
	stats := domain.ConversionStatsDTO{TotalQuotes: int64(len(quotations))}
	for _, q := range quotations {
		switch q.Status {
		case domain.QuotationStatusApproved:
			stats.ApprovedQuotes++
		case domain.QuotationStatusRejected:
			stats.RejectedQuotes++
		default:
			stats.PendingQuotes++
		}
	}
	if stats.TotalQuotes > 0 {
		stats.ConversionRate = decimal.NewFromInt(stats.ApprovedQuotes * 100).
			Div(decimal.NewFromInt(stats.TotalQuotes)).
			Round(2).InexactFloat64()
	}
	return stats
}

// serviceLevelStats returns one entry per service level, busiest first
func serviceLevelStats(quotations []domain.Quotation) []domain.ServiceLevelStatsDTO {
	type bucket struct {
		count    int64
		total    decimal.Decimal
		min, max decimal.Decimal
	}
	buckets := map[string]*bucket{}
	for _, q := range quotations {
		level := string(q.ServiceLevel)
		b, ok := buckets[level]
		if !ok {
			buckets[level] = &bucket{count: 1, total: q.GrandTotal, min: q.GrandTotal, max: q.GrandTotal}
			continue
		}
		b.count++
		b.total = b.total.Add(q.GrandTotal)
		b.min = decimal.Min(b.min, q.GrandTotal)
		b.max = decimal.Max(b.max, q.GrandTotal)
	}

	out := make([]domain.ServiceLevelStatsDTO, 0, len(buckets))
	for level, b := range buckets {
		out = append(out, domain.ServiceLevelStatsDTO{
			ServiceLevel:  level,
			Count:         b.count,
			AverageAmount: b.total.Div(decimal.NewFromInt(b.count)).Round(2).InexactFloat64(),
			MinAmount:     b.min.Round(2).InexactFloat64(),
			MaxAmount:     b.max.Round(2).InexactFloat64(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ServiceLevel < out[j].ServiceLevel
	})
	return out
}

// topDesigners ranks designers by referred quotations. Quotations without a
// designer name are skipped.
func topDesigners(quotations []domain.Quotation, limit int) []domain.DesignerStatsDTO {
	type key struct{ name, email string }
	type bucket struct {
		count int64
		total decimal.Decimal
	}
	buckets := map[key]*bucket{}
	for _, q := range quotations {
		name := strings.TrimSpace(q.DesignerName)
		if name == "" {
			continue
		}
		k := key{name: name, email: strings.ToLower(strings.TrimSpace(q.DesignerEmail))}
		b, ok := buckets[k]
		if !ok {
			b = &bucket{total: decimal.Zero}
			buckets[k] = b
		}
		b.count++
		b.total = b.total.Add(q.GrandTotal)
	}

	out := make([]domain.DesignerStatsDTO, 0, len(buckets))
	for k, b := range buckets {
		out = append(out, domain.DesignerStatsDTO{
			DesignerName:      k.name,
			DesignerEmail:     k.email,
			QuoteCount:        b.count,
			AverageQuoteValue: b.total.Div(decimal.NewFromInt(b.count)).Round(2).InexactFloat64(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].QuoteCount != out[j].QuoteCount {
			return out[i].QuoteCount > out[j].QuoteCount
		}
		if out[i].DesignerName != out[j].DesignerName {
			return out[i].DesignerName < out[j].DesignerName
		}
		return out[i].DesignerEmail < out[j].DesignerEmail
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// materialCounts merges material groups under their display category
func materialCounts(groups []repository.MaterialTotal) []domain.CountDTO {
	type bucket struct {
		count int64
		total decimal.Decimal
	}
	buckets := map[string]*bucket{}
	for _, g := range groups {
		label := MaterialCategory(pricing.MaterialSource(g.MaterialSource), g.MaterialType)
		b, ok := buckets[label]
		if !ok {
			b = &bucket{total: decimal.Zero}
			buckets[label] = b
		}
		b.count += g.Count
		b.total = b.total.Add(g.Total)
	}

	out := make([]domain.CountDTO, 0, len(buckets))
	for label, b := range buckets {
		out = append(out, domain.CountDTO{
			Label: label,
			Count: b.count,
			Value: b.total.Round(2).InexactFloat64(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// MaterialCategory is the display category of a material choice
func MaterialCategory(source pricing.MaterialSource, materialType string) string {
	switch source {
	case pricing.MaterialLuxone:
		if materialType == "" {
			return "Luxone"
		}
		return "Luxone " + materialType
	case pricing.MaterialYourself:
		return "Customer Supplied"
	case pricing.MaterialLuxoneOthers:
		return "Luxone Others"
	}
	return "Other"
}
