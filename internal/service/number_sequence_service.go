package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/luxone/quotation-api/internal/repository"
	"go.uber.org/zap"
)

// QuoteNumberPrefix starts every quote number
const QuoteNumberPrefix = "LUX"

var quoteNumberPattern = regexp.MustCompile(`^LUX-\d{4}-\d{4,}$`)

// NumberSequenceService issues quote numbers.
//
// Format: LUX-{YEAR}-{SEQUENCE}
// Example: LUX-2026-0001
type NumberSequenceService struct {
	repo   *repository.NumberSequenceRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewNumberSequenceService creates a new NumberSequenceService
func NewNumberSequenceService(
	repo *repository.NumberSequenceRepository,
	logger *zap.Logger,
) *NumberSequenceService {
	return &NumberSequenceService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// GenerateQuoteNumber returns the next quote number for the current year.
// The sequence restarts at 1 every year.
func (s *NumberSequenceService) GenerateQuoteNumber(ctx context.Context) (string, error) {
	year := s.now().UTC().Year()

	nextSeq, err := s.repo.GetNextNumber(ctx, QuoteNumberPrefix, year)
	if err != nil {
		s.logger.Error("failed to get next sequence number",
			zap.Int("year", year),
			zap.Error(err))
		return "", fmt.Errorf("failed to generate quote number: %w", err)
	}

	// Zero-padded to 4 digits, wider once a year passes 9999 quotes
	number := fmt.Sprintf("%s-%d-%04d", QuoteNumberPrefix, year, nextSeq)

	s.logger.Info("generated quote number",
		zap.String("number", number),
		zap.Int("year", year),
		zap.Int("sequence", nextSeq))

	return number, nil
}

// GetCurrentSequence returns the last issued sequence for a year without
// incrementing it. Returns 0 if none was issued.
func (s *NumberSequenceService) GetCurrentSequence(ctx context.Context, year int) (int, error) {
	return s.repo.GetCurrentSequence(ctx, QuoteNumberPrefix, year)
}

// ValidateQuoteNumber checks that number follows LUX-YYYY-NNNN
func ValidateQuoteNumber(number string) bool {
	return quoteNumberPattern.MatchString(number)
}
