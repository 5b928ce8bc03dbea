package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/luxone/quotation-api/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) *QuotationRepository {
	return &QuotationRepository{db: db}
}

// Create stores a quotation with its pieces and first revision in one transaction
func (r *QuotationRepository) Create(ctx context.Context, q *domain.Quotation, pieces []domain.QuotationPiece, revision *domain.QuotationRevision) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(q).Error; err != nil {
			return fmt.Errorf("failed to create quotation: %w", err)
		}

		if err := createPieces(tx, q.ID, q.PieceVersion, pieces); err != nil {
			return err
		}

		if revision != nil {
			revision.QuotationID = q.ID
			revision.PieceVersion = q.PieceVersion
			if err := tx.Create(revision).Error; err != nil {
				return fmt.Errorf("failed to create quotation revision: %w", err)
			}
		}

		q.Pieces = pieces
		return nil
	})
}

func createPieces(tx *gorm.DB, quotationID uuid.UUID, version int, pieces []domain.QuotationPiece) error {
	if len(pieces) == 0 {
		return nil
	}
	for i := range pieces {
		pieces[i].QuotationID = quotationID
		pieces[i].Version = version
	}
	if err := tx.Create(&pieces).Error; err != nil {
		return fmt.Errorf("failed to create quotation pieces: %w", err)
	}
	return nil
}

// GetByID loads a quotation with its current piece version and files
func (r *QuotationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	var q domain.Quotation
	if err := r.db.WithContext(ctx).First(&q, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := r.loadRelations(ctx, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// GetByQuoteNumber loads a quotation by its public quote number
func (r *QuotationRepository) GetByQuoteNumber(ctx context.Context, quoteNumber string) (*domain.Quotation, error) {
	var q domain.Quotation
	if err := r.db.WithContext(ctx).First(&q, "quote_number = ?", quoteNumber).Error; err != nil {
		return nil, err
	}
	if err := r.loadRelations(ctx, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuotationRepository) loadRelations(ctx context.Context, q *domain.Quotation) error {
	if err := r.db.WithContext(ctx).
		Where("quotation_id = ? AND version = ?", q.ID, q.PieceVersion).
		Order("label ASC").
		Find(&q.Pieces).Error; err != nil {
		return fmt.Errorf("failed to load quotation pieces: %w", err)
	}
	if err := r.db.WithContext(ctx).
		Where("quotation_id = ?", q.ID).
		Order("created_at DESC").
		Find(&q.Files).Error; err != nil {
		return fmt.Errorf("failed to load quotation files: %w", err)
	}
	return nil
}

// List returns a page of quotations matching filters, newest first
func (r *QuotationRepository) List(ctx context.Context, filters domain.QuotationFilters, page, pageSize int) ([]domain.Quotation, int64, error) {
	var quotations []domain.Quotation
	var total int64

	query := r.applyFilters(r.db.WithContext(ctx).Model(&domain.Quotation{}), filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&quotations).Error

	return quotations, total, err
}

func (r *QuotationRepository) applyFilters(query *gorm.DB, filters domain.QuotationFilters) *gorm.DB {
	if filters.Search != "" {
		searchPattern := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where(
			"LOWER(customer_name) LIKE ? OR LOWER(customer_email) LIKE ? OR LOWER(quote_number) LIKE ?",
			searchPattern, searchPattern, searchPattern,
		)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Location != "" {
		query = query.Where("customer_location = ?", filters.Location)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}

// UpdateStatus sets the review status and reports whether a row was changed
func (r *QuotationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.QuotationStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Quotation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	return result.RowsAffected > 0, result.Error
}

// UpdateDetails writes contact and review columns. Pricing columns are never
// part of updates.
func (r *QuotationRepository) UpdateDetails(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&domain.Quotation{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Revise stores a new piece version with its priced spec and breakdown. The
// previous pieces and revisions are kept.
func (r *QuotationRepository) Revise(ctx context.Context, q *domain.Quotation, pieces []domain.QuotationPiece, revision *domain.QuotationRevision) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Quotation{}).
			Where("id = ? AND piece_version = ?", q.ID, q.PieceVersion-1).
			Updates(map[string]interface{}{
				"piece_version":  q.PieceVersion,
				"spec":           q.Spec,
				"breakdown":      q.Breakdown,
				"policy_version": q.PolicyVersion,
				"grand_total":    q.GrandTotal,
				"updated_at":     time.Now().UTC(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update quotation: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("quotation %s was revised concurrently: %w", q.ID, gorm.ErrRecordNotFound)
		}

		if err := createPieces(tx, q.ID, q.PieceVersion, pieces); err != nil {
			return err
		}

		revision.QuotationID = q.ID
		revision.PieceVersion = q.PieceVersion
		if err := tx.Create(revision).Error; err != nil {
			return fmt.Errorf("failed to create quotation revision: %w", err)
		}

		q.Pieces = pieces
		return nil
	})
}

// ListRevisions returns every priced version of a quotation, oldest first
func (r *QuotationRepository) ListRevisions(ctx context.Context, quotationID uuid.UUID) ([]domain.QuotationRevision, error) {
	var revisions []domain.QuotationRevision
	err := r.db.WithContext(ctx).
		Where("quotation_id = ?", quotationID).
		Order("piece_version ASC").
		Find(&revisions).Error
	return revisions, err
}

// Delete removes a quotation with its pieces and revisions. Attached files are
// detached, not deleted.
func (r *QuotationRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.QuotationPiece{}, "quotation_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete quotation pieces: %w", err)
		}
		if err := tx.Delete(&domain.QuotationRevision{}, "quotation_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete quotation revisions: %w", err)
		}
		if err := tx.Model(&domain.File{}).Where("quotation_id = ?", id).Update("quotation_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach quotation files: %w", err)
		}
		result := tx.Delete(&domain.Quotation{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete quotation: %w", result.Error)
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	return deleted, err
}

// GroupTotal is a count and value total for one group
type GroupTotal struct {
	Label string
	Count int64
	Total decimal.Decimal
}

// MaterialTotal is a count and value total for one material source and type
type MaterialTotal struct {
	MaterialSource string
	MaterialType   string
	Count          int64
	Total          decimal.Decimal
}

// Totals returns the number of quotations and the sum of their grand totals
func (r *QuotationRepository) Totals(ctx context.Context) (int64, decimal.Decimal, error) {
	var row struct {
		Count int64
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Quotation{}).
		Select("COUNT(*) AS count, COALESCE(SUM(grand_total), 0) AS total").
		Scan(&row).Error
	return row.Count, row.Total, err
}

// CountByStatus groups quotations by review status
func (r *QuotationRepository) CountByStatus(ctx context.Context) ([]GroupTotal, error) {
	return r.groupBy(ctx, "status")
}

// CountByLocation groups quotations by customer location
func (r *QuotationRepository) CountByLocation(ctx context.Context) ([]GroupTotal, error) {
	return r.groupBy(ctx, "customer_location")
}

func (r *QuotationRepository) groupBy(ctx context.Context, column string) ([]GroupTotal, error) {
	var rows []GroupTotal
	err := r.db.WithContext(ctx).
		Model(&domain.Quotation{}).
		Select(column + " AS label, COUNT(*) AS count, COALESCE(SUM(grand_total), 0) AS total").
		Group(column).
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

// CountByMaterial groups quotations by material source and type
func (r *QuotationRepository) CountByMaterial(ctx context.Context) ([]MaterialTotal, error) {
	var rows []MaterialTotal
	err := r.db.WithContext(ctx).
		Model(&domain.Quotation{}).
		Select("material_source, material_type, COUNT(*) AS count, COALESCE(SUM(grand_total), 0) AS total").
		Group("material_source, material_type").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

// ListCreatedSince returns creation time and total of quotations created at or
// after since, for time bucketing
func (r *QuotationRepository) ListCreatedSince(ctx context.Context, since time.Time) ([]domain.Quotation, error) {
	var quotations []domain.Quotation
	err := r.db.WithContext(ctx).
		Select("id, created_at, grand_total").
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Find(&quotations).Error
	return quotations, err
}

// ListForAnalytics returns the columns analytics needs for quotations created
// at or after since, oldest first
func (r *QuotationRepository) ListForAnalytics(ctx context.Context, since time.Time) ([]domain.Quotation, error) {
	var quotations []domain.Quotation
	err := r.db.WithContext(ctx).
		Select("id, created_at, grand_total, status, service_level, designer_name, designer_email").
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Find(&quotations).Error
	return quotations, err
}

// Recent returns the newest quotations
func (r *QuotationRepository) Recent(ctx context.Context, limit int) ([]domain.Quotation, error) {
	var quotations []domain.Quotation
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&quotations).Error
	return quotations, err
}
