package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"adlaan-backend/internal/models"

	"gorm.io/gorm"
)

// DocumentRepository handles database operations for documents
type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create inserts a document.
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

// Get loads a document inside the organization.
func (r *DocumentRepository) Get(ctx context.Context, orgID, id uint) (*models.Document, error) {
	var doc models.Document
	err := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&doc).Error
	if err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

// FilterIDs keeps the ids that exist in the organization, preserving the
// caller's order and dropping duplicates.
func (r *DocumentRepository) FilterIDs(ctx context.Context, orgID uint, ids []uint, onlyUnclassified bool) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	q := r.db.WithContext(ctx).Model(&models.Document{}).
		Where("organization_id = ? AND id IN ?", orgID, ids)
	if onlyUnclassified {
		q = q.Where("classified_at IS NULL")
	}
	var found []uint
	if err := q.Pluck("id", &found).Error; err != nil {
		return nil, err
	}

	present := make(map[uint]bool, len(found))
	for _, id := range found {
		present[id] = true
	}
	out := make([]uint, 0, len(found))
	for _, id := range ids {
		if present[id] {
			out = append(out, id)
			delete(present, id)
		}
	}
	return out, nil
}

// ListIDsByCase returns the ids of a case's documents in ascending order.
func (r *DocumentRepository) ListIDsByCase(ctx context.Context, orgID, caseID uint, onlyUnclassified bool) ([]uint, error) {
	q := r.db.WithContext(ctx).Model(&models.Document{}).
		Where("organization_id = ? AND case_id = ?", orgID, caseID)
	if onlyUnclassified {
		q = q.Where("classified_at IS NULL")
	}
	var ids []uint
	err := q.Order("id").Pluck("id", &ids).Error
	return ids, err
}

// ListIDsByOrganization returns the ids of every document in the organization
// in ascending order.
func (r *DocumentRepository) ListIDsByOrganization(ctx context.Context, orgID uint, onlyUnclassified bool) ([]uint, error) {
	q := r.db.WithContext(ctx).Model(&models.Document{}).
		Where("organization_id = ?", orgID)
	if onlyUnclassified {
		q = q.Where("classified_at IS NULL")
	}
	var ids []uint
	err := q.Order("id").Pluck("id", &ids).Error
	return ids, err
}

// Classification is the persisted outcome of classifying one document.
type Classification struct {
	DocumentType models.DocumentType
	Confidence   float64
	Metadata     models.JSON
	ClassifiedAt time.Time
}

// SaveClassification writes the classification fields of a document.
func (r *DocumentRepository) SaveClassification(ctx context.Context, id uint, c Classification) error {
	result := r.db.WithContext(ctx).Model(&models.Document{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"document_type":             c.DocumentType,
			"classification_confidence": c.Confidence,
			"classification_metadata":   c.Metadata,
			"classified_at":             c.ClassifiedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a document by id.
func (r *DocumentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Document{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStorageURL records where a document's content was archived.
func (r *DocumentRepository) SetStorageURL(ctx context.Context, id uint, url string) error {
	return r.db.WithContext(ctx).Model(&models.Document{}).
		Where("id = ?", id).
		Update("storage_url", url).Error
}

// CategoryCount is one row of the per-category breakdown.
type CategoryCount struct {
	DocumentType models.DocumentType `json:"document_type"`
	Count        int64               `json:"count"`
}

// DocumentStats aggregates the classification state of a document set.
type DocumentStats struct {
	Total          int64
	Classified     int64
	ByCategory     []CategoryCount
	MeanConfidence *float64
}

// Stats aggregates classification counts for the organization, optionally
// narrowed to one case. The category breakdown covers classified documents
// only and is ordered by count, largest first.
func (r *DocumentRepository) Stats(ctx context.Context, orgID uint, caseID *uint) (*DocumentStats, error) {
	scope := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.Document{}).Where("organization_id = ?", orgID)
		if caseID != nil {
			q = q.Where("case_id = ?", *caseID)
		}
		return q
	}

	var stats DocumentStats
	if err := scope().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := scope().Where("classified_at IS NOT NULL").Count(&stats.Classified).Error; err != nil {
		return nil, err
	}

	err := scope().
		Select("document_type, COUNT(*) AS count").
		Where("classified_at IS NOT NULL").
		Group("document_type").
		Order("count DESC").
		Order("document_type").
		Scan(&stats.ByCategory).Error
	if err != nil {
		return nil, err
	}

	var mean sql.NullFloat64
	err = scope().
		Select("AVG(classification_confidence)").
		Where("classified_at IS NOT NULL").
		Row().Scan(&mean)
	if err != nil {
		return nil, err
	}
	if mean.Valid {
		stats.MeanConfidence = &mean.Float64
	}
	return &stats, nil
}
