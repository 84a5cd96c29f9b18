package services

import (
	"context"
	"encoding/json"
	"fmt"

	"adlaan-backend/internal/classification"
	"adlaan-backend/internal/models"
)

// AnalyzeExecutor reports what the classifier sees in one document without
// changing it.
type AnalyzeExecutor struct {
	docs   DocumentStore
	scorer *classification.Scorer
}

func (e *AnalyzeExecutor) Execute(ctx context.Context, task *models.Task) (map[string]interface{}, error) {
	var meta analysisMetadata
	if err := json.Unmarshal(task.Metadata, &meta); err != nil {
		return nil, fmt.Errorf("invalid analysis metadata: %w", err)
	}

	doc, err := e.docs.Get(ctx, task.OrganizationID, meta.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("document %d: %w", meta.DocumentID, err)
	}

	features := classification.Extract(doc.Title, doc.Content)
	result := e.scorer.Classify(features, doc.DocumentType)

	families := features.DetectedFamilies()
	if families == nil {
		families = []classification.Family{}
	}
	return map[string]interface{}{
		"document_id":     doc.ID,
		"current_type":    doc.DocumentType,
		"suggested_type":  result.Suggested,
		"would_override":  result.Overridden,
		"confidence":      result.Confidence,
		"word_count":      features.WordCount,
		"paragraph_count": features.ParagraphCount,
		"families":        families,
		"signals": map[string]bool{
			"dates":             features.HasDates,
			"signature_line":    features.HasSignatureLine,
			"notary":            features.HasNotary,
			"numbered_sections": features.HasNumberedSections,
			"bullets":           features.HasBullets,
			"multi_paragraph":   features.MultiParagraph,
			"section_keywords":  features.HasSectionKeywords,
		},
		"top":  result.Top,
		"tags": result.Tags,
	}, nil
}
