package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"adlaan-backend/internal/classification"
	"adlaan-backend/internal/models"
	"adlaan-backend/internal/repository"

	"go.uber.org/zap"
)

// MaxReportedResults caps the per-item results stored in a batch output.
const MaxReportedResults = 20

const (
	ItemStatusClassified = "classified"
	ItemStatusError      = "error"
)

// ItemResult is the outcome of classifying one document in a batch.
type ItemResult struct {
	DocumentID    uint                `json:"document_id"`
	Status        string              `json:"status"`
	DocumentType  models.DocumentType `json:"document_type,omitempty"`
	PreviousType  models.DocumentType `json:"previous_type,omitempty"`
	SuggestedType models.DocumentType `json:"suggested_type,omitempty"`
	Confidence    float64             `json:"confidence,omitempty"`
	Overridden    bool                `json:"overridden,omitempty"`
	Error         string              `json:"error,omitempty"`
}

// ClassifyExecutor classifies each target document in the order they were
// resolved. A failing document is recorded as an error item and the batch
// moves on.
type ClassifyExecutor struct {
	docs   DocumentStore
	scorer *classification.Scorer
	now    func() time.Time
	log    *zap.Logger
}

func (e *ClassifyExecutor) Execute(ctx context.Context, task *models.Task) (map[string]interface{}, error) {
	var meta classificationMetadata
	if err := json.Unmarshal(task.Metadata, &meta); err != nil {
		return nil, fmt.Errorf("invalid classification metadata: %w", err)
	}

	results := make([]ItemResult, 0, len(meta.DocumentIDs))
	processed := 0
	for _, id := range meta.DocumentIDs {
		item, err := e.classifyOne(ctx, task.OrganizationID, id)
		if err != nil {
			e.log.Warn("Failed to classify document",
				zap.Uint("task_id", task.ID), zap.Uint("document_id", id), zap.Error(err))
			results = append(results, ItemResult{DocumentID: id, Status: ItemStatusError, Error: err.Error()})
			continue
		}
		processed++
		results = append(results, *item)
	}

	reported := results
	if len(reported) > MaxReportedResults {
		reported = reported[:MaxReportedResults]
	}
	return map[string]interface{}{
		"total":     len(meta.DocumentIDs),
		"processed": processed,
		"failed":    len(meta.DocumentIDs) - processed,
		"results":   reported,
		"truncated": len(results) > MaxReportedResults,
	}, nil
}

func (e *ClassifyExecutor) classifyOne(ctx context.Context, orgID, id uint) (item *ItemResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("classification panicked: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := e.docs.Get(ctx, orgID, id)
	if err != nil {
		return nil, fmt.Errorf("document %d: %w", id, err)
	}

	result := e.scorer.ClassifyText(doc.Title, doc.Content, doc.DocumentType)
	err = e.docs.SaveClassification(ctx, doc.ID, repository.Classification{
		DocumentType: result.Category,
		Confidence:   result.Confidence,
		Metadata: models.JSON{
			"suggestions":    result.Top,
			"tags":           result.Tags,
			"suggested_type": result.Suggested,
			"overridden":     result.Overridden,
		},
		ClassifiedAt: e.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save classification for document %d: %w", id, err)
	}

	return &ItemResult{
		DocumentID:    doc.ID,
		Status:        ItemStatusClassified,
		DocumentType:  result.Category,
		PreviousType:  result.Previous,
		SuggestedType: result.Suggested,
		Confidence:    result.Confidence,
		Overridden:    result.Overridden,
	}, nil
}
