package services

import (
	"context"
	"fmt"

	"adlaan-backend/internal/classification"
	"adlaan-backend/internal/repository"
)

// ClassificationSummary aggregates the classification state of the caller's
// organization, or of one of its cases.
type ClassificationSummary struct {
	Total          int64                      `json:"total"`
	Classified     int64                      `json:"classified"`
	Unclassified   int64                      `json:"unclassified"`
	ByCategory     []repository.CategoryCount `json:"by_category"`
	MeanConfidence *float64                   `json:"mean_confidence"`
}

func (s *TaskService) ClassificationSummary(ctx context.Context, caller Caller, caseID *uint) (*ClassificationSummary, error) {
	if caseID != nil {
		if _, err := s.dir.GetCase(ctx, caller.OrganizationID, *caseID); err != nil {
			return nil, fmt.Errorf("case %d: %w", *caseID, err)
		}
	}

	stats, err := s.docs.Stats(ctx, caller.OrganizationID, caseID)
	if err != nil {
		return nil, err
	}

	summary := &ClassificationSummary{
		Total:        stats.Total,
		Classified:   stats.Classified,
		Unclassified: stats.Total - stats.Classified,
		ByCategory:   stats.ByCategory,
	}
	if summary.ByCategory == nil {
		summary.ByCategory = []repository.CategoryCount{}
	}
	if stats.MeanConfidence != nil {
		mean := classification.Round(*stats.MeanConfidence)
		summary.MeanConfidence = &mean
	}
	return summary, nil
}
