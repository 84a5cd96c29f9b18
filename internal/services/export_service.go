package services

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"adlaan-backend/internal/models"
)

// ClassificationResultsCSV renders the per-item results of a completed
// classification task. Only the reported results are included, so a
// truncated batch exports its first MaxReportedResults items.
func ClassificationResultsCSV(task *models.Task) ([]byte, error) {
	if task.Kind != models.TaskKindClassifyDocuments {
		return nil, fmt.Errorf("%w: task %d is not a classification task", ErrInvalidKind, task.ID)
	}
	if task.Status != models.TaskStatusCompleted {
		return nil, fmt.Errorf("%w: task %d is %s", ErrInvalidRequest, task.ID, task.Status)
	}

	var output struct {
		Results []ItemResult `json:"results"`
	}
	if err := json.Unmarshal(task.Output, &output); err != nil {
		return nil, fmt.Errorf("invalid classification output: %w", err)
	}

	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{
		"Document ID", "Status", "Document Type", "Previous Type",
		"Suggested Type", "Confidence", "Overridden", "Error",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, r := range output.Results {
		record := []string{
			strconv.FormatUint(uint64(r.DocumentID), 10),
			r.Status,
			string(r.DocumentType),
			string(r.PreviousType),
			string(r.SuggestedType),
			"",
			strconv.FormatBool(r.Overridden),
			r.Error,
		}
		if r.Status == ItemStatusClassified {
			record[5] = strconv.FormatFloat(r.Confidence, 'f', 4, 64)
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}
