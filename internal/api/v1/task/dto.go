package task

import "adlaan-backend/internal/models"

// IdempotencyHeader lets clients retry a submission without creating a
// second task. It takes precedence over the body field.
const IdempotencyHeader = "Idempotency-Key"

// GenerateDocumentRequest is the body of POST /tasks/generate.
type GenerateDocumentRequest struct {
	DocumentType   string                 `json:"document_type" binding:"required,document_type"`
	Title          string                 `json:"title" binding:"required,max=255"`
	Description    string                 `json:"description" binding:"max=2000"`
	Parameters     map[string]interface{} `json:"parameters"`
	CaseID         *uint                  `json:"case_id"`
	ClientID       *uint                  `json:"client_id"`
	IdempotencyKey string                 `json:"idempotency_key" binding:"max=128"`
}

// AnalyzeDocumentRequest is the body of POST /tasks/analyze.
type AnalyzeDocumentRequest struct {
	DocumentID     uint   `json:"document_id" binding:"required"`
	IdempotencyKey string `json:"idempotency_key" binding:"max=128"`
}

// ClassifyDocumentsRequest is the body of POST /tasks/classify. All fields
// are optional; an empty body classifies the whole organization.
type ClassifyDocumentsRequest struct {
	DocumentIDs      []uint `json:"document_ids" binding:"max=1000"`
	CaseID           *uint  `json:"case_id"`
	OnlyUnclassified bool   `json:"only_unclassified"`
	ForceReclassify  bool   `json:"force_reclassify"`
	IdempotencyKey   string `json:"idempotency_key" binding:"max=128"`
}

// TaskListResponse wraps the caller's tasks, newest first.
type TaskListResponse struct {
	Total int           `json:"total"`
	Items []models.Task `json:"items"`
}
