package services

import "adlaan-backend/internal/models"

// GenerationRequest asks for a new document rendered from a template.
type GenerationRequest struct {
	DocumentType   models.DocumentType    `json:"document_type"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description,omitempty"`
	Parameters     map[string]interface{} `json:"parameters,omitempty"`
	CaseID         *uint                  `json:"case_id,omitempty"`
	ClientID       *uint                  `json:"client_id,omitempty"`
	IdempotencyKey string                 `json:"-"`
}

// AnalysisRequest asks for a read-only report on one document.
type AnalysisRequest struct {
	DocumentID     uint   `json:"document_id"`
	IdempotencyKey string `json:"-"`
}

// ClassificationRequest selects the documents to classify. Explicit ids win
// over a case scope, which wins over the whole organization.
type ClassificationRequest struct {
	DocumentIDs      []uint `json:"document_ids,omitempty"`
	CaseID           *uint  `json:"case_id,omitempty"`
	OnlyUnclassified bool   `json:"only_unclassified,omitempty"`
	ForceReclassify  bool   `json:"force_reclassify,omitempty"`
	IdempotencyKey   string `json:"-"`
}

// unclassifiedOnly reports whether target resolution should skip documents
// that were already classified.
func (r ClassificationRequest) unclassifiedOnly() bool {
	return r.OnlyUnclassified && !r.ForceReclassify
}

// generationMetadata is everything the background step needs to render a
// document, resolved at submission time.
type generationMetadata struct {
	DocumentType     models.DocumentType    `json:"document_type"`
	Title            string                 `json:"title"`
	Description      string                 `json:"description,omitempty"`
	Parameters       map[string]interface{} `json:"parameters,omitempty"`
	CaseID           *uint                  `json:"case_id,omitempty"`
	CaseNumber       string                 `json:"case_number,omitempty"`
	ClientID         *uint                  `json:"client_id,omitempty"`
	ClientName       string                 `json:"client_name,omitempty"`
	OrganizationName string                 `json:"organization_name,omitempty"`
}

type analysisMetadata struct {
	DocumentID uint `json:"document_id"`
}

type classificationMetadata struct {
	DocumentIDs     []uint `json:"document_ids"`
	ForceReclassify bool   `json:"force_reclassify,omitempty"`
}
