package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"adlaan-backend/internal/generation"
	"adlaan-backend/internal/models"
)

// GenerateExecutor renders a document from its template and stores it as a
// new document record. Any failure fails the whole task.
type GenerateExecutor struct {
	docs   DocumentStore
	engine *generation.Engine
}

func (e *GenerateExecutor) Execute(ctx context.Context, task *models.Task) (map[string]interface{}, error) {
	// Numbers stay json.Number so they render exactly as submitted.
	var meta generationMetadata
	dec := json.NewDecoder(bytes.NewReader(task.Metadata))
	dec.UseNumber()
	if err := dec.Decode(&meta); err != nil {
		return nil, fmt.Errorf("invalid generation metadata: %w", err)
	}

	// Title and description double as [TITLE] and [DESCRIPTION] unless the
	// caller supplied those parameters.
	params := make(map[string]interface{}, len(meta.Parameters)+2)
	for k, v := range meta.Parameters {
		params[k] = v
	}
	if _, ok := params["title"]; !ok {
		params["title"] = meta.Title
	}
	if _, ok := params["description"]; !ok && meta.Description != "" {
		params["description"] = meta.Description
	}

	generated, err := e.engine.Generate(ctx, generation.Request{
		Type:             meta.DocumentType,
		Parameters:       params,
		ClientName:       meta.ClientName,
		CaseNumber:       meta.CaseNumber,
		OrganizationName: meta.OrganizationName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	doc := &models.Document{
		OrganizationID: task.OrganizationID,
		OwnerID:        task.OwnerID,
		CaseID:         meta.CaseID,
		ClientID:       meta.ClientID,
		Title:          meta.Title,
		Description:    meta.Description,
		Content:        generated.Content,
		DocumentType:   meta.DocumentType,
	}
	if err := e.docs.Create(ctx, doc); err != nil {
		return nil, err
	}
	task.DocumentID = &doc.ID

	unresolved := generated.Unresolved
	if unresolved == nil {
		unresolved = []string{}
	}
	return map[string]interface{}{
		"document_id":    doc.ID,
		"title":          doc.Title,
		"document_type":  doc.DocumentType,
		"template_type":  generated.TemplateType,
		"content_length": len(generated.Content),
		"unresolved":     unresolved,
	}, nil
}
