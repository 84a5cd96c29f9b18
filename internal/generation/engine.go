package generation

import (
	"context"
	"time"

	"adlaan-backend/internal/models"
)

// Request describes one document to generate.
type Request struct {
	Type             models.DocumentType
	Parameters       map[string]interface{}
	ClientName       string
	CaseNumber       string
	OrganizationName string
}

// Generated is the rendered document.
type Generated struct {
	Type         models.DocumentType `json:"type"`
	TemplateType models.DocumentType `json:"template_type"`
	Content      string              `json:"-"`
	Unresolved   []string            `json:"unresolved"`
}

// Engine renders documents from an injected template registry.
type Engine struct {
	registry *Registry
	now      func() time.Time
}

func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry, now: time.Now}
}

// WithClock returns a copy of the engine that dates documents with now.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	cp := *e
	cp.now = now
	return &cp
}

// Registry exposes the engine's template library.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Generate renders req. A client name found in the parameters (clientName or
// counterpartyName) is used when the request carries none.
func (e *Engine) Generate(ctx context.Context, req Request) (*Generated, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tpl := e.registry.Lookup(req.Type)

	clientName := req.ClientName
	if clientName == "" {
		clientName = stringParam(req.Parameters, "clientName", "counterpartyName")
	}

	content := Resolve(tpl.Body, Context{
		ClientName:       clientName,
		CaseNumber:       req.CaseNumber,
		OrganizationName: req.OrganizationName,
		Date:             e.now(),
	}, req.Parameters)

	return &Generated{
		Type:         req.Type,
		TemplateType: tpl.Type,
		Content:      content,
		Unresolved:   Unresolved(content),
	}, nil
}

func stringParam(params map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := params[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
