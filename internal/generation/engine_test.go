package generation

import (
	"context"
	"strings"
	"testing"
	"time"

	"adlaan-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedEngine() *Engine {
	return NewEngine(DefaultRegistry()).WithClock(func() time.Time {
		return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	})
}

func TestGenerateContractWithoutCase(t *testing.T) {
	doc, err := fixedEngine().Generate(context.Background(), Request{
		Type: models.DocumentTypeContract,
		Parameters: map[string]interface{}{
			"clientName": "Acme",
			"startDate":  "2024-01-01",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.DocumentTypeContract, doc.TemplateType)
	assert.Contains(t, doc.Content, `and Acme ("Client")`)
	assert.Contains(t, doc.Content, "Case Reference: [Case Number]")
	assert.Contains(t, doc.Content, "begins on 2024-01-01")
	assert.Contains(t, doc.Content, "Date: June 1, 2024")
	assert.NotContains(t, doc.Content, TokenClientName)
	assert.NotContains(t, doc.Content, TokenCaseNumber)
	assert.Contains(t, doc.Content, "[END_DATE]")
	assert.Equal(t, []string{"[END_DATE]", "[SERVICES]", "[PAYMENT_TERMS]", "[GOVERNING_LAW]"}, doc.Unresolved)
}

func TestGenerateRequestContextWinsOverParameters(t *testing.T) {
	doc, err := fixedEngine().Generate(context.Background(), Request{
		Type:             models.DocumentTypeLetter,
		ClientName:       "Globex Corp",
		CaseNumber:       "2024-CV-001",
		OrganizationName: "Roe & Partners",
		Parameters:       map[string]interface{}{"clientName": "Acme"},
	})
	require.NoError(t, err)

	assert.Contains(t, doc.Content, "Dear Globex Corp,")
	assert.Contains(t, doc.Content, "(Matter 2024-CV-001)")
	assert.True(t, strings.HasPrefix(doc.Content, "Roe & Partners\n"))
	assert.NotContains(t, doc.Content, "Acme")
}

func TestGenerateFallsBackToOtherTemplate(t *testing.T) {
	doc, err := fixedEngine().Generate(context.Background(), Request{
		Type:       models.DocumentTypeInvoice,
		Parameters: map[string]interface{}{"title": "Fee Schedule", "content": "Hourly rates apply."},
	})
	require.NoError(t, err)

	assert.Equal(t, models.DocumentTypeInvoice, doc.Type)
	assert.Equal(t, models.DocumentTypeOther, doc.TemplateType)
	assert.True(t, strings.HasPrefix(doc.Content, "Fee Schedule\n"))
	assert.Contains(t, doc.Content, "Hourly rates apply.")
}

func TestGenerateRoundTripsEveryParameter(t *testing.T) {
	engine := fixedEngine()
	wellKnown := map[string]bool{TokenClientName: true, TokenDate: true, TokenCaseNumber: true, TokenOrganizationName: true}

	for _, typ := range engine.Registry().Types() {
		tpl := engine.Registry().Lookup(typ)
		params := map[string]interface{}{}
		for i, token := range tpl.Placeholders() {
			if wellKnown[token] {
				continue
			}
			key := strings.ToLower(strings.Trim(token, "[]"))
			params[key] = "value-" + string(rune('a'+i)) + "-" + string(typ)
		}

		doc, err := engine.Generate(context.Background(), Request{Type: typ, Parameters: params})
		require.NoError(t, err)
		for key, v := range params {
			assert.Contains(t, doc.Content, v, "%s: %s", typ, key)
		}
		assert.Empty(t, doc.Unresolved, typ)
	}
}

func TestGenerateHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fixedEngine().Generate(ctx, Request{Type: models.DocumentTypeContract})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRegistryRequiresFallback(t *testing.T) {
	_, err := NewRegistry(Template{Type: models.DocumentTypeContract, Body: "x"})
	assert.ErrorIs(t, err, ErrMissingFallback)

	_, err = NewRegistry(
		Template{Type: models.DocumentTypeOther, Body: "a"},
		Template{Type: models.DocumentTypeOther, Body: "b"},
	)
	assert.Error(t, err)
}

func TestRegistryLookup(t *testing.T) {
	r, err := NewRegistry(
		Template{Type: models.DocumentTypeNDA, Body: "nda"},
		Template{Type: models.DocumentTypeOther, Body: "other"},
	)
	require.NoError(t, err)

	assert.True(t, r.Has(models.DocumentTypeNDA))
	assert.False(t, r.Has(models.DocumentTypeWill))
	assert.Equal(t, "other", r.Lookup(models.DocumentTypeWill).Body)
	assert.Equal(t, []models.DocumentType{models.DocumentTypeNDA, models.DocumentTypeOther}, r.Types())
}
