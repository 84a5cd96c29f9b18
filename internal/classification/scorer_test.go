package classification

import (
	"math/rand"
	"testing"

	"adlaan-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contractBody = `This Agreement is entered into by and between the parties named below.

1. Services. The Provider hereby agrees to perform the services described in Section 2.
2. Term. This Agreement remains in effect for one year.

Signature: ______________`

const leaseBody = `This lease agreement is made between the Landlord and the Tenant.

The Tenant shall pay monthly rent of $1,200 beginning 01/01/2024.

Tenant Signature: ______________`

const affidavitBody = `I, Jane Roe, being duly sworn, depose and say that the facts stated herein are true under penalty of perjury.

Signature: ______________

Subscribed and sworn to before me on March 15, 2024.
Notary Public`

func TestRulesStayWithinUnitInterval(t *testing.T) {
	require.Len(t, Rules, len(models.DocumentTypes))
	for i, rule := range Rules {
		assert.Equal(t, models.DocumentTypes[i], rule.Type, "rule order must follow category declaration order")
		assert.LessOrEqual(t, rule.MaxScore(), 1.0+1e-9, "%s weights exceed 1", rule.Type)
		for _, f := range rule.Factors {
			assert.Greater(t, f.Weight, 0.0)
			assert.NotEmpty(t, f.Reason)
		}
	}
}

func TestScoresStayWithinUnitIntervalForRandomFeatures(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	scorer := NewScorer()
	for i := 0; i < 500; i++ {
		f := Features{Families: map[Family]bool{}}
		for _, kf := range keywordFamilies {
			f.Families[kf.family] = rng.Intn(2) == 1
		}
		f.HasDates = rng.Intn(2) == 1
		f.HasSignatureLine = rng.Intn(2) == 1
		f.HasNotary = rng.Intn(2) == 1
		f.HasNumberedSections = rng.Intn(2) == 1
		f.HasBullets = rng.Intn(2) == 1
		f.MultiParagraph = rng.Intn(2) == 1
		f.HasSectionKeywords = rng.Intn(2) == 1
		f.WordCount = rng.Intn(3000)

		for _, cs := range scorer.Rank(f) {
			assert.GreaterOrEqual(t, cs.Score, 0.0)
			assert.LessOrEqual(t, cs.Score, 1.0)
		}
	}
}

func TestRankTiesFollowDeclarationOrder(t *testing.T) {
	always := func(Features) bool { return true }
	a := Rule{Type: "A", Factors: []Factor{{"a", 0.5, always}}}
	b := Rule{Type: "B", Factors: []Factor{{"b", 0.5, always}}}
	c := Rule{Type: "C", Factors: []Factor{{"c", 0.2, always}}}

	ranking := NewScorerWithRules([]Rule{c, a, b}).Rank(Features{})
	assert.Equal(t, []models.DocumentType{"A", "B", "C"}, typesOf(ranking))

	ranking = NewScorerWithRules([]Rule{b, c, a}).Rank(Features{})
	assert.Equal(t, []models.DocumentType{"B", "A", "C"}, typesOf(ranking))
}

func TestReasonsFollowFactorOrder(t *testing.T) {
	cs := Score(Rules[0], Extract("Agreement", contractBody))
	assert.Equal(t, []string{
		reasonContract,
		reasonFormality,
		reasonNumbered,
		reasonSignature,
		reasonSections,
	}, cs.Reasons)
}

func TestEmptyDocumentFallsBackToOther(t *testing.T) {
	result := NewScorer().ClassifyText("", "", models.DocumentTypeOther)

	assert.Equal(t, models.DocumentTypeOther, result.Category)
	assert.Equal(t, models.DocumentTypeOther, result.Suggested)
	assert.Equal(t, OtherBaseline, result.Confidence)
	assert.Empty(t, result.Top[0].Reasons)
	for _, cs := range result.Ranking()[1:] {
		assert.Equal(t, 0.0, cs.Score, "%s should not score without signals", cs.Type)
	}
	assert.Empty(t, result.Tags)
}

func TestApplyOverride(t *testing.T) {
	lease := func(score float64) CategoryScore {
		return CategoryScore{Type: models.DocumentTypeLeaseAgreement, Score: score}
	}

	got, overridden := ApplyOverride(lease(0.71), models.DocumentTypeContract)
	assert.Equal(t, models.DocumentTypeLeaseAgreement, got)
	assert.True(t, overridden)

	got, overridden = ApplyOverride(lease(0.7), models.DocumentTypeContract)
	assert.Equal(t, models.DocumentTypeContract, got)
	assert.False(t, overridden)

	got, overridden = ApplyOverride(lease(0.2), models.DocumentTypeOther)
	assert.Equal(t, models.DocumentTypeLeaseAgreement, got)
	assert.True(t, overridden)

	got, overridden = ApplyOverride(lease(0.2), "")
	assert.Equal(t, models.DocumentTypeLeaseAgreement, got)
	assert.True(t, overridden)
}

func TestClassifyDistinctDominantFamilies(t *testing.T) {
	scorer := NewScorer()
	cases := []struct {
		title, body string
		want        models.DocumentType
	}{
		{"Master Services Agreement", contractBody, models.DocumentTypeContract},
		{"Residential Lease", leaseBody, models.DocumentTypeLeaseAgreement},
		{"Affidavit of Jane Roe", affidavitBody, models.DocumentTypeAffidavit},
	}

	for _, tc := range cases {
		result := scorer.ClassifyText(tc.title, tc.body, models.DocumentTypeOther)
		assert.Equal(t, tc.want, result.Category, tc.title)
		assert.True(t, result.Overridden, tc.title)
		assert.Greater(t, result.Confidence, OverrideThreshold, tc.title)
		assert.Len(t, result.Top, TopN)
		assert.Equal(t, tc.want, result.Top[0].Type)
	}
}

func TestClassifyKeepsExistingBelowThreshold(t *testing.T) {
	result := NewScorer().ClassifyText("Occupancy note",
		"The tenant may occupy the premises starting 02/01/2024.", models.DocumentTypeContract)

	assert.Equal(t, models.DocumentTypeContract, result.Category)
	assert.False(t, result.Overridden)
	assert.Equal(t, models.DocumentTypeLeaseAgreement, result.Suggested)
	assert.Equal(t, models.DocumentTypeLeaseAgreement, result.Top[0].Type)
	assert.InDelta(t, 0.55, result.Top[0].Score, 1e-9)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Contains(t, result.Tags, "Real Estate")
}

func TestClassifyDerivesTags(t *testing.T) {
	result := NewScorer().ClassifyText("Residential Lease", leaseBody, models.DocumentTypeOther)
	assert.Equal(t, []string{"Legal", "Contractual", "Financial", "Real Estate"}, result.Tags)
}

func TestRoundOnlyAffectsReporting(t *testing.T) {
	assert.Equal(t, 0.3333, Round(1.0/3.0))
	assert.Equal(t, 0.95, Round(0.40+0.15+0.15+0.15+0.10))
}

func typesOf(scores []CategoryScore) []models.DocumentType {
	out := make([]models.DocumentType, len(scores))
	for i, cs := range scores {
		out[i] = cs.Type
	}
	return out
}
