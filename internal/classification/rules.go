package classification

import "adlaan-backend/internal/models"

// OtherBaseline is the fixed score of the OTHER category, so that every
// document has at least one non-zero label.
const OtherBaseline = 0.1

// Factor is one weighted signal of a category rule. Reason is reported when
// Applies returns true.
type Factor struct {
	Reason  string
	Weight  float64
	Applies func(Features) bool
}

// Rule scores one category. Baseline plus the sum of all factor weights must
// not exceed 1; TestRulesStayWithinUnitInterval enforces this for Rules.
type Rule struct {
	Type     models.DocumentType
	Baseline float64
	Factors  []Factor
}

// MaxScore is the highest score the rule can produce.
func (r Rule) MaxScore() float64 {
	total := r.Baseline
	for _, f := range r.Factors {
		total += f.Weight
	}
	return total
}

func family(fam Family) func(Features) bool {
	return func(f Features) bool { return f.Has(fam) }
}

func minWords(n int) func(Features) bool {
	return func(f Features) bool { return f.WordCount >= n }
}

func wordsBetween(lo, hi int) func(Features) bool {
	return func(f Features) bool { return f.WordCount >= lo && f.WordCount <= hi }
}

func hasDates(f Features) bool            { return f.HasDates }
func hasSignatureLine(f Features) bool    { return f.HasSignatureLine }
func hasNotary(f Features) bool           { return f.HasNotary }
func hasNumberedSections(f Features) bool { return f.HasNumberedSections }
func hasBullets(f Features) bool          { return f.HasBullets }
func multiParagraph(f Features) bool      { return f.MultiParagraph }
func hasSectionKeywords(f Features) bool  { return f.HasSectionKeywords }

const (
	reasonContract        = "Contains contract or agreement language"
	reasonPleading        = "Contains pleading or court language"
	reasonConfidentiality = "Contains confidentiality language"
	reasonLease           = "Contains lease or tenancy language"
	reasonPowerOfAttorney = "Contains power of attorney language"
	reasonTestamentary    = "Contains testamentary language"
	reasonDiscovery       = "Contains discovery language"
	reasonAffidavit       = "Contains affidavit or sworn-statement language"
	reasonMemo            = "Contains memorandum language"
	reasonCorrespondence  = "Contains correspondence language"
	reasonFormality       = "Uses formal legal phrasing"
	reasonFinancial       = "Contains financial terms"
	reasonDates           = "Contains dates"
	reasonSignature       = "Has signature lines"
	reasonNotary          = "Has notary or sworn attestation"
	reasonNumbered        = "Has numbered sections"
	reasonBullets         = "Has bulleted lists"
	reasonParagraphs      = "Has multiple paragraphs"
	reasonSections        = "References sections, articles or clauses"
)

// Rules is the scoring table in category declaration order. Each row sums to
// at most 1.0; re-check TestRulesStayWithinUnitInterval after editing weights.
var Rules = []Rule{
	{Type: models.DocumentTypeContract, Factors: []Factor{
		{reasonContract, 0.40, family(FamilyContract)},
		{reasonFormality, 0.15, family(FamilyLegalFormality)},
		{reasonNumbered, 0.15, hasNumberedSections},
		{reasonSignature, 0.15, hasSignatureLine},
		{reasonSections, 0.10, hasSectionKeywords},
		{"Substantial length (300+ words)", 0.05, minWords(300)},
	}},
	{Type: models.DocumentTypeNDA, Factors: []Factor{
		{reasonConfidentiality, 0.45, family(FamilyConfidentiality)},
		{reasonContract, 0.20, family(FamilyContract)},
		{reasonSignature, 0.10, hasSignatureLine},
		{reasonNumbered, 0.10, hasNumberedSections},
		{reasonFormality, 0.10, family(FamilyLegalFormality)},
		{reasonDates, 0.05, hasDates},
	}},
	{Type: models.DocumentTypeLeaseAgreement, Factors: []Factor{
		{reasonLease, 0.45, family(FamilyLease)},
		{reasonContract, 0.15, family(FamilyContract)},
		{reasonFinancial, 0.15, family(FamilyFinancial)},
		{reasonDates, 0.10, hasDates},
		{reasonSignature, 0.10, hasSignatureLine},
		{reasonNumbered, 0.05, hasNumberedSections},
	}},
	{Type: models.DocumentTypeSettlementAgreement, Factors: []Factor{
		{reasonContract, 0.25, family(FamilyContract)},
		{reasonPleading, 0.25, family(FamilyPleading)},
		{reasonFinancial, 0.20, family(FamilyFinancial)},
		{reasonConfidentiality, 0.10, family(FamilyConfidentiality)},
		{reasonSignature, 0.10, hasSignatureLine},
		{reasonFormality, 0.10, family(FamilyLegalFormality)},
	}},
	{Type: models.DocumentTypePowerOfAttorney, Factors: []Factor{
		{reasonPowerOfAttorney, 0.50, family(FamilyPowerOfAttorney)},
		{reasonNotary, 0.20, hasNotary},
		{reasonSignature, 0.15, hasSignatureLine},
		{reasonFormality, 0.15, family(FamilyLegalFormality)},
	}},
	{Type: models.DocumentTypeWill, Factors: []Factor{
		{reasonTestamentary, 0.50, family(FamilyTestamentary)},
		{reasonSignature, 0.15, hasSignatureLine},
		{reasonFormality, 0.15, family(FamilyLegalFormality)},
		{reasonNotary, 0.10, hasNotary},
		{reasonParagraphs, 0.10, multiParagraph},
	}},
	{Type: models.DocumentTypeComplaint, Factors: []Factor{
		{reasonPleading, 0.45, family(FamilyPleading)},
		{reasonFormality, 0.15, family(FamilyLegalFormality)},
		{reasonNumbered, 0.15, hasNumberedSections},
		{reasonDates, 0.10, hasDates},
		{reasonParagraphs, 0.10, multiParagraph},
		{"Substantial length (500+ words)", 0.05, minWords(500)},
	}},
	{Type: models.DocumentTypeLegalBrief, Factors: []Factor{
		{reasonPleading, 0.30, family(FamilyPleading)},
		{reasonMemo, 0.20, family(FamilyMemo)},
		{reasonSections, 0.15, hasSectionKeywords},
		{reasonParagraphs, 0.15, multiParagraph},
		{"Long-form document (1000+ words)", 0.20, minWords(1000)},
	}},
	{Type: models.DocumentTypeDiscoveryRequest, Factors: []Factor{
		{reasonDiscovery, 0.45, family(FamilyDiscovery)},
		{reasonPleading, 0.20, family(FamilyPleading)},
		{reasonNumbered, 0.15, hasNumberedSections},
		{reasonDates, 0.10, hasDates},
		{reasonFormality, 0.10, family(FamilyLegalFormality)},
	}},
	{Type: models.DocumentTypeAffidavit, Factors: []Factor{
		{reasonAffidavit, 0.45, family(FamilyAffidavit)},
		{reasonNotary, 0.20, hasNotary},
		{reasonSignature, 0.15, hasSignatureLine},
		{reasonFormality, 0.10, family(FamilyLegalFormality)},
		{reasonDates, 0.10, hasDates},
	}},
	{Type: models.DocumentTypeMemorandum, Factors: []Factor{
		{reasonMemo, 0.45, family(FamilyMemo)},
		{reasonParagraphs, 0.15, multiParagraph},
		{reasonDates, 0.10, hasDates},
		{reasonFormality, 0.10, family(FamilyLegalFormality)},
		{reasonBullets, 0.10, hasBullets},
		{"Moderate length (200+ words)", 0.10, minWords(200)},
	}},
	{Type: models.DocumentTypeLetter, Factors: []Factor{
		{reasonCorrespondence, 0.50, family(FamilyCorrespondence)},
		{reasonDates, 0.15, hasDates},
		{reasonSignature, 0.15, hasSignatureLine},
		{reasonParagraphs, 0.10, multiParagraph},
		{"Letter length (50-800 words)", 0.10, wordsBetween(50, 800)},
	}},
	{Type: models.DocumentTypeInvoice, Factors: []Factor{
		{reasonFinancial, 0.50, family(FamilyFinancial)},
		{reasonDates, 0.15, hasDates},
		{reasonBullets, 0.15, hasBullets},
		{reasonNumbered, 0.10, hasNumberedSections},
		{"Short document (20-500 words)", 0.10, wordsBetween(20, 500)},
	}},
	{Type: models.DocumentTypeFinancialStatement, Factors: []Factor{
		{reasonFinancial, 0.40, family(FamilyFinancial)},
		{reasonParagraphs, 0.15, multiParagraph},
		{"Substantial length (300+ words)", 0.15, minWords(300)},
		{reasonDates, 0.10, hasDates},
		{reasonSections, 0.10, hasSectionKeywords},
		{reasonBullets, 0.10, hasBullets},
	}},
	{Type: models.DocumentTypeOther, Baseline: OtherBaseline},
}
