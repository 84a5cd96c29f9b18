package classification

import "adlaan-backend/internal/models"

type tagRule struct {
	name    string
	applies func(f Features, category models.DocumentType) bool
}

func isOneOf(category models.DocumentType, types ...models.DocumentType) bool {
	for _, t := range types {
		if category == t {
			return true
		}
	}
	return false
}

var tagRules = []tagRule{
	{"Legal", func(f Features, c models.DocumentType) bool {
		return f.Has(FamilyLegalFormality) || c != models.DocumentTypeOther
	}},
	{"Contractual", func(f Features, c models.DocumentType) bool {
		return f.Has(FamilyContract) || isOneOf(c, models.DocumentTypeContract, models.DocumentTypeNDA,
			models.DocumentTypeLeaseAgreement, models.DocumentTypeSettlementAgreement)
	}},
	{"Litigation", func(f Features, c models.DocumentType) bool {
		return f.Has(FamilyPleading) || f.Has(FamilyDiscovery) || isOneOf(c, models.DocumentTypeComplaint,
			models.DocumentTypeLegalBrief, models.DocumentTypeDiscoveryRequest, models.DocumentTypeSettlementAgreement)
	}},
	{"Financial", func(f Features, c models.DocumentType) bool {
		return f.Has(FamilyFinancial) || isOneOf(c, models.DocumentTypeInvoice, models.DocumentTypeFinancialStatement)
	}},
	{"Confidential", func(f Features, c models.DocumentType) bool {
		return f.Has(FamilyConfidentiality) || c == models.DocumentTypeNDA
	}},
	{"Real Estate", func(f Features, c models.DocumentType) bool {
		return f.Has(FamilyLease) || c == models.DocumentTypeLeaseAgreement
	}},
	{"Estate Planning", func(f Features, c models.DocumentType) bool {
		return f.Has(FamilyTestamentary) || f.Has(FamilyPowerOfAttorney) ||
			isOneOf(c, models.DocumentTypeWill, models.DocumentTypePowerOfAttorney)
	}},
	{"Sworn", func(f Features, c models.DocumentType) bool {
		return f.HasNotary || c == models.DocumentTypeAffidavit
	}},
	{"Correspondence", func(f Features, c models.DocumentType) bool {
		return f.Has(FamilyCorrespondence) || c == models.DocumentTypeLetter
	}},
}

// DeriveTags evaluates each tag rule independently against the features and
// the winning category. Tags come back in rule order.
func DeriveTags(f Features, category models.DocumentType) []string {
	tags := []string{}
	for _, r := range tagRules {
		if r.applies(f, category) {
			tags = append(tags, r.name)
		}
	}
	return tags
}
