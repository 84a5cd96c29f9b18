// Package classification scores legal documents against the known document
// categories using lexical and structural signals. Everything here is pure and
// deterministic: the same title and body always produce the same ranking.
package classification

import (
	"regexp"
	"strings"
)

// Family names a keyword family. A family is present when any of its members
// occurs in the lower-cased title and body.
type Family string

const (
	FamilyContract        Family = "contract"
	FamilyPleading        Family = "pleading"
	FamilyConfidentiality Family = "confidentiality"
	FamilyLease           Family = "lease"
	FamilyPowerOfAttorney Family = "power_of_attorney"
	FamilyTestamentary    Family = "testamentary"
	FamilyDiscovery       Family = "discovery"
	FamilyAffidavit       Family = "affidavit"
	FamilyMemo            Family = "memo"
	FamilyCorrespondence  Family = "correspondence"
	FamilyLegalFormality  Family = "legal_formality"
	FamilyFinancial       Family = "financial"
)

var keywordFamilies = []struct {
	family   Family
	keywords []string
}{
	{FamilyContract, []string{"agreement", "contract", "party", "parties", "hereinafter", "whereas", "terms and conditions", "obligations", "consideration"}},
	{FamilyPleading, []string{"plaintiff", "defendant", "complaint", "court", "petition", "cause of action", "prayer for relief", "jurisdiction", "respondent"}},
	{FamilyConfidentiality, []string{"confidential", "non-disclosure", "nondisclosure", "proprietary information", "trade secret"}},
	{FamilyLease, []string{"lease", "lessor", "lessee", "landlord", "tenant", "premises", "monthly rent", "security deposit"}},
	{FamilyPowerOfAttorney, []string{"power of attorney", "attorney-in-fact", "attorney in fact", "hereby appoint", "my agent"}},
	{FamilyTestamentary, []string{"last will", "testament", "testator", "testatrix", "executor", "bequeath", "beneficiar", "estate of"}},
	{FamilyDiscovery, []string{"interrogator", "request for production", "requests for production", "request for admission", "requests for admission", "deposition", "discovery"}},
	{FamilyAffidavit, []string{"affidavit", "affiant", "sworn statement", "under penalty of perjury", "being duly sworn", "depose and say"}},
	{FamilyMemo, []string{"memorandum", "memo:", "internal memo", "subject:", "prepared for:"}},
	{FamilyCorrespondence, []string{"dear ", "sincerely", "yours truly", "best regards", "kind regards", "to whom it may concern", "enclosed please find"}},
	{FamilyLegalFormality, []string{"hereby", "herein", "thereof", "whereof", "witnesseth", "pursuant to", "notwithstanding", "governing law"}},
	{FamilyFinancial, []string{"$", "payment", "amount due", "invoice", "balance", "usd", "subtotal", "interest rate", "purchase price"}},
}

var (
	datePattern      = regexp.MustCompile(`(?i)\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b|\b\d{4}-\d{2}-\d{2}\b|\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2},?\s+\d{4}\b`)
	signaturePattern = regexp.MustCompile(`(?im)signature\s*:|signed\s*:|^\s*_{5,}\s*$|\bby\s*:\s*_{3,}`)
	notaryPattern    = regexp.MustCompile(`(?i)notary public|notarized|subscribed and sworn|sworn to before me|sworn before me`)
	numberedPattern  = regexp.MustCompile(`(?m)^\s*(\d+(\.\d+)*[.)]|\([a-z0-9]+\))\s+\S`)
	bulletPattern    = regexp.MustCompile(`(?m)^\s*[-*•]\s+\S`)
	sectionPattern   = regexp.MustCompile(`(?i)\b(section|article|clause)\s+(\d+|[ivxlc]+)\b`)
	paragraphBreak   = regexp.MustCompile(`\n\s*\n`)
)

// Features is the fixed-shape signal record extracted from one document.
type Features struct {
	Families map[Family]bool `json:"families"`

	HasDates            bool `json:"has_dates"`
	HasSignatureLine    bool `json:"has_signature_line"`
	HasNotary           bool `json:"has_notary"`
	HasNumberedSections bool `json:"has_numbered_sections"`
	HasBullets          bool `json:"has_bullets"`
	MultiParagraph      bool `json:"multi_paragraph"`
	HasSectionKeywords  bool `json:"has_section_keywords"`

	WordCount      int `json:"word_count"`
	ParagraphCount int `json:"paragraph_count"`
}

// Has reports whether family f was detected.
func (f Features) Has(family Family) bool {
	return f.Families[family]
}

// DetectedFamilies returns the detected families in declaration order.
func (f Features) DetectedFamilies() []Family {
	var out []Family
	for _, kf := range keywordFamilies {
		if f.Families[kf.family] {
			out = append(out, kf.family)
		}
	}
	return out
}

// Extract scans a document's title and body.
func Extract(title, body string) Features {
	text := strings.ToLower(title + "\n" + body)

	f := Features{Families: make(map[Family]bool, len(keywordFamilies))}
	for _, kf := range keywordFamilies {
		f.Families[kf.family] = containsAny(text, kf.keywords)
	}

	f.HasDates = datePattern.MatchString(body)
	f.HasSignatureLine = signaturePattern.MatchString(body)
	f.HasNotary = notaryPattern.MatchString(body)
	f.HasNumberedSections = numberedPattern.MatchString(body)
	f.HasBullets = bulletPattern.MatchString(body)
	f.HasSectionKeywords = sectionPattern.MatchString(body)

	f.WordCount = len(strings.Fields(body))
	f.ParagraphCount = countParagraphs(body)
	f.MultiParagraph = f.ParagraphCount > 1

	return f
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func countParagraphs(body string) int {
	n := 0
	for _, p := range paragraphBreak.Split(body, -1) {
		if strings.TrimSpace(p) != "" {
			n++
		}
	}
	return n
}
