package models

import "time"

// DocumentType is the closed set of legal document categories.
type DocumentType string

const (
	DocumentTypeContract            DocumentType = "CONTRACT"
	DocumentTypeNDA                 DocumentType = "NDA"
	DocumentTypeLeaseAgreement      DocumentType = "LEASE_AGREEMENT"
	DocumentTypeSettlementAgreement DocumentType = "SETTLEMENT_AGREEMENT"
	DocumentTypePowerOfAttorney     DocumentType = "POWER_OF_ATTORNEY"
	DocumentTypeWill                DocumentType = "WILL"
	DocumentTypeComplaint           DocumentType = "COMPLAINT"
	DocumentTypeLegalBrief          DocumentType = "LEGAL_BRIEF"
	DocumentTypeDiscoveryRequest    DocumentType = "DISCOVERY_REQUEST"
	DocumentTypeAffidavit           DocumentType = "AFFIDAVIT"
	DocumentTypeMemorandum          DocumentType = "MEMORANDUM"
	DocumentTypeLetter              DocumentType = "LETTER"
	DocumentTypeInvoice             DocumentType = "INVOICE"
	DocumentTypeFinancialStatement  DocumentType = "FINANCIAL_STATEMENT"
	DocumentTypeOther               DocumentType = "OTHER"
)

// DocumentTypes lists every category in declaration order. Ranking ties are
// broken by this order.
var DocumentTypes = []DocumentType{
	DocumentTypeContract,
	DocumentTypeNDA,
	DocumentTypeLeaseAgreement,
	DocumentTypeSettlementAgreement,
	DocumentTypePowerOfAttorney,
	DocumentTypeWill,
	DocumentTypeComplaint,
	DocumentTypeLegalBrief,
	DocumentTypeDiscoveryRequest,
	DocumentTypeAffidavit,
	DocumentTypeMemorandum,
	DocumentTypeLetter,
	DocumentTypeInvoice,
	DocumentTypeFinancialStatement,
	DocumentTypeOther,
}

// Valid reports whether t is a known category.
func (t DocumentType) Valid() bool {
	for _, known := range DocumentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Document is a legal document record owned by an organization member.
type Document struct {
	ID                       uint         `gorm:"primarykey" json:"id"`
	CreatedAt                time.Time    `json:"created_at"`
	UpdatedAt                time.Time    `json:"updated_at"`
	OrganizationID           uint         `gorm:"index;not null" json:"organization_id"`
	OwnerID                  uint         `gorm:"index;not null" json:"owner_id"`
	CaseID                   *uint        `gorm:"index" json:"case_id,omitempty"`
	ClientID                 *uint        `gorm:"index" json:"client_id,omitempty"`
	Title                    string       `gorm:"not null" json:"title"`
	Description              string       `json:"description"`
	Content                  string       `gorm:"type:text" json:"content"`
	DocumentType             DocumentType `gorm:"type:varchar(40);index;default:'OTHER'" json:"document_type"`
	ClassificationConfidence *float64     `json:"classification_confidence,omitempty"`
	ClassificationMetadata   JSON         `json:"classification_metadata,omitempty"`
	ClassifiedAt             *time.Time   `gorm:"index" json:"classified_at,omitempty"`
	StorageURL               string       `json:"storage_url,omitempty"`
}
