package generation

import (
	"errors"
	"fmt"

	"adlaan-backend/internal/models"
)

// Template is the text registered for one document category.
type Template struct {
	Type models.DocumentType
	Name string
	Body string
}

// Placeholders lists the distinct tokens of the template body.
func (t Template) Placeholders() []string {
	return Unresolved(t.Body)
}

// Registry maps categories to templates. It is built once and never mutated,
// so it is safe to share between goroutines.
type Registry struct {
	templates map[models.DocumentType]Template
	order     []models.DocumentType
}

var ErrMissingFallback = errors.New("template registry requires an OTHER template")

// NewRegistry builds a registry. An OTHER template is mandatory because it is
// the fallback for every unregistered category.
func NewRegistry(templates ...Template) (*Registry, error) {
	r := &Registry{templates: make(map[models.DocumentType]Template, len(templates))}
	for _, t := range templates {
		if _, dup := r.templates[t.Type]; dup {
			return nil, fmt.Errorf("duplicate template for %s", t.Type)
		}
		r.templates[t.Type] = t
		r.order = append(r.order, t.Type)
	}
	if _, ok := r.templates[models.DocumentTypeOther]; !ok {
		return nil, ErrMissingFallback
	}
	return r, nil
}

// DefaultRegistry returns the built-in template library.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(builtinTemplates...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the template for t, or the OTHER template when t has none.
func (r *Registry) Lookup(t models.DocumentType) Template {
	if tpl, ok := r.templates[t]; ok {
		return tpl
	}
	return r.templates[models.DocumentTypeOther]
}

// Has reports whether t has its own template.
func (r *Registry) Has(t models.DocumentType) bool {
	_, ok := r.templates[t]
	return ok
}

// Types returns the registered categories in registration order.
func (r *Registry) Types() []models.DocumentType {
	out := make([]models.DocumentType, len(r.order))
	copy(out, r.order)
	return out
}

var builtinTemplates = []Template{
	{
		Type: models.DocumentTypeContract,
		Name: "Services Agreement",
		Body: `SERVICES AGREEMENT

Case Reference: [CASE_NUMBER]
Date: [DATE]

This Agreement is entered into between [ORGANIZATION_NAME] ("Provider") and [CLIENT_NAME] ("Client").

1. Term. This Agreement begins on [START_DATE] and continues until [END_DATE].
2. Services. Provider shall perform the following services: [SERVICES].
3. Compensation. Client shall pay [PAYMENT_TERMS].
4. Governing Law. This Agreement is governed by the laws of [GOVERNING_LAW].

IN WITNESS WHEREOF, the parties have executed this Agreement as of the date first written above.

Provider Signature: ______________
Client Signature: ______________
`,
	},
	{
		Type: models.DocumentTypeNDA,
		Name: "Mutual Non-Disclosure Agreement",
		Body: `MUTUAL NON-DISCLOSURE AGREEMENT

Date: [DATE]

This Non-Disclosure Agreement is made between [ORGANIZATION_NAME] and [CLIENT_NAME] (each a "Party").

1. Purpose. The parties wish to exchange Confidential Information in connection with [PURPOSE].
2. Obligations. Each Party shall hold the other's Confidential Information in strict confidence.
3. Term. The obligations herein survive for [DURATION] from the Effective Date of [EFFECTIVE_DATE].

Signature: ______________
Signature: ______________
`,
	},
	{
		Type: models.DocumentTypeLeaseAgreement,
		Name: "Residential Lease",
		Body: `RESIDENTIAL LEASE AGREEMENT

Date: [DATE]

Landlord: [ORGANIZATION_NAME]
Tenant: [CLIENT_NAME]
Premises: [PROPERTY_ADDRESS]

1. Term. The lease term begins on [START_DATE] and ends on [END_DATE].
2. Rent. Tenant shall pay monthly rent of [MONTHLY_RENT], due on the first day of each month.
3. Security Deposit. Tenant shall deposit [SECURITY_DEPOSIT] upon signing.

Landlord Signature: ______________
Tenant Signature: ______________
`,
	},
	{
		Type: models.DocumentTypePowerOfAttorney,
		Name: "General Power of Attorney",
		Body: `GENERAL POWER OF ATTORNEY

I, [CLIENT_NAME], hereby appoint [AGENT_NAME] as my attorney-in-fact to act on my behalf in [SCOPE].

This power of attorney is effective on [DATE] and remains in effect until [END_DATE].

Principal Signature: ______________

Subscribed and sworn before me, Notary Public.
`,
	},
	{
		Type: models.DocumentTypeWill,
		Name: "Last Will and Testament",
		Body: `LAST WILL AND TESTAMENT OF [CLIENT_NAME]

I, [CLIENT_NAME], being of sound mind, declare this to be my last will and testament.

I appoint [EXECUTOR_NAME] as executor of this will.

I bequeath my estate to [BENEFICIARIES].

Signed on [DATE].

Testator Signature: ______________
`,
	},
	{
		Type: models.DocumentTypeAffidavit,
		Name: "General Affidavit",
		Body: `AFFIDAVIT OF [CLIENT_NAME]

Case No.: [CASE_NUMBER]

I, [CLIENT_NAME], being duly sworn, depose and say:

[STATEMENT]

I declare under penalty of perjury that the foregoing is true and correct.

Affiant Signature: ______________

Subscribed and sworn to before me on [DATE].
Notary Public
`,
	},
	{
		Type: models.DocumentTypeComplaint,
		Name: "Civil Complaint",
		Body: `IN THE [COURT_NAME]

Case No.: [CASE_NUMBER]

[CLIENT_NAME], Plaintiff,
v.
[DEFENDANT_NAME], Defendant.

COMPLAINT

1. Plaintiff brings this action pursuant to [LEGAL_BASIS].
2. The court has jurisdiction over this matter.
3. [FACTS]

PRAYER FOR RELIEF

Plaintiff requests [RELIEF_SOUGHT].

Dated: [DATE]

Counsel for Plaintiff, [ORGANIZATION_NAME]
`,
	},
	{
		Type: models.DocumentTypeMemorandum,
		Name: "Internal Memorandum",
		Body: `MEMORANDUM

Prepared for: [CLIENT_NAME]
From: [ORGANIZATION_NAME]
Date: [DATE]
Subject: [SUBJECT]
Matter: [CASE_NUMBER]

[SUMMARY]

- Recommendation: [RECOMMENDATION]
`,
	},
	{
		Type: models.DocumentTypeLetter,
		Name: "Client Letter",
		Body: `[ORGANIZATION_NAME]
[DATE]

Re: [SUBJECT] (Matter [CASE_NUMBER])

Dear [CLIENT_NAME],

[BODY]

Sincerely,

[SENDER_NAME]
`,
	},
	{
		Type: models.DocumentTypeOther,
		Name: "General Document",
		Body: `[TITLE]

Prepared by [ORGANIZATION_NAME] for [CLIENT_NAME]
Date: [DATE]
Reference: [CASE_NUMBER]

[CONTENT]
`,
	},
}
