package peppol

import "encoding/xml"

// UBL 2.1 namespaces
const (
	nsInvoice    = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	nsCreditNote = "urn:oasis:names:specification:ubl:schema:xsd:CreditNote-2"
	nsCAC        = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	nsCBC        = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
)

// Peppol BIS Billing 3.0 identifiers
const (
	CustomizationID = "urn:cen.eu:en16931:2017#compliant#urn:fdc:peppol.eu:2017:poacc:billing:3.0"
	ProfileID       = "urn:fdc:peppol.eu:2017:poacc:billing:01:1.0"

	TypeCodeInvoice    = "380"
	TypeCodeCreditNote = "381"

	// PaymentMeansCreditTransfer is UNCL4461 code 30
	PaymentMeansCreditTransfer = "30"

	// UnitCodeEach is the UN/ECE Rec 20 code for "one"
	UnitCodeEach = "EA"

	// SchemeBelgianEnterprise is the ICD of the Belgian CBE number
	SchemeBelgianEnterprise = "0208"

	currency = "EUR"
)

// The structs below only cover the subset of UBL that Peppol BIS requires
// for a domestic credit transfer invoice and its credit note. Prefixed tag
// names are written verbatim, which keeps the cac/cbc prefixes readers expect.

type ublInvoice struct {
	XMLName              xml.Name           `xml:"Invoice"`
	Xmlns                string             `xml:"xmlns,attr"`
	XmlnsCAC             string             `xml:"xmlns:cac,attr"`
	XmlnsCBC             string             `xml:"xmlns:cbc,attr"`
	CustomizationID      string             `xml:"cbc:CustomizationID"`
	ProfileID            string             `xml:"cbc:ProfileID"`
	ID                   string             `xml:"cbc:ID"`
	IssueDate            string             `xml:"cbc:IssueDate"`
	DueDate              string             `xml:"cbc:DueDate,omitempty"`
	InvoiceTypeCode      string             `xml:"cbc:InvoiceTypeCode"`
	Note                 string             `xml:"cbc:Note,omitempty"`
	DocumentCurrencyCode string             `xml:"cbc:DocumentCurrencyCode"`
	BuyerReference       string             `xml:"cbc:BuyerReference"`
	Supplier             partyWrapper       `xml:"cac:AccountingSupplierParty"`
	Customer             partyWrapper       `xml:"cac:AccountingCustomerParty"`
	PaymentMeans         *paymentMeans      `xml:"cac:PaymentMeans,omitempty"`
	AllowanceCharges     []allowanceCharge  `xml:"cac:AllowanceCharge,omitempty"`
	TaxTotal             taxTotal           `xml:"cac:TaxTotal"`
	LegalMonetaryTotal   legalMonetaryTotal `xml:"cac:LegalMonetaryTotal"`
	Lines                []documentLine     `xml:"cac:InvoiceLine"`
}

type ublCreditNote struct {
	XMLName              xml.Name           `xml:"CreditNote"`
	Xmlns                string             `xml:"xmlns,attr"`
	XmlnsCAC             string             `xml:"xmlns:cac,attr"`
	XmlnsCBC             string             `xml:"xmlns:cbc,attr"`
	CustomizationID      string             `xml:"cbc:CustomizationID"`
	ProfileID            string             `xml:"cbc:ProfileID"`
	ID                   string             `xml:"cbc:ID"`
	IssueDate            string             `xml:"cbc:IssueDate"`
	CreditNoteTypeCode   string             `xml:"cbc:CreditNoteTypeCode"`
	Note                 string             `xml:"cbc:Note,omitempty"`
	DocumentCurrencyCode string             `xml:"cbc:DocumentCurrencyCode"`
	BuyerReference       string             `xml:"cbc:BuyerReference"`
	BillingReference     *billingReference  `xml:"cac:BillingReference,omitempty"`
	Supplier             partyWrapper       `xml:"cac:AccountingSupplierParty"`
	Customer             partyWrapper       `xml:"cac:AccountingCustomerParty"`
	AllowanceCharges     []allowanceCharge  `xml:"cac:AllowanceCharge,omitempty"`
	TaxTotal             taxTotal           `xml:"cac:TaxTotal"`
	LegalMonetaryTotal   legalMonetaryTotal `xml:"cac:LegalMonetaryTotal"`
	Lines                []documentLine     `xml:"cac:CreditNoteLine"`
}

type billingReference struct {
	InvoiceDocumentReference documentReference `xml:"cac:InvoiceDocumentReference"`
}

type documentReference struct {
	ID string `xml:"cbc:ID"`
}

type partyWrapper struct {
	Party party `xml:"cac:Party"`
}

type party struct {
	EndpointID       *identifier      `xml:"cbc:EndpointID,omitempty"`
	PostalAddress    postalAddress    `xml:"cac:PostalAddress"`
	PartyTaxScheme   *partyTaxScheme  `xml:"cac:PartyTaxScheme,omitempty"`
	PartyLegalEntity partyLegalEntity `xml:"cac:PartyLegalEntity"`
	Contact          *contact         `xml:"cac:Contact,omitempty"`
}

type identifier struct {
	SchemeID string `xml:"schemeID,attr,omitempty"`
	Value    string `xml:",chardata"`
}

type postalAddress struct {
	StreetName string  `xml:"cbc:StreetName,omitempty"`
	CityName   string  `xml:"cbc:CityName,omitempty"`
	PostalZone string  `xml:"cbc:PostalZone,omitempty"`
	Country    country `xml:"cac:Country"`
}

type country struct {
	IdentificationCode string `xml:"cbc:IdentificationCode"`
}

type partyTaxScheme struct {
	CompanyID string    `xml:"cbc:CompanyID"`
	TaxScheme taxScheme `xml:"cac:TaxScheme"`
}

type taxScheme struct {
	ID string `xml:"cbc:ID"`
}

type partyLegalEntity struct {
	RegistrationName string `xml:"cbc:RegistrationName"`
}

type contact struct {
	ElectronicMail string `xml:"cbc:ElectronicMail,omitempty"`
}

type paymentMeans struct {
	PaymentMeansCode string            `xml:"cbc:PaymentMeansCode"`
	PaymentID        string            `xml:"cbc:PaymentID,omitempty"`
	PayeeAccount     *financialAccount `xml:"cac:PayeeFinancialAccount,omitempty"`
}

type financialAccount struct {
	ID     string  `xml:"cbc:ID"`
	Branch *branch `xml:"cac:FinancialInstitutionBranch,omitempty"`
}

type branch struct {
	ID string `xml:"cbc:ID"`
}

type amount struct {
	CurrencyID string `xml:"currencyID,attr"`
	Value      string `xml:",chardata"`
}

type quantity struct {
	UnitCode string `xml:"unitCode,attr"`
	Value    string `xml:",chardata"`
}

type allowanceCharge struct {
	ChargeIndicator bool        `xml:"cbc:ChargeIndicator"`
	Reason          string      `xml:"cbc:AllowanceChargeReason"`
	Amount          amount      `xml:"cbc:Amount"`
	TaxCategory     taxCategory `xml:"cac:TaxCategory"`
}

type taxTotal struct {
	TaxAmount    amount        `xml:"cbc:TaxAmount"`
	TaxSubtotals []taxSubtotal `xml:"cac:TaxSubtotal"`
}

type taxSubtotal struct {
	TaxableAmount amount      `xml:"cbc:TaxableAmount"`
	TaxAmount     amount      `xml:"cbc:TaxAmount"`
	TaxCategory   taxCategory `xml:"cac:TaxCategory"`
}

type taxCategory struct {
	ID        string    `xml:"cbc:ID"`
	Percent   string    `xml:"cbc:Percent"`
	TaxScheme taxScheme `xml:"cac:TaxScheme"`
}

type legalMonetaryTotal struct {
	LineExtensionAmount   amount  `xml:"cbc:LineExtensionAmount"`
	TaxExclusiveAmount    amount  `xml:"cbc:TaxExclusiveAmount"`
	TaxInclusiveAmount    amount  `xml:"cbc:TaxInclusiveAmount"`
	AllowanceTotalAmount  *amount `xml:"cbc:AllowanceTotalAmount,omitempty"`
	ChargeTotalAmount     *amount `xml:"cbc:ChargeTotalAmount,omitempty"`
	PrepaidAmount         *amount `xml:"cbc:PrepaidAmount,omitempty"`
	PayableRoundingAmount *amount `xml:"cbc:PayableRoundingAmount,omitempty"`
	PayableAmount         amount  `xml:"cbc:PayableAmount"`
}

// documentLine is an InvoiceLine or a CreditNoteLine. Exactly one of the
// quantities is set, matching the enclosing document.
type documentLine struct {
	ID                  string    `xml:"cbc:ID"`
	InvoicedQuantity    *quantity `xml:"cbc:InvoicedQuantity,omitempty"`
	CreditedQuantity    *quantity `xml:"cbc:CreditedQuantity,omitempty"`
	LineExtensionAmount amount    `xml:"cbc:LineExtensionAmount"`
	Item                item      `xml:"cac:Item"`
	Price               price     `xml:"cac:Price"`
}

type item struct {
	Description string      `xml:"cbc:Description,omitempty"`
	Name        string      `xml:"cbc:Name"`
	TaxCategory taxCategory `xml:"cac:ClassifiedTaxCategory"`
}

type price struct {
	PriceAmount amount `xml:"cbc:PriceAmount"`
}
