// Package peppol serializes invoices as Peppol BIS Billing 3.0 UBL documents.
package peppol

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/quotevoice/backend/internal/domain/invoice"
	"github.com/quotevoice/backend/internal/domain/organization"
	"github.com/quotevoice/backend/internal/domain/shared"
	"github.com/quotevoice/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

const (
	taxCategoryStandard = "S"
	taxCategoryZero     = "Z"
	roundingReason      = "Rounding"
)

// Export renders inv as a UBL 2.1 document issued by supplier: a CreditNote
// for credit notes and an Invoice for everything else
func Export(inv *invoice.Invoice, supplier *organization.Organization) (string, error) {
	if inv == nil {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "Invoice is required")
	}
	if supplier == nil {
		return "", shared.NewDomainError(shared.CodeInvalidState, "An organization profile is required for Peppol export")
	}
	if strings.TrimSpace(inv.InvoiceNumber) == "" {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "Invoice number cannot be empty")
	}

	var doc any
	if inv.Type == invoice.TypeCreditNote {
		doc = buildCreditNote(inv, supplier)
	} else {
		doc = buildInvoice(inv, supplier)
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal UBL document: %w", err)
	}
	return xml.Header + string(out), nil
}

func buildInvoice(inv *invoice.Invoice, supplier *organization.Organization) ublInvoice {
	category := taxCat(inv.TaxRate)
	lines, lineSum := buildLines(inv, category, func(l *documentLine, q quantity) { l.InvoicedQuantity = &q })
	allowances, totals := monetaryTotals(inv, lineSum, category)

	if inv.AmountPaid.IsPositive() {
		prepaid := money(inv.AmountPaid)
		totals.PrepaidAmount = &prepaid
		totals.PayableAmount = money(inv.Total.Sub(inv.AmountPaid))
	}

	return ublInvoice{
		Xmlns:                nsInvoice,
		XmlnsCAC:             nsCAC,
		XmlnsCBC:             nsCBC,
		CustomizationID:      CustomizationID,
		ProfileID:            ProfileID,
		ID:                   inv.InvoiceNumber,
		IssueDate:            inv.IssueDate.Format("2006-01-02"),
		DueDate:              inv.DueDate.Format("2006-01-02"),
		InvoiceTypeCode:      TypeCodeInvoice,
		Note:                 inv.Notes,
		DocumentCurrencyCode: currency,
		BuyerReference:       inv.InvoiceNumber,
		Supplier:             supplierParty(supplier),
		Customer:             customerParty(inv),
		PaymentMeans:         buildPaymentMeans(inv.StructuredReference, supplier),
		AllowanceCharges:     allowances,
		TaxTotal:             buildTaxTotal(inv, category),
		LegalMonetaryTotal:   totals,
		Lines:                lines,
	}
}

// buildCreditNote mirrors the credited invoice. Nothing is requested for
// payment, so there are no payment means and no prepaid amount.
func buildCreditNote(inv *invoice.Invoice, supplier *organization.Organization) ublCreditNote {
	category := taxCat(inv.TaxRate)
	lines, lineSum := buildLines(inv, category, func(l *documentLine, q quantity) { l.CreditedQuantity = &q })
	allowances, totals := monetaryTotals(inv, lineSum, category)

	doc := ublCreditNote{
		Xmlns:                nsCreditNote,
		XmlnsCAC:             nsCAC,
		XmlnsCBC:             nsCBC,
		CustomizationID:      CustomizationID,
		ProfileID:            ProfileID,
		ID:                   inv.InvoiceNumber,
		IssueDate:            inv.IssueDate.Format("2006-01-02"),
		CreditNoteTypeCode:   TypeCodeCreditNote,
		Note:                 inv.Notes,
		DocumentCurrencyCode: currency,
		BuyerReference:       inv.InvoiceNumber,
		Supplier:             supplierParty(supplier),
		Customer:             customerParty(inv),
		AllowanceCharges:     allowances,
		TaxTotal:             buildTaxTotal(inv, category),
		LegalMonetaryTotal:   totals,
		Lines:                lines,
	}
	if inv.CreditedInvoice != "" {
		doc.BillingReference = &billingReference{
			InvoiceDocumentReference: documentReference{ID: inv.CreditedInvoice},
		}
	}
	return doc
}

func buildLines(inv *invoice.Invoice, category taxCategory, setQuantity func(*documentLine, quantity)) ([]documentLine, decimal.Decimal) {
	lines := make([]documentLine, 0, len(inv.Items))
	lineSum := decimal.Zero
	for i, it := range inv.Items {
		lineSum = lineSum.Add(it.Total)
		name, desc, _ := strings.Cut(it.Description, "\n")
		line := documentLine{
			ID:                  strconv.Itoa(i + 1),
			LineExtensionAmount: money(it.Total),
			Item: item{
				Name:        name,
				Description: strings.TrimSpace(desc),
				TaxCategory: category,
			},
			Price: price{PriceAmount: money(it.UnitPrice)},
		}
		setQuantity(&line, quantity{UnitCode: UnitCodeEach, Value: it.Quantity.String()})
		lines = append(lines, line)
	}
	return lines, lineSum
}

func buildTaxTotal(inv *invoice.Invoice, category taxCategory) taxTotal {
	return taxTotal{
		TaxAmount: money(inv.TaxAmount),
		TaxSubtotals: []taxSubtotal{{
			TaxableAmount: money(inv.Subtotal),
			TaxAmount:     money(inv.TaxAmount),
			TaxCategory:   category,
		}},
	}
}

// monetaryTotals keeps the document totals consistent while the stored
// amounts stay as invoiced:
//   - scaled lines round on their own, and their difference to the subtotal
//     is a document level allowance or charge
//   - a deposit rounds subtotal, tax and total separately, so total may
//     differ from subtotal plus tax by a cent. That difference is the
//     payable rounding amount and the payable amount stays equal to total.
func monetaryTotals(inv *invoice.Invoice, lineSum decimal.Decimal, category taxCategory) ([]allowanceCharge, legalMonetaryTotal) {
	taxInclusive := inv.Subtotal.Add(inv.TaxAmount)
	totals := legalMonetaryTotal{
		LineExtensionAmount: money(lineSum),
		TaxExclusiveAmount:  money(inv.Subtotal),
		TaxInclusiveAmount:  money(taxInclusive),
		PayableAmount:       money(inv.Total),
	}
	if rounding := inv.Total.Sub(taxInclusive); !rounding.IsZero() {
		r := money(rounding)
		totals.PayableRoundingAmount = &r
	}

	diff := inv.Subtotal.Sub(lineSum)
	if diff.IsZero() {
		return nil, totals
	}
	ac := allowanceCharge{
		ChargeIndicator: diff.IsPositive(),
		Reason:          roundingReason,
		Amount:          money(diff.Abs()),
		TaxCategory:     category,
	}
	adjustment := money(diff.Abs())
	if ac.ChargeIndicator {
		totals.ChargeTotalAmount = &adjustment
	} else {
		totals.AllowanceTotalAmount = &adjustment
	}
	return []allowanceCharge{ac}, totals
}

func supplierParty(supplier *organization.Organization) partyWrapper {
	return partyWrapper{Party: buildParty(supplier.Name, supplier.VATNumber, supplier.Email, supplier.Address)}
}

func customerParty(inv *invoice.Invoice) partyWrapper {
	return partyWrapper{Party: buildParty(inv.ClientName, inv.ClientVATNumber, inv.ClientEmail, inv.ClientAddress)}
}

func buildParty(name, vatNumber, email string, addr valueobject.Address) party {
	code := strings.ToUpper(strings.TrimSpace(addr.Country))
	if len(code) != 2 {
		code = valueobject.DefaultCountry
	}
	p := party{
		PostalAddress: postalAddress{
			StreetName: addr.Street,
			CityName:   addr.City,
			PostalZone: addr.PostalCode,
			Country:    country{IdentificationCode: code},
		},
		PartyLegalEntity: partyLegalEntity{RegistrationName: name},
	}
	if vat := normalizeVAT(vatNumber); vat != "" {
		p.PartyTaxScheme = &partyTaxScheme{CompanyID: vat, TaxScheme: taxScheme{ID: "VAT"}}
		if strings.HasPrefix(vat, "BE") {
			p.EndpointID = &identifier{SchemeID: SchemeBelgianEnterprise, Value: strings.TrimPrefix(vat, "BE")}
		}
	}
	if email != "" {
		p.Contact = &contact{ElectronicMail: email}
	}
	return p
}

func buildPaymentMeans(reference string, supplier *organization.Organization) *paymentMeans {
	pm := &paymentMeans{
		PaymentMeansCode: PaymentMeansCreditTransfer,
		PaymentID:        reference,
	}
	if supplier.HasBankAccount() {
		pm.PayeeAccount = &financialAccount{ID: supplier.IBAN}
		if supplier.BIC != "" {
			pm.PayeeAccount.Branch = &branch{ID: supplier.BIC}
		}
	}
	return pm
}

// normalizeVAT keeps letters and digits: "BE 0123.456.789" becomes "BE0123456789"
func normalizeVAT(v string) string {
	return strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, v))
}

func taxCat(rate decimal.Decimal) taxCategory {
	id := taxCategoryStandard
	if rate.IsZero() {
		id = taxCategoryZero
	}
	return taxCategory{ID: id, Percent: rate.String(), TaxScheme: taxScheme{ID: "VAT"}}
}

func money(d decimal.Decimal) amount {
	return amount{CurrencyID: currency, Value: d.StringFixed(2)}
}
