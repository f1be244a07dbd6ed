package printing

import (
	"time"

	"github.com/quotevoice/backend/internal/domain/document"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Labels are the fixed captions printed on a document
type Labels struct {
	Quote         string
	Invoice       string
	CreditNote    string
	Number        string
	IssueDate     string
	DueDate       string
	ValidUntil    string
	Client        string
	VAT           string
	Description   string
	Quantity      string
	Unit          string
	UnitPrice     string
	LineTotal     string
	Subtotal      string
	TaxAmount     string
	Total         string
	AmountPaid    string
	AmountDue     string
	Notes         string
	Terms         string
	TermsText     string
	Signature     string
	PaymentRef    string
	BankAccount   string
	ScanToPay     string
	Watermark     string
	Page          string
	GeneratedWith string
}

var labels = map[document.Locale]Labels{
	document.LocaleNL: {
		Quote:         "Offerte",
		Invoice:       "Factuur",
		CreditNote:    "Creditnota",
		Number:        "Nummer",
		IssueDate:     "Datum",
		DueDate:       "Vervaldatum",
		ValidUntil:    "Geldig tot",
		Client:        "Klant",
		VAT:           "Btw",
		Description:   "Omschrijving",
		Quantity:      "Aantal",
		Unit:          "Eenheid",
		UnitPrice:     "Eenheidsprijs",
		LineTotal:     "Totaal",
		Subtotal:      "Subtotaal",
		TaxAmount:     "Btw",
		Total:         "Totaal incl. btw",
		AmountPaid:    "Reeds betaald",
		AmountDue:     "Te betalen",
		Notes:         "Opmerkingen",
		Terms:         "Voorwaarden",
		TermsText:     "Betaling binnen de vermelde termijn met de gestructureerde mededeling.",
		Signature:     "Voor akkoord",
		PaymentRef:    "Gestructureerde mededeling",
		BankAccount:   "Rekening",
		ScanToPay:     "Scan om te betalen",
		Watermark:     "Gratis versie",
		Page:          "Pagina",
		GeneratedWith: "Opgemaakt met QuoteVoice",
	},
	document.LocaleFR: {
		Quote:         "Devis",
		Invoice:       "Facture",
		CreditNote:    "Note de crédit",
		Number:        "Numéro",
		IssueDate:     "Date",
		DueDate:       "Échéance",
		ValidUntil:    "Valable jusqu'au",
		Client:        "Client",
		VAT:           "TVA",
		Description:   "Description",
		Quantity:      "Quantité",
		Unit:          "Unité",
		UnitPrice:     "Prix unitaire",
		LineTotal:     "Total",
		Subtotal:      "Sous-total",
		TaxAmount:     "TVA",
		Total:         "Total TVAC",
		AmountPaid:    "Déjà payé",
		AmountDue:     "À payer",
		Notes:         "Remarques",
		Terms:         "Conditions",
		TermsText:     "Paiement dans le délai indiqué avec la communication structurée.",
		Signature:     "Bon pour accord",
		PaymentRef:    "Communication structurée",
		BankAccount:   "Compte",
		ScanToPay:     "Scannez pour payer",
		Watermark:     "Version gratuite",
		Page:          "Page",
		GeneratedWith: "Réalisé avec QuoteVoice",
	},
	document.LocaleEN: {
		Quote:         "Quote",
		Invoice:       "Invoice",
		CreditNote:    "Credit note",
		Number:        "Number",
		IssueDate:     "Date",
		DueDate:       "Due date",
		ValidUntil:    "Valid until",
		Client:        "Client",
		VAT:           "VAT",
		Description:   "Description",
		Quantity:      "Quantity",
		Unit:          "Unit",
		UnitPrice:     "Unit price",
		LineTotal:     "Total",
		Subtotal:      "Subtotal",
		TaxAmount:     "VAT",
		Total:         "Total incl. VAT",
		AmountPaid:    "Already paid",
		AmountDue:     "Amount due",
		Notes:         "Notes",
		Terms:         "Terms",
		TermsText:     "Please pay within the stated term using the structured reference.",
		Signature:     "Agreed and accepted",
		PaymentRef:    "Structured reference",
		BankAccount:   "Account",
		ScanToPay:     "Scan to pay",
		Watermark:     "Free version",
		Page:          "Page",
		GeneratedWith: "Made with QuoteVoice",
	},
}

// LabelsFor returns the captions for l, falling back to the default locale
func LabelsFor(l document.Locale) Labels {
	if lb, ok := labels[l]; ok {
		return lb
	}
	return labels[document.DefaultLocale]
}

func languageTag(l document.Locale) language.Tag {
	switch l {
	case document.LocaleNL:
		return language.MustParse("nl-BE")
	case document.LocaleEN:
		return language.BritishEnglish
	}
	return language.MustParse("fr-BE")
}

// Formatter renders numbers, money and dates the way the locale writes them
type Formatter struct {
	locale  document.Locale
	tag     language.Tag
	printer *message.Printer
}

// NewFormatter creates a formatter for l
func NewFormatter(l document.Locale) *Formatter {
	if _, ok := labels[l]; !ok {
		l = document.DefaultLocale
	}
	tag := languageTag(l)
	return &Formatter{
		locale:  l,
		tag:     tag,
		printer: message.NewPrinter(tag),
	}
}

// Amount formats d with two decimals and locale grouping
func (f *Formatter) Amount(d decimal.Decimal) string {
	return f.printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}

// Money formats d as a euro amount
func (f *Formatter) Money(d decimal.Decimal) string {
	if f.locale == document.LocaleEN {
		return "€" + f.Amount(d)
	}
	return f.Amount(d) + " €"
}

// Quantity formats a quantity without trailing zeros
func (f *Formatter) Quantity(d decimal.Decimal) string {
	scale := 0
	if !d.Equal(d.Truncate(0)) {
		scale = 2
	}
	return f.printer.Sprint(number.Decimal(d.InexactFloat64(), number.Scale(scale)))
}

// Percent formats a VAT rate such as 21 or 5.5
func (f *Formatter) Percent(d decimal.Decimal) string {
	return f.Quantity(d) + "%"
}

// Date formats t as dd/mm/yyyy, or yyyy-mm-dd in English
func (f *Formatter) Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if f.locale == document.LocaleEN {
		return t.Format("2006-01-02")
	}
	return t.Format("02/01/2006")
}

// Upper uppercases s following the locale's casing rules
func (f *Formatter) Upper(s string) string {
	return cases.Upper(f.tag).String(s)
}
