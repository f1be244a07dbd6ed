package printing

import (
	"bytes"
	"context"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	ptToMM      = 0.3528
	qrImageName = "epc-qr"
	qrSizeMM    = 30.0
)

// GofpdfRenderer draws documents with gofpdf. It needs no browser and is
// used when Chrome is missing. Remote logos are not fetched.
type GofpdfRenderer struct{}

// NewGofpdfRenderer creates the pure Go renderer
func NewGofpdfRenderer() *GofpdfRenderer {
	return &GofpdfRenderer{}
}

// Name implements DocumentRenderer
func (r *GofpdfRenderer) Name() string { return "gofpdf" }

type rgb struct{ r, g, b int }

func parseHexColor(s string, fallback rgb) rgb {
	if len(s) != 7 || s[0] != '#' {
		return fallback
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return fallback
	}
	return rgb{int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF)}
}

// pdfWriter carries the state of one rendering
type pdfWriter struct {
	pdf     *gofpdf.Fpdf
	tr      func(string) string
	doc     *Document
	l       Labels
	f       *Formatter
	primary rgb
	accent  rgb
	lineH   float64
	width   float64
}

func (w *pdfWriter) text(s string) string {
	// the cp1252 core fonts have no narrow no-break space
	return w.tr(strings.ReplaceAll(s, "\u202f", " "))
}

// RenderDocument implements DocumentRenderer
func (r *GofpdfRenderer) RenderDocument(ctx context.Context, doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "document is nil", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeRenderTimeout, "render cancelled", err)
	}

	layout := doc.Config.Layout
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(float64(layout.Margins.Left), float64(layout.Margins.Top), float64(layout.Margins.Right))
	pdf.SetAutoPageBreak(true, float64(layout.Margins.Bottom)+5)
	pdf.AliasNbPages("")

	pageW, _ := pdf.GetPageSize()
	w := &pdfWriter{
		pdf:     pdf,
		tr:      pdf.UnicodeTranslatorFromDescriptor(""),
		doc:     doc,
		l:       doc.Labels(),
		f:       NewFormatter(doc.Config.Locale),
		primary: parseHexColor(doc.Config.Branding.PrimaryColor, rgb{31, 58, 95}),
		accent:  parseHexColor(doc.Config.Branding.SecondaryColor, rgb{242, 165, 65}),
		lineH:   layout.Fonts.Table * ptToMM * layout.LineHeight,
		width:   pageW - float64(layout.Margins.Left) - float64(layout.Margins.Right),
	}
	pdf.SetTitle(doc.Title()+" "+doc.Number, true)
	pdf.SetCreator("QuoteVoice", true)
	pdf.SetHeaderFunc(w.watermark)
	pdf.SetFooterFunc(w.footer)

	pdf.AddPage()
	w.header()
	w.parties()
	w.items()
	w.totals()
	w.payment()
	w.notes()

	if err := pdf.Error(); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "gofpdf rendering failed", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "gofpdf output failed", err)
	}
	return buf.Bytes(), nil
}

func (w *pdfWriter) watermark() {
	if !w.doc.Config.Branding.ShowWatermark {
		return
	}
	pageW, pageH := w.pdf.GetPageSize()
	w.pdf.TransformBegin()
	w.pdf.TransformRotate(30, pageW/2, pageH/2)
	w.pdf.SetFont("Helvetica", "B", 60)
	w.pdf.SetTextColor(238, 238, 238)
	label := w.text(w.l.Watermark)
	w.pdf.Text(pageW/2-w.pdf.GetStringWidth(label)/2, pageH/2, label)
	w.pdf.TransformEnd()
	w.pdf.SetTextColor(0, 0, 0)
}

func (w *pdfWriter) footer() {
	fonts := w.doc.Config.Layout.Fonts
	w.pdf.SetY(-float64(w.doc.Config.Layout.Margins.Bottom))
	w.pdf.SetFont("Helvetica", "", fonts.Footer)
	w.pdf.SetTextColor(119, 119, 119)

	parts := make([]string, 0, 3)
	if ft := w.doc.Config.Branding.FooterText; ft != "" {
		parts = append(parts, ft)
	}
	if !w.doc.Config.Branding.WhiteLabel {
		parts = append(parts, w.l.GeneratedWith)
	}
	parts = append(parts, w.l.Page+" "+strconv.Itoa(w.pdf.PageNo())+"/{nb}")
	w.pdf.CellFormat(0, fonts.Footer*ptToMM*1.5, w.text(strings.Join(parts, "  |  ")), "", 0, "C", false, 0, "")
	w.pdf.SetTextColor(0, 0, 0)
}

func (w *pdfWriter) header() {
	fonts := w.doc.Config.Layout.Fonts
	w.pdf.SetFont("Helvetica", "B", fonts.Title)
	w.pdf.SetTextColor(w.primary.r, w.primary.g, w.primary.b)
	w.pdf.CellFormat(w.width/2, fonts.Title*ptToMM*1.4, w.text(w.f.Upper(w.doc.Title())), "", 0, "L", false, 0, "")

	w.pdf.SetFont("Helvetica", "B", fonts.Heading)
	w.pdf.CellFormat(w.width/2, fonts.Title*ptToMM*1.4, w.text(w.doc.Seller.Name), "", 1, "R", false, 0, "")
	w.pdf.SetTextColor(0, 0, 0)

	w.pdf.SetFont("Helvetica", "", fonts.Body)
	bodyH := fonts.Body * ptToMM * w.doc.Config.Layout.LineHeight
	w.metaRow(w.l.Number, w.doc.Number, bodyH)
	w.metaRow(w.l.IssueDate, w.f.Date(w.doc.IssueDate), bodyH)
	if w.doc.DueDate != nil {
		caption := w.l.DueDate
		if w.doc.Kind == KindQuote {
			caption = w.l.ValidUntil
		}
		w.metaRow(caption, w.f.Date(*w.doc.DueDate), bodyH)
	}

	y := w.pdf.GetY() + 2
	w.pdf.SetDrawColor(w.accent.r, w.accent.g, w.accent.b)
	w.pdf.SetLineWidth(0.6)
	w.pdf.Line(float64(w.doc.Config.Layout.Margins.Left), y, float64(w.doc.Config.Layout.Margins.Left)+w.width, y)
	w.pdf.SetLineWidth(0.2)
	w.pdf.SetDrawColor(0, 0, 0)
	w.pdf.SetY(y + 4)
}

func (w *pdfWriter) metaRow(caption, value string, h float64) {
	w.pdf.CellFormat(30, h, w.text(caption), "", 0, "L", false, 0, "")
	w.pdf.CellFormat(0, h, w.text(value), "", 1, "L", false, 0, "")
}

func partyLines(p Party, vatCaption string) []string {
	lines := []string{p.Name}
	lines = append(lines, p.Address.Lines()...)
	if p.VATNumber != "" {
		lines = append(lines, vatCaption+" "+p.VATNumber)
	}
	if p.Email != "" {
		lines = append(lines, p.Email)
	}
	return lines
}

func (w *pdfWriter) parties() {
	fonts := w.doc.Config.Layout.Fonts
	h := fonts.Body * ptToMM * w.doc.Config.Layout.LineHeight
	colW := w.width / 2

	seller := partyLines(w.doc.Seller, w.l.VAT)
	client := append([]string{w.l.Client}, partyLines(w.doc.Client, w.l.VAT)...)
	// align the seller block with the client's name line
	seller = append([]string{""}, seller...)

	rows := max(len(seller), len(client))
	for i := range rows {
		style := ""
		if i == 1 {
			style = "B"
		}
		w.pdf.SetFont("Helvetica", style, fonts.Body)
		left, right := "", ""
		if i < len(seller) {
			left = seller[i]
		}
		if i < len(client) {
			right = client[i]
		}
		if i == 0 {
			w.pdf.SetFont("Helvetica", "B", fonts.Heading)
			w.pdf.SetTextColor(w.primary.r, w.primary.g, w.primary.b)
		}
		w.pdf.CellFormat(colW, h, w.text(left), "", 0, "L", false, 0, "")
		w.pdf.CellFormat(colW, h, w.text(right), "", 1, "L", false, 0, "")
		w.pdf.SetTextColor(0, 0, 0)
	}
	w.pdf.Ln(4)
}

type column struct {
	caption string
	width   float64
	align   string
}

func (w *pdfWriter) columns() []column {
	layout := w.doc.Config.Layout
	fixed := []column{
		{w.l.Quantity, 18, "R"},
	}
	if layout.ShowUnitColumn {
		fixed = append(fixed, column{w.l.Unit, 16, "L"})
	}
	fixed = append(fixed, column{w.l.UnitPrice, 28, "R"}, column{w.l.LineTotal, 28, "R"})

	used := 0.0
	for _, c := range fixed {
		used += c.width
	}
	return append([]column{{w.l.Description, w.width - used, "L"}}, fixed...)
}

func (w *pdfWriter) tableHeader(cols []column) {
	w.pdf.SetFont("Helvetica", "B", w.doc.Config.Layout.Fonts.Table)
	w.pdf.SetFillColor(w.primary.r, w.primary.g, w.primary.b)
	w.pdf.SetTextColor(255, 255, 255)
	for i, c := range cols {
		ln := 0
		if i == len(cols)-1 {
			ln = 1
		}
		w.pdf.CellFormat(c.width, w.lineH+2, w.text(c.caption), "", ln, c.align, true, 0, "")
	}
	w.pdf.SetTextColor(0, 0, 0)
	w.pdf.SetFont("Helvetica", "", w.doc.Config.Layout.Fonts.Table)
}

func (w *pdfWriter) items() {
	layout := w.doc.Config.Layout
	cols := w.columns()
	_, pageH := w.pdf.GetPageSize()
	bottom := pageH - float64(layout.Margins.Bottom) - 5

	w.tableHeader(cols)
	onPage := 0
	for _, line := range w.doc.Lines {
		desc := line.Description
		if !layout.ShowItemDescriptions {
			desc, _, _ = strings.Cut(desc, "\n")
		}
		descLines := w.pdf.SplitText(w.text(desc), cols[0].width-2)
		if len(descLines) == 0 {
			descLines = []string{""}
		}
		h := float64(len(descLines)) * w.lineH

		x, y := w.pdf.GetXY()
		if (layout.ItemsPerPage > 0 && onPage == layout.ItemsPerPage) || y+h > bottom {
			w.pdf.AddPage()
			w.tableHeader(cols)
			onPage = 0
			x, y = w.pdf.GetXY()
		}

		w.pdf.MultiCell(cols[0].width, w.lineH, strings.Join(descLines, "\n"), "B", "L", false)
		w.pdf.SetXY(x+cols[0].width, y)

		values := []string{w.f.Quantity(line.Quantity)}
		if layout.ShowUnitColumn {
			values = append(values, line.Unit)
		}
		values = append(values, w.f.Money(line.UnitPrice), w.f.Money(line.Total))
		for i, v := range values {
			c := cols[i+1]
			ln := 0
			if i == len(values)-1 {
				ln = 1
			}
			w.pdf.CellFormat(c.width, h, w.text(v), "B", ln, c.align, false, 0, "")
		}
		onPage++
	}
	w.pdf.Ln(3)
}

func (w *pdfWriter) totals() {
	fonts := w.doc.Config.Layout.Fonts
	h := fonts.Body * ptToMM * 1.6
	labelW, valueW := 45.0, 30.0
	x := float64(w.doc.Config.Layout.Margins.Left) + w.width - labelW - valueW

	row := func(caption, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		w.pdf.SetFont("Helvetica", style, fonts.Body)
		w.pdf.SetX(x)
		w.pdf.CellFormat(labelW, h, w.text(caption), "", 0, "L", false, 0, "")
		w.pdf.CellFormat(valueW, h, w.text(value), "", 1, "R", false, 0, "")
	}

	row(w.l.Subtotal, w.f.Money(w.doc.Subtotal), false)
	row(w.l.TaxAmount+" "+w.f.Percent(w.doc.TaxRate), w.f.Money(w.doc.TaxAmount), false)
	w.pdf.SetTextColor(w.primary.r, w.primary.g, w.primary.b)
	row(w.l.Total, w.f.Money(w.doc.Total), true)
	w.pdf.SetTextColor(0, 0, 0)
	if w.doc.AmountPaid.IsPositive() {
		row(w.l.AmountPaid, w.f.Money(w.doc.AmountPaid), false)
		row(w.l.AmountDue, w.f.Money(w.doc.AmountDue), true)
	}
	w.pdf.Ln(4)
}

func (w *pdfWriter) payment() {
	if w.doc.StructuredReference == "" {
		return
	}
	fonts := w.doc.Config.Layout.Fonts
	h := fonts.Body * ptToMM * w.doc.Config.Layout.LineHeight
	left := float64(w.doc.Config.Layout.Margins.Left)
	y := w.pdf.GetY()

	textX := left
	if len(w.doc.QRCodePNG) > 0 {
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		w.pdf.RegisterImageOptionsReader(qrImageName, opts, bytes.NewReader(w.doc.QRCodePNG))
		w.pdf.ImageOptions(qrImageName, left, y, qrSizeMM, qrSizeMM, false, opts, 0, "")
		w.pdf.SetFont("Helvetica", "", fonts.Footer)
		w.pdf.SetXY(left, y+qrSizeMM)
		w.pdf.CellFormat(qrSizeMM, h, w.text(w.l.ScanToPay), "", 0, "C", false, 0, "")
		textX = left + qrSizeMM + 6
	}

	w.pdf.SetXY(textX, y)
	w.pdf.SetFont("Helvetica", "", fonts.Body)
	w.pdf.CellFormat(0, h, w.text(w.l.PaymentRef+":"), "", 1, "L", false, 0, "")
	w.pdf.SetX(textX)
	w.pdf.SetFont("Helvetica", "B", fonts.Heading)
	w.pdf.CellFormat(0, h*1.3, w.doc.StructuredReference, "", 1, "L", false, 0, "")
	if iban := w.doc.Seller.IBAN; iban != "" {
		account := iban
		if bic := w.doc.Seller.BIC; bic != "" {
			account += " (" + bic + ")"
		}
		w.pdf.SetX(textX)
		w.pdf.SetFont("Helvetica", "", fonts.Body)
		w.pdf.CellFormat(0, h, w.text(w.l.BankAccount+": "+account), "", 1, "L", false, 0, "")
	}
	if len(w.doc.QRCodePNG) > 0 {
		w.pdf.SetY(max(w.pdf.GetY(), y+qrSizeMM+h))
	}
	w.pdf.Ln(4)
}

func (w *pdfWriter) notes() {
	layout := w.doc.Config.Layout
	fonts := layout.Fonts
	h := fonts.Body * ptToMM * layout.LineHeight

	section := func(caption, body string) {
		w.pdf.SetFont("Helvetica", "B", fonts.Heading)
		w.pdf.SetTextColor(w.primary.r, w.primary.g, w.primary.b)
		w.pdf.CellFormat(0, fonts.Heading*ptToMM*1.5, w.text(caption), "", 1, "L", false, 0, "")
		w.pdf.SetTextColor(0, 0, 0)
		w.pdf.SetFont("Helvetica", "", fonts.Body)
		w.pdf.MultiCell(0, h, w.text(body), "", "L", false)
		w.pdf.Ln(2)
	}

	if layout.ShowNotes && w.doc.Notes != "" {
		section(w.l.Notes, w.doc.Notes)
	}
	if layout.ShowTerms {
		section(w.l.Terms, w.l.TermsText)
	}
	if layout.ShowSignatureBlock && w.doc.Kind == KindQuote {
		w.pdf.Ln(10)
		x, y := w.pdf.GetXY()
		w.pdf.Line(x, y, x+60, y)
		w.pdf.SetFont("Helvetica", "", fonts.Body)
		w.pdf.CellFormat(60, h, w.text(w.l.Signature), "", 1, "L", false, 0, "")
	}
}

var _ DocumentRenderer = (*GofpdfRenderer)(nil)
