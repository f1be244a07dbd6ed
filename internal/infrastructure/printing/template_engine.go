package printing

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"html/template"
	"strings"

	"github.com/quotevoice/backend/internal/domain/document"
)

//go:embed templates/*.html
var templateFS embed.FS

const documentTemplate = "document.html"

// TemplateEngine renders a Document into a standalone HTML page
type TemplateEngine struct {
	tmpl *template.Template
}

// NewTemplateEngine parses the built-in document template
func NewTemplateEngine() (*TemplateEngine, error) {
	tmpl, err := template.New(documentTemplate).Funcs(template.FuncMap{
		"pngDataURL": pngDataURL,
		"lines":      func(s string) []string { return strings.Split(s, "\n") },
	}).ParseFS(templateFS, "templates/"+documentTemplate)
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "failed to parse document template", err)
	}
	return &TemplateEngine{tmpl: tmpl}, nil
}

// MustNewTemplateEngine is NewTemplateEngine for package-level wiring
func MustNewTemplateEngine() *TemplateEngine {
	e, err := NewTemplateEngine()
	if err != nil {
		panic(err)
	}
	return e
}

// htmlView is the data handed to the template
type htmlView struct {
	*Document
	L      Labels
	F      *Formatter
	Layout document.DensityConfig
	Pages  [][]Line
	Color  string
	Accent string
}

// Render executes the template for doc
func (e *TemplateEngine) Render(ctx context.Context, doc *Document) (string, error) {
	if doc == nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "document is nil", nil)
	}
	if err := ctx.Err(); err != nil {
		return "", NewRenderError(ErrCodeRenderTimeout, "render cancelled", err)
	}

	view := htmlView{
		Document: doc,
		L:        doc.Labels(),
		F:        NewFormatter(doc.Config.Locale),
		Layout:   doc.Config.Layout,
		Pages:    paginate(doc.Lines, doc.Config.Layout.ItemsPerPage),
		Color:    colorOr(doc.Config.Branding.PrimaryColor, "#1F3A5F"),
		Accent:   colorOr(doc.Config.Branding.SecondaryColor, "#F2A541"),
	}

	var buf bytes.Buffer
	if err := e.tmpl.ExecuteTemplate(&buf, documentTemplate, view); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute document template", err)
	}
	return buf.String(), nil
}

// paginate splits lines into chunks of perPage. A document always has at
// least one page, even without lines.
func paginate(lines []Line, perPage int) [][]Line {
	if perPage <= 0 || len(lines) <= perPage {
		return [][]Line{lines}
	}
	pages := make([][]Line, 0, (len(lines)+perPage-1)/perPage)
	for start := 0; start < len(lines); start += perPage {
		end := min(start+perPage, len(lines))
		pages = append(pages, lines[start:end])
	}
	return pages
}

func pngDataURL(png []byte) template.URL {
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
}

func colorOr(c, fallback string) string {
	if c == "" {
		return fallback
	}
	return c
}
