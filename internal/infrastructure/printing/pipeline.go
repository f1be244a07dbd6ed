package printing

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// HTMLRenderer renders a Document through the HTML template and an HTMLPrinter
type HTMLRenderer struct {
	engine  *TemplateEngine
	printer HTMLPrinter
	timeout time.Duration
}

// NewHTMLRenderer creates an HTML based document renderer
func NewHTMLRenderer(engine *TemplateEngine, printer HTMLPrinter, timeout time.Duration) *HTMLRenderer {
	return &HTMLRenderer{engine: engine, printer: printer, timeout: timeout}
}

// Name implements DocumentRenderer
func (r *HTMLRenderer) Name() string { return "chromedp" }

// RenderDocument implements DocumentRenderer
func (r *HTMLRenderer) RenderDocument(ctx context.Context, doc *Document) ([]byte, error) {
	html, err := r.engine.Render(ctx, doc)
	if err != nil {
		return nil, err
	}
	footer := ""
	if doc.Config.Layout.ItemsPerPage > 0 && len(doc.Lines) > doc.Config.Layout.ItemsPerPage {
		footer = pageFooterTemplate(doc.Labels().Page, doc.Config.Layout.Fonts.Footer)
	}
	res, err := r.printer.Render(ctx, &RenderRequest{
		HTML:       html,
		Title:      doc.Title() + " " + doc.Number,
		Margins:    doc.Config.Layout.Margins,
		FooterHTML: footer,
		Timeout:    r.timeout,
	})
	if err != nil {
		return nil, err
	}
	return res.PDFData, nil
}

// pageFooterTemplate uses Chrome's pageNumber/totalPages placeholders
func pageFooterTemplate(caption string, fontSize float64) string {
	if fontSize <= 0 {
		fontSize = 7
	}
	return `<div style="width:100%;text-align:center;font-size:` + formatPt(fontSize) + `pt;color:#777">` +
		caption + ` <span class="pageNumber"></span>/<span class="totalPages"></span></div>`
}

func formatPt(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FallbackRenderer tries the primary renderer and switches to the fallback
// when it fails for any reason other than the caller giving up
type FallbackRenderer struct {
	primary  DocumentRenderer
	fallback DocumentRenderer
	logger   *zap.Logger
}

// NewFallbackRenderer chains two renderers
func NewFallbackRenderer(primary, fallback DocumentRenderer, logger *zap.Logger) *FallbackRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackRenderer{primary: primary, fallback: fallback, logger: logger}
}

// Name implements DocumentRenderer
func (r *FallbackRenderer) Name() string {
	return r.primary.Name() + "+" + r.fallback.Name()
}

// RenderDocument implements DocumentRenderer
func (r *FallbackRenderer) RenderDocument(ctx context.Context, doc *Document) ([]byte, error) {
	data, err := r.primary.RenderDocument(ctx, doc)
	if err == nil {
		return data, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	var renderErr *RenderError
	if errors.As(err, &renderErr) && renderErr.Code == ErrCodeInvalidHTML {
		return nil, err
	}
	r.logger.Warn("Primary PDF renderer failed, using fallback",
		zap.String("primary", r.primary.Name()),
		zap.String("fallback", r.fallback.Name()),
		zap.Error(err),
	)
	return r.fallback.RenderDocument(ctx, doc)
}

var (
	_ DocumentRenderer = (*HTMLRenderer)(nil)
	_ DocumentRenderer = (*FallbackRenderer)(nil)
)
