package printing

import (
	"github.com/quotevoice/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewDocumentRenderer builds the renderer selected by pdf.renderer. The
// chromedp renderer always falls back to gofpdf. The returned close func
// releases the browser allocator.
func NewDocumentRenderer(cfg config.PDFConfig, logger *zap.Logger) (DocumentRenderer, func() error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fallback := NewGofpdfRenderer()
	if cfg.Renderer == "gofpdf" {
		logger.Info("PDF renderer configured", zap.String("renderer", fallback.Name()))
		return fallback, func() error { return nil }, nil
	}

	engine, err := NewTemplateEngine()
	if err != nil {
		return nil, nil, err
	}
	chrome := NewChromedpRenderer(&ChromedpConfig{
		DefaultTimeout: cfg.RenderTimeout,
		ExecPath:       cfg.ChromePath,
		NoSandbox:      true,
		Logger:         logger.Named("chromedp"),
	})
	renderer := NewFallbackRenderer(NewHTMLRenderer(engine, chrome, cfg.RenderTimeout), fallback, logger)
	logger.Info("PDF renderer configured", zap.String("renderer", renderer.Name()))
	return renderer, chrome.Close, nil
}
