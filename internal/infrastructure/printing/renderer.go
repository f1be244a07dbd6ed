package printing

import (
	"context"
	"time"

	"github.com/quotevoice/backend/internal/domain/document"
)

// A4 paper in millimeters
const (
	a4WidthMM  = 210.0
	a4HeightMM = 297.0
)

// RenderRequest contains the parameters for printing HTML to PDF
type RenderRequest struct {
	// HTML content to render
	HTML string
	// Title for the PDF document metadata
	Title string
	// Margins in millimeters
	Margins document.Margins
	// Landscape flips the A4 page
	Landscape bool
	// FooterHTML is printed at the bottom of every page (optional)
	FooterHTML string
	// Timeout overrides the default rendering timeout
	Timeout time.Duration
}

// RenderResult contains the output from PDF rendering
type RenderResult struct {
	PDFData        []byte
	PageCount      int
	RenderDuration time.Duration
}

// HTMLPrinter converts an HTML page to PDF
type HTMLPrinter interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	Close() error
}

// DocumentRenderer turns a Document into PDF bytes
type DocumentRenderer interface {
	RenderDocument(ctx context.Context, doc *Document) ([]byte, error)
	// Name identifies the renderer in logs
	Name() string
}

// RenderError represents an error during PDF rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout  = "RENDER_TIMEOUT"
	ErrCodeRenderFailed   = "RENDER_FAILED"
	ErrCodeInvalidHTML    = "INVALID_HTML"
	ErrCodeBrowserMissing = "BROWSER_NOT_FOUND"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
