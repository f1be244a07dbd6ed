package router

import (
	"github.com/gin-gonic/gin"
	"github.com/quotevoice/backend/internal/interfaces/http/handler"
)

// Handlers bundles every HTTP handler the API exposes
type Handlers struct {
	Quote        *handler.QuoteHandler
	Invoice      *handler.InvoiceHandler
	Document     *handler.DocumentHandler
	Organization *handler.OrganizationHandler
	System       *handler.SystemHandler
}

// QuoteRoutes covers quotes and everything derived from one
func QuoteRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("quotes", "/quotes")
	g.POST("", h.Quote.Create).
		GET("", h.Quote.List).
		GET("/:id", h.Quote.Get).
		PUT("/:id", h.Quote.Update).
		PUT("/:id/items", h.Quote.ReplaceItems).
		POST("/:id/items/move", h.Quote.MoveItem).
		POST("/:id/status", h.Quote.ChangeStatus).
		POST("/:id/import", h.Quote.ImportItems).
		GET("/:id/pdf", h.Document.QuotePDF).
		POST("/:id/invoices", h.Invoice.Convert).
		POST("/:id/balance-invoice", h.Invoice.GenerateBalance)
	return g
}

// InvoiceRoutes covers the invoice lifecycle and exports
func InvoiceRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("invoices", "/invoices")
	g.GET("", h.Invoice.List).
		GET("/:id", h.Invoice.Get).
		POST("/:id/send", h.Invoice.Send).
		POST("/:id/pay", h.Invoice.MarkPaid).
		POST("/:id/cancel", h.Invoice.Cancel).
		POST("/:id/credit-note", h.Invoice.IssueCreditNote).
		GET("/:id/peppol", h.Invoice.ExportPeppol).
		GET("/:id/pdf", h.Document.InvoicePDF)
	return g
}

// OrganizationRoutes covers the company profile and branding
func OrganizationRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("organization", "")
	g.GET("/organization", h.Organization.Get).
		PUT("/organization", h.Organization.Update).
		GET("/branding", h.Document.GetBranding).
		PUT("/branding", h.Document.UpdateBranding)
	return g
}

// SystemRoutes covers operational endpoints behind authentication
func SystemRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("system", "/system")
	g.GET("/info", h.System.GetSystemInfo).
		GET("/cache-stats", h.Document.CacheStats)
	return g
}

// Mount registers the unauthenticated health check on the engine and every
// API group under /api/v1 behind apiMiddleware
func Mount(engine *gin.Engine, h Handlers, apiMiddleware ...gin.HandlerFunc) *Router {
	engine.GET("/health", h.System.Health)

	r := NewRouter(engine, WithAPIVersion("v1"), WithMiddleware(apiMiddleware...))
	r.Register(
		QuoteRoutes(h),
		InvoiceRoutes(h),
		OrganizationRoutes(h),
		SystemRoutes(h),
	)
	r.Setup()
	return r
}
