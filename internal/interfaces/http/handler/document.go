package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/quotevoice/backend/internal/application/rendering"
	"github.com/quotevoice/backend/internal/domain/document"
)

// PDFQuery selects the layout of a rendered PDF
type PDFQuery struct {
	Density string `form:"density" binding:"omitempty,oneof=compact normal detailed"`
	Locale  string `form:"locale" binding:"omitempty,max=35"`
}

// UpdateBrandingRequest is a partial branding change
type UpdateBrandingRequest struct {
	LogoURL        *string `json:"logo_url" binding:"omitempty,url,max=500"`
	PrimaryColor   *string `json:"primary_color" binding:"omitempty,hexcolor"`
	SecondaryColor *string `json:"secondary_color" binding:"omitempty,hexcolor"`
	FooterText     *string `json:"footer_text" binding:"omitempty,max=500"`
	ShowWatermark  *bool   `json:"show_watermark"`
	WhiteLabel     *bool   `json:"white_label"`
}

func (r UpdateBrandingRequest) toUpdate() document.BrandingUpdate {
	return document.BrandingUpdate{
		LogoURL:        r.LogoURL,
		PrimaryColor:   r.PrimaryColor,
		SecondaryColor: r.SecondaryColor,
		FooterText:     r.FooterText,
		ShowWatermark:  r.ShowWatermark,
		WhiteLabel:     r.WhiteLabel,
	}
}

// DocumentHandler serves PDFs, branding and cache statistics
type DocumentHandler struct {
	BaseHandler
	renderingService *rendering.RenderingService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(renderingService *rendering.RenderingService) *DocumentHandler {
	return &DocumentHandler{renderingService: renderingService}
}

// QuotePDF handles GET /quotes/:id/pdf
func (h *DocumentHandler) QuotePDF(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	quoteID, ok := h.pathID(c, "quote")
	if !ok {
		return
	}

	var q PDFQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.ValidationError(c, err)
		return
	}

	pdf, err := h.renderingService.RenderQuotePDF(c.Request.Context(), tenantID, quoteID, q.Density, q.Locale)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.sendPDF(c, pdf)
}

// InvoicePDF handles GET /invoices/:id/pdf
func (h *DocumentHandler) InvoicePDF(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	invoiceID, ok := h.pathID(c, "invoice")
	if !ok {
		return
	}

	var q PDFQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.ValidationError(c, err)
		return
	}

	pdf, err := h.renderingService.RenderInvoicePDF(c.Request.Context(), tenantID, invoiceID, q.Locale)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.sendPDF(c, pdf)
}

func (h *DocumentHandler) sendPDF(c *gin.Context, pdf *rendering.PDF) {
	if pdf.Cached {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	attachment(c, "application/pdf", pdf.FileName, pdf.Data)
}

// GetBranding handles GET /branding
func (h *DocumentHandler) GetBranding(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}

	resp, err := h.renderingService.GetBrandingPermissions(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateBranding handles PUT /branding
func (h *DocumentHandler) UpdateBranding(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}

	var req UpdateBrandingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.renderingService.UpdateBranding(c.Request.Context(), tenantID, userID, req.toUpdate())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CacheStats handles GET /system/cache-stats
func (h *DocumentHandler) CacheStats(c *gin.Context) {
	h.Success(c, h.renderingService.CacheStats(c.Request.Context()))
}
