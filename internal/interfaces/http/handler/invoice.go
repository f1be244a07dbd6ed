package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/application/invoicing"
	"github.com/quotevoice/backend/internal/domain/invoice"
	"github.com/shopspring/decimal"
)

// ConvertQuoteRequest represents a request to invoice a quote.
// Type defaults to standard.
type ConvertQuoteRequest struct {
	Type              invoice.Type     `json:"type" binding:"omitempty,oneof=standard deposit balance"`
	DepositPercentage *decimal.Decimal `json:"deposit_percentage"`
	DueInDays         *int             `json:"due_in_days" binding:"omitempty,min=0,max=365"`
}

// BalanceInvoiceRequest represents a request for the final balance invoice
type BalanceInvoiceRequest struct {
	DueInDays *int `json:"due_in_days" binding:"omitempty,min=0,max=365"`
}

// MarkPaidRequest records a payment. A missing amount means paid in full.
type MarkPaidRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

// ListInvoicesQuery selects invoices
type ListInvoicesQuery struct {
	Status   invoice.Status `form:"status" binding:"omitempty,oneof=draft sent paid overdue cancelled"`
	Type     invoice.Type   `form:"type" binding:"omitempty,oneof=standard deposit balance credit_note"`
	QuoteID  string         `form:"quote_id" binding:"omitempty,uuid"`
	Page     int            `form:"page" binding:"omitempty,min=1"`
	PageSize int            `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string         `form:"order_by" binding:"omitempty,oneof=created_at issue_date due_date invoice_number total"`
	OrderDir string         `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// InvoiceHandler handles invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *invoicing.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *invoicing.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Convert handles POST /quotes/:id/invoices
func (h *InvoiceHandler) Convert(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	quoteID, ok := h.pathID(c, "quote")
	if !ok {
		return
	}

	var req ConvertQuoteRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.ValidationError(c, err)
			return
		}
	}

	opts := invoicing.ConvertOptions{
		Type:              req.Type,
		DepositPercentage: req.DepositPercentage,
		DueInDays:         req.DueInDays,
		CreatedBy:         userID,
	}
	if opts.Type == "" {
		opts.Type = invoice.TypeStandard
	}

	inv, err := h.invoiceService.ConvertQuoteToInvoice(c.Request.Context(), tenantID, quoteID, opts)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, inv)
}

// GenerateBalance handles POST /quotes/:id/balance-invoice
func (h *InvoiceHandler) GenerateBalance(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	quoteID, ok := h.pathID(c, "quote")
	if !ok {
		return
	}

	var req BalanceInvoiceRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.ValidationError(c, err)
			return
		}
	}

	inv, err := h.invoiceService.GenerateBalanceInvoice(c.Request.Context(), tenantID, quoteID, req.DueInDays, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, inv)
}

// List handles GET /invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}

	var q ListInvoicesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.ValidationError(c, err)
		return
	}

	filter := invoicing.ListFilter{
		Status:   q.Status,
		Type:     q.Type,
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
	}
	if q.QuoteID != "" {
		quoteID := uuid.MustParse(q.QuoteID)
		filter.QuoteID = &quoteID
	}

	page, err := h.invoiceService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get handles GET /invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	invoiceID, ok := h.pathID(c, "invoice")
	if !ok {
		return
	}

	inv, err := h.invoiceService.Get(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// Send handles POST /invoices/:id/send
func (h *InvoiceHandler) Send(c *gin.Context) {
	h.transition(c, h.invoiceService.Send)
}

// Cancel handles POST /invoices/:id/cancel
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	h.transition(c, h.invoiceService.Cancel)
}

// IssueCreditNote handles POST /invoices/:id/credit-note
func (h *InvoiceHandler) IssueCreditNote(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	invoiceID, ok := h.pathID(c, "invoice")
	if !ok {
		return
	}

	note, err := h.invoiceService.IssueCreditNote(c.Request.Context(), tenantID, invoiceID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, note)
}

// MarkPaid handles POST /invoices/:id/pay
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	invoiceID, ok := h.pathID(c, "invoice")
	if !ok {
		return
	}

	var req MarkPaidRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.ValidationError(c, err)
			return
		}
	}

	inv, err := h.invoiceService.MarkInvoiceAsPaid(c.Request.Context(), tenantID, invoiceID, req.Amount, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// ExportPeppol handles GET /invoices/:id/peppol and returns the UBL document
func (h *InvoiceHandler) ExportPeppol(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	invoiceID, ok := h.pathID(c, "invoice")
	if !ok {
		return
	}

	export, err := h.invoiceService.ExportToPeppolXML(c.Request.Context(), tenantID, invoiceID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if export.ArchiveKey != "" {
		c.Header("X-Archive-Key", export.ArchiveKey)
	}
	attachment(c, "application/xml; charset=utf-8", export.FileName, []byte(export.XML))
}

type invoiceTransition func(ctx context.Context, tenantID, invoiceID, userID uuid.UUID) (*invoicing.InvoiceResponse, error)

func (h *InvoiceHandler) transition(c *gin.Context, fn invoiceTransition) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	invoiceID, ok := h.pathID(c, "invoice")
	if !ok {
		return
	}

	inv, err := fn(c.Request.Context(), tenantID, invoiceID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}
