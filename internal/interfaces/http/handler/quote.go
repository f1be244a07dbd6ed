package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	quoteapp "github.com/quotevoice/backend/internal/application/quote"
	csvimport "github.com/quotevoice/backend/internal/infrastructure/import"
	"github.com/quotevoice/backend/internal/interfaces/http/dto"
)

// QuoteHandler handles quote endpoints
type QuoteHandler struct {
	BaseHandler
	quoteService *quoteapp.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService *quoteapp.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// Create handles POST /quotes
func (h *QuoteHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}

	var req quoteapp.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	q, err := h.quoteService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, q)
}

// List handles GET /quotes
func (h *QuoteHandler) List(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}

	var filter quoteapp.ListQuotesFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	page, err := h.quoteService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get handles GET /quotes/:id
func (h *QuoteHandler) Get(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	quoteID, ok := h.pathID(c, "quote")
	if !ok {
		return
	}

	q, err := h.quoteService.Get(c.Request.Context(), tenantID, quoteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// Update handles PUT /quotes/:id
func (h *QuoteHandler) Update(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	quoteID, ok := h.pathID(c, "quote")
	if !ok {
		return
	}

	var req quoteapp.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	q, err := h.quoteService.Update(c.Request.Context(), tenantID, quoteID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// ReplaceItems handles PUT /quotes/:id/items
func (h *QuoteHandler) ReplaceItems(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	quoteID, ok := h.pathID(c, "quote")
	if !ok {
		return
	}

	var req quoteapp.ReplaceItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	q, err := h.quoteService.ReplaceItems(c.Request.Context(), tenantID, quoteID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// MoveItem handles POST /quotes/:id/items/move
func (h *QuoteHandler) MoveItem(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	quoteID, ok := h.pathID(c, "quote")
	if !ok {
		return
	}

	var req quoteapp.MoveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	q, err := h.quoteService.MoveItem(c.Request.Context(), tenantID, quoteID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// ChangeStatus handles POST /quotes/:id/status
func (h *QuoteHandler) ChangeStatus(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	quoteID, ok := h.pathID(c, "quote")
	if !ok {
		return
	}

	var req quoteapp.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	q, err := h.quoteService.ChangeStatus(c.Request.Context(), tenantID, quoteID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// ImportItems handles POST /quotes/:id/import. The CSV arrives in the
// multipart field "file"; a file with row errors is reported but not stored.
func (h *QuoteHandler) ImportItems(c *gin.Context) {
	tenantID, _, ok := h.identity(c)
	if !ok {
		return
	}
	quoteID, ok := h.pathID(c, "quote")
	if !ok {
		return
	}

	var form dto.QuoteItemImportForm
	if err := c.ShouldBind(&form); err != nil {
		h.ValidationError(c, err)
		return
	}

	opts := quoteapp.ImportOptions{Replace: form.Mode == dto.ImportModeReplace}
	if form.Mappings != "" {
		var mappings []csvimport.ColumnMapping
		if err := json.Unmarshal([]byte(form.Mappings), &mappings); err != nil {
			h.BadRequest(c, "mappings must be a JSON array of column mappings")
			return
		}
		opts.Mappings = mappings
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A CSV file is required in the 'file' field")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Uploaded file could not be read")
		return
	}
	defer file.Close()

	result, err := h.quoteService.ImportItems(c.Request.Context(), tenantID, quoteID, file, opts)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !result.Imported {
		c.JSON(http.StatusUnprocessableEntity, dto.Response{
			Success: false,
			Data:    result,
			Error: &dto.ErrorInfo{
				Code:      csvimport.ErrCodeImportMalformedRow,
				Message:   "The file contains invalid rows; nothing was imported",
				RequestID: getRequestID(c),
			},
		})
		return
	}
	h.Success(c, result)
}
