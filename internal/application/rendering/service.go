// Package rendering produces quote and invoice PDFs and manages the
// organization branding applied to them.
package rendering

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/domain/audit"
	"github.com/quotevoice/backend/internal/domain/document"
	"github.com/quotevoice/backend/internal/domain/invoice"
	"github.com/quotevoice/backend/internal/domain/organization"
	"github.com/quotevoice/backend/internal/domain/quote"
	"github.com/quotevoice/backend/internal/domain/shared"
	"github.com/quotevoice/backend/internal/infrastructure/printing"
	"go.uber.org/zap"
)

const resourceTypeOrganization = "organization"

// PDF is a rendered document
type PDF struct {
	FileName string
	Data     []byte
	Cached   bool
}

// BrandingResponse is the tenant's stored branding with what its tier allows
type BrandingResponse struct {
	Tier        organization.Tier            `json:"tier"`
	Branding    organization.Branding        `json:"branding"`
	Effective   organization.Branding        `json:"effective"`
	Permissions document.BrandingPermissions `json:"permissions"`
}

// RenderingService renders PDFs through the configured renderer and cache
type RenderingService struct {
	quoteRepo   quote.QuoteRepository
	invoiceRepo invoice.InvoiceRepository
	orgRepo     organization.OrganizationRepository
	auditRepo   audit.Repository
	cache       document.PDFCache
	renderer    printing.DocumentRenderer
	logger      *zap.Logger
}

// NewRenderingService creates a new RenderingService
func NewRenderingService(
	quoteRepo quote.QuoteRepository,
	invoiceRepo invoice.InvoiceRepository,
	orgRepo organization.OrganizationRepository,
	auditRepo audit.Repository,
	cache document.PDFCache,
	renderer printing.DocumentRenderer,
	logger *zap.Logger,
) *RenderingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RenderingService{
		quoteRepo:   quoteRepo,
		invoiceRepo: invoiceRepo,
		orgRepo:     orgRepo,
		auditRepo:   auditRepo,
		cache:       cache,
		renderer:    renderer,
		logger:      logger,
	}
}

// RenderQuotePDF returns the quote PDF, rendering it only on a cache miss.
// An empty density is chosen from the number of items.
func (s *RenderingService) RenderQuotePDF(ctx context.Context, tenantID, quoteID uuid.UUID, density, locale string) (*PDF, error) {
	q, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}
	org, err := s.organization(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	d := document.SuggestDensity(len(q.Items))
	if density != "" {
		d = document.ParseDensity(density)
	}
	cfg := resolve(d, org, locale)
	key := document.CacheKey{
		QuoteID:     q.ID,
		Density:     cfg.Layout.Density,
		Locale:      cfg.Locale,
		ContentHash: document.ContentHash(q.ContentSnapshot()),
	}
	fileName := pdfFileName(q.QuoteNumber)

	if data, ok := s.cache.Get(ctx, key); ok {
		return &PDF{FileName: fileName, Data: data, Cached: true}, nil
	}

	data, err := s.renderer.RenderDocument(ctx, printing.QuoteDocument(q, org, cfg))
	if err != nil {
		return nil, fmt.Errorf("render quote %s: %w", q.QuoteNumber, err)
	}
	if !s.cache.Set(ctx, key, data) {
		s.logger.Debug("Quote PDF not cached",
			zap.String("quote_id", q.ID.String()),
			zap.Int("bytes", len(data)),
		)
	}
	return &PDF{FileName: fileName, Data: data}, nil
}

// RenderInvoicePDF renders an invoice with its payment QR code. Invoice
// PDFs are not cached.
func (s *RenderingService) RenderInvoicePDF(ctx context.Context, tenantID, invoiceID uuid.UUID, locale string) (*PDF, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	org, err := s.organization(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	qr, err := printing.QRCodePNG(inv.QRCodeData, printing.DefaultQRSize)
	if err != nil {
		// the invoice stays payable through the structured reference
		s.logger.Warn("Failed to encode payment QR code",
			zap.String("invoice_id", inv.ID.String()),
			zap.Error(err),
		)
		qr = nil
	}

	cfg := resolve(document.SuggestDensity(len(inv.Items)), org, locale)
	data, err := s.renderer.RenderDocument(ctx, printing.InvoiceDocument(inv, org, cfg, qr))
	if err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", inv.InvoiceNumber, err)
	}
	return &PDF{FileName: pdfFileName(inv.InvoiceNumber), Data: data}, nil
}

// GetBrandingPermissions returns the branding and the tier's permissions
func (s *RenderingService) GetBrandingPermissions(ctx context.Context, tenantID uuid.UUID) (*BrandingResponse, error) {
	org, err := s.orgRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return brandingResponse(org), nil
}

// UpdateBranding applies a partial branding change allowed by the tier.
// Cached PDFs are dropped since they carry the old branding.
func (s *RenderingService) UpdateBranding(ctx context.Context, tenantID, userID uuid.UUID, update document.BrandingUpdate) (*BrandingResponse, error) {
	org, err := s.orgRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	next, err := document.ApplyBrandingUpdate(org.Branding, update, org.Tier)
	if err != nil {
		return nil, err
	}
	org.Branding = next
	org.Touch()
	org.IncrementVersion()
	if err := s.orgRepo.Save(ctx, org); err != nil {
		return nil, err
	}
	s.cache.Clear(ctx)

	if s.auditRepo != nil {
		entry := audit.NewEntry(tenantID, userID, audit.ActionBrandingUpdated, resourceTypeOrganization, org.ID, map[string]any{
			"primary_color":   next.PrimaryColor,
			"secondary_color": next.SecondaryColor,
			"show_watermark":  next.ShowWatermark,
			"white_label":     next.WhiteLabel,
		})
		if err := s.auditRepo.Append(ctx, entry); err != nil {
			s.logger.Warn("Failed to write audit entry", zap.String("action", audit.ActionBrandingUpdated), zap.Error(err))
		}
	}
	return brandingResponse(org), nil
}

// CacheStats reports PDF cache occupancy
func (s *RenderingService) CacheStats(ctx context.Context) document.CacheStats {
	return s.cache.Stats(ctx)
}

// organization loads the tenant profile. A missing profile renders with
// free-tier defaults and an empty seller block.
func (s *RenderingService) organization(ctx context.Context, tenantID uuid.UUID) (*organization.Organization, error) {
	org, err := s.orgRepo.FindByID(ctx, tenantID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	return org, err
}

func resolve(d document.Density, org *organization.Organization, locale string) document.RenderConfig {
	if org == nil {
		return document.Resolve(d, organization.TierFree, organization.DefaultBranding(), locale)
	}
	return document.Resolve(d, org.Tier, org.Branding, locale)
}

func brandingResponse(org *organization.Organization) *BrandingResponse {
	return &BrandingResponse{
		Tier:        org.Tier,
		Branding:    org.Branding,
		Effective:   document.EnforceBranding(org.Branding, org.Tier),
		Permissions: document.PermissionsForTier(org.Tier),
	}
}

func pdfFileName(number string) string {
	name := make([]rune, 0, len(number))
	for _, r := range number {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			name = append(name, r)
		default:
			name = append(name, '_')
		}
	}
	if len(name) == 0 {
		return "document.pdf"
	}
	return string(name) + ".pdf"
}
