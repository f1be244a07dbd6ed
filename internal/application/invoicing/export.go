package invoicing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/domain/audit"
	"github.com/quotevoice/backend/internal/domain/shared"
	"github.com/quotevoice/backend/internal/infrastructure/peppol"
	"go.uber.org/zap"
)

const contentTypeXML = "application/xml"

// ExportToPeppolXML serializes an invoice to Peppol BIS 3.0 UBL. When an
// archive is configured the XML is also uploaded and a download link is
// returned; archive failures do not fail the export.
func (s *InvoiceService) ExportToPeppolXML(ctx context.Context, tenantID, invoiceID, userID uuid.UUID) (*PeppolExport, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	org, err := s.orgRepo.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeInvalidState, "Complete the company profile before exporting to Peppol")
		}
		return nil, err
	}

	xmlDoc, err := peppol.Export(inv, org)
	if err != nil {
		return nil, fmt.Errorf("peppol export: %w", err)
	}

	result := &PeppolExport{
		InvoiceID: inv.ID,
		FileName:  exportFileName(inv.InvoiceNumber),
		XML:       xmlDoc,
	}

	if s.archive != nil {
		key := s.archive.InvoiceKey(tenantID, inv.IssueDate.Year(), inv.InvoiceNumber, "xml")
		if err := s.archive.Put(ctx, key, []byte(xmlDoc), contentTypeXML); err != nil {
			s.logger.Warn("Failed to archive Peppol export",
				zap.String("invoice_id", inv.ID.String()),
				zap.String("key", key),
				zap.Error(err),
			)
		} else {
			result.ArchiveKey = key
			if url, expires, err := s.archive.DownloadURL(ctx, key); err == nil {
				result.DownloadURL = url
				result.ExpiresAt = &expires
			} else {
				s.logger.Warn("Failed to presign archive download", zap.String("key", key), zap.Error(err))
			}
		}
	}

	details := map[string]any{"format": "peppol-bis-3"}
	if result.ArchiveKey != "" {
		details["archive_key"] = result.ArchiveKey
	}
	s.audit(ctx, inv, userID, audit.ActionInvoiceExported, details)
	return result, nil
}

func exportFileName(number string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, number)
	if name == "" {
		name = "invoice"
	}
	return name + ".xml"
}
