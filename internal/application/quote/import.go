package quoteapp

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/domain/quote"
	"github.com/quotevoice/backend/internal/domain/shared"
	csvimport "github.com/quotevoice/backend/internal/infrastructure/import"
	"go.uber.org/zap"
)

// ImportOptions controls how CSV rows become quote items.
// Nil Mappings use the default English column names.
type ImportOptions struct {
	Mappings []csvimport.ColumnMapping `json:"mappings,omitempty"`
	Replace  bool                      `json:"replace"`
}

// ImportResult reports the outcome of an item import. Quote is set only
// when the items were stored.
type ImportResult struct {
	csvimport.ItemImportResult
	Imported bool           `json:"imported"`
	Quote    *QuoteResponse `json:"quote,omitempty"`
}

// ImportItems parses a CSV file into quote lines. A file with any row error
// is rejected as a whole and the quote is left untouched.
func (s *QuoteService) ImportItems(ctx context.Context, tenantID, quoteID uuid.UUID, r io.Reader, opts ImportOptions, importerOpts ...csvimport.ImporterOption) (*ImportResult, error) {
	q, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}
	if q.Status.IsLocked() {
		return nil, shared.NewDomainError(shared.CodeImmutable, "Quote can no longer be modified")
	}

	importer, err := csvimport.NewItemImporter(opts.Mappings, importerOpts...)
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, err.Error())
	}
	parsed, err := importer.Import(r)
	if err != nil {
		return nil, importFileError(err)
	}

	result := &ImportResult{ItemImportResult: *parsed}
	if !parsed.IsValid() {
		s.logger.Info("Quote item import rejected",
			zap.String("quote_id", quoteID.String()),
			zap.Int("total_rows", parsed.TotalRows),
			zap.Int("errors", parsed.TotalErrors),
		)
		return result, nil
	}

	inputs := parsed.Items
	if !opts.Replace {
		inputs = append(existingInputs(q), parsed.Items...)
	}
	if err := q.ReplaceItems(inputs); err != nil {
		return nil, err
	}
	if err := s.quoteRepo.Save(ctx, q); err != nil {
		return nil, err
	}
	s.publish(ctx, q)

	s.logger.Info("Quote items imported",
		zap.String("quote_id", quoteID.String()),
		zap.Int("rows", parsed.ValidRows),
		zap.Bool("replace", opts.Replace),
	)
	resp := ToQuoteResponse(q)
	result.Imported = true
	result.Quote = &resp
	return result, nil
}

func existingInputs(q *quote.Quote) []quote.ItemInput {
	inputs := make([]quote.ItemInput, 0, len(q.Items))
	for _, it := range q.Items {
		inputs = append(inputs, quote.ItemInput{
			Description: it.Description,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			UnitPrice:   it.UnitPrice,
		})
	}
	return inputs
}

// importFileError maps file-level parser failures to domain errors
func importFileError(err error) error {
	code := csvimport.ErrCodeImportInvalidFile
	switch {
	case errors.Is(err, csvimport.ErrFileTooLarge):
		code = csvimport.ErrCodeImportFileTooLarge
	case errors.Is(err, csvimport.ErrEmptyFile), errors.Is(err, csvimport.ErrNoDataRows):
		code = csvimport.ErrCodeImportEmptyFile
	case errors.Is(err, csvimport.ErrInvalidEncoding):
		code = csvimport.ErrCodeImportInvalidEncoding
	case errors.Is(err, csvimport.ErrMissingHeader):
		code = csvimport.ErrCodeImportMissingHeader
	}
	return shared.NewDomainError(code, err.Error())
}
