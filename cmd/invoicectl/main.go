// Command invoicectl runs invoicing jobs outside the HTTP server: the overdue
// sweep from cron, and Peppol exports for support requests.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/quotevoice/backend/internal/application/invoicing"
	"github.com/quotevoice/backend/internal/infrastructure/config"
	"github.com/quotevoice/backend/internal/infrastructure/logger"
	"github.com/quotevoice/backend/internal/infrastructure/persistence"
	"github.com/quotevoice/backend/internal/infrastructure/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// env holds what every subcommand needs
type env struct {
	log     *zap.Logger
	db      *persistence.Database
	service *invoicing.InvoiceService
}

func (e *env) close() {
	if e.db != nil {
		_ = e.db.Close()
	}
	_ = logger.Sync(e.log)
}

func bootstrap(ctx context.Context, withArchive bool) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	db, err := persistence.NewDatabase(&cfg.Database, log.Named("gorm"))
	if err != nil {
		return nil, err
	}

	orgRepo := persistence.NewGormOrganizationRepository(db.DB)
	svc := invoicing.NewInvoiceService(
		persistence.NewGormQuoteRepository(db.DB),
		persistence.NewGormInvoiceRepository(db.DB),
		persistence.NewGormNumberSequence(db.DB, cfg.Invoice.NumberPrefix),
		orgRepo,
		persistence.NewGormAuditRepository(db.DB),
		cfg.Invoice,
		log.Named("invoicing"),
	)
	if withArchive && cfg.Storage.Enabled {
		archive, err := storage.NewS3Archive(ctx, &cfg.Storage, storage.WithLogger(log.Named("storage")))
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		svc.SetArchive(archive)
	}
	return &env{log: log, db: db, service: svc}, nil
}

func main() {
	root := &cobra.Command{
		Use:           "invoicectl",
		Short:         "Invoicing maintenance jobs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(sweepCommand(), exportCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func sweepCommand() *cobra.Command {
	var asOf string
	cmd := &cobra.Command{
		Use:   "sweep-overdue",
		Short: "Mark sent invoices past their due date as overdue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now().UTC()
			if asOf != "" {
				t, err := time.Parse("2006-01-02", asOf)
				if err != nil {
					return fmt.Errorf("--as-of must be YYYY-MM-DD: %w", err)
				}
				now = t
			}

			e, err := bootstrap(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.close()

			n, err := e.service.CheckOverdueInvoices(cmd.Context(), now)
			if err != nil {
				return err
			}
			e.log.Info("Overdue sweep finished", zap.Int64("marked", n), zap.Time("as_of", now))
			fmt.Fprintf(cmd.OutOrStdout(), "%d invoice(s) marked overdue\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "evaluate due dates as of this day (YYYY-MM-DD)")
	return cmd
}

func exportCommand() *cobra.Command {
	var tenant, invoiceID, outDir string
	cmd := &cobra.Command{
		Use:   "export-peppol",
		Short: "Write the Peppol BIS 3.0 UBL document of an invoice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tenantID, err := uuid.Parse(tenant)
			if err != nil {
				return fmt.Errorf("--tenant: %w", err)
			}
			id, err := uuid.Parse(invoiceID)
			if err != nil {
				return fmt.Errorf("--invoice: %w", err)
			}

			e, err := bootstrap(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer e.close()

			export, err := e.service.ExportToPeppolXML(cmd.Context(), tenantID, id, uuid.Nil)
			if err != nil {
				return err
			}

			path := filepath.Join(outDir, export.FileName)
			if err := os.WriteFile(path, []byte(export.XML), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			e.log.Info("Peppol document written",
				zap.String("path", path),
				zap.String("archive_key", export.ArchiveKey),
			)
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&tenant, "tenant", "", "organization id")
	cmd.Flags().StringVar(&invoiceID, "invoice", "", "invoice id")
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("invoice")
	return cmd
}
