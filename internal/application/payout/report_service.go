// Package payoutapp orchestrates a full payout-report run: parse the two
// uploaded workbooks, normalize and reconcile the rows, aggregate per-brand
// reports and bundle the rendered workbooks into one archive.
package payoutapp

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/payout/backend/internal/domain/payout"
	"github.com/payout/backend/internal/infrastructure/archive"
	"github.com/payout/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ArchiveFileName is the download name of the generated bundle.
const ArchiveFileName = "Brands_Reports.zip"

const summaryWorkbookName = "Summary.xlsx"

// TableReader parses an uploaded workbook into a raw table.
type TableReader interface {
	Read(r io.Reader) (*payout.Table, error)
}

// WorkbookRenderer renders report records into xlsx workbooks.
type WorkbookRenderer interface {
	BrandWorkbook(report *payout.BrandReport) ([]byte, error)
	SummaryWorkbook(summary *payout.SummaryReport) ([]byte, error)
}

// Archiver bundles rendered workbooks into a single download.
type Archiver interface {
	Build(entries []archive.Entry) ([]byte, error)
}

// ArchiveResult is the outcome of one report run.
type ArchiveResult struct {
	Archive      []byte
	FileName     string
	BrandCount   int
	RefundCount  int
	RemovedCount int
}

// ReportService runs the payout pipeline. Each call operates on its own row
// sets and settings, so concurrent runs are independent. Progress is logged
// through the request-scoped logger carried in the context.
type ReportService struct {
	reader   TableReader
	renderer WorkbookRenderer
	archiver Archiver
}

// NewReportService creates a new ReportService
func NewReportService(reader TableReader, renderer WorkbookRenderer, archiver Archiver) *ReportService {
	return &ReportService{
		reader:   reader,
		renderer: renderer,
		archiver: archiver,
	}
}

// GenerateArchive runs the whole pipeline over the two uploads and returns
// the bundled per-brand workbooks plus the cross-brand summary.
func (s *ReportService) GenerateArchive(
	ctx context.Context,
	salesFile, inventoryFile io.Reader,
	settings payout.Settings,
) (*ArchiveResult, error) {
	log := logger.FromContext(ctx).With(zap.String("run_id", uuid.NewString()))

	salesTable, err := s.reader.Read(salesFile)
	if err != nil {
		return nil, fmt.Errorf("parse sales file: %w", err)
	}
	inventoryTable, err := s.reader.Read(inventoryFile)
	if err != nil {
		return nil, fmt.Errorf("parse inventory file: %w", err)
	}

	sales, err := payout.BuildSalesDataset(payout.NormalizeTable(salesTable))
	if err != nil {
		return nil, err
	}
	inventory, err := payout.BuildInventoryDataset(payout.NormalizeTable(inventoryTable))
	if err != nil {
		return nil, err
	}

	reconciled := payout.Reconcile(sales)
	if reconciled.RefundCount > 0 {
		log.Info("Reconciled refunds",
			zap.Int("refunds", reconciled.RefundCount),
			zap.Int("rows_removed", reconciled.RemovedCount),
			zap.Int("rows_surviving", len(reconciled.Records)),
		)
	}

	reports := payout.Aggregate(reconciled.Records, inventory.Records, settings)
	summary := payout.Summarize(reconciled.Records, inventory.Records, settings)

	entries := make([]archive.Entry, 0, len(reports)+1)
	for _, rep := range reports {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		workbook, err := s.renderer.BrandWorkbook(rep)
		if err != nil {
			return nil, fmt.Errorf("render workbook for brand %q: %w", rep.Brand, err)
		}
		entries = append(entries, archive.Entry{
			Name: entryName(rep.Brand),
			Data: workbook,
		})
	}

	summaryWorkbook, err := s.renderer.SummaryWorkbook(summary)
	if err != nil {
		return nil, fmt.Errorf("render summary workbook: %w", err)
	}
	entries = append(entries, archive.Entry{Name: summaryWorkbookName, Data: summaryWorkbook})

	bundle, err := s.archiver.Build(entries)
	if err != nil {
		return nil, fmt.Errorf("build archive: %w", err)
	}

	log.Info("Generated payout report archive",
		zap.Int("brands", len(reports)),
		zap.Int("sales_rows", len(reconciled.Records)),
		zap.Int("inventory_rows", len(inventory.Records)),
		zap.String("payout_cycle", settings.PayoutCycle),
	)

	return &ArchiveResult{
		Archive:      bundle,
		FileName:     ArchiveFileName,
		BrandCount:   len(reports),
		RefundCount:  reconciled.RefundCount,
		RemovedCount: reconciled.RemovedCount,
	}, nil
}

// entryName derives the archive entry for a brand workbook. Brand names
// come from operator data, so path separators are stripped to keep every
// workbook at the archive root.
func entryName(brand string) string {
	name := strings.NewReplacer("/", "-", "\\", "-").Replace(brand)
	return name + ".xlsx"
}
