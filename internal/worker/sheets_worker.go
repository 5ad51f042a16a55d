// Package worker copies archived report exports to Google Sheets.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"sanartes/internal/amqp"
	"sanartes/internal/core"
	applog "sanartes/internal/log"
	"sanartes/internal/sheets"
	"sanartes/internal/storage"
)

// Archive is the part of the SQLite report archive the worker needs.
type Archive interface {
	GetExport(ctx context.Context, id string) (*storage.ExportRecord, error)
	PendingSyncExports(ctx context.Context, limit int) ([]storage.ExportRecord, error)
	MarkSynced(ctx context.Context, id string) error
	MarkSyncError(ctx context.Context, id string) error
	SyncStatus(ctx context.Context, id string) (string, error)
}

// SheetsWorker appends the summary rows of archived exports to a sheet and
// tracks which exports already made it. An export is appended at most once
// per process even when the consumer and the periodic pass race for it.
type SheetsWorker struct {
	mu        sync.Mutex
	archive   Archive
	sheets    sheets.SummaryWriter
	batchSize int
	logger    *applog.Logger
}

func NewSheetsWorker(archive Archive, writer sheets.SummaryWriter, batchSize int, logger *applog.Logger) *SheetsWorker {
	if batchSize <= 0 {
		batchSize = 10
	}
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &SheetsWorker{
		archive:   archive,
		sheets:    writer,
		batchSize: batchSize,
		logger:    logger.WithComponent(applog.ComponentSheets),
	}
}

// HandleReportExported syncs the export named by one AMQP notification.
// Notifications for exports missing from the archive are not retried.
func (w *SheetsWorker) HandleReportExported(ctx context.Context, msg *amqp.ReportExportedMessage) error {
	w.logger.InfoContext(ctx, "Processing report exported message",
		applog.FieldExportID, msg.ExportID,
		applog.FieldProjects, msg.TotalProjects)

	rec, err := w.archive.GetExport(ctx, msg.ExportID)
	if errors.Is(err, storage.ErrExportNotFound) {
		return fmt.Errorf("export %s not archived: %w", msg.ExportID, amqp.ErrPermanent)
	}
	if err != nil {
		return fmt.Errorf("get export from archive: %w", err)
	}

	return w.syncExport(ctx, *rec)
}

// ProcessPending syncs exports whose notification was lost or failed.
func (w *SheetsWorker) ProcessPending(ctx context.Context) error {
	_, _, err := w.processBatch(ctx, w.batchSize)
	return err
}

// StartupSyncCheck drains a larger backlog once when the worker starts.
func (w *SheetsWorker) StartupSyncCheck(ctx context.Context) error {
	synced, failed, err := w.processBatch(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("startup sync check: %w", err)
	}
	if synced+failed == 0 {
		w.logger.InfoContext(ctx, "No pending exports found on startup")
		return nil
	}
	w.logger.InfoContext(ctx, "Startup sync completed",
		"total", synced+failed,
		"synced", synced,
		"errors", failed)
	return nil
}

func (w *SheetsWorker) processBatch(ctx context.Context, limit int) (synced, failed int, err error) {
	pending, err := w.archive.PendingSyncExports(ctx, limit)
	if err != nil {
		return 0, 0, fmt.Errorf("get pending exports: %w", err)
	}
	for _, rec := range pending {
		if err := ctx.Err(); err != nil {
			return synced, failed, err
		}
		if err := w.syncExport(ctx, rec); err != nil {
			w.logger.ErrorContext(ctx, "Failed to sync export",
				applog.FieldExportID, rec.ID,
				applog.FieldError, err)
			failed++
			continue
		}
		synced++
	}
	return synced, failed, nil
}

func (w *SheetsWorker) syncExport(ctx context.Context, rec storage.ExportRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	status, err := w.archive.SyncStatus(ctx, rec.ID)
	if err != nil {
		return fmt.Errorf("check sync status: %w", err)
	}
	if status == storage.SyncDone {
		w.logger.Debug("Export already synced, skipping", applog.FieldExportID, rec.ID)
		return nil
	}

	summaries := make([]core.ProjectSummary, len(rec.Projects))
	for i, p := range rec.Projects {
		summaries[i] = core.ProjectSummary{
			Name:          p.Name,
			Type:          p.Type,
			Institutions:  p.Institutions,
			Beneficiaries: p.Beneficiaries,
		}
	}

	ref := ""
	if rows := sheets.RowsFromSummaries(rec.ID, rec.GeneratedAt, summaries); len(rows) > 0 {
		var err error
		ref, err = w.sheets.AppendSummary(ctx, rows)
		if err != nil {
			if markErr := w.archive.MarkSyncError(ctx, rec.ID); markErr != nil {
				w.logger.ErrorContext(ctx, "Failed to mark sync error",
					applog.FieldExportID, rec.ID,
					applog.FieldError, markErr)
			}
			return fmt.Errorf("append to sheets: %w", err)
		}
	}

	if err := w.archive.MarkSynced(ctx, rec.ID); err != nil {
		// The rows are already in the sheet.
		w.logger.ErrorContext(ctx, "Failed to mark export as synced",
			applog.FieldExportID, rec.ID,
			applog.FieldError, err)
	}

	w.logger.InfoContext(ctx, "Export synced to Google Sheets",
		applog.FieldExportID, rec.ID,
		"sheets_ref", ref,
		applog.FieldProjects, len(summaries))
	return nil
}
