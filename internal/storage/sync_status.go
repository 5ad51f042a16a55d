package storage

import (
	"context"
	"fmt"
	"time"
)

// Sheets sync states of an archived export.
const (
	SyncPending = "pending"
	SyncDone    = "synced"
	SyncError   = "error"
)

// PendingSyncExports returns exports not yet copied to Google Sheets, oldest
// first, with their project rows. Exports in the error state are retried.
func (r *SQLiteRepository) PendingSyncExports(ctx context.Context, limit int) ([]ExportRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM report_exports
		 WHERE sync_status IN (?, ?)
		 ORDER BY generated_at ASC
		 LIMIT ?`, SyncPending, SyncError, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending exports: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan pending export: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending exports: %w", err)
	}

	out := make([]ExportRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := r.GetExport(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

// MarkSynced records that the export reached Google Sheets.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	return r.setSyncStatus(ctx, id, SyncDone, time.Now().UTC().Format(time.RFC3339Nano))
}

// MarkSyncError flags the export for a later retry.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	return r.setSyncStatus(ctx, id, SyncError, "")
}

// SyncStatus returns the current sync state of an export.
func (r *SQLiteRepository) SyncStatus(ctx context.Context, id string) (string, error) {
	var status string
	err := r.db.QueryRowContext(ctx, `SELECT sync_status FROM report_exports WHERE id = ?`, id).Scan(&status)
	if err != nil {
		return "", fmt.Errorf("get sync status %s: %w", id, err)
	}
	return status, nil
}

func (r *SQLiteRepository) setSyncStatus(ctx context.Context, id, status, syncedAt string) error {
	var at any
	if syncedAt != "" {
		at = syncedAt
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE report_exports SET sync_status = ?, synced_at = ? WHERE id = ?`, status, at, id)
	if err != nil {
		return fmt.Errorf("update sync status %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrExportNotFound
	}
	return nil
}
