package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrExportNotFound is returned when no archived export has the given ID.
var ErrExportNotFound = errors.New("export not found")

// ExportRecord is one archived report export.
type ExportRecord struct {
	ID                 string
	GeneratedAt        time.Time
	TotalProjects      int
	TotalBeneficiaries int
	Payload            []byte
	Projects           []ExportProject
	CreatedAt          time.Time
}

// ExportProject is the per-project summary row of an archived export.
type ExportProject struct {
	Position      int
	Name          string
	Type          string
	Institutions  int
	Beneficiaries int
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	// The worker reads and writes from the consumer and the ticker at once;
	// one connection keeps SQLite from answering SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveExport stores the export and its project rows in one transaction.
func (r *SQLiteRepository) SaveExport(ctx context.Context, rec ExportRecord) error {
	if rec.ID == "" {
		return errors.New("export id is required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO report_exports (id, generated_at, total_projects, total_beneficiaries, payload)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.GeneratedAt.UTC().Format(time.RFC3339Nano), rec.TotalProjects, rec.TotalBeneficiaries, rec.Payload)
	if err != nil {
		return fmt.Errorf("insert export: %w", err)
	}

	for _, p := range rec.Projects {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO report_export_projects (export_id, position, project_name, project_type, institutions, beneficiaries)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			rec.ID, p.Position, p.Name, p.Type, p.Institutions, p.Beneficiaries)
		if err != nil {
			return fmt.Errorf("insert export project %q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit export: %w", err)
	}

	slog.InfoContext(ctx, "Report export archived to SQLite",
		"export_id", rec.ID,
		"projects", rec.TotalProjects,
		"beneficiaries", rec.TotalBeneficiaries)

	return nil
}

// ListExports returns the most recent exports first, without payloads or
// project rows. A non-positive limit returns every export.
func (r *SQLiteRepository) ListExports(ctx context.Context, limit int) ([]ExportRecord, error) {
	query := `SELECT id, generated_at, total_projects, total_beneficiaries, created_at
		FROM report_exports ORDER BY generated_at DESC, created_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	defer rows.Close()

	var out []ExportRecord
	for rows.Next() {
		var (
			rec                  ExportRecord
			generatedAt, created string
		)
		if err := rows.Scan(&rec.ID, &generatedAt, &rec.TotalProjects, &rec.TotalBeneficiaries, &created); err != nil {
			return nil, fmt.Errorf("scan export: %w", err)
		}
		if rec.GeneratedAt, err = parseTime(generatedAt); err != nil {
			return nil, err
		}
		if rec.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exports: %w", err)
	}
	return out, nil
}

// GetExport returns one export with its payload and project rows.
func (r *SQLiteRepository) GetExport(ctx context.Context, id string) (*ExportRecord, error) {
	var (
		rec                  ExportRecord
		generatedAt, created string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, generated_at, total_projects, total_beneficiaries, payload, created_at
		 FROM report_exports WHERE id = ?`, id).
		Scan(&rec.ID, &generatedAt, &rec.TotalProjects, &rec.TotalBeneficiaries, &rec.Payload, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get export %s: %w", id, err)
	}
	if rec.GeneratedAt, err = parseTime(generatedAt); err != nil {
		return nil, err
	}
	if rec.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}

	rec.Projects, err = r.ExportProjects(ctx, id)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ExportProjects returns the project rows of an export in report order.
func (r *SQLiteRepository) ExportProjects(ctx context.Context, id string) ([]ExportProject, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT position, project_name, project_type, institutions, beneficiaries
		 FROM report_export_projects WHERE export_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list export projects: %w", err)
	}
	defer rows.Close()

	var out []ExportProject
	for rows.Next() {
		var p ExportProject
		if err := rows.Scan(&p.Position, &p.Name, &p.Type, &p.Institutions, &p.Beneficiaries); err != nil {
			return nil, fmt.Errorf("scan export project: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate export projects: %w", err)
	}
	return out, nil
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
