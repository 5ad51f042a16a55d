package sheets

import (
	"context"
	"time"

	"sanartes/internal/core"
)

// SummaryRow is one spreadsheet line: a project summary tagged with the
// export it came from.
type SummaryRow struct {
	ExportID    string
	GeneratedAt time.Time
	core.ProjectSummary
}

// Ports for outbound adapters.
type (
	SummaryWriter interface {
		// AppendSummary appends rows after the last used row and returns a
		// reference to the written range.
		AppendSummary(ctx context.Context, rows []SummaryRow) (ref string, err error)
	}

	SummaryReader interface {
		// ListSummaries returns every stored row in sheet order.
		ListSummaries(ctx context.Context) ([]SummaryRow, error)
	}
)

// Header is the column layout shared by every SummaryWriter.
var Header = []string{"export_id", "fecha_generacion", "nombre_proyecto", "tipo_proyecto", "total_instituciones", "total_beneficiarios"}

// RowsFromSummaries tags each summary with the export it belongs to.
func RowsFromSummaries(exportID string, generatedAt time.Time, summaries []core.ProjectSummary) []SummaryRow {
	rows := make([]SummaryRow, len(summaries))
	for i, s := range summaries {
		rows[i] = SummaryRow{ExportID: exportID, GeneratedAt: generatedAt, ProjectSummary: s}
	}
	return rows
}
