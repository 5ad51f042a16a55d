package memory

import (
	"context"
	"fmt"
	"sync"

	"sanartes/internal/sheets"
)

// Store is an in-process spreadsheet used for dry runs and tests.
type Store struct {
	mu   sync.Mutex
	rows []sheets.SummaryRow
}

// Ensure interface conformance
var (
	_ sheets.SummaryWriter = (*Store)(nil)
	_ sheets.SummaryReader = (*Store)(nil)
)

func New() *Store {
	return &Store{}
}

// AppendSummary stores the rows and returns a synthetic range reference
// counting the header as row 1.
func (s *Store) AppendSummary(_ context.Context, rows []sheets.SummaryRow) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(rows) == 0 {
		return "", nil
	}
	first := len(s.rows) + 2
	s.rows = append(s.rows, rows...)
	return fmt.Sprintf("mem!A%d:F%d", first, first+len(rows)-1), nil
}

// ListSummaries returns a copy of the stored rows.
func (s *Store) ListSummaries(_ context.Context) ([]sheets.SummaryRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sheets.SummaryRow(nil), s.rows...), nil
}
