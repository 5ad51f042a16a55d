package google

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"sanartes/internal/core"
	ports "sanartes/internal/sheets"
)

// parseSummaryRows converts a values matrix (as returned by Sheets API)
// into summary rows. Header rows, short rows and rows whose counters are
// not numbers are skipped.
func parseSummaryRows(values [][]interface{}) []ports.SummaryRow {
	var out []ports.SummaryRow
	for _, raw := range values {
		row := toStrings(raw)
		if len(row) < len(ports.Header) {
			continue
		}
		institutions, err := strconv.Atoi(row[4])
		if err != nil {
			continue
		}
		beneficiaries, err := strconv.Atoi(row[5])
		if err != nil {
			continue
		}
		generatedAt, _ := time.Parse(time.RFC3339, row[1])
		out = append(out, ports.SummaryRow{
			ExportID:    row[0],
			GeneratedAt: generatedAt,
			ProjectSummary: core.ProjectSummary{
				Name:          row[2],
				Type:          row[3],
				Institutions:  institutions,
				Beneficiaries: beneficiaries,
			},
		})
	}
	return out
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
