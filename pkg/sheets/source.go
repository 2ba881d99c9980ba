// Package sheets provides access to the spreadsheet-backed datastore: a
// read-only client for the public GViz endpoint of a Google spreadsheet and
// a local xlsx-backed store used by the import tooling and offline runs.
// Tables are plain string matrices (header row first, ragged rows padded),
// which is the only contract the aggregation core relies on.
package sheets

import "context"

// TableSource fetches a named table as a header row plus data rows.
// An empty range fetches the whole sheet.
type TableSource interface {
	FetchTable(ctx context.Context, sheet, cellRange string) ([][]string, error)
}

// TableStore extends TableSource with the write operations the dashboard's
// partner and lead endpoints need.
type TableStore interface {
	TableSource

	// HeaderRow returns the first row of a sheet.
	HeaderRow(ctx context.Context, sheet string) ([]string, error)

	// AppendRows appends rows after the last data row of a sheet.
	AppendRows(ctx context.Context, sheet string, rows [][]string) error

	// DeleteRows removes the given 1-based row indices (header row = 1).
	DeleteRows(ctx context.Context, sheet string, rowIndices []int) error

	// UpdateRow replaces the given 1-based row.
	UpdateRow(ctx context.Context, sheet string, rowIndex int, row []string) error
}

// PadMatrix pads ragged rows with empty cells to the width of the widest
// row, so mappers can index columns without bounds anxiety.
func PadMatrix(matrix [][]string) [][]string {
	width := 0
	for _, row := range matrix {
		if len(row) > width {
			width = len(row)
		}
	}
	out := make([][]string, len(matrix))
	for i, row := range matrix {
		padded := make([]string, width)
		copy(padded, row)
		out[i] = padded
	}
	return out
}
