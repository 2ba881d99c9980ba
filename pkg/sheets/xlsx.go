package sheets

import (
	"context"
	"os"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// WorkbookStore is a TableStore over a local xlsx workbook. It backs the
// import tooling and offline development; one tab per logical table, same
// header conventions as the hosted spreadsheet.
//
// Every operation re-opens the file so external edits are picked up; a
// mutex serializes writers within the process.
type WorkbookStore struct {
	path string
	mu   sync.Mutex
}

// NewWorkbookStore creates a store for the workbook at path. The file is
// created on first write if it does not exist.
func NewWorkbookStore(path string) *WorkbookStore {
	return &WorkbookStore{path: path}
}

// FetchTable implements TableSource. The range parameter is ignored; local
// workbooks are read whole.
func (s *WorkbookStore) FetchTable(ctx context.Context, sheet, _ string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "xlsx: context done")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tab, _, err := s.openSheet(sheet, false)
	if err != nil {
		return nil, err
	}

	matrix := make([][]string, 0, len(tab.Rows))
	for _, row := range tab.Rows {
		cells := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			cells[i] = cell.String()
		}
		matrix = append(matrix, cells)
	}
	return PadMatrix(matrix), nil
}

// HeaderRow implements TableStore.
func (s *WorkbookStore) HeaderRow(ctx context.Context, sheet string) ([]string, error) {
	matrix, err := s.FetchTable(ctx, sheet, "")
	if err != nil {
		return nil, err
	}
	if len(matrix) == 0 {
		return nil, nil
	}
	return matrix[0], nil
}

// AppendRows implements TableStore.
func (s *WorkbookStore) AppendRows(ctx context.Context, sheet string, rows [][]string) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "xlsx: context done")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tab, file, err := s.openSheet(sheet, true)
	if err != nil {
		return err
	}

	for _, row := range rows {
		added := tab.AddRow()
		for _, value := range row {
			added.AddCell().SetString(value)
		}
	}
	if err := file.Save(s.path); err != nil {
		return eris.Wrap(err, "xlsx: save workbook")
	}
	return nil
}

// DeleteRows implements TableStore. Indices are 1-based with the header
// row at 1; out-of-range indices are ignored.
func (s *WorkbookStore) DeleteRows(ctx context.Context, sheet string, rowIndices []int) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "xlsx: context done")
	}
	if len(rowIndices) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tab, file, err := s.openSheet(sheet, false)
	if err != nil {
		return err
	}

	drop := make(map[int]struct{}, len(rowIndices))
	for _, index := range rowIndices {
		drop[index] = struct{}{}
	}

	kept := make([]*xlsx.Row, 0, len(tab.Rows))
	for i, row := range tab.Rows {
		if _, gone := drop[i+1]; gone {
			continue
		}
		kept = append(kept, row)
	}
	tab.Rows = kept

	if err := file.Save(s.path); err != nil {
		return eris.Wrap(err, "xlsx: save workbook")
	}
	return nil
}

// UpdateRow implements TableStore.
func (s *WorkbookStore) UpdateRow(ctx context.Context, sheet string, rowIndex int, row []string) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "xlsx: context done")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tab, file, err := s.openSheet(sheet, false)
	if err != nil {
		return err
	}
	if rowIndex < 1 || rowIndex > len(tab.Rows) {
		return eris.Errorf("xlsx: row %d out of range in %q", rowIndex, sheet)
	}

	target := tab.Rows[rowIndex-1]
	for i, value := range row {
		for len(target.Cells) <= i {
			target.AddCell()
		}
		target.Cells[i].SetString(value)
	}

	if err := file.Save(s.path); err != nil {
		return eris.Wrap(err, "xlsx: save workbook")
	}
	return nil
}

// openSheet opens the workbook and resolves a tab by name, optionally
// creating both. Callers hold s.mu.
func (s *WorkbookStore) openSheet(sheet string, create bool) (*xlsx.Sheet, *xlsx.File, error) {
	var file *xlsx.File
	if _, statErr := os.Stat(s.path); statErr != nil {
		if !create || !os.IsNotExist(statErr) {
			return nil, nil, eris.Wrap(statErr, "xlsx: open workbook")
		}
		file = xlsx.NewFile()
	} else {
		opened, err := xlsx.OpenFile(s.path)
		if err != nil {
			return nil, nil, eris.Wrap(err, "xlsx: open workbook")
		}
		file = opened
	}

	if tab, ok := file.Sheet[sheet]; ok {
		return tab, file, nil
	}
	if !create {
		return nil, nil, eris.Errorf("xlsx: sheet %q not found", sheet)
	}
	tab, err := file.AddSheet(sheet)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "xlsx: add sheet %q", sheet)
	}
	return tab, file, nil
}
