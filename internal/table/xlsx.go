package table

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// XLSXStore reads and writes tables as xlsx workbooks. Only the first
// sheet is used; the first row is the header. Empty cells map to the
// missing marker and missing values are written back as empty cells.
type XLSXStore struct{}

func NewXLSXStore() *XLSXStore {
	return &XLSXStore{}
}

// Read loads the first sheet of an xlsx file into a Table.
func (s *XLSXStore) Read(path string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("table file is not readable: %w", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("xlsx file has no sheets: %s", path)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("xlsx file has no header row: %s", path)
	}

	columns := append([]string(nil), rows[0]...)
	tbl := &Table{
		Columns: columns,
		Rows:    make([]Row, 0, len(rows)-1),
	}

	for _, raw := range rows[1:] {
		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(raw) && raw[i] != "" {
				row[col] = NewValue(raw[i])
			} else {
				row[col] = Missing()
			}
		}
		tbl.Rows = append(tbl.Rows, row)
	}

	return tbl, nil
}

// Write persists the table to an xlsx file, creating parent directories
// as needed and overwriting any existing file.
func (s *XLSXStore) Write(tbl *Table, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(tbl.Columns))
	for i, col := range tbl.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, row := range tbl.Rows {
		cells := make([]interface{}, len(tbl.Columns))
		for j, col := range tbl.Columns {
			v := row[col]
			if v.IsMissing() {
				cells[j] = nil
			} else {
				cells[j] = v.String
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell coordinate: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save xlsx file: %w", err)
	}
	return nil
}
