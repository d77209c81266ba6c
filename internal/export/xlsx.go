package export

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// WriteXLSX writes one worksheet per table. Numbers stay numeric.
func WriteXLSX(w io.Writer, tables []Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, t := range tables {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, t.Name); err != nil {
				return fmt.Errorf("can't rename sheet %s: %w", t.Name, err)
			}
		} else if _, err := f.NewSheet(t.Name); err != nil {
			return fmt.Errorf("can't create sheet %s: %w", t.Name, err)
		}
		if err := writeSheet(f, t); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("can't write xlsx: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, t Table) error {
	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := setRow(f, t.Name, 1, header); err != nil {
		return err
	}
	for i, row := range t.Rows {
		cells := make([]any, len(row))
		for j, c := range row {
			cells[j] = xlsxCell(c)
		}
		if err := setRow(f, t.Name, i+2, cells); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("can't address row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("can't write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func xlsxCell(v any) any {
	switch c := v.(type) {
	case decimal.Decimal:
		return c.Round(2).InexactFloat64()
	case time.Time:
		return formatCell(c)
	}
	return v
}
