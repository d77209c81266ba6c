package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes every table as a titled block separated by an empty line.
func WriteCSV(w io.Writer, tables []Table) error {
	cw := csv.NewWriter(w)
	for i, t := range tables {
		if i > 0 {
			if err := cw.Write([]string{}); err != nil {
				return fmt.Errorf("can't write csv separator: %w", err)
			}
		}
		if err := cw.Write([]string{t.Name}); err != nil {
			return fmt.Errorf("can't write csv title %s: %w", t.Name, err)
		}
		if err := cw.Write(t.Header); err != nil {
			return fmt.Errorf("can't write csv header %s: %w", t.Name, err)
		}
		for _, row := range t.Rows {
			rec := make([]string, len(row))
			for j, c := range row {
				rec[j] = formatCell(c)
			}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("can't write csv row %s: %w", t.Name, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
