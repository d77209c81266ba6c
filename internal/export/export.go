// Package export renders a computed dashboard as flat tables for CSV and XLSX downloads.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/jekabolt/salon-analytics/internal/entity"
	gerr "github.com/jekabolt/salon-analytics/internal/errors"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", gerr.ErrUnknownFormat, s)
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Filename names the attachment after the filter range.
func (f Format) Filename(d *entity.Dashboard) string {
	const layout = "20060102"
	return fmt.Sprintf("salon-analytics-%s-%s.%s",
		d.Filter.DateRange.Start.Format(layout),
		d.Filter.DateRange.End.Format(layout),
		f,
	)
}

// Write renders d in the given format.
func Write(w io.Writer, f Format, d *entity.Dashboard) error {
	tables := Tables(d)
	switch f {
	case FormatCSV:
		return WriteCSV(w, tables)
	case FormatXLSX:
		return WriteXLSX(w, tables)
	}
	return fmt.Errorf("%w: %q", gerr.ErrUnknownFormat, f)
}
