// Package export renders a completed report's rows into downloadable
// artifacts. CSV is the canonical stored format; XLSX and PDF are rendered
// on demand from the stored rows.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/storewatch/uptime-api/internal/domain/model"
)

// Format identifies an artifact rendering.
type Format string

const (
	// FormatCSV is the canonical stored artifact format.
	FormatCSV Format = "csv"
	// FormatXLSX renders the report as a spreadsheet.
	FormatXLSX Format = "xlsx"
	// FormatPDF renders the report as a printable table.
	FormatPDF Format = "pdf"
)

// ParseFormat validates a user-supplied format string, defaulting to CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported format %q", s)
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/csv"
	}
}

// Filename returns the download filename for the format.
func (f Format) Filename() string {
	return "report." + string(f)
}

// WriteCSV serialises rows in the fixed column order.
func WriteCSV(w io.Writer, rows []model.ReportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.ReportColumns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := range rows {
		if err := cw.Write(rows[i].Values()); err != nil {
			return fmt.Errorf("write csv row %s: %w", rows[i].StoreID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// BuildCSV renders rows into CSV bytes.
func BuildCSV(rows []model.ReportRow) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadCSV parses a stored CSV artifact back into rows. The header is
// checked so a foreign file never silently renders as a report.
func ReadCSV(r io.Reader) ([]model.ReportRow, error) {
	cr := csv.NewReader(r)
	head, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read artifact header: %w", err)
	}
	if len(head) != len(model.ReportColumns) {
		return nil, fmt.Errorf("unexpected artifact header width %d", len(head))
	}
	for i, col := range head {
		if col != model.ReportColumns[i] {
			return nil, fmt.Errorf("unexpected artifact column %q", col)
		}
	}

	var rows []model.ReportRow
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read artifact row: %w", err)
		}
		row, err := parseRow(rec)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(rec []string) (model.ReportRow, error) {
	var row model.ReportRow
	if len(rec) != len(model.ReportColumns) {
		return row, fmt.Errorf("unexpected artifact row width %d", len(rec))
	}
	row.StoreID = rec[0]

	vals := make([]float64, 6)
	for i, s := range rec[1:] {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return row, fmt.Errorf("parse artifact value %q: %w", s, err)
		}
		vals[i] = v
	}
	row.UptimeLastHour = vals[0]
	row.UptimeLastDay = vals[1]
	row.UptimeLastWeek = vals[2]
	row.DowntimeLastHour = vals[3]
	row.DowntimeLastDay = vals[4]
	row.DowntimeLastWeek = vals[5]
	return row, nil
}

// BuildXLSX renders rows as a single-sheet spreadsheet.
func BuildXLSX(rows []model.ReportRow) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "report"
	f.SetSheetName("Sheet1", sheet)

	for i, col := range model.ReportColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("xlsx header cell: %w", err)
		}
		_ = f.SetCellValue(sheet, cell, col)
	}
	for r := range rows {
		for c, v := range rows[r].Values() {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, fmt.Errorf("xlsx cell: %w", err)
			}
			if c == 0 {
				_ = f.SetCellValue(sheet, cell, v)
				continue
			}
			num, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("xlsx value %q: %w", v, err)
			}
			_ = f.SetCellValue(sheet, cell, num)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildPDF renders rows as a landscape table.
func BuildPDF(rows []model.ReportRow) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Store Uptime Report")
	pdf.Ln(10)

	const idWidth, numWidth = 80.0, 33.0
	pdf.SetFont("Arial", "B", 8)
	pdf.CellFormat(idWidth, 6, "store_id", "1", 0, "C", false, 0, "")
	for _, col := range model.ReportColumns[1:] {
		pdf.CellFormat(numWidth, 6, col, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for i := range rows {
		vals := rows[i].Values()
		pdf.CellFormat(idWidth, 6, vals[0], "1", 0, "L", false, 0, "")
		for _, v := range vals[1:] {
			pdf.CellFormat(numWidth, 6, v, "1", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// Render converts the stored CSV artifact bytes into the requested format.
func Render(artifact []byte, format Format) ([]byte, error) {
	if format == FormatCSV {
		return artifact, nil
	}
	rows, err := ReadCSV(bytes.NewReader(artifact))
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatXLSX:
		return BuildXLSX(rows)
	case FormatPDF:
		return BuildPDF(rows)
	default:
		return artifact, nil
	}
}
