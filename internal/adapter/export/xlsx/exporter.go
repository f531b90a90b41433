// Package xlsx writes the Burnki notes of a collection to a spreadsheet.
package xlsx

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/heartmarshall/burnki/internal/domain"
)

// SheetName is the sheet the notes are written to.
const SheetName = "Sheet1"

const (
	columnWidth     = 18
	wideColumnWidth = 48
)

var wideFields = map[string]bool{
	domain.FieldMeanings:         true,
	domain.FieldReadings:         true,
	domain.FieldContextSentences: true,
	domain.FieldMeaningNote:      true,
	domain.FieldReadingNote:      true,
}

// Write renders one header row of field names followed by one row per note
// and writes the workbook to w. Line breaks stored as <br> become newlines.
func Write(w io.Writer, fields []string, notes []domain.Note) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]any, len(fields))
	for i, name := range fields {
		header[i] = name
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("xlsx: write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx: header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("xlsx: header style: %w", err)
	}

	for i, name := range fields {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("xlsx: column %d: %w", i+1, err)
		}
		width := float64(columnWidth)
		if wideFields[name] {
			width = wideColumnWidth
		}
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return fmt.Errorf("xlsx: column width: %w", err)
		}
	}

	for r, n := range notes {
		row := make([]any, len(fields))
		for i, name := range fields {
			row[i] = cellValue(n.Fields[name])
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return fmt.Errorf("xlsx: row %d: %w", r+2, err)
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("xlsx: write row %d: %w", r+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx: write workbook: %w", err)
	}
	return nil
}

// WriteFile is Write into a newly created file at path.
func WriteFile(path string, fields []string, notes []domain.Note) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	if err := Write(out, fields, notes); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func cellValue(v string) string {
	return strings.ReplaceAll(v, "<br>", "\n")
}
