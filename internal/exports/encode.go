package exports

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"smart-resume/internal/resume"
)

const xlsxSheet = "Resume"

// Encode writes rec in the given format.
func Encode(w io.Writer, kind Kind, rec resume.Record) error {
	switch kind {
	case KindJSON:
		return EncodeJSON(w, rec)
	case KindCSV:
		return EncodeCSV(w, rec)
	case KindXLSX:
		return EncodeXLSX(w, rec)
	default:
		return fmt.Errorf("unknown export kind %q", kind)
	}
}

// EncodeJSON writes rec indented by two spaces with non-ASCII and HTML
// characters left unescaped.
func EncodeJSON(w io.Writer, rec resume.Record) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

// EncodeCSV writes one key,value row per top-level field without a header.
func EncodeCSV(w io.Writer, rec resume.Record) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	for _, row := range Rows(rec) {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodeXLSX writes the same rows as EncodeCSV under a Key/Value header.
func EncodeXLSX(w io.Writer, rec resume.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &[]any{"Key", "Value"}); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(xlsxSheet, "A1", "B1", bold); err != nil {
		return err
	}
	for i, row := range Rows(rec) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &[]any{row[0], row[1]}); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(xlsxSheet, "A", "A", 16); err != nil {
		return err
	}
	if err := f.SetColWidth(xlsxSheet, "B", "B", 80); err != nil {
		return err
	}
	return f.Write(w)
}

// Rows flattens rec to key,value pairs: lists are joined with ", ", objects
// become compact JSON, null becomes empty.
func Rows(rec resume.Record) [][]string {
	fields := rec.Fields()
	rows := make([][]string, 0, len(fields))
	for _, field := range fields {
		rows = append(rows, []string{field.Key, cellText(field.Value)})
	}
	return rows
}

func cellText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err == nil {
			parts := make([]string, 0, len(items))
			for _, item := range items {
				parts = append(parts, resume.ValueText(item))
			}
			return strings.Join(parts, ", ")
		}
	}
	return resume.ValueText(trimmed)
}
