package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/salesinsight/salesinsight/internal/pipeline"
)

// Formats lists the supported export formats.
var Formats = []string{"xlsx", "json"}

// Write exports the results to path in the given format.
func Write(res *pipeline.Results, format, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}
	sheets := Sheets(res)
	switch format {
	case "xlsx":
		return WriteXLSX(sheets, path)
	case "json":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		if err := WriteJSON(f, res, sheets); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

// WriteXLSX writes one worksheet per sheet with a bold header row.
func WriteXLSX(sheets []Sheet, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.Name); err != nil {
				return fmt.Errorf("naming sheet %s: %w", s.Name, err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", s.Name, err)
		}

		headers := make([]any, len(s.Headers))
		for j, h := range s.Headers {
			headers[j] = h
		}
		if err := f.SetSheetRow(s.Name, "A1", &headers); err != nil {
			return fmt.Errorf("writing %s header: %w", s.Name, err)
		}
		if len(s.Headers) > 0 {
			last, _ := excelize.CoordinatesToCellName(len(s.Headers), 1)
			if err := f.SetCellStyle(s.Name, "A1", last, header); err != nil {
				return fmt.Errorf("styling %s header: %w", s.Name, err)
			}
		}
		for r, row := range s.Rows {
			cell, _ := excelize.CoordinatesToCellName(1, r+2)
			if err := f.SetSheetRow(s.Name, cell, &row); err != nil {
				return fmt.Errorf("writing %s row %d: %w", s.Name, r+1, err)
			}
		}
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

type document struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Sheets      []Sheet   `json:"sheets"`
}

// WriteJSON writes the sheets as an indented JSON document.
func WriteJSON(w io.Writer, res *pipeline.Results, sheets []Sheet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{RunID: res.RunID, GeneratedAt: res.GeneratedAt, Sheets: sheets}); err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	return nil
}
