package history

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/textfetch/textfetch/internal/types"
)

// ExportFormats lists the supported export formats.
var ExportFormats = []string{"json", "csv", "md"}

// Export writes records to w in the given format.
func Export(w io.Writer, format string, records []*types.Record) error {
	switch format {
	case "json":
		return exportJSON(w, records)
	case "csv":
		return exportCSV(w, records)
	case "md":
		return exportMarkdown(w, records)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

func exportJSON(w io.Writer, records []*types.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if records == nil {
		records = []*types.Record{}
	}
	return enc.Encode(records)
}

func exportCSV(w io.Writer, records []*types.Record) error {
	cw := csv.NewWriter(w)

	header := []string{"id", "url", "title", "mode", "status_code", "bytes", "created_at", "text"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.ID,
			rec.URL,
			rec.Title,
			rec.Mode,
			strconv.Itoa(rec.StatusCode),
			strconv.FormatInt(rec.Bytes, 10),
			rec.CreatedAt.Format(time.RFC3339),
			rec.Text,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func exportMarkdown(w io.Writer, records []*types.Record) error {
	if _, err := fmt.Fprintf(w, "# Extraction History\n\n"); err != nil {
		return err
	}
	for _, rec := range records {
		title := rec.Title
		if title == "" {
			title = rec.URL
		}
		if _, err := fmt.Fprintf(w, "## %s\n\n- URL: %s\n- Mode: %s\n- Status: %d\n- Extracted: %s\n\n%s\n\n",
			title, rec.URL, rec.Mode, rec.StatusCode, rec.CreatedAt.Format(time.RFC3339), rec.Text); err != nil {
			return err
		}
	}
	return nil
}
