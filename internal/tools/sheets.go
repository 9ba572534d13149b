package tools

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"taskpilot/internal/store"
)

// SheetManager implements the spreadsheet tool against the local store.
// Shareable links are built from a configured base URL so they stay
// stable across export and email actions.
type SheetManager struct {
	Store        *store.Store
	ExportDir    string
	ShareBaseURL string
}

func NewSheetManager(st *store.Store, exportDir, shareBaseURL string) *SheetManager {
	if shareBaseURL == "" {
		shareBaseURL = "https://sheets.taskpilot.local"
	}
	return &SheetManager{Store: st, ExportDir: exportDir, ShareBaseURL: shareBaseURL}
}

// CreateSheet creates a new empty sheet and returns its id.
func (m *SheetManager) CreateSheet(title string) (string, error) {
	id := uuid.NewString()
	if err := m.Store.CreateSheet(id, title); err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	return id, nil
}

// WriteRows replaces the sheet's contents. Fails if the id is unknown.
func (m *SheetManager) WriteRows(id string, header []string, rows [][]string) error {
	return m.Store.WriteSheetRows(id, header, rows)
}

// ShareableLink returns the public link for an existing sheet.
func (m *SheetManager) ShareableLink(id string) (string, error) {
	exists, err := m.Store.SheetExists(id)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("sheet with ID %s does not exist", id)
	}
	return fmt.Sprintf("%s/%s", m.ShareBaseURL, id), nil
}

// Export writes the sheet to a file in the export directory and returns
// the file path. Format "csv" produces CSV; anything else is treated as
// a spreadsheet (xlsx) export.
func (m *SheetManager) Export(id, format string) (string, error) {
	_, header, rows, err := m.Store.ReadSheet(id)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(m.ExportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	if format == "" || format == "csv" {
		path := filepath.Join(m.ExportDir, fmt.Sprintf("products_%s.csv", timestamp))
		if err := writeCSV(path, header, rows); err != nil {
			return "", fmt.Errorf("error exporting sheet as CSV: %w", err)
		}
		return path, nil
	}

	path := filepath.Join(m.ExportDir, fmt.Sprintf("products_%s.xlsx", timestamp))
	if err := writeXLSX(path, header, rows); err != nil {
		return "", fmt.Errorf("error exporting sheet as Excel: %w", err)
	}
	return path, nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeXLSX(path string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	all := append([][]string{header}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
