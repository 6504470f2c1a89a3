// Package xlsxlog appends comparison results to an Excel log workbook.
package xlsxlog

import (
	"fmt"
	"os"
	"time"

	"github.com/gofrs/flock"
	"github.com/xuri/excelize/v2"

	"github.com/confdiff/confdiff/internal/fsutil"
	"github.com/confdiff/confdiff/pkg/confdiff"
)

// DefaultSheetName is used when the caller does not configure one.
const DefaultSheetName = "Configuration Comparison"

const maxColumnWidth = 50

var header = []interface{}{"Component Name", "Config File Name", "Changes", "Date of Comparison"}

// Result reports the outcome of a log update. A refusal (locked workbook,
// unreadable workbook) is reported here rather than as an error so callers
// can surface it without discarding the comparison that produced the rows.
type Result struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	UpdatedRows int    `json:"updated_rows"`
}

func failure(format string, args ...interface{}) Result {
	return Result{Success: false, Message: fmt.Sprintf(format, args...), UpdatedRows: 0}
}

// Update appends one row per changed FileDiff to the named sheet of the
// workbook at path, creating the workbook, the sheet, and a styled header
// row as needed. Rows are cumulative; existing rows are never rewritten.
// Update refuses to touch a workbook that is open in another program.
func Update(path, sheetName string, diffs []*confdiff.FileDiff) Result {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}

	if locked(path) {
		return failure("Please close the Excel file first: %s", path)
	}

	workbook, created, err := openWorkbook(path)
	if err != nil {
		return failure("Error opening Excel file: %v", err)
	}
	defer workbook.Close()

	if err := ensureSheet(workbook, sheetName, created); err != nil {
		return failure("Error preparing sheet %s: %v", sheetName, err)
	}

	rows, err := workbook.GetRows(sheetName)
	if err != nil {
		return failure("Error reading sheet %s: %v", sheetName, err)
	}
	next := len(rows) + 1

	updated := 0
	stamp := time.Now().Format("2006-01-02 15:04:05")
	for _, fileDiff := range diffs {
		if fileDiff == nil || !fileDiff.HasChanges {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, next)
		if err != nil {
			return failure("Error updating Excel: %v", err)
		}
		row := []interface{}{fileDiff.ComponentName, fileDiff.FileName, fileDiff.Summary(), stamp}
		if err := workbook.SetSheetRow(sheetName, cell, &row); err != nil {
			return failure("Error updating Excel: %v", err)
		}
		next++
		updated++
	}

	if err := autoSizeColumns(workbook, sheetName); err != nil {
		return failure("Error updating Excel: %v", err)
	}

	if err := workbook.SaveAs(path); err != nil {
		return failure("Error saving Excel file: %v", err)
	}
	return Result{
		Success:     true,
		Message:     fmt.Sprintf("Excel updated successfully. Added %d row(s).", updated),
		UpdatedRows: updated,
	}
}

// locked probes whether another process holds the workbook. Spreadsheet
// applications keep the file open for writing, which shows up either as a
// flock conflict or as a failed open for write. The probe races with the
// write that follows; accepted for a single-operator tool.
func locked(path string) bool {
	if !fsutil.PathExists(path) {
		return false
	}
	lock := flock.New(path)
	acquired, err := lock.TryLock()
	if err != nil || !acquired {
		return true
	}
	defer func() { _ = lock.Unlock() }()

	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return true
	}
	_ = file.Close()
	return false
}

func openWorkbook(path string) (workbook *excelize.File, created bool, err error) {
	if fsutil.PathExists(path) {
		workbook, err = excelize.OpenFile(path)
		return workbook, false, err
	}
	return excelize.NewFile(), true, nil
}

func ensureSheet(workbook *excelize.File, sheetName string, created bool) error {
	if index, err := workbook.GetSheetIndex(sheetName); err == nil && index >= 0 {
		return nil
	}

	index, err := workbook.NewSheet(sheetName)
	if err != nil {
		return err
	}
	workbook.SetActiveSheet(index)
	if created && sheetName != "Sheet1" {
		// A fresh workbook carries a default Sheet1 that should not linger.
		if err := workbook.DeleteSheet("Sheet1"); err != nil {
			return err
		}
	}

	if err := workbook.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}
	styleID, err := workbook.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"366092"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	return workbook.SetCellStyle(sheetName, "A1", "D1", styleID)
}

func autoSizeColumns(workbook *excelize.File, sheetName string) error {
	cols, err := workbook.GetCols(sheetName)
	if err != nil {
		return err
	}
	for i, col := range cols {
		width := 0
		for _, cell := range col {
			if len(cell) > width {
				width = len(cell)
			}
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := workbook.SetColWidth(sheetName, name, name, min(float64(width+2), maxColumnWidth)); err != nil {
			return err
		}
	}
	return nil
}
