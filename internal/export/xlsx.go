package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the round.
const SheetName = "Round"

var xlsxHeader = []any{"#", "Type", "Question", "Your answer", "Correct answer", "Result"}

// XLSXExporter renders reports as spreadsheets.
type XLSXExporter struct{}

// Write renders rep as an XLSX workbook to w.
func (XLSXExporter) Write(w io.Writer, rep Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := setRow(f, 1, xlsxHeader); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, it := range rep.Items {
		row := []any{it.Number, it.Type, it.Question, it.AnswerText(), it.CorrectAnswer, resultText(it)}
		if err := setRow(f, i+2, row); err != nil {
			return err
		}
	}

	if rep.Result != nil {
		scoreRow := len(rep.Items) + 3
		if err := setRow(f, scoreRow, []any{"", "", rep.Result.Summary()}); err != nil {
			return err
		}
		if err := f.SetRowStyle(SheetName, scoreRow, scoreRow, bold); err != nil {
			return fmt.Errorf("style score: %w", err)
		}
	}

	widths := map[string]float64{"A": 5, "B": 16, "C": 60, "D": 18, "E": 18, "F": 10}
	for col, w := range widths {
		if err := f.SetColWidth(SheetName, col, col, w); err != nil {
			return fmt.Errorf("set width of %s: %w", col, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// Save writes the workbook for rep into dir and returns its path.
func (e XLSXExporter) Save(dir string, rep Report) (string, error) {
	var buf bytes.Buffer
	if err := e.Write(&buf, rep); err != nil {
		return "", err
	}
	return writeFile(dir, FileName(rep.Title, ".xlsx"), buf.Bytes())
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

func resultText(it Item) string {
	switch {
	case !it.Checked:
		return ""
	case it.Correct:
		return "correct"
	default:
		return "wrong"
	}
}
