package summary

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary   = "Summary"
	sheetQuestions = "Questions"
)

// WriteXLSX writes the current view as a workbook.
func (v *Viewer) WriteXLSX(w io.Writer, filterLabel string) error {
	view, ok := v.Current()
	if !ok {
		return ErrNotLoaded
	}
	return WriteXLSX(w, view, filterLabel)
}

// WriteXLSX writes view to w with a Summary and a Questions sheet.
func WriteXLSX(w io.Writer, view View, filterLabel string) error {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(sheetSummary); err != nil {
		return fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}
	if index, err := f.GetSheetIndex(sheetSummary); err == nil {
		f.SetActiveSheet(index)
	}

	if filterLabel == "" {
		filterLabel = AllExamTypes
	}
	stats := [][]interface{}{
		{"Exam Type", filterLabel},
		{"Unique Questions Attempted", view.Stats.TotalUniqueQuestionsAttempted},
		{"Answers Submitted", view.Stats.TotalAnswersSubmitted},
		{"Correct Answers", view.Stats.TotalCorrectAnswers},
		{"Incorrect Answers", view.Stats.TotalIncorrectAnswers},
		{"Correct Answer Rate (%)", view.RatePercent},
	}
	for i, row := range stats {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetSummary, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	if _, err := f.NewSheet(sheetQuestions); err != nil {
		return fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	headers := []interface{}{"Question ID", "Problem Statement", "Times Answered", "Times Correct", "Times Incorrect"}
	if err := f.SetSheetRow(sheetQuestions, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, p := range view.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{p.QuestionID, p.ProblemStatement, p.TimesAnswered, p.TimesCorrect, p.TimesIncorrect}
		if err := f.SetSheetRow(sheetQuestions, cell, &row); err != nil {
			return fmt.Errorf("failed to write performance row: %w", err)
		}
	}
	if len(view.Rows) == 0 {
		if err := f.SetCellValue(sheetQuestions, "A2", MsgNoPerformance); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}
