package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/SAP-F-2025/exam-client/internal/summary"
	"github.com/urfave/cli/v3"
)

func (a *app) summaryCommand() *cli.Command {
	return &cli.Command{
		Name:  "summary",
		Usage: "Show your answer statistics",
		Flags: []cli.Flag{
			examTypeFlag("only answers to questions of this exam type"),
			&cli.StringFlag{Name: "xlsx", Usage: "also write the report to this Excel file"},
		},
		Action: a.summary,
	}
}

func (a *app) summary(ctx context.Context, cmd *cli.Command) error {
	examTypeID, err := optionalID(cmd, "exam-type")
	if err != nil {
		return err
	}
	client, err := a.connect(ctx)
	if err != nil {
		return err
	}

	viewer := summary.NewViewer(client, a.board, a.logger)
	view, err := viewer.Load(ctx, examTypeID)
	if err != nil {
		return a.finish(viewer.Board(), err)
	}

	label := summary.AllExamTypes
	if examTypeID != nil {
		label = fmt.Sprintf("Exam type %d", *examTypeID)
		if types, err := client.ListExamTypes(ctx); err == nil {
			for _, et := range types {
				if et.ID == *examTypeID {
					label = et.Name
				}
			}
		}
	}
	a.renderSummary(label, view)

	path := cmd.String("xlsx")
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := viewer.WriteXLSX(f, label); err != nil {
		f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	successColor.Fprintln(a.out, fmt.Sprintf("Report written to %s.", path))
	return nil
}

func (a *app) renderSummary(label string, view summary.View) {
	printHeading(a.out, "Summary: %s", label)
	s := view.Stats
	fmt.Fprintf(a.out, "Unique questions attempted: %d\n", s.TotalUniqueQuestionsAttempted)
	fmt.Fprintf(a.out, "Answers submitted:          %d\n", s.TotalAnswersSubmitted)
	fmt.Fprintf(a.out, "Correct answers:            %d\n", s.TotalCorrectAnswers)
	fmt.Fprintf(a.out, "Incorrect answers:          %d\n", s.TotalIncorrectAnswers)
	fmt.Fprintf(a.out, "Correct answer rate:        %s%%\n", view.RatePercent)
	fmt.Fprintln(a.out)

	if view.EmptyMessage != "" {
		infoColor.Fprintln(a.out, view.EmptyMessage)
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tANSWERED\tCORRECT\tINCORRECT\tPROBLEM STATEMENT")
	for _, r := range view.Rows {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%s\n", r.QuestionID, r.TimesAnswered, r.TimesCorrect, r.TimesIncorrect, truncate(r.ProblemStatement, statementWidth))
	}
	tw.Flush()
}
