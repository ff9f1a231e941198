package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/SAP-F-2025/exam-client/internal/admin"
	"github.com/SAP-F-2025/exam-client/internal/models"
	"github.com/SAP-F-2025/exam-client/internal/notice"
	"github.com/SAP-F-2025/exam-client/internal/validator"
	"github.com/urfave/cli/v3"
)

const statementWidth = 60

func examTypeFlag(usage string) cli.Flag {
	return &cli.StringFlag{Name: "exam-type", Aliases: []string{"t"}, Usage: usage}
}

func questionFlags() []cli.Flag {
	return []cli.Flag{
		examTypeFlag("exam type ID"),
		&cli.StringFlag{Name: "statement", Aliases: []string{"s"}, Usage: "problem statement"},
		&cli.StringFlag{Name: "option1"},
		&cli.StringFlag{Name: "option2"},
		&cli.StringFlag{Name: "option3"},
		&cli.StringFlag{Name: "option4"},
		&cli.StringFlag{Name: "correct", Aliases: []string{"c"}, Usage: "number of the correct option (1-4)"},
		&cli.StringFlag{Name: "explanation", Aliases: []string{"e"}},
	}
}

func (a *app) questionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "questions",
		Usage: "Manage questions",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List questions",
				Flags:  []cli.Flag{examTypeFlag("only questions of this exam type")},
				Action: a.listQuestions,
			},
			{
				Name:   "create",
				Usage:  "Create a question",
				Flags:  questionFlags(),
				Action: a.createQuestion,
			},
			{
				Name:      "update",
				Usage:     "Change the given fields of a question",
				ArgsUsage: "ID",
				Flags:     questionFlags(),
				Action:    a.updateQuestion,
			},
			{
				Name:      "delete",
				Usage:     "Delete a question and its answer history",
				ArgsUsage: "ID",
				Flags:     []cli.Flag{yesFlag()},
				Action:    a.deleteQuestion,
			},
			{
				Name:      "import",
				Usage:     "Import questions from a JSON file",
				ArgsUsage: "FILE",
				Flags:     []cli.Flag{examTypeFlag("exam type to import into")},
				Action:    a.importQuestions,
			},
			{
				Name:  "export",
				Usage: "Export the questions of one exam type to a JSON file",
				Flags: []cli.Flag{
					examTypeFlag("exam type to export"),
					&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "target directory (overrides EXPORT_DIR)"},
				},
				Action: a.exportQuestions,
			},
		},
	}
}

func (a *app) questionManager(ctx context.Context, exportDir string) (*admin.QuestionManager, error) {
	client, err := a.connect(ctx)
	if err != nil {
		return nil, err
	}
	if exportDir == "" {
		exportDir = a.cfg.ExportDir
	}
	return admin.NewQuestionManager(client, validator.New(), a.board, a.logger,
		admin.WithExportDir(exportDir),
		admin.WithImportBoard(notice.NewBoard(a.cfg.NoticeTTL)),
	), nil
}

func (a *app) listQuestions(ctx context.Context, cmd *cli.Command) error {
	examTypeID, err := optionalID(cmd, "exam-type")
	if err != nil {
		return err
	}
	m, err := a.questionManager(ctx, "")
	if err != nil {
		return err
	}
	rows, err := m.List(ctx, examTypeID)
	if err != nil {
		return a.finish(m.Board(), err)
	}
	if len(rows) == 0 {
		infoColor.Fprintln(a.out, "No questions found.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEXAM TYPE\tCORRECT\tPROBLEM STATEMENT")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", r.ID, r.ExamTypeName, r.CorrectAnswer, truncate(r.ProblemStatement, statementWidth))
	}
	return tw.Flush()
}

func (a *app) createQuestion(ctx context.Context, cmd *cli.Command) error {
	examTypeID, err := optionalID(cmd, "exam-type")
	if err != nil {
		return err
	}
	in := models.QuestionCreate{
		ProblemStatement: cmd.String("statement"),
		Option1:          cmd.String("option1"),
		Option2:          cmd.String("option2"),
		Option3:          cmd.String("option3"),
		Option4:          cmd.String("option4"),
	}
	if examTypeID != nil {
		in.ExamTypeID = *examTypeID
	}
	if raw := cmd.String("correct"); raw != "" {
		if in.CorrectAnswer, err = parseID("correct", raw); err != nil {
			return err
		}
	}
	if cmd.IsSet("explanation") {
		explanation := cmd.String("explanation")
		in.Explanation = &explanation
	}

	m, err := a.questionManager(ctx, "")
	if err != nil {
		return err
	}
	created, err := m.Create(ctx, in)
	if err := a.finish(m.Board(), err); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Question ID: %d\n", created.ID)
	return nil
}

func (a *app) updateQuestion(ctx context.Context, cmd *cli.Command) error {
	id, err := argID(cmd, 0, "ID")
	if err != nil {
		return err
	}

	var in models.QuestionUpdate
	if in.ExamTypeID, err = optionalID(cmd, "exam-type"); err != nil {
		return err
	}
	if raw := cmd.String("correct"); raw != "" {
		correct, err := parseID("correct", raw)
		if err != nil {
			return err
		}
		in.CorrectAnswer = &correct
	}
	in.ProblemStatement = stringIfSet(cmd, "statement")
	in.Option1 = stringIfSet(cmd, "option1")
	in.Option2 = stringIfSet(cmd, "option2")
	in.Option3 = stringIfSet(cmd, "option3")
	in.Option4 = stringIfSet(cmd, "option4")
	in.Explanation = stringIfSet(cmd, "explanation")

	m, err := a.questionManager(ctx, "")
	if err != nil {
		return err
	}
	_, err = m.Update(ctx, id, in)
	return a.finish(m.Board(), err)
}

func stringIfSet(cmd *cli.Command, name string) *string {
	if !cmd.IsSet(name) {
		return nil
	}
	v := cmd.String(name)
	return &v
}

func (a *app) deleteQuestion(ctx context.Context, cmd *cli.Command) error {
	id, err := argID(cmd, 0, "ID")
	if err != nil {
		return err
	}
	m, err := a.questionManager(ctx, "")
	if err != nil {
		return err
	}
	return a.finish(m.Board(), m.Delete(ctx, id, a.confirmer(cmd.Bool("yes"))))
}

func (a *app) importQuestions(ctx context.Context, cmd *cli.Command) error {
	examTypeID, err := optionalID(cmd, "exam-type")
	if err != nil {
		return err
	}
	m, err := a.questionManager(ctx, "")
	if err != nil {
		return err
	}

	var (
		filename string
		r        io.Reader
	)
	if path := cmd.Args().First(); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		filename, r = path, f
	}

	_, err = m.Import(ctx, examTypeID, filename, r)
	return a.finish(m.ImportBoard(), err)
}

func (a *app) exportQuestions(ctx context.Context, cmd *cli.Command) error {
	examTypeID, err := optionalID(cmd, "exam-type")
	if err != nil {
		return err
	}
	m, err := a.questionManager(ctx, cmd.String("dir"))
	if err != nil {
		return err
	}
	_, err = m.Export(ctx, examTypeID)
	return a.finish(m.Board(), err)
}
