package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/SAP-F-2025/exam-client/internal/admin"
	"github.com/urfave/cli/v3"
)

func (a *app) examTypesCommand() *cli.Command {
	return &cli.Command{
		Name:  "exam-types",
		Usage: "Manage exam types",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List exam types",
				Action: a.listExamTypes,
			},
			{
				Name:      "create",
				Usage:     "Create an exam type",
				ArgsUsage: "NAME",
				Action:    a.createExamType,
			},
			{
				Name:      "update",
				Usage:     "Rename an exam type",
				ArgsUsage: "ID NAME",
				Action:    a.updateExamType,
			},
			{
				Name:      "delete",
				Usage:     "Delete an exam type; its questions are kept without one",
				ArgsUsage: "ID",
				Flags:     []cli.Flag{yesFlag()},
				Action:    a.deleteExamType,
			},
		},
	}
}

func yesFlag() cli.Flag {
	return &cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "do not ask for confirmation"}
}

func (a *app) examTypeManager(ctx context.Context) (*admin.ExamTypeManager, error) {
	client, err := a.connect(ctx)
	if err != nil {
		return nil, err
	}
	return admin.NewExamTypeManager(client, a.board, a.logger), nil
}

func (a *app) listExamTypes(ctx context.Context, cmd *cli.Command) error {
	m, err := a.examTypeManager(ctx)
	if err != nil {
		return err
	}
	items, err := m.List(ctx)
	if err != nil {
		return a.finish(m.Board(), err)
	}
	if len(items) == 0 {
		infoColor.Fprintln(a.out, "No exam types found.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, et := range items {
		fmt.Fprintf(tw, "%d\t%s\n", et.ID, et.Name)
	}
	return tw.Flush()
}

func (a *app) createExamType(ctx context.Context, cmd *cli.Command) error {
	m, err := a.examTypeManager(ctx)
	if err != nil {
		return err
	}
	_, err = m.Create(ctx, strings.Join(cmd.Args().Slice(), " "))
	return a.finish(m.Board(), err)
}

func (a *app) updateExamType(ctx context.Context, cmd *cli.Command) error {
	id, err := argID(cmd, 0, "ID")
	if err != nil {
		return err
	}
	m, err := a.examTypeManager(ctx)
	if err != nil {
		return err
	}
	_, err = m.Update(ctx, id, strings.Join(cmd.Args().Tail(), " "))
	return a.finish(m.Board(), err)
}

func (a *app) deleteExamType(ctx context.Context, cmd *cli.Command) error {
	id, err := argID(cmd, 0, "ID")
	if err != nil {
		return err
	}
	m, err := a.examTypeManager(ctx)
	if err != nil {
		return err
	}
	// names in the confirmation prompt come from the list
	if _, err := m.List(ctx); err != nil {
		return a.finish(m.Board(), err)
	}
	return a.finish(m.Board(), m.Delete(ctx, id, a.confirmer(cmd.Bool("yes"))))
}
