package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/SAP-F-2025/exam-client/internal/errors"
	"github.com/SAP-F-2025/exam-client/internal/session"
	"github.com/urfave/cli/v3"
)

func (a *app) examCommand() *cli.Command {
	return &cli.Command{
		Name:  "exam",
		Usage: "Answer questions of one exam type until none are left",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "exam-type", Aliases: []string{"t"}, Usage: "exam type ID; prompted for when omitted"},
		},
		Action: a.exam,
	}
}

func (a *app) exam(ctx context.Context, cmd *cli.Command) error {
	client, err := a.connect(ctx)
	if err != nil {
		return err
	}
	publisher, err := a.activityPublisher()
	if err != nil {
		return err
	}

	ctrl := session.NewController(client, publisher, a.logger)
	st := ctrl.Dispatch(ctx, session.Init{})
	if st.Phase == session.LoggedOut {
		return apperrors.ErrAuthRequired
	}
	if st.Message != "" {
		return errors.New(st.Message)
	}

	examTypeID, err := a.chooseExamType(cmd, st)
	if err != nil {
		return err
	}
	ctrl.Dispatch(ctx, session.SelectExamType{ID: examTypeID})
	st = ctrl.Dispatch(ctx, session.Start{})

	for {
		switch st.Phase {
		case session.LoggedOut:
			return apperrors.ErrAuthRequired

		case session.Exhausted:
			successColor.Fprintln(a.out, st.Message)
			fmt.Fprintf(a.out, "Answered %d question(s) this session.\n", st.Answered)
			return nil

		case session.Failed:
			errorColor.Fprintln(a.out, st.Message)
			if quit, err := a.waitForNext("Press Enter to retry, q to quit: "); err != nil || quit {
				return err
			}
			st = ctrl.Dispatch(ctx, session.Next{})

		case session.AnsweringQuestion:
			a.renderQuestion(st)
			choice, quit, err := a.readChoice(len(st.Options))
			if err != nil || quit {
				return err
			}
			ctrl.Dispatch(ctx, session.SelectOption{DisplayPosition: choice})
			st = ctrl.Dispatch(ctx, session.Submit{})
			if st.Phase == session.AnsweringQuestion && st.Message != "" {
				errorColor.Fprintln(a.out, st.Message)
			}

		case session.ShowingResult:
			a.renderResult(st.Result)
			if quit, err := a.waitForNext("Press Enter for the next question, q to quit: "); err != nil || quit {
				return err
			}
			st = ctrl.Dispatch(ctx, session.Next{})

		default:
			if st.Message != "" {
				return errors.New(st.Message)
			}
			return fmt.Errorf("unexpected session phase %q", st.Phase)
		}
	}
}

func (a *app) chooseExamType(cmd *cli.Command, st session.State) (int, error) {
	if raw := cmd.String("exam-type"); raw != "" {
		return parseID("exam-type", raw)
	}
	if len(st.ExamTypes) == 0 {
		return 0, apperrors.Local("", "No exam types available.")
	}

	printHeading(a.out, "Exam types")
	for _, et := range st.ExamTypes {
		fmt.Fprintf(a.out, "  %d) %s\n", et.ID, et.Name)
	}
	answer, err := a.prompt("Select exam type: ")
	if err != nil {
		return 0, err
	}
	if answer == "" {
		return 0, apperrors.Local("", session.MsgSelectExamType)
	}
	return parseID("exam-type", answer)
}

func (a *app) renderQuestion(st session.State) {
	fmt.Fprintln(a.out)
	printHeading(a.out, "Question %d", st.Question.ID)
	fmt.Fprintln(a.out, st.Question.ProblemStatement)
	for _, o := range st.Options {
		fmt.Fprintf(a.out, "  %d) %s\n", o.DisplayPosition, o.Text)
	}
}

func (a *app) renderResult(r *session.Result) {
	if r == nil {
		return
	}
	if r.IsCorrect {
		successColor.Fprintln(a.out, r.Headline)
	} else {
		errorColor.Fprintln(a.out, r.Headline)
	}
	if r.CorrectDisplayPosition > 0 {
		fmt.Fprintf(a.out, "Correct answer: %d) %s\n", r.CorrectDisplayPosition, r.CorrectText)
	} else {
		fmt.Fprintf(a.out, "Correct answer: option %d\n", r.CorrectOption)
	}
	fmt.Fprintf(a.out, "Explanation: %s\n", r.Explanation)
}

// readChoice asks until it gets a number in 1..n or q. EOF counts as quitting.
func (a *app) readChoice(n int) (int, bool, error) {
	for {
		answer, err := a.prompt(fmt.Sprintf("Your answer (1-%d, q to quit): ", n))
		if errors.Is(err, io.EOF) {
			return 0, true, nil
		}
		if err != nil {
			return 0, false, err
		}
		if strings.EqualFold(answer, "q") {
			return 0, true, nil
		}
		choice, err := strconv.Atoi(answer)
		if err != nil || choice < 1 || choice > n {
			errorColor.Fprintln(a.out, session.MsgSelectAnswer)
			continue
		}
		return choice, false, nil
	}
}

func (a *app) waitForNext(label string) (bool, error) {
	answer, err := a.prompt(label)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "q"), nil
}
