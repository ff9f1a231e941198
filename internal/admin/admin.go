// Package admin implements the exam type and question management flows.
package admin

import (
	"context"
	"io"

	apperrors "github.com/SAP-F-2025/exam-client/internal/errors"
	"github.com/SAP-F-2025/exam-client/internal/models"
	"github.com/SAP-F-2025/exam-client/internal/notice"
)

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm approves every prompt. Used for --yes.
var AlwaysConfirm = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

type ExamTypeAPI interface {
	ListExamTypes(ctx context.Context) ([]models.ExamType, error)
	CreateExamType(ctx context.Context, in models.ExamTypeCreate) (*models.ExamType, error)
	UpdateExamType(ctx context.Context, id int, in models.ExamTypeUpdate) (*models.ExamType, error)
	DeleteExamType(ctx context.Context, id int) error
}

type QuestionAPI interface {
	ListExamTypes(ctx context.Context) ([]models.ExamType, error)
	ListQuestions(ctx context.Context, examTypeID *int) ([]models.Question, error)
	CreateQuestion(ctx context.Context, in models.QuestionCreate) (*models.Question, error)
	UpdateQuestion(ctx context.Context, id int, in models.QuestionUpdate) (*models.Question, error)
	DeleteQuestion(ctx context.Context, id int) error
	ImportQuestions(ctx context.Context, examTypeID int, filename string, r io.Reader) (*models.ImportSummary, error)
	ExportQuestions(ctx context.Context, examTypeID int) (*models.ExportFile, error)
}

func confirm(ctx context.Context, c Confirmer, prompt string) error {
	ok, err := c.Confirm(ctx, prompt)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrCanceled
	}
	return nil
}

// fail flashes the display message for err and hands err back.
func fail(board *notice.Board, err error) error {
	board.Flash(notice.Error, apperrors.Message(err))
	return err
}
