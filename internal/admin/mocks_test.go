package admin

import (
	"context"
	"io"

	"github.com/SAP-F-2025/exam-client/internal/models"
	"github.com/stretchr/testify/mock"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) ListExamTypes(ctx context.Context) ([]models.ExamType, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]models.ExamType)
	return out, args.Error(1)
}

func (m *mockAPI) CreateExamType(ctx context.Context, in models.ExamTypeCreate) (*models.ExamType, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*models.ExamType)
	return out, args.Error(1)
}

func (m *mockAPI) UpdateExamType(ctx context.Context, id int, in models.ExamTypeUpdate) (*models.ExamType, error) {
	args := m.Called(ctx, id, in)
	out, _ := args.Get(0).(*models.ExamType)
	return out, args.Error(1)
}

func (m *mockAPI) DeleteExamType(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAPI) ListQuestions(ctx context.Context, examTypeID *int) ([]models.Question, error) {
	args := m.Called(ctx, examTypeID)
	out, _ := args.Get(0).([]models.Question)
	return out, args.Error(1)
}

func (m *mockAPI) CreateQuestion(ctx context.Context, in models.QuestionCreate) (*models.Question, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*models.Question)
	return out, args.Error(1)
}

func (m *mockAPI) UpdateQuestion(ctx context.Context, id int, in models.QuestionUpdate) (*models.Question, error) {
	args := m.Called(ctx, id, in)
	out, _ := args.Get(0).(*models.Question)
	return out, args.Error(1)
}

func (m *mockAPI) DeleteQuestion(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAPI) ImportQuestions(ctx context.Context, examTypeID int, filename string, r io.Reader) (*models.ImportSummary, error) {
	data, _ := io.ReadAll(r)
	args := m.Called(ctx, examTypeID, filename, string(data))
	out, _ := args.Get(0).(*models.ImportSummary)
	return out, args.Error(1)
}

func (m *mockAPI) ExportQuestions(ctx context.Context, examTypeID int) (*models.ExportFile, error) {
	args := m.Called(ctx, examTypeID)
	out, _ := args.Get(0).(*models.ExportFile)
	return out, args.Error(1)
}
