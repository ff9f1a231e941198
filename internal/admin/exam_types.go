package admin

import (
	"context"
	"fmt"
	"strings"
	"sync"

	apperrors "github.com/SAP-F-2025/exam-client/internal/errors"
	"github.com/SAP-F-2025/exam-client/internal/models"
	"github.com/SAP-F-2025/exam-client/internal/notice"
	"github.com/SAP-F-2025/exam-client/internal/utils"
)

const msgEmptyName = "Name cannot be empty."

// ExamTypeManager lists and edits exam types. The list is always refetched after
// a successful change.
type ExamTypeManager struct {
	api    ExamTypeAPI
	board  *notice.Board
	logger utils.Logger

	mu    sync.Mutex
	items []models.ExamType
	gen   uint64
}

func NewExamTypeManager(api ExamTypeAPI, board *notice.Board, logger utils.Logger) *ExamTypeManager {
	return &ExamTypeManager{
		api:    api,
		board:  board,
		logger: logger.With("component", "exam_types"),
	}
}

func (m *ExamTypeManager) Board() *notice.Board {
	return m.board
}

// Items returns the last fetched list.
func (m *ExamTypeManager) Items() []models.ExamType {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.ExamType(nil), m.items...)
}

func (m *ExamTypeManager) List(ctx context.Context) ([]models.ExamType, error) {
	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.mu.Unlock()

	items, err := m.api.ListExamTypes(ctx)
	if err != nil {
		if !m.isCurrent(gen) {
			return nil, err
		}
		return nil, fail(m.board, err)
	}

	m.mu.Lock()
	if gen == m.gen {
		m.items = items
	}
	m.mu.Unlock()
	return items, nil
}

func (m *ExamTypeManager) Create(ctx context.Context, name string) (*models.ExamType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fail(m.board, apperrors.Local("name", msgEmptyName))
	}

	created, err := m.api.CreateExamType(ctx, models.ExamTypeCreate{Name: name})
	if err != nil {
		return nil, fail(m.board, err)
	}
	m.logger.InfoContext(ctx, "exam type created", "id", created.ID)
	m.board.Flash(notice.Success, "Exam type created successfully!")

	if _, err := m.List(ctx); err != nil {
		return created, err
	}
	return created, nil
}

func (m *ExamTypeManager) Update(ctx context.Context, id int, name string) (*models.ExamType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fail(m.board, apperrors.Local("name", msgEmptyName))
	}

	updated, err := m.api.UpdateExamType(ctx, id, models.ExamTypeUpdate{Name: name})
	if err != nil {
		return nil, fail(m.board, err)
	}
	m.logger.InfoContext(ctx, "exam type updated", "id", id)
	m.board.Flash(notice.Success, "Exam type updated successfully!")

	if _, err := m.List(ctx); err != nil {
		return updated, err
	}
	return updated, nil
}

// Delete asks for confirmation and removes the exam type. A declined prompt
// returns ErrCanceled without contacting the server.
func (m *ExamTypeManager) Delete(ctx context.Context, id int, c Confirmer) error {
	if err := confirm(ctx, c, DeleteExamTypePrompt(id, m.nameOf(id))); err != nil {
		return err
	}

	if err := m.api.DeleteExamType(ctx, id); err != nil {
		return fail(m.board, err)
	}
	m.logger.InfoContext(ctx, "exam type deleted", "id", id)
	m.board.Flash(notice.Success, "Exam type deleted successfully!")

	_, err := m.List(ctx)
	return err
}

func (m *ExamTypeManager) isCurrent(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return gen == m.gen
}

func (m *ExamTypeManager) nameOf(id int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, et := range m.items {
		if et.ID == id {
			return et.Name
		}
	}
	return ""
}

func DeleteExamTypePrompt(id int, name string) string {
	return fmt.Sprintf("Are you sure you want to delete exam type \"%s\" (ID: %d)? This might affect existing questions.", name, id)
}
