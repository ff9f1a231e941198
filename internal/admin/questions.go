package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	apperrors "github.com/SAP-F-2025/exam-client/internal/errors"
	"github.com/SAP-F-2025/exam-client/internal/models"
	"github.com/SAP-F-2025/exam-client/internal/notice"
	"github.com/SAP-F-2025/exam-client/internal/utils"
	"github.com/SAP-F-2025/exam-client/internal/validator"
)

const (
	msgImportNoExamType = "Please select an Exam Type first to import questions into."
	msgImportNoFile     = "Please select a file to import."
	msgImportNotJSON    = "Please select a JSON file (.json)."
	msgImportValidation = "Validation errors occurred:"
	msgExportNoExamType = "Please select a specific Exam Type to export questions."
	msgNothingToUpdate  = "Nothing to update."

	importDataLimit = 100
	notAvailable    = "N/A"
)

// QuestionRow is a listed question with its exam type name resolved.
type QuestionRow struct {
	models.Question
	ExamTypeName string `json:"exam_type_name"`
}

// ImportReport is what the import panel shows. It stays until replaced.
type ImportReport struct {
	Kind    notice.Kind           `json:"kind"`
	Summary string                `json:"summary"`
	Rows    []string              `json:"rows,omitempty"`
	Result  *models.ImportSummary `json:"result,omitempty"`
}

type QuestionManager struct {
	api         QuestionAPI
	validate    *validator.Validator
	board       *notice.Board
	importBoard *notice.Board
	logger      utils.Logger
	exportDir   string

	mu     sync.Mutex
	items  []QuestionRow
	filter *int
	gen    uint64
}

type QuestionOption func(*QuestionManager)

// WithExportDir sets where exported files are written.
func WithExportDir(dir string) QuestionOption {
	return func(m *QuestionManager) {
		m.exportDir = dir
	}
}

// WithImportBoard gives import reports their own panel.
func WithImportBoard(b *notice.Board) QuestionOption {
	return func(m *QuestionManager) {
		m.importBoard = b
	}
}

func NewQuestionManager(api QuestionAPI, v *validator.Validator, board *notice.Board, logger utils.Logger, opts ...QuestionOption) *QuestionManager {
	m := &QuestionManager{
		api:         api,
		validate:    v,
		board:       board,
		importBoard: board,
		logger:      logger.With("component", "questions"),
		exportDir:   ".",
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *QuestionManager) Board() *notice.Board {
	return m.board
}

func (m *QuestionManager) ImportBoard() *notice.Board {
	return m.importBoard
}

// Items returns the last fetched rows.
func (m *QuestionManager) Items() []QuestionRow {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]QuestionRow(nil), m.items...)
}

// Filter returns the exam type the list is restricted to, nil for all.
func (m *QuestionManager) Filter() *int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyID(m.filter)
}

// List fetches questions for examTypeID (nil or 0 for all exam types) and
// remembers the filter for later refetches.
func (m *QuestionManager) List(ctx context.Context, examTypeID *int) ([]QuestionRow, error) {
	filter := normalizeID(examTypeID)

	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.filter = filter
	m.mu.Unlock()

	types, questions, err := m.fetch(ctx, filter)
	if err != nil {
		// An overtaken request keeps quiet so the newer notice stays.
		if !m.isCurrent(gen) {
			return nil, err
		}
		return nil, fail(m.board, err)
	}

	names := make(map[int]string, len(types))
	for _, et := range types {
		names[et.ID] = et.Name
	}
	rows := make([]QuestionRow, 0, len(questions))
	for _, q := range questions {
		name, ok := names[q.ExamTypeID]
		if !ok {
			name = notAvailable
		}
		rows = append(rows, QuestionRow{Question: q, ExamTypeName: name})
	}

	m.mu.Lock()
	if gen == m.gen {
		m.items = rows
	}
	m.mu.Unlock()
	return rows, nil
}

func (m *QuestionManager) fetch(ctx context.Context, filter *int) ([]models.ExamType, []models.Question, error) {
	types, err := m.api.ListExamTypes(ctx)
	if err != nil {
		return nil, nil, err
	}
	questions, err := m.api.ListQuestions(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	return types, questions, nil
}

func (m *QuestionManager) isCurrent(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return gen == m.gen
}

func (m *QuestionManager) refetch(ctx context.Context) error {
	_, err := m.List(ctx, m.Filter())
	return err
}

func (m *QuestionManager) Create(ctx context.Context, in models.QuestionCreate) (*models.Question, error) {
	if err := m.validate.Validate(in); err != nil {
		return nil, fail(m.board, err)
	}

	created, err := m.api.CreateQuestion(ctx, in)
	if err != nil {
		return nil, fail(m.board, err)
	}
	m.logger.InfoContext(ctx, "question created", "id", created.ID, "exam_type_id", created.ExamTypeID)
	m.board.Flash(notice.Success, "Question created successfully!")

	if err := m.refetch(ctx); err != nil {
		return created, err
	}
	return created, nil
}

func (m *QuestionManager) Update(ctx context.Context, id int, in models.QuestionUpdate) (*models.Question, error) {
	if in.Empty() {
		return nil, fail(m.board, apperrors.Local("", msgNothingToUpdate))
	}
	if err := m.validate.Validate(in); err != nil {
		return nil, fail(m.board, err)
	}

	updated, err := m.api.UpdateQuestion(ctx, id, in)
	if err != nil {
		return nil, fail(m.board, err)
	}
	m.logger.InfoContext(ctx, "question updated", "id", id)
	m.board.Flash(notice.Success, "Question updated successfully!")

	if err := m.refetch(ctx); err != nil {
		return updated, err
	}
	return updated, nil
}

// Delete asks for confirmation and removes the question together with its
// answer history.
func (m *QuestionManager) Delete(ctx context.Context, id int, c Confirmer) error {
	if err := confirm(ctx, c, DeleteQuestionPrompt(id)); err != nil {
		return err
	}

	if err := m.api.DeleteQuestion(ctx, id); err != nil {
		return fail(m.board, err)
	}
	m.logger.InfoContext(ctx, "question deleted", "id", id)
	m.board.Flash(notice.Success, "Question deleted successfully!")

	return m.refetch(ctx)
}

func DeleteQuestionPrompt(id int) string {
	return fmt.Sprintf("Are you sure you want to delete question ID %d? This will also delete related answer history.", id)
}

// Import uploads a JSON question file into an exam type and pins the outcome
// report. Missing input is rejected before any request.
func (m *QuestionManager) Import(ctx context.Context, examTypeID *int, filename string, r io.Reader) (*ImportReport, error) {
	target := normalizeID(examTypeID)
	if target == nil {
		return nil, m.pinLocal(msgImportNoExamType)
	}
	if filename == "" || r == nil {
		return nil, m.pinLocal(msgImportNoFile)
	}
	if !strings.EqualFold(filepath.Ext(filename), ".json") {
		return nil, m.pinLocal(msgImportNotJSON)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}
	if !json.Valid(data) {
		return nil, m.pinLocal(msgImportNotJSON)
	}

	result, err := m.api.ImportQuestions(ctx, *target, filepath.Base(filename), bytes.NewReader(data))
	if err != nil {
		report := importFailureReport(err)
		m.importBoard.Pin(report.Kind, report.Summary, report.Rows...)
		return report, err
	}

	report := NewImportReport(result)
	m.importBoard.Pin(report.Kind, report.Summary, report.Rows...)
	m.logger.InfoContext(ctx, "questions imported",
		"exam_type_id", *target,
		"imported", result.ImportedCount,
		"failed", result.FailedCount,
		"skipped", result.SkippedCount,
	)

	if result.ImportedCount > 0 {
		if _, err := m.List(ctx, target); err != nil {
			return report, err
		}
	}
	return report, nil
}

func (m *QuestionManager) pinLocal(msg string) error {
	err := apperrors.Local("", msg)
	m.importBoard.Pin(notice.Error, msg)
	return err
}

// NewImportReport renders a successful import response. Any failure turns the
// report into a warning, even when nothing was imported.
func NewImportReport(result *models.ImportSummary) *ImportReport {
	report := &ImportReport{
		Kind:    notice.Success,
		Summary: fmt.Sprintf("Successfully imported %d questions. Failed: %d.", result.ImportedCount, result.FailedCount),
		Result:  result,
	}
	if result.FailedCount > 0 || len(result.Errors) > 0 {
		report.Kind = notice.Warning
	}
	for _, e := range result.Errors {
		report.Rows = append(report.Rows, FormatImportError(e))
	}
	return report
}

func importFailureReport(err error) *ImportReport {
	report := &ImportReport{Kind: notice.Error, Summary: apperrors.Message(err)}

	var apiErr *apperrors.APIError
	if !errors.As(err, &apiErr) {
		return report
	}

	// some servers answer a rejected import with a summary body
	var body struct {
		Errors []models.ImportErrorDetail `json:"errors"`
	}
	if json.Unmarshal(apiErr.Body, &body) == nil && len(body.Errors) > 0 {
		for _, e := range body.Errors {
			report.Rows = append(report.Rows, FormatImportError(e))
		}
		return report
	}

	if apiErr.Kind == apperrors.KindValidation {
		report.Summary = msgImportValidation
		for _, d := range apiErr.Details {
			report.Rows = append(report.Rows, FormatImportError(models.ImportErrorDetail{
				ErrorMessage: fmt.Sprintf("%s: %s", d.Location(), d.Msg),
			}))
		}
	}
	return report
}

// FormatImportError renders one rejected row with its 1-based position.
func FormatImportError(e models.ImportErrorDetail) string {
	pos := notAvailable
	if e.RowIndex != nil {
		pos = fmt.Sprint(*e.RowIndex + 1)
	}
	line := fmt.Sprintf("Row %s: %s", pos, e.ErrorMessage)
	if e.HasData() {
		line += fmt.Sprintf(" (Data: %s...)", truncate(compactJSON(e.Data), importDataLimit))
	}
	return line
}

// Export downloads the questions of one exam type into the export directory and
// returns the written path.
func (m *QuestionManager) Export(ctx context.Context, examTypeID *int) (string, error) {
	target := normalizeID(examTypeID)
	if target == nil {
		err := apperrors.Local("", msgExportNoExamType)
		m.board.Flash(notice.Error, msgExportNoExamType)
		return "", err
	}

	file, err := m.api.ExportQuestions(ctx, *target)
	if err != nil {
		m.board.Flash(notice.Error, "Export failed: "+apperrors.Message(err))
		return "", err
	}

	if err := os.MkdirAll(m.exportDir, 0o755); err != nil {
		m.board.Flash(notice.Error, "Export failed: "+err.Error())
		return "", err
	}
	path := filepath.Join(m.exportDir, filepath.Base(file.Filename))
	if err := os.WriteFile(path, file.Content, 0o644); err != nil {
		m.board.Flash(notice.Error, "Export failed: "+err.Error())
		return "", err
	}

	m.logger.InfoContext(ctx, "questions exported", "exam_type_id", *target, "path", path, "bytes", len(file.Content))
	m.board.Flash(notice.Success, fmt.Sprintf("Questions exported successfully to %s.", path))
	return path, nil
}

func normalizeID(id *int) *int {
	if id == nil || *id == 0 {
		return nil
	}
	return copyID(id)
}

func copyID(id *int) *int {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func compactJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
