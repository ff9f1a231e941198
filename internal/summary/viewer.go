// Package summary shows aggregate answer statistics, optionally per exam type.
package summary

import (
	"context"
	"errors"
	"sync"

	apperrors "github.com/SAP-F-2025/exam-client/internal/errors"
	"github.com/SAP-F-2025/exam-client/internal/models"
	"github.com/SAP-F-2025/exam-client/internal/notice"
	"github.com/SAP-F-2025/exam-client/internal/utils"
	"github.com/shopspring/decimal"
)

const (
	MsgNoPerformance = "No per-question performance data available."
	AllExamTypes     = "All Exam Types"
)

var ErrNotLoaded = errors.New("summary not loaded")

type API interface {
	Summary(ctx context.Context, examTypeID *int) (*models.DetailedSummary, error)
}

// View is the rendered summary.
type View struct {
	ExamTypeID   *int                         `json:"exam_type_id,omitempty"`
	Stats        models.SummaryStats          `json:"summary_stats"`
	RatePercent  string                       `json:"correct_answer_rate_percent"`
	Rows         []models.QuestionPerformance `json:"question_performance"`
	EmptyMessage string                       `json:"empty_message,omitempty"`
}

// Viewer fetches the summary in full on every filter change. A response that
// arrives after a newer Load was issued is dropped.
type Viewer struct {
	api    API
	board  *notice.Board
	logger utils.Logger

	mu   sync.Mutex
	gen  uint64
	view *View
}

func NewViewer(api API, board *notice.Board, logger utils.Logger) *Viewer {
	return &Viewer{
		api:    api,
		board:  board,
		logger: logger.With("component", "summary"),
	}
}

func (v *Viewer) Board() *notice.Board {
	return v.board
}

// Load fetches the summary; nil or 0 means all exam types. The returned view is
// the one stored after the call, which is the newer one if this response was stale.
func (v *Viewer) Load(ctx context.Context, examTypeID *int) (View, error) {
	filter := examTypeID
	if filter != nil && *filter == 0 {
		filter = nil
	}

	v.mu.Lock()
	v.gen++
	gen := v.gen
	v.mu.Unlock()

	data, err := v.api.Summary(ctx, filter)
	if err != nil {
		if v.isCurrent(gen) {
			v.board.Flash(notice.Error, apperrors.Message(err))
		} else {
			v.logger.DebugContext(ctx, "discarding stale summary error", "generation", gen, "error", err)
		}
		return View{}, err
	}

	view := NewView(filter, data)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		v.logger.DebugContext(ctx, "discarding stale summary", "generation", gen, "current", v.gen)
		if v.view != nil {
			return *v.view, nil
		}
		return view, nil
	}
	v.view = &view
	return view, nil
}

func (v *Viewer) isCurrent(gen uint64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return gen == v.gen
}

// Current returns the last stored view.
func (v *Viewer) Current() (View, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.view == nil {
		return View{}, false
	}
	return *v.view, true
}

func NewView(examTypeID *int, data *models.DetailedSummary) View {
	view := View{
		Stats:       data.SummaryStats,
		RatePercent: FormatRate(data.SummaryStats.CorrectAnswerRate),
		Rows:        data.QuestionPerformance,
	}
	if examTypeID != nil {
		id := *examTypeID
		view.ExamTypeID = &id
	}
	if len(view.Rows) == 0 {
		view.EmptyMessage = MsgNoPerformance
	}
	return view
}

// FormatRate renders a 0..1 rate as a percentage with two decimals. Rounding
// works on the shortest decimal form of rate, so 0.12345 gives "12.35" where
// float64 arithmetic would give "12.34".
func FormatRate(rate float64) string {
	return decimal.NewFromFloat(rate).Mul(decimal.NewFromInt(100)).StringFixed(2)
}
