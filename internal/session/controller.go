package session

import (
	"context"
	"math/rand"
	"sync"
	"time"

	apperrors "github.com/SAP-F-2025/exam-client/internal/errors"
	"github.com/SAP-F-2025/exam-client/internal/events"
	"github.com/SAP-F-2025/exam-client/internal/models"
	"github.com/SAP-F-2025/exam-client/internal/utils"
)

// API is the part of the API client a session needs.
type API interface {
	ListExamTypes(ctx context.Context) ([]models.ExamType, error)
	NextQuestion(ctx context.Context, examTypeID int) (*models.Question, error)
	SubmitAnswer(ctx context.Context, questionID, selected int) (*models.AnswerResult, error)
	Logout(ctx context.Context) error
}

// Controller owns a session State and runs the effects Reduce asks for. The lock
// is never held across a network call.
type Controller struct {
	mu    sync.Mutex
	state State

	api       API
	publisher events.EventPublisher
	logger    utils.Logger

	rngMu sync.Mutex
	rng   *rand.Rand

	onLogout func()
}

type ControllerOption func(*Controller)

// WithRand injects the source used to shuffle options.
func WithRand(r *rand.Rand) ControllerOption {
	return func(c *Controller) {
		c.rng = r
	}
}

// WithLogoutHook is called when the session ends up logged out.
func WithLogoutHook(fn func()) ControllerOption {
	return func(c *Controller) {
		c.onLogout = fn
	}
}

func NewController(api API, publisher events.EventPublisher, logger utils.Logger, opts ...ControllerOption) *Controller {
	c := &Controller{
		state:     Initial(),
		api:       api,
		publisher: publisher,
		logger:    logger.With("component", "session"),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Dispatch applies ev, runs the resulting effects and feeds their outcomes back
// in. It returns the state after all follow-up events were applied.
func (c *Controller) Dispatch(ctx context.Context, ev Event) State {
	queue := []Event{ev}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		c.mu.Lock()
		state, effects := Reduce(c.state, next)
		c.state = state
		c.mu.Unlock()

		for _, eff := range effects {
			if follow := c.run(ctx, eff); follow != nil {
				queue = append(queue, follow)
			}
		}
	}
	return c.State()
}

func (c *Controller) run(ctx context.Context, eff Effect) Event {
	switch e := eff.(type) {
	case LoadExamTypes:
		types, err := c.api.ListExamTypes(ctx)
		if err != nil {
			return ExamTypesFailed{Err: err}
		}
		return ExamTypesLoaded{ExamTypes: types}

	case FetchQuestion:
		q, err := c.api.NextQuestion(ctx, e.ExamTypeID)
		switch {
		case apperrors.IsExhausted(err):
			return QuestionExhausted{Generation: e.Generation}
		case err != nil:
			return QuestionFailed{Generation: e.Generation, Err: err}
		}
		return QuestionLoaded{Generation: e.Generation, Question: *q, Order: c.shuffle(q.PopulatedIndices())}

	case SubmitAnswer:
		res, err := c.api.SubmitAnswer(ctx, e.QuestionID, e.SelectedAnswer)
		if err != nil {
			return AnswerFailed{Generation: e.Generation, Err: err}
		}
		return AnswerReceived{Generation: e.Generation, Result: *res}

	case ClearCredential:
		if err := c.api.Logout(ctx); err != nil {
			c.logger.LogError(err, "failed to clear credential")
		}

	case RedirectToLogin:
		if c.onLogout != nil {
			c.onLogout()
		}

	case Record:
		c.publish(ctx, e)
	}
	return nil
}

// shuffle returns a Fisher-Yates permutation of indices.
func (c *Controller) shuffle(indices []int) []int {
	out := append([]int(nil), indices...)

	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	for i := len(out) - 1; i > 0; i-- {
		j := c.rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func (c *Controller) publish(ctx context.Context, r Record) {
	if c.publisher == nil {
		return
	}

	var event *events.ActivityEvent
	switch r.Type {
	case events.EventSessionStarted:
		event = events.NewSessionStartedEvent(r.ExamTypeID)
	case events.EventQuestionLoaded:
		event = events.NewQuestionLoadedEvent(r.ExamTypeID, r.QuestionID, r.Order)
	case events.EventAnswerSubmitted:
		event = events.NewAnswerSubmittedEvent(r.ExamTypeID, r.QuestionID, r.Selected, r.IsCorrect)
	case events.EventSessionExhausted:
		event = events.NewSessionExhaustedEvent(r.ExamTypeID, r.Answered)
	case events.EventSessionLoggedOut:
		event = events.NewSessionLoggedOutEvent(r.Reason)
	default:
		return
	}

	if err := c.publisher.PublishActivityEvent(ctx, event); err != nil {
		c.logger.WarnContext(ctx, "failed to publish activity event", "type", r.Type, "error", err)
	}
}
