package session

import (
	"context"
	"log/slog"
	"math/rand"
	"os"
	"sort"
	"testing"

	apperrors "github.com/SAP-F-2025/exam-client/internal/errors"
	"github.com/SAP-F-2025/exam-client/internal/events"
	"github.com/SAP-F-2025/exam-client/internal/models"
	"github.com/SAP-F-2025/exam-client/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) ListExamTypes(ctx context.Context) ([]models.ExamType, error) {
	args := m.Called(ctx)
	types, _ := args.Get(0).([]models.ExamType)
	return types, args.Error(1)
}

func (m *mockAPI) NextQuestion(ctx context.Context, examTypeID int) (*models.Question, error) {
	args := m.Called(ctx, examTypeID)
	q, _ := args.Get(0).(*models.Question)
	return q, args.Error(1)
}

func (m *mockAPI) SubmitAnswer(ctx context.Context, questionID, selected int) (*models.AnswerResult, error) {
	args := m.Called(ctx, questionID, selected)
	r, _ := args.Get(0).(*models.AnswerResult)
	return r, args.Error(1)
}

func (m *mockAPI) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func newController(api API, opts ...ControllerOption) (*Controller, *events.MockEventPublisher) {
	publisher := events.NewMockEventPublisher(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	opts = append([]ControllerOption{WithRand(rand.New(rand.NewSource(1)))}, opts...)
	return NewController(api, publisher, utils.NewNopLogger(), opts...), publisher
}

func TestControllerFullCycle(t *testing.T) {
	ctx := context.Background()
	api := &mockAPI{}
	q := sampleQuestion()

	api.On("ListExamTypes", mock.Anything).Return([]models.ExamType{{ID: 2, Name: "Go"}}, nil).Once()
	api.On("NextQuestion", mock.Anything, 2).Return(&q, nil).Once()

	c, publisher := newController(api)

	s := c.Dispatch(ctx, Init{})
	require.Len(t, s.ExamTypes, 1)

	c.Dispatch(ctx, SelectExamType{ID: 2})
	s = c.Dispatch(ctx, Start{})
	require.Equal(t, AnsweringQuestion, s.Phase)
	require.Len(t, s.Options, 3)

	// pick whichever display position shows "go"; the server must see 1
	var pos int
	for _, o := range s.Options {
		if o.Text == "go" {
			pos = o.DisplayPosition
		}
	}
	api.On("SubmitAnswer", mock.Anything, 11, 1).Return(&models.AnswerResult{
		QuestionID: 11, SubmittedAnswer: 1, IsCorrect: true, CorrectAnswerOption: 1,
	}, nil).Once()

	c.Dispatch(ctx, SelectOption{DisplayPosition: pos})
	s = c.Dispatch(ctx, Submit{})
	assert.Equal(t, ShowingResult, s.Phase)
	assert.Equal(t, MsgCorrect, s.Result.Headline)

	api.On("NextQuestion", mock.Anything, 2).Return(nil, apperrors.ErrExhausted).Once()
	s = c.Dispatch(ctx, Next{})
	assert.Equal(t, Exhausted, s.Phase)
	assert.Equal(t, MsgExhausted, s.Message)

	api.AssertExpectations(t)

	var types []events.EventType
	for _, e := range publisher.GetPublishedEvents() {
		types = append(types, e.Type)
	}
	assert.Equal(t, []events.EventType{
		events.EventSessionStarted,
		events.EventQuestionLoaded,
		events.EventAnswerSubmitted,
		events.EventSessionExhausted,
	}, types)
}

func TestControllerSubmitWithoutSelectionMakesNoCall(t *testing.T) {
	ctx := context.Background()
	api := &mockAPI{}
	q := sampleQuestion()
	api.On("NextQuestion", mock.Anything, 2).Return(&q, nil).Once()

	c, _ := newController(api)
	c.Dispatch(ctx, SelectExamType{ID: 2})
	c.Dispatch(ctx, Start{})

	s := c.Dispatch(ctx, Submit{})
	assert.Equal(t, MsgSelectAnswer, s.Message)
	api.AssertNotCalled(t, "SubmitAnswer", mock.Anything, mock.Anything, mock.Anything)
}

func TestControllerShuffleIsPermutation(t *testing.T) {
	api := &mockAPI{}
	c, _ := newController(api)

	seen := map[[3]int]bool{}
	for i := 0; i < 200; i++ {
		order := c.shuffle([]int{1, 3, 4})
		require.Len(t, order, 3)

		sorted := append([]int(nil), order...)
		sort.Ints(sorted)
		require.Equal(t, []int{1, 3, 4}, sorted)

		seen[[3]int{order[0], order[1], order[2]}] = true
	}
	assert.Len(t, seen, 6, "every arrangement of three options shows up")
}

func TestControllerAuthExpiry(t *testing.T) {
	ctx := context.Background()
	api := &mockAPI{}
	api.On("NextQuestion", mock.Anything, 2).
		Return(nil, &apperrors.AuthExpiredError{Method: "GET", Path: "/questions/next/"}).Once()

	redirected := false
	c, publisher := newController(api, WithLogoutHook(func() { redirected = true }))
	c.Dispatch(ctx, SelectExamType{ID: 2})
	s := c.Dispatch(ctx, Start{})

	assert.Equal(t, LoggedOut, s.Phase)
	assert.True(t, redirected)

	published := publisher.GetPublishedEvents()
	require.NotEmpty(t, published)
	assert.Equal(t, events.EventSessionLoggedOut, published[len(published)-1].Type)
}

func TestControllerLogoutClearsCredential(t *testing.T) {
	ctx := context.Background()
	api := &mockAPI{}
	api.On("Logout", mock.Anything).Return(nil).Once()

	c, _ := newController(api)
	s := c.Dispatch(ctx, Logout{})

	assert.Equal(t, LoggedOut, s.Phase)
	api.AssertExpectations(t)
}
