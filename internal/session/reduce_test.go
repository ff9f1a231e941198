package session

import (
	"errors"
	"testing"

	apperrors "github.com/SAP-F-2025/exam-client/internal/errors"
	"github.com/SAP-F-2025/exam-client/internal/events"
	"github.com/SAP-F-2025/exam-client/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func sampleQuestion() models.Question {
	return models.Question{
		ID:               11,
		ExamTypeID:       2,
		ProblemStatement: "Which keyword starts a goroutine?",
		Option1:          "go",
		Option2:          "",
		Option3:          "async",
		Option4:          "spawn",
		CorrectAnswer:    1,
	}
}

// started returns a state that has issued its first fetch.
func started(t *testing.T) State {
	t.Helper()
	s, _ := Reduce(Initial(), SelectExamType{ID: 2})
	s, effects := Reduce(s, Start{})
	require.Equal(t, AwaitingQuestion, s.Phase)
	require.NotEmpty(t, effects)
	return s
}

func answering(t *testing.T, order []int) State {
	t.Helper()
	s := started(t)
	s, _ = Reduce(s, QuestionLoaded{Generation: s.Generation, Question: sampleQuestion(), Order: order})
	require.Equal(t, AnsweringQuestion, s.Phase)
	return s
}

func TestInitLoadsExamTypes(t *testing.T) {
	s, effects := Reduce(State{Phase: LoggedOut}, Init{})
	assert.Equal(t, SelectingExamType, s.Phase)
	assert.Equal(t, []Effect{LoadExamTypes{}}, effects)

	s, _ = Reduce(s, ExamTypesLoaded{ExamTypes: []models.ExamType{{ID: 1, Name: "Go"}}})
	assert.Len(t, s.ExamTypes, 1)
}

func TestStartRequiresExamType(t *testing.T) {
	s, effects := Reduce(Initial(), Start{})
	assert.Empty(t, effects)
	assert.Equal(t, SelectingExamType, s.Phase)
	assert.Equal(t, MsgSelectExamType, s.Message)
}

func TestStartIssuesFetch(t *testing.T) {
	s, _ := Reduce(Initial(), SelectExamType{ID: 2})
	s, effects := Reduce(s, Start{})

	require.Len(t, effects, 2)
	assert.Equal(t, FetchQuestion{Generation: 1, ExamTypeID: 2}, effects[0])
	assert.Equal(t, events.EventSessionStarted, effects[1].(Record).Type)
	assert.True(t, s.Locked)
}

func TestExamTypeLockedAfterFirstFetch(t *testing.T) {
	s := started(t)

	s, effects := Reduce(s, SelectExamType{ID: 9})
	assert.Empty(t, effects)
	assert.Equal(t, 2, s.ExamTypeID)

	s, effects = Reduce(s, Start{})
	assert.Empty(t, effects, "a second start is ignored")
	assert.Equal(t, 2, s.ExamTypeID)
}

func TestOptionsArePermutationOfPopulated(t *testing.T) {
	s := answering(t, []int{4, 1, 3})

	require.Len(t, s.Options, 3)
	assert.Equal(t, []Option{
		{DisplayPosition: 1, OriginalIndex: 4, Text: "spawn"},
		{DisplayPosition: 2, OriginalIndex: 1, Text: "go"},
		{DisplayPosition: 3, OriginalIndex: 3, Text: "async"},
	}, s.Options)
}

func TestInvalidOrderFallsBackToOriginal(t *testing.T) {
	for _, order := range [][]int{nil, {1, 2, 3}, {1, 1, 3}, {1, 3}} {
		s := answering(t, order)
		got := make([]int, 0, len(s.Options))
		for _, o := range s.Options {
			got = append(got, o.OriginalIndex)
		}
		assert.Equal(t, []int{1, 3, 4}, got)
	}
}

func TestSubmitSendsOriginalIndex(t *testing.T) {
	s := answering(t, []int{4, 1, 3})

	// every display position maps back to its original slot
	for _, opt := range s.Options {
		picked, _ := Reduce(s, SelectOption{DisplayPosition: opt.DisplayPosition})
		_, effects := Reduce(picked, Submit{})
		require.Len(t, effects, 1)
		assert.Equal(t, SubmitAnswer{
			Generation:     s.Generation,
			QuestionID:     11,
			SelectedAnswer: opt.OriginalIndex,
		}, effects[0])
	}
}

func TestSubmitWithoutSelection(t *testing.T) {
	s := answering(t, []int{1, 3, 4})

	s, effects := Reduce(s, Submit{})
	assert.Empty(t, effects)
	assert.Equal(t, MsgSelectAnswer, s.Message)
	assert.Equal(t, AnsweringQuestion, s.Phase)
}

func TestSelectOptionOutOfRange(t *testing.T) {
	s := answering(t, []int{1, 3, 4})

	s, _ = Reduce(s, SelectOption{DisplayPosition: 4})
	assert.Equal(t, 0, s.Selected)
	s, _ = Reduce(s, SelectOption{DisplayPosition: 0})
	assert.Equal(t, 0, s.Selected)
}

func TestSubmitWhileInFlightIsIgnored(t *testing.T) {
	s := answering(t, []int{1, 3, 4})
	s, _ = Reduce(s, SelectOption{DisplayPosition: 1})
	s, effects := Reduce(s, Submit{})
	require.Len(t, effects, 1)
	assert.False(t, s.CanSubmit())

	_, effects = Reduce(s, Submit{})
	assert.Empty(t, effects)
}

func TestResultAndResubmission(t *testing.T) {
	s := answering(t, []int{3, 1, 4})
	s, _ = Reduce(s, SelectOption{DisplayPosition: 1})
	s, _ = Reduce(s, Submit{})

	s, effects := Reduce(s, AnswerReceived{Generation: s.Generation, Result: models.AnswerResult{
		QuestionID:          11,
		SubmittedAnswer:     3,
		IsCorrect:           false,
		CorrectAnswerOption: 1,
	}})
	require.Equal(t, ShowingResult, s.Phase)
	require.NotNil(t, s.Result)
	assert.Equal(t, MsgIncorrect, s.Result.Headline)
	assert.Equal(t, 1, s.Result.CorrectOption)
	assert.Equal(t, 2, s.Result.CorrectDisplayPosition)
	assert.Equal(t, "go", s.Result.CorrectText)
	assert.Equal(t, MsgNoExplanation, s.Result.Explanation)
	assert.Equal(t, 1, s.Answered)
	require.Len(t, effects, 1)
	assert.Equal(t, events.EventAnswerSubmitted, effects[0].(Record).Type)

	s, effects = Reduce(s, Submit{})
	assert.Empty(t, effects, "re-submission never reaches the network")
	assert.Equal(t, MsgAlreadyAnswered, s.Message)
	assert.Equal(t, ShowingResult, s.Phase)
}

func TestCorrectResultWithExplanation(t *testing.T) {
	s := answering(t, []int{1, 3, 4})
	s, _ = Reduce(s, SelectOption{DisplayPosition: 1})
	s, _ = Reduce(s, Submit{})
	s, _ = Reduce(s, AnswerReceived{Generation: s.Generation, Result: models.AnswerResult{
		IsCorrect:           true,
		CorrectAnswerOption: 1,
		Explanation:         strPtr("go starts a goroutine"),
	}})

	assert.Equal(t, MsgCorrect, s.Result.Headline)
	assert.Equal(t, "go starts a goroutine", s.Result.Explanation)
}

func TestNextAfterResult(t *testing.T) {
	s := answering(t, []int{1, 3, 4})
	s, _ = Reduce(s, SelectOption{DisplayPosition: 1})
	s, _ = Reduce(s, Submit{})
	s, _ = Reduce(s, AnswerReceived{Generation: s.Generation, Result: models.AnswerResult{CorrectAnswerOption: 1}})

	gen := s.Generation
	s, effects := Reduce(s, Next{})
	assert.Equal(t, AwaitingQuestion, s.Phase)
	assert.Nil(t, s.Result)
	assert.Nil(t, s.Question)
	assert.Equal(t, []Effect{FetchQuestion{Generation: gen + 1, ExamTypeID: 2}}, effects)
}

func TestNextIgnoredWhileAnswering(t *testing.T) {
	s := answering(t, []int{1, 3, 4})
	_, effects := Reduce(s, Next{})
	assert.Empty(t, effects)
}

func TestExhaustion(t *testing.T) {
	s := started(t)
	s, effects := Reduce(s, QuestionExhausted{Generation: s.Generation})

	assert.Equal(t, Exhausted, s.Phase)
	assert.Equal(t, MsgExhausted, s.Message)
	assert.Empty(t, s.Options)
	require.Len(t, effects, 1)
	assert.Equal(t, events.EventSessionExhausted, effects[0].(Record).Type)

	_, effects = Reduce(s, Next{})
	assert.Empty(t, effects)
}

func TestFetchFailureAndRetry(t *testing.T) {
	s := started(t)
	s, _ = Reduce(s, QuestionFailed{Generation: s.Generation, Err: &apperrors.TransportError{Err: errors.New("refused")}})

	assert.Equal(t, Failed, s.Phase)
	assert.Equal(t, apperrors.TransportMessage, s.Message)

	_, effects := Reduce(s, Next{})
	require.Len(t, effects, 1)
	assert.IsType(t, FetchQuestion{}, effects[0])
}

func TestSubmitFailureStaysAnswering(t *testing.T) {
	s := answering(t, []int{1, 3, 4})
	s, _ = Reduce(s, SelectOption{DisplayPosition: 2})
	s, _ = Reduce(s, Submit{})
	s, _ = Reduce(s, AnswerFailed{Generation: s.Generation, Err: &apperrors.APIError{Kind: apperrors.KindDomain, Message: "Question not found."}})

	assert.Equal(t, AnsweringQuestion, s.Phase)
	assert.Equal(t, "Question not found.", s.Message)
	assert.True(t, s.CanSubmit())
	assert.Equal(t, 2, s.Selected)
}

func TestStaleResponsesDiscarded(t *testing.T) {
	s := started(t)
	stale := s.Generation

	s, _ = Reduce(s, QuestionFailed{Generation: stale, Err: errors.New("boom")})
	s, _ = Reduce(s, Next{})
	require.Equal(t, stale+1, s.Generation)

	after, effects := Reduce(s, QuestionLoaded{Generation: stale, Question: sampleQuestion()})
	assert.Empty(t, effects)
	assert.Equal(t, AwaitingQuestion, after.Phase)
	assert.Nil(t, after.Question)

	after, _ = Reduce(s, QuestionExhausted{Generation: stale})
	assert.Equal(t, AwaitingQuestion, after.Phase)
}

func TestAuthFailureLogsOutFromAnyPhase(t *testing.T) {
	authErr := &apperrors.AuthExpiredError{Method: "GET", Path: "/questions/next/"}

	cases := map[string]struct {
		state State
		event func(State) Event
	}{
		"exam types": {Initial(), func(State) Event { return ExamTypesFailed{Err: authErr} }},
		"fetch": {started(t), func(s State) Event {
			return QuestionFailed{Generation: s.Generation, Err: authErr}
		}},
		"stale fetch": {started(t), func(s State) Event {
			return QuestionFailed{Generation: s.Generation + 5, Err: authErr}
		}},
		"submit": {answering(t, []int{1, 3, 4}), func(s State) Event {
			return AnswerFailed{Generation: s.Generation, Err: authErr}
		}},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			s, effects := Reduce(tc.state, tc.event(tc.state))
			assert.Equal(t, LoggedOut, s.Phase)
			assert.Contains(t, effects, Effect(RedirectToLogin{}))

			// nothing moves a logged out session except Init
			_, effects = Reduce(s, Next{})
			assert.Empty(t, effects)
		})
	}
}

func TestLogout(t *testing.T) {
	s := answering(t, []int{1, 3, 4})
	s, effects := Reduce(s, Logout{})

	assert.Equal(t, LoggedOut, s.Phase)
	require.GreaterOrEqual(t, len(effects), 2)
	assert.Equal(t, ClearCredential{}, effects[0])
	assert.Equal(t, RedirectToLogin{}, effects[1])
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := answering(t, []int{4, 1, 3})
	before := s.clone()

	_, _ = Reduce(s, SelectOption{DisplayPosition: 2})
	_, _ = Reduce(s, Logout{})

	assert.Equal(t, before, s)
}
