package session

import (
	"slices"

	apperrors "github.com/SAP-F-2025/exam-client/internal/errors"
	"github.com/SAP-F-2025/exam-client/internal/events"
	"github.com/SAP-F-2025/exam-client/internal/models"
)

// Reduce is the session transition function. It performs no I/O; everything the
// transition requires is returned as effects.
func Reduce(s State, ev Event) (State, []Effect) {
	if _, ok := ev.(Init); ok {
		return Initial(), []Effect{LoadExamTypes{}}
	}

	s = s.clone()
	if s.Phase == LoggedOut {
		return s, nil
	}

	switch e := ev.(type) {
	case ExamTypesLoaded:
		if s.Phase != SelectingExamType {
			return s, nil
		}
		s.ExamTypes = e.ExamTypes
		return s, nil

	case ExamTypesFailed:
		if apperrors.IsAuthRequired(e.Err) {
			return loggedOut(s, "auth_expired")
		}
		s.Message = apperrors.Message(e.Err)
		return s, nil

	case SelectExamType:
		// the exam type is fixed once fetching started
		if s.Locked {
			return s, nil
		}
		s.ExamTypeID = e.ID
		s.Message = ""
		return s, nil

	case Start:
		if s.Locked {
			return s, nil
		}
		if s.ExamTypeID == 0 {
			s.Message = MsgSelectExamType
			return s, nil
		}
		s.Locked = true
		next, effects := awaitQuestion(s)
		effects = append(effects, Record{Type: events.EventSessionStarted, ExamTypeID: s.ExamTypeID})
		return next, effects

	case Next:
		if !s.CanAdvance() {
			return s, nil
		}
		return awaitQuestion(s)

	case QuestionLoaded:
		if e.Generation != s.Generation || s.Phase != AwaitingQuestion {
			return s, nil
		}
		q := e.Question
		s.Question = &q
		s.Options = buildOptions(q, e.Order)
		s.Phase = AnsweringQuestion
		order := make([]int, len(s.Options))
		for i, o := range s.Options {
			order[i] = o.OriginalIndex
		}
		return s, []Effect{Record{
			Type:       events.EventQuestionLoaded,
			ExamTypeID: s.ExamTypeID,
			QuestionID: q.ID,
			Order:      order,
		}}

	case QuestionExhausted:
		if e.Generation != s.Generation || s.Phase != AwaitingQuestion {
			return s, nil
		}
		s.Phase = Exhausted
		s.Message = MsgExhausted
		return s, []Effect{Record{
			Type:       events.EventSessionExhausted,
			ExamTypeID: s.ExamTypeID,
			Answered:   s.Answered,
		}}

	case QuestionFailed:
		// an expired credential logs out even when the response is stale
		if apperrors.IsAuthRequired(e.Err) {
			return loggedOut(s, "auth_expired")
		}
		if e.Generation != s.Generation || s.Phase != AwaitingQuestion {
			return s, nil
		}
		s.Phase = Failed
		s.Message = apperrors.Message(e.Err)
		return s, nil

	case SelectOption:
		if s.Phase != AnsweringQuestion || s.Submitting {
			return s, nil
		}
		if e.DisplayPosition < 1 || e.DisplayPosition > len(s.Options) {
			return s, nil
		}
		s.Selected = e.DisplayPosition
		s.Message = ""
		return s, nil

	case Submit:
		switch {
		case s.Phase == ShowingResult:
			s.Message = MsgAlreadyAnswered
			return s, nil
		case s.Phase != AnsweringQuestion || s.Submitting:
			return s, nil
		}
		opt, ok := s.SelectedOption()
		if !ok {
			s.Message = MsgSelectAnswer
			return s, nil
		}
		s.Submitting = true
		s.Message = ""
		return s, []Effect{SubmitAnswer{
			Generation:     s.Generation,
			QuestionID:     s.Question.ID,
			SelectedAnswer: opt.OriginalIndex,
		}}

	case AnswerReceived:
		if e.Generation != s.Generation || s.Phase != AnsweringQuestion {
			return s, nil
		}
		s.Submitting = false
		s.Phase = ShowingResult
		s.Answered++
		s.Result = buildResult(s, e.Result)
		return s, []Effect{Record{
			Type:       events.EventAnswerSubmitted,
			ExamTypeID: s.ExamTypeID,
			QuestionID: s.Question.ID,
			Selected:   e.Result.SubmittedAnswer,
			IsCorrect:  e.Result.IsCorrect,
		}}

	case AnswerFailed:
		if apperrors.IsAuthRequired(e.Err) {
			return loggedOut(s, "auth_expired")
		}
		if e.Generation != s.Generation || s.Phase != AnsweringQuestion {
			return s, nil
		}
		s.Submitting = false
		s.Message = apperrors.Message(e.Err)
		return s, nil

	case Logout:
		next, effects := loggedOut(s, "user")
		return next, append([]Effect{ClearCredential{}}, effects...)
	}

	return s, nil
}

func awaitQuestion(s State) (State, []Effect) {
	s.Generation++
	s.Phase = AwaitingQuestion
	s.Question = nil
	s.Options = nil
	s.Selected = 0
	s.Submitting = false
	s.Result = nil
	s.Message = ""
	return s, []Effect{FetchQuestion{Generation: s.Generation, ExamTypeID: s.ExamTypeID}}
}

func loggedOut(s State, reason string) (State, []Effect) {
	out := State{
		Phase:      LoggedOut,
		Generation: s.Generation + 1,
		Answered:   s.Answered,
	}
	return out, []Effect{
		RedirectToLogin{},
		Record{Type: events.EventSessionLoggedOut, ExamTypeID: s.ExamTypeID, Answered: s.Answered, Reason: reason},
	}
}

// buildOptions lays out the populated options in the given order. An order that
// is not a permutation of the populated indices falls back to original order.
func buildOptions(q models.Question, order []int) []Option {
	populated := q.PopulatedIndices()
	if !isPermutation(order, populated) {
		order = populated
	}

	options := make([]Option, len(order))
	for i, idx := range order {
		options[i] = Option{
			DisplayPosition: i + 1,
			OriginalIndex:   idx,
			Text:            q.Option(idx),
		}
	}
	return options
}

func isPermutation(order, of []int) bool {
	if len(order) != len(of) {
		return false
	}
	a := slices.Clone(order)
	b := slices.Clone(of)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

func buildResult(s State, r models.AnswerResult) *Result {
	res := &Result{
		IsCorrect:     r.IsCorrect,
		Headline:      MsgIncorrect,
		CorrectOption: r.CorrectAnswerOption,
		Explanation:   MsgNoExplanation,
	}
	if r.IsCorrect {
		res.Headline = MsgCorrect
	}
	if r.Explanation != nil && *r.Explanation != "" {
		res.Explanation = *r.Explanation
	}
	for _, o := range s.Options {
		if o.OriginalIndex == r.CorrectAnswerOption {
			res.CorrectDisplayPosition = o.DisplayPosition
			res.CorrectText = o.Text
		}
	}
	return res
}
