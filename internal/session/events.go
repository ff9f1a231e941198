package session

import (
	"github.com/SAP-F-2025/exam-client/internal/events"
	"github.com/SAP-F-2025/exam-client/internal/models"
)

// Event is an input to Reduce: a user action or the outcome of an effect.
type Event interface {
	isEvent()
}

type (
	Init              struct{}
	ExamTypesLoaded   struct{ ExamTypes []models.ExamType }
	ExamTypesFailed   struct{ Err error }
	SelectExamType    struct{ ID int }
	Start             struct{}
	Next              struct{}
	SelectOption      struct{ DisplayPosition int }
	Submit            struct{}
	Logout            struct{}
	QuestionExhausted struct{ Generation uint64 }
	QuestionFailed    struct {
		Generation uint64
		Err        error
	}
	// QuestionLoaded carries the display order as a permutation of the
	// question's populated original indices.
	QuestionLoaded struct {
		Generation uint64
		Question   models.Question
		Order      []int
	}
	AnswerReceived struct {
		Generation uint64
		Result     models.AnswerResult
	}
	AnswerFailed struct {
		Generation uint64
		Err        error
	}
)

func (Init) isEvent()              {}
func (ExamTypesLoaded) isEvent()   {}
func (ExamTypesFailed) isEvent()   {}
func (SelectExamType) isEvent()    {}
func (Start) isEvent()             {}
func (Next) isEvent()              {}
func (SelectOption) isEvent()      {}
func (Submit) isEvent()            {}
func (Logout) isEvent()            {}
func (QuestionExhausted) isEvent() {}
func (QuestionFailed) isEvent()    {}
func (QuestionLoaded) isEvent()    {}
func (AnswerReceived) isEvent()    {}
func (AnswerFailed) isEvent()      {}

// Effect is work the controller performs after a transition.
type Effect interface {
	isEffect()
}

type (
	LoadExamTypes struct{}
	FetchQuestion struct {
		Generation uint64
		ExamTypeID int
	}
	SubmitAnswer struct {
		Generation     uint64
		QuestionID     int
		SelectedAnswer int // original index
	}
	ClearCredential struct{}
	RedirectToLogin struct{}
	// Record asks for an activity event to be published.
	Record struct {
		Type       events.EventType
		ExamTypeID int
		QuestionID int
		Selected   int
		IsCorrect  bool
		Order      []int
		Answered   int
		Reason     string
	}
)

func (LoadExamTypes) isEffect()   {}
func (FetchQuestion) isEffect()   {}
func (SubmitAnswer) isEffect()    {}
func (ClearCredential) isEffect() {}
func (RedirectToLogin) isEffect() {}
func (Record) isEffect()          {}
