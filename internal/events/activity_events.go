package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies what happened in the client.
type EventType string

const (
	EventSessionStarted   EventType = "session.started"
	EventQuestionLoaded   EventType = "question.loaded"
	EventAnswerSubmitted  EventType = "answer.submitted"
	EventSessionExhausted EventType = "session.exhausted"
	EventSessionLoggedOut EventType = "session.logged_out"
)

const (
	eventSource  = "exam-client"
	eventVersion = "1.0"
)

// ActivityEvent is the envelope for everything the client publishes.
type ActivityEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type SessionStartedEvent struct {
	ExamTypeID int `json:"exam_type_id"`
}

type QuestionLoadedEvent struct {
	ExamTypeID   int   `json:"exam_type_id"`
	QuestionID   int   `json:"question_id"`
	DisplayOrder []int `json:"display_order"`
}

type AnswerSubmittedEvent struct {
	ExamTypeID     int  `json:"exam_type_id"`
	QuestionID     int  `json:"question_id"`
	SelectedAnswer int  `json:"selected_answer"`
	IsCorrect      bool `json:"is_correct"`
}

type SessionExhaustedEvent struct {
	ExamTypeID        int `json:"exam_type_id"`
	QuestionsAnswered int `json:"questions_answered"`
}

type SessionLoggedOutEvent struct {
	Reason string `json:"reason"`
}

func newEvent(t EventType, data interface{}) *ActivityEvent {
	return &ActivityEvent{
		ID:        uuid.NewString(),
		Type:      t,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

func NewSessionStartedEvent(examTypeID int) *ActivityEvent {
	return newEvent(EventSessionStarted, SessionStartedEvent{ExamTypeID: examTypeID})
}

func NewQuestionLoadedEvent(examTypeID, questionID int, order []int) *ActivityEvent {
	return newEvent(EventQuestionLoaded, QuestionLoadedEvent{
		ExamTypeID:   examTypeID,
		QuestionID:   questionID,
		DisplayOrder: order,
	})
}

func NewAnswerSubmittedEvent(examTypeID, questionID, selected int, isCorrect bool) *ActivityEvent {
	return newEvent(EventAnswerSubmitted, AnswerSubmittedEvent{
		ExamTypeID:     examTypeID,
		QuestionID:     questionID,
		SelectedAnswer: selected,
		IsCorrect:      isCorrect,
	})
}

func NewSessionExhaustedEvent(examTypeID, answered int) *ActivityEvent {
	return newEvent(EventSessionExhausted, SessionExhaustedEvent{
		ExamTypeID:        examTypeID,
		QuestionsAnswered: answered,
	})
}

func NewSessionLoggedOutEvent(reason string) *ActivityEvent {
	return newEvent(EventSessionLoggedOut, SessionLoggedOutEvent{Reason: reason})
}
