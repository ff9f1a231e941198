// Package session drives one exam-taking session: exam type selection, question
// fetch, randomized options, answer submission and result display.
package session

import (
	"github.com/SAP-F-2025/exam-client/internal/models"
)

type Phase string

const (
	SelectingExamType Phase = "selecting_exam_type"
	AwaitingQuestion  Phase = "awaiting_question"
	AnsweringQuestion Phase = "answering_question"
	ShowingResult     Phase = "showing_result"
	Exhausted         Phase = "exhausted"
	Failed            Phase = "error"
	LoggedOut         Phase = "logged_out"
)

const (
	MsgExhausted       = "Congratulations! No more questions available."
	MsgSelectAnswer    = "Please select an answer."
	MsgAlreadyAnswered = "Answer already submitted."
	MsgSelectExamType  = "Please select an exam type."
	MsgNoExplanation   = "No explanation provided."
	MsgCorrect         = "Correct!"
	MsgIncorrect       = "Incorrect!"
)

// Option is one rendered choice. DisplayPosition is what the user sees and picks;
// OriginalIndex is the 1-based slot the server's answer key refers to.
type Option struct {
	DisplayPosition int    `json:"display_position"`
	OriginalIndex   int    `json:"original_index"`
	Text            string `json:"text"`
}

type Result struct {
	IsCorrect bool   `json:"is_correct"`
	Headline  string `json:"headline"`
	// CorrectOption is the original option number reported by the server.
	CorrectOption int `json:"correct_option"`
	// CorrectDisplayPosition is 0 when the correct option was not among the rendered ones.
	CorrectDisplayPosition int    `json:"correct_display_position,omitempty"`
	CorrectText            string `json:"correct_text,omitempty"`
	Explanation            string `json:"explanation"`
}

// State is the whole view state of a session.
type State struct {
	Phase      Phase             `json:"phase"`
	ExamTypes  []models.ExamType `json:"exam_types,omitempty"`
	ExamTypeID int               `json:"exam_type_id,omitempty"`
	// Locked is set once the first question fetch was issued.
	Locked     bool             `json:"locked"`
	Generation uint64           `json:"generation"`
	Question   *models.Question `json:"question,omitempty"`
	Options    []Option         `json:"options,omitempty"`
	Selected   int              `json:"selected,omitempty"` // display position, 0 when nothing is picked
	Submitting bool             `json:"submitting,omitempty"`
	Result     *Result          `json:"result,omitempty"`
	Message    string           `json:"message,omitempty"`
	Answered   int              `json:"answered"`
}

// Initial is the state before exam types are loaded.
func Initial() State {
	return State{Phase: SelectingExamType}
}

// SelectedOption returns the currently picked option.
func (s State) SelectedOption() (Option, bool) {
	for _, o := range s.Options {
		if o.DisplayPosition == s.Selected {
			return o, true
		}
	}
	return Option{}, false
}

// CanSubmit mirrors the submit button: enabled only while answering and idle.
func (s State) CanSubmit() bool {
	return s.Phase == AnsweringQuestion && !s.Submitting
}

// CanAdvance mirrors the next button.
func (s State) CanAdvance() bool {
	return s.Phase == ShowingResult || s.Phase == Failed
}

func (s State) clone() State {
	out := s
	if s.ExamTypes != nil {
		out.ExamTypes = append([]models.ExamType(nil), s.ExamTypes...)
	}
	if s.Options != nil {
		out.Options = append([]Option(nil), s.Options...)
	}
	if s.Question != nil {
		q := *s.Question
		out.Question = &q
	}
	if s.Result != nil {
		r := *s.Result
		out.Result = &r
	}
	return out
}
