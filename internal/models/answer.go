package models

type AnswerSubmission struct {
	SelectedAnswer int `json:"selected_answer" validate:"answer_index"`
}

type AnswerResult struct {
	QuestionID          int     `json:"question_id"`
	SubmittedAnswer     int     `json:"submitted_answer"`
	IsCorrect           bool    `json:"is_correct"`
	CorrectAnswerOption int     `json:"correct_answer_option"`
	Explanation         *string `json:"explanation"`
}
