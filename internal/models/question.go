package models

// OptionCount is the number of positional option slots a question has.
const OptionCount = 4

type Question struct {
	ID               int     `json:"id"`
	ExamTypeID       int     `json:"exam_type_id"`
	ProblemStatement string  `json:"problem_statement"`
	Option1          string  `json:"option_1"`
	Option2          string  `json:"option_2"`
	Option3          string  `json:"option_3"`
	Option4          string  `json:"option_4"`
	CorrectAnswer    int     `json:"correct_answer"`
	Explanation      *string `json:"explanation"`
}

// Options returns the four option slots in original order. An empty slot is not offered.
func (q Question) Options() [OptionCount]string {
	return [OptionCount]string{q.Option1, q.Option2, q.Option3, q.Option4}
}

// Option returns the text at a 1-based original index, or "" when out of range.
func (q Question) Option(index int) string {
	if index < 1 || index > OptionCount {
		return ""
	}
	return q.Options()[index-1]
}

// PopulatedIndices lists the 1-based original indices of offered options.
func (q Question) PopulatedIndices() []int {
	indices := make([]int, 0, OptionCount)
	for i, text := range q.Options() {
		if text != "" {
			indices = append(indices, i+1)
		}
	}
	return indices
}

type QuestionCreate struct {
	ExamTypeID       int     `json:"exam_type_id" validate:"required,gt=0"`
	ProblemStatement string  `json:"problem_statement" validate:"notblank"`
	Option1          string  `json:"option_1"`
	Option2          string  `json:"option_2"`
	Option3          string  `json:"option_3"`
	Option4          string  `json:"option_4"`
	CorrectAnswer    int     `json:"correct_answer" validate:"answer_index"`
	Explanation      *string `json:"explanation"`
}

func (q QuestionCreate) HasOption() bool {
	return q.Option1 != "" || q.Option2 != "" || q.Option3 != "" || q.Option4 != ""
}

// QuestionUpdate is a partial update; nil fields are left untouched by the server.
type QuestionUpdate struct {
	ExamTypeID       *int    `json:"exam_type_id,omitempty" validate:"omitempty,gt=0"`
	ProblemStatement *string `json:"problem_statement,omitempty" validate:"omitempty,notblank"`
	Option1          *string `json:"option_1,omitempty"`
	Option2          *string `json:"option_2,omitempty"`
	Option3          *string `json:"option_3,omitempty"`
	Option4          *string `json:"option_4,omitempty"`
	CorrectAnswer    *int    `json:"correct_answer,omitempty" validate:"omitempty,answer_index"`
	Explanation      *string `json:"explanation,omitempty"`
}

// Empty reports an update that would change nothing.
func (u QuestionUpdate) Empty() bool {
	return u.ExamTypeID == nil && u.ProblemStatement == nil &&
		u.Option1 == nil && u.Option2 == nil && u.Option3 == nil && u.Option4 == nil &&
		u.CorrectAnswer == nil && u.Explanation == nil
}

// QuestionExportItem is one entry of the export/import file.
type QuestionExportItem struct {
	ProblemStatement string  `json:"problem_statement"`
	Option1          string  `json:"option_1"`
	Option2          string  `json:"option_2"`
	Option3          string  `json:"option_3"`
	Option4          string  `json:"option_4"`
	CorrectAnswer    int     `json:"correct_answer"`
	Explanation      *string `json:"explanation"`
}
