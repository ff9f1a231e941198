package models

type SummaryStats struct {
	TotalUniqueQuestionsAttempted int     `json:"total_unique_questions_attempted"`
	TotalAnswersSubmitted         int     `json:"total_answers_submitted"`
	TotalCorrectAnswers           int     `json:"total_correct_answers"`
	TotalIncorrectAnswers         int     `json:"total_incorrect_answers"`
	CorrectAnswerRate             float64 `json:"correct_answer_rate"`
}

type QuestionPerformance struct {
	QuestionID       int    `json:"question_id"`
	ProblemStatement string `json:"problem_statement"`
	TimesAnswered    int    `json:"times_answered"`
	TimesCorrect     int    `json:"times_correct"`
	TimesIncorrect   int    `json:"times_incorrect"`
}

type DetailedSummary struct {
	SummaryStats        SummaryStats          `json:"summary_stats"`
	QuestionPerformance []QuestionPerformance `json:"question_performance"`
}
