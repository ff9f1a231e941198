package validator

import (
	"testing"

	apperrors "github.com/SAP-F-2025/exam-client/internal/errors"
	"github.com/SAP-F-2025/exam-client/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestValidateExamType(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(models.ExamTypeCreate{Name: "Go Basics"}))

	err := v.Validate(models.ExamTypeCreate{Name: "   "})
	require.Error(t, err)
	assert.True(t, apperrors.IsLocalValidation(err))

	var ve apperrors.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve[0].Field)
	assert.Equal(t, "notblank", ve[0].Rule)
}

func TestValidateQuestionCreate(t *testing.T) {
	v := New()

	valid := models.QuestionCreate{
		ExamTypeID:       1,
		ProblemStatement: "What does defer do?",
		Option2:          "Delays execution until return",
		CorrectAnswer:    2,
	}

	tests := []struct {
		name   string
		mutate func(q *models.QuestionCreate)
		rules  []string
	}{
		{"valid", func(q *models.QuestionCreate) {}, nil},
		{"missing exam type", func(q *models.QuestionCreate) { q.ExamTypeID = 0 }, []string{"required"}},
		{"blank statement", func(q *models.QuestionCreate) { q.ProblemStatement = " " }, []string{"notblank"}},
		{"answer out of range", func(q *models.QuestionCreate) { q.CorrectAnswer = 5 }, []string{"answer_index"}},
		{"no options", func(q *models.QuestionCreate) { q.Option2 = "" }, []string{"has_option"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := valid
			tt.mutate(&q)

			err := v.Validate(q)
			if tt.rules == nil {
				assert.NoError(t, err)
				return
			}

			var ve apperrors.ValidationErrors
			require.ErrorAs(t, err, &ve)
			rules := make([]string, 0, len(ve))
			for _, e := range ve {
				rules = append(rules, e.Rule)
			}
			assert.Equal(t, tt.rules, rules)
		})
	}
}

func TestValidateQuestionUpdate(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(models.QuestionUpdate{}))
	assert.NoError(t, v.Validate(models.QuestionUpdate{CorrectAnswer: ptr(4)}))
	assert.Error(t, v.Validate(models.QuestionUpdate{CorrectAnswer: ptr(0)}))
	assert.Error(t, v.Validate(models.QuestionUpdate{ProblemStatement: ptr("")}))
}

func TestVar(t *testing.T) {
	v := New()

	err := v.Var("selected_answer", 0, "answer_index")
	var ve apperrors.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "selected_answer", ve[0].Field)
	assert.NoError(t, v.Var("selected_answer", 3, "answer_index"))
}
