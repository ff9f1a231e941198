package validator

import (
	"reflect"
	"strings"

	apperrors "github.com/SAP-F-2025/exam-client/internal/errors"
	"github.com/SAP-F-2025/exam-client/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Validator runs the presence checks made before a request is sent.
type Validator struct {
	structValidator *validator.Validate
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
	}
}

// Validate checks struct tags and struct-level rules. The returned error is
// ValidationErrors so callers can render it directly.
func (v *Validator) Validate(s interface{}) error {
	err := v.structValidator.Struct(s)
	if err == nil {
		return nil
	}
	if out := apperrors.ToValidationErrors(err); len(out) > 0 {
		return out
	}
	return err
}

// Var validates a single value against a tag.
func (v *Validator) Var(field string, value interface{}, tag string) error {
	if err := v.structValidator.Var(value, tag); err != nil {
		out := apperrors.ToValidationErrors(err)
		for i := range out {
			out[i].Field = field
		}
		if len(out) > 0 {
			return out
		}
		return err
	}
	return nil
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("notblank", validators.NotBlank)
	validate.RegisterValidation("answer_index", validateAnswerIndex)

	validate.RegisterStructValidation(validateQuestionCreate, models.QuestionCreate{})

	// Report json names in messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateAnswerIndex(fl validator.FieldLevel) bool {
	n := fl.Field().Int()
	return n >= 1 && n <= models.OptionCount
}

func validateQuestionCreate(sl validator.StructLevel) {
	q := sl.Current().Interface().(models.QuestionCreate)
	if !q.HasOption() {
		sl.ReportError(q.Option1, "options", "Options", "has_option", "")
	}
}
