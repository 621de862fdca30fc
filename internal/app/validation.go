package app

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"quiz-api-service/internal/domain"
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateDraft rejects drafts that would break the one-correct-answer rule
// before anything is written.
func (s *QuizService) validateDraft(draft domain.QuestionDraft) error {
	if err := s.validateStruct(draft); err != nil {
		return err
	}
	correct := 0
	for _, a := range draft.Answers {
		if a.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return fmt.Errorf("%w: exactly one answer must be correct, got %d", domain.ErrValidation, correct)
	}
	if s.images != nil {
		if err := s.images.Validate(draft.Image); err != nil {
			return fmt.Errorf("%w: image: %v", domain.ErrValidation, err)
		}
	}
	return nil
}

func (s *QuizService) validateStruct(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		if fe.Param() != "" {
			return fmt.Errorf("%w: %s must satisfy %s=%s", domain.ErrValidation, field, fe.Tag(), fe.Param())
		}
		return fmt.Errorf("%w: %s is %s", domain.ErrValidation, field, fe.Tag())
	}
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}
