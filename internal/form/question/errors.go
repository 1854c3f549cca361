package question

import (
	"fmt"

	"CSS-Society/site-backend/internal"
)

type ErrInvalidAnswer struct {
	QuestionID string
	Type       Type
	Message    string
}

func (e ErrInvalidAnswer) Error() string {
	return fmt.Sprintf("invalid answer for %s question %s: %s", e.Type, e.QuestionID, e.Message)
}

func (e ErrInvalidAnswer) Unwrap() error {
	return internal.ErrValidationFailed
}

type ErrInvalidDefinition struct {
	QuestionID string
	Message    string
}

func (e ErrInvalidDefinition) Error() string {
	return fmt.Sprintf("invalid definition for question %s: %s", e.QuestionID, e.Message)
}

func (e ErrInvalidDefinition) Unwrap() error {
	return internal.ErrValidationFailed
}

type ErrDuplicateQuestionID struct {
	QuestionID string
}

func (e ErrDuplicateQuestionID) Error() string {
	return fmt.Sprintf("duplicate question id: %s", e.QuestionID)
}

func (e ErrDuplicateQuestionID) Unwrap() error {
	return internal.ErrValidationFailed
}

type ErrUnsupportedQuestionType struct {
	QuestionType string
}

func (e ErrUnsupportedQuestionType) Error() string {
	return fmt.Sprintf("unsupported question type: %s", e.QuestionType)
}

func (e ErrUnsupportedQuestionType) Unwrap() error {
	return internal.ErrUnknownQuestionType
}
