package question

import (
	"encoding/json"
	"fmt"
	"slices"
)

type MultipleChoice struct{}

func NewMultipleChoice() MultipleChoice {
	return MultipleChoice{}
}

func (m MultipleChoice) Type() Type {
	return TypeMultipleChoice
}

func (m MultipleChoice) Kind() Kind {
	return KindText
}

func (m MultipleChoice) HasOptions() bool {
	return true
}

func (m MultipleChoice) ValidateDefinition(q Question) error {
	return validateOptions(q)
}

// Capture accepts a single option; an empty string means nothing is selected.
func (m MultipleChoice) Capture(q Question, raw json.RawMessage) (Answer, error) {
	if isNull(raw) {
		return Answer{}, nil
	}

	var value string
	err := json.Unmarshal(raw, &value)
	if err != nil {
		return Answer{}, ErrInvalidAnswer{
			QuestionID: q.ID,
			Type:       TypeMultipleChoice,
			Message:    "expected a single option",
		}
	}

	if value == "" {
		return Answer{}, nil
	}

	if !slices.Contains(q.Options, value) {
		return Answer{}, ErrInvalidAnswer{
			QuestionID: q.ID,
			Type:       TypeMultipleChoice,
			Message:    fmt.Sprintf("option %q is not one of the question options", value),
		}
	}

	return Text(value), nil
}

type Checkbox struct{}

func NewCheckbox() Checkbox {
	return Checkbox{}
}

func (c Checkbox) Type() Type {
	return TypeCheckbox
}

func (c Checkbox) Kind() Kind {
	return KindList
}

func (c Checkbox) HasOptions() bool {
	return true
}

func (c Checkbox) ValidateDefinition(q Question) error {
	return validateOptions(q)
}

// Capture accepts a list of options. Duplicates are collapsed and the given
// order is kept.
func (c Checkbox) Capture(q Question, raw json.RawMessage) (Answer, error) {
	if isNull(raw) {
		return List(nil), nil
	}

	var values []string
	err := json.Unmarshal(raw, &values)
	if err != nil {
		return Answer{}, ErrInvalidAnswer{
			QuestionID: q.ID,
			Type:       TypeCheckbox,
			Message:    "expected a list of options",
		}
	}

	selected := make([]string, 0, len(values))
	for _, value := range values {
		if !slices.Contains(q.Options, value) {
			return Answer{}, ErrInvalidAnswer{
				QuestionID: q.ID,
				Type:       TypeCheckbox,
				Message:    fmt.Sprintf("option %q is not one of the question options", value),
			}
		}
		if slices.Contains(selected, value) {
			continue
		}
		selected = append(selected, value)
	}

	return List(selected), nil
}

// Toggle adds or removes one option from a checkbox answer.
func (c Checkbox) Toggle(q Question, current Answer, option string, checked bool) (Answer, error) {
	if !slices.Contains(q.Options, option) {
		return current, ErrInvalidAnswer{
			QuestionID: q.ID,
			Type:       TypeCheckbox,
			Message:    fmt.Sprintf("option %q is not one of the question options", option),
		}
	}

	values := current.List()
	if checked {
		if !slices.Contains(values, option) {
			values = append(values, option)
		}
		return List(values), nil
	}

	return List(slices.DeleteFunc(values, func(v string) bool { return v == option })), nil
}

func validateOptions(q Question) error {
	if len(q.Options) == 0 {
		return ErrInvalidDefinition{
			QuestionID: q.ID,
			Message:    fmt.Sprintf("%s question must have at least one option", q.Type),
		}
	}
	return nil
}
