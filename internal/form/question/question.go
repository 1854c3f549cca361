package question

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

type Type string

const (
	TypeShortText      Type = "short_text"
	TypeLongText       Type = "long_text"
	TypeMultipleChoice Type = "multiple_choice"
	TypeCheckbox       Type = "checkbox"
	TypeEmail          Type = "email"
	TypeNumber         Type = "number"
	TypeRating         Type = "rating"
)

// Types returns every supported question type in declaration order.
func Types() []Type {
	return []Type{
		TypeShortText,
		TypeLongText,
		TypeMultipleChoice,
		TypeCheckbox,
		TypeEmail,
		TypeNumber,
		TypeRating,
	}
}

type Validation struct {
	Min     *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max     *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Pattern string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// Question is one field definition of a form schema. The schema is stored as a
// JSON document, so the tags here are the persisted shape.
type Question struct {
	ID          string      `json:"id" yaml:"id"`
	Type        Type        `json:"type" yaml:"type"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool        `json:"required" yaml:"required"`
	Options     []string    `json:"options,omitempty" yaml:"options,omitempty"`
	Validation  *Validation `json:"validation,omitempty" yaml:"validation,omitempty"`
}

// Response is one answer inside a stored form response.
type Response struct {
	QuestionID string `json:"question_id"`
	Answer     Answer `json:"answer"`
}

// Variant holds the per-type behavior of a question. Every Type has exactly one
// Variant registered in the lookup table.
type Variant interface {
	Type() Type
	Kind() Kind
	HasOptions() bool
	ValidateDefinition(q Question) error
	Capture(q Question, raw json.RawMessage) (Answer, error)
}

var variants = map[Type]Variant{
	TypeShortText:      NewShortText(),
	TypeLongText:       NewLongText(),
	TypeEmail:          NewEmail(),
	TypeMultipleChoice: NewMultipleChoice(),
	TypeCheckbox:       NewCheckbox(),
	TypeNumber:         NewNumberQuestion(),
	TypeRating:         NewRating(),
}

func Lookup(t Type) (Variant, bool) {
	v, ok := variants[t]
	return v, ok
}

func variantFor(q Question) (Variant, error) {
	v, ok := variants[q.Type]
	if !ok {
		return nil, ErrUnsupportedQuestionType{QuestionType: string(q.Type)}
	}
	return v, nil
}

func HasOptions(t Type) bool {
	v, ok := variants[t]
	return ok && v.HasOptions()
}

// NewID generates an id for a question that is unique within its form.
func NewID() string {
	return "q_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// Capture converts raw respondent input into a typed answer for q.
func Capture(q Question, raw json.RawMessage) (Answer, error) {
	v, err := variantFor(q)
	if err != nil {
		return Answer{}, err
	}
	return v.Capture(q, raw)
}

// HasValue reports whether a respondent may leave q with answer a. Optional
// questions always pass; a required question needs a non-empty list for list
// answers and any present, non-empty-string value otherwise. Numeric zero counts
// as a value.
func HasValue(q Question, a Answer) bool {
	if !q.Required {
		return true
	}

	switch a.Kind() {
	case KindList:
		return len(a.List()) > 0
	case KindText:
		return a.Text() != ""
	case KindNumber:
		return true
	default:
		return false
	}
}

// Normalize drops fields that do not belong to a question's type, so a
// document edited by hand keeps the same shape the builder produces.
func Normalize(questions []Question) []Question {
	result := make([]Question, len(questions))
	for i, q := range questions {
		if !HasOptions(q.Type) {
			q.Options = nil
		} else {
			q.Options = append([]string(nil), q.Options...)
		}
		if q.Type != TypeNumber {
			q.Validation = nil
		}
		result[i] = q
	}
	return result
}

// ValidateSchema checks the structural invariants of a stored schema: known
// types, unique non-empty ids and per-type definition rules. Title rules are
// checked by the builder on save.
func ValidateSchema(questions []Question) error {
	seen := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		if strings.TrimSpace(q.ID) == "" {
			return ErrInvalidDefinition{QuestionID: q.ID, Message: "question id is empty"}
		}
		if _, ok := seen[q.ID]; ok {
			return ErrDuplicateQuestionID{QuestionID: q.ID}
		}
		seen[q.ID] = struct{}{}

		v, err := variantFor(q)
		if err != nil {
			return err
		}

		err = v.ValidateDefinition(q)
		if err != nil {
			return err
		}
	}

	return nil
}

// Find returns the question with the given id.
func Find(questions []Question, id string) (Question, bool) {
	for _, q := range questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
