package question

import (
	"bytes"
	"encoding/json"
)

// text is the shared behavior of the free-text question types.
type text struct {
	typ Type
}

func (t text) Type() Type {
	return t.typ
}

func (t text) Kind() Kind {
	return KindText
}

func (t text) HasOptions() bool {
	return false
}

func (t text) ValidateDefinition(q Question) error {
	return nil
}

func (t text) Capture(q Question, raw json.RawMessage) (Answer, error) {
	if isNull(raw) {
		return Answer{}, nil
	}

	var value string
	err := json.Unmarshal(raw, &value)
	if err != nil {
		return Answer{}, ErrInvalidAnswer{
			QuestionID: q.ID,
			Type:       t.typ,
			Message:    "expected a string",
		}
	}

	return Text(value), nil
}

type ShortText struct {
	text
}

func NewShortText() ShortText {
	return ShortText{text{typ: TypeShortText}}
}

type LongText struct {
	text
}

func NewLongText() LongText {
	return LongText{text{typ: TypeLongText}}
}

// Email only hints the input mode to clients; the address format is not
// enforced.
type Email struct {
	text
}

func NewEmail() Email {
	return Email{text{typ: TypeEmail}}
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
