package question

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Kind int

const (
	KindNone Kind = iota
	KindText
	KindList
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindList:
		return "list"
	case KindNumber:
		return "number"
	default:
		return "none"
	}
}

// Answer is the value a respondent gave to one question: a string, a list of
// strings or a number. The zero value is the absent answer.
type Answer struct {
	kind   Kind
	text   string
	list   []string
	number float64
}

func Text(s string) Answer {
	return Answer{kind: KindText, text: s}
}

func List(values []string) Answer {
	return Answer{kind: KindList, list: append([]string{}, values...)}
}

func Number(n float64) Answer {
	return Answer{kind: KindNumber, number: n}
}

func (a Answer) Kind() Kind {
	return a.kind
}

func (a Answer) IsAbsent() bool {
	return a.kind == KindNone
}

// IsBlank reports whether the answer shows nothing: absent, an empty string or
// an empty list.
func (a Answer) IsBlank() bool {
	switch a.kind {
	case KindText:
		return a.text == ""
	case KindList:
		return len(a.list) == 0
	case KindNumber:
		return false
	default:
		return true
	}
}

func (a Answer) Text() string {
	return a.text
}

func (a Answer) List() []string {
	return append([]string{}, a.list...)
}

func (a Answer) Number() float64 {
	return a.number
}

// String renders the answer for display. Lists are joined with ", ".
func (a Answer) String() string {
	switch a.kind {
	case KindText:
		return a.text
	case KindList:
		return strings.Join(a.list, ", ")
	case KindNumber:
		return strconv.FormatFloat(a.number, 'f', -1, 64)
	default:
		return ""
	}
}

func (a Answer) Equal(other Answer) bool {
	if a.kind != other.kind {
		return false
	}
	switch a.kind {
	case KindText:
		return a.text == other.text
	case KindNumber:
		return a.number == other.number
	case KindList:
		if len(a.list) != len(other.list) {
			return false
		}
		for i := range a.list {
			if a.list[i] != other.list[i] {
				return false
			}
		}
	}
	return true
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case KindText:
		return json.Marshal(a.text)
	case KindList:
		if a.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(a.list)
	case KindNumber:
		return json.Marshal(a.number)
	default:
		return []byte("null"), nil
	}
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Answer{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		err := json.Unmarshal(data, &s)
		if err != nil {
			return err
		}
		*a = Text(s)
	case '[':
		var values []string
		err := json.Unmarshal(data, &values)
		if err != nil {
			return fmt.Errorf("answer list must contain only strings: %w", err)
		}
		*a = List(values)
	default:
		var n float64
		err := json.Unmarshal(data, &n)
		if err != nil {
			return fmt.Errorf("answer must be a string, a list of strings or a number: %w", err)
		}
		*a = Number(n)
	}

	return nil
}

// MarshalYAML keeps YAML exports in the same three shapes as JSON.
func (a Answer) MarshalYAML() (interface{}, error) {
	switch a.kind {
	case KindText:
		return a.text, nil
	case KindList:
		return a.List(), nil
	case KindNumber:
		return a.number, nil
	default:
		return nil, nil
	}
}
