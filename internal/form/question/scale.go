package question

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	RatingMin = 1
	RatingMax = 5
)

type NumberQuestion struct{}

func NewNumberQuestion() NumberQuestion {
	return NumberQuestion{}
}

func (n NumberQuestion) Type() Type {
	return TypeNumber
}

func (n NumberQuestion) Kind() Kind {
	return KindNumber
}

func (n NumberQuestion) HasOptions() bool {
	return false
}

func (n NumberQuestion) ValidateDefinition(q Question) error {
	if q.Validation == nil || q.Validation.Min == nil || q.Validation.Max == nil {
		return nil
	}

	if *q.Validation.Min > *q.Validation.Max {
		return ErrInvalidDefinition{
			QuestionID: q.ID,
			Message:    fmt.Sprintf("min %v is greater than max %v", *q.Validation.Min, *q.Validation.Max),
		}
	}
	return nil
}

// Capture parses a JSON number or a numeric string. Input that does not parse
// as a finite number clears the answer instead of failing.
func (n NumberQuestion) Capture(q Question, raw json.RawMessage) (Answer, error) {
	if isNull(raw) {
		return Answer{}, nil
	}

	trimmed := bytes.TrimSpace(raw)

	var value float64
	switch trimmed[0] {
	case '"':
		var s string
		err := json.Unmarshal(trimmed, &s)
		if err != nil {
			return Answer{}, nil
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return Answer{}, nil
		}
		value = parsed
	case '[', '{', 't', 'f':
		return Answer{}, ErrInvalidAnswer{
			QuestionID: q.ID,
			Type:       TypeNumber,
			Message:    "expected a number",
		}
	default:
		err := json.Unmarshal(trimmed, &value)
		if err != nil {
			return Answer{}, nil
		}
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Answer{}, nil
	}

	if q.Validation != nil {
		if q.Validation.Min != nil && value < *q.Validation.Min {
			return Answer{}, ErrInvalidAnswer{
				QuestionID: q.ID,
				Type:       TypeNumber,
				Message:    fmt.Sprintf("value %v is below the minimum %v", value, *q.Validation.Min),
			}
		}
		if q.Validation.Max != nil && value > *q.Validation.Max {
			return Answer{}, ErrInvalidAnswer{
				QuestionID: q.ID,
				Type:       TypeNumber,
				Message:    fmt.Sprintf("value %v is above the maximum %v", value, *q.Validation.Max),
			}
		}
	}

	return Number(value), nil
}

type Rating struct{}

func NewRating() Rating {
	return Rating{}
}

func (r Rating) Type() Type {
	return TypeRating
}

func (r Rating) Kind() Kind {
	return KindNumber
}

func (r Rating) HasOptions() bool {
	return false
}

func (r Rating) ValidateDefinition(q Question) error {
	return nil
}

// Capture accepts a whole star count between RatingMin and RatingMax.
func (r Rating) Capture(q Question, raw json.RawMessage) (Answer, error) {
	if isNull(raw) {
		return Answer{}, nil
	}

	var value float64
	err := json.Unmarshal(raw, &value)
	if err != nil {
		return Answer{}, ErrInvalidAnswer{
			QuestionID: q.ID,
			Type:       TypeRating,
			Message:    "expected a whole number",
		}
	}

	return r.Select(q, value)
}

func (r Rating) Select(q Question, value float64) (Answer, error) {
	if value != math.Trunc(value) || value < RatingMin || value > RatingMax {
		return Answer{}, ErrInvalidAnswer{
			QuestionID: q.ID,
			Type:       TypeRating,
			Message:    fmt.Sprintf("rating must be a whole number from %d to %d, got %v", RatingMin, RatingMax, value),
		}
	}
	return Number(value), nil
}
