package response

import (
	"encoding/json"
	"fmt"
	"time"

	"CSS-Society/site-backend/internal/form/question"

	"github.com/google/uuid"
)

// Record is a stored submission with its answers decoded, in schema order.
type Record struct {
	ID          uuid.UUID
	FormID      uuid.UUID
	Responses   []question.Response
	SubmittedAt time.Time
	IPAddress   string
}

// Answer returns the answer given to questionID, or the absent answer.
func (r Record) Answer(questionID string) question.Answer {
	for _, response := range r.Responses {
		if response.QuestionID == questionID {
			return response.Answer
		}
	}
	return question.Answer{}
}

func FromModel(m FormResponse) (Record, error) {
	var responses []question.Response
	if len(m.Responses) > 0 {
		err := json.Unmarshal(m.Responses, &responses)
		if err != nil {
			return Record{}, fmt.Errorf("decode answers of response %s: %w", m.ID, err)
		}
	}
	if responses == nil {
		responses = []question.Response{}
	}

	return Record{
		ID:          m.ID,
		FormID:      m.FormID,
		Responses:   responses,
		SubmittedAt: m.SubmittedAt.Time,
		IPAddress:   m.IpAddress.String,
	}, nil
}
