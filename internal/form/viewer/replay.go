package viewer

import (
	"context"
	"encoding/json"

	"CSS-Society/site-backend/internal/form/question"

	"github.com/google/uuid"
)

// Replay drives a fresh session through a posted answer map the way a
// respondent would: capture the answer for each question, move on, and submit
// at the end. Answers for questions that are no longer in the form are
// ignored.
func Replay(ctx context.Context, formID uuid.UUID, questions []question.Question, answers map[string]json.RawMessage, submit SubmitFunc) error {
	session := NewSession(formID, questions)

	for {
		q, err := session.Current()
		if err != nil {
			return err
		}

		if raw, ok := answers[q.ID]; ok {
			err = session.SetAnswer(raw)
			if err != nil {
				return err
			}
		}

		if session.IsLast() {
			return session.Submit(ctx, submit)
		}

		err = session.GoToNext()
		if err != nil {
			return err
		}
	}
}
