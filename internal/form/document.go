package form

import (
	"encoding/json"
	"fmt"
	"time"

	"CSS-Society/site-backend/internal/form/question"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Document is a form with its question schema decoded. The zero ID marks a
// form that has not been stored yet.
type Document struct {
	ID          uuid.UUID
	Title       string
	Description string
	Questions   []question.Question
	IsActive    bool
	Version     int32
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (d Document) IsNew() bool {
	return d.ID == uuid.Nil
}

// Summary is a form listed with its response count.
type Summary struct {
	Document
	ResponseCount int64
}

func FromModel(f Form) (Document, error) {
	questions, err := decodeQuestions(f.ID, f.Questions)
	if err != nil {
		return Document{}, err
	}

	return Document{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description.String,
		Questions:   questions,
		IsActive:    f.IsActive,
		Version:     f.Version,
		CreatedAt:   f.CreatedAt.Time,
		UpdatedAt:   f.UpdatedAt.Time,
	}, nil
}

func fromListRow(row ListRow) (Summary, error) {
	doc, err := FromModel(Form{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Questions:   row.Questions,
		IsActive:    row.IsActive,
		Version:     row.Version,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	})
	if err != nil {
		return Summary{}, err
	}

	return Summary{Document: doc, ResponseCount: row.ResponseCount}, nil
}

func encodeQuestions(questions []question.Question) ([]byte, error) {
	if questions == nil {
		questions = []question.Question{}
	}
	return json.Marshal(questions)
}

func decodeQuestions(formID uuid.UUID, raw []byte) ([]question.Question, error) {
	if len(raw) == 0 {
		return []question.Question{}, nil
	}

	var questions []question.Question
	err := json.Unmarshal(raw, &questions)
	if err != nil {
		return nil, fmt.Errorf("decode questions of form %s: %w", formID, err)
	}
	if questions == nil {
		questions = []question.Question{}
	}
	return questions, nil
}

func toText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
