package responsebuilder

import (
	"context"
	"encoding/json"
	"testing"

	"CSS-Society/site-backend/internal/form/question"
	"CSS-Society/site-backend/internal/form/response"
	"CSS-Society/site-backend/test/testdata"
	"CSS-Society/site-backend/test/testdata/dbbuilder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"
)

type Builder struct {
	t  *testing.T
	db dbbuilder.DBTX
}

func New(t *testing.T, db dbbuilder.DBTX) *Builder {
	return &Builder{t: t, db: db}
}

func (b Builder) Queries() *response.Queries {
	return response.New(b.db)
}

// Create stores one response to formID with the given answers.
func (b Builder) Create(formID uuid.UUID, answers ...question.Response) response.Record {
	if answers == nil {
		answers = []question.Response{}
	}
	raw, err := json.Marshal(answers)
	require.NoError(b.t, err)

	row, err := b.Queries().Create(context.Background(), response.CreateParams{
		FormID:    formID,
		Responses: raw,
		IpAddress: pgtype.Text{String: testdata.RandomIP(), Valid: true},
	})
	require.NoError(b.t, err)

	record, err := response.FromModel(row)
	require.NoError(b.t, err)

	return record
}
